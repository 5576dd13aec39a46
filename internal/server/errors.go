package server

import (
	"errors"
	"net/http"

	"github.com/kaba-chine/kaba-admin/internal/common"
	"github.com/kaba-chine/kaba-admin/internal/filter"
)

// httpStatus maps an error onto the status returned to the caller.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, common.ErrInvalidInput),
		errors.Is(err, common.ErrReasonRequired),
		errors.Is(err, common.ErrInvalidRate),
		errors.Is(err, filter.ErrInvalidCriteria):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrBackend),
		errors.Is(err, common.ErrRateLimit):
		return http.StatusBadGateway
	case errors.Is(err, common.ErrMissingConfig):
		return http.StatusServiceUnavailable
	}

	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// publicMessage hides internal failures and keeps messages meant for the administrator.
func publicMessage(err error, status int) string {
	var userErr *common.UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}

	switch status {
	case http.StatusBadRequest:
		return err.Error()
	case http.StatusNotFound:
		return "Ressource introuvable"
	case http.StatusUnauthorized:
		return "Authentification requise"
	case http.StatusBadGateway:
		return "Le serveur KABA est indisponible"
	case http.StatusServiceUnavailable:
		return "Service non configuré"
	default:
		return "Erreur interne"
	}
}
