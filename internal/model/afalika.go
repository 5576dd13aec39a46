package model

import (
	"encoding/json"
	"time"
)

// SyncLog records one exchange between the backend and Afalika.
type SyncLog struct {
	Timestamp    time.Time       `json:"timestamp"`
	ID           string          `json:"id"`
	Operation    string          `json:"operation"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
	RequestData  json.RawMessage `json:"requestData,omitempty"`
	ResponseData json.RawMessage `json:"responseData,omitempty"`
}

// Failed reports whether the exchange ended with an error.
func (l SyncLog) Failed() bool {
	return l.ErrorMessage != ""
}

// SyncResponse is the backend's answer to a sync or status update trigger.
type SyncResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// PageMeta describes one page of a paginated backend list.
type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// SyncLogPage is one page of Afalika sync logs.
type SyncLogPage struct {
	Data []SyncLog `json:"data"`
	Meta PageMeta  `json:"meta"`
}
