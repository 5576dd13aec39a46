package normalize

import (
	"log/slog"
	"strings"

	"github.com/kaba-chine/kaba-admin/internal/common"
)

// DefaultPlaceholderHosts are host fragments of tunnel and LAN addresses that leak into stored upload URLs.
var DefaultPlaceholderHosts = []string{"ngrok-free.app", "192.168"}

const (
	uploadsPrefix = "/uploads"
	uploadsDir    = "/uploads/"
	apiPattern    = `https?://[^/]+/api`
)

// ImageResolver rewrites upload paths and stale hosts to the configured backend.
type ImageResolver struct {
	apiBase          string
	origin           string
	placeholderHosts []string
}

// NewImageResolver creates a resolver for the given API base URL. The server origin
// is the base with a trailing /api removed. A nil host list uses DefaultPlaceholderHosts.
func NewImageResolver(apiBase string, placeholderHosts []string) *ImageResolver {
	apiBase = strings.TrimSuffix(apiBase, "/")
	if placeholderHosts == nil {
		placeholderHosts = DefaultPlaceholderHosts
	}
	return &ImageResolver{
		apiBase:          apiBase,
		origin:           strings.TrimSuffix(apiBase, "/api"),
		placeholderHosts: placeholderHosts,
	}
}

// Origin returns the server origin uploads are served from.
func (r *ImageResolver) Origin() string {
	return r.origin
}

// Resolve returns the canonical absolute URL for an image reference.
// Empty input yields "", and any failure returns the input unchanged.
func (r *ImageResolver) Resolve(url string) (resolved string) {
	if url == "" {
		return ""
	}

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("failed to resolve image url", "url", url, "panic", rec)
			resolved = url
		}
	}()

	if r.isCanonical(url) {
		return url
	}

	if strings.HasPrefix(url, uploadsPrefix) {
		return r.origin + url
	}

	if !r.hasPlaceholderHost(url) {
		return url
	}

	if idx := strings.Index(url, uploadsDir); idx >= 0 {
		return r.origin + url[idx:]
	}

	out, err := common.ReplaceFirst(apiPattern, url, r.apiBase)
	if err != nil {
		slog.Error("failed to resolve image url", "url", url, "error", err)
		return url
	}
	return out
}

func (r *ImageResolver) isCanonical(url string) bool {
	if r.origin == "" {
		return false
	}
	return url == r.origin || strings.HasPrefix(url, r.origin+"/")
}

func (r *ImageResolver) hasPlaceholderHost(url string) bool {
	for _, host := range r.placeholderHosts {
		if host != "" && strings.Contains(url, host) {
			return true
		}
	}
	return false
}
