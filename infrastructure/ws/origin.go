package ws

import (
	"net/http"
	"net/url"
	"strings"
)

// normalizeOrigins lowercases scheme://host pairs and extracts the
// allow-all wildcard. Invalid entries are skipped.
func normalizeOrigins(origins []string) (map[string]struct{}, bool) {
	normalized := make(map[string]struct{}, len(origins))
	allowAll := false

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		if trimmed == "*" {
			allowAll = true
			continue
		}
		if norm, ok := normalizeOrigin(trimmed); ok {
			normalized[norm] = struct{}{}
		}
	}
	return normalized, allowAll
}

func normalizeOrigin(origin string) (string, bool) {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}
	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host), true
}

// checkOrigin gates the upgrade handshake. Requests without an Origin
// header (non-browser clients) pass; browser origins must be on the
// configured allow-list unless the wildcard is set.
func (s *Server) checkOrigin(r *http.Request) bool {
	originHeader := r.Header.Get("Origin")
	if originHeader == "" {
		return true
	}
	if s.allowAllOrigins {
		return true
	}
	norm, ok := normalizeOrigin(originHeader)
	if !ok {
		return false
	}
	_, allowed := s.allowedOrigins[norm]
	if !allowed {
		s.log.Warn("Blocked upgrade from disallowed origin", "origin", originHeader)
	}
	return allowed
}
