package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// corsPolicy is the browser access policy of the device API.
type corsPolicy struct {
	Origins     []string
	Credentials bool
	MaxAge      time.Duration
}

// deviceAPIMethods are the methods the /v1 routes answer to.
var deviceAPIMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodDelete,
}

// newCORSMiddleware builds the CORS middleware for browser based configuration
// consoles. It returns nil when no usable origin is left after filtering.
//
// A "*" entry opens the API to every origin; credentials are then refused
// because browsers reject a wildcard origin on credentialed requests.
func newCORSMiddleware(policy corsPolicy, logger *slog.Logger) gin.HandlerFunc {
	anyOrigin, origins := filterOrigins(policy.Origins, logger)
	if !anyOrigin && len(origins) == 0 {
		logger.Warn("CORS enabled but no valid origin configured, browser access stays closed")
		return nil
	}

	config := cors.Config{
		AllowMethods:     deviceAPIMethods,
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: policy.Credentials,
		MaxAge:           policy.MaxAge,
	}
	if anyOrigin {
		if policy.Credentials {
			logger.Warn("CORS credentials ignored for wildcard origin")
		}
		config.AllowAllOrigins = true
		config.AllowCredentials = false
	} else {
		config.AllowOrigins = origins
	}

	logger.Info("CORS enabled",
		slog.Bool("any_origin", anyOrigin),
		slog.Any("origins", origins),
		slog.Bool("credentials", config.AllowCredentials),
		slog.Duration("max_age", policy.MaxAge))

	return cors.New(config)
}

// filterOrigins trims the configured origins and keeps the ones a browser can
// send: an http or https scheme with a host and nothing after it. A "*" entry
// is reported separately.
func filterOrigins(raw []string, logger *slog.Logger) (anyOrigin bool, origins []string) {
	for _, entry := range raw {
		entry = strings.TrimSpace(entry)
		switch {
		case entry == "":
			continue
		case entry == "*":
			anyOrigin = true
			continue
		}

		origin, ok := normalizeOrigin(entry)
		if !ok {
			logger.Warn("ignoring invalid CORS origin", slog.String("origin", entry))
			continue
		}
		origins = append(origins, origin)
	}
	if anyOrigin {
		return true, nil
	}
	return false, origins
}

// normalizeOrigin returns the scheme://host[:port] form of origin.
func normalizeOrigin(origin string) (string, bool) {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" || u.User != nil {
		return "", false
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host), true
}
