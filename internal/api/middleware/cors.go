package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// CORS allows the given origins to call the API with credentials. Report
// downloads need Content-Disposition exposed to read the filename.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			RequestIDHeader,
		},
		ExposedHeaders: []string{
			RequestIDHeader,
			"Content-Disposition",
			HeaderRateLimitLimit,
			HeaderRateLimitRemaining,
			HeaderRateLimitReset,
		},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// FrontendCORS allows frontendURL plus the local dev servers when the
// frontend itself runs locally.
func FrontendCORS(frontendURL string) func(http.Handler) http.Handler {
	allowedOrigins := []string{strings.TrimRight(frontendURL, "/")}

	if strings.Contains(frontendURL, "localhost") || strings.Contains(frontendURL, "127.0.0.1") {
		allowedOrigins = append(allowedOrigins,
			"http://localhost:3000",
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		)
	}

	return CORS(allowedOrigins)
}
