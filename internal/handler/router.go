package handler

import (
	"net/http"

	"meal-labels/internal/domain"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured.
// The page and its form post stay public; authMiddleware guards /api/v1
// and may be nil, in which case the API is open too.
func NewRouter(
	labelHandler *LabelHandler,
	authMiddleware func(http.Handler) http.Handler,
	logger domain.Logger,
) http.Handler {
	router := mux.NewRouter()
	router.Use(RequestLogger(logger))

	// Health check endpoint (no auth required)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "meal-labels"})
	}).Methods(http.MethodGet)

	router.HandleFunc("/", labelHandler.Index).Methods(http.MethodGet)
	router.HandleFunc("/labels", labelHandler.Generate).Methods(http.MethodPost)

	api := router.PathPrefix("/api/v1").Subrouter()
	if authMiddleware != nil {
		api.Use(authMiddleware)
	}

	api.HandleFunc("/labels", labelHandler.GenerateFragment).Methods(http.MethodPost)

	// Session check only makes sense when tokens are required
	if authMiddleware != nil {
		api.HandleFunc("/auth/validate", NewAuthHandler().ValidateToken).Methods(http.MethodGet)
	}

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://localhost:4173",
			"http://localhost:3000",
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			requestIDHeader,
		},
		ExposedHeaders: []string{
			requestIDHeader,
		},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	})

	return c.Handler(router)
}
