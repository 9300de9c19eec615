package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"kardia/internal"
)

// OpsRouter serves the operational endpoints on a separate port: health
// probes, model info, and profiling.
func OpsRouter(modelVersion string, logger *internal.Logger) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})
	router.Get("/modelz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("model: " + modelVersion))
	})
	router.Mount("/debug", middleware.Profiler())

	return router
}

// StartOps runs the ops router on its own port
func StartOps(port, modelVersion string, logger *internal.Logger) error {
	logger.Info("starting ops server on :%s", port)
	return http.ListenAndServe(":"+port, OpsRouter(modelVersion, logger))
}
