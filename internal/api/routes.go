package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// SetupRoutes registers every endpoint. OPTIONS is accepted on each route so
// that CORS preflight requests reach the middleware chain.
func SetupRoutes(router *mux.Router, handler *Handler) {
	router.HandleFunc("/", handler.Root).Methods(http.MethodGet, http.MethodOptions)
	router.HandleFunc(basicTasksPath, handler.GetBasicTasks).Methods(http.MethodGet, http.MethodOptions)
	router.HandleFunc(advancedTasksPath, handler.GetAdvancedTasks).Methods(http.MethodGet, http.MethodOptions)
	router.HandleFunc(docsPath, handler.Docs).Methods(http.MethodGet, http.MethodOptions)
	router.HandleFunc(healthPath, handler.HealthCheck).Methods(http.MethodGet, http.MethodOptions)
}
