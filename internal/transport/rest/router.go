package rest

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"roomrelay/internal/metrics"
	"roomrelay/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	WSHandler *ws.Handler
	Origins   []string
}

// NewRouter creates the HTTP surface: health checks, metrics and the
// WebSocket endpoint.
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", health).Methods("GET")
	r.HandleFunc("/healthz", health).Methods("GET")
	r.Handle("/metrics", metrics.Handler()).Methods("GET")
	r.HandleFunc("/ws", c.WSHandler.Serve).Methods("GET")

	corsMW := cors.New(cors.Options{
		AllowedOrigins:   c.Origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	return corsMW.Handler(r)
}

func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Multiplayer relay server is running",
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
