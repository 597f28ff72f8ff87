package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codepair/server/internal/ws"
)

// Routes builds the full HTTP surface: websocket endpoint, JSON API,
// Prometheus metrics, and (when staticDir is set) the client bundle with
// an index.html fallback for client-side routes.
func (a *API) Routes(staticDir string, limitRate float64, limitBurst int) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		ws.ServeWs(a.hub, limitRate, limitBurst, w, req)
	})

	r.HandleFunc("/health", a.HealthHandler).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	apiRoutes := r.PathPrefix("/api").Subrouter()
	apiRoutes.HandleFunc("/stats", a.StatsHandler).Methods(http.MethodGet)
	apiRoutes.HandleFunc("/rooms", a.ListRoomsHandler).Methods(http.MethodGet)
	apiRoutes.HandleFunc("/rooms/{id}", a.GetRoomHandler).Methods(http.MethodGet)

	if staticDir != "" {
		r.PathPrefix("/").Handler(spaHandler{dir: staticDir})
	}

	return r
}
