package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/codepair/server/internal/store"
	"github.com/codepair/server/internal/ws"
)

type API struct {
	hub   *ws.Hub
	store *store.Store
}

func New(hub *ws.Hub, st *store.Store) *API {
	return &API{
		hub:   hub,
		store: st,
	}
}

func jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

func (a *API) HealthHandler(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats := map[string]interface{}{
		"active_rooms":   a.hub.GetRoomCount(),
		"active_clients": a.hub.GetClientCount(),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	}

	if a.store != nil {
		rooms, joins, edits, err := a.store.Totals()
		if err == nil {
			stats["total_rooms"] = rooms
			stats["total_joins"] = joins
			stats["total_edits"] = edits
		}
	}

	jsonResponse(w, http.StatusOK, stats)
}

// Room handlers

type RoomResponse struct {
	ID          string    `json:"id"`
	ActiveUsers int       `json:"active_users"`
	Members     []string  `json:"members,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	LastActive  time.Time `json:"last_active,omitempty"`
	Joins       int       `json:"joins_total,omitempty"`
	Edits       int       `json:"edits_total,omitempty"`
}

func (a *API) ListRoomsHandler(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	activeRooms := a.hub.GetActiveRooms()

	var response []RoomResponse
	if a.store != nil {
		rooms, err := a.store.ListRooms(limit, offset)
		if err != nil {
			errorResponse(w, http.StatusInternalServerError, "Failed to list rooms")
			return
		}
		for _, info := range rooms {
			response = append(response, RoomResponse{
				ID:          info.ID,
				ActiveUsers: activeRooms[info.ID],
				CreatedAt:   info.CreatedAt,
				LastActive:  info.LastActive,
				Joins:       info.Joins,
				Edits:       info.Edits,
			})
		}
	} else {
		for id, count := range activeRooms {
			response = append(response, RoomResponse{ID: id, ActiveUsers: count})
		}
	}

	if response == nil {
		response = []RoomResponse{}
	}

	jsonResponse(w, http.StatusOK, map[string]interface{}{
		"rooms":  response,
		"limit":  limit,
		"offset": offset,
	})
}

func (a *API) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["id"]
	if roomID == "" {
		errorResponse(w, http.StatusBadRequest, "Room ID is required")
		return
	}

	members := a.hub.GetRoomMembers(roomID)

	var info *store.RoomInfo
	if a.store != nil {
		var err error
		info, err = a.store.GetRoom(roomID)
		if err != nil {
			errorResponse(w, http.StatusInternalServerError, "Failed to get room")
			return
		}
	}

	if members == nil && info == nil {
		errorResponse(w, http.StatusNotFound, "Room not found")
		return
	}

	resp := RoomResponse{
		ID:          roomID,
		ActiveUsers: len(members),
		Members:     members,
	}
	if info != nil {
		resp.CreatedAt = info.CreatedAt
		resp.LastActive = info.LastActive
		resp.Joins = info.Joins
		resp.Edits = info.Edits
	}

	jsonResponse(w, http.StatusOK, resp)
}
