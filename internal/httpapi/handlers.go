package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/DoyleJ11/hanabot/internal/hub"
	"github.com/DoyleJ11/hanabot/internal/protocol"
	"github.com/DoyleJ11/hanabot/internal/session"
	"github.com/go-chi/chi/v5"
)

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func ListBots(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := h.List(r.Context())
		if err != nil {
			http.Error(w, "hub unavailable", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Bots []string `json:"bots"`
		}{Bots: names})
	}
}

func GetBot(h *hub.Hub) http.HandlerFunc {
	return withSession(h, func(w http.ResponseWriter, r *http.Request, s *session.Session) {
		v, err := s.View(r.Context())
		if err != nil {
			sessionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	})
}

func JoinTable(h *hub.Hub) http.HandlerFunc {
	return withSession(h, func(w http.ResponseWriter, r *http.Request, s *session.Session) {
		table := r.URL.Query().Get("table")
		if table == "" {
			http.Error(w, "missing table", http.StatusBadRequest)
			return
		}
		accepted(w, s.JoinTable(r.Context(), table))
	})
}

func FollowUser(h *hub.Hub) http.HandlerFunc {
	return withSession(h, func(w http.ResponseWriter, r *http.Request, s *session.Session) {
		user := r.URL.Query().Get("user")
		if user == "" {
			http.Error(w, "missing user", http.StatusBadRequest)
			return
		}
		accepted(w, s.FollowUser(r.Context(), user))
	})
}

func StartTable(h *hub.Hub) http.HandlerFunc {
	return withSession(h, func(w http.ResponseWriter, r *http.Request, s *session.Session) {
		accepted(w, s.Start(r.Context()))
	})
}

func CreateTable(h *hub.Hub) http.HandlerFunc {
	return withSession(h, func(w http.ResponseWriter, r *http.Request, s *session.Session) {
		var tc protocol.TableCreate
		if r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&tc); err != nil {
				http.Error(w, "bad json", http.StatusBadRequest)
				return
			}
		}
		if tc.MaxPlayers != 0 && (tc.MaxPlayers < 2 || tc.MaxPlayers > 6) {
			http.Error(w, "maxPlayers must be 2 to 6", http.StatusBadRequest)
			return
		}
		accepted(w, s.CreateTable(r.Context(), tc))
	})
}

func withSession(h *hub.Hub, fn func(http.ResponseWriter, *http.Request, *session.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := h.Get(r.Context(), chi.URLParam(r, "name"))
		if err != nil {
			http.Error(w, "hub unavailable", http.StatusServiceUnavailable)
			return
		}
		if s == nil {
			http.Error(w, "bot not found", http.StatusNotFound)
			return
		}
		fn(w, r, s)
	}
}

func accepted(w http.ResponseWriter, err error) {
	if err != nil {
		sessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func sessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrClosed):
		http.Error(w, "bot is not running", http.StatusConflict)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		http.Error(w, "request cancelled", http.StatusServiceUnavailable)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
