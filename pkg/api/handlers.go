package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Server holds the HTTP handlers' dependencies.
type Server struct {
	store   *Store
	metrics *Metrics
	log     zerolog.Logger
}

// NewServer builds a Server over store.
func NewServer(store *Store, metrics *Metrics, log zerolog.Logger) *Server {
	return &Server{store: store, metrics: metrics, log: log}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

type putRequest struct {
	Value     string `json:"value"`
	TTLSecond int    `json:"ttl_seconds,omitempty"`
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		sendError(w, http.StatusBadRequest, "key is required")
		return
	}

	var req putRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.RecordOperation("put", false)
		sendError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var old string
	var hadOld bool
	if req.TTLSecond > 0 {
		old, hadOld = s.store.PutTTL(key, req.Value, time.Duration(req.TTLSecond)*time.Second)
	} else {
		old, hadOld = s.store.Put(key, req.Value)
	}

	s.metrics.RecordOperation("put", true)
	s.metrics.SetItemCount(s.store.Len())
	sendJSON(w, http.StatusOK, map[string]any{
		"previous_value": old,
		"had_previous":   hadOld,
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	value, expired, ok := s.store.Get(key)
	if !ok {
		s.metrics.RecordOperation("get", false)
		sendError(w, http.StatusNotFound, "key not found")
		return
	}
	s.metrics.RecordOperation("get", true)
	sendJSON(w, http.StatusOK, map[string]any{
		"key":     key,
		"value":   value,
		"expired": expired,
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	ok := s.store.Delete(key)
	s.metrics.RecordOperation("delete", ok)
	s.metrics.SetItemCount(s.store.Len())
	if !ok {
		sendError(w, http.StatusNotFound, "key not found")
		return
	}
	sendJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

func (s *Server) handleRange(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	limit := 100
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	results := s.store.Range(from, limit)
	s.metrics.RecordOperation("range", true)
	sendJSON(w, http.StatusOK, map[string]any{"items": results})
}

type splitOffRequest struct {
	Key string `json:"key"`
}

func (s *Server) handleSplitOff(w http.ResponseWriter, r *http.Request) {
	var req splitOffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	right := s.store.SplitOff(req.Key)
	s.metrics.RecordOperation("split_off", true)
	s.log.Info().Str("key", req.Key).Int("moved", right.Len()).Msg("split_off completed")
	sendJSON(w, http.StatusOK, map[string]any{
		"left_len":  s.store.Len(),
		"right_len": right.Len(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]any{"items": s.store.Len()})
}

func sendJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func sendError(w http.ResponseWriter, status int, message string) {
	sendJSON(w, status, map[string]string{"error": message})
}
