package adminhttp

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dreamware/passivation/internal/passivation"
	"github.com/dreamware/passivation/internal/shard"
	"github.com/dreamware/passivation/internal/strategy"
)

// Server exposes a Manager over JSON HTTP for administrative tooling.
type Server struct {
	manager *passivation.Manager
	spawn   func(strategy.EntityID) shard.Worker
	mux     *http.ServeMux
}

// New builds a Server. spawn is used to create a Worker for any
// entity activated on a shard this Server hosts.
func New(manager *passivation.Manager, spawn func(strategy.EntityID) shard.Worker) *Server {
	s := &Server{manager: manager, spawn: spawn, mux: http.NewServeMux()}
	s.mux.HandleFunc("/shards/", s.handleShard)
	s.mux.HandleFunc("/shards", s.handleListShards)
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type entitySummary struct {
	ID          string `json:"id"`
	Incarnation string `json:"incarnation"`
}

type shardEntitiesResponse struct {
	Shard    string          `json:"shard"`
	Entities []entitySummary `json:"entities"`
}

func (s *Server) handleListShards(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	shards := s.manager.HostedShards()
	out := make([]string, 0, len(shards))
	for _, id := range shards {
		out = append(out, string(id))
	}
	_ = json.NewEncoder(w).Encode(struct {
		Shards []string `json:"shards"`
	}{Shards: out})
}

// handleShard dispatches on the path suffix after "/shards/{id}":
// GET returns the shard's active entities; POST .../activate hosts the
// shard; POST .../deactivate unhosts it.
func (s *Server) handleShard(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/shards/")
	if rest == "" {
		http.Error(w, "missing shard id", http.StatusBadRequest)
		return
	}

	id := rest
	action := ""
	if i := strings.LastIndex(rest, "/"); i >= 0 {
		id = rest[:i]
		action = rest[i+1:]
	}
	shardID := strategy.ShardID(id)

	switch {
	case action == "" && r.Method == http.MethodGet:
		s.getShard(w, shardID)
	case action == "activate" && r.Method == http.MethodPost:
		s.activateShard(w, shardID)
	case action == "deactivate" && r.Method == http.MethodPost:
		s.deactivateShard(w, shardID)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

func (s *Server) getShard(w http.ResponseWriter, id strategy.ShardID) {
	ctrl, ok := s.manager.Controller(id)
	if !ok {
		http.Error(w, "shard not hosted", http.StatusNotFound)
		return
	}
	active := ctrl.SnapshotActive()
	entities := make([]entitySummary, 0, len(active))
	for _, e := range active {
		inc, _ := ctrl.Incarnation(e)
		entities = append(entities, entitySummary{ID: string(e), Incarnation: string(inc)})
	}
	_ = json.NewEncoder(w).Encode(shardEntitiesResponse{Shard: string(id), Entities: entities})
}

func (s *Server) activateShard(w http.ResponseWriter, id strategy.ShardID) {
	s.manager.Register(id, s.spawn)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deactivateShard(w http.ResponseWriter, id strategy.ShardID) {
	s.manager.Unregister(id)
	w.WriteHeader(http.StatusNoContent)
}
