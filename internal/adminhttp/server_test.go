package adminhttp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/passivation/internal/clock"
	"github.com/dreamware/passivation/internal/logging"
	"github.com/dreamware/passivation/internal/passivation"
	"github.com/dreamware/passivation/internal/shard"
	"github.com/dreamware/passivation/internal/strategy"
)

type noopWorker struct{}

func (noopWorker) Deliver(any) {}
func (noopWorker) Stop(any)    {}

type noopMetrics struct{}

func (noopMetrics) RecordEviction(strategy.ShardID, string) {}
func (noopMetrics) RecordBufferDrop(strategy.ShardID)       {}
func (noopMetrics) RecordSweepDuration(time.Duration)       {}
func (noopMetrics) SetActiveEntities(strategy.ShardID, int) {}

func newTestServer() (*Server, *passivation.Manager) {
	m := passivation.New(passivation.Config{
		Strategy:       strategy.NewNone(),
		Clock:          clock.NewFake(time.Unix(0, 0)),
		Metrics:        noopMetrics{},
		Logger:         logging.Noop{},
		BufferSize:     4,
		HandOffTimeout: time.Minute,
	})
	spawn := func(strategy.EntityID) shard.Worker { return noopWorker{} }
	return New(m, spawn), m
}

func TestActivateThenGetShard(t *testing.T) {
	s, m := newTestServer()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/shards/s1/activate", nil)
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	ctrl, ok := m.Controller("s1")
	require.True(t, ok)
	ctrl.Deliver("e1", "hello")

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/shards/s1", nil)
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body shardEntitiesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "s1", body.Shard)
	require.Len(t, body.Entities, 1)
	assert.Equal(t, "e1", body.Entities[0].ID)
	assert.NotEmpty(t, body.Entities[0].Incarnation)
}

func TestIncarnationChangesAcrossPassivationCycle(t *testing.T) {
	_, m := newTestServer()

	ctrl := m.Register("s1", func(strategy.EntityID) shard.Worker { return noopWorker{} })
	ctrl.Deliver("e1", "hello")
	first, ok := ctrl.Incarnation("e1")
	require.True(t, ok)
	require.NotEmpty(t, first)

	ctrl.Passivate("e1", shard.StopSignal{})
	ctrl.Terminated("e1")
	ctrl.Deliver("e1", "hello again")

	second, ok := ctrl.Incarnation("e1")
	require.True(t, ok)
	assert.NotEqual(t, first, second, "a reactivated entity must get a fresh worker incarnation")
}

func TestGetUnhostedShardReturnsNotFound(t *testing.T) {
	s, _ := newTestServer()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/shards/ghost", nil)
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeactivateRemovesShardFromListing(t *testing.T) {
	s, _ := newTestServer()

	post := func(path string) int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, nil)
		s.ServeHTTP(rec, req)
		return rec.Code
	}
	require.Equal(t, http.StatusNoContent, post("/shards/s1/activate"))
	require.Equal(t, http.StatusNoContent, post("/shards/s1/deactivate"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/shards", nil)
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Shards []string `json:"shards"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Shards)
}
