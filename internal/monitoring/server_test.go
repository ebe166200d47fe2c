package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"iaros/kitlogistics/internal/events"
	"iaros/kitlogistics/internal/kit"
	"iaros/kitlogistics/internal/orchestrator"
)

// fakeSource is a minimal SnapshotSource double, avoiding the need to
// spin up a full orchestrator (and its transport/mirror deps) just to
// exercise the read-only REST surface.
type fakeSource struct {
	snap *orchestrator.Snapshot
	reg  *prometheus.Registry
}

func (f *fakeSource) Snapshot() *orchestrator.Snapshot       { return f.snap }
func (f *fakeSource) PrometheusRegistry() *prometheus.Registry { return f.reg }

func newTestServer() *Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "test_counter", Help: "test"}))
	src := &fakeSource{
		snap: &orchestrator.Snapshot{
			State:               orchestrator.Running,
			Round:               3,
			Day:                 0,
			Hour:                3,
			TotalCost:           1250.50,
			CumulativeDecisions: 3,
			CumulativePurchases: kit.VectorOf(10, 0, 0, 40),
			RecentPenalties:     []events.Penalty{{Code: "LATE_LOAD", Penalty: 50}},
			InventoryByAirport:  map[string]kit.Vector{"HUB": kit.VectorOf(90, 0, 0, 360)},
			History: []orchestrator.RoundResult{
				{Round: 1, SubmittedAt: time.Unix(0, 0), RoundTotalCost: 100, PurchasesSubmitted: kit.VectorOf(5, 0, 0, 20)},
				{Round: 2, SubmittedAt: time.Unix(3600, 0), RoundTotalCost: 200, PurchasesSubmitted: kit.VectorOf(5, 0, 0, 20)},
			},
		},
		reg: reg,
	}
	return New(src, 0, 0, nil)
}

func TestHandleStatus(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	srv.apiServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "RUNNING", got.State)
	require.Equal(t, 3, got.Round)
	require.Equal(t, 1250.50, got.TotalCost)
	require.Len(t, got.RecentPenalties, 1)
}

func TestHandleInventory(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/inventory", nil)
	rec := httptest.NewRecorder()
	srv.apiServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got InventoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, 90, got.ByAirport["HUB"].First)
	require.Equal(t, 360, got.ByAirport["HUB"].Economy)
}

func TestHandleHistoryRespectsLimit(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/history?limit=1", nil)
	rec := httptest.NewRecorder()
	srv.apiServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []HistoryEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	require.Equal(t, 2, got[0].Round)
}

func TestHandleMetricsServesPrometheusExposition(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.apiServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "test_counter")
}
