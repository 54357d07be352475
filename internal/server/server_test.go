package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beesaferoot/seatctl/internal/floorplan"
	"github.com/beesaferoot/seatctl/internal/gateway"
	"github.com/beesaferoot/seatctl/internal/models"
	"github.com/beesaferoot/seatctl/internal/store"
)

type fakeSource struct {
	floors map[int]*models.Floor
	svgs   map[int]string
}

func (f *fakeSource) ListFloors(ctx context.Context) ([]*models.Floor, error) {
	out := make([]*models.Floor, 0, len(f.floors))
	for _, fl := range f.floors {
		out = append(out, fl)
	}
	return out, nil
}

func (f *fakeSource) GetFloor(ctx context.Context, n int) (*models.Floor, error) {
	if fl, ok := f.floors[n]; ok {
		return fl, nil
	}
	return nil, &gateway.Error{Kind: gateway.KindNotFound, Method: http.MethodGet, Path: "/floors", Status: http.StatusNotFound}
}

func (f *fakeSource) GetFloorSVG(ctx context.Context, n int) (string, error) {
	if s, ok := f.svgs[n]; ok {
		return s, nil
	}
	return "", &gateway.Error{Kind: gateway.KindNotFound, Method: http.MethodGet, Path: "/floors/svg", Status: http.StatusNotFound}
}

// slowSource holds GetFloor until release is closed and fails when the
// context it was given has been cancelled by then.
type slowSource struct {
	*fakeSource
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (s *slowSource) GetFloor(ctx context.Context, n int) (*models.Floor, error) {
	s.once.Do(func() { close(s.started) })
	<-s.release
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.fakeSource.GetFloor(ctx, n)
}

func newTestServer(t *testing.T) (*Server, *store.Store) {
	src := &fakeSource{
		floors: map[int]*models.Floor{
			1: {ID: 1, FloorNumber: 1, Name: "First", Rooms: []*models.Room{
				{ID: 12, RoomNumber: "12", Seats: []*models.Seat{{ID: 120, SeatNumber: "12-1"}}},
				{ID: 9, RoomNumber: "9", Seats: []*models.Seat{}},
			}},
		},
		svgs: map[int]string{1: `<svg viewBox="0 0 100 100"><rect width="100" height="100"/></svg>`},
	}
	st := store.New(src, nil)
	require.NoError(t, st.LoadFloors(context.Background()))
	return New(src, st, nil, prometheus.NewRegistry(), floorplan.DefaultOptions()), st
}

func serve(s *Server, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)
	rec := serve(s, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListFloors(t *testing.T) {
	s, _ := newTestServer(t)
	rec := serve(s, "/floors")
	require.Equal(t, http.StatusOK, rec.Code)

	var floors []models.Floor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &floors))
	require.Len(t, floors, 1)
	assert.Equal(t, "First", floors[0].Name)
}

func TestGetFloor_SortsRooms(t *testing.T) {
	s, _ := newTestServer(t)
	rec := serve(s, "/floors/1")
	require.Equal(t, http.StatusOK, rec.Code)

	var floor models.Floor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &floor))
	require.Len(t, floor.Rooms, 2)
	assert.Equal(t, "9", floor.Rooms[0].RoomNumber)
}

func TestGetFloor_NotFound(t *testing.T) {
	s, _ := newTestServer(t)
	rec := serve(s, "/floors/7")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")

	assert.Equal(t, http.StatusNotFound, serve(s, "/floors/abc").Code)
}

func TestGetPlan(t *testing.T) {
	s, st := newTestServer(t)
	require.True(t, st.SelectFloor(1))
	require.True(t, st.ToggleSeatOccupancy(12, 120))

	rec := serve(s, "/floors/1/plan.svg")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "<svg"))
	assert.Contains(t, body, floorplan.InteractiveLayerID)
	assert.Contains(t, body, `class="seat seat-occupied" data-seat-id="120"`)
	assert.Contains(t, body, "scale(0.9)")

	rec = serve(s, "/floors/1/plan.svg?scale=2")
	assert.Contains(t, rec.Body.String(), "scale(2)")

	assert.Equal(t, http.StatusBadRequest, serve(s, "/floors/1/plan.svg?scale=-1").Code)
	assert.Equal(t, http.StatusNotFound, serve(s, "/floors/3/plan.svg").Code)
}

func TestMetrics(t *testing.T) {
	s, _ := newTestServer(t)
	serve(s, "/healthz")
	serve(s, "/floors/7")

	assert.Equal(t, 1.0, testutil.ToFloat64(s.requests.WithLabelValues("/healthz", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.requests.WithLabelValues("/floors/{n:[0-9]+}", "404")))

	rec := serve(s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "seatctl_server_requests_total")
}

func TestHandler_Gzip(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/floors/1/plan.svg", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestGetFloor_CancelledRequestDoesNotFailSharedFetch(t *testing.T) {
	base, _ := newTestServer(t)
	src := &slowSource{
		fakeSource: base.source.(*fakeSource),
		started:    make(chan struct{}),
		release:    make(chan struct{}),
	}
	s := New(src, store.New(src, nil), nil, prometheus.NewRegistry(), floorplan.DefaultOptions())

	ctxA, cancelA := context.WithCancel(context.Background())
	recA := httptest.NewRecorder()
	doneA := make(chan struct{})
	go func() {
		defer close(doneA)
		req := httptest.NewRequest(http.MethodGet, "/floors/1", nil).WithContext(ctxA)
		s.Router().ServeHTTP(recA, req)
	}()
	<-src.started

	recB := httptest.NewRecorder()
	doneB := make(chan struct{})
	go func() {
		defer close(doneB)
		s.Router().ServeHTTP(recB, httptest.NewRequest(http.MethodGet, "/floors/1", nil))
	}()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	<-doneA
	assert.Equal(t, http.StatusBadGateway, recA.Code)

	close(src.release)
	<-doneB
	require.Equal(t, http.StatusOK, recB.Code, recB.Body.String())
	assert.Contains(t, recB.Body.String(), "First")
}

func TestNew_NilRegistry(t *testing.T) {
	base, st := newTestServer(t)
	var s *Server
	require.NotPanics(t, func() {
		s = New(base.source, st, nil, nil, floorplan.DefaultOptions())
	})
	assert.Equal(t, http.StatusOK, serve(s, "/healthz").Code)
	assert.Equal(t, http.StatusOK, serve(s, "/metrics").Code)
}
