// Package server exposes composed floor plans and store state over HTTP for
// browser preview.
package server

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/beesaferoot/seatctl/internal/floorplan"
	"github.com/beesaferoot/seatctl/internal/gateway"
	"github.com/beesaferoot/seatctl/internal/models"
	"github.com/beesaferoot/seatctl/internal/store"
)

// Source fetches floor data and artwork.
type Source interface {
	GetFloor(ctx context.Context, floorNumber int) (*models.Floor, error)
	GetFloorSVG(ctx context.Context, floorNumber int) (string, error)
}

type Server struct {
	source   Source
	store    *store.Store
	logger   *zap.Logger
	gatherer prometheus.Gatherer
	opts     floorplan.Options

	group    singleflight.Group
	requests *prometheus.CounterVec
}

// New builds a server. reg receives the server's metrics and is served on
// /metrics.
func New(source Source, st *store.Store, logger *zap.Logger, reg *prometheus.Registry, opts floorplan.Options) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "seatctl_server_requests_total",
		Help: "Preview server requests by route and status code.",
	}, []string{"route", "code"})
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	reg.MustRegister(requests)

	return &Server{
		source:   source,
		store:    st,
		logger:   logger,
		gatherer: reg,
		opts:     opts.WithDefaults(),
		requests: requests,
	}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.observe)
	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	r.HandleFunc("/floors", s.listFloors).Methods(http.MethodGet)
	r.HandleFunc("/floors/{n:[0-9]+}", s.getFloor).Methods(http.MethodGet)
	r.HandleFunc("/floors/{n:[0-9]+}/plan.svg", s.getPlan).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return r
}

// Handler wraps the router with CORS and gzip. Responses of any size are
// compressed.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	})
	gz, err := gziphandler.NewGzipLevelAndMinSize(gzip.DefaultCompression, 0)
	if err != nil {
		s.logger.Warn("gzip disabled", zap.Error(err))
		return c.Handler(s.Router())
	}
	return c.Handler(gz(s.Router()))
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		return nil
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listFloors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Floors())
}

func (s *Server) getFloor(w http.ResponseWriter, r *http.Request) {
	n, _ := strconv.Atoi(mux.Vars(r)["n"])
	floor, err := s.floor(r.Context(), n)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, floor)
}

func (s *Server) getPlan(w http.ResponseWriter, r *http.Request) {
	n, _ := strconv.Atoi(mux.Vars(r)["n"])
	scale := s.opts.InitialScale
	if v := r.URL.Query().Get("scale"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "scale must be a positive number"})
			return
		}
		scale = f
	}

	var (
		text  string
		floor *models.Floor
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		v, err := s.shared(ctx, fmt.Sprintf("svg/%d", n), func(ctx context.Context) (any, error) {
			return s.source.GetFloorSVG(ctx, n)
		})
		if err != nil {
			return err
		}
		text = v.(string)
		return nil
	})
	g.Go(func() error {
		var err error
		floor, err = s.floor(ctx, n)
		return err
	})
	if err := g.Wait(); err != nil {
		s.writeError(w, err)
		return
	}

	doc := floorplan.Compose(text, floor, floorplan.NewViewport(s.opts.MinScale, s.opts.MaxScale), scale)
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	if _, err := doc.WriteTo(w); err != nil {
		s.logger.Error("failed to write plan", zap.Int("floor_number", n), zap.Error(err))
	}
}

// floor prefers the store's selection and otherwise fetches the floor.
func (s *Server) floor(ctx context.Context, n int) (*models.Floor, error) {
	if sel := s.store.SelectedFloor(); sel != nil && sel.FloorNumber == n {
		return sel, nil
	}
	v, err := s.shared(ctx, fmt.Sprintf("floor/%d", n), func(ctx context.Context) (any, error) {
		return s.source.GetFloor(ctx, n)
	})
	if err != nil {
		return nil, err
	}
	f := *v.(*models.Floor)
	f.Rooms = models.SortRooms(f.Rooms)
	return &f, nil
}

// shared runs fn once per key across concurrent callers. The fetch is
// detached from the caller that started it, so one cancelled request does
// not fail the others; each caller still stops waiting when its own ctx ends.
func (s *Server) shared(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	detached := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		return fn(detached)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	if gateway.IsNotFound(err) {
		status = http.StatusNotFound
	}
	s.logger.Warn("request failed", zap.Int("status", status), zap.Error(err))
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		s.requests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
