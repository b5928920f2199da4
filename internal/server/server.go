package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jtsunne/opsdash/internal/chart"
	"github.com/jtsunne/opsdash/internal/sim"
)

const (
	maxRange = 10

	defaultChartCols = 60
	defaultChartRows = 8
	maxChartCols     = 400
	maxChartRows     = 100
)

// Controller is the command side of the dashboard. In headless mode it is
// the clock itself; with the terminal UI running, commands are forwarded to
// the UI loop so they interleave with ticks there.
type Controller interface {
	Snapshot() sim.Snapshot
	Simulate()
	Burst(rangeN int)
	Dismiss(id uint64)
}

// ClockController drives a Clock directly.
type ClockController struct {
	Clock *sim.Clock
}

func (c ClockController) Snapshot() sim.Snapshot { return c.Clock.Snapshot() }
func (c ClockController) Simulate() { c.Clock.Simulate() }
func (c ClockController) Burst(rangeN int) { c.Clock.Burst(rangeN) }
func (c ClockController) Dismiss(id uint64) { c.Clock.Dismiss(id) }

// Server is the HTTP and websocket surface.
type Server struct {
	ctrl      Controller
	hub       *Hub
	theme     chart.ThemeSource
	chartOpts []chart.Option
	gatherer  prometheus.Gatherer
	logger    *zap.Logger
}

type Option func(*Server)

// WithTheme sets the accent used by the chart endpoint.
func WithTheme(t chart.ThemeSource) Option {
	return func(s *Server) { s.theme = t }
}

// WithChartOptions passes renderer options to the chart endpoint.
func WithChartOptions(opts ...chart.Option) Option {
	return func(s *Server) { s.chartOpts = opts }
}

// WithGatherer exposes the given registry on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithLogger sets the logger; nil discards.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l == nil {
			l = zap.NewNop()
		}
		s.logger = l.Named("http")
	}
}

func New(ctrl Controller, hub *Hub, opts ...Option) *Server {
	s := &Server{
		ctrl:     ctrl,
		hub:      hub,
		theme:    chart.StaticTheme("#3b82f6"),
		gatherer: prometheus.DefaultGatherer,
		logger:   zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler builds the gin router.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		api.GET("/snapshot", s.getSnapshot)
		api.POST("/alerts/simulate", s.simulate)
		api.DELETE("/alerts/:id", s.dismiss)
		api.POST("/range/:n", s.burst)
		api.GET("/charts/:metric", s.getChart)
	}
	r.GET("/ws", s.serveWS)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	return r
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) getSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, s.ctrl.Snapshot())
}

func (s *Server) simulate(c *gin.Context) {
	s.ctrl.Simulate()
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

func (s *Server) dismiss(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert id"})
		return
	}
	s.ctrl.Dismiss(id)
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

func (s *Server) burst(c *gin.Context) {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil || n < 1 || n > maxRange {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("range must be within 1..%d", maxRange)})
		return
	}
	s.ctrl.Burst(n)
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted", "range": n})
}

func (s *Server) getChart(c *gin.Context) {
	snap := s.ctrl.Snapshot()
	values, ok := snap.Series[c.Param("metric")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown metric"})
		return
	}
	cols := queryInt(c, "cols", defaultChartCols, maxChartCols)
	rows := queryInt(c, "rows", defaultChartRows, maxChartRows)

	frame := chart.RenderText(values, snap.Window, cols, rows, s.theme, s.chartOpts...)
	c.String(http.StatusOK, frame+"\n")
}

// queryInt reads a positive integer query parameter, falling back to def
// and capping at limit.
func queryInt(c *gin.Context, key string, def, limit int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v <= 0 {
		return def
	}
	return min(v, limit)
}

func (s *Server) serveWS(c *gin.Context) {
	s.hub.ServeWS(c.Writer, c.Request, s.ctrl.Snapshot())
}
