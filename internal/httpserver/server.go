package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/felixguerrero12/SessionSentry/internal/model"
	"github.com/felixguerrero12/SessionSentry/internal/sessions"
	"github.com/gin-gonic/gin"
)

// EventSource supplies the normalized event sequence for one request.
// Implementations re-read their backing log on every call, so each
// request works on an independent snapshot and no state is shared
// between queries.
type EventSource interface {
	LoadEvents() ([]*model.Event, error)
}

// Server provides the JSON API for session and timeline queries.
type Server struct {
	addr      string
	source    EventSource
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a new HTTP API server over the given event source.
func NewServer(addr string, source EventSource) *Server {
	if addr == "" {
		addr = "127.0.0.1:5000"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:   addr,
		source: source,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Routes registers all API handlers on a gin engine.
func (s *Server) Routes(r *gin.Engine) {
	r.GET("/api/health", s.handleHealth)
	r.GET("/api/users", s.handleUsers)
	r.GET("/api/sessions", s.handleSessions)
	r.GET("/api/session/:id", s.handleSession)
	r.GET("/api/session-events", s.handleSessionEvents)
	r.GET("/api/timeline", s.handleTimeline)
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	s.Routes(r)

	s.server = &http.Server{
		Handler:           r,
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.startTime = time.Now()

	go s.server.Serve(listener)
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// load fetches the event sequence for one request. An unavailable source
// degrades to an empty sequence; any other failure is reported as a 500
// and the handler must return.
func (s *Server) load(c *gin.Context) ([]*model.Event, bool) {
	events, err := s.source.LoadEvents()
	if err != nil {
		if errors.Is(err, model.ErrSourceUnavailable) {
			slog.Warn("event log unavailable, serving empty results", "error", err)
			return nil, true
		}
		slog.Error("loading event log", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load event log"})
		return nil, false
	}
	return events, true
}

func (s *Server) handleHealth(c *gin.Context) {
	events, ok := s.load(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"uptime":      time.Since(s.startTime).String(),
		"event_count": len(events),
	})
}

func (s *Server) handleUsers(c *gin.Context) {
	events, ok := s.load(c)
	if !ok {
		return
	}

	users := sessions.Users(events)
	if users == nil {
		users = []string{}
	}
	c.JSON(http.StatusOK, users)
}

func (s *Server) handleSessions(c *gin.Context) {
	events, ok := s.load(c)
	if !ok {
		return
	}

	result := sessions.Reconstruct(events, c.Query("user"), time.Now())
	if result == nil {
		result = []*model.Session{}
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleSession(c *gin.Context) {
	events, ok := s.load(c)
	if !ok {
		return
	}

	result := sessions.Reconstruct(events, c.Query("user"), time.Now())
	session, err := sessions.Find(result, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, session)
}

func (s *Server) handleSessionEvents(c *gin.Context) {
	logonID := c.Query("logon_id")
	if logonID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No logon_id provided"})
		return
	}

	events, ok := s.load(c)
	if !ok {
		return
	}

	matched, err := sessions.SessionEvents(events, logonID, c.Query("user"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, matched)
}

func (s *Server) handleTimeline(c *gin.Context) {
	events, ok := s.load(c)
	if !ok {
		return
	}

	entries := sessions.Timeline(events, c.Query("user"))
	if entries == nil {
		entries = []*model.TimelineEntry{}
	}
	c.JSON(http.StatusOK, entries)
}
