// Package server exposes the assistant over HTTP: dashboard analysis, data
// verification, trigger dispatch, and the session lifecycle.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	contractx "github.com/voxboard/voxboard/assistant/contract"
	"github.com/voxboard/voxboard/assistant/session"
	"github.com/voxboard/voxboard/assistant/trigger"
)

const serverShutdownTimeout = 5 * time.Second

type Config struct {
	Host         string        `envconfig:"HOST" split_words:"true" default:"0.0.0.0"`
	Port         string        `envconfig:"PORT" split_words:"true" default:"8000"`
	Mode         string        `envconfig:"MODE" split_words:"true" default:"release"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" split_words:"true" default:"15s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" split_words:"true" default:"120s"`
}

// ContactLister serves the raw contact listing route.
type ContactLister interface {
	ContactSummaries(ctx context.Context) ([]contractx.ContactSummary, error)
}

type Server struct {
	cfg      Config
	router   *gin.Engine
	registry *trigger.Registry
	sessions *session.Manager
	analyzer contractx.Analyzer
	verifier contractx.Verifier
	contacts ContactLister
}

func New(cfg Config, registry *trigger.Registry, sessions *session.Manager,
	analyzer contractx.Analyzer, verifier contractx.Verifier, contacts ContactLister) *Server {
	gin.SetMode(cfg.Mode)

	s := &Server{
		cfg:      cfg,
		registry: registry,
		sessions: sessions,
		analyzer: analyzer,
		verifier: verifier,
		contacts: contacts,
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.POST("/dashboard/data", s.handleDashboardData)
	router.POST("/verify-data", s.handleVerifyData)
	router.GET("/contacts/summary", s.handleContactsSummary)

	router.POST("/query", s.handleQuery)
	router.GET("/triggers", s.handleTriggers)

	router.POST("/sessions", s.handleCreateSession)
	router.GET("/sessions", s.handleListSessions)
	router.GET("/sessions/:id", s.handleGetSession)
	router.DELETE("/sessions/:id", s.handleEndSession)
	router.POST("/sessions/:id/messages", s.handleSessionMessage)

	router.GET("/status", s.handleStatus)

	s.router = router
	return s
}

// Router exposes the handler tree, for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run serves until ctx is canceled, then drains with a short grace period.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Host + ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("http server stopped")
	return <-errCh
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

type promptRequest struct {
	Context string `json:"context"`
	Prompt  string `json:"prompt" binding:"required"`
}

func (s *Server) handleDashboardData(c *gin.Context) {
	var req promptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, err := s.analyzer.DashboardData(c.Request.Context(), req.Context, req.Prompt)
	if err != nil {
		abortUpstream(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

func (s *Server) handleVerifyData(c *gin.Context) {
	var req promptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, err := s.verifier.Verify(c.Request.Context(), req.Context, req.Prompt)
	if err != nil {
		abortUpstream(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": answer})
}

func (s *Server) handleContactsSummary(c *gin.Context) {
	summaries, err := s.contacts.ContactSummaries(c.Request.Context())
	if err != nil {
		abortUpstream(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_contatos": len(summaries),
		"contatos":       summaries,
	})
}

type queryRequest struct {
	Query string `json:"query" binding:"required"`
}

func (s *Server) handleQuery(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.registry.Process(c.Request.Context(), req.Query)
	if err != nil {
		var noMatch *contractx.NoMatchError
		if errors.As(err, &noMatch) {
			c.JSON(http.StatusOK, gin.H{
				"success": false,
				"error":   "no trigger matched",
				"query":   noMatch.Query,
			})
			return
		}
		abortUpstream(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"trigger": result.Trigger,
		"result":  result.Response,
	})
}

func (s *Server) handleTriggers(c *gin.Context) {
	infos := s.registry.List()
	c.JSON(http.StatusOK, gin.H{"triggers": infos, "count": len(infos)})
}

type createSessionRequest struct {
	SessionID string         `json:"session_id"`
	Config    map[string]any `json:"config"`
}

func (s *Server) handleCreateSession(c *gin.Context) {
	var req createSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	sess := s.sessions.Create(req.SessionID, req.Config)
	c.JSON(http.StatusOK, sess)
}

func (s *Server) handleListSessions(c *gin.Context) {
	c.JSON(http.StatusOK, s.sessions.List())
}

func (s *Server) handleGetSession(c *gin.Context) {
	sess, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (s *Server) handleEndSession(c *gin.Context) {
	if err := s.sessions.End(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleSessionMessage(c *gin.Context) {
	var msg contractx.SessionMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := s.sessions.HandleMessage(c.Request.Context(), c.Param("id"), msg)
	if err != nil {
		if errors.Is(err, contractx.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		abortUpstream(c, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"running":  true,
		"triggers": s.registry.List(),
		"sessions": s.sessions.List(),
	})
}

// abortUpstream maps the collaborator error taxonomy onto HTTP statuses.
func abortUpstream(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, contractx.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, contractx.ErrUpstreamStatus):
		status = http.StatusBadGateway
	case errors.Is(err, contractx.ErrUnavailable):
		status = http.StatusServiceUnavailable
	}
	log.Error().Err(err).Int("status", status).Msg("request failed")
	c.JSON(status, gin.H{"error": err.Error()})
}
