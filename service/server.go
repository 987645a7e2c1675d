package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/activebook/fitbot/data"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

const (
	maxChatMessages  = 200
	shutdownTimeout  = 5 * time.Second
	chatContentType  = "text/plain; charset=utf-8"
	routeChat        = "/api/chat"
	routeHealth      = "/healthz"
	routeMetrics     = "/metrics"
	unmatchedRouteID = "unmatched"
)

// Server is the reply-generation service behind `fitbot serve`.
type Server struct {
	addr     string
	engine   *gin.Engine
	replier  Replier
	profiles ProfileSource
}

// NewServer builds the gin engine. profiles may be nil.
func NewServer(addr string, replier Replier, profiles ProfileSource) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		addr:     addr,
		engine:   gin.New(),
		replier:  replier,
		profiles: profiles,
	}
	s.engine.Use(requestLogger(), requestMetrics(), recovery())
	s.engine.POST(routeChat, s.handleChat)
	s.engine.GET(routeHealth, s.handleHealth)
	s.engine.GET(routeMetrics, gin.WrapH(promhttp.Handler()))
	return s
}

// Handler exposes the engine, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		Infof("fitbot serving %s replies on http://%s%s", s.replier.Name(), s.addr, routeChat)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		Infof("Shutting down server")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "backend": s.replier.Name()})
}

// validateChatRequest checks the shape the chat client sends.
func validateChatRequest(req ChatRequest) error {
	if len(req.Messages) == 0 {
		return errors.New("messages must not be empty")
	}
	if len(req.Messages) > maxChatMessages {
		return fmt.Errorf("at most %d messages are accepted", maxChatMessages)
	}
	for i, m := range req.Messages {
		if m.Role != RoleUser && m.Role != RoleAssistant {
			return fmt.Errorf("message %d has invalid role '%s'", i, m.Role)
		}
	}
	last := req.Messages[len(req.Messages)-1]
	if last.Role != RoleUser {
		return errors.New("last message must come from the user")
	}
	if strings.TrimSpace(last.Content) == "" {
		return errors.New("last message must not be empty")
	}
	return nil
}

func (s *Server) systemPrompt() string {
	if s.profiles == nil {
		return SystemPrompt(nil)
	}
	p, err := s.profiles.Load()
	if err != nil {
		if !errors.Is(err, data.ErrNoProfile) {
			Warnf("Failed to load profile for system prompt: %v", err)
		}
		return SystemPrompt(nil)
	}
	return SystemPrompt(p)
}

// handleChat streams the reply as plain UTF-8 text, flushing after every
// piece. A failure after the first byte aborts the connection so the client
// never mistakes a truncated reply for a complete one.
func (s *Server) handleChat(c *gin.Context) {
	backend := s.replier.Name()

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		repliesTotal.WithLabelValues(backend, outcomeRejected).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body: " + err.Error()})
		return
	}
	if err := validateChatRequest(req); err != nil {
		repliesTotal.WithLabelValues(backend, outcomeRejected).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	start := time.Now()
	written := 0
	emit := func(chunk string) error {
		if chunk == "" {
			return nil
		}
		if written == 0 {
			c.Header("Content-Type", chatContentType)
			c.Header("Cache-Control", "no-cache")
			c.Header("X-Content-Type-Options", "nosniff")
			c.Status(http.StatusOK)
			replyFirstByte.WithLabelValues(backend).Observe(time.Since(start).Seconds())
		}
		n, err := c.Writer.WriteString(chunk)
		written += n
		if err != nil {
			return err
		}
		c.Writer.Flush()
		replyBytesTotal.WithLabelValues(backend).Add(float64(n))
		return nil
	}

	err := s.replier.StreamReply(ctx, s.systemPrompt(), req.Messages, emit)
	switch {
	case err == nil:
		repliesTotal.WithLabelValues(backend, outcomeComplete).Inc()
		if written == 0 {
			c.Data(http.StatusOK, chatContentType, nil)
		}
	case ctx.Err() != nil:
		repliesTotal.WithLabelValues(backend, outcomeCanceled).Inc()
		Debugf("Client went away after %d bytes", written)
		c.Abort()
	case written == 0:
		repliesTotal.WithLabelValues(backend, outcomeFailed).Inc()
		Errorf("Reply generation failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "reply generation failed"})
	default:
		repliesTotal.WithLabelValues(backend, outcomeFailed).Inc()
		Errorf("Reply generation failed after %d bytes: %v", written, err)
		panic(http.ErrAbortHandler)
	}
}

func routeOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return unmatchedRouteID
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			entry := WithFields(log.Fields{
				"method":   c.Request.Method,
				"path":     c.Request.URL.Path,
				"status":   c.Writer.Status(),
				"bytes":    c.Writer.Size(),
				"duration": time.Since(start).Round(time.Millisecond).String(),
				"client":   c.ClientIP(),
			})
			if c.Writer.Status() >= http.StatusInternalServerError {
				entry.Warn("request")
			} else {
				entry.Info("request")
			}
		}()
		c.Next()
	}
}

func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			route := routeOf(c)
			httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
			httpRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
		}()
		c.Next()
	}
}

// recovery turns panics into 500s but lets http.ErrAbortHandler through to
// net/http, which drops the connection.
func recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if err, ok := r.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(r)
			}
			Errorf("Panic serving %s: %v", c.Request.URL.Path, r)
			if c.Writer.Written() {
				c.Abort()
				panic(http.ErrAbortHandler)
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}()
		c.Next()
	}
}
