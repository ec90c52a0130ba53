package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/alnah/go-mdconv"
	"github.com/alnah/go-mdconv/internal/assets"
	"github.com/alnah/go-mdconv/internal/logging"
)

const (
	// DefaultAddr binds to loopback only; the UI has no authentication.
	DefaultAddr = "127.0.0.1:8080"

	// fileField is the multipart field carrying the upload.
	fileField = "file"

	// Uploads up to the validator ceiling stay in memory.
	maxMultipartMemory = mdconv.MaxFileSize + 1<<20

	shutdownTimeout = 5 * time.Second
	loggerKey       = "logger"
)

// ErrTemplate is returned when a page template cannot be loaded or parsed.
var ErrTemplate = errors.New("page template invalid")

// Config configures a Server.
type Config struct {
	Addr        string
	DefaultLang string // used when Accept-Language matches nothing
	Logger      log.Logger
}

// Server is the HTTP front end of one Session.
type Server struct {
	conv        *mdconv.Converter
	session     *mdconv.Session
	logger      log.Logger
	addr        string
	defaultLang string
	router      *gin.Engine

	// precheck rejects uploads by name and size before the body is copied.
	precheck     *mdconv.Validator
	newCandidate func(name string, size int64, r io.Reader) (mdconv.CandidateFile, error)
}

// New builds the router and parses the page templates through the
// converter's asset loader, so a custom asset path can restyle the UI.
func New(conv *mdconv.Converter, session *mdconv.Session, cfg Config) (*Server, error) {
	s := &Server{
		conv:        conv,
		session:     session,
		logger:      logging.Component(cfg.Logger, "server"),
		addr:        cfg.Addr,
		defaultLang: cfg.DefaultLang,

		precheck:     mdconv.NewValidator(nil),
		newCandidate: mdconv.CandidateFromReader,
	}
	if s.addr == "" {
		s.addr = DefaultAddr
	}

	tmpl, err := s.parseTemplates()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery(), s.injectLogger(), s.logRequests())
	router.MaxMultipartMemory = maxMultipartMemory
	router.SetHTMLTemplate(tmpl)

	router.GET("/", s.handleIndex)
	router.GET("/preview", s.handlePreview)
	router.GET("/assets/styles/:name", s.handleStyle)

	api := router.Group("/api")
	{
		api.GET("/state", s.handleState)
		api.POST("/files", s.handleSelect)
		api.DELETE("/files", s.handleClear)
		api.POST("/confirm", s.handleConfirm)
		api.POST("/back", s.handleBack)
		api.GET("/export", s.handleExport)
	}

	s.router = router
	return s, nil
}

func (s *Server) parseTemplates() (*template.Template, error) {
	root := template.New("pages")
	for _, name := range []string{assets.UploadTemplate, assets.PreviewTemplate} {
		src, err := s.conv.LoadTemplate(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrTemplate, name, err)
		}
		if _, err := root.New(name).Parse(src); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrTemplate, name, err)
		}
	}
	return root, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	level.Info(s.logger).Log("msg", "listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	level.Info(s.logger).Log("msg", "stopped")
	return nil
}

// Listen opens the configured address. A port of 0 picks a free one; the
// listener's Addr reports it.
func (s *Server) Listen(ctx context.Context) (net.Listener, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	return ln, nil
}

// injectLogger makes the server logger available to handlers.
func (s *Server) injectLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(loggerKey, s.logger)
		c.Next()
	}
}

// logRequests logs each request after it completes.
func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		level.Debug(s.logger).Log(
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(start),
		)
	}
}

func requestLogger(c *gin.Context) log.Logger {
	if l, ok := c.Get(loggerKey); ok {
		if logger, ok := l.(log.Logger); ok {
			return logger
		}
	}
	return log.NewNopLogger()
}
