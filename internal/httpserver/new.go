package httpserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	"scheduling-assistant/internal/conversation"
	"scheduling-assistant/internal/middleware"
	"scheduling-assistant/internal/scheduler"
	"scheduling-assistant/internal/task/repository"
	"scheduling-assistant/pkg/datemath"
	"scheduling-assistant/pkg/log"
)

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string
	mw          middleware.Middleware

	// Scheduling domain
	repo         repository.Repository
	dateMath     *datemath.Parser
	sessions     *conversation.Sessions
	mirror       scheduler.Mirror
	maxBulkCount int
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger      log.Logger
	Port        int
	Mode        string
	Environment string
	Middleware  middleware.Config

	// Scheduling domain
	Repository   repository.Repository
	DateMath     *datemath.Parser
	Sessions     *conversation.Sessions
	Mirror       scheduler.Mirror // optional
	MaxBulkCount int
}

// New creates a new HTTPServer instance with every route registered.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:            logger,
		gin:          gin.New(),
		port:         cfg.Port,
		mode:         cfg.Mode,
		environment:  cfg.Environment,
		mw:           middleware.New(logger, cfg.Middleware),
		repo:         cfg.Repository,
		dateMath:     cfg.DateMath,
		sessions:     cfg.Sessions,
		mirror:       cfg.Mirror,
		maxBulkCount: cfg.MaxBulkCount,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}
	if err := srv.mapHandlers(); err != nil {
		return nil, err
	}
	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.repo == nil {
		return errors.New("repository is required")
	}
	if srv.dateMath == nil {
		return errors.New("date parser is required")
	}
	if srv.sessions == nil {
		return errors.New("session registry is required")
	}
	return nil
}
