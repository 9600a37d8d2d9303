package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Tomlord1122/memo-app/internal/auth"
	"github.com/Tomlord1122/memo-app/internal/config"
	"github.com/Tomlord1122/memo-app/internal/database"
	"github.com/Tomlord1122/memo-app/internal/repository"
	"github.com/Tomlord1122/memo-app/internal/service"
	"github.com/Tomlord1122/memo-app/internal/view"
	"gorm.io/gorm"
)

// ServiceFactory builds the memo service for one request from a
// request-scoped database handle.
type ServiceFactory func(db *gorm.DB) service.MemoService

// DefaultServiceFactory wires the gorm repository into a MemoService.
func DefaultServiceFactory(db *gorm.DB) service.MemoService {
	return service.NewMemoService(repository.NewGormMemoRepository(db))
}

// Server holds the dependencies shared by every handler.
type Server struct {
	port        int
	db          database.Service
	gate        *auth.Gate
	renderer    *view.Renderer
	newService  ServiceFactory
	corsOrigins []string
}

// New builds the application server. It is separate from NewServer so tests
// can drive the router without a listener.
func New(cfg *config.Config, dbService database.Service, factory ServiceFactory) (*Server, error) {
	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, err
	}
	if factory == nil {
		factory = DefaultServiceFactory
	}
	return &Server{
		port:        cfg.Port,
		db:          dbService,
		gate:        auth.NewGate(cfg.Auth),
		renderer:    renderer,
		newService:  factory,
		corsOrigins: cfg.CORSAllowedOrigins,
	}, nil
}

// NewServer creates the http.Server listening on cfg.Port.
func NewServer(cfg *config.Config, dbService database.Service) (*http.Server, error) {
	appServer, err := New(cfg, dbService, DefaultServiceFactory)
	if err != nil {
		return nil, err
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", appServer.port),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server, nil
}
