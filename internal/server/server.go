package server

import (
	"fmt"
	"net/http"

	"github.com/marcussmith0/todo-api/internal/config"
	"github.com/marcussmith0/todo-api/internal/database"
	"github.com/marcussmith0/todo-api/internal/service"
)

type Server struct {
	cfg         *config.Config
	userService service.UserService
	todoService service.TodoService
	db          database.Service
}

// NewServer wires the services into an http.Server ready to listen on the
// configured port.
func NewServer(cfg *config.Config, userService service.UserService, todoService service.TodoService, dbService database.Service) *http.Server {
	appServer := &Server{
		cfg:         cfg,
		userService: userService,
		todoService: todoService,
		db:          dbService,
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  cfg.Server.IdleTimeout,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
