package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/marcussmith0/todo-api/internal/domain"
	"github.com/marcussmith0/todo-api/internal/service"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", s.cfg.Auth.TokenHeader},
		ExposedHeaders:   []string{"Link", s.cfg.Auth.TokenHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.HelloWorldHandler)
	r.Get("/health", s.healthHandler)

	r.Route("/todos", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Post("/", s.createTodoHandler)
		r.Get("/", s.listTodosHandler)
		r.Get("/{id}", s.getTodoHandler)
		r.Patch("/{id}", s.updateTodoHandler)
		r.Delete("/{id}", s.deleteTodoHandler)
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/", s.signupHandler)
		r.Post("/login", s.loginHandler)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/me", s.meHandler)
			r.Delete("/me/token", s.logoutHandler)
		})
	})

	return r
}

func (s *Server) HelloWorldHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Hello World from Todo API!"})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	healthStats := s.db.Health()
	if status, ok := healthStats["status"]; ok && status == "down" {
		respondWithJSON(w, http.StatusServiceUnavailable, healthStats)
		return
	}
	respondWithJSON(w, http.StatusOK, healthStats)
}

func (s *Server) signupHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, authToken, err := s.userService.Signup(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrDuplicateEmail) {
			respondWithError(w, http.StatusBadRequest, err.Error())
		} else {
			log.Printf("Error calling Signup service: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to create user")
		}
		return
	}

	w.Header().Set(s.cfg.Auth.TokenHeader, authToken)
	respondWithJSON(w, http.StatusOK, user)
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req service.CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, authToken, err := s.userService.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrAuthentication) {
			// A failed login is a 400 with no detail about which part of
			// the credentials was wrong.
			respondWithError(w, http.StatusBadRequest, "Invalid credentials")
		} else {
			log.Printf("Error calling Login service: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to log in")
		}
		return
	}

	w.Header().Set(s.cfg.Auth.TokenHeader, authToken)
	respondWithJSON(w, http.StatusOK, user)
}

func (s *Server) meHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	respondWithJSON(w, http.StatusOK, service.UserResponse{ID: user.ID, Email: user.Email})
}

func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	user, okUser := userFromContext(r.Context())
	tokenString, okToken := tokenFromContext(r.Context())
	if !okUser || !okToken {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	if err := s.userService.RevokeToken(r.Context(), user.ID, tokenString); err != nil {
		log.Printf("Error calling RevokeToken service: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to log out")
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) createTodoHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var req service.CreateTodoRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(&req)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		if errors.As(err, &syntaxError) {
			msg := fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
			respondWithError(w, http.StatusBadRequest, msg)
		} else if errors.Is(err, io.ErrUnexpectedEOF) {
			respondWithError(w, http.StatusBadRequest, "Request body contains badly-formed JSON")
		} else if errors.As(err, &unmarshalTypeError) {
			msg := fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset)
			respondWithError(w, http.StatusBadRequest, msg)
		} else if strings.HasPrefix(err.Error(), "json: unknown field ") {
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			msg := fmt.Sprintf("Request body contains unknown field %s", fieldName)
			respondWithError(w, http.StatusBadRequest, msg)
		} else if errors.Is(err, io.EOF) {
			respondWithError(w, http.StatusBadRequest, "Request body must not be empty")
		} else {
			log.Printf("Error decoding create todo request: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Error processing request")
		}
		return
	}

	todo, err := s.todoService.Create(r.Context(), user.ID, req)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			respondWithError(w, http.StatusBadRequest, err.Error())
		} else {
			log.Printf("Error calling Create service: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to create todo")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) listTodosHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	todos, err := s.todoService.List(r.Context(), user.ID)
	if err != nil {
		log.Printf("Error calling List service: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve todos")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"todos": todos})
}

func (s *Server) getTodoHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	// Malformed ids fall through to the service, which reports them as not
	// found. Existence and ownership must be indistinguishable.
	id := chi.URLParam(r, "id")

	todo, err := s.todoService.Get(r.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Todo not found")
		} else {
			log.Printf("Error calling Get service: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to retrieve todo")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"todo": todo})
}

func (s *Server) updateTodoHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")

	var req service.UpdateTodoRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	todo, err := s.todoService.Update(r.Context(), id, user.ID, req)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Todo not found")
		} else if errors.Is(err, domain.ErrValidation) {
			respondWithError(w, http.StatusBadRequest, err.Error())
		} else {
			log.Printf("Error calling Update service: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to update todo")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) deleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	id := chi.URLParam(r, "id")

	todo, err := s.todoService.Delete(r.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Todo not found")
		} else {
			log.Printf("Error calling Delete service: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to delete todo")
		}
		return
	}

	respondWithJSON(w, http.StatusOK, todo)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling JSON response: %v", err)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Internal server error preparing response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
