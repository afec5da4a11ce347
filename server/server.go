package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/eregister/console/apiclient"
	"github.com/eregister/console/auth"
	"github.com/eregister/console/courses"
	"github.com/eregister/console/internal/config"
	"github.com/eregister/console/sessions"
	"github.com/eregister/console/users"
)

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	sessions *sessions.Manager
	auth     *auth.Service
	courses  *courses.Service
	users    *users.Service
	views    *viewRegistry
}

func New(cfg config.Config) (*Server, error) {
	// Both clients read the bearer token from the request context, where
	// RequireSession places the current session.
	authAPI := apiclient.New(cfg.Services.AuthBaseURL, sessions.ContextTokenSource{})
	courseAPI := apiclient.New(cfg.Services.CourseBaseURL, sessions.ContextTokenSource{})

	return NewWithServices(cfg,
		sessions.NewManager(sessions.NewInMemoryRepo()),
		auth.NewService(authAPI),
		courses.NewService(courseAPI),
		users.NewService(authAPI),
	)
}

// NewWithServices wires a server from pre-built collaborators. Tests use this
// to point the services at stub backends.
func NewWithServices(cfg config.Config, sessionManager *sessions.Manager, authService *auth.Service, courseService *courses.Service, userService *users.Service) (*Server, error) {
	if sessionManager == nil {
		return nil, fmt.Errorf("[Server New] session manager is required")
	}

	s := &Server{
		mux:      http.NewServeMux(),
		config:   cfg,
		sessions: sessionManager,
		auth:     authService,
		courses:  courseService,
		users:    userService,
	}
	s.env = cfg.Server.Env
	s.views = newViewRegistry(cfg.List.SearchDebounce, cfg.List.PageSize)

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// Close releases per-session list state. Called on shutdown.
func (s *Server) Close() {
	s.views.Close()
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s", displayMethod, path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
