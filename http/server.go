package http

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"

	"warbler/crud"
	"warbler/domain"
)

// Server provides most of the http functionality of this app, namely routing,
// request handling, and middleware. It also performs authentication and
// authorization before handing things over to one of the crud services.
type Server struct {
	router      *mux.Router
	handler     http.Handler
	csrfEnabled bool
	us          domain.UserService
	ms          domain.MessageService
	fs          domain.FollowService
	ls          domain.LikeService
}

// NewServer returns a new instance of the server, registers all necessary
// routes and gives their handlers access to the crud services passed in.
// An empty csrfKey disables CSRF protection.
func NewServer(isProd bool, csrfKey string, services *crud.Services) *Server {
	s := &Server{
		router:      mux.NewRouter(),
		csrfEnabled: csrfKey != "",
		us:          services.User,
		ms:          services.Message,
		fs:          services.Follow,
		ls:          services.Like,
	}

	// Routes of the auth system.
	s.registerAuthRoutes(s.router)

	// Routes of the crud system.
	s.registerUserRoutes(s.router)
	s.registerMessageRoutes(s.router)

	// Middleware that runs on every request. The session middleware must
	// run before any handler so the identity context is always populated.
	s.router.Use(s.checkUser)
	s.handler = s.router
	if csrfKey != "" {
		csrfMw := csrf.Protect([]byte(csrfKey), csrf.Secure(isProd), csrf.Path("/"))
		s.handler = csrfMw(s.router)
	}
	return s
}

// ServeHTTP makes the Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Run starts to listen and serve on the specified port.
func (s *Server) Run(port int) {
	log.Fatal(http.ListenAndServe(":"+strconv.Itoa(port), s.handler))
}
