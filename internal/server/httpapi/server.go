// Package httpapi is the JSON/HTTP transport shell. It parses
// requests, resolves the caller identity from the bearer token, and
// maps service results and sentinel errors onto status codes. All real
// decisions live in the services and authz packages.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/messagely/internal/logging"
	"github.com/dmitrijs2005/messagely/internal/server/models"
)

// UserProvider is the slice of the user service the transport needs.
type UserProvider interface {
	Register(ctx context.Context, username, password, firstName, lastName, phone string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	List(ctx context.Context) ([]models.UserSummary, error)
	GetProfile(ctx context.Context, username string) (*models.User, error)
}

// MessageProvider is the slice of the message service the transport needs.
type MessageProvider interface {
	Send(ctx context.Context, fromUsername, toUsername, body string) (*models.Message, error)
	Get(ctx context.Context, id int64, caller string) (*models.Message, error)
	MarkRead(ctx context.Context, id int64, caller string) (*models.Message, error)
	ListFrom(ctx context.Context, owner, caller string) ([]*models.Message, error)
	ListTo(ctx context.Context, owner, caller string) ([]*models.Message, error)
}

type HTTPServer struct {
	address   string
	logger    logging.Logger
	users     UserProvider
	messages  MessageProvider
	jwtSecret []byte
}

func NewHTTPServer(a string, l logging.Logger, us UserProvider, ms MessageProvider, secretKey string) (*HTTPServer, error) {
	return &HTTPServer{
		address:   a,
		logger:    l.With("module", "http_server"),
		users:     us,
		messages:  ms,
		jwtSecret: []byte(secretKey),
	}, nil
}

// Handler builds the route table. Split from Run so tests can drive it
// through httptest without binding a socket.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)

	mux.HandleFunc("GET /users", s.requireAuth(s.handleListUsers))
	mux.HandleFunc("GET /users/{username}", s.requireAuth(s.handleGetUser))
	mux.HandleFunc("GET /users/{username}/to", s.requireAuth(s.handleListTo))
	mux.HandleFunc("GET /users/{username}/from", s.requireAuth(s.handleListFrom))

	mux.HandleFunc("POST /messages", s.requireAuth(s.handleSendMessage))
	mux.HandleFunc("GET /messages/{id}", s.requireAuth(s.handleGetMessage))
	mux.HandleFunc("POST /messages/{id}/read", s.requireAuth(s.handleMarkRead))

	return s.withRequestID(mux)
}

func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
