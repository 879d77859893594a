// Package httpapi exposes the sync server over HTTP/JSON for the field
// client: auth, catalog pull, presigned photo transfer and image
// registration.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/kaman1990/field-service-sub001/internal/logging"
	"github.com/kaman1990/field-service-sub001/internal/server/models"
	"github.com/kaman1990/field-service-sub001/internal/server/services"
)

type userSvc interface {
	Register(ctx context.Context, username, password string) (*services.TokenPair, error)
	Login(ctx context.Context, userName, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

type catalogSvc interface {
	Pull(ctx context.Context, since int64) (*services.CatalogSnapshot, error)
}

type fileSvc interface {
	GetPresignedPutUrl(ctx context.Context, filename, mediaType string) (string, string, error)
	GetPresignedGetUrl(ctx context.Context, key string) (string, error)
	RegisterImage(ctx context.Context, image *models.Image) error
}

type HTTPServer struct {
	address   string
	users     userSvc
	catalog   catalogSvc
	files     fileSvc
	logger    logging.Logger
	jwtSecret []byte
}

func NewHTTPServer(a string, l logging.Logger, us userSvc, cs catalogSvc, fs fileSvc, secretKey string) (*HTTPServer, error) {
	return &HTTPServer{
		address:   a,
		logger:    l.With("module", "http_server"),
		users:     us,
		catalog:   cs,
		files:     fs,
		jwtSecret: []byte(secretKey),
	}, nil
}

func (s *HTTPServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{Handler: s.routes()}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *HTTPServer) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.loggingMiddleware)

	open := r.PathPrefix("/api/v1").Subrouter()
	open.HandleFunc("/ping", s.handlePing).Methods(http.MethodGet)
	open.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	open.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	open.HandleFunc("/auth/refresh", s.handleRefresh).Methods(http.MethodPost)

	// everything below requires a valid access token
	protected := r.PathPrefix("/api/v1").Subrouter()
	protected.Use(s.accessTokenMiddleware)
	protected.HandleFunc("/sync/catalog", s.handleCatalogPull).Methods(http.MethodPost)
	protected.HandleFunc("/images", s.handleRegisterImage).Methods(http.MethodPost)
	protected.HandleFunc("/attachments/presign-put", s.handlePresignPut).Methods(http.MethodPost)
	protected.HandleFunc("/attachments/presign-get", s.handlePresignGet).Methods(http.MethodGet)

	return r
}
