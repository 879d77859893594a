package client

import (
	"context"

	"github.com/kaman1990/field-service-sub001/internal/api"
)

// Client is the transport-agnostic contract for talking to the sync server.
// Implementations keep the token pair internally and refresh it as needed.
type Client interface {
	Close() error
	Register(ctx context.Context, login, password string) error
	Login(ctx context.Context, login, password string) error
	Logout()
	Ping(ctx context.Context) error
	PullCatalog(ctx context.Context, since int64) (*api.CatalogPullResponse, error)
	RegisterImage(ctx context.Context, req api.RegisterImageRequest) error
	PresignPut(ctx context.Context, filename, mediaType string) (key, url string, err error)
	PresignGet(ctx context.Context, remoteKey string) (url string, err error)
}
