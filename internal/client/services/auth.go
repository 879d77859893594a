// Package services contains application services for the field client: auth
// (online/offline login), the photo upload orchestrator, catalog sync and the
// upload status reporter.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"fmt"

	"github.com/kaman1990/field-service-sub001/internal/client/client"
	"github.com/kaman1990/field-service-sub001/internal/client/repositories/metadata"
	"github.com/kaman1990/field-service-sub001/internal/common"
	"github.com/kaman1990/field-service-sub001/internal/cryptox"
	"github.com/kaman1990/field-service-sub001/internal/dbx"
)

// Metadata keys for locally cached auth data.
const (
	metaUsername = "username"
	metaSalt     = "salt"
	metaVerifier = "verifier"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - OnlineLogin: authenticate against the server and cache offline auth data.
//   - OfflineLogin: verify credentials against the locally cached verifier.
//   - Register: create a new user on the server.
//   - Ping: check server liveness.
//   - Logout: drop session tokens and wipe cached offline auth data.
//   - Close: release underlying client resources.
//   - ClearOfflineData: wipe locally cached auth metadata.
type AuthService interface {
	OnlineLogin(ctx context.Context, username string, password []byte) error
	OfflineLogin(ctx context.Context, username string, password []byte) error
	Register(ctx context.Context, username string, password []byte) error
	Ping(ctx context.Context) error
	Logout(ctx context.Context) error
	Close(ctx context.Context) error
	ClearOfflineData(ctx context.Context) error
}

// authService is the concrete AuthService backed by a remote Client and a
// local SQL database for offline metadata.
type authService struct {
	client client.Client
	db     *sql.DB
}

func NewAuthService(client client.Client, db *sql.DB) AuthService {
	return &authService{client: client, db: db}
}

func (a *authService) getMetadataRepo() metadata.Repository {
	return metadata.NewSQLiteRepository(a.db)
}

// OfflineLogin verifies the password against the locally cached salt and
// verifier. If no login ever succeeded on this device, returns
// client.ErrLocalDataNotAvailable; on mismatch, client.ErrUnauthorized.
func (a *authService) OfflineLogin(ctx context.Context, username string, password []byte) error {
	repo := a.getMetadataRepo()

	savedUsername, err := repo.Get(ctx, metaUsername)
	if err != nil {
		return err
	}
	if savedUsername == nil {
		return client.ErrLocalDataNotAvailable
	}
	if string(savedUsername) != username {
		return client.ErrUnauthorized
	}

	salt, err := repo.Get(ctx, metaSalt)
	if err != nil {
		return err
	}
	verifier, err := repo.Get(ctx, metaVerifier)
	if err != nil {
		return err
	}
	if salt == nil || verifier == nil {
		return client.ErrLocalDataNotAvailable
	}

	candidate := cryptox.MakeVerifier(cryptox.DeriveKey(password, salt))
	if subtle.ConstantTimeCompare(verifier, candidate) == 0 {
		return client.ErrUnauthorized
	}
	return nil
}

// OnlineLogin authenticates against the server and refreshes the cached
// offline auth data so the user can re-enter the app without connectivity.
func (a *authService) OnlineLogin(ctx context.Context, username string, password []byte) error {
	if err := a.client.Login(ctx, username, string(password)); err != nil {
		return fmt.Errorf("login error: %w", err)
	}

	if err := a.saveOfflineData(ctx, username, password); err != nil {
		return fmt.Errorf("offline data saving error: %w", err)
	}
	return nil
}

// saveOfflineData persists the metadata required for offline login in a
// single transaction: username, a fresh salt and the derived verifier. The
// password itself is never stored.
func (a *authService) saveOfflineData(ctx context.Context, username string, password []byte) error {
	salt := common.GenerateRandByteArray(32)
	verifier := cryptox.MakeVerifier(cryptox.DeriveKey(password, salt))

	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, metaUsername, []byte(username)); err != nil {
			return err
		}
		if err := repo.Set(ctx, metaSalt, salt); err != nil {
			return err
		}
		return repo.Set(ctx, metaVerifier, verifier)
	})
}

// Register creates a new account on the server and caches offline auth data
// for it, since a successful register also logs the user in.
func (a *authService) Register(ctx context.Context, username string, password []byte) error {
	if err := a.client.Register(ctx, username, string(password)); err != nil {
		return err
	}
	return a.saveOfflineData(ctx, username, password)
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Logout drops the session tokens and wipes the cached offline auth data,
// so neither an online nor an offline login survives it.
func (a *authService) Logout(ctx context.Context) error {
	a.client.Logout()
	return a.ClearOfflineData(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}

// ClearOfflineData wipes locally cached auth metadata (e.g. on logout).
func (a *authService) ClearOfflineData(ctx context.Context) error {
	return a.getMetadataRepo().Clear(ctx)
}
