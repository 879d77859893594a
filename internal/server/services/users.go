// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, and issuing/refreshing JWTs
// plus server-stored refresh tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kaman1990/field-service-sub001/internal/common"
	"github.com/kaman1990/field-service-sub001/internal/dbx"
	"github.com/kaman1990/field-service-sub001/internal/server/auth"
	"github.com/kaman1990/field-service-sub001/internal/server/config"
	"github.com/kaman1990/field-service-sub001/internal/server/models"
	"github.com/kaman1990/field-service-sub001/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService provides authentication-related operations:
// - Register: create users and log them straight in
// - Login: verify credentials and mint tokens
// - RefreshToken: rotate refresh tokens and mint new access tokens
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %v", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.RefreshTokens(tx)
		if err := repoTx.Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %v", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// Register creates a new user with a bcrypt-hashed password and returns a
// TokenPair, so a fresh device is logged in without a second round trip.
// A taken username yields common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, username, password string) (*TokenPair, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{UserName: username, PasswordHash: hash}
	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %v", err)
	}
	return s.generateTokenPair(ctx, u.ID, s.db)
}

// Login verifies the password against the stored bcrypt hash and, on
// success, returns a new TokenPair.
func (s *UserService) Login(ctx context.Context, userName, password string) (*TokenPair, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByLogin(ctx, userName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}
	return s.generateTokenPair(ctx, user.ID, s.db)
}

// --- helpers below ---

func (s *UserService) generateAccessToken(userID string) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, userID string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	refreshRepo := s.repomanager.RefreshTokens(tx)
	if err := refreshRepo.Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
