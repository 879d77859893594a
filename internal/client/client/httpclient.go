package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/kaman1990/field-service-sub001/internal/api"
	"github.com/kaman1990/field-service-sub001/internal/common"
	"github.com/kaman1990/field-service-sub001/internal/netx"
)

const requestTimeout = 12 * time.Second

// HTTPClient talks JSON over HTTP to the sync server. It holds the token
// pair and transparently refreshes an expired access token, retrying the
// failed call once.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func NewHTTPClient(endpointURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(endpointURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
	}
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// Logout drops the token pair. Subsequent authenticated calls fail with
// ErrUnauthorized until the next Login.
func (c *HTTPClient) Logout() {
	c.mu.Lock()
	c.accessToken, c.refreshToken = "", ""
	c.mu.Unlock()
}

func (c *HTTPClient) tokens() (access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken, c.refreshToken
}

func (c *HTTPClient) setTokens(pair api.TokenPair) {
	c.mu.Lock()
	c.accessToken = pair.AccessToken
	c.refreshToken = pair.RefreshToken
	c.mu.Unlock()
}

func (c *HTTPClient) Register(ctx context.Context, login, password string) error {
	var pair api.TokenPair
	req := api.RegisterRequest{Login: login, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", nil, req, &pair, false); err != nil {
		return err
	}
	c.setTokens(pair)
	return nil
}

func (c *HTTPClient) Login(ctx context.Context, login, password string) error {
	var pair api.TokenPair
	req := api.LoginRequest{Login: login, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", nil, req, &pair, false); err != nil {
		return err
	}
	c.setTokens(pair)
	return nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	var resp api.PingResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/ping", nil, nil, &resp, false); err != nil {
		return err
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (c *HTTPClient) PullCatalog(ctx context.Context, since int64) (*api.CatalogPullResponse, error) {
	var resp api.CatalogPullResponse
	req := api.CatalogPullRequest{Since: since}
	if err := c.do(ctx, http.MethodPost, "/api/v1/sync/catalog", nil, req, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) RegisterImage(ctx context.Context, req api.RegisterImageRequest) error {
	return c.do(ctx, http.MethodPost, "/api/v1/images", nil, req, nil, true)
}

func (c *HTTPClient) PresignPut(ctx context.Context, filename, mediaType string) (string, string, error) {
	var resp api.PresignPutResponse
	req := api.PresignPutRequest{Filename: filename, MediaType: mediaType}
	if err := c.do(ctx, http.MethodPost, "/api/v1/attachments/presign-put", nil, req, &resp, true); err != nil {
		return "", "", err
	}
	return resp.Key, resp.URL, nil
}

func (c *HTTPClient) PresignGet(ctx context.Context, remoteKey string) (string, error) {
	var resp api.PresignGetResponse
	query := url.Values{"key": []string{remoteKey}}
	if err := c.do(ctx, http.MethodGet, "/api/v1/attachments/presign-get", query, nil, &resp, true); err != nil {
		return "", err
	}
	return resp.URL, nil
}

// do executes one JSON call. Authenticated calls retry exactly once after a
// token refresh when the server reports an expired access token.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, in, out any, auth bool) error {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	status, body, err := c.execute(ctx, method, path, query, payload, auth)
	if err != nil {
		return c.mapTransportError(err)
	}

	if auth && status == http.StatusUnauthorized && serverError(body) == common.ErrTokenExpired.Error() {
		if err := c.refresh(ctx); err != nil {
			return err
		}
		status, body, err = c.execute(ctx, method, path, query, payload, auth)
		if err != nil {
			return c.mapTransportError(err)
		}
	}

	if status >= http.StatusBadRequest {
		return mapStatusError(status, body)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *HTTPClient) execute(ctx context.Context, method, path string, query url.Values, payload []byte, auth bool) (int, []byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return 0, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		access, _ := c.tokens()
		if access != "" {
			req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+access)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

func (c *HTTPClient) refresh(ctx context.Context) error {
	_, refreshTok := c.tokens()
	if refreshTok == "" {
		return ErrUnauthorized
	}

	payload, err := json.Marshal(api.RefreshRequest{RefreshToken: refreshTok})
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	status, body, err := c.execute(ctx, http.MethodPost, "/api/v1/auth/refresh", nil, payload, false)
	if err != nil {
		return c.mapTransportError(err)
	}
	if status != http.StatusOK {
		return ErrUnauthorized
	}

	var pair api.TokenPair
	if err := json.Unmarshal(body, &pair); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	c.setTokens(pair)
	return nil
}

func (c *HTTPClient) mapTransportError(err error) error {
	if netx.IsConnectivityError(err) {
		return ErrUnavailable
	}
	return fmt.Errorf("request failed: %w", err)
}

func mapStatusError(status int, body []byte) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return ErrUnavailable
	default:
		if msg := serverError(body); msg != "" {
			return fmt.Errorf("server error: %s", msg)
		}
		return fmt.Errorf("server error: status %d", status)
	}
}

func serverError(body []byte) string {
	var resp api.ErrorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return ""
	}
	return resp.Error
}
