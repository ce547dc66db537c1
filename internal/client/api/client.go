package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/tyrekeeper/internal/common"
)

// Tyre is a tyre record as returned by the server. UserID is only present
// in list responses.
type Tyre struct {
	ID     int64  `json:"id"`
	Brand  string `json:"brand"`
	Model  string `json:"model"`
	Size   string `json:"size"`
	UserID int64  `json:"user_id,omitempty"`
}

// TyreInput is the body of create and update calls.
type TyreInput struct {
	Brand string `json:"brand"`
	Model string `json:"model"`
	Size  string `json:"size"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Client talks to the REST API. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// NewClient returns a Client for baseURL. Each request is bounded by timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// LoggedIn reports whether a token is held.
func (c *Client) LoggedIn() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token != ""
}

// Logout forgets the token. The server keeps no session, so nothing is sent.
func (c *Client) Logout() {
	c.setToken("")
}

func (c *Client) setToken(t string) {
	c.mu.Lock()
	c.token = t
	c.mu.Unlock()
}

func (c *Client) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, username string, password []byte) error {
	body := credentials{Username: username, Password: string(password)}
	return c.do(ctx, http.MethodPost, "/register", body, false, http.StatusCreated, nil)
}

// Login authenticates and keeps the returned token for later calls.
func (c *Client) Login(ctx context.Context, username string, password []byte) error {
	body := credentials{Username: username, Password: string(password)}

	var resp tokenResponse
	if err := c.do(ctx, http.MethodPost, "/login", body, false, http.StatusOK, &resp); err != nil {
		return err
	}
	if resp.Token == "" {
		return fmt.Errorf("%w: empty token", ErrUnexpectedResp)
	}

	c.setToken(resp.Token)
	return nil
}

// CreateTyre adds a tyre owned by the logged in user.
func (c *Client) CreateTyre(ctx context.Context, in TyreInput) (*Tyre, error) {
	var t Tyre
	if err := c.do(ctx, http.MethodPost, "/tyres", in, true, http.StatusCreated, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTyres returns the logged in user's tyres.
func (c *Client) ListTyres(ctx context.Context) ([]Tyre, error) {
	tyres := make([]Tyre, 0)
	if err := c.do(ctx, http.MethodGet, "/tyres", nil, true, http.StatusOK, &tyres); err != nil {
		return nil, err
	}
	return tyres, nil
}

// UpdateTyre replaces brand, model and size of tyre id.
func (c *Client) UpdateTyre(ctx context.Context, id int64, in TyreInput) (*Tyre, error) {
	var t Tyre
	if err := c.do(ctx, http.MethodPut, tyrePath(id), in, true, http.StatusOK, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteTyre removes tyre id.
func (c *Client) DeleteTyre(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, tyrePath(id), nil, true, http.StatusOK, nil)
}

// Ping checks /health. Any failure, including a 503, is ErrUnavailable.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.do(ctx, http.MethodGet, "/health", nil, false, http.StatusOK, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func tyrePath(id int64) string {
	return "/tyres/" + strconv.FormatInt(id, 10)
}

// do sends a JSON request and decodes a JSON response into out when the
// status matches want. Any other status is returned as *Error.
func (c *Client) do(ctx context.Context, method, path string, in any, auth bool, want int, out any) error {
	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if auth {
		token := c.bearer()
		if token == "" {
			return ErrNotLoggedIn
		}
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		var er errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&er)
		return &Error{Status: resp.StatusCode, Message: er.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedResp, err)
	}
	return nil
}
