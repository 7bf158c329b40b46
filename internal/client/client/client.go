package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/marinesurvey/inspector/internal/server/models"
)

// Client is the set of API calls the CLI makes.
type Client interface {
	Signup(ctx context.Context, email, password string) (*SignupResult, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Profile(ctx context.Context, token string) (*models.User, error)
	UpdateProfile(ctx context.Context, token string, fields map[string]any) (*models.User, error)
	DeleteProfile(ctx context.Context, token string) error
	Inspections(ctx context.Context) ([]*models.Inspection, error)
}

type SignupResult struct {
	UserID            string `json:"userId"`
	Email             string `json:"email"`
	IsProfileComplete bool   `json:"isProfileComplete"`
}

type LoginResult struct {
	Token             string `json:"token"`
	UserID            string `json:"userId"`
	Email             string `json:"email"`
	IsProfileComplete bool   `json:"isProfileComplete"`
	FullName          string `json:"fullName"`
	Title             string `json:"title"`
	Company           string `json:"company"`
}

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) Signup(ctx context.Context, email, password string) (*SignupResult, error) {
	var out SignupResult
	err := c.do(ctx, http.MethodPost, "/api/auth/signup", "", credentials{email, password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", "", credentials{email, password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Profile(ctx context.Context, token string) (*models.User, error) {
	var out struct {
		User *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/profile", token, nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// UpdateProfile sends fields as-is; the server ignores keys it does not allow.
func (c *HTTPClient) UpdateProfile(ctx context.Context, token string, fields map[string]any) (*models.User, error) {
	var out struct {
		User *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/auth/profile", token, fields, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *HTTPClient) DeleteProfile(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodDelete, "/api/auth/profile", token, nil, nil)
}

func (c *HTTPClient) Inspections(ctx context.Context) ([]*models.Inspection, error) {
	var out struct {
		Inspections []*models.Inspection `json:"inspections"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/inspections/", "", nil, &out); err != nil {
		return nil, err
	}
	return out.Inspections, nil
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type envelope struct {
	Message string `json:"message"`
}

func (c *HTTPClient) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode >= 300 {
		var env envelope
		_ = json.Unmarshal(data, &env)
		if env.Message == "" {
			env.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
