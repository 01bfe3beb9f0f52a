// Package adminsession is the client-side holder of the admin token.
// The decoded payload is for display only; authorization is always
// re-checked server-side on the next request.
package adminsession

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Store is the durable client-side mirror of the session, the
// equivalent of browser local storage.
type Store interface {
	Save(s Session) error
	Load() (*Session, error)
	Clear() error
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	store      Store

	session *Session
}

func NewClient(baseURL string, store Store) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		store: store,
	}
	if store != nil {
		if s, err := store.Load(); err == nil && s != nil {
			c.session = s
		}
	}
	return c
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/api/admin/auth/login",
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("login failed with status: %d", resp.StatusCode)
	}

	var result struct {
		Success bool   `json:"success"`
		User    User   `json:"user"`
		Token   string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	s := Session{User: result.User, Token: result.Token}
	c.session = &s
	if c.store != nil {
		if err := c.store.Save(s); err != nil {
			return nil, fmt.Errorf("persist session: %w", err)
		}
	}
	return &s, nil
}

func (c *Client) Logout() error {
	c.session = nil
	if c.store != nil {
		return c.store.Clear()
	}
	return nil
}

func (c *Client) Session() *Session {
	return c.session
}

func (c *Client) Token() string {
	if c.session == nil {
		return ""
	}
	return c.session.Token
}

// DisplayClaims is what DecodeToken extracts from the stored token
// without verifying the signature.
type DisplayClaims struct {
	Subject string
	Role    string
	Expires time.Time
}

// DecodeToken parses the stored token payload unverified. Never use
// the result for an authorization decision.
func (c *Client) DecodeToken() (*DisplayClaims, error) {
	if c.session == nil || c.session.Token == "" {
		return nil, fmt.Errorf("no session")
	}

	var claims jwt.MapClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(c.session.Token, &claims); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}

	out := &DisplayClaims{}
	if sub, ok := claims["sub"].(string); ok {
		out.Subject = sub
	}
	if role, ok := claims["role"].(string); ok {
		out.Role = role
	}
	if exp, ok := claims["exp"].(float64); ok {
		out.Expires = time.Unix(int64(exp), 0)
	}
	return out, nil
}
