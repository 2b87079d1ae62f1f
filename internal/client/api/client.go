// Package api is the thin HTTP client the CLI uses to talk to the
// Messagely server. It mirrors the server's JSON envelopes and maps
// error statuses back onto the shared sentinel errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/messagely/internal/common"
)

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// SetToken stores the session token attached to subsequent requests.
func (c *Client) SetToken(token string) { c.token = token }

// User mirrors the server's public user shape.
type User struct {
	Username    string     `json:"username"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Phone       string     `json:"phone"`
	JoinAt      *time.Time `json:"join_at,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// Message mirrors the server's message shape.
type Message struct {
	ID       int64      `json:"id"`
	Body     string     `json:"body"`
	SentAt   time.Time  `json:"sent_at"`
	ReadAt   *time.Time `json:"read_at"`
	FromUser *User      `json:"from_user,omitempty"`
	ToUser   *User      `json:"to_user,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return common.ErrorNotFound
	case resp.StatusCode >= 400:
		var er struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&er); err == nil && er.Error != "" {
			return fmt.Errorf("server: %s", er.Error)
		}
		return fmt.Errorf("server: status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Register creates an account and returns the session token the server
// issues alongside it.
func (c *Client) Register(ctx context.Context, username, password, firstName, lastName, phone string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/register", map[string]string{
		"username":   username,
		"password":   password,
		"first_name": firstName,
		"last_name":  lastName,
		"phone":      phone,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var out struct {
		Users []User `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

func (c *Client) Inbox(ctx context.Context, username string) ([]Message, error) {
	var out struct {
		Messages []Message `json:"messages"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/"+username+"/to", nil, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

func (c *Client) Outbox(ctx context.Context, username string) ([]Message, error) {
	var out struct {
		Messages []Message `json:"messages"`
	}
	if err := c.do(ctx, http.MethodGet, "/users/"+username+"/from", nil, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

func (c *Client) Send(ctx context.Context, toUsername, body string) (*Message, error) {
	var out struct {
		Message *Message `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/messages", map[string]string{
		"to_username": toUsername,
		"body":        body,
	}, &out); err != nil {
		return nil, err
	}
	return out.Message, nil
}

func (c *Client) MarkRead(ctx context.Context, id int64) (*Message, error) {
	var out struct {
		Message *Message `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/messages/%d/read", id), nil, &out); err != nil {
		return nil, err
	}
	return out.Message, nil
}
