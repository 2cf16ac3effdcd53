package mattermost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	mcerrors "github.com/mattercrypt/mattercrypt/internal/errors"
)

// Client is a Mattermost API client scoped to the handful of operations
// mattercrypt needs: login, user lookup, direct channels, and posting.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	authToken string
}

// NewClient creates a client for the given API base URL, e.g.
// "https://my-mattermost-server.com/api/v4".
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// User is a Mattermost user record.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Nickname  string `json:"nickname"`
}

// doRequest performs an HTTP request and returns the response body and headers.
func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", c.authToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, nil, newAPIError(resp.StatusCode, respBody)
	}

	return respBody, resp.Header, nil
}

type loginRequest struct {
	LoginID  string `json:"login_id"`
	Password string `json:"password"`
}

// Login authenticates against the server and keeps the session token for
// all later calls. Mattermost returns the token in the Token response
// header; a login response without one yields mcerrors.ErrTokenMissing.
func (c *Client) Login(ctx context.Context, loginID, password string) (*User, error) {
	body, _ := json.Marshal(loginRequest{LoginID: loginID, Password: password})

	respBody, header, err := c.doRequest(ctx, http.MethodPost, "/users/login", body)
	if err != nil {
		return nil, err
	}

	token := header.Get("Token")
	if token == "" {
		return nil, mcerrors.ErrTokenMissing
	}
	c.authToken = "Bearer " + token

	var user User
	if err := json.Unmarshal(respBody, &user); err != nil {
		return nil, fmt.Errorf("failed to decode login response: %w", err)
	}

	return &user, nil
}

// GetUserByEmail resolves a user by email address.
func (c *Client) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	respBody, _, err := c.doRequest(ctx, http.MethodGet, "/users/email/"+url.PathEscape(email), nil)
	if err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(respBody, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user response: %w", err)
	}

	return &user, nil
}

// CreateDirectChannel opens the direct channel between the two user ids and
// returns the channel id. The server returns the existing channel when one
// is already open, so calling this repeatedly is safe.
func (c *Client) CreateDirectChannel(ctx context.Context, fromID, toID string) (string, error) {
	body, _ := json.Marshal([2]string{fromID, toID})

	respBody, _, err := c.doRequest(ctx, http.MethodPost, "/channels/direct", body)
	if err != nil {
		return "", err
	}

	var channel struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(respBody, &channel); err != nil {
		return "", fmt.Errorf("failed to decode channel response: %w", err)
	}

	return channel.ID, nil
}

type postRequest struct {
	ChannelID string `json:"channel_id"`
	Message   string `json:"message"`
}

// CreatePost posts a message into the given channel.
func (c *Client) CreatePost(ctx context.Context, channelID, message string) error {
	body, _ := json.Marshal(postRequest{ChannelID: channelID, Message: message})

	_, _, err := c.doRequest(ctx, http.MethodPost, "/posts", body)
	return err
}
