// internal/client/client.go
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"shelftrack/internal/inventory"
)

// Client is a typed HTTP client for the shelftrack API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the service at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
	}
}

// apiError carries the status code and body of a non-2xx response.
type apiError struct {
	StatusCode int
	Message    string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(resp.Body)
		return &apiError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(msg)),
		}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

type memberRequest struct {
	MemberID inventory.MemberID `json:"member_id"`
}

func (c *Client) AddTitle(ctx context.Context, id inventory.BookID) error {
	return c.do(ctx, http.MethodPost, "/titles", struct {
		ID inventory.BookID `json:"id"`
	}{ID: id}, nil)
}

func (c *Client) RemoveTitle(ctx context.Context, id inventory.BookID) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/titles/%s", id), nil, nil)
}

func (c *Client) Checkout(ctx context.Context, id inventory.BookID, member inventory.MemberID) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/titles/%s/checkout", id), memberRequest{member}, nil)
}

func (c *Client) Return(ctx context.Context, id inventory.BookID, member inventory.MemberID) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/titles/%s/return", id), memberRequest{member}, nil)
}

func (c *Client) Reserve(ctx context.Context, id inventory.BookID, member inventory.MemberID) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/titles/%s/holds", id), memberRequest{member}, nil)
}

func (c *Client) CancelReservation(ctx context.Context, id inventory.BookID, member inventory.MemberID) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/titles/%s/holds/%s", id, member), nil, nil)
}

func (c *Client) TouchAccess(ctx context.Context, id inventory.BookID) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/titles/%s/touch", id), nil, nil)
}

func (c *Client) TitleStatus(ctx context.Context, id inventory.BookID) (inventory.Title, error) {
	var title inventory.Title
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/titles/%s", id), nil, &title)
	return title, err
}

// ShelfSequence fetches the shelf order, most recently touched first.
func (c *Client) ShelfSequence(ctx context.Context) ([]inventory.BookID, error) {
	var resp struct {
		Shelf []inventory.BookID `json:"shelf"`
	}
	if err := c.do(ctx, http.MethodGet, "/shelf", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Shelf, nil
}

// LeastRecentCandidate fetches the weeding candidate at the back of the
// shelf.
func (c *Client) LeastRecentCandidate(ctx context.Context) (inventory.BookID, error) {
	var resp struct {
		ID inventory.BookID `json:"id"`
	}
	if err := c.do(ctx, http.MethodGet, "/shelf/least-recent", nil, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}
