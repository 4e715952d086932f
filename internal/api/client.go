package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/acme/ticketpanel/internal/ticket"
)

// Failure messages surfaced to the user as notifications. The backend's
// no-content endpoints report a generic failure on any status other than 204;
// read and create endpoints report a dedicated failure on an empty body.
var (
	ErrNoData   = errors.New("No data response")
	ErrAPIError = errors.New("API Error")
)

// Gateway is the boundary to the ticket backend. Every operation returns a
// plain error carrying the user-facing failure message; nothing past this
// boundary panics on transport or HTTP failures.
type Gateway interface {
	ListTickets(ctx context.Context) ([]ticket.Ticket, error)
	GetTicket(ctx context.Context, ticketID int) (ticket.Ticket, error)
	CreateTicket(ctx context.Context, description string) (ticket.Ticket, error)
	AssignUser(ctx context.Context, ticketID, userID int) error
	UnassignUser(ctx context.Context, ticketID int) error
	MarkComplete(ctx context.Context, ticketID int) error
	MarkIncomplete(ctx context.Context, ticketID int) error
	ListUsers(ctx context.Context) ([]ticket.User, error)
}

// Client handles communication with the ticket backend's REST API.
type Client struct {
	APIURL *url.URL     // Base API URL (must include /api)
	Client *http.Client // Underlying HTTP client
	auth   AuthFunc
}

// NewClient returns a ticket backend client with the given base URL and
// authentication function.
func NewClient(apiURL *url.URL, auth AuthFunc, skipVerify bool, timeout time.Duration) *Client {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: skipVerify,
		},
	}
	return &Client{
		APIURL: apiURL,
		Client: &http.Client{Transport: tr, Timeout: timeout},
		auth:   auth,
	}
}

// ListTickets fetches all tickets.
func (c *Client) ListTickets(ctx context.Context) ([]ticket.Ticket, error) {
	var tickets []ticket.Ticket
	if err := c.getJSON(ctx, "tickets", &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// GetTicket fetches a single ticket by id.
func (c *Client) GetTicket(ctx context.Context, ticketID int) (ticket.Ticket, error) {
	var t ticket.Ticket
	if err := c.getJSON(ctx, fmt.Sprintf("tickets/%d", ticketID), &t); err != nil {
		return ticket.Ticket{}, err
	}
	return t, nil
}

// CreateTicket creates a ticket with the given description and returns the
// created ticket.
func (c *Client) CreateTicket(ctx context.Context, description string) (ticket.Ticket, error) {
	body, _ := json.Marshal(map[string]string{"description": description})

	raw, _, err := c.doRequest(ctx, http.MethodPost, "tickets", body)
	if err != nil {
		return ticket.Ticket{}, err
	}
	if emptyBody(raw) {
		return ticket.Ticket{}, ErrNoData
	}

	var t ticket.Ticket
	if err := json.Unmarshal(raw, &t); err != nil {
		return ticket.Ticket{}, fmt.Errorf("decode response: %w", err)
	}
	return t, nil
}

// AssignUser assigns a user to a ticket.
func (c *Client) AssignUser(ctx context.Context, ticketID, userID int) error {
	return c.noContent(ctx, http.MethodPut, fmt.Sprintf("tickets/%d/assign/%d", ticketID, userID))
}

// UnassignUser removes the assignee from a ticket.
func (c *Client) UnassignUser(ctx context.Context, ticketID int) error {
	return c.noContent(ctx, http.MethodPut, fmt.Sprintf("tickets/%d/unassign", ticketID))
}

// MarkComplete marks a ticket as completed.
func (c *Client) MarkComplete(ctx context.Context, ticketID int) error {
	return c.noContent(ctx, http.MethodPut, fmt.Sprintf("tickets/%d/complete", ticketID))
}

// MarkIncomplete marks a ticket as incomplete.
func (c *Client) MarkIncomplete(ctx context.Context, ticketID int) error {
	return c.noContent(ctx, http.MethodDelete, fmt.Sprintf("tickets/%d/complete", ticketID))
}

// ListUsers fetches all users.
func (c *Client) ListUsers(ctx context.Context) ([]ticket.User, error) {
	var users []ticket.User
	if err := c.getJSON(ctx, "users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// getJSON performs a GET where a data body is expected. An empty body counts
// as a failure even when the transport call succeeded.
func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	raw, _, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if emptyBody(raw) {
		return ErrNoData
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// noContent performs a state-change call whose success is defined as
// receiving exactly 204. Any other status is a failure, regardless of
// transport-level success.
func (c *Client) noContent(ctx context.Context, method, path string) error {
	_, status, err := c.doRequest(ctx, method, path, nil)
	if err != nil {
		return err
	}
	if status != http.StatusNoContent {
		return ErrAPIError
	}
	return nil
}

// doRequest performs an authenticated HTTP request and returns response body,
// status, and error. Statuses >= 400 are reported as errors.
func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) (response []byte, statusCode int, err error) {
	var bodyReader io.Reader
	if len(body) > 0 {
		bodyReader = bytes.NewReader(body)
	}

	relURL, err := url.Parse(path)
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("parse path: %w", err)
	}
	fullURL := c.APIURL.ResolveReference(relURL).String()

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("create request: %w", err)
	}

	c.auth(req) // apply authentication

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, http.StatusBadGateway, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return respBody, resp.StatusCode, fmt.Errorf("backend error: status %d", resp.StatusCode)
	}
	return respBody, resp.StatusCode, nil
}

// emptyBody reports whether a response body carries no data. A literal JSON
// null counts as no data, matching backends that 200 on unknown ids.
func emptyBody(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
