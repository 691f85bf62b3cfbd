package personas

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Persona is a server-side role profile. The client never interprets
// these fields, it only decodes and displays them.
type Persona struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Description string   `json:"description"`
	Approach    string   `json:"approach,omitempty"`
	Expertise   []string `json:"expertise,omitempty"`
}

// List fetches every available persona via the REST API.
func (c *Client) List(ctx context.Context) ([]Persona, error) {
	var out []Persona
	if err := c.getJSON(ctx, "/personas", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one persona by id.
func (c *Client) Get(ctx context.Context, id string) (*Persona, error) {
	var out Persona
	if err := c.getJSON(ctx, "/personas/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health probes the server's liveness endpoint. Any non-success
// status or network failure is a *TransportError.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.healthURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: "GET " + c.healthURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{Op: "GET " + c.healthURL, StatusCode: resp.StatusCode}
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	op := "GET " + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.clientID != "" {
		req.Header.Set("X-Client-ID", c.clientID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{Op: op, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}
