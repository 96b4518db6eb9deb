package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrNotFound marks a valid-but-absent resource (no active order, no payment
// yet). Distinct from transport failures so callers can treat it as an empty
// state instead of retrying.
var ErrNotFound = errors.New("resource not found")

// Client is the thin HTTP client for the restaurant backend.
type Client struct {
	BaseURL  string
	DeviceID string
	// TokenFn supplies the customer bearer token, "" for guest calls.
	TokenFn func() string
	HTTP    *http.Client
}

func NewClient(baseURL, deviceID string, tokenFn func() string) *Client {
	if tokenFn == nil {
		tokenFn = func() string { return "" }
	}
	return &Client{
		BaseURL:  baseURL,
		DeviceID: deviceID,
		TokenFn:  tokenFn,
		HTTP:     &http.Client{Timeout: 15 * time.Second},
	}
}

// envelope is the backend's uniform response shape.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Device-Id", c.DeviceID)
	if tok := c.TokenFn(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if res.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode response: %s", ExtractMessage(raw))
	}
	if res.StatusCode >= 400 || !env.Success {
		return errors.New(ExtractMessage(raw))
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		if out != nil {
			return ErrNotFound
		}
		return nil
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data: %w", err)
		}
	}
	return nil
}

// ExtractMessage normalizes an error payload to one display string. Checks
// message, then data.message, then response.data.message, then falls back.
// Every call site goes through this so the UI error text stays consistent.
func ExtractMessage(raw []byte) string {
	const fallback = "Something went wrong. Please try again."

	var direct struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &direct) == nil && direct.Message != "" {
		return direct.Message
	}

	var nested struct {
		Data struct {
			Message string `json:"message"`
		} `json:"data"`
	}
	if json.Unmarshal(raw, &nested) == nil && nested.Data.Message != "" {
		return nested.Data.Message
	}

	var deep struct {
		Response struct {
			Data struct {
				Message string `json:"message"`
			} `json:"data"`
		} `json:"response"`
	}
	if json.Unmarshal(raw, &deep) == nil && deep.Response.Data.Message != "" {
		return deep.Response.Data.Message
	}

	return fallback
}
