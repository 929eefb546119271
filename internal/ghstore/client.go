// Package ghstore is a client for the GitHub contents API, used purely as
// a durable document/blob store: read an object with its revision SHA,
// write an object guarded by that SHA. No branching or history semantics
// beyond single-object overwrite.
package ghstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrUnauthorized = errors.New("ghstore: authorization rejected")
	ErrNotFound     = errors.New("ghstore: object not found")
	ErrConflict     = errors.New("ghstore: revision conflict")
)

// Client talks to the contents API of one repository with a bearer token.
type Client struct {
	token   string
	owner   string
	repo    string
	apiBase string
	rawBase string
	http    *http.Client
}

// New creates a client. apiBase/rawBase default to the public GitHub
// endpoints when empty; tests point them at a local server.
func New(token, owner, repo, apiBase, rawBase string) *Client {
	if apiBase == "" {
		apiBase = "https://api.github.com"
	}
	if rawBase == "" {
		rawBase = "https://raw.githubusercontent.com"
	}
	return &Client{
		token:   token,
		owner:   owner,
		repo:    repo,
		apiBase: strings.TrimRight(apiBase, "/"),
		rawBase: strings.TrimRight(rawBase, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) contentsURL(path string) string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.apiBase, c.owner, c.repo, path)
}

// RawURL returns the direct-content URL for a stored object, which serves
// faster than the API download_url for hotlinking.
func (c *Client) RawURL(path string) string {
	return fmt.Sprintf("%s/%s/%s/main/%s", c.rawBase, c.owner, c.repo, path)
}

type contentResponse struct {
	SHA     string `json:"sha"`
	Content string `json:"content"`
}

type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
}

// GetFile reads an object and its revision SHA. ErrNotFound when the path
// does not exist.
func (c *Client) GetFile(ctx context.Context, path string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.contentsURL(path), nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp); err != nil {
		return nil, "", err
	}

	var body contentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, "", fmt.Errorf("decode contents response: %w", err)
	}

	// The API wraps base64 content at 60 columns.
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(body.Content, "\n", ""))
	if err != nil {
		return nil, "", fmt.Errorf("decode content: %w", err)
	}
	return decoded, body.SHA, nil
}

// PutFile writes an object. content is raw bytes; the transport encoding
// operates on the bytes directly, so multi-byte UTF-8 text survives. A
// non-empty sha makes the write conditional on that revision.
func (c *Client) PutFile(ctx context.Context, path string, content []byte, sha, message string) error {
	payload, err := json.Marshal(putRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		SHA:     sha,
	})
	if err != nil {
		return fmt.Errorf("marshal put request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.contentsURL(path), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("put %s: %w", path, err)
	}
	defer resp.Body.Close()

	return classifyStatus(resp)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
}

func classifyStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, apiMessage(resp))
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrConflict, apiMessage(resp))
	default:
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, apiMessage(resp))
	}
}

func apiMessage(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return resp.Status
	}
	var parsed apiError
	if err := json.Unmarshal(raw, &parsed); err != nil || parsed.Message == "" {
		return resp.Status
	}
	return parsed.Message
}
