package blob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://blob.vercel-storage.com"
	apiVersion     = "7"
)

// Blob is an object as reported by the blob store.
type Blob struct {
	URL         string    `json:"url"`
	DownloadURL string    `json:"downloadUrl"`
	Pathname    string    `json:"pathname"`
	ContentType string    `json:"contentType,omitempty"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// Client talks to the Vercel Blob REST API with a read-write token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) Put(ctx context.Context, pathname string, data []byte, contentType string) (*Blob, error) {
	endpoint := c.baseURL + "/" + escapePath(strings.TrimLeft(pathname, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build blob put request failed: %w", err)
	}
	c.authorize(req)
	req.Header.Set("x-add-random-suffix", "1")
	if contentType != "" {
		req.Header.Set("x-content-type", contentType)
	}

	var out Blob
	if err := c.do(req, &out); err != nil {
		return nil, fmt.Errorf("blob put %s failed: %w", pathname, err)
	}
	if out.Size == 0 {
		out.Size = int64(len(data))
	}
	if out.UploadedAt.IsZero() {
		out.UploadedAt = time.Now()
	}
	return &out, nil
}

func (c *Client) List(ctx context.Context, prefix string, limit int) ([]Blob, error) {
	query := url.Values{}
	if prefix != "" {
		query.Set("prefix", prefix)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	endpoint := c.baseURL
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build blob list request failed: %w", err)
	}
	c.authorize(req)

	var out struct {
		Blobs   []Blob `json:"blobs"`
		Cursor  string `json:"cursor"`
		HasMore bool   `json:"hasMore"`
	}
	if err := c.do(req, &out); err != nil {
		return nil, fmt.Errorf("blob list failed: %w", err)
	}
	return out.Blobs, nil
}

func (c *Client) Delete(ctx context.Context, urls ...string) error {
	body, err := json.Marshal(map[string][]string{"urls": urls})
	if err != nil {
		return fmt.Errorf("marshal blob delete request failed: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/delete", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build blob delete request failed: %w", err)
	}
	c.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("blob delete failed: %w", err)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("x-api-version", apiVersion)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse response failed: %w", err)
	}
	return nil
}

type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Body)
}

func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
