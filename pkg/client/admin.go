package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// AdminService wraps the admin-only endpoints
type AdminService struct {
	client *Client
}

// Users lists every account
func (s *AdminService) Users(ctx context.Context, opts *ListOptions) (*Page[User], error) {
	var resp Page[User]
	if err := s.client.doRequest(ctx, http.MethodGet, "/admin/users"+listQuery(opts), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Predictions lists every prediction with its owner
func (s *AdminService) Predictions(ctx context.Context, opts *ListOptions) (*Page[AdminPrediction], error) {
	var resp Page[AdminPrediction]
	if err := s.client.doRequest(ctx, http.MethodGet, "/admin/predictions"+listQuery(opts), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Settings returns the application settings
func (c *Client) Settings(ctx context.Context) (map[string]interface{}, error) {
	var resp struct {
		Settings map[string]interface{} `json:"settings"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/settings", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Settings, nil
}

// UpdateSettings merges updates into the settings; a nil value removes the
// key. Admin only.
func (s *AdminService) UpdateSettings(ctx context.Context, updates map[string]interface{}) (map[string]interface{}, error) {
	var resp struct {
		Settings map[string]interface{} `json:"settings"`
	}
	if err := s.client.doRequest(ctx, http.MethodPut, "/settings", updates, &resp); err != nil {
		return nil, err
	}
	return resp.Settings, nil
}

// Upload sends r as the multipart "file" field and returns its public URL
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(fw, r); err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/upload", &buf, mw.FormDataContentType())
	if err != nil {
		return "", err
	}
	body, _, err := c.send(req)
	if err != nil {
		return "", err
	}

	var resp struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	return resp.URL, nil
}
