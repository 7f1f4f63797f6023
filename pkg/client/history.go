package client

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// HistoryService reads, compares, exports and deletes stored predictions
type HistoryService struct {
	client *Client
}

func listQuery(opts *ListOptions) string {
	if opts == nil {
		return ""
	}
	q := url.Values{}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(opts.PageSize))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// List returns the caller's predictions, newest first
func (s *HistoryService) List(ctx context.Context, opts *ListOptions) (*Page[Prediction], error) {
	var resp Page[Prediction]
	if err := s.client.doRequest(ctx, http.MethodGet, "/predict/history"+listQuery(opts), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListForUser returns another user's predictions. Admin only unless userID
// is the caller.
func (s *HistoryService) ListForUser(ctx context.Context, userID string, opts *ListOptions) (*Page[Prediction], error) {
	var resp Page[Prediction]
	path := "/predict/history/" + url.PathEscape(userID) + listQuery(opts)
	if err := s.client.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes a prediction
func (s *HistoryService) Delete(ctx context.Context, id string) error {
	return s.client.doRequest(ctx, http.MethodDelete, "/predict/history/"+url.PathEscape(id), nil, nil)
}

// Compare returns those of ids that belong to the caller
func (s *HistoryService) Compare(ctx context.Context, ids ...string) ([]Prediction, error) {
	var resp struct {
		Data []Prediction `json:"data"`
	}
	path := "/predict/compare?ids=" + url.QueryEscape(strings.Join(ids, ","))
	if err := s.client.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Report is a downloaded prediction export
type Report struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Report downloads a prediction as "pdf" or "csv"
func (s *HistoryService) Report(ctx context.Context, id, format string) (*Report, error) {
	if format != "pdf" && format != "csv" {
		return nil, fmt.Errorf("unsupported report format %q", format)
	}

	req, err := s.client.newRequest(ctx, http.MethodGet, "/predict/report/"+format+"/"+url.PathEscape(id), nil, "")
	if err != nil {
		return nil, err
	}
	body, header, err := s.client.send(req)
	if err != nil {
		return nil, err
	}

	r := &Report{
		Filename:    "prediction-" + id + "." + format,
		ContentType: header.Get("Content-Type"),
		Body:        body,
	}
	if _, params, err := mime.ParseMediaType(header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		r.Filename = params["filename"]
	}
	return r, nil
}
