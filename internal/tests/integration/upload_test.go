package integration

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestUploadServedAsDownload(t *testing.T) {
	srv := newTestServer(t, 100)
	alice, _ := srv.signup(t, "Alice", "alice@gmail.com")

	url, err := alice.Upload(context.Background(), "landing.html", strings.NewReader("<script>alert(1)</script>"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/") {
		t.Fatalf("Upload() url = %q", url)
	}

	resp, err := http.Get(srv.URL + url)
	if err != nil {
		t.Fatalf("GET %s error = %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Disposition"); !strings.HasPrefix(got, "attachment") {
		t.Errorf("Content-Disposition = %q, want attachment", got)
	}
	if string(body) != "<script>alert(1)</script>" {
		t.Errorf("body = %q", body)
	}
}
