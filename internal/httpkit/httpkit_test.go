package httpkit

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewClientSetsUserAgent(t *testing.T) {
	t.Parallel()

	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	c := NewClient(WithUserAgent("test-agent/1.0"), WithTimeout(5*time.Second))
	resp, err := c.Get(srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	DrainAndClose(resp.Body, 1024)

	if gotUA != "test-agent/1.0" {
		t.Errorf("User-Agent = %q, want test-agent/1.0", gotUA)
	}
}

func TestUserAgentNotOverridden(t *testing.T) {
	t.Parallel()

	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	c := NewClient(WithUserAgent("default/1.0"))
	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	req.Header.Set("User-Agent", "explicit/2.0")
	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	DrainAndClose(resp.Body, 1024)

	if gotUA != "explicit/2.0" {
		t.Errorf("User-Agent = %q, want the explicit header kept", gotUA)
	}
}

func TestReadErrorBody(t *testing.T) {
	t.Parallel()

	body := io.NopCloser(strings.NewReader("upstream exploded in a very long way"))
	got := ReadErrorBody(body, 8)
	if got != "upstream" {
		t.Errorf("ReadErrorBody = %q, want truncated to 8 bytes", got)
	}
	if ReadErrorBody(nil, 8) != "" {
		t.Error("ReadErrorBody(nil) != \"\"")
	}
}

func TestDrainAndCloseNil(t *testing.T) {
	t.Parallel()

	DrainAndClose(nil, 10) // must not panic
}
