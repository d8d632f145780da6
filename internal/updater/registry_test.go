package updater

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCheckLatestVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cli/latest" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"version": "1.2.0", "url": "https://hex.pm/cli/1.2.0"}`)
	}))
	defer srv.Close()

	u := New("1.0.0", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	release, err := u.CheckLatestVersion()
	if err != nil {
		t.Fatalf("CheckLatestVersion failed: %v", err)
	}
	if release.Version != "1.2.0" {
		t.Errorf("Version = %q", release.Version)
	}
}

func TestCheckLatestVersionErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	u := New("1.0.0", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	if _, err := u.CheckLatestVersion(); err == nil {
		t.Error("expected error for non-200 response")
	}
}

func TestCheckLatestVersionEmptyPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	u := New("1.0.0", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	if _, err := u.CheckLatestVersion(); err == nil {
		t.Error("expected error for payload without a version")
	}
}
