package updater

import (
	"net/http"

	"github.com/packrat-dev/packrat/internal/config"
)

// Release describes a published CLI version as reported by the registry.
type Release struct {
	Version string `json:"version"`
	URL     string `json:"url"`
}

// Updater checks the registry for newer CLI versions.
type Updater struct {
	currentVersion string
	httpClient     *http.Client
	baseURL        string
}

// Option configures an Updater.
type Option func(*Updater)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(u *Updater) {
		u.httpClient = c
	}
}

// WithBaseURL sets the registry API base URL, bypassing runtime resolution.
func WithBaseURL(base string) Option {
	return func(u *Updater) {
		u.baseURL = base
	}
}

// New creates an Updater for the given current version. Unless overridden
// by options, the HTTP client and base URL come from the resolved runtime
// settings, so proxy, timeout, and TLS keys apply to the version check.
func New(currentVersion string, opts ...Option) *Updater {
	u := &Updater{currentVersion: currentVersion}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// CurrentVersion returns the version this updater was created with.
func (u *Updater) CurrentVersion() string {
	return u.currentVersion
}

// resolve fills in the HTTP client and base URL from runtime settings when
// they were not set by options. It reports false when the check should be
// skipped entirely (offline mode or unresolvable settings).
func (u *Updater) resolve() bool {
	if u.httpClient != nil && u.baseURL != "" {
		return true
	}

	rt, err := config.Load()
	if err != nil {
		return false
	}
	if rt.Offline() {
		return false
	}
	if u.baseURL == "" {
		u.baseURL = rt.APIURL()
	}
	if u.httpClient == nil {
		client, err := rt.HTTPClient()
		if err != nil {
			return false
		}
		u.httpClient = client
	}
	return true
}
