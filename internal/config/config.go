package config

import (
	"fmt"
	"time"

	"github.com/packrat-dev/packrat/internal/branding"
	"github.com/packrat-dev/packrat/internal/store"
	"github.com/spf13/viper"
)

// Built-in defaults, used when neither the environment nor the store sets
// a key.
const (
	DefaultHTTPConcurrency = 8
	DefaultHTTPTimeout     = 15 * time.Second
)

// Runtime holds the resolved settings view for one invocation.
type Runtime struct {
	v *viper.Viper
}

// Load reads the persisted store and builds the effective settings on top
// of it. Environment variables with the PACKRAT_ prefix override store
// values key for key.
func Load() (*Runtime, error) {
	s, err := store.Open()
	if err != nil {
		return nil, err
	}
	entries, err := s.Read()
	if err != nil {
		return nil, fmt.Errorf("loading persisted config: %w", err)
	}
	return newRuntime(entries), nil
}

// newRuntime builds a Runtime from a store snapshot.
func newRuntime(entries []store.Entry) *Runtime {
	v := viper.New()
	v.SetEnvPrefix(branding.EnvPrefix())
	v.AutomaticEnv()

	v.SetDefault("api_url", branding.RegistryURL())
	v.SetDefault("http_concurrency", DefaultHTTPConcurrency)
	v.SetDefault("http_timeout", int(DefaultHTTPTimeout/time.Second))

	// Store values sit between env overrides and built-in defaults.
	for _, e := range entries {
		v.SetDefault(e.Key, e.Value.Raw())
	}

	return &Runtime{v: v}
}

// APIURL returns the registry API base URL.
func (r *Runtime) APIURL() string { return r.v.GetString("api_url") }

// APIKey returns the plaintext API key, if one is resolvable without a
// passphrase (env override or plaintext store entry). The encrypted form
// is handled by the caller that owns the passphrase prompt.
func (r *Runtime) APIKey() string { return r.v.GetString("api_key") }

// Offline reports whether network access is disabled.
func (r *Runtime) Offline() bool { return r.v.GetBool("offline") }

// UnsafeHTTPS reports whether TLS verification is disabled.
func (r *Runtime) UnsafeHTTPS() bool { return r.v.GetBool("unsafe_https") }

// UnsafeRegistry reports whether registry signature checks are disabled.
func (r *Runtime) UnsafeRegistry() bool { return r.v.GetBool("unsafe_registry") }

// HTTPProxy returns the proxy URL for plain HTTP requests.
func (r *Runtime) HTTPProxy() string { return r.v.GetString("http_proxy") }

// HTTPSProxy returns the proxy URL for HTTPS requests.
func (r *Runtime) HTTPSProxy() string { return r.v.GetString("https_proxy") }

// HTTPConcurrency returns the maximum number of parallel registry requests.
func (r *Runtime) HTTPConcurrency() int {
	n := r.v.GetInt("http_concurrency")
	if n <= 0 {
		return DefaultHTTPConcurrency
	}
	return n
}

// HTTPTimeout returns the per-request timeout. The persisted value is in
// seconds.
func (r *Runtime) HTTPTimeout() time.Duration {
	secs := r.v.GetInt("http_timeout")
	if secs <= 0 {
		return DefaultHTTPTimeout
	}
	return time.Duration(secs) * time.Second
}
