package config

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
)

// HTTPClient builds an HTTP client honoring the resolved proxy, timeout,
// and TLS settings. Callers cache the client for the invocation; building
// it does no network work.
func (r *Runtime) HTTPClient() (*http.Client, error) {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
	}

	httpProxy := r.HTTPProxy()
	httpsProxy := r.HTTPSProxy()
	if httpProxy != "" || httpsProxy != "" {
		proxyFor, err := proxySelector(httpProxy, httpsProxy)
		if err != nil {
			return nil, err
		}
		transport.Proxy = proxyFor
	}

	if r.UnsafeHTTPS() {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   r.HTTPTimeout(),
	}, nil
}

// proxySelector returns a Proxy func that picks the configured proxy by
// request scheme, falling back to the process environment when the matching
// key is unset.
func proxySelector(httpProxy, httpsProxy string) (func(*http.Request) (*url.URL, error), error) {
	var httpURL, httpsURL *url.URL
	var err error

	if httpProxy != "" {
		if httpURL, err = url.Parse(httpProxy); err != nil {
			return nil, fmt.Errorf("parsing http_proxy: %w", err)
		}
	}
	if httpsProxy != "" {
		if httpsURL, err = url.Parse(httpsProxy); err != nil {
			return nil, fmt.Errorf("parsing https_proxy: %w", err)
		}
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsURL != nil {
			return httpsURL, nil
		}
		if req.URL.Scheme == "http" && httpURL != nil {
			return httpURL, nil
		}
		return http.ProxyFromEnvironment(req)
	}, nil
}
