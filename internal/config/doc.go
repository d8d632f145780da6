// Package config resolves the effective runtime settings: environment
// variables (PACKRAT_API_URL, PACKRAT_HTTP_TIMEOUT, ...) take precedence
// over values persisted in the store, which take precedence over built-in
// defaults. The config command never goes through this package — it
// manipulates only the persisted layer.
package config
