// Package store implements the persisted packrat configuration store.
//
// The store is an ordered key/value file (config.yaml) in the packrat home
// directory. It exposes three operations — Read, Update, Remove — and
// persists every mutation immediately with an atomic write. Entry order is
// preserved across load/store cycles so listings are stable.
//
// The store holds internal entries alongside user-visible settings; callers
// that present entries to users are responsible for filtering. The API key
// can be kept at rest in encrypted form under the encrypted_key entry.
package store
