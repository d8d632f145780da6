// Package updater powers the startup update banner. It asks the registry
// API for the latest released CLI version, compares it to the running build
// with semver, and caches the answer in the packrat home directory so the
// banner never blocks an invocation.
package updater
