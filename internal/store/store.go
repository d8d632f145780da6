package store

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// Entry is one key/value pair in the store.
type Entry struct {
	Key   string
	Value Value
}

// Store reads and writes the persisted config file at a fixed path.
// Every mutation is written back immediately and atomically.
type Store struct {
	path string
}

// Open returns a Store bound to the config file in the packrat home
// directory (PACKRAT_HOME, falling back to ~/.packrat).
func Open() (*Store, error) {
	path, err := FilePath()
	if err != nil {
		return nil, err
	}
	return &Store{path: path}, nil
}

// OpenAt returns a Store bound to the config file inside dir.
func OpenAt(dir string) *Store {
	return &Store{path: filepath.Join(dir, ConfigFile)}
}

// Path returns the config file path the store is bound to.
func (s *Store) Path() string { return s.path }

// Read returns the full snapshot in file order, internal entries included.
// A missing or empty file yields an empty snapshot.
func (s *Store) Read() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", s.path, err)
	}
	return decodeEntries(data, s.path)
}

// Update upserts the given entries and persists immediately. Existing keys
// keep their position; new keys are appended in the order given.
func (s *Store) Update(pairs []Entry) error {
	entries, err := s.Read()
	if err != nil {
		return err
	}

	for _, pair := range pairs {
		replaced := false
		for i := range entries {
			if entries[i].Key == pair.Key {
				entries[i].Value = pair.Value
				replaced = true
				break
			}
		}
		if !replaced {
			entries = append(entries, pair)
		}
	}

	return s.save(entries)
}

// Remove deletes the given keys and persists immediately. Absent keys are
// not an error.
func (s *Store) Remove(keys []string) error {
	entries, err := s.Read()
	if err != nil {
		return err
	}

	kept := entries[:0]
	for _, e := range entries {
		drop := false
		for _, k := range keys {
			if e.Key == k {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, e)
		}
	}

	return s.save(kept)
}

func decodeEntries(data []byte, path string) ([]Entry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("config file %s: expected a top-level mapping", path)
	}

	entries := make([]Entry, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		entries = append(entries, Entry{
			Key:   root.Content[i].Value,
			Value: valueFromNode(root.Content[i+1]),
		})
	}
	return entries, nil
}

// save writes entries atomically: encode into a temp file in the target
// directory, fsync, then rename over the config file. The file is created
// 0600 since it can hold credentials.
func (s *Store) save(entries []Entry) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, DirPermSecure); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range entries {
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
			e.Value.toNode())
	}

	data, err := yaml.Marshal(root)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.yaml")
	if err != nil {
		return fmt.Errorf("creating temp config file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing config: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("syncing config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp config file: %w", err)
	}

	if err := os.Chmod(tmpPath, FilePermSecure); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting config file permissions: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing config file %s: %w", s.path, err)
	}
	return nil
}
