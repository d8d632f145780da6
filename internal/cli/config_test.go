package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/packrat-dev/packrat/internal/store"
)

// fakeStore records every collaborator call so tests can assert that
// rejected keys never reach the store.
type fakeStore struct {
	entries []store.Entry
	reads   int
	updates int
	removes int
}

func (f *fakeStore) Read() ([]store.Entry, error) {
	f.reads++
	return append([]store.Entry(nil), f.entries...), nil
}

func (f *fakeStore) Update(pairs []store.Entry) error {
	f.updates++
	for _, pair := range pairs {
		replaced := false
		for i := range f.entries {
			if f.entries[i].Key == pair.Key {
				f.entries[i].Value = pair.Value
				replaced = true
				break
			}
		}
		if !replaced {
			f.entries = append(f.entries, pair)
		}
	}
	return nil
}

func (f *fakeStore) Remove(keys []string) error {
	f.removes++
	kept := f.entries[:0]
	for _, e := range f.entries {
		drop := false
		for _, k := range keys {
			if e.Key == k {
				drop = true
			}
		}
		if !drop {
			kept = append(kept, e)
		}
	}
	f.entries = kept
	return nil
}

func (f *fakeStore) calls() int { return f.reads + f.updates + f.removes }

func seededStore() *fakeStore {
	return &fakeStore{entries: []store.Entry{
		{Key: "api_url", Value: store.StringValue("https://hex.pm/api")},
		{Key: "encrypted_key", Value: store.StringValue("abc")},
		{Key: "$internal", Value: store.StringValue("marker")},
	}}
}

func TestListExcludesReservedEntries(t *testing.T) {
	s := seededStore()
	var out bytes.Buffer

	if err := runConfig(&out, s, nil, false); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	got := out.String()
	if strings.Contains(got, "encrypted_key") {
		t.Errorf("list output exposes encrypted_key:\n%s", got)
	}
	if strings.Contains(got, "$internal") {
		t.Errorf("list output exposes $internal:\n%s", got)
	}
	if got != "api_url: \"https://hex.pm/api\"\n" {
		t.Errorf("unexpected list output: %q", got)
	}
}

func TestReadMatchesListRendering(t *testing.T) {
	s := seededStore()

	var listOut bytes.Buffer
	if err := runConfig(&listOut, s, nil, false); err != nil {
		t.Fatalf("list failed: %v", err)
	}

	var readOut bytes.Buffer
	if err := runConfig(&readOut, s, []string{"api_url"}, false); err != nil {
		t.Fatalf("read failed: %v", err)
	}

	line := strings.TrimSuffix(listOut.String(), "\n")
	wantValue := strings.TrimPrefix(line, "api_url: ")
	if got := strings.TrimSuffix(readOut.String(), "\n"); got != wantValue {
		t.Errorf("read output %q does not match list rendering %q", got, wantValue)
	}
}

func TestReadMissingKey(t *testing.T) {
	s := seededStore()
	var out bytes.Buffer

	err := runConfig(&out, s, []string{"offline"}, false)
	if err == nil {
		t.Fatal("expected error for missing key")
	}
	if !strings.Contains(err.Error(), "offline") {
		t.Errorf("error should name the missing key: %v", err)
	}
}

func TestReadFilteredKeyIsMissing(t *testing.T) {
	// encrypted_key exists in the store but is filtered, so reading it
	// behaves like reading an absent key.
	s := seededStore()
	var out bytes.Buffer

	if err := runConfig(&out, s, []string{"encrypted_key"}, false); err == nil {
		t.Fatal("expected error reading encrypted_key")
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestSetRejectsUnknownKey(t *testing.T) {
	s := seededStore()
	before := append([]store.Entry(nil), s.entries...)
	var out bytes.Buffer

	err := runConfig(&out, s, []string{"not_a_real_key", "x"}, false)
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "invalid key not_a_real_key") {
		t.Errorf("unexpected error: %v", err)
	}
	if s.updates != 0 {
		t.Errorf("store Update called %d times for a rejected key", s.updates)
	}
	if len(s.entries) != len(before) {
		t.Error("store changed after a rejected write")
	}
}

func TestSentinelRejectedWithoutStoreAccess(t *testing.T) {
	cases := []struct {
		name string
		args []string
		del  bool
	}{
		{"read", []string{"$anything"}, false},
		{"set", []string{"$anything", "v"}, false},
		{"delete", []string{"$anything"}, true},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			s := seededStore()
			var out bytes.Buffer

			err := runConfig(&out, s, tt.args, tt.del)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), "invalid key name") {
				t.Errorf("unexpected error: %v", err)
			}
			if s.calls() != 0 {
				t.Errorf("store accessed %d times for a sentinel key", s.calls())
			}
		})
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := seededStore()
	var out bytes.Buffer

	if err := runConfig(&out, s, []string{"offline"}, true); err != nil {
		t.Fatalf("deleting absent key failed: %v", err)
	}
	after := append([]store.Entry(nil), s.entries...)

	if err := runConfig(&out, s, []string{"offline"}, true); err != nil {
		t.Fatalf("second delete failed: %v", err)
	}
	if len(s.entries) != len(after) {
		t.Error("repeated delete changed store state")
	}
	if out.Len() != 0 {
		t.Errorf("delete printed output: %q", out.String())
	}
}

func TestDeleteDoesNotReadSnapshot(t *testing.T) {
	s := seededStore()
	var out bytes.Buffer

	if err := runConfig(&out, s, []string{"offline"}, true); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if s.reads != 0 {
		t.Errorf("delete fetched %d snapshots; want 0", s.reads)
	}
	if s.removes != 1 {
		t.Errorf("delete invoked Remove %d times; want 1", s.removes)
	}
}

func TestSetRoundTrip(t *testing.T) {
	s := seededStore()
	var out bytes.Buffer

	if err := runConfig(&out, s, []string{"http_timeout", "30"}, false); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if s.reads != 0 {
		t.Errorf("set fetched %d snapshots; want 0", s.reads)
	}

	out.Reset()
	if err := runConfig(&out, s, []string{"http_timeout"}, false); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if got := out.String(); got != "\"30\"\n" {
		t.Errorf("read after set = %q, want %q", got, "\"30\"\n")
	}
}

func TestUsageErrors(t *testing.T) {
	cases := []struct {
		name string
		args []string
		del  bool
	}{
		{"delete without key", nil, true},
		{"delete with value", []string{"offline", "true"}, true},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			s := seededStore()
			var out bytes.Buffer

			err := runConfig(&out, s, tt.args, tt.del)
			if !errors.Is(err, errConfigUsage) {
				t.Errorf("got %v, want usage error", err)
			}
			if s.calls() != 0 {
				t.Errorf("store accessed %d times on a usage error", s.calls())
			}
		})
	}
}

func TestArityCheckRejectsThreeArgs(t *testing.T) {
	err := configCmd.Args(configCmd, []string{"a", "b", "c"})
	if !errors.Is(err, errConfigUsage) {
		t.Errorf("got %v, want usage error", err)
	}
}

func TestScenarioAgainstPersistedStore(t *testing.T) {
	t.Setenv("PACKRAT_HOME", t.TempDir())

	s, err := store.Open()
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	seed := []store.Entry{
		{Key: "api_url", Value: store.StringValue("https://hex.pm/api")},
		{Key: "encrypted_key", Value: store.StringValue("abc")},
	}
	if err := s.Update(seed); err != nil {
		t.Fatalf("seeding store: %v", err)
	}

	list := func() string {
		var out bytes.Buffer
		if err := runConfig(&out, s, nil, false); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		return out.String()
	}

	if got := list(); got != "api_url: \"https://hex.pm/api\"\n" {
		t.Fatalf("initial list = %q", got)
	}

	var out bytes.Buffer
	if err := runConfig(&out, s, []string{"api_url"}, false); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if got := out.String(); got != "\"https://hex.pm/api\"\n" {
		t.Fatalf("read = %q", got)
	}

	if err := runConfig(&bytes.Buffer{}, s, []string{"offline", "true"}, false); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if got := list(); strings.Count(got, "\n") != 2 {
		t.Fatalf("list after set = %q, want two lines", got)
	}

	if err := runConfig(&bytes.Buffer{}, s, []string{"offline"}, true); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if got := list(); got != "api_url: \"https://hex.pm/api\"\n" {
		t.Fatalf("list after delete = %q", got)
	}
}

func TestStoreOperationsIgnoreEnvOverrides(t *testing.T) {
	// Env overrides apply at use time in the runtime layer; the config
	// command manipulates only the persisted values.
	t.Setenv("PACKRAT_HOME", t.TempDir())
	t.Setenv("PACKRAT_API_URL", "https://override.example/api")
	t.Setenv("PACKRAT_OFFLINE", "true")

	s, err := store.Open()
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	if err := s.Update([]store.Entry{{Key: "api_url", Value: store.StringValue("https://hex.pm/api")}}); err != nil {
		t.Fatalf("seeding store: %v", err)
	}

	var out bytes.Buffer
	if err := runConfig(&out, s, []string{"api_url"}, false); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if got := out.String(); got != "\"https://hex.pm/api\"\n" {
		t.Errorf("read = %q; env override leaked into the persisted layer", got)
	}

	out.Reset()
	if err := runConfig(&out, s, []string{"offline"}, false); err == nil {
		t.Error("offline should be absent from the store despite PACKRAT_OFFLINE")
	}
}
