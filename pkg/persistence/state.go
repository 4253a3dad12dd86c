package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// StateVersion is the current version of the state file format.
const StateVersion = 1

// ErrUnsupportedVersion is returned by Load for a state file written by a
// newer format.
var ErrUnsupportedVersion = errors.New("unsupported state file version")

// LockState is the persisted runtime state of one lock component.
type LockState struct {
	// Version is the state file format version.
	Version int `json:"version"`

	// SavedAt is when the state was last saved.
	SavedAt time.Time `json:"saved_at"`

	// Paired is set once pairing with the lock completed.
	Paired bool `json:"paired"`

	// PairedAt is when pairing completed.
	PairedAt time.Time `json:"paired_at,omitempty"`

	// PairedAs is the role used for pairing ("bridge" or "app").
	PairedAs string `json:"paired_as,omitempty"`

	// PinFingerprint identifies the security PIN without storing it.
	PinFingerprint string `json:"pin_fingerprint,omitempty"`

	// LastLogIndex is the highest event-log index already published.
	LastLogIndex uint32 `json:"last_log_index,omitempty"`

	// AuthNames maps authorization ids to names from the last auth-data
	// refresh.
	AuthNames map[uint32]string `json:"auth_names,omitempty"`
}

// LockStateStore persists a LockState to a JSON file.
type LockStateStore struct {
	mu   sync.Mutex
	path string
}

// NewLockStateStore creates a store at path.
func NewLockStateStore(path string) *LockStateStore {
	return &LockStateStore{path: path}
}

// Path returns the file path.
func (s *LockStateStore) Path() string { return s.path }

// Save writes state, creating the parent directory. The write goes to a
// temporary file first so a crash never leaves a truncated state file.
func (s *LockStateStore) Save(state *LockState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	state.Version = StateVersion
	state.SavedAt = time.Now()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Load reads the state. It returns nil, nil when no state was saved yet.
func (s *LockStateStore) Load() (*LockState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	state := &LockState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	if state.Version > StateVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, state.Version)
	}
	return state, nil
}

// Clear removes the state file.
func (s *LockStateStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
