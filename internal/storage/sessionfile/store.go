package sessionfile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

const defaultSessionFile = "./wal/session.json"

// Store persists the remembered access token so later runs stay signed in.
type Store struct {
	path string
}

// State is the persisted session.
type State struct {
	Token   string    `json:"token"`
	Email   string    `json:"email,omitempty"`
	SavedAt time.Time `json:"saved_at"`
}

// NewStore creates a session store writing to path.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = defaultSessionFile
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, "create session dir")
	}
	return &Store{path: path}, nil
}

// Path returns the session file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the stored session. It returns nil when nothing is stored.
func (s *Store) Load() (*State, error) {
	if s == nil || s.path == "" {
		return nil, nil
	}

	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read session")
	}

	if len(payload) == 0 {
		return nil, nil
	}

	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, errors.Wrap(err, "decode session")
	}
	if state.Token == "" {
		return nil, nil
	}

	return &state, nil
}

// Save writes the session atomically via temp file.
func (s *Store) Save(state State) error {
	if s == nil || s.path == "" {
		return nil
	}

	payload, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode session")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o600); err != nil {
		return errors.Wrap(err, "write session temp file")
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "persist session")
	}

	return nil
}

// Clear removes the stored session. Clearing an empty store is not an error.
func (s *Store) Clear() error {
	if s == nil || s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrap(err, "remove session")
	}
	return nil
}
