// Package prefs persists small UI preferences as JSON blobs. Callers go through Load and Save,
// which treat every storage failure as "no saved preference".
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by stores for keys that were never set.
var ErrNotFound = errors.New("preference not found")

// Drivers accepted by Open.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Store is an opaque key/value store of JSON blobs.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
}

// ScaleKey is the key of the fullscreen manual scale for a server host.
func ScaleKey(host string) string {
	return "deskslice:fsScale:" + host
}

// PointerKey is the key of the remote pointer toggle.
const PointerKey = "deskslice:pointerEnabled"

// Open returns a store for driver rooted at path.
func Open(driver, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverFile:
		return NewFileStore(path), nil
	case DriverSQLite:
		return OpenSQLite(path)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown prefs driver %q", driver)
	}
}

// Load decodes the value at key into v. It reports false when the store is nil, the key is
// missing, or the stored value cannot be decoded.
func Load(s Store, key string, v any) bool {
	if s == nil {
		return false
	}
	data, err := s.Get(key)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// Save encodes v and stores it at key, ignoring any failure.
func Save(s Store, key string, v any) {
	if s == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = s.Set(key, data)
}
