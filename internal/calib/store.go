package calib

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Load reads a calibration snapshot from disk. Missing files return an empty snapshot.
func Load(path string) (Calib, error) {
	var c Calib
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return Calib{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return c, nil
}

// Save writes a calibration snapshot, replacing any previous file in one rename.
func Save(path string, c Calib) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadSet reads a snapshot from disk into a fresh Set. Invalid snapshots yield an empty set.
func LoadSet(path string) (*Set, int, error) {
	c, err := Load(path)
	if err != nil {
		return &Set{}, 0, err
	}
	set := &Set{}
	set.LoadSnapshot(c)
	return set, c.MonitorIndex, nil
}
