package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/nikolayk812/voiceshop/internal/domain"
	"github.com/nikolayk812/voiceshop/internal/log"
	"github.com/sirupsen/logrus"
)

// readEntries loads a JSON array file as raw, untouched entries.
// A missing or blank file is an empty array.
func readEntries(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.PersistenceError{Op: "read", Path: path, Err: err}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &domain.PersistenceError{Op: "decode", Path: path, Err: err}
	}

	return entries, nil
}

// writeEntries replaces the file with the pretty-printed array: the data goes
// to <path>.tmp first and is renamed over the target, so readers never see a
// partial write. The temp file is removed if anything fails.
func writeEntries(path string, entries []json.RawMessage) error {
	if entries == nil {
		entries = []json.RawMessage{}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return &domain.PersistenceError{Op: "encode", Path: path, Err: err}
	}

	tmpPath := path + ".tmp"
	if err := writeSynced(tmpPath, data); err != nil {
		removeTemp(tmpPath)
		return &domain.PersistenceError{Op: "write", Path: path, Err: err}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		removeTemp(tmpPath)
		return &domain.PersistenceError{Op: "rename", Path: path, Err: err}
	}

	return nil
}

func writeSynced(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("os.OpenFile: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("f.Close: %w", closeErr))
		}
	}()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("f.Write: %w", err)
	}

	if err := f.Sync(); err != nil {
		return fmt.Errorf("f.Sync: %w", err)
	}

	return nil
}

func removeTemp(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.With("repository").WithFields(logrus.Fields{
			"path":  path,
			"error": err,
		}).Warn("temp file cleanup failed")
	}
}
