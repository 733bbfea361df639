// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the durable key-value slot for the session id.
package storage

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// SessionIDKey is the fixed key holding the active session id. Absence of
// the key means there is no active session.
const SessionIDKey = "aura_session_id"

// ErrInvalidKey is returned for keys that are empty or contain path syntax.
var ErrInvalidKey = errors.New("invalid storage key")

// Store is a durable string key-value store. Writes are last-write-wins.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error

	// Close releases resources held by the store.
	Close() error
}

// =============================================================================
// DRIVER SELECTION
// =============================================================================

// Driver names accepted by Open.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Drivers lists the accepted driver names.
var Drivers = []string{DriverFile, DriverSQLite, DriverMemory}

// Options selects and configures a Store.
type Options struct {
	// Driver is one of "file", "sqlite" or "memory" (default: "file").
	Driver string

	// Dir is the data directory the store writes under.
	Dir string
}

// Open creates the Store described by opts.
func Open(opts Options) (Store, error) {
	switch strings.ToLower(opts.Driver) {
	case "", DriverFile:
		return NewFileStore(filepath.Join(opts.Dir, "state"))
	case DriverSQLite:
		return NewSQLiteStore(filepath.Join(opts.Dir, "aura.db"))
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, errors.Errorf("unknown storage driver %q (want one of %s)", opts.Driver, strings.Join(Drivers, ", "))
	}
}

// validateKey rejects keys that could escape the file store's directory.
func validateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return errors.Wrapf(ErrInvalidKey, "%q", key)
	}
	return nil
}
