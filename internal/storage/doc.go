// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the durable key-value slot aura uses to remember
// the active chat session across restarts.
//
// # Key Types
//
//   - Store: minimal key-value interface (Get, Set, Delete, Close)
//   - FileStore: one file per key, written atomically (default driver)
//   - SQLiteStore: single kv table in a SQLite database
//   - MemoryStore: process-local map for tests and ephemeral runs
//
// # Usage
//
//	store, err := storage.Open(storage.Options{Driver: storage.DriverFile, Dir: dataDir})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	id, ok, err := store.Get(storage.SessionIDKey)
//
// # Storage Location
//
// By default values live in ~/.aura/state/ (file driver) or ~/.aura/aura.db
// (sqlite driver).
package storage
