// Package store provides the persistent locations that hold cached timelines.
package store

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// ErrNotFound is returned when nothing has been written to a location.
var ErrNotFound = errors.New("cache entry not found")

// Store is a byte-addressable persistent location keyed by path or identifier.
type Store interface {
	// Stat returns the last-modified time of location.
	Stat(location string) (time.Time, error)

	// Read returns the whole content stored at location.
	Read(location string) ([]byte, error)

	// Write replaces the content at location.
	Write(location string, data []byte) error
}

// Open returns the store for backend. dbPath is only used by the sqlite backend.
// On success the returned close function is non-nil.
func Open(backend, dbPath string) (Store, func() error, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendFile:
		return FileStore{}, func() error { return nil }, nil
	case BackendSQLite:
		st, err := OpenSQLite(dbPath)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache backend %q (want file or sqlite)", backend)
	}
}
