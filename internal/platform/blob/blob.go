// Package blob stores shard files under slash separated keys
// Drivers: fs (local directory), s3 (AWS S3 or MinIO), memory (tests)
package blob

import (
	"context"
	"io"
	"strings"

	perr "brreg/internal/platform/errors"
)

// Driver names a storage backend
type Driver string

// Supported drivers
const (
	DriverFilesystem Driver = "fs"
	DriverS3         Driver = "s3"
	DriverMemory     Driver = "memory"
)

// LockKey is the object that marks a tree as held by a writer
const LockKey = ".brreg.lock"

// Release drops a held lock
type Release func() error

// Store is the storage surface the shard tree needs
// Put overwrites atomically per key; List returns sorted keys
type Store interface {
	Driver() Driver
	Location() string
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Put(ctx context.Context, key string, r io.Reader) error
	Exists(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) ([]string, error)

	// Lock takes the single-writer lock for the whole store; a held lock is a conflict
	Lock(ctx context.Context, owner string) (Release, error)
}

// sanitizeKey keeps keys relative and inside the root
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", perr.InvalidArgf("empty key")
	}
	if strings.HasPrefix(key, "/") || strings.HasPrefix(key, `\`) {
		return "", perr.InvalidArgf("invalid absolute key %q", key)
	}
	for _, part := range strings.Split(strings.ReplaceAll(key, `\`, "/"), "/") {
		if part == ".." {
			return "", perr.InvalidArgf("invalid key traversal %q", key)
		}
	}
	clean := strings.Trim(strings.ReplaceAll(key, `\`, "/"), "/")
	for strings.Contains(clean, "//") {
		clean = strings.ReplaceAll(clean, "//", "/")
	}
	clean = strings.TrimPrefix(clean, "./")
	if clean == "" || clean == "." {
		return "", perr.InvalidArgf("empty key")
	}
	return clean, nil
}

// hidden reports keys that are bookkeeping, not data (lock and temp files)
func hidden(key string) bool {
	base := key
	if i := strings.LastIndex(key, "/"); i >= 0 {
		base = key[i+1:]
	}
	return strings.HasPrefix(base, ".")
}

func lockConflict(where, holder string) error {
	err := perr.Conflictf("shard tree %s is locked by another writer", where)
	if holder = strings.TrimSpace(holder); holder != "" {
		err = perr.WithHints(err, "held by "+holder, "remove "+LockKey+" if no writer is running")
	} else {
		err = perr.WithHints(err, "remove "+LockKey+" if no writer is running")
	}
	return perr.WithOp(err, "blob.lock")
}
