// Package repository holds the errors shared by every storage backend.
package repository

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrCacheMiss        = errors.New("cache miss")
)
