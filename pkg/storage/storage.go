// Package storage is a small key/value abstraction for document files. Keys are
// slash separated paths such as "tasks/01J0000000000000000000000.yaml".
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested path does not exist in storage.
var ErrNotFound = errors.New("not found")

// Storage must make Write and Delete durable before returning.
type Storage interface {
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, data []byte) error
	// Delete returns ErrNotFound when path does not exist.
	Delete(ctx context.Context, path string) error
	// List returns the paths directly under prefix. A missing prefix is empty.
	List(ctx context.Context, prefix string) ([]string, error)
}
