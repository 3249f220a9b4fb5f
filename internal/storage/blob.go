package storage

import (
	"errors"
	"io"
)

var ErrNotFound = errors.New("blob not found")

type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)
	Delete(key string) error
	// List returns the keys under prefix, sorted.
	List(prefix string) ([]string, error)
	SignedURL(key string) (string, error) // fs returns "file://..." for dev
}
