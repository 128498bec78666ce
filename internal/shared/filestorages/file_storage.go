package filestorages

import (
	"context"
	"errors"
	"io"
)

var (
	ErrFileNotFound      = errors.New("file not found")
	ErrFileAlreadyExists = errors.New("file already exists")
	ErrInvalidKey        = errors.New("invalid file key")
	ErrInvalidRootDir    = errors.New("invalid root directory")
)

type PutResult struct {
	FileKey string
}

type PutOptions struct {
	AllowOverwrite bool
}

// FileStorage is the minimal interface to the durable blob store the engine
// reads raw logs from and writes reports to. The engine never assumes more
// than these three operations; everything else about the store (replication,
// retries, transfer) belongs to the external collaborator.
//
//go:generate mockgen -source=file_storage.go -destination=./mocks/file_storage_mock.go -package=mocks
type FileStorage interface {
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (*PutResult, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// List returns the keys under prefix in ascending order. A prefix with no
	// objects yields an empty slice, not an error.
	List(ctx context.Context, prefix string) ([]string, error)
}
