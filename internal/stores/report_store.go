package stores

import (
	"context"
	"fmt"
	"io"
	"strings"

	"weblog-analytics/internal/shared/filestorages"
)

//go:generate mockgen -source=report_store.go -destination=./mocks/report_store_mock.go -package=mocks
type ReportStore interface {
	Put(ctx context.Context, name, text string) (string, error)
	Get(ctx context.Context, name string) (string, error)
}

type reportStore struct {
	fileStorage filestorages.FileStorage
	prefix      string
}

func NewReportStore(fileStorage filestorages.FileStorage, prefix string) ReportStore {
	return &reportStore{fileStorage: fileStorage, prefix: prefix}
}

// Put writes one formatted report and returns the object key it was written
// under. Reports from a newer run replace those of older runs.
func (s *reportStore) Put(ctx context.Context, name, text string) (string, error) {
	key := s.objectKey(name)
	_, err := s.fileStorage.Put(ctx, key, strings.NewReader(text), filestorages.PutOptions{AllowOverwrite: true})
	if err != nil {
		return "", fmt.Errorf("failed to put report %s: %w", name, err)
	}
	return key, nil
}

func (s *reportStore) Get(ctx context.Context, name string) (string, error) {
	readCloser, err := s.fileStorage.Get(ctx, s.objectKey(name))
	if err != nil {
		return "", fmt.Errorf("failed to get report %s: %w", name, err)
	}
	defer readCloser.Close()

	data, err := io.ReadAll(readCloser)
	if err != nil {
		return "", fmt.Errorf("failed to read report %s: %w", name, err)
	}
	return string(data), nil
}

func (s *reportStore) objectKey(name string) string {
	prefix := s.prefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + name + ".txt"
}
