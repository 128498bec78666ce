package stores

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"weblog-analytics/internal/models"
	"weblog-analytics/internal/shared/filestorages"
)

// PartitionArchiveStore persists a sealed record store as one object per
// partition, laid out like a Hive-style partitioned dataset:
//
//	<prefix>status=<code>/records.csv
//
// The status column is dropped from the rows because the object key already
// carries it. Parsed fields can never contain the delimiter, so the joined
// rows re-split cleanly.
//
//go:generate mockgen -source=partition_archive_store.go -destination=./mocks/partition_archive_store_mock.go -package=mocks
type PartitionArchiveStore interface {
	Archive(ctx context.Context, store RecordStore) ([]string, error)
}

type partitionArchiveStore struct {
	fileStorage filestorages.FileStorage
	prefix      string
	delimiter   string
}

func NewPartitionArchiveStore(fileStorage filestorages.FileStorage, prefix, delimiter string) PartitionArchiveStore {
	return &partitionArchiveStore{fileStorage: fileStorage, prefix: prefix, delimiter: delimiter}
}

// Archive writes every partition and returns the object keys it wrote,
// ascending by status code. An empty store writes nothing.
func (s *partitionArchiveStore) Archive(ctx context.Context, store RecordStore) ([]string, error) {
	keys := make([]string, 0, store.PartitionCount())
	for _, statusCode := range store.PartitionKeys() {
		var buf bytes.Buffer
		for record := range store.Scan(models.NewStatusSet(statusCode)) {
			row := []string{record.ClientAddress, record.Timestamp, record.Path, record.UserAgent}
			buf.WriteString(strings.Join(row, s.delimiter))
			buf.WriteByte('\n')
		}

		key := s.objectKey(statusCode)
		_, err := s.fileStorage.Put(ctx, key, &buf, filestorages.PutOptions{AllowOverwrite: true})
		if err != nil {
			return nil, fmt.Errorf("failed to put partition %d: %w", statusCode, err)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (s *partitionArchiveStore) objectKey(statusCode int) string {
	prefix := s.prefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return fmt.Sprintf("%sstatus=%d/records.csv", prefix, statusCode)
}
