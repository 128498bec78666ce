package ingestors

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"weblog-analytics/internal/models"
	"weblog-analytics/internal/parsers"
	"weblog-analytics/internal/shared/filestorages"
	"weblog-analytics/internal/shared/loggers"
	"weblog-analytics/internal/shared/metrics"
	"weblog-analytics/internal/stores"
	"weblog-analytics/internal/streams"

	"github.com/klauspost/compress/gzip"
)

const (
	gzipSuffix = ".gz"

	initialScanBuffer = 64 * 1024
	maxLineBytes      = 1024 * 1024
)

// IngestStats accounts for one ingestion phase across all sources.
type IngestStats struct {
	Sources         int
	HeadersSkipped  int
	Lines           int64
	Ingested        int64
	Rejected        int64
	RejectsByReason map[parsers.RejectReason]int64
	BytesRead       int64
}

//go:generate mockgen -source=ingestion_service.go -destination=./mocks/ingestion_service_mock.go -package=mocks
type IngestionService interface {
	// Ingest lists every source under the input prefix, parses them in
	// parallel into the record store and seals it. Malformed lines are
	// counted and dropped; a source that cannot be read or listed aborts
	// the whole phase.
	Ingest(ctx context.Context) (*IngestStats, error)
}

type ingestionService struct {
	fileStorage filestorages.FileStorage
	store       stores.RecordStore
	parser      *parsers.LineParser
	inputPrefix string
	workers     int
}

func NewIngestionService(fileStorage filestorages.FileStorage, store stores.RecordStore, parser *parsers.LineParser, inputPrefix string, workers int) IngestionService {
	if workers < 1 {
		workers = 1
	}
	return &ingestionService{
		fileStorage: fileStorage,
		store:       store,
		parser:      parser,
		inputPrefix: inputPrefix,
		workers:     workers,
	}
}

func (s *ingestionService) Ingest(ctx context.Context) (*IngestStats, error) {
	logger := loggers.Ctx(ctx)

	keys, err := s.fileStorage.List(ctx, s.inputPrefix)
	if err != nil {
		svcErr := errInputStorageUnavailable(err)
		metricSourceIngestedTotal.WithLabelValues(svcErr.Code).Inc()
		return nil, svcErr
	}
	logger.Info().Int("sources", len(keys)).Msg("listed input sources")

	queue := streams.NewPartitionedQueue[*models.LogRecord]()
	consumer := streams.NewRecordConsumer(queue, s.store)
	consumer.Start(ctx)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stats := &IngestStats{
		Sources:         len(keys),
		RejectsByReason: make(map[parsers.RejectReason]int64),
	}

	var (
		mu        sync.Mutex
		ingestErr error
	)
	fail := func(err error) {
		mu.Lock()
		if ingestErr == nil {
			ingestErr = err
			cancel()
		}
		mu.Unlock()
	}

	keysCh := make(chan string)
	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for key := range keysCh {
				if ctx.Err() != nil {
					continue
				}
				sourceStats, err := s.ingestSource(ctx, queue, key)
				if err != nil {
					metricSourceIngestedTotal.WithLabelValues(codeInputStorageUnavailable).Inc()
					fail(err)
					continue
				}
				metricSourceIngestedTotal.WithLabelValues(metrics.ValueNoError).Inc()

				mu.Lock()
				stats.merge(sourceStats)
				mu.Unlock()
			}
		}()
	}
	for _, key := range keys {
		keysCh <- key
	}
	close(keysCh)
	wg.Wait()

	// All producers are done; close the lanes and let the consumers drain.
	// Returning from Wait is the phase barrier: every published record is
	// in the store, and sealing freezes it for the query phase.
	queue.Close()
	consumer.Wait()

	if ingestErr != nil {
		return nil, errInputStorageUnavailable(ingestErr)
	}

	s.store.Seal()
	logger.Info().
		Int64("lines", stats.Lines).
		Int64("ingested", stats.Ingested).
		Int64("rejected", stats.Rejected).
		Msg("ingestion sealed")
	return stats, nil
}

func (s *ingestionService) ingestSource(ctx context.Context, queue *streams.PartitionedQueue[*models.LogRecord], key string) (*IngestStats, error) {
	logger := loggers.Ctx(ctx)

	readCloser, err := s.fileStorage.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get source %s: %w", key, err)
	}
	defer readCloser.Close()

	var reader io.Reader = readCloser
	if strings.HasSuffix(key, gzipSuffix) {
		gzReader, err := gzip.NewReader(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip source %s: %w", key, err)
		}
		defer gzReader.Close()
		reader = gzReader
	}
	counter := &countingReader{reader: reader}

	stats := &IngestStats{RejectsByReason: make(map[parsers.RejectReason]int64)}
	scanner := bufio.NewScanner(counter)
	scanner.Buffer(make([]byte, initialScanBuffer), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := scanner.Text()
		lineNo++
		stats.Lines++

		if lineNo == 1 && s.parser.IsHeader(line) {
			stats.HeadersSkipped++
			continue
		}

		record, err := s.parser.Parse(line)
		if err != nil {
			reason := parsers.RejectReason("unknown")
			if rejErr, ok := parsers.AsRejectError(err); ok {
				reason = rejErr.Reason
			}
			stats.Rejected++
			stats.RejectsByReason[reason]++
			metricLineRejectedTotal.WithLabelValues(string(reason)).Inc()
			logger.Warn().
				Str(loggers.FieldSource, key).
				Int(loggers.FieldLine, lineNo).
				Str(loggers.FieldReason, string(reason)).
				Msg("rejected malformed line")
			continue
		}

		queue.Publish(strconv.Itoa(record.StatusCode), record)
		stats.Ingested++
		metricRecordPublishedTotal.Inc()
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read source %s: %w", key, err)
	}

	stats.BytesRead = counter.bytes
	return stats, nil
}

func (stats *IngestStats) merge(other *IngestStats) {
	stats.HeadersSkipped += other.HeadersSkipped
	stats.Lines += other.Lines
	stats.Ingested += other.Ingested
	stats.Rejected += other.Rejected
	stats.BytesRead += other.BytesRead
	for reason, count := range other.RejectsByReason {
		stats.RejectsByReason[reason] += count
	}
}

// countingReader tracks decompressed bytes handed to the line scanner.
type countingReader struct {
	reader io.Reader
	bytes  int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.reader.Read(p)
	c.bytes += int64(n)
	return n, err
}
