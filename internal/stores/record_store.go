package stores

import (
	"errors"
	"iter"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"

	"weblog-analytics/internal/models"
)

var (
	ErrStoreSealed = errors.New("record store is sealed")
)

// RecordStore holds parsed records partitioned by status code. Appends route
// to the partition owning the record's status; scans walk partitions in
// ascending status order so results are stable across runs.
//
//go:generate mockgen -source=record_store.go -destination=./mocks/record_store_mock.go -package=mocks
type RecordStore interface {
	Append(record *models.LogRecord) error
	Seal()
	Len() int
	PartitionCount() int
	PartitionLen(statusCode int) int
	PartitionKeys() []int
	FullScan() iter.Seq[*models.LogRecord]
	Scan(predicate models.StatusPredicate) iter.Seq[*models.LogRecord]
}

type partition struct {
	mu      sync.Mutex
	records []*models.LogRecord
}

func (p *partition) append(record *models.LogRecord) {
	p.mu.Lock()
	p.records = append(p.records, record)
	p.mu.Unlock()
}

// snapshot returns the current slice header. A concurrent append may grow a
// fresh backing array, but the returned view stays consistent.
func (p *partition) snapshot() []*models.LogRecord {
	p.mu.Lock()
	records := p.records
	p.mu.Unlock()
	return records
}

type recordStore struct {
	mu         sync.RWMutex
	partitions map[int]*partition
	total      atomic.Int64
	sealed     atomic.Bool
}

func NewRecordStore() RecordStore {
	return &recordStore{partitions: make(map[int]*partition)}
}

func (s *recordStore) Append(record *models.LogRecord) error {
	if s.sealed.Load() {
		return ErrStoreSealed
	}
	s.partition(record.StatusCode).append(record)
	s.total.Add(1)
	return nil
}

// Seal ends the ingestion phase. Later Appends fail with ErrStoreSealed and
// scans observe the final partition set.
func (s *recordStore) Seal() {
	s.sealed.Store(true)
}

func (s *recordStore) Len() int {
	return int(s.total.Load())
}

func (s *recordStore) PartitionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.partitions)
}

func (s *recordStore) PartitionLen(statusCode int) int {
	s.mu.RLock()
	p, ok := s.partitions[statusCode]
	s.mu.RUnlock()
	if !ok {
		return 0
	}
	return len(p.snapshot())
}

// PartitionKeys returns the status codes with at least one record, ascending.
func (s *recordStore) PartitionKeys() []int {
	s.mu.RLock()
	keys := make([]int, 0, len(s.partitions))
	for key := range s.partitions {
		keys = append(keys, key)
	}
	s.mu.RUnlock()
	slices.Sort(keys)
	return keys
}

// FullScan yields every record, partitions ascending by status code,
// insertion order within a partition.
func (s *recordStore) FullScan() iter.Seq[*models.LogRecord] {
	return s.scan(nil)
}

// Scan yields records from partitions whose status code matches the
// predicate. Selection happens on partition keys before any record access,
// so excluded partitions are never read.
func (s *recordStore) Scan(predicate models.StatusPredicate) iter.Seq[*models.LogRecord] {
	return s.scan(predicate)
}

func (s *recordStore) scan(predicate models.StatusPredicate) iter.Seq[*models.LogRecord] {
	return func(yield func(*models.LogRecord) bool) {
		for _, key := range s.PartitionKeys() {
			if predicate != nil && !predicate.Matches(key) {
				metricScanPartitionsTotal.WithLabelValues(outcomePruned).Inc()
				continue
			}
			metricScanPartitionsTotal.WithLabelValues(outcomeScanned).Inc()

			s.mu.RLock()
			p := s.partitions[key]
			s.mu.RUnlock()
			for _, record := range p.snapshot() {
				if !yield(record) {
					return
				}
			}
		}
	}
}

func (s *recordStore) partition(statusCode int) *partition {
	s.mu.RLock()
	p, ok := s.partitions[statusCode]
	s.mu.RUnlock()
	if ok {
		return p
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.partitions[statusCode]; ok {
		return p
	}
	p = &partition{}
	s.partitions[statusCode] = p
	metricPartitionsCreatedTotal.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	return p
}
