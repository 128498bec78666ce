package streams

import (
	"context"
	"fmt"
	"runtime/debug"
	"strconv"
	"sync"

	"weblog-analytics/internal/models"
	"weblog-analytics/internal/shared/loggers"
	"weblog-analytics/internal/shared/metrics"
	"weblog-analytics/internal/shared/svcerrors"
	"weblog-analytics/internal/stores"
)

// RecordConsumer drains a partitioned record queue into the store, one
// worker goroutine per queue partition. Producers route records by status
// code, so all appends for a given store partition happen on a single
// worker.
//
//go:generate mockgen -source=record_consumer.go -destination=./mocks/record_consumer_mock.go -package=mocks
type RecordConsumer interface {
	Start(ctx context.Context)
	Wait()
}

type recordConsumer struct {
	queue *PartitionedQueue[*models.LogRecord]
	store stores.RecordStore

	wg sync.WaitGroup
}

func NewRecordConsumer(queue *PartitionedQueue[*models.LogRecord], store stores.RecordStore) RecordConsumer {
	return &recordConsumer{queue: queue, store: store}
}

// Start spawns one worker per queue partition. Workers run until the queue
// is closed and drained; stopping the publishers and closing the queue is
// the producers' responsibility.
func (consumer *recordConsumer) Start(ctx context.Context) {
	for partitionIndex := 0; partitionIndex < consumer.queue.PartitionCount(); partitionIndex++ {
		ch := consumer.queue.partitions[partitionIndex]
		consumer.wg.Add(1)
		go func() {
			defer consumer.wg.Done()

			consumer.runPartitionWorker(ctx, partitionIndex, ch)
		}()
	}
}

// Wait blocks until every worker has drained its partition. Returning from
// Wait is the ingestion phase barrier: everything published is in the store.
func (consumer *recordConsumer) Wait() {
	consumer.wg.Wait()
}

func (consumer *recordConsumer) runPartitionWorker(ctx context.Context, partitionIndex int, ch <-chan *models.LogRecord) {
	for record := range ch {
		consumer.consumeRecord(ctx, partitionIndex, record)
	}
}

func (consumer *recordConsumer) consumeRecord(ctx context.Context, partitionIndex int, record *models.LogRecord) {
	// Panic recovery keeps one poison record from taking the whole worker
	// down with it.
	defer func() {
		if r := recover(); r != nil {
			loggers.Ctx(ctx).Error().
				Bytes(loggers.FieldErrorStack, debug.Stack()).
				Msg("record consumer panic recovered")

			var panicErr error
			if err, ok := r.(error); ok {
				panicErr = err
			} else {
				panicErr = fmt.Errorf("%v", r)
			}
			svcErr := svcerrors.NewInternalErrorPanic(panicErr)
			metricRecordConsumedTotal.WithLabelValues(streamRecords, svcErr.Code).Inc()
		}
	}()

	if err := consumer.store.Append(record); err != nil {
		loggers.Ctx(ctx).Error().
			Err(err).
			Str(loggers.FieldPartition, strconv.Itoa(partitionIndex)).
			Msg("failed to append record")
		svcErr := svcerrors.NewInternalErrorUndefined(err)
		metricRecordConsumedTotal.WithLabelValues(streamRecords, svcErr.Code).Inc()
		return
	}
	metricRecordConsumedTotal.WithLabelValues(streamRecords, metrics.ValueNoError).Inc()
}
