package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/cottontrade/marketplace-api/internal/api/metrics"
	"github.com/cottontrade/marketplace-api/internal/core/domain"
	"github.com/cottontrade/marketplace-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// ActivityDispatcher persists audit entries asynchronously. Entries are
// sharded to a fixed set of workers by subject id, preserving per-subject
// ordering in the activity log. Record never blocks: when a worker's buffer is
// full the entry is dropped and counted, so a slow store can never stall an
// authorization decision.
type ActivityDispatcher struct {
	workers []chan domain.ActivityEntry
	repo    ports.ActivityRepository
	log     zerolog.Logger
}

// NewActivityDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewActivityDispatcher(numWorkers int, repo ports.ActivityRepository, log zerolog.Logger) *ActivityDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &ActivityDispatcher{
		workers: make([]chan domain.ActivityEntry, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.ActivityEntry, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *ActivityDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues an audit entry to the worker responsible for its subject.
func (d *ActivityDispatcher) Record(entry domain.ActivityEntry) {
	idx := d.shardIndex(entry.SubjectID)
	select {
	case d.workers[idx] <- entry:
		metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.ActivityDroppedTotal.Inc()
		d.log.Warn().
			Str("subject_id", entry.SubjectID).
			Str("action", entry.Action).
			Msg("activity queue full, entry dropped")
	}
}

// shardIndex maps a subject id deterministically to a worker index.
func (d *ActivityDispatcher) shardIndex(subjectID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(subjectID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *ActivityDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.ActivityEntry) {
	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-ch:
			if !ok {
				return
			}
			metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
			if err := d.repo.Insert(ctx, &entry); err != nil {
				d.log.Error().Err(err).
					Str("subject_id", entry.SubjectID).
					Str("action", entry.Action).
					Int("worker_id", id).
					Msg("activity entry persist failed")
			}
		}
	}
}
