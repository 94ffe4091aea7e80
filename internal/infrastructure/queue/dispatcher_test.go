package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cottontrade/marketplace-api/internal/core/domain"
)

type captureRepo struct {
	mu      sync.Mutex
	entries []domain.ActivityEntry
	done    chan struct{}
}

func (r *captureRepo) Insert(_ context.Context, entry *domain.ActivityEntry) error {
	r.mu.Lock()
	r.entries = append(r.entries, *entry)
	r.mu.Unlock()
	select {
	case r.done <- struct{}{}:
	default:
	}
	return nil
}

func (r *captureRepo) List(context.Context, int) ([]*domain.ActivityEntry, error) {
	return nil, nil
}

func TestActivityDispatcher_PersistsEntries(t *testing.T) {
	repo := &captureRepo{done: make(chan struct{}, 1)}
	d := NewActivityDispatcher(2, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Record(domain.ActivityEntry{ID: "e1", SubjectID: "subj_1", Action: domain.ActionSignIn})

	select {
	case <-repo.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("entry was not persisted")
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.entries) != 1 || repo.entries[0].ID != "e1" {
		t.Fatalf("unexpected entries: %+v", repo.entries)
	}
}

func TestActivityDispatcher_ShardStableBySubject(t *testing.T) {
	d := NewActivityDispatcher(4, &captureRepo{done: make(chan struct{}, 1)}, zerolog.Nop())

	first := d.shardIndex("subj_1")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("subj_1"); got != first {
			t.Fatalf("shard must be deterministic per subject: %d vs %d", got, first)
		}
	}
	if first < 0 || first >= 4 {
		t.Fatalf("shard index out of range: %d", first)
	}
}

func TestActivityDispatcher_RecordNeverBlocks(t *testing.T) {
	// Workers never started: buffers fill up and further records must drop
	// instead of blocking.
	d := NewActivityDispatcher(1, &captureRepo{done: make(chan struct{}, 1)}, zerolog.Nop())

	finished := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer*2; i++ {
			d.Record(domain.ActivityEntry{ID: "e", SubjectID: "subj_1", Action: domain.ActionSignIn})
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatalf("Record blocked on a full queue")
	}
}
