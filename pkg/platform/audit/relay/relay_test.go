package relay

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"etatcivil/pkg/platform/audit/store/postgres"
)

type fakeOutbox struct {
	pending   []postgres.Entry
	processed []uuid.UUID
}

func (f *fakeOutbox) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeOutbox) Pending(_ context.Context, limit int) ([]postgres.Entry, error) {
	return f.pending[:min(limit, len(f.pending))], nil
}

func (f *fakeOutbox) MarkProcessed(_ context.Context, ids []uuid.UUID, _ time.Time) error {
	f.processed = append(f.processed, ids...)
	done := map[uuid.UUID]bool{}
	for _, id := range ids {
		done[id] = true
	}
	var rest []postgres.Entry
	for _, e := range f.pending {
		if !done[e.ID] {
			rest = append(rest, e)
		}
	}
	f.pending = rest
	return nil
}

type fakeProducer struct {
	records []*kgo.Record
	err     error
}

func (f *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	out := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		if f.err == nil {
			f.records = append(f.records, r)
		}
		out = append(out, kgo.ProduceResult{Record: r, Err: f.err})
	}
	return out
}

func entry(aggregate, id, eventType string) postgres.Entry {
	return postgres.Entry{
		ID:            uuid.New(),
		AggregateType: aggregate,
		AggregateID:   id,
		EventType:     eventType,
		Payload:       []byte(`{"action":"` + eventType + `"}`),
		CreatedAt:     time.Now(),
	}
}

func TestFlush_PublishesAndMarks(t *testing.T) {
	outbox := &fakeOutbox{pending: []postgres.Entry{
		entry("deces", "1", "death_created"),
		entry("regions", "4", "dimension_deleted"),
	}}
	producer := &fakeProducer{}
	r := New(outbox, producer, "etatcivil.audit")

	n, err := r.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, producer.records, 2)
	assert.Equal(t, "etatcivil.audit", producer.records[0].Topic)
	assert.Equal(t, []byte("deces:1"), producer.records[0].Key)
	assert.Equal(t, "event_type", producer.records[1].Headers[0].Key)
	assert.Empty(t, outbox.pending)
	assert.Len(t, outbox.processed, 2)
}

func TestFlush_BatchSize(t *testing.T) {
	outbox := &fakeOutbox{}
	for range 5 {
		outbox.pending = append(outbox.pending, entry("deces", "1", "death_updated"))
	}
	r := New(outbox, &fakeProducer{}, "t", WithBatchSize(2))

	n, err := r.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, outbox.pending, 3)
}

func TestFlush_ProduceFailureLeavesEntriesPending(t *testing.T) {
	outbox := &fakeOutbox{pending: []postgres.Entry{entry("naissance", "9", "birth_created")}}
	r := New(outbox, &fakeProducer{err: errors.New("broker down")}, "t")

	n, err := r.Flush(context.Background())
	require.Error(t, err)
	assert.Zero(t, n)
	assert.Len(t, outbox.pending, 1)
	assert.Empty(t, outbox.processed)
}

func TestFlush_EmptyOutbox(t *testing.T) {
	producer := &fakeProducer{}
	n, err := New(&fakeOutbox{}, producer, "t").Flush(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, producer.records)
}
