package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAccessors(t *testing.T) {
	ctx := context.Background()

	_, ok := ActorID(ctx)
	assert.False(t, ok)
	assert.Empty(t, RequestID(ctx))
	assert.Empty(t, ClientIP(ctx))
	assert.WithinDuration(t, time.Now(), Now(ctx), time.Minute, "falls back to the wall clock")

	at := time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC)
	ctx = WithActorID(ctx, 7)
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithClientMetadata(ctx, "10.0.0.1", "curl/8.0")
	ctx = WithTime(ctx, at)

	actor, ok := ActorID(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(7), actor)
	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Equal(t, "10.0.0.1", ClientIP(ctx))
	assert.Equal(t, "curl/8.0", UserAgent(ctx))
	assert.Equal(t, at, Now(ctx))
}
