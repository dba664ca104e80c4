package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkIDs(t *testing.T) {
	ids := make([]uuid.UUID, 23)
	for i := range ids {
		ids[i] = uuid.New()
	}

	chunks := chunkIDs(ids, batchQueryLimit)

	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 10)
	assert.Len(t, chunks[1], 10)
	assert.Len(t, chunks[2], 3)

	// Every ID survives chunking in order.
	flattened := make([]uuid.UUID, 0, len(ids))
	for _, chunk := range chunks {
		flattened = append(flattened, chunk...)
	}
	assert.Equal(t, ids, flattened)
}

func TestChunkIDsEdgeCases(t *testing.T) {
	assert.Empty(t, chunkIDs([]uuid.UUID{}, batchQueryLimit))

	single := []uuid.UUID{uuid.New()}
	chunks := chunkIDs(single, batchQueryLimit)
	require.Len(t, chunks, 1)
	assert.Equal(t, single, chunks[0])

	exact := make([]uuid.UUID, batchQueryLimit)
	for i := range exact {
		exact[i] = uuid.New()
	}
	assert.Len(t, chunkIDs(exact, batchQueryLimit), 1)
}
