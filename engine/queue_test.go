package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestQueueFIFO(t *testing.T) {
	t.Parallel()

	var q requestQueue

	_, ok := q.pop()
	assert.False(t, ok)
	assert.False(t, q.pending())

	q.push(request{video: "a"})
	q.push(request{idle: true})
	q.push(request{video: "b"})

	assert.True(t, q.pending())

	r, ok := q.pop()
	require.True(t, ok)
	assert.Equal(t, "a", r.video)

	r, ok = q.pop()
	require.True(t, ok)
	assert.True(t, r.idle)

	r, ok = q.pop()
	require.True(t, ok)
	assert.Equal(t, "b", r.video)

	_, ok = q.pop()
	assert.False(t, ok)
}

// TestRequestQueueConcurrentProducers checks that concurrent pushes never
// lose entries and that a single consumer drains them all.
func TestRequestQueueConcurrentProducers(t *testing.T) {
	t.Parallel()

	var q requestQueue

	const producers = 8
	const perProducer = 100

	var wg sync.WaitGroup

	for range producers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for range perProducer {
				q.push(request{video: "v"})
			}
		}()
	}

	wg.Wait()

	drained := 0
	for {
		_, ok := q.pop()
		if !ok {
			break
		}

		drained++
	}

	assert.Equal(t, producers*perProducer, drained)
}
