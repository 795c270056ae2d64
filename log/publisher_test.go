package log_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brkerd/video-to-ascii-mrd/log"
)

func TestPublisherDeliversLines(t *testing.T) {
	t.Parallel()

	pub := log.NewPublisher()

	sub := pub.Subscribe()
	defer sub.Close()

	_, err := pub.Write([]byte("first line\n"))
	require.NoError(t, err)

	_, err = pub.Write([]byte("second line\r\n"))
	require.NoError(t, err)

	assert.Equal(t, "first line", <-sub.C())
	assert.Equal(t, "second line", <-sub.C())
}

func TestPublisherDropsOldestWhenFull(t *testing.T) {
	t.Parallel()

	pub := log.NewPublisher()

	sub := pub.Subscribe()
	defer sub.Close()

	// Overfill the subscription buffer; writes must not block and the
	// oldest entries get dropped.
	for range 100 {
		_, err := pub.Write([]byte("old\n"))
		require.NoError(t, err)
	}

	_, err := pub.Write([]byte("newest\n"))
	require.NoError(t, err)

	last := ""
	for range cap(sub.C()) {
		last = <-sub.C()
	}

	assert.Equal(t, "newest", last)
}

func TestPublisherClose(t *testing.T) {
	t.Parallel()

	pub := log.NewPublisher()
	sub := pub.Subscribe()

	require.NoError(t, pub.Close())
	require.NoError(t, pub.Close())

	_, open := <-sub.C()
	assert.False(t, open)

	// Writes after close are accepted and discarded.
	n, err := pub.Write([]byte("late\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	// Subscribing after close yields a closed channel.
	late := pub.Subscribe()

	_, open = <-late.C()
	assert.False(t, open)
}

func TestPublisherConcurrentWriters(t *testing.T) {
	t.Parallel()

	pub := log.NewPublisher()

	sub := pub.Subscribe()
	defer sub.Close()

	var wg sync.WaitGroup

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for range 50 {
				_, err := pub.Write([]byte("line\n"))
				assert.NoError(t, err)
			}
		}()
	}

	wg.Wait()

	// The buffer holds the most recent lines; drain what is there.
	drained := 0

	for {
		select {
		case <-sub.C():
			drained++

			continue
		default:
		}

		break
	}

	assert.Positive(t, drained)
	assert.LessOrEqual(t, drained, cap(sub.C()))
}
