package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystem_TruncatesToSecond(t *testing.T) {
	now := System{}.Now()
	assert.Equal(t, 0, now.Nanosecond())
	assert.Equal(t, time.Local, now.Location())
}

func TestStepping_Advances(t *testing.T) {
	start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	c := NewStepping(start, time.Minute)

	assert.Equal(t, start, c.Now())
	assert.Equal(t, start.Add(time.Minute), c.Now())
	assert.Equal(t, start.Add(2*time.Minute), c.Now())
	assert.Equal(t, 3, c.Calls())
}

func TestFixed_NeverMoves(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	c := NewFixed(at)

	for i := 0; i < 5; i++ {
		assert.Equal(t, at, c.Now())
	}
}

func TestStepping_ConcurrentReadsAreUnique(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewStepping(start, time.Second)

	const readers = 50
	seen := make(chan time.Time, readers)

	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- c.Now()
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[time.Time]struct{})
	for ts := range seen {
		unique[ts] = struct{}{}
	}
	assert.Len(t, unique, readers)
}
