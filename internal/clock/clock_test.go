package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeAdvance(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	fake := NewFake(start)

	assert.Equal(t, start, fake.Now())
	fake.Advance(90 * time.Minute)
	assert.Equal(t, start.Add(90*time.Minute), fake.Now())

	later := start.AddDate(0, 1, 0)
	fake.Set(later)
	assert.Equal(t, later, fake.Now())
}

func TestRealIsMonotonicEnough(t *testing.T) {
	c := Real()
	first := c.Now()
	assert.False(t, c.Now().Before(first))
}
