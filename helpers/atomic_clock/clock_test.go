package atomic_clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApi(t *testing.T) {
	c := Now()
	tim := time.Now()
	const delta = 100 * time.Millisecond

	assert.InDelta(t, tim.UnixNano(), c.UnixNano(), float64(delta))
	assert.InDelta(t, tim.Unix(), c.Unix(), 1)

	c.SetTime(tim)
	assert.Equal(t, tim.UnixNano(), c.UnixNano())
	assert.InDelta(t, tim.UnixNano(), c.Time().UnixNano(), float64(delta))

	c.SetNow()
	assert.True(t, Since(c) < delta)
}

func TestZero(t *testing.T) {
	var c Clock
	assert.True(t, c.IsZero())
	assert.True(t, c.Time().IsZero())

	base := time.Unix(1700000000, 0)
	c.SetIfZero(base.UnixNano())
	c.SetIfZero(base.Add(time.Hour).UnixNano())
	assert.Equal(t, base.UnixNano(), c.UnixNano())
	assert.Equal(t, 3*time.Second, c.SinceAt(base.Add(3*time.Second)))

	c.Reset()
	assert.True(t, c.IsZero())
}
