package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFakeAdvance(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	c := Fake(start)
	assert.Equal(t, start, c.Now())

	c.Advance(8*time.Hour + 30*time.Minute)
	assert.Equal(t, time.Date(2026, 3, 10, 17, 30, 0, 0, time.UTC), c.Now())

	c.Set(start)
	assert.Equal(t, start, c.Now())
}

func TestRealUsesLocation(t *testing.T) {
	loc := time.FixedZone("X", 3*3600)
	assert.Equal(t, loc, Real(loc).Now().Location())
	assert.Equal(t, time.UTC, Real(nil).Now().Location())
}
