package suar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(max int, window time.Duration) (*LoginLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 12, 1, 8, 0, 0, 0, time.UTC)}
	l := NewLoginLimiter(max, window)
	l.now = clock.now
	return l, clock
}

func TestLoginLimiterBlocksAfterMax(t *testing.T) {
	l, _ := newTestLimiter(2, time.Minute)
	ip := "203.0.113.10"

	assert.True(t, l.Check(ip))
	l.Record(ip)
	assert.True(t, l.Check(ip))
	l.Record(ip)
	assert.False(t, l.Check(ip), "third attempt should be blocked")
}

func TestLoginLimiterResetsAfterWindow(t *testing.T) {
	l, clock := newTestLimiter(1, time.Minute)
	ip := "203.0.113.20"

	l.Record(ip)
	assert.False(t, l.Check(ip))

	clock.advance(61 * time.Second)
	assert.True(t, l.Check(ip), "attempt after window should be allowed")
}

func TestLoginLimiterIsPerIP(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	l.Record("203.0.113.30")
	assert.True(t, l.Check("203.0.113.31"), "second ip should be allowed independently")
	assert.False(t, l.Check("203.0.113.30"))
}

func TestLoginLimiterPrune(t *testing.T) {
	l, clock := newTestLimiter(3, time.Minute)
	l.Record("203.0.113.40")
	clock.advance(30 * time.Second)
	l.Record("203.0.113.41")
	assert.Equal(t, 2, l.Tracked())

	clock.advance(45 * time.Second)
	l.prune()
	assert.Equal(t, 1, l.Tracked())

	clock.advance(time.Minute)
	l.prune()
	assert.Zero(t, l.Tracked())
}
