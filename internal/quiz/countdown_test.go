package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountdownExpiresExactlyOnce(t *testing.T) {
	c := NewCountdown(3)
	c.Start()

	assert.False(t, c.Tick())
	assert.False(t, c.Tick())
	assert.True(t, c.Tick())
	assert.Equal(t, 0, c.Remaining())
	assert.False(t, c.Running())

	for i := 0; i < 3; i++ {
		assert.False(t, c.Tick(), "expiry must not repeat")
	}
	assert.Equal(t, 0, c.Remaining())
}

func TestCountdownStopIsIdempotent(t *testing.T) {
	c := NewCountdown(5)
	c.Start()
	c.Tick()

	c.Stop()
	c.Stop()
	assert.False(t, c.Tick())
	assert.Equal(t, 4, c.Remaining())
}

func TestCountdownResetRestoresFullDuration(t *testing.T) {
	c := NewCountdown(2)
	c.Start()
	c.Tick()
	c.Tick()

	c.Reset()
	assert.Equal(t, 2, c.Remaining())
	assert.False(t, c.Running())
}
