package envutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInt(t *testing.T) {
	t.Setenv("X_INT", " 12 ")
	assert.Equal(t, 12, Int("X_INT", 3))
	t.Setenv("X_INT", "nope")
	assert.Equal(t, 3, Int("X_INT", 3))
	assert.Equal(t, 7, Int("X_INT_MISSING", 7))
}

func TestBool(t *testing.T) {
	t.Setenv("X_BOOL", "on")
	assert.True(t, Bool("X_BOOL", false))
	t.Setenv("X_BOOL", "off")
	assert.False(t, Bool("X_BOOL", true))
	t.Setenv("X_BOOL", "maybe")
	assert.True(t, Bool("X_BOOL", true))
}

func TestSeconds(t *testing.T) {
	t.Setenv("X_SECS", "-4")
	assert.Equal(t, time.Duration(0), Seconds("X_SECS", 10))
	t.Setenv("X_SECS", "")
	assert.Equal(t, 10*time.Second, Seconds("X_SECS", 10))
}

func TestStringAndFloat(t *testing.T) {
	t.Setenv("X_STR", "  val ")
	assert.Equal(t, "val", String("X_STR", "d"))
	t.Setenv("X_F", "0.25")
	assert.Equal(t, 0.25, Float("X_F", 1))
}

func TestMillis(t *testing.T) {
	t.Setenv("X_MS", "250")
	assert.Equal(t, 250*time.Millisecond, Millis("X_MS", 10))
	t.Setenv("X_MS", "-1")
	assert.Equal(t, time.Duration(0), Millis("X_MS", 10))
}
