package utils

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncer_OnlyLastScheduledFires(t *testing.T) {
	d := NewDebouncer()
	var fired int32
	var last int32

	for i := int32(1); i <= 5; i++ {
		i := i
		d.Do(30*time.Millisecond, func() {
			atomic.AddInt32(&fired, 1)
			atomic.StoreInt32(&last, i)
		})
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))
	assert.Equal(t, int32(5), atomic.LoadInt32(&last))
}

func TestDebouncer_Stop(t *testing.T) {
	d := NewDebouncer()
	var fired int32

	d.Do(20*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })
	d.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, atomic.LoadInt32(&fired))
}

func TestDebouncer_SequentialCalls(t *testing.T) {
	d := NewDebouncer()
	var fired int32

	d.Do(10*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })
	time.Sleep(40 * time.Millisecond)
	d.Do(10*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })
	time.Sleep(40 * time.Millisecond)

	assert.Equal(t, int32(2), atomic.LoadInt32(&fired))
}

func TestValidateID(t *testing.T) {
	assert.NoError(t, ValidateID("a1b2c3"))
	assert.NoError(t, ValidateID("550e8400-e29b-41d4-a716-446655440000"))
	assert.NoError(t, ValidateID("temp_1700000000000_ab12cd34"))

	assert.ErrorIs(t, ValidateID(""), ErrEmptyID)
	assert.ErrorIs(t, ValidateID("has space"), ErrInvalidIDFormat)
	assert.ErrorIs(t, ValidateID("semi;colon"), ErrInvalidIDFormat)

	long := make([]byte, 65)
	for i := range long {
		long[i] = 'a'
	}
	assert.ErrorIs(t, ValidateID(string(long)), ErrIDTooLong)
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello  "))
	assert.Equal(t, "ab", SanitizeString("a\x00b"))
	assert.Equal(t, "a\nb", SanitizeString("a\nb"))
}
