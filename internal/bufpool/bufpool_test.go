package bufpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet_SizeClasses(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantCap int
	}{
		{"tiny", 16, SmallSize},
		{"small boundary", SmallSize, SmallSize},
		{"default chunk", MediumSize, MediumSize},
		{"between tiers", SmallSize + 1, MediumSize},
		{"large", LargeSize, LargeSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := Get(tt.size)
			defer Put(buf)

			assert.Len(t, buf, tt.size)
			assert.Equal(t, tt.wantCap, cap(buf))
		})
	}
}

func TestGet_Oversized(t *testing.T) {
	size := LargeSize + 1
	buf := Get(size)
	assert.Len(t, buf, size)

	// Oversized buffers are not pooled; Put must tolerate them.
	Put(buf)
}

func TestPut_Nil(t *testing.T) {
	assert.NotPanics(t, func() { Put(nil) })
}

func TestReuse(t *testing.T) {
	p := NewPool()

	buf := p.Get(MediumSize)
	buf[0] = 0xAB
	p.Put(buf)

	// The next same-class Get may reuse the buffer; either way it has the
	// requested length.
	again := p.Get(MediumSize)
	assert.Len(t, again, MediumSize)
	p.Put(again)
}
