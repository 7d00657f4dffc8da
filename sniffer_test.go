package fastimage

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastimage/formats"
	"fastimage/internal/fixtures"
)

func TestSniffer_ResolvesAcrossChunks(t *testing.T) {
	data := fixtures.PNG(10, 20)
	s := NewSniffer(0)

	var calls []State
	s.OnTerminal(func(st State) { calls = append(calls, st) })

	for i := 0; i < 23; i++ {
		st := s.Feed(data[i : i+1])
		require.Equal(t, StateAccumulating, st, "after %d bytes", i+1)
	}
	assert.Equal(t, StateResolved, s.Feed(data[23:24]))
	assert.Equal(t, formats.Outcome{Status: formats.Resolved, Format: formats.PNG, Width: 10, Height: 20}, s.Outcome())

	// Further input and Close leave the result alone
	assert.Equal(t, StateResolved, s.Feed(data[24:]))
	assert.Equal(t, StateResolved, s.Close())
	assert.Equal(t, uint64(24), s.Consumed())
	assert.Equal(t, []State{StateResolved}, calls)
}

func TestSniffer_UnknownSignatureStopsImmediately(t *testing.T) {
	s := NewSniffer(0)
	assert.Equal(t, StateUnsupported, s.Feed([]byte{0x00, 0x01, 0x02, 0x03}))
	assert.Equal(t, uint64(4), s.Consumed())
}

func TestSniffer_CapBelowInput(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"random bytes", []byte("\x13\x37\xc0\xff\xee\x00\x01\x02\x03\x04\x05\x06\x07\x08\x09\x0a\x0b\x0c\x0d\x0e\x0f\x10\x11\x12\x13\x14\x15\x16\x17\x18\x19\x1a\x1b\x1c\x1d\x1e\x1f\x20\x21\x22\x23\x24\x25\x26\x27\x28\x29\x2a\x2b\x2c\x2d\x2e\x2f\x30\x31\x32\x33\x34\x35\x36\x37\x38\x39\x3a")},
		{"whitespace", bytes.Repeat([]byte(" "), 64)},
		{"unterminated svg prolog", append([]byte("<?xml version=\"1.0\"?>"), bytes.Repeat([]byte("\n"), 43)...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Len(t, tt.data, 64)

			s := NewSniffer(32)
			n, err := s.Write(tt.data)
			assert.Equal(t, 64, n)
			assert.ErrorIs(t, err, ErrSniffDone)
			assert.Equal(t, StateUnsupported, s.State())
			assert.LessOrEqual(t, s.Len(), 32)
			assert.Equal(t, uint64(64), s.Consumed())
		})
	}
}

func TestSniffer_CapCountsDroppedBytes(t *testing.T) {
	s := NewSniffer(16)
	s.Feed(bytes.Repeat([]byte{' '}, 10))
	require.Equal(t, StateAccumulating, s.State())

	s.Feed(bytes.Repeat([]byte{' '}, 10))
	assert.Equal(t, StateUnsupported, s.State())
	assert.Equal(t, 16, s.Len())
	assert.Equal(t, uint64(20), s.Consumed())
}

func TestSniffer_Close(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		s := NewSniffer(0)
		assert.Equal(t, StateEmpty, s.State())
		assert.Equal(t, StateUnsupported, s.Close())
	})

	t.Run("mid header", func(t *testing.T) {
		s := NewSniffer(0)
		s.Feed(fixtures.GIF(1, 1)[:7])
		assert.Equal(t, StateTruncated, s.Close())
	})

	t.Run("empty chunks are ignored", func(t *testing.T) {
		s := NewSniffer(0)
		assert.Equal(t, StateEmpty, s.Feed(nil))
		assert.Equal(t, uint64(0), s.Consumed())
	})
}

func TestSniffer_IOCopy(t *testing.T) {
	data := fixtures.Pad(fixtures.GIF(1, 1), 1<<16)
	s := NewSniffer(0)

	_, err := io.Copy(s, bytes.NewReader(data))
	require.ErrorIs(t, err, ErrSniffDone)
	assert.Equal(t, StateResolved, s.State())
	assert.Equal(t, uint32(1), s.Outcome().Width)
	assert.Equal(t, uint32(1), s.Outcome().Height)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "empty", StateEmpty.String())
	assert.Equal(t, "accumulating", StateAccumulating.String())
	assert.Equal(t, "resolved", StateResolved.String())
	assert.Equal(t, "unsupported", StateUnsupported.String())
	assert.Equal(t, "truncated", StateTruncated.String())
	assert.False(t, StateAccumulating.Terminal())
	assert.True(t, StateTruncated.Terminal())
}
