package bitconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitConv(t *testing.T) {
	test := []struct {
		data []byte
		exp  []byte
	}{
		{data: []byte{0b10101010}, exp: []byte{0b10101010}},
		{data: []byte{0b11110000, 0b00001111}, exp: []byte{0b11110000, 0b00001111}},
		{data: []byte("Hello"), exp: []byte("Hello")},
		{data: []byte("こんにちは"), exp: []byte("こんにちは")},
		{data: []byte{}, exp: []byte{}},
	}
	for _, tt := range test {
		bits := BytesToBools(tt.data)
		out := BoolsToBytes(bits)
		assert.Equal(t, tt.exp, out)
	}
	assert.Equal(t, []byte{0b10100000}, BoolsToBytes([]bool{true, false, true}))
}

func TestEncode(t *testing.T) {
	term := []byte(Terminator)
	t.Run("msb first", func(t *testing.T) {
		s := Encode([]byte{0b10000001, 0b01000000}, nil)
		require.Equal(t, 16, s.Len())
		got := make([]uint8, s.Len())
		for i := range got {
			got[i] = s.Bit(i)
		}
		assert.Equal(t, []uint8{1, 0, 0, 0, 0, 0, 0, 1, 0, 1, 0, 0, 0, 0, 0, 0}, got)
	})
	t.Run("terminator appended", func(t *testing.T) {
		s := Encode([]byte("HI"), term)
		assert.Equal(t, 120, s.Len())
		assert.Equal(t, EncodedLen(2, len(term)), s.Len())

		want := BytesToBools([]byte("HI" + Terminator))
		for i := range want {
			assert.Equal(t, want[i], s.Bit(i) == 1, "bit %d", i)
		}
	})
	t.Run("empty message", func(t *testing.T) {
		s := Encode(nil, term)
		assert.Equal(t, 104, s.Len())
	})
}

func TestDecoder(t *testing.T) {
	term := []byte(Terminator)
	feed := func(d *Decoder, data []byte) (done bool, consumed int) {
		for _, bit := range BytesToBools(data) {
			consumed++
			var v uint8
			if bit {
				v = 1
			}
			if d.WriteBit(v) {
				return true, consumed
			}
		}
		return false, consumed
	}

	test := []struct {
		name     string
		input    string
		done     bool
		message  string
		consumed int
	}{
		{"hello", "Hello" + Terminator, true, "Hello", (5 + 13) * 8},
		{"empty", Terminator, true, "", 13 * 8},
		{"trailing garbage", "ab" + Terminator + "zzz", true, "ab", (2 + 13) * 8},
		{"collision", "ab" + Terminator + "cd" + Terminator, true, "ab", (2 + 13) * 8},
		{"missing", "no end marker", false, "", 13 * 8},
		{"partial terminator", "x#####END####", false, "", 13 * 8},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder(term)
			done, consumed := feed(d, []byte(tt.input))
			assert.Equal(t, tt.done, done)
			assert.Equal(t, tt.done, d.Done())
			assert.Equal(t, tt.consumed, consumed)
			if tt.done {
				assert.Equal(t, []byte(tt.message), d.Message())
			} else {
				assert.Nil(t, d.Message())
				assert.Equal(t, []byte(tt.input), d.Bytes())
			}
		})
	}

	t.Run("bits after done are ignored", func(t *testing.T) {
		d := NewDecoder(term)
		done, _ := feed(d, []byte(Terminator))
		require.True(t, done)
		assert.True(t, d.WriteBit(1))
		assert.Len(t, d.Bytes(), len(term))
	})
	t.Run("only lowest bit is used", func(t *testing.T) {
		d := NewDecoder(term)
		for _, v := range []uint8{0xfe, 0xff, 0xfe, 0xfe, 0xfe, 0xfe, 0xfe, 0xff} {
			d.WriteBit(v)
		}
		assert.Equal(t, []byte{0b01000001}, d.Bytes())
	})
}
