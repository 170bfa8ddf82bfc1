package bitconv

import (
	"bytes"

	"github.com/yyyoichi/bitstream-go"
)

// Terminator is appended to every message and marks the end of the payload.
const Terminator = "#####END#####"

// EncodedLen returns the stream length in bits for a message and terminator of the given byte lengths.
func EncodedLen(msgLen, termLen int) int {
	return (msgLen + termLen) * 8
}

// Stream is the msg+terminator bit sequence, most significant bit of each byte first.
type Stream struct {
	reader *bitstream.BitReader[uint64]
	bits   int
}

// Encode appends term to msg and packs the result into a Stream.
// msg is not retained.
func Encode(msg, term []byte) *Stream {
	w := bitstream.NewBitWriter[uint64](0, 0)
	for _, src := range [][]byte{msg, term} {
		for _, b := range src {
			for i := 7; i >= 0; i-- {
				w.WriteBool((b>>uint(i))&1 == 1)
			}
		}
	}
	reader := bitstream.NewBitReader(w.Data(), 0, 0)
	reader.SetBits(w.Bits())
	return &Stream{reader: reader, bits: w.Bits()}
}

// Len returns the number of bits in the stream.
func (s *Stream) Len() int {
	return s.bits
}

// Bit returns the bit at position at as 0 or 1.
func (s *Stream) Bit(at int) uint8 {
	if v, _ := s.reader.ReadBitAt(at); v {
		return 1
	}
	return 0
}

// Decoder reassembles bytes from a bit sequence and watches for the terminator.
// The message length is unknown in advance, so the suffix is checked after every byte.
type Decoder struct {
	term []byte
	buf  []byte
	cur  byte
	n    int
	done bool
}

func NewDecoder(term []byte) *Decoder {
	return &Decoder{term: term}
}

// WriteBit feeds the next bit (only the lowest bit of v is used).
// It returns true once the decoded bytes end with the terminator; later bits are ignored.
func (d *Decoder) WriteBit(v uint8) bool {
	if d.done {
		return true
	}
	d.cur = d.cur<<1 | v&1
	d.n++
	if d.n < 8 {
		return false
	}
	d.buf = append(d.buf, d.cur)
	d.cur, d.n = 0, 0
	d.done = len(d.term) > 0 && bytes.HasSuffix(d.buf, d.term)
	return d.done
}

func (d *Decoder) Done() bool {
	return d.done
}

// Message returns the decoded bytes without the terminator, or nil if the terminator has not been seen.
func (d *Decoder) Message() []byte {
	if !d.done {
		return nil
	}
	return d.buf[:len(d.buf)-len(d.term)]
}

// Bytes returns every complete byte decoded so far.
func (d *Decoder) Bytes() []byte {
	return d.buf
}

func BytesToBools(b []byte) []bool {
	bits := make([]bool, 0, len(b)*8)
	for _, bb := range b {
		for i := 7; i >= 0; i-- {
			bits = append(bits, ((bb>>uint(i))&1) == 1)
		}
	}
	return bits
}

func BoolsToBytes(bits []bool) []byte {
	// calculate padded length without modifying input
	n := len(bits)
	paddedLen := n
	if n%8 != 0 {
		paddedLen += 8 - (n % 8)
	}

	out := make([]byte, paddedLen/8)
	for i, bit := range bits {
		if bit {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}
