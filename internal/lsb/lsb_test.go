package lsb

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yyyoichi/lsb_zero/internal/bitconv"
	"github.com/yyyoichi/lsb_zero/raster"
)

func newRandomRaster(t testing.TB, w, h int, seed int64) *raster.Buffer {
	b, err := raster.New(w, h)
	require.NoError(t, err)
	rd := rand.New(rand.NewSource(seed))
	for i := range b.Pix {
		b.Pix[i] = uint8(rd.Intn(256))
	}
	return b
}

func TestSplit(t *testing.T) {
	test := []struct {
		n, workers int
		exp        []segment
	}{
		{0, 4, []segment{{0, 0}}},
		{10, 1, []segment{{0, 10}}},
		{10, 0, []segment{{0, 10}}},
		{10, 3, []segment{{0, 4}, {4, 8}, {8, 10}}},
		{3, 8, []segment{{0, 1}, {1, 2}, {2, 3}}},
	}
	for _, tt := range test {
		assert.Equal(t, tt.exp, split(tt.n, tt.workers), "n=%d workers=%d", tt.n, tt.workers)
	}
}

func TestEnable(t *testing.T) {
	src := newRandomRaster(t, 2, 2, 1)
	assert.NoError(t, Enable(src, 12))
	assert.Error(t, Enable(src, 13))
}

func TestEmbedExtract(t *testing.T) {
	ctx := context.Background()
	term := []byte(bitconv.Terminator)
	src := newRandomRaster(t, 16, 16, 42)
	orig := src.Copy()
	stream := bitconv.Encode([]byte("hello, world"), term)

	for _, workers := range []int{1, 2, 7, 64} {
		dist, changed, err := Embed(ctx, src, stream, workers)
		require.NoError(t, err)
		assert.Equal(t, orig, src, "source must not be mutated")

		var diff int
		for i := range dist.Pix {
			if i < stream.Len() {
				assert.Equal(t, stream.Bit(i), dist.Pix[i]&1)
				assert.Equal(t, src.Pix[i]&^1, dist.Pix[i]&^1)
			} else {
				assert.Equal(t, src.Pix[i], dist.Pix[i])
			}
			if dist.Pix[i] != src.Pix[i] {
				diff++
			}
		}
		assert.Equal(t, diff, changed)

		dec := bitconv.NewDecoder(term)
		found, err := Extract(ctx, dist, dec)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, []byte("hello, world"), dec.Message())
	}
}

func TestEmbedCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := newRandomRaster(t, 4, 4, 1)
	_, _, err := Embed(ctx, src, bitconv.Encode(nil, []byte("#")), 2)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = Extract(ctx, src, bitconv.NewDecoder([]byte("#")))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractNotFound(t *testing.T) {
	src, err := raster.New(10, 10)
	require.NoError(t, err)
	dec := bitconv.NewDecoder([]byte(bitconv.Terminator))
	found, err := Extract(context.Background(), src, dec)
	require.NoError(t, err)
	assert.False(t, found)
	// 300 channels give 37 full bytes, the trailing 4 bits are dropped
	assert.Len(t, dec.Bytes(), 37)
}

func TestReadBits(t *testing.T) {
	src, err := raster.FromPix(1, 2, []uint8{1, 2, 3, 4, 5, 7})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, ReadBits(src, 3))
	assert.Equal(t, []bool{true, false, true, false, true, true}, ReadBits(src, 100))
}
