package main

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lsb "github.com/yyyoichi/lsb_zero"
)

func TestReencode(t *testing.T) {
	src := createImage(rand.New(rand.NewSource(1)), 16, 9)
	for _, format := range []string{"png", "bmp", "tiff"} {
		got, err := reencode(src, format)
		require.NoError(t, err)
		assert.Equal(t, src, got, format)
	}
	got, err := reencode(src, "jpeg")
	require.NoError(t, err)
	assert.True(t, src.SameSize(got))
}

func TestTestMessage(t *testing.T) {
	s, err := lsb.New()
	require.NoError(t, err)
	src := createImage(rand.New(rand.NewSource(2)), 32, 32)
	params := TestParams{ImageWidth: 32, ImageHeight: 32, MessageLen: 5, Format: "png"}
	assert.True(t, testMessage(context.Background(), s, src, []byte("hello"), params))
}
