package lsb

import (
	"context"
	"fmt"
	"sync"

	"github.com/yyyoichi/lsb_zero/internal/bitconv"
	"github.com/yyyoichi/lsb_zero/raster"
)

// checkEvery is the number of channels processed between context checks.
const checkEvery = 1 << 14

// Enable reports an error if a stream of bits does not fit into the channels of src.
func Enable(src *raster.Buffer, bits int) error {
	if total := src.Channels(); total < bits {
		return fmt.Errorf("total channels %d < stream length %d", total, bits)
	}
	return nil
}

// Embed writes stream into the channel LSBs of a copy of src and returns the copy
// together with the number of channel values that actually changed.
//
// Channel i (pixel*3 + R/G/B offset) takes stream bit i, so segments are
// independent and can be processed by separate goroutines.
// Channels at or past stream.Len() are copied unchanged.
func Embed(ctx context.Context, src *raster.Buffer, stream *bitconv.Stream, workers int) (*raster.Buffer, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	dist := src.Copy()
	segments := split(stream.Len(), workers)
	changed := make([]int, len(segments))

	if len(segments) == 1 {
		changed[0] = embed(ctx, dist.Pix, stream, segments[0])
	} else {
		var wg sync.WaitGroup
		wg.Add(len(segments))
		for i, seg := range segments {
			go func(i int, seg segment) {
				defer wg.Done()
				changed[i] = embed(ctx, dist.Pix, stream, seg)
			}(i, seg)
		}
		wg.Wait()
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	for _, c := range changed {
		total += c
	}
	return dist, total, nil
}

func embed(ctx context.Context, pix []uint8, stream *bitconv.Stream, seg segment) (changed int) {
	for at := seg.from; at < seg.to; at++ {
		if (at-seg.from)%checkEvery == 0 && ctx.Err() != nil {
			return
		}
		v := pix[at]&^1 | stream.Bit(at)
		if v != pix[at] {
			pix[at] = v
			changed++
		}
	}
	return
}

// Extract feeds channel LSBs of src to dec in raster-scan, R->G->B order and
// stops at the first channel that completes the terminator.
// It reports whether the terminator was found.
func Extract(ctx context.Context, src *raster.Buffer, dec *bitconv.Decoder) (bool, error) {
	for at, v := range src.Pix {
		if at%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return false, err
			}
		}
		if dec.WriteBit(v & 1) {
			return true, nil
		}
	}
	return false, nil
}

// ReadBits returns the first n channel LSBs of src, or all of them if n exceeds the capacity.
func ReadBits(src *raster.Buffer, n int) []bool {
	n = min(n, len(src.Pix))
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = src.Pix[i]&1 == 1
	}
	return bits
}

type segment struct {
	from, to int
}

// split divides [0, n) into at most workers contiguous segments.
func split(n, workers int) []segment {
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = max(n, 1)
	}
	size := (n + workers - 1) / workers
	segments := make([]segment, 0, workers)
	for from := 0; from < n; from += size {
		segments = append(segments, segment{from: from, to: min(from+size, n)})
	}
	if len(segments) == 0 {
		segments = append(segments, segment{})
	}
	return segments
}
