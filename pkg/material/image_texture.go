package material

import (
	"fmt"

	"github.com/df07/go-scenegeom/pkg/core"
)

// PixelBuffer is an in-memory TextureSource
type PixelBuffer struct {
	width    int
	height   int
	channels int
	pixels   []byte // Row-major: pixels[(y*width+x)*channels+c]
}

// NewPixelBuffer wraps pixels, which must hold width*height*channels bytes
func NewPixelBuffer(width, height, channels int, pixels []byte) (*PixelBuffer, error) {
	if width <= 0 || height <= 0 || channels <= 0 {
		return nil, fmt.Errorf("invalid pixel buffer shape %dx%dx%d", width, height, channels)
	}
	if len(pixels) != width*height*channels {
		return nil, fmt.Errorf("pixel buffer %dx%dx%d needs %d bytes, got %d", width, height, channels, width*height*channels, len(pixels))
	}
	return &PixelBuffer{width: width, height: height, channels: channels, pixels: pixels}, nil
}

func (p *PixelBuffer) Width() int     { return p.width }
func (p *PixelBuffer) Height() int    { return p.height }
func (p *PixelBuffer) Channels() int  { return p.channels }
func (p *PixelBuffer) Pixels() []byte { return p.pixels }

// Sample returns the color at surface coordinates (u, v) using
// nearest-neighbor lookup. Coordinates wrap; v = 0 is the bottom row.
// Buffers with fewer than three channels are read as gray.
func Sample(t TextureSource, u, v float64) core.Vec3 {
	u -= float64(int(u))
	v -= float64(int(v))
	if u < 0 {
		u += 1.0
	}
	if v < 0 {
		v += 1.0
	}

	w, h, ch := t.Width(), t.Height(), t.Channels()
	x := min(max(int(u*float64(w)), 0), w-1)
	y := min(max(int((1.0-v)*float64(h)), 0), h-1)

	px := t.Pixels()[(y*w+x)*ch:]
	if ch < 3 {
		g := float64(px[0]) / 255.0
		return core.NewVec3(g, g, g)
	}
	return core.NewVec3(float64(px[0])/255.0, float64(px[1])/255.0, float64(px[2])/255.0)
}
