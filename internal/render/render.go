// Package render turns numeric raster data from imagery responses into
// viewable images.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
)

var (
	// ErrEmptyRaster is returned when the input array has no rows or columns.
	ErrEmptyRaster = errors.New("raster data is empty")
	// ErrRaggedRaster is returned when rows or pixels have inconsistent lengths.
	ErrRaggedRaster = errors.New("raster rows have inconsistent lengths")
	// ErrBadChannels is returned for channel counts other than 1 or 3.
	ErrBadChannels = errors.New("raster must have 1 or 3 channels")
	// ErrInvalidClip is returned when the clip range is inverted or collapsed.
	ErrInvalidClip = errors.New("clip range must satisfy min < max")
)

// ClipRange bounds raster values before normalization.
type ClipRange struct {
	Min float64
	Max float64
}

// Options controls how raster values map to 8-bit channels. A zero Factor
// means no scaling. Without a clip range, scaled values are clamped to [0, 1].
type Options struct {
	Factor float64
	Clip   *ClipRange
}

// Image converts a rows x cols x channels array of reflectance values into an
// 8-bit image. Single-channel data renders as grayscale, three channels as
// RGB. Values are multiplied by the factor, then either clamped to [0, 1] or,
// when a clip range is set, clamped to it and normalized over its span.
func Image(data [][][]float64, opts Options) (image.Image, error) {
	rows := len(data)
	if rows == 0 || len(data[0]) == 0 {
		return nil, ErrEmptyRaster
	}
	cols := len(data[0])
	channels := len(data[0][0])
	if channels != 1 && channels != 3 {
		return nil, fmt.Errorf("%w: got %d", ErrBadChannels, channels)
	}
	if opts.Clip != nil && opts.Clip.Min >= opts.Clip.Max {
		return nil, ErrInvalidClip
	}

	factor := opts.Factor
	if factor == 0 {
		factor = 1
	}

	img := image.NewNRGBA(image.Rect(0, 0, cols, rows))
	for i, row := range data {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrRaggedRaster, i, len(row), cols)
		}
		for j, pixel := range row {
			if len(pixel) != channels {
				return nil, fmt.Errorf("%w: pixel (%d,%d) has %d channels, want %d",
					ErrRaggedRaster, i, j, len(pixel), channels)
			}

			var rgb [3]float64
			for c := range 3 {
				v := pixel[c%channels] * factor
				if opts.Clip != nil {
					v = (clamp(v, opts.Clip.Min, opts.Clip.Max) - opts.Clip.Min) /
						(opts.Clip.Max - opts.Clip.Min)
				} else {
					v = clamp(v, 0, 1)
				}
				rgb[c] = v
			}

			img.SetNRGBA(j, i, color.NRGBA{
				R: toByte(rgb[0]),
				G: toByte(rgb[1]),
				B: toByte(rgb[2]),
				A: math.MaxUint8,
			})
		}
	}

	return img, nil
}

// WritePNG encodes the image as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}

	return nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func toByte(v float64) uint8 {
	return uint8(math.Round(v * math.MaxUint8))
}
