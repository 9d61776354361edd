package mapper

import (
	"image"
	"image/color"

	"github.com/nfnt/resize"

	"nordify/internal/errors"
)

// Options control one Transform call.
type Options struct {
	// Mapper recolors each pixel. Nil means Nearest over Nord.
	Mapper Mapper
	// MaxDimension bounds the longest side of the output. Zero keeps the
	// source size; smaller images are never enlarged.
	MaxDimension int
	// Label names the strategy in errors.
	Label string
}

// Process applies m to every pixel of img. Alpha is kept from the source.
func Process(img image.Image, m Mapper) *image.NRGBA {
	if m == nil {
		m = Nearest{Palette: Nord}
	}
	bounds := img.Bounds()
	out := image.NewNRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			src := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if src.A == 0 {
				continue
			}
			mapped := m.Map(src)
			mapped.A = src.A
			out.SetNRGBA(x, y, mapped)
		}
	}
	return out
}

// Transform reads input, recolors it and writes output. It blocks until the
// file is written. Every failure is returned as a TransformError.
func Transform(input, output string, opts Options) error {
	img, err := Load(input)
	if err != nil {
		return transformError("cannot load source image", input, output, opts, err)
	}

	if opts.MaxDimension > 0 {
		bound := uint(opts.MaxDimension)
		img = resize.Thumbnail(bound, bound, img, resize.Lanczos3)
	}

	if err := Save(Process(img, opts.Mapper), output); err != nil {
		return transformError("cannot write render", input, output, opts, err)
	}
	return nil
}

func transformError(msg, input, output string, opts Options, err error) error {
	kind := errors.KindOf(err)
	if kind != errors.UnsupportedFormat {
		kind = errors.TransformFailed
	}
	return errors.NewTransformError(msg, opts.Label, kind, err).WithPaths(input, output)
}
