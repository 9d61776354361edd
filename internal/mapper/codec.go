package mapper

import (
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/bmp"

	"nordify/internal/errors"
)

// defaultSVGSize is used for SVGs without a usable viewBox.
const defaultSVGSize = 512

// Load decodes the image at path. The format is sniffed from the content,
// not the extension: png, jpeg, bmp and svg are understood.
func Load(path string) (image.Image, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, errors.NewFileError("cannot read image", path, errors.FileNotFound, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewFileError("cannot open image", path, errors.FileAccessDenied, err)
	}
	defer f.Close()

	var img image.Image
	switch {
	case mtype.Is("image/png"):
		img, err = png.Decode(f)
	case mtype.Is("image/jpeg"):
		img, err = jpeg.Decode(f)
	case mtype.Is("image/bmp"):
		img, err = bmp.Decode(f)
	case mtype.Is("image/svg+xml"):
		img, err = rasterizeSVG(f)
	default:
		return nil, errors.NewTransformError("unsupported image format "+mtype.String(), "", errors.UnsupportedFormat, nil).
			WithPaths(path, "")
	}
	if err != nil {
		return nil, errors.NewTransformError("cannot decode image", "", errors.TransformFailed, err).WithPaths(path, "")
	}
	return img, nil
}

func rasterizeSVG(r io.Reader) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(r, oksvg.WarnErrorMode)
	if err != nil {
		return nil, err
	}

	w, h := int(icon.ViewBox.W), int(icon.ViewBox.H)
	if w <= 0 || h <= 0 {
		w, h = defaultSVGSize, defaultSVGSize
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return rgba, nil
}

// Save encodes img by the extension of path: .png, .jpg/.jpeg or .bmp.
// The image goes to a hidden sibling file first and is renamed into place,
// so a failure never leaves a partial file at path. An existing file at path
// is replaced.
func Save(img image.Image, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	encode, ok := encoders[ext]
	if !ok {
		return errors.NewTransformError("cannot encode "+ext+" images", "", errors.UnsupportedFormat, nil).WithPaths("", path)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".nordify-*"+ext)
	if err != nil {
		return errors.NewFileError("cannot create output file", path, errors.FileAccessDenied, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { os.Remove(tmpName) }

	if err := encode(tmp, img); err != nil {
		tmp.Close()
		cleanup()
		return errors.NewTransformError("cannot encode image", "", errors.TransformFailed, err).WithPaths("", path)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return errors.NewFileError("cannot write output file", path, errors.FileAccessDenied, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return errors.NewFileError("cannot write output file", path, errors.FileAccessDenied, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return errors.NewFileError("cannot write output file", path, errors.FileAccessDenied, err)
	}
	return nil
}

var encoders = map[string]func(io.Writer, image.Image) error{
	".png":  png.Encode,
	".jpg":  encodeJPEG,
	".jpeg": encodeJPEG,
	".bmp":  bmp.Encode,
}

func encodeJPEG(w io.Writer, img image.Image) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
}
