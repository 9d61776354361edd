// Package analysis describes the selected image: type, size, dimensions and
// camera metadata.
package analysis

import (
	"image"
	_ "image/jpeg" // register decoders for DecodeConfig
	_ "image/png"
	"os"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
	"github.com/srwiley/oksvg"
	_ "golang.org/x/image/bmp"

	serr "nordify/internal/errors"
	log "nordify/internal/log"
	"nordify/pkg/types"
)

// Analyzer adds details to an ImageInfo for the types it understands.
type Analyzer interface {
	// CanHandle checks if this analyzer is suitable for the given mime type
	CanHandle(mimeType string) bool
	// Analyze fills in what it can. Missing metadata is not an error.
	Analyze(path string, info *types.ImageInfo) error
}

// --- Concrete Analyzer Implementations ---

// ExifAnalyzer reads camera and capture time from EXIF data
type ExifAnalyzer struct{}

// CanHandle accepts formats that may carry EXIF
func (a *ExifAnalyzer) CanHandle(mimeType string) bool {
	return mimeType == "image/jpeg" || mimeType == "image/png"
}

// Analyze extracts EXIF metadata from image files
func (a *ExifAnalyzer) Analyze(path string, info *types.ImageInfo) error {
	logger := log.LogWithFields(log.F("path", path))

	file, err := os.Open(path)
	if err != nil {
		return serr.NewFileError("failed to open image file for exif", path, serr.FileAccessDenied, err)
	}
	defer file.Close()

	x, err := exif.Decode(file)
	if err != nil {
		logger.Debugf("no EXIF data: %v", err)
		return nil
	}

	if taken, err := x.DateTime(); err == nil {
		info.Taken = taken
	}

	var camera []string
	for _, field := range []exif.FieldName{exif.Make, exif.Model} {
		if tag, err := x.Get(field); err == nil {
			if s, err := tag.StringVal(); err == nil && strings.TrimSpace(s) != "" {
				camera = append(camera, strings.TrimSpace(s))
			}
		}
	}
	info.Camera = strings.Join(camera, " ")
	return nil
}

// RasterAnalyzer reads pixel dimensions from raster image headers
type RasterAnalyzer struct{}

// CanHandle accepts png, jpeg and bmp
func (a *RasterAnalyzer) CanHandle(mimeType string) bool {
	switch mimeType {
	case "image/png", "image/jpeg", "image/bmp":
		return true
	}
	return false
}

// Analyze decodes only the image header
func (a *RasterAnalyzer) Analyze(path string, info *types.ImageInfo) error {
	file, err := os.Open(path)
	if err != nil {
		return serr.NewFileError("failed to open image", path, serr.FileAccessDenied, err)
	}
	defer file.Close()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		log.LogWithFields(log.F("path", path)).Debugf("cannot read dimensions: %v", err)
		return nil
	}
	info.Width, info.Height = cfg.Width, cfg.Height
	return nil
}

// SVGAnalyzer reads dimensions from the viewBox
type SVGAnalyzer struct{}

// CanHandle accepts svg
func (a *SVGAnalyzer) CanHandle(mimeType string) bool {
	return mimeType == "image/svg+xml"
}

// Analyze parses the document for its viewBox
func (a *SVGAnalyzer) Analyze(path string, info *types.ImageInfo) error {
	icon, err := oksvg.ReadIcon(path, oksvg.IgnoreErrorMode)
	if err != nil {
		log.LogWithFields(log.F("path", path)).Debugf("cannot parse svg: %v", err)
		return nil
	}
	info.Width, info.Height = int(icon.ViewBox.W), int(icon.ViewBox.H)
	return nil
}

// --- Engine Implementation ---

var registerParsers sync.Once

// Engine runs every registered analyzer that handles a file's type
type Engine struct {
	analyzers []Analyzer
}

// registerAnalyzer adds an analyzer to the engine's list
func (e *Engine) registerAnalyzer(analyzer Analyzer) {
	e.analyzers = append(e.analyzers, analyzer)
}

// New creates an Engine with the default analyzers
func New() *Engine {
	registerParsers.Do(func() { exif.RegisterParsers(mknote.All...) })
	engine := &Engine{}
	engine.registerAnalyzer(&RasterAnalyzer{})
	engine.registerAnalyzer(&SVGAnalyzer{})
	engine.registerAnalyzer(&ExifAnalyzer{})
	return engine
}

// Describe stats and sniffs path, then runs the matching analyzers.
// Analyzer failures are logged and leave their fields empty.
func (e *Engine) Describe(path string) (*types.ImageInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, serr.NewFileError("failed to stat file", path, serr.FileNotFound, err)
		}
		return nil, serr.NewFileError("failed to stat file", path, serr.FileAccessDenied, err)
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, serr.NewFileError("failed to read file", path, serr.FileAccessDenied, err)
	}

	// Strip parameters such as "; charset=utf-8"
	mimeType, _, _ := strings.Cut(mtype.String(), ";")
	info := &types.ImageInfo{
		Path:     path,
		MimeType: mimeType,
		Size:     stat.Size(),
		ModTime:  stat.ModTime(),
	}

	for _, analyzer := range e.analyzers {
		if !analyzer.CanHandle(info.MimeType) {
			continue
		}
		if err := analyzer.Analyze(path, info); err != nil {
			log.LogWithError(err).Warn("analyzer failed")
		}
	}
	return info, nil
}
