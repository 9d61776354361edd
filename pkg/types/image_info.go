package types

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// ImageInfo describes the selected source image.
type ImageInfo struct {
	Path     string    `json:"path"`
	MimeType string    `json:"type"`
	Size     int64     `json:"size"`
	Width    int       `json:"width,omitempty"`
	Height   int       `json:"height,omitempty"`
	Camera   string    `json:"camera,omitempty"`
	Taken    time.Time `json:"taken,omitempty"`
	ModTime  time.Time `json:"mod_time"`
}

// Name returns the base name of the image
func (i *ImageInfo) Name() string {
	return filepath.Base(i.Path)
}

// ToJSON converts ImageInfo to a JSON string
func (i *ImageInfo) ToJSON() string {
	jsonBytes, _ := json.Marshal(i)
	return string(jsonBytes)
}

// Dimensions returns "WxH", or "" when unknown.
func (i *ImageInfo) Dimensions() string {
	if i.Width == 0 || i.Height == 0 {
		return ""
	}
	return fmt.Sprintf("%dx%d", i.Width, i.Height)
}

// String returns a human-readable representation
func (i *ImageInfo) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File: %s\n", i.Path))
	sb.WriteString(fmt.Sprintf("Type: %s\n", i.MimeType))
	sb.WriteString(fmt.Sprintf("Size: %s\n", humanize.Bytes(uint64(i.Size))))
	if d := i.Dimensions(); d != "" {
		sb.WriteString(fmt.Sprintf("Dimensions: %s\n", d))
	}
	if i.Camera != "" {
		sb.WriteString(fmt.Sprintf("Camera: %s\n", i.Camera))
	}
	if !i.Taken.IsZero() {
		sb.WriteString(fmt.Sprintf("Taken: %s\n", i.Taken.Format("2006-01-02 15:04")))
	}
	return sb.String()
}
