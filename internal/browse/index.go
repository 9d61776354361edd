// Package browse builds the classified listing of one directory.
package browse

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"nordify/internal/errors"
	"nordify/pkg/types"
)

// HiddenPrefix marks names that are never listed.
const HiddenPrefix = "."

// ImageExtensions are the recognized image extensions, lower case, without dot.
var ImageExtensions = []string{"jpg", "jpeg", "png", "bmp", "svg"}

var imagePattern = glob.MustCompile("*.{" + strings.Join(ImageExtensions, ",") + "}")

// IsImageName reports whether name ends in a recognized image extension,
// ignoring case.
func IsImageName(name string) bool {
	return imagePattern.Match(strings.ToLower(name))
}

// Build lists the direct children of dir. Directories come first, then
// everything else; each group is sorted byte-wise by name. Hidden names are
// skipped. Ordinals are assigned in the resulting order.
func Build(dir string) ([]types.DirectoryEntry, error) {
	children, err := os.ReadDir(dir)
	if err != nil {
		return nil, listingError(dir, err)
	}

	entries := make([]types.DirectoryEntry, 0, len(children))
	for _, child := range children {
		name := child.Name()
		if strings.HasPrefix(name, HiddenPrefix) {
			continue
		}
		entries = append(entries, classify(dir, child))
	}

	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := entries[i].Kind == types.Directory, entries[j].Kind == types.Directory
		if di != dj {
			return di
		}
		return entries[i].Name < entries[j].Name
	})

	for i := range entries {
		entries[i].Ordinal = i
	}
	return entries, nil
}

func classify(dir string, child os.DirEntry) types.DirectoryEntry {
	full := filepath.Join(dir, child.Name())
	entry := types.DirectoryEntry{
		Name:     child.Name(),
		FullPath: full,
		Kind:     types.Generic,
	}

	var info os.FileInfo
	if child.Type()&os.ModeSymlink != 0 {
		// Links are classified by their target; broken links stay generic
		target, err := os.Stat(full)
		if err != nil {
			return entry
		}
		info = target
	} else {
		i, err := child.Info()
		if err != nil {
			return entry
		}
		info = i
	}

	entry.ModTime = info.ModTime()
	switch {
	case info.IsDir():
		entry.Kind = types.Directory
	case IsImageName(entry.Name):
		entry.Kind = types.Image
		entry.Size = info.Size()
	default:
		entry.Size = info.Size()
	}
	return entry
}

// KindOf classifies a single path the same way Build does.
// It fails when the path cannot be read.
func KindOf(path string) (types.EntryKind, error) {
	info, err := os.Stat(path)
	if err != nil {
		return types.Generic, err
	}
	if info.IsDir() {
		return types.Directory, nil
	}
	if IsImageName(filepath.Base(path)) {
		return types.Image, nil
	}
	return types.Generic, nil
}

func listingError(dir string, err error) error {
	return errors.NewFileError("cannot list directory", dir, errors.ListingFailed, err)
}
