// Package photos discovers and loads family reference photos from disk,
// converting them to the base64 data URLs the rest of the app works with.
package photos

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/theirongolddev/futureline/internal/gemini"
	"github.com/theirongolddev/futureline/internal/model"
)

// MaxPhotoBytes caps a single photo file. Photos are embedded into the
// plan blob as base64, so oversized originals blow the storage budget.
const MaxPhotoBytes = 4 << 20

// ErrTooLarge indicates a photo file exceeds MaxPhotoBytes.
var ErrTooLarge = errors.New("photos: file too large")

// ErrUnsupported indicates the file extension maps to no known image type.
var ErrUnsupported = errors.New("photos: unsupported image type")

var mimeByExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// DiscoveredPhoto is one image file found during a directory scan.
type DiscoveredPhoto struct {
	Path    string
	Name    string
	Size    int64
	ModTime int64 // unix millis
}

// ScanDir walks dir and returns supported image files, newest first.
// A missing directory yields an empty result, not an error.
func ScanDir(dir string) ([]DiscoveredPhoto, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	var found []DiscoveredPhoto
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := mimeByExt[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return nil //nolint:nilerr
		}
		found = append(found, DiscoveredPhoto{
			Path:    path,
			Name:    d.Name(),
			Size:    fi.Size(),
			ModTime: fi.ModTime().UnixMilli(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(found, func(i, j int) bool { return found[i].ModTime > found[j].ModTime })
	return found, nil
}

// Load reads one image file into a FamilyPhoto with a data URL payload.
func Load(path string) (model.FamilyPhoto, error) {
	mime, ok := mimeByExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return model.FamilyPhoto{}, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}

	fi, err := os.Stat(path)
	if err != nil {
		return model.FamilyPhoto{}, err
	}
	if fi.Size() > MaxPhotoBytes {
		return model.FamilyPhoto{}, fmt.Errorf("%w: %s (%d bytes)", ErrTooLarge, path, fi.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return model.FamilyPhoto{}, err
	}

	return model.FamilyPhoto{
		ID:         model.NewID("photo"),
		DataURL:    fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data)),
		UploadedAt: fi.ModTime().UnixMilli(),
	}, nil
}

// Reference picks the identity-reference photo for image generation: the
// most recently uploaded one. Returns nil when the plan has no usable
// photo.
func Reference(plan *model.Plan) *gemini.InlineImage {
	var best *model.FamilyPhoto
	for i := range plan.FamilyPhotos {
		p := &plan.FamilyPhotos[i]
		if !strings.HasPrefix(p.DataURL, "data:") {
			continue
		}
		if best == nil || p.UploadedAt > best.UploadedAt {
			best = p
		}
	}
	if best == nil {
		return nil
	}
	img, err := gemini.ParseDataURL(best.DataURL)
	if err != nil {
		return nil
	}
	return &img
}
