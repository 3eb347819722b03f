package content

import (
	"io/fs"
	"log/slog"
	"path"
	"strings"
)

// MediaExtensions lists the file types indexed as project media.
var MediaExtensions = []string{"jpg", "jpeg", "png", "gif", "svg", "webp", "mp4", "avi", "mov"}

// IndexMedias walks root in fsys and returns every media file keyed by its
// slash-separated path. The value is the same path, ready to hand to a loader.
func IndexMedias(fsys fs.FS, root string) (map[string]string, error) {
	out := make(map[string]string)
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isMedia(p) {
			return nil
		}
		out[p] = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func isMedia(p string) bool {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(p)), ".")
	for _, e := range MediaExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// FilterMedias returns the entries of all whose path contains projectID,
// ignoring case. A nil map is logged and yields an empty result.
func FilterMedias(projectID string, all map[string]string) map[string]string {
	out := make(map[string]string)
	if all == nil {
		slog.Info("no medias", "project", projectID)
		return out
	}
	needle := strings.ToUpper(projectID)
	for p, v := range all {
		if strings.Contains(strings.ToUpper(p), needle) {
			out[p] = v
		}
	}
	return out
}
