package photark

import (
	"path/filepath"
	"strings"

	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"
)

// A Source is a discovered image waiting for ingestion, with the album id
// derived from its directory relative to the walk root.
type Source struct {
	Path    string
	AlbumID string
}

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// Find walks root and returns every ingestable image, skipping dotfiles
// and dot-directories.
func Find(root string) ([]Source, error) {
	found := []Source{}

	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if path != root && filepath.Base(path)[0] == '.' {
				return godirwalk.SkipThis
			}

			if de.IsDir() || !imageExts[strings.ToLower(filepath.Ext(path))] {
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			album := filepath.Dir(rel)
			if album == "." {
				album = ""
			}

			klog.V(1).Infof("found %s (album %q)", path, album)
			found = append(found, Source{Path: path, AlbumID: album})
			return nil
		},
	})

	return found, err
}
