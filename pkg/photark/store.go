package photark

import (
	"fmt"
	"path/filepath"

	"github.com/otiai10/copy"
	"k8s.io/klog/v2"
)

// Store relocates a record's permanent derivatives under the storage root:
// the big copy to DestPath, the medium copy and both thumbnails under their
// derived filenames. After a successful Store the caller should invoke
// Cleanup to drop the remaining temporaries.
func Store(cfg *Config, r *PhotoRecord) error {
	targets := []struct {
		src  string
		dest string
	}{
		{r.BigPath, r.DestPath},
		{r.MediumPath, filepath.Join(cfg.StorageRoot, "uploads", "medium", r.URL)},
		{r.ThumbnailPath, filepath.Join(cfg.StorageRoot, "uploads", "thumb", r.URL)},
		{r.Thumbnail2xPath, filepath.Join(cfg.StorageRoot, "uploads", "thumb", r.Thumb2xURL)},
	}

	for _, t := range targets {
		klog.V(1).Infof("storing %s -> %s", t.src, t.dest)
		if err := copy.Copy(t.src, t.dest); err != nil {
			return fmt.Errorf("copy %s: %w", t.src, err)
		}
	}

	// The orientation pass never rewrites the source in place, so a
	// derivative aliasing it arrives here uncorrected. Rotate the
	// relocated copy instead, keeping the stored big/medium consistent
	// with the corrected thumbnails.
	if angle := orientationAngle(r.Exif.Orientation); angle != 0 {
		tf := NewTransformer(cfg)
		for _, t := range targets {
			if t.src != r.SourcePath {
				continue
			}
			klog.V(1).Infof("rotating relocated copy %s by %v°", t.dest, angle)
			if err := tf.Rotate(t.dest, angle); err != nil {
				return err
			}
		}
	}

	// A generated big derivative is not covered by Cleanup; drop it once
	// it has been relocated.
	removeDerivative(r.SourcePath, r.BigPath)
	return nil
}
