package photark

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"k8s.io/klog/v2"
)

// Builder turns one source image into one PhotoRecord. A single build is
// synchronous; distinct builds are independent and safe to run in parallel
// as long as they share nothing but the Config.
type Builder struct {
	cfg *Config
	tf  *Transformer
}

// NewBuilder returns a Builder for cfg.
func NewBuilder(cfg *Config) *Builder {
	return &Builder{cfg: cfg, tf: NewTransformer(cfg)}
}

// Build runs the fixed pipeline for srcPath: identifiers, metadata,
// thumbnails, medium and optional big resize, orientation correction, and
// the content checksum. The checksum has no dependency on the decode path
// and runs concurrently with the transforms; both branches join before the
// record is returned. A DecodeError or EncodeError aborts the build, and
// any derivatives already written are removed best-effort.
func (b *Builder) Build(srcPath string, albumID string) (*PhotoRecord, error) {
	name := filepath.Base(srcPath)
	id := GenerateID(time.Now())
	url, thumb2xURL := DeriveURLs(id, name)
	klog.V(1).Infof("building %s: id=%s album=%q", srcPath, id, albumID)

	st, err := os.Stat(srcPath)
	if err != nil {
		return nil, &DecodeError{Path: srcPath, Err: err}
	}

	type digest struct {
		sum string
		err error
	}
	sums := make(chan digest, 1)
	go func() {
		sum, err := Checksum(srcPath)
		sums <- digest{sum, err}
	}()

	meta, err := ExtractMetadata(srcPath)
	if err != nil {
		return nil, err
	}

	var temps []string
	fail := func(err error) (*PhotoRecord, error) {
		for _, p := range temps {
			removeDerivative(srcPath, p)
		}
		return nil, err
	}

	thumbPath, err := b.tf.Thumbnail(srcPath, meta.Width, meta.Height, b.cfg.SmallThumbSize)
	if err != nil {
		return fail(err)
	}
	temps = append(temps, thumbPath)

	thumb2xPath, err := b.tf.Thumbnail(srcPath, meta.Width, meta.Height, b.cfg.LargeThumbSize)
	if err != nil {
		return fail(err)
	}
	temps = append(temps, thumb2xPath)

	mediumPath, err := b.tf.Resize(srcPath, meta.Width, meta.Height, b.cfg.MediumMaxDimension)
	if err != nil {
		return fail(err)
	}
	temps = append(temps, mediumPath)

	bigPath := srcPath
	if b.cfg.BigMaxDimension > 0 {
		bigPath, err = b.tf.Resize(srcPath, meta.Width, meta.Height, b.cfg.BigMaxDimension)
		if err != nil {
			return fail(err)
		}
		temps = append(temps, bigPath)
	}

	if err := b.correctOrientation(srcPath, meta.Exif.Orientation, mediumPath, thumbPath, thumb2xPath, bigPath); err != nil {
		return fail(err)
	}

	d := <-sums
	if d.err != nil {
		return fail(fmt.Errorf("checksum %s: %w", srcPath, d.err))
	}

	return &PhotoRecord{
		ID:              id,
		OriginalName:    name,
		AlbumID:         albumID,
		Description:     meta.Description,
		Starred:         strings.Contains(name, "star") || strings.Contains(name, "cover"),
		URL:             url,
		Thumb2xURL:      thumb2xURL,
		SourcePath:      srcPath,
		DestPath:        filepath.Join(b.cfg.StorageRoot, "uploads", "big", url),
		ThumbnailPath:   thumbPath,
		Thumbnail2xPath: thumb2xPath,
		MediumPath:      mediumPath,
		BigPath:         bigPath,
		MimeType:        detectMimeType(srcPath),
		SizeBytes:       st.Size(),
		Width:           meta.Width,
		Height:          meta.Height,
		CapturedAt:      meta.Taken,
		Checksum:        d.sum,
		Exif:            meta.Exif,
	}, nil
}

// correctOrientation runs the one-time rotation pass over the generated
// derivatives so displayed orientation stays consistent across sizes. Paths
// aliasing the source are never rewritten in place.
func (b *Builder) correctOrientation(srcPath string, orientation int, paths ...string) error {
	angle := orientationAngle(orientation)
	if angle == 0 {
		if orientation != 0 && orientation != 1 {
			klog.V(1).Infof("unhandled orientation %d for %s", orientation, srcPath)
		}
		return nil
	}

	for _, p := range paths {
		if p == srcPath {
			continue
		}
		if err := b.tf.Rotate(p, angle); err != nil {
			return err
		}
	}
	return nil
}

// Cleanup deletes the temporary derivatives: both thumbnails and the
// medium copy. It is best-effort and idempotent; failures are logged,
// never raised. The source and destination paths belong to the upload
// collaborator and are never touched.
func (r *PhotoRecord) Cleanup() {
	for _, p := range []string{r.ThumbnailPath, r.Thumbnail2xPath, r.MediumPath} {
		removeDerivative(r.SourcePath, p)
	}
}

func removeDerivative(srcPath string, p string) {
	if p == "" || p == srcPath {
		return
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		klog.Errorf("cannot delete derivative %s: %v", p, err)
	}
}

// detectMimeType sniffs the content type from file bytes, falling back to
// the filename extension when the file cannot be read.
func detectMimeType(path string) string {
	mt, err := mimetype.DetectFile(path)
	if err == nil {
		return mt.String()
	}
	klog.Warningf("sniff %s: %v", path, err)
	return mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
}
