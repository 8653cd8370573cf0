package photark

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"k8s.io/klog/v2"
)

var exifTimeLayout = "2006:01:02 15:04:05"

// Metadata is what extraction yields for one decodable source image.
type Metadata struct {
	Width  int
	Height int
	Exif   ExifData

	// Taken is the capture time from the DateTime tag, or the moment of
	// extraction when the tag is absent or malformed.
	Taken time.Time

	// Description is the formatted capture time, empty unless the
	// DateTime tag parsed.
	Description string
}

// ExtractMetadata reads the dimensions and the embedded tag dictionary of
// the image at path. An undecodable file yields a DecodeError; a missing or
// partial tag dictionary does not.
func ExtractMetadata(path string) (*Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	ic, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}

	m := &Metadata{
		Width:  ic.Width,
		Height: ic.Height,
		Taken:  time.Now(),
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		klog.Warningf("rewind %s: %v", path, err)
		return m, nil
	}

	x, err := exif.Decode(f)
	if err != nil {
		klog.V(1).Infof("no tag dictionary in %s: %v", path, err)
		return m, nil
	}

	m.Exif.Present = true
	m.Exif.Orientation = tagInt(x, exif.Orientation)
	m.Exif.Make = tagString(x, exif.Make)
	m.Exif.Model = tagString(x, exif.Model)
	m.Exif.Aperture = tagString(x, exif.MaxApertureValue)
	m.Exif.Focal = tagString(x, exif.FocalLength)
	m.Exif.ISO = tagString(x, exif.ISOSpeedRatings)
	m.Exif.Shutter = tagString(x, exif.ExposureTime)

	if ds := tagString(x, exif.DateTime); ds != "" {
		m.applyDateTime(path, ds)
	}

	return m, nil
}

// applyDateTime fills the capture-time fields from a raw DateTime tag
// value. A malformed value is absorbed: Taken keeps its extraction-moment
// default and the description stays empty.
func (m *Metadata) applyDateTime(path string, raw string) {
	t, err := time.Parse(exifTimeLayout, raw)
	if err != nil {
		klog.Warningf("malformed DateTime %q in %s: %v", raw, path, err)
		return
	}

	m.Taken = t
	m.Description = t.Format("2006-01-02 15:04:05")

	date, clock, _ := strings.Cut(raw, " ")
	m.Exif.TakeDate = NormalizeTakeDate(date)
	m.Exif.TakeTime = clock
}

func tagString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	if s, err := tag.StringVal(); err == nil {
		return s
	}
	// Rationals and shorts have no ASCII form; fall back to the printable
	// representation, which quotes strings.
	return strings.Trim(tag.String(), `"`)
}

func tagInt(x *exif.Exif, name exif.FieldName) int {
	tag, err := x.Get(name)
	if err != nil {
		return 0
	}
	v, err := tag.Int(0)
	if err != nil {
		klog.V(1).Infof("non-integer %s tag: %v", name, err)
		return 0
	}
	return v
}
