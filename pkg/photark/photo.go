package photark

import (
	"strings"
	"time"
)

// ExifData is the normalized capture metadata for one photo. It is owned by
// a single PhotoRecord and never modified after extraction.
type ExifData struct {
	ISO      string
	Aperture string
	Make     string
	Model    string
	Shutter  string
	Focal    string

	// Orientation is the raw EXIF orientation tag value; 0 means unset.
	Orientation int

	// TakeDate is the date portion of the capture time, normalized to a
	// single "-" separator. TakeTime is the time portion.
	TakeDate string
	TakeTime string

	// Present reports whether an embedded tag dictionary was found at all.
	// When false the remaining fields hold their zero values.
	Present bool
}

// NormalizeTakeDate rewrites an EXIF-style date ("2016:05:12") with a "-"
// separator. It is idempotent: normalizing an already-normalized date
// returns it unchanged.
func NormalizeTakeDate(s string) string {
	return strings.ReplaceAll(s, ":", "-")
}

// PhotoRecord is the output of one build: identifiers, derivative paths,
// capture metadata and the content checksum for a single source image.
// It is fully populated by Builder.Build and immutable afterwards.
type PhotoRecord struct {
	ID           string
	OriginalName string
	AlbumID      string
	Description  string
	Starred      bool

	// URL and Thumb2xURL are the derived storage filenames.
	URL        string
	Thumb2xURL string

	SourcePath string
	DestPath   string

	// Derivative paths. ThumbnailPath, Thumbnail2xPath and MediumPath are
	// temporary until relocation; BigPath aliases SourcePath when no big
	// resize is configured.
	ThumbnailPath   string
	Thumbnail2xPath string
	MediumPath      string
	BigPath         string

	MimeType  string
	SizeBytes int64
	Width     int
	Height    int

	CapturedAt time.Time
	Checksum   string
	Exif       ExifData
}
