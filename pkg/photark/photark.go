// Package photark is the processing core of a photo-gallery ingestion
// pipeline. For each uploaded source image it derives stable identifiers
// and storage filenames, extracts embedded capture metadata, generates
// thumbnail and display derivatives, and computes a content checksum,
// yielding one self-contained PhotoRecord per source file.
package photark

// Config holds the shared, read-only settings for a set of builds. It is
// constructed once by the caller and passed into every component; nothing
// in this package reads ambient global state.
type Config struct {
	// StorageRoot is the base path final derivatives are relocated under.
	// The builder only computes DestPath from it; Store writes it.
	StorageRoot string

	// Quality is the JPEG encode quality (0-100) for all derivative
	// re-encodes except orientation fixes.
	Quality int

	// SmallThumbSize and LargeThumbSize are the bounding boxes for the
	// square thumbnail and its @2x variant.
	SmallThumbSize int
	LargeThumbSize int

	// MediumMaxDimension bounds the longer edge of the medium derivative.
	MediumMaxDimension int

	// BigMaxDimension bounds the longer edge of the big derivative.
	// Zero keeps the unmodified source as the big derivative.
	BigMaxDimension int

	// TempDir is where derivative files are written before relocation.
	// Empty means the system default temp directory.
	TempDir string
}

// DefaultConfig returns a Config with the stock gallery settings.
func DefaultConfig() *Config {
	return &Config{
		Quality:            85,
		SmallThumbSize:     200,
		LargeThumbSize:     400,
		MediumMaxDimension: 1920,
	}
}
