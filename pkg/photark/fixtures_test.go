package photark

import (
	"image"
	"image/color"
	"os"
	"testing"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/stretchr/testify/require"
)

// writeJPEG synthesizes a w x h gradient JPEG at path.
func writeJPEG(t *testing.T, path string, w int, h int) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	require.NoError(t, imgio.Save(path, img, imgio.JPEGEncoder(90)))
}

// decodeSize returns the dimensions of the image at path.
func decodeSize(t *testing.T, path string) (int, int) {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	ic, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	return ic.Width, ic.Height
}

// writeMarkerJPEG synthesizes a blue w x h JPEG with a red block in the
// top-left corner, so rotation direction can be asserted by pixel position
// rather than dimensions alone.
func writeMarkerJPEG(t *testing.T, path string, w int, h int) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{B: 255, A: 255}
			if x < 8 && y < 8 {
				c = color.RGBA{R: 255, A: 255}
			}
			img.Set(x, y, c)
		}
	}
	require.NoError(t, imgio.Save(path, img, imgio.JPEGEncoder(95)))
}

// redAt reports whether the pixel at (x, y) is predominantly red. The
// threshold tolerates JPEG re-encode loss.
func redAt(t *testing.T, path string, x int, y int) bool {
	t.Helper()

	img, err := imgio.Open(path)
	require.NoError(t, err)
	r, _, b, _ := img.At(x, y).RGBA()
	return r>>8 > 150 && b>>8 < 100
}

func be16(v uint16) []byte {
	return []byte{byte(v >> 8), byte(v)}
}

func be32(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

// exifSegment builds a minimal big-endian APP1 EXIF block carrying the tag
// whitelist this package extracts. Offsets are relative to the TIFF header;
// values longer than four bytes live in the data area after IFD0.
func exifSegment(orientation int) []byte {
	type entry struct {
		tag  uint16
		typ  uint16
		data []byte
	}
	ascii := func(s string) []byte { return append([]byte(s), 0) }
	rational := func(num, den uint32) []byte { return append(be32(num), be32(den)...) }

	entries := []entry{
		{0x010f, 2, ascii("Canon")},               // Make
		{0x0110, 2, ascii("EOS 5D")},              // Model
		{0x0112, 3, be16(uint16(orientation))},    // Orientation
		{0x0132, 2, ascii("2016:05:12 08:30:01")}, // DateTime
		{0x829a, 5, rational(1, 200)},             // ExposureTime
		{0x8827, 3, be16(100)},                    // ISOSpeedRatings
		{0x9205, 5, rational(7, 2)},               // MaxApertureValue
		{0x920a, 5, rational(50, 1)},              // FocalLength
	}

	ifd := be16(uint16(len(entries)))
	dataOff := 8 + 2 + len(entries)*12 + 4
	var data []byte
	for _, e := range entries {
		count := 1
		if e.typ == 2 {
			count = len(e.data)
		}
		ifd = append(ifd, be16(e.tag)...)
		ifd = append(ifd, be16(e.typ)...)
		ifd = append(ifd, be32(uint32(count))...)
		if len(e.data) <= 4 {
			v := append([]byte{}, e.data...)
			for len(v) < 4 {
				v = append(v, 0)
			}
			ifd = append(ifd, v...)
		} else {
			ifd = append(ifd, be32(uint32(dataOff+len(data)))...)
			data = append(data, e.data...)
		}
	}
	ifd = append(ifd, be32(0)...) // no next IFD

	tiff := append([]byte("MM"), be16(0x2a)...)
	tiff = append(tiff, be32(8)...)
	tiff = append(tiff, ifd...)
	tiff = append(tiff, data...)

	payload := append([]byte("Exif\x00\x00"), tiff...)
	seg := append([]byte{0xff, 0xe1}, be16(uint16(len(payload)+2))...)
	return append(seg, payload...)
}

// spliceExif inserts an APP1 EXIF segment right after the SOI marker of an
// existing JPEG.
func spliceExif(t *testing.T, path string, orientation int) {
	t.Helper()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, len(b) > 2 && b[0] == 0xff && b[1] == 0xd8, "fixture is not a JPEG")

	out := append([]byte{}, b[:2]...)
	out = append(out, exifSegment(orientation)...)
	out = append(out, b[2:]...)
	require.NoError(t, os.WriteFile(path, out, 0o644))
}

func testConfig(t *testing.T) *Config {
	t.Helper()

	c := DefaultConfig()
	c.StorageRoot = t.TempDir()
	c.TempDir = t.TempDir()
	return c
}
