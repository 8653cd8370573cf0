package photark

import (
	"crypto/md5"
	"encoding/hex"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const idLength = 14

// GenerateID derives a 14-digit record id from a high-resolution timestamp,
// right-padded with zeros. The effective resolution is 100µs: two calls
// closer together than that may collide, so callers needing global
// uniqueness across rapid parallel invocations must not rely on this alone.
func GenerateID(now time.Time) string {
	s := strconv.FormatInt(now.UnixMicro(), 10)
	if len(s) > idLength {
		s = s[:idLength]
	}
	for len(s) < idLength {
		s += "0"
	}
	return s
}

// DeriveURLs computes the storage filenames for a record: an md5 of the id
// (not of file bytes; obfuscation only, never integrity) plus the
// lower-cased original extension, and the same name with an "@2x" infix.
func DeriveURLs(id string, originalName string) (url string, thumb2xURL string) {
	sum := md5.Sum([]byte(id))
	crypted := hex.EncodeToString(sum[:])
	ext := strings.ToLower(filepath.Ext(originalName))
	return crypted + ext, crypted + "@2x" + ext
}
