package util

import (
	"crypto/md5"
	"encoding/hex"
)

// ShortMD5Hex returns the first n hex characters of the MD5 digest of s.
func ShortMD5Hex(s string, n int) string {
	x := md5.Sum([]byte(s))
	out := hex.EncodeToString(x[:])
	if n <= 0 || n >= len(out) {
		return out
	}
	return out[:n]
}
