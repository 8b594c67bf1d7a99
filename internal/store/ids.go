package store

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

const taskIDPrefix = "task"

// newRandomID returns prefix-<suffix> where suffix is 8 chars of base32 (lowercase, no padding).
// 8 chars base32 ~= 40 bits of space, plenty for one person's day lists.
func newRandomID(prefix string) (string, error) {
	var b [5]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(b[:]))
	return prefix + "-" + suffix, nil
}

// IsTaskID reports whether s looks like a generated task id.
func IsTaskID(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, taskIDPrefix+"-") && len(s) > len(taskIDPrefix)+1
}
