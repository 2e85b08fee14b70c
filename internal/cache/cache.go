package cache

import "time"

// Cache stores serialized extraction results keyed by source digest.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key namespaces a source file digest. The digest is already a sha256 hex
// string computed from the PDF bytes, so two copies of the same file share
// an entry regardless of filename.
func Key(sourceSHA256 string) string {
	return "proctrim:v1:" + sourceSHA256
}
