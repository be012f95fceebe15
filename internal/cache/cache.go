package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/vgauthier/recevo/internal/model"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key for one analysis: the claim text plus the
// caller metadata, since either changes the outcome
func Key(text string, meta model.ClaimMetadata) string {
	h := sha256.New()
	h.Write([]byte(text))
	h.Write([]byte{0})
	h.Write([]byte(meta.CanonicalString()))
	return "recevo:v1:" + hex.EncodeToString(h.Sum(nil))
}
