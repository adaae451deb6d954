// Package hasher fingerprints shim content so update can skip no-op
// rewrites.
package hasher

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the SHA256 of content in the form "sha256:<hex>", the
// format recorded in the state file.
func Sum(content []byte) string {
	h := sha256.Sum256(content)
	return "sha256:" + hex.EncodeToString(h[:])
}
