package service

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"

	"github.com/OpenNSW/tariff/internal/tariff/model"
)

// JournalDigest is the SHA-256 hex digest of the RFC 8785 canonical form of
// both journals. Amounts are serialized as decimal strings, so equal
// computations always hash the same.
func JournalDigest(normal, preferential model.Journal) (string, error) {
	raw, err := json.Marshal([]model.Journal{normal, preferential})
	if err != nil {
		return "", fmt.Errorf("failed to encode journals: %w", err)
	}
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize journals: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
