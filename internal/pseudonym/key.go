// Package pseudonym derives deterministic, shape-preserving
// replacement text for PII spans. Every pseudonym is a pure function
// of (master secret, document scope, cluster canonical form, mention
// shape, retry salt) so that reruns of the same input with the same
// secret reproduce byte-identical output (spec.md §8 determinism).
package pseudonym

import (
	"crypto/hmac"
	"crypto/sha256"
	"io"
	"strconv"

	"github.com/prismshield/redact/internal/keyzero"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/hkdf"
)

// KeySchedule holds the per-run master key K and derives cluster and
// mention keys from it, per spec.md §4.6:
//
//	K   = HKDF(secret, salt=scope)
//	K_c = HMAC(K, kind || canonical)
//	K_m = HMAC(K_c, shape_signature || retry_salt)
//
// BLAKE3 (github.com/zeebo/blake3) digests the HMAC inputs before the
// keyed step; HMAC itself is crypto/hmac over SHA-256, matching the
// spec's literal HMAC(...) wording while giving every keyed derivation
// a fixed-size, collision-resistant input regardless of how long the
// canonical form or shape signature happens to be.
type KeySchedule struct {
	master []byte
}

// NewKeySchedule derives K from secret and scope via HKDF-SHA256. scope
// is the document hash for per-document key scoping, or a fixed string
// for cross-document scoping (spec.md's `pseudonyms.cross_doc_consistency`).
func NewKeySchedule(secret []byte, scope string) (*KeySchedule, error) {
	r := hkdf.New(sha256.New, secret, []byte(scope), []byte("prismshield-redact/pseudonym/K"))
	k := make([]byte, 32)
	if _, err := io.ReadFull(r, k); err != nil {
		return nil, err
	}
	return &KeySchedule{master: k}, nil
}

// ClusterKey derives K_c for a cluster identified by kind (the
// taxonomy label driving the pseudonym shape rules) and its canonical
// surface form.
func (ks *KeySchedule) ClusterKey(kind, canonical string) []byte {
	return hmacDigest(ks.master, kind+"\x00"+canonical)
}

// MentionKey derives the final per-mention key used to seed a
// generator, from a cluster key, the mention's shape signature, and a
// retry salt (incremented on each Safety Guard rejection).
func MentionKey(clusterKey []byte, shapeSignature string, retrySalt int) []byte {
	return hmacDigest(clusterKey, shapeSignature+"\x00"+strconv.Itoa(retrySalt))
}

// Close zeroes the master key. Callers must not use ks after calling
// Close.
func (ks *KeySchedule) Close() {
	keyzero.Zero(ks.master)
}

// hmacDigest computes HMAC-SHA256(key, blake3(msg)) so the HMAC input
// size is fixed regardless of msg's length.
func hmacDigest(key []byte, msg string) []byte {
	sum := blake3.Sum256([]byte(msg))
	mac := hmac.New(sha256.New, key)
	mac.Write(sum[:])
	return mac.Sum(nil)
}
