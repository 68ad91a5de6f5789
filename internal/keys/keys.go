// Package keys derives the storage keys used by the link stores.
//
// Three record types share one namespace prefix:
//
//	<prefix>counter            global identifier counter
//	<prefix>url:<sha256 hex>   reverse index, long URL digest -> hash
//	<prefix>hash:<hash>        forward record {url, hash, clicks}
package keys

import (
	"crypto/sha256"
	"encoding/hex"
)

// DefaultPrefix keeps link keys apart from unrelated data in the same store.
const DefaultPrefix = "ius:"

type Namespace struct {
	Prefix string
}

// New returns a Namespace, falling back to DefaultPrefix when prefix is empty.
func New(prefix string) Namespace {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return Namespace{Prefix: prefix}
}

func (n Namespace) CounterKey() string {
	return n.Prefix + "counter"
}

func (n Namespace) URLKey(longURL string) string {
	return n.Prefix + "url:" + URLDigest(longURL)
}

func (n Namespace) HashKey(hash string) string {
	return n.Prefix + "hash:" + hash
}

// HashPattern matches every forward record key, for SCAN.
func (n Namespace) HashPattern() string {
	return n.Prefix + "hash:*"
}

// URLDigest is the fixed-length hex SHA-256 of longURL.
func URLDigest(longURL string) string {
	sum := sha256.Sum256([]byte(longURL))
	return hex.EncodeToString(sum[:])
}
