package oid

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

type Kind uint8

const (
	SHA1 Kind = iota + 1
	SHA256
)

const maxSize = 32

// Size is the length of the raw digest in bytes.
func (k Kind) Size() int {
	switch k {
	case SHA1:
		return 20
	case SHA256:
		return 32
	}
	return 0
}

func (k Kind) HexLen() int {
	return k.Size() * 2
}

func (k Kind) String() string {
	switch k {
	case SHA1:
		return "sha1"
	case SHA256:
		return "sha256"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func kindForHexLen(n int) (Kind, bool) {
	switch n {
	case SHA1.HexLen():
		return SHA1, true
	case SHA256.HexLen():
		return SHA256, true
	}
	return 0, false
}

type InvalidHexError struct {
	msg string
}

func (e *InvalidHexError) Error() string {
	return e.msg
}

// ObjectId is comparable with == and usable as a map key. Digests
// shorter than 32 bytes are zero padded.
type ObjectId struct {
	kind Kind
	hash [maxSize]byte
}

func Null(kind Kind) ObjectId {
	return ObjectId{kind: kind}
}

func fromBytes(kind Kind, raw []byte) (ObjectId, error) {
	if kind.Size() == 0 || len(raw) != kind.Size() {
		return ObjectId{}, &InvalidHexError{
			msg: fmt.Sprintf("%d bytes is not a valid %s digest", len(raw), kind),
		}
	}
	id := ObjectId{kind: kind}
	copy(id.hash[:], raw)
	return id, nil
}

func FromHex(s string) (ObjectId, error) {
	kind, ok := kindForHexLen(len(s))
	if !ok {
		return ObjectId{}, &InvalidHexError{
			msg: fmt.Sprintf("'%s' has %d characters, want 40 or 64", s, len(s)),
		}
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return ObjectId{}, &InvalidHexError{
			msg: fmt.Sprintf("'%s' is not a hex object id", s),
		}
	}
	return fromBytes(kind, raw)
}

// IsHex reports whether s spells out a complete object id.
func IsHex(s string) bool {
	if _, ok := kindForHexLen(len(s)); !ok {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}

func (id ObjectId) Kind() Kind {
	return id.kind
}

func (id ObjectId) Bytes() []byte {
	return id.hash[:id.kind.Size()]
}

func (id ObjectId) IsNull() bool {
	return id == Null(id.kind)
}

func (id ObjectId) String() string {
	return hex.EncodeToString(id.Bytes())
}

// Compare orders by kind first, then by digest bytes.
func (id ObjectId) Compare(other ObjectId) int {
	if id.kind != other.kind {
		if id.kind < other.kind {
			return -1
		}
		return 1
	}
	return bytes.Compare(id.hash[:], other.hash[:])
}
