package project

import (
	"crypto/sha256"
	"encoding/binary"
)

// Digest is a SHA-256 sum, the same shape as source.File.Hash.
type Digest [32]byte

// Combine hashes content followed by deps in the given order.
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for i := range deps {
		_, _ = h.Write(deps[i][:])
	}
	return Digest(h.Sum(nil))
}

// Salt folds small integer options (limits, schema versions) into a Digest.
func Salt(values ...int) Digest {
	buf := make([]byte, 0, 8*len(values))
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(v))
	}
	return sha256.Sum256(buf)
}

// Digest covers every file path and content hash in discovery order, so
// renaming an import changes it as well as editing one.
func (g *ImportGraph) Digest() Digest {
	h := sha256.New()
	for _, node := range g.Files {
		f := g.FileSet.Get(node.ID)
		if f == nil {
			continue
		}
		_, _ = h.Write([]byte(f.Path))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write(f.Hash[:])
	}
	return Digest(h.Sum(nil))
}
