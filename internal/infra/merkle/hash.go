package merkle

import "crypto/sha256"

// HashSize is the digest size of every leaf and node hash.
const HashSize = sha256.Size

// HashLeaf hashes one tile's raw bytes into a leaf. The digest is taken over
// the bytes directly, with no prefix or length framing: tile byte layout is
// fixed by the tiler, so identical tiles always produce identical leaves.
func HashLeaf(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// HashNodes combines two child hashes into their parent. Concatenation order
// is significant: swapping children changes the parent, which is what makes
// proof paths carry a left/right orientation per level.
func HashNodes(left, right []byte) []byte {
	h := sha256.New()
	h.Write(left)
	h.Write(right)
	return h.Sum(nil)
}
