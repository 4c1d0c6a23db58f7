package merkle

import "errors"

var (
	ErrEmptyInput      = errors.New("merkle: no leaf hashes")
	ErrInvalidHashLen  = errors.New("merkle: invalid hash length")
	ErrIndexOutOfRange = errors.New("merkle: leaf index out of range")
	ErrPathMismatch    = errors.New("merkle: proof path does not match leaf position")
)

// Tree is an immutable binary hash tree stored as flattened levels.
// levels[0] holds the leaves, levels[len-1] holds exactly the root; parents
// are reached by index arithmetic rather than child pointers.
type Tree struct {
	levels [][][]byte
}

// Build constructs a tree over ordered leaf hashes. Adjacent nodes pair
// left-to-right; a level with an odd count duplicates its final node as its
// own sibling for that level only. A single leaf degenerates to a tree whose
// root is that leaf, with no combination step.
func Build(leaves [][]byte) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, ErrEmptyInput
	}
	level := make([][]byte, len(leaves))
	for i, leaf := range leaves {
		if len(leaf) != HashSize {
			return nil, ErrInvalidHashLen
		}
		level[i] = cloneHash(leaf)
	}

	levels := [][][]byte{level}
	for len(level) > 1 {
		next := make([][]byte, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 < len(level) {
				next = append(next, HashNodes(level[i], level[i+1]))
			} else {
				next = append(next, HashNodes(level[i], level[i]))
			}
		}
		levels = append(levels, next)
		level = next
	}

	return &Tree{levels: levels}, nil
}

// Root returns a copy of the root hash.
func (t *Tree) Root() []byte {
	top := t.levels[len(t.levels)-1]
	return cloneHash(top[0])
}

// LeafCount returns the number of leaves the tree was built over.
func (t *Tree) LeafCount() int {
	return len(t.levels[0])
}

// Leaf returns a copy of the leaf hash at index.
func (t *Tree) Leaf(index int) ([]byte, error) {
	if index < 0 || index >= len(t.levels[0]) {
		return nil, ErrIndexOutOfRange
	}
	return cloneHash(t.levels[0][index]), nil
}

func cloneHash(hash []byte) []byte {
	out := make([]byte, len(hash))
	copy(out, hash)
	return out
}
