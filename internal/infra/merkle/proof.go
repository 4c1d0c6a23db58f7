package merkle

import "bytes"

// Step is one level of an inclusion proof. Right reports whether the sibling
// sits to the subject's right when recombining.
type Step struct {
	Sibling []byte
	Right   bool
}

// Prove derives the sibling path from the leaf at index up to the root. On a
// level where the subject is the duplicated last node, the recorded sibling
// is the subject's own hash, mirroring Build exactly; a path generated any
// other way would not re-derive the committed root.
func (t *Tree) Prove(index int) ([]Step, error) {
	if index < 0 || index >= len(t.levels[0]) {
		return nil, ErrIndexOutOfRange
	}

	path := make([]Step, 0, len(t.levels)-1)
	pos := index
	for _, level := range t.levels[:len(t.levels)-1] {
		sibling := pos ^ 1
		if sibling >= len(level) {
			sibling = pos
		}
		path = append(path, Step{
			Sibling: cloneHash(level[sibling]),
			Right:   pos%2 == 0,
		})
		pos /= 2
	}
	return path, nil
}

// RootAtIndex recombines a leaf hash with a sibling path and returns the
// candidate root. The walk replays Build's level geometry for a tree of
// leafCount leaves, so the path must have exactly the depth that geometry
// demands, each step's orientation must match the parity of the node's
// position at that level, and a duplicated last node must carry itself as
// its sibling. A path lifted from a different index, or one that starts at
// an internal node instead of a leaf, fails here regardless of which root
// it would recombine to. The caller compares the returned root against a
// claimed root; this function has no opinion about that comparison.
func RootAtIndex(leaf []byte, index, leafCount int, path []Step) ([]byte, error) {
	if leafCount <= 0 || index < 0 || index >= leafCount {
		return nil, ErrIndexOutOfRange
	}

	current := cloneHash(leaf)
	pos := index
	size := leafCount
	step := 0
	for size > 1 {
		if step >= len(path) {
			return nil, ErrPathMismatch
		}
		s := path[step]
		if s.Right != (pos%2 == 0) {
			return nil, ErrPathMismatch
		}
		if pos^1 >= size && !bytes.Equal(s.Sibling, current) {
			return nil, ErrPathMismatch
		}
		if s.Right {
			current = HashNodes(current, s.Sibling)
		} else {
			current = HashNodes(s.Sibling, current)
		}
		pos /= 2
		size = (size + 1) / 2
		step++
	}
	if step != len(path) {
		return nil, ErrPathMismatch
	}
	return current, nil
}
