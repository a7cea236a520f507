// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package tables

// Direction is the direction of an edge walk along the pixel grid.
type Direction uint8

const (
	// Backward walks toward decreasing coordinates (left or up).
	Backward Direction = iota

	// Forward walks toward increasing coordinates (right or down).
	Forward
)

// String returns the direction name.
func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}
	return "backward"
}

// SearchKeys is the number of local patterns per direction.
const SearchKeys = 16

// Search keys pack four bits of the two pixels ahead of the walk, always in
// increasing coordinate order so that both directions gather them the same
// way:
//
//	backward at p: bit0 edge(p-2)   bit1 cross(p-1)  bit2 edge(p-1)  bit3 cross(p)
//	forward at p:  bit0 cross(p+1)  bit1 edge(p+1)   bit2 cross(p+2) bit3 edge(p+2)
//
// edge(q) reports that pixel q carries the edge being followed and cross(q)
// that a crossing edge lies on the boundary q shares with its predecessor.

// BackwardKey packs the local pattern for a backward step.
func BackwardKey(edge2, cross1, edge1, cross0 bool) uint8 {
	return pack(edge2, cross1, edge1, cross0)
}

// ForwardKey packs the local pattern for a forward step.
func ForwardKey(cross1, edge1, cross2, edge2 bool) uint8 {
	return pack(cross1, edge1, cross2, edge2)
}

func pack(b0, b1, b2, b3 bool) uint8 {
	var k uint8
	if b0 {
		k |= 1
	}
	if b1 {
		k |= 2
	}
	if b2 {
		k |= 4
	}
	if b3 {
		k |= 8
	}
	return k
}

// searchAdvance computes how many of the two probed pixels extend the run.
func searchAdvance(dir Direction, key uint8) uint8 {
	bit := func(n uint) bool { return key&(1<<n) != 0 }

	var crossNow, edgeNext, crossNext, edgeAfter bool
	if dir == Backward {
		edgeAfter, crossNext, edgeNext, crossNow = bit(0), bit(1), bit(2), bit(3)
	} else {
		crossNow, edgeNext, crossNext, edgeAfter = bit(0), bit(1), bit(2), bit(3)
	}

	switch {
	case crossNow || !edgeNext:
		return 0
	case crossNext || !edgeAfter:
		return 1
	default:
		return 2
	}
}

func buildSearch() [2][SearchKeys]uint8 {
	var t [2][SearchKeys]uint8
	for dir := Backward; dir <= Forward; dir++ {
		for k := range SearchKeys {
			t[dir][k] = searchAdvance(dir, uint8(k))
		}
	}
	return t
}
