// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package shabal256

import (
	"encoding/binary"
)

const (
	// Size is the size of a full Shabal-256 digest in bytes.
	Size = 32

	// BlockSize is the underlying message block size in bytes.  All data
	// passed to Sum must be a multiple of this size.
	BlockSize = 64
)

// Initial state vectors for the 256-bit variant.
var (
	aInit = [12]uint32{
		0x52F84552, 0xE54B7999, 0x2D8EE3EC, 0xB9645191, 0xE0078B86,
		0xBB7C44C9, 0xD2B5C1CA, 0xB0D2EB8C, 0x14CE5A45, 0x22AF50DC,
		0xEFFDBC6B, 0xEB21B74A,
	}

	bInit = [16]uint32{
		0xB555C6EE, 0x3E710596, 0xA72A652F, 0x9301515F, 0xDA28C1FA,
		0x696FD868, 0x9CB6BF72, 0x0AFE4002, 0xA6E03615, 0x5138C1D4,
		0xBE216306, 0xB38B8890, 0x3EA8B96B, 0x3299ACE4, 0x30924DD4,
		0x55CB34A5,
	}

	cInit = [16]uint32{
		0xB405F031, 0xC4233EBA, 0xB3733979, 0xC0DD9D55, 0xC51C28AE,
		0xA327B8E1, 0x56C56167, 0xED614433, 0x88B59D60, 0x60E2CEBA,
		0x758B4B8B, 0x83E82A7F, 0xBC968828, 0xE6E00BF7, 0xBA839E55,
		0x9B491C60,
	}
)

// state houses the intermediate state of the hash.  The counter W starts at
// one and covers the first compressed block.
type state struct {
	a     [12]uint32
	b     [16]uint32
	c     [16]uint32
	wLow  uint32
	wHigh uint32
}

// newState returns a hash state initialized with the standard Shabal-256
// initialization vectors.
func newState() state {
	return state{a: aInit, b: bInit, c: cInit, wLow: 1}
}

// permElt performs a single step of the keyed permutation.  It updates one
// word of A and one word of B in place.
func permElt(a *[12]uint32, b *[16]uint32, xa0, xa1, xb0, xb1, xb2, xb3 int, xc, xm uint32) {
	t := a[xa1]
	a[xa0] = (a[xa0]^(((t<<15)|(t>>17))*5)^xc)*3 ^ b[xb1] ^ (b[xb2] &^ b[xb3]) ^ xm
	u := b[xb0]
	b[xb0] = ^(((u << 1) | (u >> 31)) ^ a[xa0])
}

// perm runs the three passes of the 16-step permutation round (48 steps
// total) with the indexing pattern required by the specification.
func perm(a *[12]uint32, b *[16]uint32, c *[16]uint32, m *[16]uint32) {
	permElt(a, b, 0, 11, 0, 13, 9, 6, c[8], m[0])
	permElt(a, b, 1, 0, 1, 14, 10, 7, c[7], m[1])
	permElt(a, b, 2, 1, 2, 15, 11, 8, c[6], m[2])
	permElt(a, b, 3, 2, 3, 0, 12, 9, c[5], m[3])
	permElt(a, b, 4, 3, 4, 1, 13, 10, c[4], m[4])
	permElt(a, b, 5, 4, 5, 2, 14, 11, c[3], m[5])
	permElt(a, b, 6, 5, 6, 3, 15, 12, c[2], m[6])
	permElt(a, b, 7, 6, 7, 4, 0, 13, c[1], m[7])
	permElt(a, b, 8, 7, 8, 5, 1, 14, c[0], m[8])
	permElt(a, b, 9, 8, 9, 6, 2, 15, c[15], m[9])
	permElt(a, b, 10, 9, 10, 7, 3, 0, c[14], m[10])
	permElt(a, b, 11, 10, 11, 8, 4, 1, c[13], m[11])
	permElt(a, b, 0, 11, 12, 9, 5, 2, c[12], m[12])
	permElt(a, b, 1, 0, 13, 10, 6, 3, c[11], m[13])
	permElt(a, b, 2, 1, 14, 11, 7, 4, c[10], m[14])
	permElt(a, b, 3, 2, 15, 12, 8, 5, c[9], m[15])

	permElt(a, b, 4, 3, 0, 13, 9, 6, c[8], m[0])
	permElt(a, b, 5, 4, 1, 14, 10, 7, c[7], m[1])
	permElt(a, b, 6, 5, 2, 15, 11, 8, c[6], m[2])
	permElt(a, b, 7, 6, 3, 0, 12, 9, c[5], m[3])
	permElt(a, b, 8, 7, 4, 1, 13, 10, c[4], m[4])
	permElt(a, b, 9, 8, 5, 2, 14, 11, c[3], m[5])
	permElt(a, b, 10, 9, 6, 3, 15, 12, c[2], m[6])
	permElt(a, b, 11, 10, 7, 4, 0, 13, c[1], m[7])
	permElt(a, b, 0, 11, 8, 5, 1, 14, c[0], m[8])
	permElt(a, b, 1, 0, 9, 6, 2, 15, c[15], m[9])
	permElt(a, b, 2, 1, 10, 7, 3, 0, c[14], m[10])
	permElt(a, b, 3, 2, 11, 8, 4, 1, c[13], m[11])
	permElt(a, b, 4, 3, 12, 9, 5, 2, c[12], m[12])
	permElt(a, b, 5, 4, 13, 10, 6, 3, c[11], m[13])
	permElt(a, b, 6, 5, 14, 11, 7, 4, c[10], m[14])
	permElt(a, b, 7, 6, 15, 12, 8, 5, c[9], m[15])

	permElt(a, b, 8, 7, 0, 13, 9, 6, c[8], m[0])
	permElt(a, b, 9, 8, 1, 14, 10, 7, c[7], m[1])
	permElt(a, b, 10, 9, 2, 15, 11, 8, c[6], m[2])
	permElt(a, b, 11, 10, 3, 0, 12, 9, c[5], m[3])
	permElt(a, b, 0, 11, 4, 1, 13, 10, c[4], m[4])
	permElt(a, b, 1, 0, 5, 2, 14, 11, c[3], m[5])
	permElt(a, b, 2, 1, 6, 3, 15, 12, c[2], m[6])
	permElt(a, b, 3, 2, 7, 4, 0, 13, c[1], m[7])
	permElt(a, b, 4, 3, 8, 5, 1, 14, c[0], m[8])
	permElt(a, b, 5, 4, 9, 6, 2, 15, c[15], m[9])
	permElt(a, b, 6, 5, 10, 7, 3, 0, c[14], m[10])
	permElt(a, b, 7, 6, 11, 8, 4, 1, c[13], m[11])
	permElt(a, b, 8, 7, 12, 9, 5, 2, c[12], m[12])
	permElt(a, b, 9, 8, 13, 10, 6, 3, c[11], m[13])
	permElt(a, b, 10, 9, 14, 11, 7, 4, c[10], m[14])
	permElt(a, b, 11, 10, 15, 12, 8, 5, c[9], m[15])
}

// applyP rotates B, runs the permutation over the message block, and folds
// the fixed C feedback sums back into A.
func (s *state) applyP(m *[16]uint32) {
	for i := range s.b {
		s.b[i] = s.b[i]<<17 | s.b[i]>>15
	}
	perm(&s.a, &s.b, &s.c, m)
	s.a[0] += s.c[11] + s.c[15] + s.c[3]
	s.a[1] += s.c[12] + s.c[0] + s.c[4]
	s.a[2] += s.c[13] + s.c[1] + s.c[5]
	s.a[3] += s.c[14] + s.c[2] + s.c[6]
	s.a[4] += s.c[15] + s.c[3] + s.c[7]
	s.a[5] += s.c[0] + s.c[4] + s.c[8]
	s.a[6] += s.c[1] + s.c[5] + s.c[9]
	s.a[7] += s.c[2] + s.c[6] + s.c[10]
	s.a[8] += s.c[3] + s.c[7] + s.c[11]
	s.a[9] += s.c[4] + s.c[8] + s.c[12]
	s.a[10] += s.c[5] + s.c[9] + s.c[13]
	s.a[11] += s.c[6] + s.c[10] + s.c[14]
}

// addBlock adds the message block into B component-wise mod 2^32.
func (s *state) addBlock(m *[16]uint32) {
	for i := 0; i < 16; i++ {
		s.b[i] += m[i]
	}
}

// subBlock subtracts the message block from C component-wise mod 2^32.
func (s *state) subBlock(m *[16]uint32) {
	for i := 0; i < 16; i++ {
		s.c[i] -= m[i]
	}
}

func (s *state) xorW() {
	s.a[0] ^= s.wLow
	s.a[1] ^= s.wHigh
}

func (s *state) swapBC() {
	s.b, s.c = s.c, s.b
}

func (s *state) incrW() {
	s.wLow++
	if s.wLow == 0 {
		s.wHigh++
	}
}

// compress runs a full compression of a single non-final message block.
func (s *state) compress(m *[16]uint32) {
	s.addBlock(m)
	s.xorW()
	s.applyP(m)
	s.subBlock(m)
	s.swapBC()
	s.incrW()
}

// finalize compresses the terminator block and runs the three additional
// finalization rounds.  The counter W is not incremented between them.
func (s *state) finalize(term *[16]uint32) [Size]byte {
	s.addBlock(term)
	s.xorW()
	s.applyP(term)
	for i := 0; i < 3; i++ {
		s.swapBC()
		s.xorW()
		s.applyP(term)
	}

	var digest [Size]byte
	for i := 0; i < 8; i++ {
		binary.LittleEndian.PutUint32(digest[i*4:], s.b[8+i])
	}
	return digest
}

// decodeBlock parses 64 bytes into 16 little-endian words.
func decodeBlock(m *[16]uint32, data []byte) {
	_ = data[63]
	for i := 0; i < 16; i++ {
		m[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
}

// Sum returns the Shabal-256 digest of data followed by the optional
// pre-terminator block and the required terminator block.  The length of
// data must be a multiple of BlockSize or the function panics since that
// always indicates a programming error in the caller rather than a runtime
// condition.
//
// The terminator blocks are passed as raw little-endian word arrays because
// the plot format constructs them directly from template material rather
// than from padded byte streams.
func Sum(data []byte, preTerm, term *[16]uint32) [Size]byte {
	if len(data)%BlockSize != 0 {
		panic("shabal256: data length must be a multiple of the block size")
	}

	s := newState()
	var m [16]uint32
	for off := 0; off < len(data); off += BlockSize {
		decodeBlock(&m, data[off:off+BlockSize])
		s.compress(&m)
	}
	if preTerm != nil {
		s.compress(preTerm)
	}
	return s.finalize(term)
}

// SumLite computes the weakened single-word variant used for quality
// evaluation.  It hashes exactly two blocks: the generation signature
// followed by the first half of the scoop, then the second half of the scoop
// padded with the standard 0x80 terminator.  The result is the first
// digest word pair packed as a little-endian uint64.
func SumLite(scoop *[64]byte, gensig *[32]byte) uint64 {
	var data [BlockSize]byte
	copy(data[:32], gensig[:])
	copy(data[32:], scoop[:32])

	var term [16]uint32
	for i := 0; i < 8; i++ {
		term[i] = binary.LittleEndian.Uint32(scoop[32+i*4:])
	}
	term[8] = 0x80

	digest := Sum(data[:], nil, &term)
	return binary.LittleEndian.Uint64(digest[:8])
}
