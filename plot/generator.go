// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package plot

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	"github.com/pocx-project/pocxd/crypto/shabal256"
)

const (
	// HashSize is the size of a single Shabal-256 digest in bytes.
	HashSize = 32

	// HashCap is the maximum number of trailing bytes included in the
	// hash chain once the dense fill region has been produced.
	HashCap = 4096

	// NumScoops is the number of scoops per nonce.
	NumScoops = 4096

	// ScoopSize is the size of a single scoop in bytes.
	ScoopSize = 64

	// NonceSize is the total size of a single generated nonce in bytes.
	NonceSize = NumScoops * ScoopSize

	// AccountIDSize is the size of an account identifier in bytes.
	AccountIDSize = 20

	// SeedSize is the size of a plot seed in bytes.
	SeedSize = 32
)

// nonceWords encodes the nonce counter as 8 big-endian bytes split across
// two little-endian words, matching the template slot layout.
func nonceWords(nonce uint64) (uint32, uint32) {
	be := bits.ReverseBytes64(nonce)
	return uint32(be >> 32), uint32(be)
}

// templates holds the three fixed terminator blocks plus the rolling
// pre-terminator block used while filling a nonce.  t1 carries the full
// seed/account material, t2 the account tail for split blocks, and t3 the
// plain 0x80 terminator for the capped region.
type templates struct {
	t1  [16]uint32
	t2  [16]uint32
	pt2 [16]uint32
	t3  [16]uint32
}

// newTemplates initializes the terminator blocks from the account and seed
// material.  The nonce slots of t1/t2 are filled per generated nonce.
func newTemplates(accountID *[AccountIDSize]byte, seed *[SeedSize]byte) templates {
	var seedWords [8]uint32
	for i := range seedWords {
		seedWords[i] = binary.LittleEndian.Uint32(seed[i*4:])
	}
	var accountWords [5]uint32
	for i := range accountWords {
		accountWords[i] = binary.LittleEndian.Uint32(accountID[i*4:])
	}

	var t templates
	copy(t.t1[0:8], seedWords[:])
	copy(t.t1[8:13], accountWords[:])
	t.t1[15] = 0x80

	copy(t.t2[0:5], accountWords[:])
	t.t2[7] = 0x80

	copy(t.pt2[8:16], seedWords[:])

	t.t3[0] = 0x80
	return t
}

// setNonce places the nonce counter into the fixed slots of t1 and t2.
func (t *templates) setNonce(nonce uint64) {
	w0, w1 := nonceWords(nonce)
	t.t1[13] = w1
	t.t1[14] = w0
	t.t2[5] = w1
	t.t2[6] = w0
}

// generateNonceBuffer produces the raw (pre-shuffle) 256 KiB buffer for a
// single nonce.
func generateNonceBuffer(buf *[NonceSize]byte, t *templates, nonce uint64) {
	t.setNonce(nonce)

	// Seed hash at the tail of the buffer.
	hash := shabal256.Sum(nil, nil, &t.t1)
	copy(buf[NonceSize-HashSize:], hash[:])
	for i := 0; i < 8; i++ {
		t.pt2[i] = binary.LittleEndian.Uint32(hash[i*4:])
	}

	// Dense fill: each new hash covers the whole suffix.  Suffixes that end
	// on a half block carry the tail bytes in the pre-terminator instead.
	for i := NonceSize - HashSize; i >= NonceSize-HashCap+HashSize; i -= HashSize {
		if i%shabal256.BlockSize == 0 {
			hash = shabal256.Sum(buf[i:], nil, &t.t1)
		} else {
			hash = shabal256.Sum(buf[i:NonceSize-HashSize], &t.pt2, &t.t2)
		}
		copy(buf[i-HashSize:i], hash[:])
	}

	// Capped fill: only the next HashCap bytes participate.
	for i := NonceSize - HashCap; i >= HashSize; i -= HashSize {
		hash = shabal256.Sum(buf[i:i+HashCap], nil, &t.t3)
		copy(buf[i-HashSize:i], hash[:])
	}

	// Whiten the whole buffer with the final hash.
	final := shabal256.Sum(buf[:], nil, &t.t1)
	for i := 0; i < NonceSize; i++ {
		buf[i] ^= final[i%HashSize]
	}
}

// scatterNonce distributes a raw nonce buffer into the interleaved cache
// layout where scoop pair (i, 4095-i) is adjacent.  nonceIndex selects the
// slot within the cache and must be less than the cache nonce count.
func scatterNonce(cache []byte, buf *[NonceSize]byte, nonceIndex uint64) {
	nonceCount := uint64(len(cache)) / NonceSize
	for h := uint64(0); h < NumScoops*2; h++ {
		scoop := (h&1)*(NumScoops-1-(h>>1)) + ((h+1)&1)*(h>>1)
		dest := scoop*ScoopSize*nonceCount +
			nonceIndex*ScoopSize +
			(h&1)*32
		src := h * 32
		copy(cache[dest:dest+32], buf[src:src+32])
	}
}

// GenerateNonces writes count nonces derived from the account identifier and
// seed into cache, beginning at the given nonce slot offset.  The cache must
// be a multiple of NonceSize bytes and large enough to hold offset+count
// nonces; the generated nonces are interleaved across the whole cache so the
// resulting byte layout depends on the total cache size.
//
// The function is pure: the same inputs always produce the same bytes.
func GenerateNonces(cache []byte, offset uint64, accountID *[AccountIDSize]byte,
	seed *[SeedSize]byte, startNonce, count uint64) error {

	if len(cache)%NonceSize != 0 {
		str := fmt.Sprintf("cache size %d is not a multiple of the nonce "+
			"size %d", len(cache), NonceSize)
		return makeError(ErrShortBuffer, str)
	}
	nonceCount := uint64(len(cache)) / NonceSize
	if offset >= nonceCount {
		str := fmt.Sprintf("cache offset %d exceeds cache capacity of %d "+
			"nonces", offset, nonceCount)
		return makeError(ErrInvalidOffset, str)
	}
	if offset+count > nonceCount {
		str := fmt.Sprintf("cache holds %d nonces which is too small for "+
			"%d nonces at offset %d", nonceCount, count, offset)
		return makeError(ErrShortBuffer, str)
	}

	t := newTemplates(accountID, seed)
	var buf [NonceSize]byte
	for n := uint64(0); n < count; n++ {
		generateNonceBuffer(&buf, &t, startNonce+n)
		scatterNonce(cache, &buf, offset+n)
	}
	return nil
}
