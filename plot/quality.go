// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package plot

import (
	"encoding/binary"
	"fmt"

	"github.com/pocx-project/pocxd/crypto/shabal256"
)

const (
	// MinCompression and MaxCompression bound the compression levels the
	// scoop synthesis supports.
	MinCompression = 1
	MaxCompression = 6
)

// CalculateScoop derives the scoop index to read for the given block height
// and generation signature.  The result is always in [0, NumScoops).
func CalculateScoop(height uint64, gensig *[32]byte) uint32 {
	var data [shabal256.BlockSize]byte
	copy(data[:32], gensig[:])
	binary.BigEndian.PutUint64(data[32:], height)
	data[40] = 0x80

	var term [16]uint32
	for i := range term {
		term[i] = binary.LittleEndian.Uint32(data[i*4:])
	}

	hash := shabal256.Sum(nil, nil, &term)
	return uint32(hash[30]&0x0f)<<8 | uint32(hash[31])
}

// GenerateScoop synthesizes the uncompressed scoop data for the given nonce
// at the given compression level.  The result is the XOR of 2^compression
// single-nonce scoops with alternating scoop/nonce-in-warp swapping, which
// is what binds compressed plots to the same quality distribution as their
// uncompressed counterparts.
func GenerateScoop(accountID *[AccountIDSize]byte, seed *[SeedSize]byte,
	scoop uint32, nonce uint64, compression uint32) ([ScoopSize]byte, error) {

	var result [ScoopSize]byte
	if scoop >= NumScoops {
		str := fmt.Sprintf("scoop %d is not in [0, %d)", scoop, NumScoops)
		return result, makeError(ErrScoopOutOfRange, str)
	}
	if compression < MinCompression || compression > MaxCompression {
		str := fmt.Sprintf("compression %d is not in [%d, %d]", compression,
			MinCompression, MaxCompression)
		return result, makeError(ErrCompressionOutOfRange, str)
	}

	warp := nonce / NumScoops
	nonceInWarp := nonce % NumScoops
	numNonces := uint64(1) << compression

	t := newTemplates(accountID, seed)
	var buf [NonceSize]byte
	for i := uint64(0); i < numNonces; i++ {
		scoopX, nonceInWarpX := uint64(scoop), nonceInWarp
		if i%2 != 0 {
			scoopX, nonceInWarpX = nonceInWarpX, scoopX
		}

		warpX := numNonces*warp + i
		nonceX := warpX*NumScoops + nonceInWarpX

		generateNonceBuffer(&buf, &t, nonceX)

		// The raw buffer keeps scoop s split across the two 32-byte
		// halves at half positions 2s and 8191-2s (see scatterNonce).
		lo := scoopX * ScoopSize
		hi := (NumScoops*2 - 1 - scoopX*2) * 32
		for j := uint64(0); j < 32; j++ {
			result[j] ^= buf[lo+j]
			result[32+j] ^= buf[hi+j]
		}
	}
	return result, nil
}

// CalculateQuality evaluates the 64-bit quality of a candidate nonce for the
// given block height and generation signature.  Lower is better.
func CalculateQuality(accountID *[AccountIDSize]byte, seed *[SeedSize]byte,
	nonce uint64, compression uint32, height uint64,
	gensig *[32]byte) (uint64, error) {

	scoop := CalculateScoop(height, gensig)
	scoopData, err := GenerateScoop(accountID, seed, scoop, nonce, compression)
	if err != nil {
		return 0, err
	}
	return shabal256.SumLite(&scoopData, gensig), nil
}
