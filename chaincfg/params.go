// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2015-2023 The Decred developers
// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// CurrencyNet represents which network a message belongs to.
type CurrencyNet uint32

// Constants used to indicate the network.
const (
	// MainNet represents the main pocx network.
	MainNet CurrencyNet = 0xd9b4bfa1

	// TestNet represents the public test network.
	TestNet CurrencyNet = 0xd9b4bfb2

	// RegNet represents the regression test network.
	RegNet CurrencyNet = 0xd9b4bfc3
)

// Params defines a pocx network by its parameters.  These parameters may be
// used by pocx applications to differentiate networks as well as addresses
// and keys for one network from those intended for use on another network.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// Net defines the magic bytes used to identify the network.
	Net CurrencyNet

	// DefaultRPCPort defines the default port the JSON-RPC server listens
	// on for the network.
	DefaultRPCPort string

	// AddressHRP is the human-readable prefix bech32 addresses carry on
	// the network.
	AddressHRP string

	// GenesisHash is the hash of the genesis block for the network.
	GenesisHash chainhash.Hash

	// GenesisGenerationSignature seeds the generation signature schedule.
	// The signature of block 1 is derived from it and the zero account.
	GenesisGenerationSignature chainhash.Hash

	// GenesisTimestamp is the timestamp of the genesis block.
	GenesisTimestamp int64

	// TargetTimePerBlock is the desired amount of time between blocks.
	// The base target schedule retargets toward this spacing.
	TargetTimePerBlock time.Duration

	// DiffWindowSize is the number of blocks in the rolling window the
	// base target adjustment averages over.
	DiffWindowSize int64

	// LowCapacityCalibration calibrates the genesis base target for tiny
	// plots (2^60 numerator instead of 2^42) so development networks can
	// mine without terabytes of plotted storage.
	LowCapacityCalibration bool

	// SubsidyHalvingInterval is the number of blocks between subsidy
	// halvings.  One halving interval corresponds to four years of chain
	// time and anchors the compression bound schedule.
	SubsidyHalvingInterval int64

	// AssignmentDelay is the number of blocks between the confirmation of
	// a forging assignment (or revocation) and the height it takes
	// effect.
	AssignmentDelay int64
}

// TargetSpacingSeconds returns the target time per block in seconds.
func (p *Params) TargetSpacingSeconds() int64 {
	return int64(p.TargetTimePerBlock / time.Second)
}

// mustHashFromStr converts the passed big-endian hex string into a
// chainhash.Hash and will panic if there is an error.  It only differs from
// the one available in chainhash in that it will panic so errors in the
// source code can be detected.  It will only (and must only) be called with
// hard-coded, and therefore known good, hashes.
func mustHashFromStr(hexStr string) chainhash.Hash {
	hash, err := chainhash.NewHashFromStr(hexStr)
	if err != nil {
		panic(err)
	}
	return *hash
}
