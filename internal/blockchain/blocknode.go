// Copyright (c) 2015-2023 The Decred developers
// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"github.com/decred/dcrd/chaincfg/chainhash"

	"github.com/pocx-project/pocxd/blockchain/standalone"
)

// blockNode represents a block within the block chain and is primarily used
// to aid in selecting the best chain to be the main chain.  The main chain
// is stored into the block database.
type blockNode struct {
	// parent is the parent block for this node.
	parent *blockNode

	// hash is the hash of the block this node represents.
	hash chainhash.Hash

	// Some fields from the block header to aid in consensus decisions.
	height     int64
	timestamp  int64
	baseTarget uint64
	genSig     chainhash.Hash

	// accountID and quality come from the proof of capacity: the winner
	// account feeds the generation signature schedule and the quality
	// decides same-height tie-breaks.
	accountID [20]byte
	quality   uint64
}

// Height returns the height of the block.
//
// This function is part of the standalone.BlockContext interface.
func (node *blockNode) Height() int64 {
	return node.height
}

// Timestamp returns the block time in Unix seconds.
//
// This function is part of the standalone.BlockContext interface.
func (node *blockNode) Timestamp() int64 {
	return node.timestamp
}

// BaseTarget returns the base target the block was forged at.
//
// This function is part of the standalone.BlockContext interface.
func (node *blockNode) BaseTarget() uint64 {
	return node.baseTarget
}

// Parent returns the context of the previous block or nil for the genesis
// block.
//
// This function is part of the standalone.BlockContext interface.
func (node *blockNode) Parent() standalone.BlockContext {
	if node.parent == nil {
		return nil
	}
	return node.parent
}
