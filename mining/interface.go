// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/pocx-project/pocxd/wire"
)

// ChainContext is a snapshot of everything the scheduler needs to know
// about the chain tip and the block that would extend it.
type ChainContext struct {
	// NextHeight, NextGenSig and NextBaseTarget describe the block that
	// would extend the current tip.
	NextHeight     int64
	NextGenSig     chainhash.Hash
	NextBaseTarget uint64

	// TipHash and TipPrevHash identify the current tip and its parent.
	TipHash     chainhash.Hash
	TipPrevHash chainhash.Hash

	// TipTime is the timestamp of the current tip in Unix seconds.  Forge
	// times are anchored to it.
	TipTime int64

	// TipQuality is the proof quality recorded in the current tip, used
	// by the defensive forging check.
	TipQuality uint64
}

// ChainSource provides access to chain state.  All methods must be safe for
// concurrent access and must only perform short, bounded reads.
type ChainSource interface {
	// BestContext returns a consistent snapshot for the current tip.
	BestContext() (*ChainContext, error)
}

// TemplateSource produces block templates ready to receive a proof of
// capacity and a signature.  The coinbase of the returned block pays to the
// provided script.
type TemplateSource interface {
	NewBlockTemplate(payoutScript []byte) (*wire.MsgBlock, error)
}

// BlockSubmitter accepts fully signed blocks for validation and relay.  It
// typically runs the block through the same rules as any block arriving
// from the network.
type BlockSubmitter interface {
	SubmitBlock(block *wire.MsgBlock) error
}

// KeyStore provides the signing capability of the wallet without exposing
// private key material to the mining code.
type KeyStore interface {
	// PubKey returns the compressed public key whose account identifier
	// equals the provided one, or an error when the store does not hold
	// it or is locked.
	PubKey(account [20]byte) (*secp256k1.PublicKey, error)

	// SignCompact produces a 65-byte recoverable compact signature over
	// the provided digest with the key of the provided account.
	SignCompact(digest *chainhash.Hash, account [20]byte) ([]byte, error)
}
