// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"fmt"

	"github.com/pocx-project/pocxd/assignment"
	"github.com/pocx-project/pocxd/blockchain/standalone"
	"github.com/pocx-project/pocxd/chaincfg"
	"github.com/pocx-project/pocxd/pocxutil"
	"github.com/pocx-project/pocxd/wire"
)

// AssemblerConfig is a descriptor containing the block assembler
// configuration.
type AssemblerConfig struct {
	// ChainParams identifies the network the assembler builds blocks
	// for.
	ChainParams *chaincfg.Params

	// Templates produces the block templates the proofs are grafted
	// onto.
	Templates TemplateSource

	// Assignments resolves the effective signer for a plot.
	Assignments assignment.View

	// KeyStore signs the assembled blocks.
	KeyStore KeyStore
}

// BlockAssembler builds and signs blocks for validated forging candidates.
type BlockAssembler struct {
	cfg AssemblerConfig
}

// NewBlockAssembler returns a block assembler for the provided
// configuration.
func NewBlockAssembler(cfg *AssemblerConfig) *BlockAssembler {
	return &BlockAssembler{cfg: *cfg}
}

// BuildBlock assembles and signs a block carrying the provided proof
// material.  The coinbase pays the effective signer of the plot, the merkle
// root is recomputed over the template transactions after the proof is
// filled in, and the signature commits to the final block hash.
func (a *BlockAssembler) BuildBlock(accountID [20]byte, seed [32]byte,
	nonce, quality uint64, compression uint32, height int64) (*wire.MsgBlock, error) {

	signer, err := assignment.EffectiveSigner(a.cfg.Assignments, accountID,
		height)
	if err != nil {
		str := fmt.Sprintf("unable to resolve effective signer for plot "+
			"%x: %v", accountID, err)
		return nil, makeError(ErrNoTemplate, str)
	}

	payoutScript := pocxutil.NewAddress(a.cfg.ChainParams.AddressHRP,
		signer).PaymentScript()
	block, err := a.cfg.Templates.NewBlockTemplate(payoutScript)
	if err != nil {
		str := fmt.Sprintf("unable to create block template: %v", err)
		return nil, makeError(ErrNoTemplate, str)
	}

	block.Header.Proof = wire.PoCProof{
		Seed:        seed,
		AccountID:   accountID,
		Compression: compression,
		Nonce:       nonce,
		Quality:     quality,
	}
	block.Header.MerkleRoot = standalone.CalcMerkleRootInPlace(block.TxHashes())

	pubKey, err := a.cfg.KeyStore.PubKey(signer)
	if err != nil {
		str := fmt.Sprintf("no usable key for effective signer %x: %v",
			signer, err)
		return nil, makeError(ErrSigningFailed, str)
	}
	copy(block.Header.PubKey[:], pubKey.SerializeCompressed())

	blockHash := block.BlockHash()
	signingHash := standalone.BlockSigningHash(&blockHash)
	sig, err := a.cfg.KeyStore.SignCompact(&signingHash, signer)
	if err != nil {
		str := fmt.Sprintf("unable to sign block %v for signer %x: %v",
			blockHash, signer, err)
		return nil, makeError(ErrSigningFailed, str)
	}
	if len(sig) != len(block.Header.Signature) {
		str := fmt.Sprintf("signature for block %v is %d bytes instead "+
			"of %d", blockHash, len(sig), len(block.Header.Signature))
		return nil, makeError(ErrSigningFailed, str)
	}
	copy(block.Header.Signature[:], sig)

	log.Debugf("Assembled block %v paying %x (height %d, nonce %d, "+
		"quality %d)", blockHash, signer, height, nonce, quality)
	return block, nil
}
