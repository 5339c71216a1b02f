// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2015-2023 The Decred developers
// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"
	"time"

	"github.com/pocx-project/pocxd/assignment"
	"github.com/pocx-project/pocxd/blockchain/standalone"
	"github.com/pocx-project/pocxd/wire"
)

// baseSubsidy is the starting coinbase subsidy in atoms.  It halves every
// SubsidyHalvingInterval blocks.
const baseSubsidy int64 = 50 * 1e8

// calcBlockSubsidy returns the coinbase subsidy for a block at the provided
// height.
func (c *Chain) calcBlockSubsidy(height int64) int64 {
	halvings := uint(height / c.chainParams.SubsidyHalvingInterval)
	if halvings >= 63 {
		return 0
	}
	return baseSubsidy >> halvings
}

// NewBlockTemplate builds a block that extends the current tip, paying the
// coinbase to the provided script and carrying any pending transactions.
// The proof, public key and signature fields are left for the assembler;
// the merkle root is filled but is recomputed there after the proof is
// grafted in.
//
// This function is part of the mining.TemplateSource interface.
func (c *Chain) NewBlockTemplate(payoutScript []byte) (*wire.MsgBlock, error) {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	chainCtx := c.bestContext()

	coinbase := wire.NewMsgTx()
	coinbase.AddTxIn(&wire.TxIn{
		PreviousOutPoint: wire.OutPoint{Index: ^uint32(0)},
		SignatureScript:  coinbaseScript(chainCtx.NextHeight),
	})
	coinbase.AddTxOut(&wire.TxOut{
		Value:    c.calcBlockSubsidy(chainCtx.NextHeight),
		PkScript: payoutScript,
	})

	block := &wire.MsgBlock{
		Header: wire.BlockHeader{
			Version:             1,
			PrevBlock:           chainCtx.TipHash,
			Timestamp:           templateTime(chainCtx.TipTime),
			Height:              int32(chainCtx.NextHeight),
			GenerationSignature: chainCtx.NextGenSig,
			BaseTarget:          chainCtx.NextBaseTarget,
		},
	}
	block.AddTransaction(coinbase)
	for _, tx := range c.pending {
		block.AddTransaction(tx)
	}
	block.Header.MerkleRoot = standalone.CalcMerkleRoot(block.TxHashes())
	return block, nil
}

// templateTime returns the timestamp for a new template: the current wall
// clock, but never before one second past the parent block.
func templateTime(tipTime int64) time.Time {
	ts := time.Now().Unix()
	if ts <= tipTime {
		ts = tipTime + 1
	}
	return time.Unix(ts, 0)
}

// coinbaseScript returns a minimal height-committing coinbase signature
// script so coinbase transactions at different heights hash differently.
func coinbaseScript(height int64) []byte {
	script := make([]byte, 9)
	script[0] = 0x08
	for i := uint(0); i < 8; i++ {
		script[1+i] = byte(height >> (8 * i))
	}
	return script
}

// SubmitTx queues a transaction for inclusion in future block templates.
// Transactions carrying assignment markers must prove plot ownership
// against the current unspent outputs; everything else about script
// validation is outside the scope of this chain manager.
func (c *Chain) SubmitTx(tx *wire.MsgTx) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	for _, txOut := range tx.TxOut {
		var plotAddr [20]byte
		var err error
		switch {
		case assignment.IsAssignmentScript(txOut.PkScript):
			plotAddr, _, err = assignment.ParseAssignmentScript(txOut.PkScript)
		case assignment.IsRevocationScript(txOut.PkScript):
			plotAddr, err = assignment.ParseRevocationScript(txOut.PkScript)
		default:
			continue
		}
		if err != nil {
			return err
		}
		owned, err := assignment.VerifyPlotOwnership(tx, plotAddr, c.utxoView())
		if err != nil {
			return err
		}
		if !owned {
			return fmt.Errorf("transaction %v does not prove ownership of "+
				"plot %x", tx.TxHash(), plotAddr)
		}
	}

	c.pending = append(c.pending, tx)
	log.Debugf("Accepted transaction %v into the pending set", tx.TxHash())
	return nil
}

// utxoView returns an assignment.UtxoViewer over the chain's unspent
// outputs that assumes the chain lock is already held.
func (c *Chain) utxoView() assignment.UtxoViewer {
	return lockedUtxoView{c}
}

// lockedUtxoView adapts the unexported utxo map for callers that already
// hold the chain lock.
type lockedUtxoView struct {
	c *Chain
}

// FetchOutput returns the output the provided outpoint references or nil
// when it is unknown or already spent.
func (v lockedUtxoView) FetchOutput(op wire.OutPoint) (*wire.TxOut, error) {
	return v.c.utxos[op], nil
}
