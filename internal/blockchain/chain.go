// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2024 The Decred developers
// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"
	"sync"

	"github.com/decred/dcrd/chaincfg/chainhash"

	"github.com/pocx-project/pocxd/assignment"
	"github.com/pocx-project/pocxd/blockchain/standalone"
	"github.com/pocx-project/pocxd/chaincfg"
	"github.com/pocx-project/pocxd/mining"
	"github.com/pocx-project/pocxd/plot"
	"github.com/pocx-project/pocxd/pocxutil"
	"github.com/pocx-project/pocxd/wire"
)

// spentOutput remembers an output a connected block spent so a disconnect
// can restore it.
type spentOutput struct {
	outPoint wire.OutPoint
	output   *wire.TxOut
}

// Config is a descriptor which specifies the blockchain instance
// configuration.
type Config struct {
	// ChainParams identifies the chain parameters the chain is associated
	// with.
	ChainParams *chaincfg.Params

	// AssignmentStore is the persistent store for forging assignment
	// records and their undo journals.
	AssignmentStore *assignment.LevelStore
}

// Chain provides a minimal chain manager for the proof of capacity
// consensus: an in-memory block index with a single best chain, full header
// and proof validation, assignment connect/disconnect with exact undo, and
// enough unspent output bookkeeping to prove plot ownership and fund
// assignment transactions.
type Chain struct {
	chainParams *chaincfg.Params
	store       *assignment.LevelStore

	// mtx protects all of the fields below.
	mtx     sync.RWMutex
	index   map[chainhash.Hash]*blockNode
	tip     *blockNode
	blocks  map[chainhash.Hash]*wire.MsgBlock
	utxos   map[wire.OutPoint]*wire.TxOut
	spent   map[chainhash.Hash][]spentOutput
	created map[chainhash.Hash][]wire.OutPoint
	pending []*wire.MsgTx
}

// New returns a Chain instance using the provided configuration details
// with the chain anchored at the network's genesis block.
func New(cfg *Config) *Chain {
	params := cfg.ChainParams
	genesis := &blockNode{
		hash:       params.GenesisHash,
		timestamp:  params.GenesisTimestamp,
		baseTarget: standalone.CalcGenesisBaseTarget(
			params.TargetSpacingSeconds(), params.LowCapacityCalibration),
		genSig: params.GenesisGenerationSignature,
	}

	c := &Chain{
		chainParams: params,
		store:       cfg.AssignmentStore,
		index:       map[chainhash.Hash]*blockNode{genesis.hash: genesis},
		tip:         genesis,
		blocks:      make(map[chainhash.Hash]*wire.MsgBlock),
		utxos:       make(map[wire.OutPoint]*wire.TxOut),
		spent:       make(map[chainhash.Hash][]spentOutput),
		created:     make(map[chainhash.Hash][]wire.OutPoint),
	}
	return c
}

// AssignmentView returns read access to the assignment records at the
// current tip.
func (c *Chain) AssignmentView() assignment.View {
	return c.store
}

// Tip returns the hash and height of the current best chain tip.
func (c *Chain) Tip() (chainhash.Hash, int64) {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	return c.tip.hash, c.tip.height
}

// BestContext returns a consistent snapshot of the current tip and the
// context of the block that would extend it.
//
// This function is part of the mining.ChainSource interface.
func (c *Chain) BestContext() (*mining.ChainContext, error) {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	return c.bestContext(), nil
}

// bestContext returns the context snapshot for the current tip.
//
// This function MUST be called with the chain lock held (for reads).
func (c *Chain) bestContext() *mining.ChainContext {
	tip := c.tip
	ctx := &mining.ChainContext{
		NextHeight: tip.height + 1,
		NextGenSig: standalone.CalcNextGenSig(&tip.genSig, &tip.accountID),
		NextBaseTarget: standalone.CalcNextBaseTarget(tip,
			c.chainParams.TargetSpacingSeconds(),
			c.chainParams.DiffWindowSize,
			c.chainParams.LowCapacityCalibration),
		TipHash:    tip.hash,
		TipTime:    tip.timestamp,
		TipQuality: tip.quality,
	}
	if tip.parent != nil {
		ctx.TipPrevHash = tip.parent.hash
	}
	return ctx
}

// FetchOutput returns the unspent output the provided outpoint references
// or nil when it is unknown or already spent.
//
// This function is part of the assignment.UtxoViewer interface.
func (c *Chain) FetchOutput(op wire.OutPoint) (*wire.TxOut, error) {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	return c.utxos[op], nil
}

// UnspentOutputs returns a snapshot of all tracked unspent outputs paying
// to the provided witness keyhash.
func (c *Chain) UnspentOutputs(keyHash [20]byte) map[wire.OutPoint]*wire.TxOut {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	result := make(map[wire.OutPoint]*wire.TxOut)
	wantScript := append([]byte{0x00, 0x14}, keyHash[:]...)
	for op, out := range c.utxos {
		if len(out.PkScript) == len(wantScript) &&
			string(out.PkScript) == string(wantScript) {
			result[op] = out
		}
	}
	return result
}

// checkBlockContext performs the contextual header checks against the
// parent node: height continuity, the generation signature and base target
// schedules, the compression bounds, the recomputed proof quality, and the
// deadline the quality imposes on the timestamp.
//
// This function MUST be called with the chain lock held (for writes).
func (c *Chain) checkBlockContext(header *wire.BlockHeader, parent *blockNode) (uint64, error) {
	if int64(header.Height) != parent.height+1 {
		str := fmt.Sprintf("block height %d does not extend parent height "+
			"%d", header.Height, parent.height)
		return 0, ruleError(ErrBadHeight, str)
	}

	wantGenSig := standalone.CalcNextGenSig(&parent.genSig, &parent.accountID)
	if header.GenerationSignature != wantGenSig {
		str := fmt.Sprintf("block generation signature %v does not match "+
			"expected %v", header.GenerationSignature, wantGenSig)
		return 0, ruleError(ErrBadGenerationSignature, str)
	}

	wantBaseTarget := standalone.CalcNextBaseTarget(parent,
		c.chainParams.TargetSpacingSeconds(), c.chainParams.DiffWindowSize,
		c.chainParams.LowCapacityCalibration)
	if header.BaseTarget != wantBaseTarget {
		str := fmt.Sprintf("block base target %d does not match expected "+
			"%d", header.BaseTarget, wantBaseTarget)
		return 0, ruleError(ErrBadBaseTarget, str)
	}

	proof := &header.Proof
	if proof.IsNull() {
		return 0, ruleError(ErrBadProof, "block carries a null proof")
	}
	err := standalone.CheckCompressionBounds(proof.Compression,
		int64(header.Height), c.chainParams.SubsidyHalvingInterval)
	if err != nil {
		return 0, err
	}

	genSig := [32]byte(header.GenerationSignature)
	quality, err := plot.CalculateQuality(&proof.AccountID, &proof.Seed,
		proof.Nonce, proof.Compression, uint64(header.Height), &genSig)
	if err != nil {
		str := fmt.Sprintf("unable to evaluate proof quality: %v", err)
		return 0, ruleError(ErrBadProof, str)
	}
	if quality != proof.Quality {
		str := fmt.Sprintf("claimed quality %d does not match computed "+
			"quality %d", proof.Quality, quality)
		return 0, ruleError(ErrBadProof, str)
	}

	deadline := standalone.CalcTimeBentDeadline(quality, header.BaseTarget,
		c.chainParams.TargetSpacingSeconds())
	if header.Timestamp.Unix() < parent.timestamp+int64(deadline) {
		str := fmt.Sprintf("block time %d is before the deadline of %d "+
			"seconds after parent time %d", header.Timestamp.Unix(),
			deadline, parent.timestamp)
		return 0, ruleError(ErrPrematureBlock, str)
	}

	return quality, nil
}

// checkBlockSignature verifies the compact signature of the block and that
// the signing key is the effective signer of the proof's plot at the block
// height.  The pure recover-and-compare check runs first; only then is the
// assignment view consulted, keeping the two concerns layered.
func (c *Chain) checkBlockSignature(block *wire.MsgBlock) error {
	header := &block.Header
	blockHash := header.BlockHash()
	err := standalone.CheckBlockSignature(&blockHash, &header.PubKey,
		&header.Signature)
	if err != nil {
		return err
	}

	signer := standalone.BlockSignerAccount(&header.PubKey)
	expected, err := assignment.EffectiveSigner(c.store,
		header.Proof.AccountID, int64(header.Height))
	if err != nil {
		return err
	}
	if !standalone.AccountIDsMatch(&signer, &expected) {
		str := fmt.Sprintf("block signer %x is not the effective signer "+
			"%x for plot %x at height %d", signer, expected,
			header.Proof.AccountID, header.Height)
		return ruleError(ErrUnauthorizedSigner, str)
	}
	return nil
}

// connectBlock applies the block to the chain state: assignment mutations
// with their undo journal and the unspent output bookkeeping.
//
// This function MUST be called with the chain lock held (for writes).
func (c *Chain) connectBlock(node *blockNode, block *wire.MsgBlock) error {
	var undo []assignment.UndoRecord
	var spentOutputs []spentOutput
	var createdOutputs []wire.OutPoint

	// rollback restores any partial mutations performed before a failure.
	rollback := func() {
		if err := assignment.DisconnectUndo(c.store, undo); err != nil {
			log.Errorf("Unable to roll back partial assignment state: %v",
				err)
		}
		for _, op := range createdOutputs {
			delete(c.utxos, op)
		}
		for _, spent := range spentOutputs {
			c.utxos[spent.outPoint] = spent.output
		}
	}

	for i, tx := range block.Transactions {
		// The coinbase spends nothing and, having no real inputs, can
		// never prove plot ownership, so assignment markers inside it are
		// rejected by the same ownership rule as everywhere else.
		// The locked view avoids re-entering the chain lock held here.
		txUndo, err := assignment.ConnectTransaction(c.store, tx,
			c.utxoView(), node.height, c.chainParams.AssignmentDelay)
		if err != nil {
			rollback()
			return err
		}
		undo = append(undo, txUndo...)

		if i != 0 {
			for _, txIn := range tx.TxIn {
				op := txIn.PreviousOutPoint
				if out := c.utxos[op]; out != nil {
					spentOutputs = append(spentOutputs, spentOutput{op, out})
					delete(c.utxos, op)
				}
			}
		}
		txHash := tx.TxHash()
		for outIdx, txOut := range tx.TxOut {
			if _, isKeyHash := pocxutil.ExtractWitnessKeyHash(txOut.PkScript); !isKeyHash {
				continue
			}
			op := wire.OutPoint{Hash: txHash, Index: uint32(outIdx)}
			c.utxos[op] = txOut
			createdOutputs = append(createdOutputs, op)
		}
	}

	if err := c.store.PutUndo(node.height, undo); err != nil {
		rollback()
		return err
	}
	c.spent[node.hash] = spentOutputs
	c.created[node.hash] = createdOutputs

	c.index[node.hash] = node
	c.blocks[node.hash] = block
	c.tip = node
	c.filterPending(block)
	return nil
}

// disconnectBlock removes the current tip from the chain state, reversing
// its assignment mutations through the stored undo journal and restoring
// the outputs it spent.
//
// This function MUST be called with the chain lock held (for writes).
func (c *Chain) disconnectBlock() error {
	tip := c.tip
	undo, err := c.store.FetchUndo(tip.height)
	if err != nil {
		return err
	}
	if err := assignment.DisconnectUndo(c.store, undo); err != nil {
		return err
	}
	if err := c.store.DeleteUndo(tip.height); err != nil {
		return err
	}

	for _, op := range c.created[tip.hash] {
		delete(c.utxos, op)
	}
	for _, spent := range c.spent[tip.hash] {
		c.utxos[spent.outPoint] = spent.output
	}
	delete(c.created, tip.hash)
	delete(c.spent, tip.hash)
	delete(c.index, tip.hash)
	delete(c.blocks, tip.hash)

	c.tip = tip.parent
	log.Debugf("Disconnected block %v (height %d)", tip.hash, tip.height)
	return nil
}

// filterPending drops queued transactions that were included in the
// provided block.
//
// This function MUST be called with the chain lock held (for writes).
func (c *Chain) filterPending(block *wire.MsgBlock) {
	included := make(map[chainhash.Hash]struct{}, len(block.Transactions))
	for _, tx := range block.Transactions {
		included[tx.TxHash()] = struct{}{}
	}
	kept := c.pending[:0]
	for _, tx := range c.pending {
		if _, ok := included[tx.TxHash()]; !ok {
			kept = append(kept, tx)
		}
	}
	c.pending = kept
}

// ProcessBlock validates the provided block against the consensus rules and
// connects it to the best chain.  A block at the same height as the current
// tip replaces it when its proof quality is strictly lower, which is the
// deterministic tie-break; everything else that does not extend the tip is
// rejected.
//
// This function is safe for concurrent access.
func (c *Chain) ProcessBlock(block *wire.MsgBlock) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	header := &block.Header
	blockHash := header.BlockHash()
	if _, exists := c.index[blockHash]; exists {
		str := fmt.Sprintf("already have block %v", blockHash)
		return ruleError(ErrDuplicateBlock, str)
	}
	if len(block.Transactions) == 0 {
		return ruleError(ErrNoTransactions, "block has no coinbase")
	}

	parent := c.index[header.PrevBlock]
	if parent == nil {
		str := fmt.Sprintf("previous block %v is not known", header.PrevBlock)
		return ruleError(ErrMissingParent, str)
	}

	// Same-height competition: only a strictly lower quality may replace
	// the current tip.
	replacingTip := parent != c.tip
	if replacingTip {
		if c.tip.parent == nil || parent.hash != c.tip.parent.hash {
			str := fmt.Sprintf("block %v does not extend the best chain "+
				"tip %v", blockHash, c.tip.hash)
			return ruleError(ErrSideChain, str)
		}
		if header.Proof.Quality >= c.tip.quality {
			str := fmt.Sprintf("block %v with quality %d does not win "+
				"the tie-break against tip quality %d", blockHash,
				header.Proof.Quality, c.tip.quality)
			return ruleError(ErrSideChain, str)
		}
	}

	quality, err := c.checkBlockContext(header, parent)
	if err != nil {
		return err
	}

	wantMerkle := standalone.CalcMerkleRoot(block.TxHashes())
	if header.MerkleRoot != wantMerkle {
		str := fmt.Sprintf("block merkle root %v does not match computed "+
			"%v", header.MerkleRoot, wantMerkle)
		return ruleError(ErrBadMerkleRoot, str)
	}

	// The tie-break must be evaluated against the recomputed quality too.
	if replacingTip && quality >= c.tip.quality {
		str := fmt.Sprintf("block %v with quality %d does not win the "+
			"tie-break against tip quality %d", blockHash, quality,
			c.tip.quality)
		return ruleError(ErrSideChain, str)
	}

	var oldTip *blockNode
	var oldTipBlock *wire.MsgBlock
	if replacingTip {
		oldTip = c.tip
		oldTipBlock = c.blocks[oldTip.hash]
		if err := c.disconnectBlock(); err != nil {
			return err
		}
	}

	// The signature check consults the assignment view, so it runs after
	// any disconnect has restored the state the block is judged against.
	// When it fails after a tie-break disconnect, the old tip is
	// reconnected so the chain never ends up on the shorter branch.
	if err := c.checkBlockSignature(block); err != nil {
		if replacingTip {
			if rcErr := c.connectBlock(oldTip, oldTipBlock); rcErr != nil {
				log.Errorf("Unable to reconnect tip %v after rejecting "+
					"%v: %v", oldTip.hash, blockHash, rcErr)
			}
		}
		return err
	}

	node := &blockNode{
		parent:     parent,
		hash:       blockHash,
		height:     int64(header.Height),
		timestamp:  header.Timestamp.Unix(),
		baseTarget: header.BaseTarget,
		genSig:     header.GenerationSignature,
		accountID:  header.Proof.AccountID,
		quality:    quality,
	}
	if err := c.connectBlock(node, block); err != nil {
		if replacingTip {
			if rcErr := c.connectBlock(oldTip, oldTipBlock); rcErr != nil {
				log.Errorf("Unable to reconnect tip %v after rejecting "+
					"%v: %v", oldTip.hash, blockHash, rcErr)
			}
		}
		return err
	}

	log.Infof("Connected block %v (height %d, quality %d, account %x)",
		blockHash, node.height, quality, node.accountID)
	return nil
}

// SubmitBlock accepts a forged block for validation and connection.
//
// This function matches the submission sink signature the mining scheduler
// expects.
func (c *Chain) SubmitBlock(block *wire.MsgBlock) error {
	return c.ProcessBlock(block)
}
