// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2024 The Decred developers
// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcserver

import (
	"context"
	"encoding/hex"
	"math"

	"github.com/decred/dcrd/chaincfg/chainhash"

	"github.com/pocx-project/pocxd/assignment"
	"github.com/pocx-project/pocxd/blockchain/standalone"
	"github.com/pocx-project/pocxd/mining"
	"github.com/pocx-project/pocxd/plot"
	"github.com/pocx-project/pocxd/pocxutil"
	"github.com/pocx-project/pocxd/rpc/jsonrpc/types"
	"github.com/pocx-project/pocxd/wire"
)

// dustLimit is the smallest change output the assignment transaction
// builder will create.
const dustLimit = 546

// handleGetMiningInfo implements the get_mining_info command.
func handleGetMiningInfo(_ context.Context, s *Server, _ interface{}) (interface{}, error) {
	chainCtx, err := s.cfg.Chain.BestContext()
	if err != nil {
		return nil, rpcInternalError(err.Error(), "chain context")
	}
	bounds := standalone.CalcCompressionBounds(chainCtx.NextHeight,
		s.cfg.ChainParams.SubsidyHalvingInterval)

	return &types.GetMiningInfoResult{
		GenerationSignature: chainCtx.NextGenSig.String(),
		BaseTarget:          chainCtx.NextBaseTarget,
		Height:              chainCtx.NextHeight,
		BlockHash:           chainCtx.TipHash.String(),
		TargetQuality:       math.MaxUint64,
		MinCompression:      bounds.Min,
		TargetCompression:   bounds.Target,
	}, nil
}

// submitNonceError produces the rejected form of the submit_nonce reply.
func submitNonceError(format string, args ...interface{}) *types.SubmitNonceResult {
	result := &types.SubmitNonceResult{Accepted: false}
	result.Error = rpcMiscError(format, args...).Message
	return result
}

// handleSubmitNonce implements the submit_nonce command.
//
// Validation is ordered cheapest first: parameter formats, chain context,
// signer key possession and compression bounds all run before the expensive
// proof recomputation.
func handleSubmitNonce(_ context.Context, s *Server, icmd interface{}) (interface{}, error) {
	c := icmd.(*types.SubmitNonceCmd)

	accountID, err := pocxutil.AccountIDFromHex(c.AccountID)
	if err != nil {
		return nil, rpcInvalidError("Invalid account_id format - must be " +
			"40 hex characters")
	}
	seedBytes, err := hex.DecodeString(c.Seed)
	if err != nil || len(seedBytes) != 32 {
		return nil, rpcInvalidError("Invalid seed format - must be 64 hex " +
			"characters")
	}
	var seed [32]byte
	copy(seed[:], seedBytes)

	chainCtx, err := s.cfg.Chain.BestContext()
	if err != nil {
		return nil, rpcInternalError(err.Error(), "chain context")
	}

	if c.Height != chainCtx.NextHeight {
		return submitNonceError("invalid height: expected %d, got %d",
			chainCtx.NextHeight, c.Height), nil
	}
	submittedGenSig, err := chainhash.NewHashFromStr(c.GenerationSignature)
	if err != nil || *submittedGenSig != chainCtx.NextGenSig {
		return submitNonceError("generation signature mismatch"), nil
	}

	// Make sure a key for the effective signer is available before doing
	// any expensive proof work: a submission this node can never sign for
	// is useless.
	signer, err := assignment.EffectiveSigner(s.cfg.Chain.AssignmentView(),
		accountID, c.Height)
	if err != nil {
		return nil, rpcInternalError(err.Error(), "effective signer")
	}
	if !s.cfg.KeyRing.HaveKey(signer) {
		return nil, rpcAddressKeyError("no private key available for "+
			"effective signer %x (plot: %s)", signer, c.AccountID)
	}

	err = standalone.CheckCompressionBounds(c.Compression, c.Height,
		s.cfg.ChainParams.SubsidyHalvingInterval)
	if err != nil {
		return submitNonceError("%v", err), nil
	}

	genSig := [32]byte(*submittedGenSig)
	quality, err := plot.CalculateQuality(&accountID, &seed, c.Nonce,
		c.Compression, uint64(c.Height), &genSig)
	if err != nil {
		return submitNonceError("proof validation failed: %v", err), nil
	}

	deadlineSeconds := quality / chainCtx.NextBaseTarget
	pocTime := standalone.CalcTimeBentDeadline(quality,
		chainCtx.NextBaseTarget, s.cfg.ChainParams.TargetSpacingSeconds())

	queued := s.cfg.Scheduler.SubmitNonce(mining.NonceSubmission{
		AccountID:           accountID,
		Seed:                seed,
		Nonce:               c.Nonce,
		Quality:             quality,
		Compression:         c.Compression,
		Height:              c.Height,
		GenerationSignature: *submittedGenSig,
	})
	if !queued {
		return nil, rpcMiscError("submission queue is full, please try " +
			"again later")
	}

	log.Infof("Accepted nonce %d for account %s (quality %d, deadline %ds, "+
		"poc time %ds)", c.Nonce, c.AccountID, quality, deadlineSeconds,
		pocTime)
	return &types.SubmitNonceResult{
		Accepted: true,
		Quality:  deadlineSeconds,
		PocTime:  pocTime,
	}, nil
}

// handleGetAssignment implements the get_assignment command.
func handleGetAssignment(_ context.Context, s *Server, icmd interface{}) (interface{}, error) {
	c := icmd.(*types.GetAssignmentCmd)

	hrp := s.cfg.ChainParams.AddressHRP
	addr, err := pocxutil.DecodeAddress(c.PlotAddress, hrp)
	if err != nil {
		return nil, rpcAddressKeyError("invalid plot address: %v", err)
	}
	plotAddr := addr.Hash160()

	_, tipHeight := s.cfg.Chain.Tip()
	height := tipHeight
	if c.Height != nil {
		height = *c.Height
	}

	record, err := s.cfg.Chain.AssignmentView().Assignment(plotAddr)
	if err != nil {
		return nil, rpcInternalError(err.Error(), "assignment lookup")
	}

	result := &types.GetAssignmentResult{
		PlotAddress: c.PlotAddress,
		Height:      height,
		State:       assignment.StateUnassigned.String(),
	}
	if record == nil {
		return result, nil
	}

	result.HasAssignment = true
	result.State = record.StateAtHeight(height).String()
	result.ForgingAddress = pocxutil.NewAddress(hrp,
		record.ForgingAddress).String()
	result.AssignmentTxID = record.AssignmentTxID.String()
	result.AssignmentHeight = record.AssignmentHeight
	result.ActivationHeight = record.AssignmentEffectiveHeight
	if record.Revoked {
		result.Revoked = true
		result.RevocationTxID = record.RevocationTxID.String()
		result.RevocationHeight = record.RevocationHeight
		result.RevocationEffectiveHeight = record.RevocationEffectiveHeight
	}
	return result, nil
}

// handleCreateAssignment implements the create_assignment command.
func handleCreateAssignment(_ context.Context, s *Server, icmd interface{}) (interface{}, error) {
	c := icmd.(*types.CreateAssignmentCmd)

	hrp := s.cfg.ChainParams.AddressHRP
	plotAddr, err := pocxutil.DecodeAddress(c.PlotAddress, hrp)
	if err != nil {
		return nil, rpcAddressKeyError("plot address must be a bech32 "+
			"witness address: %v", err)
	}
	forgeAddr, err := pocxutil.DecodeAddress(c.ForgingAddress, hrp)
	if err != nil {
		return nil, rpcAddressKeyError("forging address must be a bech32 "+
			"witness address: %v", err)
	}

	opReturn, err := assignment.NewAssignmentScript(plotAddr.Hash160(),
		forgeAddr.Hash160())
	if err != nil {
		return nil, rpcInternalError(err.Error(), "assignment script")
	}
	return s.buildForgingTx(plotAddr, opReturn, feeRate(c.FeeRate))
}

// handleRevokeAssignment implements the revoke_assignment command.
func handleRevokeAssignment(_ context.Context, s *Server, icmd interface{}) (interface{}, error) {
	c := icmd.(*types.RevokeAssignmentCmd)

	hrp := s.cfg.ChainParams.AddressHRP
	plotAddr, err := pocxutil.DecodeAddress(c.PlotAddress, hrp)
	if err != nil {
		return nil, rpcAddressKeyError("plot address must be a bech32 "+
			"witness address: %v", err)
	}

	opReturn, err := assignment.NewRevocationScript(plotAddr.Hash160())
	if err != nil {
		return nil, rpcInternalError(err.Error(), "revocation script")
	}
	return s.buildForgingTx(plotAddr, opReturn, feeRate(c.FeeRate))
}

// feeRate returns the fee rate to use in atoms per kB.
func feeRate(param *int64) int64 {
	if param != nil && *param > 0 {
		return *param
	}
	return 10000
}

// buildForgingTx assembles, signs and broadcasts an assignment or
// revocation transaction: the largest confirmed coin of the plot address
// proves ownership, output zero carries the marker payload and output one
// returns the change.  The fee is scaled to the final signed size with
// ceiling division so rounding can never underpay.
func (s *Server) buildForgingTx(plotAddr *pocxutil.Address, opReturn []byte,
	rate int64) (interface{}, error) {

	plotHash := plotAddr.Hash160()
	if !s.cfg.KeyRing.HaveKey(plotHash) {
		return nil, rpcAddressKeyError("no private key for plot address %s",
			plotAddr)
	}

	// Select the largest coin of the plot address to prove ownership.
	utxos := s.cfg.Chain.UnspentOutputs(plotHash)
	var bestOutPoint wire.OutPoint
	var bestValue int64
	for op, out := range utxos {
		if out.Value > bestValue {
			bestOutPoint = op
			bestValue = out.Value
		}
	}
	if bestValue == 0 {
		return nil, rpcMiscError("no coins available at the plot " +
			"address; cannot prove ownership")
	}

	tx := wire.NewMsgTx()
	tx.AddTxIn(&wire.TxIn{PreviousOutPoint: bestOutPoint})
	tx.AddTxOut(&wire.TxOut{Value: 0, PkScript: opReturn})
	tx.AddTxOut(&wire.TxOut{Value: bestValue,
		PkScript: plotAddr.PaymentScript()})

	// Sign once with the full value as change to learn the final size,
	// scale the fee to it, then adjust the change and re-sign.
	if err := s.signForgingTx(tx, plotHash); err != nil {
		return nil, rpcInternalError(err.Error(), "sign")
	}
	size := int64(len(tx.Bytes()))
	fee := (rate*size + 999) / 1000
	change := bestValue - fee
	if change < dustLimit {
		return nil, rpcMiscError("coin of %d atoms at the plot address "+
			"is too small to pay the fee of %d atoms", bestValue, fee)
	}
	tx.TxOut[1].Value = change
	if err := s.signForgingTx(tx, plotHash); err != nil {
		return nil, rpcInternalError(err.Error(), "sign")
	}

	if err := s.cfg.Chain.SubmitTx(tx); err != nil {
		return nil, rpcMiscError("transaction rejected: %v", err)
	}

	txHash := tx.TxHash()
	log.Infof("Broadcast forging transaction %v (fee %d atoms)", txHash, fee)
	return &types.CreateAssignmentResult{
		TxID: txHash.String(),
		Fee:  fee,
		Hex:  hex.EncodeToString(tx.Bytes()),
	}, nil
}

// signForgingTx attaches the witness for every input of the transaction
// using the key of the provided account.  The digest commits to the
// witness-free serialization.
func (s *Server) signForgingTx(tx *wire.MsgTx, account [20]byte) error {
	digest := tx.TxHash()
	signingHash := chainhash.HashH(digest[:])
	sig, err := s.cfg.KeyRing.SignCompact(&signingHash, account)
	if err != nil {
		return err
	}
	pubKey, err := s.cfg.KeyRing.PubKey(account)
	if err != nil {
		return err
	}
	for _, txIn := range tx.TxIn {
		txIn.Witness = [][]byte{sig, pubKey.SerializeCompressed()}
	}
	return nil
}
