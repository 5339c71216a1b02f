// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcserver

import (
	"context"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrjson/v4"

	"github.com/pocx-project/pocxd/assignment"
	"github.com/pocx-project/pocxd/blockchain/standalone"
	"github.com/pocx-project/pocxd/chaincfg"
	"github.com/pocx-project/pocxd/internal/blockchain"
	"github.com/pocx-project/pocxd/internal/keyring"
	"github.com/pocx-project/pocxd/mining"
	"github.com/pocx-project/pocxd/plot"
	"github.com/pocx-project/pocxd/pocxutil"
	"github.com/pocx-project/pocxd/rpc/jsonrpc/types"
)

// rpcHarness bundles a server over a regression net chain with one
// imported plot key.
type rpcHarness struct {
	t       *testing.T
	params  *chaincfg.Params
	chain   *blockchain.Chain
	ring    *keyring.Keyring
	server  *Server
	account [20]byte
	seed    [32]byte
}

func newRPCHarness(t *testing.T) *rpcHarness {
	t.Helper()

	params := chaincfg.RegNetParams()
	store := assignment.NewMemStore()
	t.Cleanup(func() { store.Close() })

	chain := blockchain.New(&blockchain.Config{
		ChainParams:     params,
		AssignmentStore: store,
	})

	ring := keyring.New()
	var keyBytes [32]byte
	keyBytes[5] = 0x31
	account := ring.ImportKey(secp256k1.PrivKeyFromBytes(keyBytes[:]))

	assembler := mining.NewBlockAssembler(&mining.AssemblerConfig{
		ChainParams: params,
		Templates:   chain,
		Assignments: chain.AssignmentView(),
		KeyStore:    ring,
	})
	scheduler := mining.NewScheduler(&mining.SchedulerConfig{
		ChainParams: params,
		Chain:       chain,
		Assembler:   assembler,
		SubmitBlock: chain.SubmitBlock,
	})

	server := New(&Config{
		User:        "user",
		Pass:        "pass",
		ChainParams: params,
		Chain:       chain,
		Scheduler:   scheduler,
		KeyRing:     ring,
	})

	h := &rpcHarness{
		t:       t,
		params:  params,
		chain:   chain,
		ring:    ring,
		server:  server,
		account: account,
	}
	copy(h.seed[:], "rpc test plot seed 0123456789abc")

	// Connect one block so the plot address owns a coinbase coin.
	h.forgeBlock(assembler, 1)
	return h
}

// forgeBlock forges and connects a fully valid block for the current tip.
func (h *rpcHarness) forgeBlock(assembler *mining.BlockAssembler, nonce uint64) {
	h.t.Helper()

	ctx, err := h.chain.BestContext()
	if err != nil {
		h.t.Fatalf("BestContext: unexpected error: %v", err)
	}
	genSig := [32]byte(ctx.NextGenSig)
	quality, err := plot.CalculateQuality(&h.account, &h.seed, nonce, 1,
		uint64(ctx.NextHeight), &genSig)
	if err != nil {
		h.t.Fatalf("CalculateQuality: unexpected error: %v", err)
	}
	block, err := assembler.BuildBlock(h.account, h.seed, nonce, quality, 1,
		ctx.NextHeight)
	if err != nil {
		h.t.Fatalf("BuildBlock: unexpected error: %v", err)
	}
	deadline := standalone.CalcTimeBentDeadline(quality,
		ctx.NextBaseTarget, h.params.TargetSpacingSeconds())
	block.Header.Timestamp = time.Unix(ctx.TipTime+int64(deadline)+1, 0)
	blockHash := block.BlockHash()
	signingHash := standalone.BlockSigningHash(&blockHash)
	sig, err := h.ring.SignCompact(&signingHash, h.account)
	if err != nil {
		h.t.Fatalf("SignCompact: unexpected error: %v", err)
	}
	copy(block.Header.Signature[:], sig)
	if err := h.chain.ProcessBlock(block); err != nil {
		h.t.Fatalf("ProcessBlock: unexpected error: %v", err)
	}
}

// TestHandleGetMiningInfo ensures the mining info reflects the chain
// context.
func TestHandleGetMiningInfo(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping RPC integration test in short mode")
	}
	h := newRPCHarness(t)

	result, err := handleGetMiningInfo(context.Background(), h.server, nil)
	if err != nil {
		t.Fatalf("handleGetMiningInfo: unexpected error: %v", err)
	}
	info := result.(*types.GetMiningInfoResult)
	if info.Height != 2 {
		t.Fatalf("unexpected next height: %d", info.Height)
	}
	if info.MinCompression != 1 || info.TargetCompression != 2 {
		t.Fatalf("unexpected compression bounds: %d/%d",
			info.MinCompression, info.TargetCompression)
	}

	chainCtx, _ := h.chain.BestContext()
	if info.GenerationSignature != chainCtx.NextGenSig.String() {
		t.Fatal("generation signature mismatch")
	}
	if info.BaseTarget != chainCtx.NextBaseTarget {
		t.Fatal("base target mismatch")
	}
}

// TestHandleSubmitNonce exercises the submit_nonce validation order and the
// happy path.
func TestHandleSubmitNonce(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping RPC integration test in short mode")
	}
	h := newRPCHarness(t)

	chainCtx, _ := h.chain.BestContext()
	accountHex := hex.EncodeToString(h.account[:])
	seedHex := hex.EncodeToString(h.seed[:])

	// Malformed account id is an invalid-parameter error.
	_, err := handleSubmitNonce(context.Background(), h.server,
		&types.SubmitNonceCmd{
			Height:              chainCtx.NextHeight,
			GenerationSignature: chainCtx.NextGenSig.String(),
			AccountID:           "abcd",
			Seed:                seedHex,
			Nonce:               1,
			Compression:         1,
		})
	var rpcErr *dcrjson.RPCError
	if !errors.As(err, &rpcErr) ||
		rpcErr.Code != dcrjson.ErrRPCInvalidParameter {
		t.Fatalf("unexpected error for malformed account: %v", err)
	}

	// Stale height is a rejected result rather than an RPC error.
	result, err := handleSubmitNonce(context.Background(), h.server,
		&types.SubmitNonceCmd{
			Height:              chainCtx.NextHeight + 5,
			GenerationSignature: chainCtx.NextGenSig.String(),
			AccountID:           accountHex,
			Seed:                seedHex,
			Nonce:               1,
			Compression:         1,
		})
	if err != nil {
		t.Fatalf("stale height: unexpected error: %v", err)
	}
	if result.(*types.SubmitNonceResult).Accepted {
		t.Fatal("stale height submission accepted")
	}

	// Out of bounds compression is rejected.
	result, err = handleSubmitNonce(context.Background(), h.server,
		&types.SubmitNonceCmd{
			Height:              chainCtx.NextHeight,
			GenerationSignature: chainCtx.NextGenSig.String(),
			AccountID:           accountHex,
			Seed:                seedHex,
			Nonce:               1,
			Compression:         5,
		})
	if err != nil {
		t.Fatalf("bad compression: unexpected error: %v", err)
	}
	if result.(*types.SubmitNonceResult).Accepted {
		t.Fatal("out of bounds compression accepted")
	}

	// An unknown signer key is an address/key error.
	_, err = handleSubmitNonce(context.Background(), h.server,
		&types.SubmitNonceCmd{
			Height:              chainCtx.NextHeight,
			GenerationSignature: chainCtx.NextGenSig.String(),
			AccountID:           "00112233445566778899aabbccddeeff00112233",
			Seed:                seedHex,
			Nonce:               1,
			Compression:         1,
		})
	if !errors.As(err, &rpcErr) ||
		rpcErr.Code != dcrjson.ErrRPCInvalidAddressOrKey {
		t.Fatalf("unexpected error for unknown signer: %v", err)
	}

	// Happy path: the submission is validated and queued.
	result, err = handleSubmitNonce(context.Background(), h.server,
		&types.SubmitNonceCmd{
			Height:              chainCtx.NextHeight,
			GenerationSignature: chainCtx.NextGenSig.String(),
			AccountID:           accountHex,
			Seed:                seedHex,
			Nonce:               31337,
			Compression:         1,
		})
	if err != nil {
		t.Fatalf("handleSubmitNonce: unexpected error: %v", err)
	}
	accepted := result.(*types.SubmitNonceResult)
	if !accepted.Accepted {
		t.Fatalf("valid submission rejected: %s", accepted.Error)
	}

	// The reported quality is the raw quality over the base target and
	// the poc time is its time-bent transform.
	genSig := [32]byte(chainCtx.NextGenSig)
	quality, err := plot.CalculateQuality(&h.account, &h.seed, 31337, 1,
		uint64(chainCtx.NextHeight), &genSig)
	if err != nil {
		t.Fatalf("CalculateQuality: unexpected error: %v", err)
	}
	if accepted.Quality != quality/chainCtx.NextBaseTarget {
		t.Fatalf("deadline mismatch -- got %d, want %d", accepted.Quality,
			quality/chainCtx.NextBaseTarget)
	}
	wantPoc := standalone.CalcTimeBentDeadline(quality,
		chainCtx.NextBaseTarget, h.params.TargetSpacingSeconds())
	if accepted.PocTime != wantPoc {
		t.Fatalf("poc time mismatch -- got %d, want %d", accepted.PocTime,
			wantPoc)
	}
}

// TestHandleAssignmentRPCs exercises get_assignment on an unassigned plot
// and the create/revoke transaction builders.
func TestHandleAssignmentRPCs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping RPC integration test in short mode")
	}
	h := newRPCHarness(t)

	hrp := h.params.AddressHRP
	plotAddrStr := pocxutil.NewAddress(hrp, h.account).String()

	// Unassigned plot reports UNASSIGNED.
	result, err := handleGetAssignment(context.Background(), h.server,
		&types.GetAssignmentCmd{PlotAddress: plotAddrStr})
	if err != nil {
		t.Fatalf("handleGetAssignment: unexpected error: %v", err)
	}
	info := result.(*types.GetAssignmentResult)
	if info.HasAssignment || info.State != "UNASSIGNED" {
		t.Fatalf("unexpected assignment info: %+v", info)
	}

	// Create an assignment to a fresh address; the builder must find the
	// coinbase coin of the plot address.
	var forgeKey [32]byte
	forgeKey[7] = 0x99
	forgeAccount := h.ring.ImportKey(secp256k1.PrivKeyFromBytes(forgeKey[:]))
	forgeAddrStr := pocxutil.NewAddress(hrp, forgeAccount).String()

	result, err = handleCreateAssignment(context.Background(), h.server,
		&types.CreateAssignmentCmd{
			PlotAddress:    plotAddrStr,
			ForgingAddress: forgeAddrStr,
		})
	if err != nil {
		t.Fatalf("handleCreateAssignment: unexpected error: %v", err)
	}
	created := result.(*types.CreateAssignmentResult)
	if created.Fee <= 0 || created.TxID == "" || created.Hex == "" {
		t.Fatalf("unexpected create result: %+v", created)
	}

	// Revocation of a plot with no confirmed assignment still builds a
	// transaction; the consensus rules judge it at connect time.  It must
	// spend the same class of coin and pay a fee.
	result, err = handleRevokeAssignment(context.Background(), h.server,
		&types.RevokeAssignmentCmd{PlotAddress: plotAddrStr})
	if err != nil {
		t.Fatalf("handleRevokeAssignment: unexpected error: %v", err)
	}
	revoked := result.(*types.CreateAssignmentResult)
	if revoked.Fee <= 0 || revoked.TxID == "" {
		t.Fatalf("unexpected revoke result: %+v", revoked)
	}

	// A malformed address is rejected.
	_, err = handleGetAssignment(context.Background(), h.server,
		&types.GetAssignmentCmd{PlotAddress: "pocx1invalid"})
	var rpcErr *dcrjson.RPCError
	if !errors.As(err, &rpcErr) ||
		rpcErr.Code != dcrjson.ErrRPCInvalidAddressOrKey {
		t.Fatalf("unexpected error for bad address: %v", err)
	}
}
