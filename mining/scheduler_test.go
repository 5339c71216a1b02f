// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/pocx-project/pocxd/assignment"
	"github.com/pocx-project/pocxd/chaincfg"
	"github.com/pocx-project/pocxd/pocxutil"
	"github.com/pocx-project/pocxd/wire"
)

// fakeChain is a ChainSource whose context can be swapped by the test.
type fakeChain struct {
	mtx sync.Mutex
	ctx ChainContext
}

func (c *fakeChain) BestContext() (*ChainContext, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	ctxCopy := c.ctx
	return &ctxCopy, nil
}

func (c *fakeChain) setContext(ctx ChainContext) {
	c.mtx.Lock()
	c.ctx = ctx
	c.mtx.Unlock()
}

// fakeTemplates produces minimal one-transaction templates.
type fakeTemplates struct {
	chain *fakeChain
}

func (f *fakeTemplates) NewBlockTemplate(payoutScript []byte) (*wire.MsgBlock, error) {
	ctx, _ := f.chain.BestContext()
	block := &wire.MsgBlock{
		Header: wire.BlockHeader{
			Version:             1,
			PrevBlock:           ctx.TipHash,
			Timestamp:           time.Now(),
			Height:              int32(ctx.NextHeight),
			GenerationSignature: ctx.NextGenSig,
			BaseTarget:          ctx.NextBaseTarget,
		},
	}
	coinbase := wire.NewMsgTx()
	coinbase.AddTxIn(&wire.TxIn{PreviousOutPoint: wire.OutPoint{Index: ^uint32(0)}})
	coinbase.AddTxOut(&wire.TxOut{Value: 50 * 1e8, PkScript: payoutScript})
	block.AddTransaction(coinbase)
	return block, nil
}

// testKeyStore implements KeyStore over a single private key.
type testKeyStore struct {
	priv    *secp256k1.PrivateKey
	account [20]byte
}

func newTestKeyStore() *testKeyStore {
	var keyBytes [32]byte
	keyBytes[31] = 7
	priv := secp256k1.PrivKeyFromBytes(keyBytes[:])
	return &testKeyStore{
		priv:    priv,
		account: pocxutil.AccountID(priv.PubKey().SerializeCompressed()),
	}
}

func (k *testKeyStore) PubKey(account [20]byte) (*secp256k1.PublicKey, error) {
	if account != k.account {
		return nil, makeError(ErrSigningFailed, "unknown account")
	}
	return k.priv.PubKey(), nil
}

func (k *testKeyStore) SignCompact(digest *chainhash.Hash, account [20]byte) ([]byte, error) {
	if account != k.account {
		return nil, makeError(ErrSigningFailed, "unknown account")
	}
	// The scheduler only cares about the signature length here; the
	// consensus-level signing checks have their own tests.
	sig := make([]byte, 65)
	copy(sig, digest[:])
	return sig, nil
}

// testHarness bundles a scheduler with its fakes.
type testHarness struct {
	chain     *fakeChain
	keyStore  *testKeyStore
	scheduler *Scheduler
	submitted chan *wire.MsgBlock
}

// newTestHarness returns a harness whose chain is at height 1 with the
// provided base target.
func newTestHarness(t *testing.T, baseTarget uint64) *testHarness {
	t.Helper()

	params := chaincfg.RegNetParams()
	chain := &fakeChain{ctx: ChainContext{
		NextHeight:     2,
		NextGenSig:     chainhash.HashH([]byte("gensig-2")),
		NextBaseTarget: baseTarget,
		TipHash:        chainhash.HashH([]byte("tip-1")),
		TipPrevHash:    chainhash.HashH([]byte("tip-0")),
		TipTime:        time.Now().Unix(),
		TipQuality:     1 << 40,
	}}
	keyStore := newTestKeyStore()
	store := assignment.NewMemStore()
	t.Cleanup(func() { store.Close() })

	submitted := make(chan *wire.MsgBlock, 8)
	assembler := NewBlockAssembler(&AssemblerConfig{
		ChainParams: params,
		Templates:   &fakeTemplates{chain: chain},
		Assignments: store,
		KeyStore:    keyStore,
	})
	scheduler := NewScheduler(&SchedulerConfig{
		ChainParams: params,
		Chain:       chain,
		Assembler:   assembler,
		SubmitBlock: func(block *wire.MsgBlock) error {
			submitted <- block
			return nil
		},
	})

	return &testHarness{
		chain:     chain,
		keyStore:  keyStore,
		scheduler: scheduler,
		submitted: submitted,
	}
}

// submission returns a valid submission for the harness chain context.
func (h *testHarness) submission(nonce, quality uint64) NonceSubmission {
	ctx, _ := h.chain.BestContext()
	return NonceSubmission{
		AccountID:           h.keyStore.account,
		Nonce:               nonce,
		Quality:             quality,
		Compression:         1,
		Height:              ctx.NextHeight,
		GenerationSignature: ctx.NextGenSig,
	}
}

// initWorkerState prepares the scheduler for direct calls to its worker
// methods without running the worker goroutine.
func (h *testHarness) initWorkerState() {
	h.scheduler.timer = time.NewTimer(time.Hour)
	h.scheduler.stopTimer()
}

// TestSchedulerCandidateSelection exercises the candidate decision logic:
// install, replace on strictly better, keep first seen on ties, and drop
// stale contexts.
func TestSchedulerCandidateSelection(t *testing.T) {
	harness := newTestHarness(t, 1<<50)
	harness.initWorkerState()
	s := harness.scheduler

	// First submission is installed.
	subA := harness.submission(1, 1<<40)
	s.processSubmission(&subA)
	if s.candidate == nil || s.candidate.sub.Nonce != 1 {
		t.Fatal("first submission was not installed")
	}

	// Worse quality is discarded.
	subB := harness.submission(2, 1<<41)
	s.processSubmission(&subB)
	if s.candidate.sub.Nonce != 1 {
		t.Fatal("worse submission replaced the candidate")
	}

	// Equal quality keeps the first seen.
	subC := harness.submission(3, 1<<40)
	s.processSubmission(&subC)
	if s.candidate.sub.Nonce != 1 {
		t.Fatal("equal-quality submission replaced the candidate")
	}

	// Strictly better quality replaces.
	subD := harness.submission(4, 1<<39)
	s.processSubmission(&subD)
	if s.candidate.sub.Nonce != 4 {
		t.Fatal("better submission did not replace the candidate")
	}

	// Stale height is dropped without touching the candidate.
	subE := harness.submission(5, 1)
	subE.Height++
	s.processSubmission(&subE)
	if s.candidate.sub.Nonce != 4 {
		t.Fatal("stale-height submission replaced the candidate")
	}

	// Stale generation signature is dropped as well.
	subF := harness.submission(6, 1)
	subF.GenerationSignature = chainhash.HashH([]byte("bogus"))
	s.processSubmission(&subF)
	if s.candidate.sub.Nonce != 4 {
		t.Fatal("stale-gensig submission replaced the candidate")
	}
}

// TestSchedulerDefensiveForge ensures a candidate with a strictly better
// quality than a newly arrived competing tip is forged immediately, while
// worse candidates and plain reorgs are not.
func TestSchedulerDefensiveForge(t *testing.T) {
	harness := newTestHarness(t, 1<<50)
	harness.initWorkerState()
	s := harness.scheduler

	// Install a candidate for height 2.
	sub := harness.submission(1, 1000)
	s.processSubmission(&sub)
	if s.candidate == nil {
		t.Fatal("candidate was not installed")
	}
	oldCtx, _ := harness.chain.BestContext()

	// A competing block for height 2 arrives with a worse quality.  The
	// next queue activity observes the tip change and must forge
	// defensively.
	harness.chain.setContext(ChainContext{
		NextHeight:     3,
		NextGenSig:     chainhash.HashH([]byte("gensig-3")),
		NextBaseTarget: oldCtx.NextBaseTarget,
		TipHash:        chainhash.HashH([]byte("competing-tip-2")),
		TipPrevHash:    oldCtx.TipHash,
		TipTime:        time.Now().Unix(),
		TipQuality:     2000,
	})
	next := harness.submission(2, 123)
	s.processSubmission(&next)

	select {
	case block := <-harness.submitted:
		if block.Header.Proof.Nonce != 1 {
			t.Fatalf("defensive forge used nonce %d, want 1",
				block.Header.Proof.Nonce)
		}
	default:
		t.Fatal("no defensive forge happened")
	}

	// The new submission became the candidate for height 3.
	if s.candidate == nil || s.candidate.sub.Nonce != 2 {
		t.Fatal("submission after tip change was not installed")
	}

	// A worse candidate must not forge when a better block arrives.
	ctx3, _ := harness.chain.BestContext()
	harness.chain.setContext(ChainContext{
		NextHeight:     4,
		NextGenSig:     chainhash.HashH([]byte("gensig-4")),
		NextBaseTarget: ctx3.NextBaseTarget,
		TipHash:        chainhash.HashH([]byte("tip-3")),
		TipPrevHash:    ctx3.TipHash,
		TipTime:        time.Now().Unix(),
		TipQuality:     5, // Better than the candidate's 123.
	})
	after := harness.submission(3, 42)
	s.processSubmission(&after)

	select {
	case <-harness.submitted:
		t.Fatal("worse candidate forged defensively")
	default:
	}
}

// TestSchedulerForgesOnDeadline runs the full worker loop: a zero-quality
// submission has a zero deadline and must produce a signed block through
// the submission sink almost immediately.
func TestSchedulerForgesOnDeadline(t *testing.T) {
	harness := newTestHarness(t, 1<<50)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		harness.scheduler.Run(ctx)
		close(done)
	}()

	sub := harness.submission(77, 0)
	if !harness.scheduler.SubmitNonce(sub) {
		t.Fatal("submission rejected")
	}

	select {
	case block := <-harness.submitted:
		if block.Header.Proof.Nonce != 77 {
			t.Fatalf("forged nonce %d, want 77", block.Header.Proof.Nonce)
		}
		if block.Header.Proof.AccountID != harness.keyStore.account {
			t.Fatal("forged block carries the wrong account")
		}
		var zeroKey [33]byte
		if block.Header.PubKey == zeroKey {
			t.Fatal("forged block is missing the public key")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no block was forged before the deadline test timeout")
	}

	// Shutdown must stop the worker and permanently reject submissions.
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
	if harness.scheduler.SubmitNonce(harness.submission(78, 0)) {
		t.Fatal("submission accepted after shutdown")
	}
}

// TestSchedulerBaseTargetChange ensures a deadline firing into a context
// whose base target changed merely reschedules the candidate instead of
// forging or abandoning it.
func TestSchedulerBaseTargetChange(t *testing.T) {
	harness := newTestHarness(t, 1<<50)
	harness.initWorkerState()
	s := harness.scheduler

	sub := harness.submission(9, 1<<55)
	s.processSubmission(&sub)
	oldDeadline := s.candidate.deadline

	// Same height and gensig, different base target.
	ctx, _ := harness.chain.BestContext()
	ctx.NextBaseTarget = ctx.NextBaseTarget / 2
	harness.chain.setContext(*ctx)

	s.onDeadline()
	if s.candidate == nil {
		t.Fatal("candidate was abandoned on base target change")
	}
	if s.candidate.baseTarget != ctx.NextBaseTarget {
		t.Fatal("candidate base target was not updated")
	}
	if s.candidate.deadline <= oldDeadline {
		t.Fatalf("halving the base target did not lengthen the deadline "+
			"(%d -> %d)", oldDeadline, s.candidate.deadline)
	}
	select {
	case <-harness.submitted:
		t.Fatal("base target change caused a forge")
	default:
	}

	// A changed generation signature abandons the candidate.
	ctx.NextGenSig = chainhash.HashH([]byte("rolled"))
	harness.chain.setContext(*ctx)
	s.onDeadline()
	if s.candidate != nil {
		t.Fatal("candidate survived a generation signature change")
	}
}
