// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2015-2023 The Decred developers
// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"

	"github.com/pocx-project/pocxd/blockchain/standalone"
	"github.com/pocx-project/pocxd/chaincfg"
	"github.com/pocx-project/pocxd/wire"
)

// idleHeartbeat bounds how long the worker sleeps without re-checking its
// surroundings while no candidate is pending.
const idleHeartbeat = 30 * time.Second

// SchedulerConfig is a descriptor containing the forging scheduler
// configuration.
type SchedulerConfig struct {
	// ChainParams identifies the network the scheduler forges for.
	ChainParams *chaincfg.Params

	// Chain provides tip state and new block context snapshots.
	Chain ChainSource

	// Assembler builds and signs blocks for winning candidates.
	Assembler *BlockAssembler

	// SubmitBlock accepts the forged blocks.  It typically runs the block
	// through the same rules as any other block coming from the network.
	SubmitBlock func(block *wire.MsgBlock) error
}

// forgeCandidate is the scheduler's current best submission together with
// the chain context it was accepted against.  It is owned exclusively by
// the worker goroutine and never escapes it.
type forgeCandidate struct {
	sub        NonceSubmission
	deadline   uint64
	baseTarget uint64
	height     int64
	genSig     chainhash.Hash
	tipHash    chainhash.Hash
	tipTime    int64
	forgeTime  time.Time
}

// Scheduler owns the forging state machine.  Submissions enter through a
// bounded queue, a single worker keeps the best candidate per chain context,
// waits out its deadline and emits a signed block exactly once.
//
// There is exactly one scheduler per node and it must be started and stopped
// through Run; lazy construction from concurrent callers is deliberately
// unsupported.
type Scheduler struct {
	cfg   SchedulerConfig
	queue *submissionQueue

	// candidate is only touched by the worker goroutine.
	candidate *forgeCandidate

	// timer fires at the candidate's forge time.  Only the worker touches
	// it.
	timer *time.Timer

	runMtx  sync.Mutex
	running bool
}

// NewScheduler returns a forging scheduler for the provided configuration.
func NewScheduler(cfg *SchedulerConfig) *Scheduler {
	return &Scheduler{
		cfg:   *cfg,
		queue: newSubmissionQueue(MaxQueueSize),
	}
}

// SubmitNonce queues a validated nonce submission for forging.  It returns
// false when the queue is full or the scheduler has shut down, in which case
// the caller is expected to surface backpressure.  It is safe for concurrent
// use.
func (s *Scheduler) SubmitNonce(sub NonceSubmission) bool {
	accepted := s.queue.Submit(sub)
	if !accepted {
		log.Warnf("Submission queue full, rejecting nonce %d for account "+
			"%x", sub.Nonce, sub.AccountID)
	}
	return accepted
}

// stopTimer stops the forge timer and drains any pending firing so the
// worker never observes a stale wakeup.
func (s *Scheduler) stopTimer() {
	if !s.timer.Stop() {
		select {
		case <-s.timer.C:
		default:
		}
	}
}

// armTimer schedules the next wakeup at the candidate's forge time.  A forge
// time in the past fires immediately.
func (s *Scheduler) armTimer() {
	s.stopTimer()
	s.timer.Reset(time.Until(s.candidate.forgeTime))
}

// clearCandidate drops the current candidate and cancels its wakeup.
func (s *Scheduler) clearCandidate() {
	s.candidate = nil
	s.stopTimer()
}

// Run starts the single worker and blocks until the provided context is
// cancelled.  After it returns no further submissions are accepted.
func (s *Scheduler) Run(ctx context.Context) {
	s.runMtx.Lock()
	if s.running {
		s.runMtx.Unlock()
		panic("forging scheduler started twice")
	}
	s.running = true
	s.runMtx.Unlock()

	log.Info("Forging scheduler started")
	s.timer = time.NewTimer(time.Hour)
	s.stopTimer()
	heartbeat := time.NewTicker(idleHeartbeat)
	defer heartbeat.Stop()

out:
	for {
		select {
		case sub, ok := <-s.queue.C():
			if !ok {
				break out
			}
			s.processSubmission(&sub)

		case <-s.timer.C:
			s.onDeadline()

		case <-heartbeat.C:
			// Nothing to do.  The tick only bounds how long the worker
			// sleeps while idle.

		case <-ctx.Done():
			break out
		}
	}

	s.queue.Close()
	s.clearCandidate()
	log.Info("Forging scheduler stopped")
}

// processSubmission validates a dequeued submission against the current
// chain context and installs it as the candidate when it wins.
func (s *Scheduler) processSubmission(sub *NonceSubmission) {
	chainCtx, err := s.cfg.Chain.BestContext()
	if err != nil {
		log.Errorf("Unable to obtain chain context: %v", err)
		return
	}

	// The tip moved underneath the candidate.  Possibly contest the new
	// tip before dropping the now stale candidate.
	if s.candidate != nil && chainCtx.TipHash != s.candidate.tipHash {
		s.maybeDefensiveForge(chainCtx)
		s.clearCandidate()
	}

	// Stale submissions are dropped silently; miners are expected to
	// resubmit for the new context.
	if sub.Height != chainCtx.NextHeight ||
		sub.GenerationSignature != chainCtx.NextGenSig {

		log.Debugf("Dropping stale submission for height %d (current %d)",
			sub.Height, chainCtx.NextHeight)
		return
	}

	// Strictly lower quality replaces the candidate; ties keep the first
	// seen.
	if s.candidate != nil && sub.Quality >= s.candidate.sub.Quality {
		log.Debugf("Dropping submission with quality %d not better than "+
			"current best %d", sub.Quality, s.candidate.sub.Quality)
		// Re-arm the wakeup in case an earlier forge attempt failed
		// after the deadline had already passed.
		if !time.Now().Before(s.candidate.forgeTime) {
			s.armTimer()
		}
		return
	}

	deadline := standalone.CalcTimeBentDeadline(sub.Quality,
		chainCtx.NextBaseTarget, s.cfg.ChainParams.TargetSpacingSeconds())

	s.candidate = &forgeCandidate{
		sub:        *sub,
		deadline:   deadline,
		baseTarget: chainCtx.NextBaseTarget,
		height:     chainCtx.NextHeight,
		genSig:     chainCtx.NextGenSig,
		tipHash:    chainCtx.TipHash,
		tipTime:    chainCtx.TipTime,
		forgeTime:  time.Unix(chainCtx.TipTime+int64(deadline), 0),
	}
	s.armTimer()

	log.Infof("New forging candidate: account %x, nonce %d, quality %d, "+
		"deadline %ds (height %d)", sub.AccountID, sub.Nonce, sub.Quality,
		deadline, chainCtx.NextHeight)
}

// onDeadline fires when the candidate's forge time has passed.  The chain
// context is revalidated before the block is built: a changed height or
// generation signature abandons the candidate while a changed base target
// merely reschedules it.
func (s *Scheduler) onDeadline() {
	if s.candidate == nil {
		return
	}

	chainCtx, err := s.cfg.Chain.BestContext()
	if err != nil {
		log.Errorf("Unable to obtain chain context: %v", err)
		s.clearCandidate()
		return
	}

	if s.candidate.height != chainCtx.NextHeight ||
		s.candidate.genSig != chainCtx.NextGenSig {

		log.Debugf("Abandoning candidate for height %d: chain moved to %d",
			s.candidate.height, chainCtx.NextHeight)
		s.clearCandidate()
		return
	}

	// Same height and signature with a different base target means the
	// deadline shifted.  Recompute and wait again.
	if s.candidate.baseTarget != chainCtx.NextBaseTarget {
		deadline := standalone.CalcTimeBentDeadline(s.candidate.sub.Quality,
			chainCtx.NextBaseTarget,
			s.cfg.ChainParams.TargetSpacingSeconds())
		s.candidate.deadline = deadline
		s.candidate.baseTarget = chainCtx.NextBaseTarget
		s.candidate.tipTime = chainCtx.TipTime
		s.candidate.forgeTime = time.Unix(chainCtx.TipTime+int64(deadline), 0)
		s.armTimer()
		log.Debugf("Base target changed, rescheduling candidate with "+
			"deadline %ds", deadline)
		return
	}

	if err := s.forgeCandidateBlock(); err != nil {
		// A signing failure keeps the candidate so a later wakeup can
		// retry it; anything else discards it.
		if errors.Is(err, ErrSigningFailed) {
			log.Errorf("Unable to sign forged block, keeping candidate: %v",
				err)
			return
		}
		log.Errorf("Unable to forge block: %v", err)
	}
	s.clearCandidate()
}

// maybeDefensiveForge checks whether the new tip competes with the
// candidate at the same height with a worse (higher) quality and forges
// immediately when it does.  Publishing the known lower quality block forces
// the network to settle on the deterministic tie-break.
func (s *Scheduler) maybeDefensiveForge(chainCtx *ChainContext) {
	if chainCtx.TipPrevHash != s.candidate.tipHash {
		// A reorg rather than a same-height competition.
		return
	}
	if s.candidate.sub.Quality >= chainCtx.TipQuality {
		return
	}

	log.Infof("Defensive forging: candidate quality %d beats arriving "+
		"block quality %d at height %d", s.candidate.sub.Quality,
		chainCtx.TipQuality, s.candidate.height)
	if err := s.forgeCandidateBlock(); err != nil {
		log.Errorf("Defensive forge failed: %v", err)
	}
}

// forgeCandidateBlock builds, signs and submits a block for the current
// candidate.
func (s *Scheduler) forgeCandidateBlock() error {
	c := s.candidate
	block, err := s.cfg.Assembler.BuildBlock(c.sub.AccountID, c.sub.Seed,
		c.sub.Nonce, c.sub.Quality, c.sub.Compression, c.height)
	if err != nil {
		return err
	}

	if err := s.cfg.SubmitBlock(block); err != nil {
		str := "submission sink rejected block: " + err.Error()
		return makeError(ErrSubmitFailed, str)
	}

	log.Infof("Forged block %v at height %d (nonce %d, quality %d, "+
		"deadline %ds)", block.BlockHash(), c.height, c.sub.Nonce,
		c.sub.Quality, c.deadline)
	return nil
}
