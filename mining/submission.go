// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mining

import (
	"sync"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// MaxQueueSize is the maximum number of nonce submissions the scheduler
// queue holds before it applies backpressure to submitters.
const MaxQueueSize = 1000

// NonceSubmission is a miner's claim that the given nonce of the given plot
// produces the given quality for an upcoming block.  The expected height and
// generation signature pin the claim to the chain context the miner computed
// it against; the scheduler drops the submission when that context is no
// longer current.
//
// Submissions carry no arrival timestamp: the queue is strictly FIFO and
// the scheduler only replaces its candidate on a strictly lower quality, so
// the first submission seen wins ties by construction.
type NonceSubmission struct {
	AccountID           [20]byte
	Seed                [32]byte
	Nonce               uint64
	Quality             uint64
	Compression         uint32
	Height              int64
	GenerationSignature chainhash.Hash
}

// submissionQueue is a bounded FIFO of nonce submissions.  Submit applies
// backpressure by returning false when the queue is full and permanently
// after Close.
type submissionQueue struct {
	mtx    sync.Mutex
	items  chan NonceSubmission
	closed bool
}

// newSubmissionQueue returns a queue bounded to the provided capacity.
func newSubmissionQueue(capacity int) *submissionQueue {
	return &submissionQueue{items: make(chan NonceSubmission, capacity)}
}

// Submit enqueues the submission.  It returns false when the queue is full
// or closed.
func (q *submissionQueue) Submit(sub NonceSubmission) bool {
	q.mtx.Lock()
	defer q.mtx.Unlock()

	if q.closed {
		return false
	}
	select {
	case q.items <- sub:
		return true
	default:
		return false
	}
}

// Close marks the queue closed.  Pending items remain receivable; further
// Submit calls return false.
func (q *submissionQueue) Close() {
	q.mtx.Lock()
	defer q.mtx.Unlock()

	if !q.closed {
		q.closed = true
		close(q.items)
	}
}

// C returns the receive side of the queue.
func (q *submissionQueue) C() <-chan NonceSubmission {
	return q.items
}
