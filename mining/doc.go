// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package mining implements the forging side of the proof of capacity
consensus: a bounded nonce submission queue, the single-worker scheduler
that waits out deadlines and reacts to chain tip changes, and the block
assembler that turns the winning candidate into a signed block.

Miners scan their plots externally and submit their best nonce per block
through the RPC layer.  The scheduler keeps only the best acceptable
candidate, sleeps until the candidate's deadline, revalidates the chain
context on wake and hands the assembled, signed block to the submission
sink.  When a competing block for the contested height arrives and the local
candidate has the lower (better) quality, the scheduler forges immediately
so the network can settle on the deterministic tie-break.
*/
package mining
