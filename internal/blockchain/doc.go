// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package blockchain implements a minimal chain manager for the proof of
capacity consensus.

It maintains an in-memory block index with a single best chain, performs the
full contextual validation of incoming blocks (height, generation signature
and base target schedules, compression bounds, proof quality recomputation,
deadline enforcement, merkle commitment and block signatures including
effective-signer policy), applies forging assignment mutations with exact
undo journals, and keeps just enough unspent output state to prove plot
ownership and fund assignment transactions.

Block and transaction storage, mempool policy and script execution are the
domain of the surrounding node software and are deliberately not part of
this package.
*/
package blockchain
