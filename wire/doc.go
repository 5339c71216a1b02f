// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package wire implements the pocx block and transaction wire representation.

The block header extends an ordinary chain header with the proof of capacity
consensus fields: the block height, the generation signature, the base
target, the PoC proof itself, and the forger's compressed public key and
65-byte recoverable compact signature.  The block hash commits to the whole
header with the signature field zeroed so the signature can cover the hash
of the block it is embedded in.
*/
package wire
