// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package shabal256 implements the Shabal-256 hash function in the block
oriented form required by the proof-of-capacity plot format.

Unlike a conventional streaming hash, callers provide whole 64-byte message
blocks plus explicit pre-terminator and terminator blocks.  The plot
generator derives those terminator blocks from template material (seed,
account identifier and nonce counters) instead of from padding, so the usual
incremental Write/Sum interface does not fit.

The package also provides the "lite" variant which compresses exactly two
blocks built from a 64-byte scoop and a 32-byte generation signature and
returns a single 64-bit word of the digest.  It is the primitive behind
quality evaluation.
*/
package shabal256
