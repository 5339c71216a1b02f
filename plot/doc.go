// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package plot implements deterministic proof-of-capacity plot generation and
quality evaluation.

A plot nonce is a 256 KiB buffer derived from an account identifier, a
per-plot seed, and a 64-bit nonce counter through a chain of Shabal-256
hashes.  Each nonce is split into 4096 aligned 64-byte scoops which are laid
out interleaved so scoop pairs (i, 4095-i) land next to each other on disk.

Quality evaluation reconstructs a single scoop for a candidate nonce at a
given compression level, XOR-folding 2^compression generated nonces, and
hashes it together with the block generation signature into a 64-bit quality
where lower is better.
*/
package plot
