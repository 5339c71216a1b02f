// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2024 The Decred developers
// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
pocxd is a proof-of-capacity chain daemon.

Miners pre-compute large plot files bound to their account identifier and,
for every new block, submit the single nonce whose derived quality best
matches the current generation signature.  pocxd validates those
submissions, waits out the winning candidate's time-bent deadline, and
forges a signed block.

Usage:

	pocxd [OPTIONS]

Use pocxd -h to show the available options, which include the network
selection flags (--testnet, --regnet), the JSON-RPC server configuration
(--rpcuser, --rpcpass, --rpclisten, --notls) and the block signing keys
(--signingkey, --generatekey).

The JSON-RPC interface exposes the mining surface (get_mining_info,
submit_nonce) and the forging assignment surface (get_assignment,
create_assignment, revoke_assignment).
*/
package main
