// Copyright (c) 2019-2022 The Decred developers
// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package standalone provides standalone functions useful for working with the
pocx blockchain consensus rules.

The primary goal of offering these functions via a separate module is to
reduce the required dependencies to a minimum as compared to the blockchain
manager itself.

It provides functions for the portions of the proof of capacity consensus
that are pure computation over their inputs:

  - Base target (difficulty) schedule over a rolling window
  - Deterministic generation signature schedule
  - The time-bending transform from raw quality to wall-clock deadline
  - Integer cube root over unsigned 256-bit integers
  - Compression bound schedule
  - Merkle root calculation over transaction hashes
  - Block signing hashes and recoverable compact signature checks

Errors returned by this package are of type standalone.RuleError which has
full support for the standard library errors.Is and errors.As functions.
*/
package standalone
