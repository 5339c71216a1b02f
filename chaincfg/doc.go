// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package chaincfg defines chain configuration parameters.

In addition to the main pocx network, which is intended for the transfer of
monetary value, there is a public test network and a regression test network
for automated testing.  The regression test network sets
LowCapacityCalibration which raises the genesis base target numerator from
2^42 to 2^60 so blocks can be forged from a 4 MiB plot instead of a
terabyte-class one.

Rather than exporting package-level variables, callers obtain a fresh
*Params from MainNetParams, TestNetParams or RegNetParams so tests can
modify their copy without affecting other consumers.
*/
package chaincfg
