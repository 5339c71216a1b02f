// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2015-2023 The Decred developers
// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import "time"

// RegNetParams returns the network parameters for the regression test
// network.  It is intended for automated testing and low capacity
// development mining, so the genesis base target is calibrated for a hand
// full of nonces rather than terabytes of plots and assignments activate
// after only a few blocks.
func RegNetParams() *Params {
	return &Params{
		Name:           "regnet",
		Net:            RegNet,
		DefaultRPCPort: "18656",
		AddressHRP:     "rpocx",

		GenesisHash: mustHashFromStr("674e20a9ca0e62ed6d78c44f24d2a9ab" +
			"1e2e2c4d52a3f27ac6a1b9dbbf2e73a1",
		),
		GenesisGenerationSignature: mustHashFromStr("1f62c5a28c7b5ac1c4f0" +
			"a08ae23ad1e9c2da8bbcd0f35ea6931e2c7d31b54fe2"),
		GenesisTimestamp: 1725321600, // 2024-09-03 00:00:00 +0000 UTC

		TargetTimePerBlock:     time.Second * 10,
		DiffWindowSize:         8,
		LowCapacityCalibration: true,
		SubsidyHalvingInterval: 1000,
		AssignmentDelay:        4,
	}
}
