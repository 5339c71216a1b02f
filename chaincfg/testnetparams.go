// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2015-2023 The Decred developers
// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import "time"

// TestNetParams returns the network parameters for the test network.
func TestNetParams() *Params {
	return &Params{
		Name:           "testnet",
		Net:            TestNet,
		DefaultRPCPort: "19109",
		AddressHRP:     "tpocx",

		GenesisHash: mustHashFromStr("5b7466edf6739adc9b32aaedc54e24bf" +
			"91ae61e44347de2b48e7f292054a27c3"),
		GenesisGenerationSignature: mustHashFromStr("7fd1a0e4cdd5e14b1ac5" +
			"a5d3f0ee52ce8f7b8d0153c2a04ab6c3e3a92f65b8de"),
		GenesisTimestamp: 1725321600, // 2024-09-03 00:00:00 +0000 UTC

		TargetTimePerBlock:     time.Minute * 2,
		DiffWindowSize:         24,
		LowCapacityCalibration: false,
		SubsidyHalvingInterval: 210000,
		AssignmentDelay:        36,
	}
}
