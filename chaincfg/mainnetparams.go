// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2015-2023 The Decred developers
// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import "time"

// MainNetParams returns the network parameters for the main pocx network.
func MainNetParams() *Params {
	return &Params{
		Name:           "mainnet",
		Net:            MainNet,
		DefaultRPCPort: "9109",
		AddressHRP:     "pocx",

		GenesisHash: mustHashFromStr("2a0c4269ea9e2bc01ae8f0f4a56c4f9f" +
			"013471e42d9bbd9c8a70c48b2e84b05e"),
		GenesisGenerationSignature: mustHashFromStr("bd42b2f48868c78f9e6d" +
			"20d1d2d9be93a9b8d1e3f834276283bd9a9857c264ae"),
		GenesisTimestamp: 1725321600, // 2024-09-03 00:00:00 +0000 UTC

		TargetTimePerBlock:     time.Minute * 10,
		DiffWindowSize:         24,
		LowCapacityCalibration: false,
		SubsidyHalvingInterval: 210000,
		AssignmentDelay:        360,
	}
}
