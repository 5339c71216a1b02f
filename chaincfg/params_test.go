// Copyright (c) 2016 The btcsuite developers
// Copyright (c) 2017-2022 The Decred developers
// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"testing"
)

// TestRequiredUnique ensures that the network parameter fields that must be
// unique per network actually are.
func TestRequiredUnique(t *testing.T) {
	allParams := []*Params{MainNetParams(), TestNetParams(), RegNetParams()}

	nets := make(map[CurrencyNet]struct{})
	hrps := make(map[string]struct{})
	hashes := make(map[string]struct{})
	for _, params := range allParams {
		if _, ok := nets[params.Net]; ok {
			t.Errorf("%s: duplicate network magic %08x", params.Name,
				uint32(params.Net))
		}
		nets[params.Net] = struct{}{}

		if _, ok := hrps[params.AddressHRP]; ok {
			t.Errorf("%s: duplicate address prefix %q", params.Name,
				params.AddressHRP)
		}
		hrps[params.AddressHRP] = struct{}{}

		if _, ok := hashes[params.GenesisHash.String()]; ok {
			t.Errorf("%s: duplicate genesis hash", params.Name)
		}
		hashes[params.GenesisHash.String()] = struct{}{}
	}
}

// TestParamsSanity ensures the invariants the consensus code relies on hold
// for every registered network.
func TestParamsSanity(t *testing.T) {
	for _, params := range []*Params{MainNetParams(), TestNetParams(),
		RegNetParams()} {

		if params.TargetSpacingSeconds() <= 0 {
			t.Errorf("%s: non-positive target spacing", params.Name)
		}
		if params.DiffWindowSize <= 0 {
			t.Errorf("%s: non-positive difficulty window", params.Name)
		}
		if params.AssignmentDelay <= 0 {
			t.Errorf("%s: non-positive assignment delay", params.Name)
		}
		if params.SubsidyHalvingInterval%4 != 0 {
			t.Errorf("%s: halving interval is not divisible into years",
				params.Name)
		}
	}
}

// TestFreshParams ensures the constructors return independent copies so a
// caller mutating its parameters cannot affect other consumers.
func TestFreshParams(t *testing.T) {
	first := RegNetParams()
	first.AssignmentDelay = 9999
	if second := RegNetParams(); second.AssignmentDelay == 9999 {
		t.Fatal("parameter constructors share state")
	}
}
