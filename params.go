// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/pocx-project/pocxd/chaincfg"
)

// activeNetParams is a pointer to the parameters specific to the currently
// active pocx network.
var activeNetParams = chaincfg.MainNetParams()
