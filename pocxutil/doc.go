// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package pocxutil provides pocx-specific convenience functions and types.

It contains the Hash160 construction that binds compressed public keys to
20-byte account identifiers and the bech32 address encoding used to present
those identifiers to users.  Account identifiers double as the payment and
plot addresses of the chain, so everything here is witness-v0-keyhash only.
*/
package pocxutil
