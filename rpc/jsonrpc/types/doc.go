// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package types implements concrete types for marshalling to and from the
pocxd JSON-RPC commands, return values, and notifications.

The commands handled by this package are registered with the dcrjson
package so they can be round-tripped through its generic marshalling
machinery.
*/
package types
