// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package assignment implements forging assignments: the delegation of block
signing rights from a plot address to a forging address.

Assignments are recorded on chain through OP_RETURN outputs carrying the
"POCX" marker and revoked through outputs carrying the "XCOP" marker.  A
transaction carrying either marker must additionally spend at least one coin
paying to the plot address, which proves the plot owner authorized the
change through the ordinary script machinery; no dedicated signature scheme
is introduced.

The stored record is the full assignment history for a plot address.  The
observable state at a height is always derived from the record:

	UNASSIGNED -> ASSIGNING -> ASSIGNED -> REVOKING -> REVOKED

where the two transitional states cover the delay between the confirmation
of a change and the height it takes effect.  Throughout ASSIGNING, ASSIGNED
and REVOKING the forging address is the effective signer; before and after
the plot owner signs for itself.

State changes are applied on block connect and reverted exactly on block
disconnect through undo records, mirroring how the surrounding chain handles
transaction undo data.
*/
package assignment
