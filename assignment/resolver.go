// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package assignment

// View provides read access to the assignment records owned by the chain
// state.
type View interface {
	// Assignment returns the stored record for the provided plot address
	// or nil when there is none.
	Assignment(plotAddr [20]byte) (*ForgingAssignment, error)
}

// EffectiveSigner returns the account authorized to sign blocks for the
// provided plot address at the provided height: the forging address while an
// assignment is active, the plot address itself otherwise.
func EffectiveSigner(view View, plotAddr [20]byte, height int64) ([20]byte, error) {
	record, err := view.Assignment(plotAddr)
	if err != nil {
		return [20]byte{}, err
	}
	if record != nil && record.ActiveAtHeight(height) {
		return record.ForgingAddress, nil
	}
	return plotAddr, nil
}

// StateAt returns the derived delegation state for the provided plot address
// at the provided height.
func StateAt(view View, plotAddr [20]byte, height int64) (ForgingState, error) {
	record, err := view.Assignment(plotAddr)
	if err != nil {
		return StateUnassigned, err
	}
	if record == nil {
		return StateUnassigned, nil
	}
	return record.StateAtHeight(height), nil
}
