// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package assignment

import (
	"bytes"
	"io"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// ForgingState describes the observable delegation state of a plot address
// at a particular height.  It is always derived from the stored record and
// never stored itself.
type ForgingState byte

// The possible delegation states in lifecycle order.
const (
	StateUnassigned ForgingState = iota
	StateAssigning
	StateAssigned
	StateRevoking
	StateRevoked
)

// String returns the ForgingState as a human-readable name.
func (s ForgingState) String() string {
	switch s {
	case StateUnassigned:
		return "UNASSIGNED"
	case StateAssigning:
		return "ASSIGNING"
	case StateAssigned:
		return "ASSIGNED"
	case StateRevoking:
		return "REVOKING"
	case StateRevoked:
		return "REVOKED"
	}
	return "UNKNOWN"
}

// ForgingAssignment is the per-plot delegation record owned by the chain
// state.  The height pairs are monotone: a change is confirmed at the lower
// height and takes effect at the higher one.
type ForgingAssignment struct {
	PlotAddress    [20]byte
	ForgingAddress [20]byte

	AssignmentTxID            chainhash.Hash
	AssignmentHeight          int64
	AssignmentEffectiveHeight int64

	Revoked                   bool
	RevocationTxID            chainhash.Hash
	RevocationHeight          int64
	RevocationEffectiveHeight int64
}

// StateAtHeight derives the delegation state of the record at the provided
// height.
func (a *ForgingAssignment) StateAtHeight(height int64) ForgingState {
	if a.Revoked {
		if height < a.RevocationEffectiveHeight {
			return StateRevoking
		}
		return StateRevoked
	}
	if height < a.AssignmentEffectiveHeight {
		return StateAssigning
	}
	return StateAssigned
}

// ActiveAtHeight returns whether the forging address is the effective signer
// at the provided height.  The assignee signs throughout ASSIGNING (the
// delegation is committed even though minting activation waits for the
// effective height) and keeps signing throughout REVOKING until the
// revocation takes effect.  Changing this window is a hard fork.
func (a *ForgingAssignment) ActiveAtHeight(height int64) bool {
	switch a.StateAtHeight(height) {
	case StateAssigning, StateAssigned, StateRevoking:
		return true
	}
	return false
}

// Serialize encodes the record to w.
func (a *ForgingAssignment) Serialize(w io.Writer) error {
	if _, err := w.Write(a.PlotAddress[:]); err != nil {
		return err
	}
	if _, err := w.Write(a.ForgingAddress[:]); err != nil {
		return err
	}
	if _, err := w.Write(a.AssignmentTxID[:]); err != nil {
		return err
	}
	if err := writeInt64(w, a.AssignmentHeight); err != nil {
		return err
	}
	if err := writeInt64(w, a.AssignmentEffectiveHeight); err != nil {
		return err
	}
	revoked := byte(0)
	if a.Revoked {
		revoked = 1
	}
	if _, err := w.Write([]byte{revoked}); err != nil {
		return err
	}
	if !a.Revoked {
		return nil
	}
	if _, err := w.Write(a.RevocationTxID[:]); err != nil {
		return err
	}
	if err := writeInt64(w, a.RevocationHeight); err != nil {
		return err
	}
	return writeInt64(w, a.RevocationEffectiveHeight)
}

// Deserialize decodes the record from r.
func (a *ForgingAssignment) Deserialize(r io.Reader) error {
	if _, err := io.ReadFull(r, a.PlotAddress[:]); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, a.ForgingAddress[:]); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, a.AssignmentTxID[:]); err != nil {
		return err
	}
	var err error
	if a.AssignmentHeight, err = readInt64(r); err != nil {
		return err
	}
	if a.AssignmentEffectiveHeight, err = readInt64(r); err != nil {
		return err
	}
	var revoked [1]byte
	if _, err := io.ReadFull(r, revoked[:]); err != nil {
		return err
	}
	a.Revoked = revoked[0] != 0
	if !a.Revoked {
		a.RevocationTxID = chainhash.Hash{}
		a.RevocationHeight = 0
		a.RevocationEffectiveHeight = 0
		return nil
	}
	if _, err := io.ReadFull(r, a.RevocationTxID[:]); err != nil {
		return err
	}
	if a.RevocationHeight, err = readInt64(r); err != nil {
		return err
	}
	a.RevocationEffectiveHeight, err = readInt64(r)
	return err
}

// Bytes returns the serialized record.
func (a *ForgingAssignment) Bytes() []byte {
	var buf bytes.Buffer
	_ = a.Serialize(&buf)
	return buf.Bytes()
}

func writeInt64(w io.Writer, v int64) error {
	var buf [8]byte
	for i := uint(0); i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	_, err := w.Write(buf[:])
	return err
}

func readInt64(r io.Reader) (int64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	var v uint64
	for i := uint(0); i < 8; i++ {
		v |= uint64(buf[i]) << (8 * i)
	}
	return int64(v), nil
}
