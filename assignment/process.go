// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package assignment

import (
	"fmt"

	"github.com/pocx-project/pocxd/pocxutil"
	"github.com/pocx-project/pocxd/wire"
)

// UtxoViewer provides access to the unspent outputs a transaction spends so
// ownership of the plot address can be proven.
type UtxoViewer interface {
	// FetchOutput returns the output the provided outpoint references or
	// nil when it is unknown or already spent.
	FetchOutput(op wire.OutPoint) (*wire.TxOut, error)
}

// Store extends View with the mutations block processing performs.
type Store interface {
	View

	// PutAssignment inserts or overwrites the record for its plot
	// address.
	PutAssignment(record *ForgingAssignment) error

	// DeleteAssignment removes the record for the provided plot address.
	DeleteAssignment(plotAddr [20]byte) error
}

// VerifyPlotOwnership returns whether at least one input of the transaction
// spends a coin paying to the plot address via a witness v0 keyhash script.
// The spend signature itself is validated by the ordinary script machinery,
// so a transaction that made it this far with such an input was necessarily
// authorized by the plot owner.
func VerifyPlotOwnership(tx *wire.MsgTx, plotAddr [20]byte, view UtxoViewer) (bool, error) {
	for _, txIn := range tx.TxIn {
		out, err := view.FetchOutput(txIn.PreviousOutPoint)
		if err != nil {
			return false, err
		}
		if out == nil {
			continue
		}
		hash, ok := pocxutil.ExtractWitnessKeyHash(out.PkScript)
		if !ok {
			continue
		}
		if hash == plotAddr {
			return true, nil
		}
	}
	return false, nil
}

// ConnectTransaction applies any assignment or revocation the transaction
// carries to the store and returns the undo records needed to reverse the
// mutations.  height is the height of the block being connected and delay
// the network's activation delay.
//
// A transaction with a well-formed marker but a failing ownership proof (or
// an invalid lifecycle transition) is a rule violation: the block carrying
// it must be rejected, so an error is returned rather than the marker being
// skipped.
func ConnectTransaction(store Store, tx *wire.MsgTx, utxos UtxoViewer,
	height, delay int64) ([]UndoRecord, error) {

	var undo []UndoRecord
	txHash := tx.TxHash()
	for _, txOut := range tx.TxOut {
		switch {
		case IsAssignmentScript(txOut.PkScript):
			plotAddr, forgeAddr, err := ParseAssignmentScript(txOut.PkScript)
			if err != nil {
				return nil, err
			}
			owned, err := VerifyPlotOwnership(tx, plotAddr, utxos)
			if err != nil {
				return nil, err
			}
			if !owned {
				str := fmt.Sprintf("assignment tx %v does not spend a "+
					"coin of plot %x", txHash, plotAddr)
				return nil, makeError(ErrOwnershipNotProven, str)
			}

			prev, err := store.Assignment(plotAddr)
			if err != nil {
				return nil, err
			}
			record := &ForgingAssignment{
				PlotAddress:               plotAddr,
				ForgingAddress:            forgeAddr,
				AssignmentTxID:            txHash,
				AssignmentHeight:          height,
				AssignmentEffectiveHeight: height + delay,
			}
			if err := store.PutAssignment(record); err != nil {
				return nil, err
			}
			if prev != nil {
				undo = append(undo, UndoRecord{Type: UndoModified,
					Assignment: *prev})
			} else {
				undo = append(undo, UndoRecord{Type: UndoAdded,
					Assignment: *record})
			}

		case IsRevocationScript(txOut.PkScript):
			plotAddr, err := ParseRevocationScript(txOut.PkScript)
			if err != nil {
				return nil, err
			}
			owned, err := VerifyPlotOwnership(tx, plotAddr, utxos)
			if err != nil {
				return nil, err
			}
			if !owned {
				str := fmt.Sprintf("revocation tx %v does not spend a "+
					"coin of plot %x", txHash, plotAddr)
				return nil, makeError(ErrOwnershipNotProven, str)
			}

			prev, err := store.Assignment(plotAddr)
			if err != nil {
				return nil, err
			}
			if prev == nil {
				str := fmt.Sprintf("revocation tx %v for unassigned "+
					"plot %x", txHash, plotAddr)
				return nil, makeError(ErrNoAssignment, str)
			}
			if prev.Revoked {
				str := fmt.Sprintf("revocation tx %v for already revoked "+
					"plot %x", txHash, plotAddr)
				return nil, makeError(ErrAlreadyRevoked, str)
			}

			record := *prev
			record.Revoked = true
			record.RevocationTxID = txHash
			record.RevocationHeight = height
			record.RevocationEffectiveHeight = height + delay
			if err := store.PutAssignment(&record); err != nil {
				return nil, err
			}
			undo = append(undo, UndoRecord{Type: UndoRevoked,
				Assignment: *prev})
		}
	}
	return undo, nil
}

// DisconnectUndo reverses the mutations captured by the provided undo
// records.  Records must be applied in reverse order of their creation,
// which this function takes care of.
func DisconnectUndo(store Store, records []UndoRecord) error {
	for i := len(records) - 1; i >= 0; i-- {
		record := &records[i]
		switch record.Type {
		case UndoAdded:
			err := store.DeleteAssignment(record.Assignment.PlotAddress)
			if err != nil {
				return err
			}

		case UndoModified, UndoRevoked:
			restored := record.Assignment
			if err := store.PutAssignment(&restored); err != nil {
				return err
			}

		default:
			str := fmt.Sprintf("unknown undo record type %d", record.Type)
			return makeError(ErrStoreCorruption, str)
		}
	}
	return nil
}
