// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package assignment

import (
	"bytes"
	"testing"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// testRecord returns an assignment record confirmed at height 100 with an
// activation delay of 10, optionally revoked at height 150 with the same
// delay.
func testRecord(revoked bool) *ForgingAssignment {
	record := &ForgingAssignment{
		PlotAddress:               testPlotAddr,
		ForgingAddress:            testForgeAddr,
		AssignmentTxID:            chainhash.HashH([]byte("assign")),
		AssignmentHeight:          100,
		AssignmentEffectiveHeight: 110,
	}
	if revoked {
		record.Revoked = true
		record.RevocationTxID = chainhash.HashH([]byte("revoke"))
		record.RevocationHeight = 150
		record.RevocationEffectiveHeight = 160
	}
	return record
}

// TestStateAtHeight ensures the derived state table matches the lifecycle
// specification.
func TestStateAtHeight(t *testing.T) {
	tests := []struct {
		name    string
		revoked bool
		height  int64
		want    ForgingState
	}{
		{"before activation", false, 100, StateAssigning},
		{"just before activation", false, 109, StateAssigning},
		{"at activation", false, 110, StateAssigned},
		{"long after activation", false, 1000, StateAssigned},
		{"revoked before effect", true, 150, StateRevoking},
		{"revoked just before effect", true, 159, StateRevoking},
		{"revoked at effect", true, 160, StateRevoked},
		{"revoked long after effect", true, 5000, StateRevoked},
	}

	for _, test := range tests {
		record := testRecord(test.revoked)
		if got := record.StateAtHeight(test.height); got != test.want {
			t.Errorf("%s: state mismatch -- got %v, want %v", test.name,
				got, test.want)
		}
	}
}

// TestStateMonotone ensures the derived state never moves backwards in the
// lifecycle lattice as the height grows for a fixed record.
func TestStateMonotone(t *testing.T) {
	for _, revoked := range []bool{false, true} {
		record := testRecord(revoked)
		prev := record.StateAtHeight(0)
		for h := int64(1); h < 300; h++ {
			state := record.StateAtHeight(h)
			if state < prev {
				t.Fatalf("state regressed from %v to %v at height %d "+
					"(revoked=%v)", prev, state, h, revoked)
			}
			prev = state
		}
	}
}

// TestActiveAtHeight ensures the assignee signs throughout ASSIGNING,
// ASSIGNED and REVOKING and not outside that window.
func TestActiveAtHeight(t *testing.T) {
	record := testRecord(true)
	tests := []struct {
		height int64
		want   bool
	}{
		{105, true},  // ASSIGNING
		{120, true},  // ASSIGNED
		{155, true},  // REVOKING
		{160, false}, // REVOKED
		{400, false}, // REVOKED
	}
	for _, test := range tests {
		if got := record.ActiveAtHeight(test.height); got != test.want {
			t.Errorf("height %d: active mismatch -- got %v, want %v",
				test.height, got, test.want)
		}
	}
}

// TestRecordSerializeRoundTrip ensures records survive their serialization
// in both the revoked and unrevoked forms.
func TestRecordSerializeRoundTrip(t *testing.T) {
	for _, revoked := range []bool{false, true} {
		record := testRecord(revoked)
		var decoded ForgingAssignment
		err := decoded.Deserialize(bytes.NewReader(record.Bytes()))
		if err != nil {
			t.Fatalf("Deserialize: unexpected error: %v", err)
		}
		if decoded != *record {
			t.Fatalf("record round trip mismatch (revoked=%v)", revoked)
		}
	}
}

// TestUndoRecordsRoundTrip ensures undo journals survive their
// serialization.
func TestUndoRecordsRoundTrip(t *testing.T) {
	records := []UndoRecord{
		{Type: UndoAdded, Assignment: *testRecord(false)},
		{Type: UndoModified, Assignment: *testRecord(false)},
		{Type: UndoRevoked, Assignment: *testRecord(true)},
	}
	decoded, err := DeserializeUndoRecords(SerializeUndoRecords(records))
	if err != nil {
		t.Fatalf("DeserializeUndoRecords: unexpected error: %v", err)
	}
	if len(decoded) != len(records) {
		t.Fatalf("undo record count mismatch -- got %d, want %d",
			len(decoded), len(records))
	}
	for i := range records {
		if decoded[i] != records[i] {
			t.Fatalf("undo record %d mismatch", i)
		}
	}
}
