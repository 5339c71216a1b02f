// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package assignment

import (
	"bytes"
	"fmt"

	"github.com/decred/dcrd/txscript/v4"
)

// Markers that distinguish assignment payloads from arbitrary OP_RETURN
// data.  "POCX" announces an assignment, "XCOP" a revocation.
var (
	assignmentMarker = []byte("POCX")
	revocationMarker = []byte("XCOP")
)

const (
	// assignmentPayloadLen is the length of an assignment payload:
	// marker + plot address + forging address.
	assignmentPayloadLen = 4 + 20 + 20

	// revocationPayloadLen is the length of a revocation payload:
	// marker + plot address.
	revocationPayloadLen = 4 + 20

	// scriptVersion is the script version assignment outputs use.
	scriptVersion uint16 = 0
)

// NewAssignmentScript returns the OP_RETURN script announcing the delegation
// of forging rights for plotAddr to forgeAddr.
func NewAssignmentScript(plotAddr, forgeAddr [20]byte) ([]byte, error) {
	payload := make([]byte, 0, assignmentPayloadLen)
	payload = append(payload, assignmentMarker...)
	payload = append(payload, plotAddr[:]...)
	payload = append(payload, forgeAddr[:]...)
	return txscript.NewScriptBuilder().AddOp(txscript.OP_RETURN).
		AddData(payload).Script()
}

// NewRevocationScript returns the OP_RETURN script revoking any delegation
// of forging rights for plotAddr.
func NewRevocationScript(plotAddr [20]byte) ([]byte, error) {
	payload := make([]byte, 0, revocationPayloadLen)
	payload = append(payload, revocationMarker...)
	payload = append(payload, plotAddr[:]...)
	return txscript.NewScriptBuilder().AddOp(txscript.OP_RETURN).
		AddData(payload).Script()
}

// extractMarkerPayload returns the single pushed payload of a strict
// OP_RETURN script of the exact expected length carrying the expected
// marker.  Any deviation from the strict form fails: a missing OP_RETURN, a
// non-canonical or wrongly sized push, a marker mismatch, or trailing
// opcodes.
func extractMarkerPayload(script []byte, marker []byte, payloadLen int) ([]byte, error) {
	tokenizer := txscript.MakeScriptTokenizer(scriptVersion, script)
	if !tokenizer.Next() || tokenizer.Opcode() != txscript.OP_RETURN {
		return nil, makeError(ErrNotAssignmentScript, "script does not "+
			"start with OP_RETURN")
	}
	if !tokenizer.Next() {
		return nil, makeError(ErrNotAssignmentScript, "script has no data "+
			"push")
	}
	data := tokenizer.Data()
	if len(data) != payloadLen {
		str := fmt.Sprintf("payload is %d bytes instead of %d", len(data),
			payloadLen)
		return nil, makeError(ErrNotAssignmentScript, str)
	}
	if tokenizer.Opcode() != byte(payloadLen) {
		return nil, makeError(ErrNotAssignmentScript, "payload push is "+
			"not canonical")
	}
	if tokenizer.Next() || tokenizer.Err() != nil || !tokenizer.Done() {
		return nil, makeError(ErrNotAssignmentScript, "trailing opcodes "+
			"after payload")
	}
	if !bytes.Equal(data[:4], marker) {
		return nil, makeError(ErrNotAssignmentScript, "marker mismatch")
	}
	return data, nil
}

// ParseAssignmentScript parses a strict assignment OP_RETURN script and
// returns the plot and forging addresses it commits to.
func ParseAssignmentScript(script []byte) (plotAddr, forgeAddr [20]byte, err error) {
	payload, err := extractMarkerPayload(script, assignmentMarker,
		assignmentPayloadLen)
	if err != nil {
		return plotAddr, forgeAddr, err
	}
	copy(plotAddr[:], payload[4:24])
	copy(forgeAddr[:], payload[24:44])
	return plotAddr, forgeAddr, nil
}

// ParseRevocationScript parses a strict revocation OP_RETURN script and
// returns the plot address it commits to.
func ParseRevocationScript(script []byte) (plotAddr [20]byte, err error) {
	payload, err := extractMarkerPayload(script, revocationMarker,
		revocationPayloadLen)
	if err != nil {
		return plotAddr, err
	}
	copy(plotAddr[:], payload[4:24])
	return plotAddr, nil
}

// IsAssignmentScript returns whether the script is a strict assignment
// OP_RETURN.
func IsAssignmentScript(script []byte) bool {
	_, _, err := ParseAssignmentScript(script)
	return err == nil
}

// IsRevocationScript returns whether the script is a strict revocation
// OP_RETURN.
func IsRevocationScript(script []byte) bool {
	_, err := ParseRevocationScript(script)
	return err == nil
}
