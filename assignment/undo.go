// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package assignment

import (
	"bytes"
	"io"
)

// UndoType describes which kind of mutation an undo record reverses.
type UndoType byte

// The possible undo record types.
const (
	// UndoAdded means an assignment was inserted where none existed; the
	// undo deletes it.
	UndoAdded UndoType = iota

	// UndoModified means an existing assignment was overwritten; the undo
	// restores the previous record.
	UndoModified

	// UndoRevoked means an assignment was marked revoked; the undo
	// restores the pre-revocation record.
	UndoRevoked
)

// UndoRecord captures a single assignment mutation performed while
// connecting a block so a disconnect can reverse it exactly.
type UndoRecord struct {
	Type UndoType

	// Assignment is the full record before the change.  For UndoAdded it
	// identifies the plot address whose record must be deleted.
	Assignment ForgingAssignment
}

// Serialize encodes the undo record to w.
func (u *UndoRecord) Serialize(w io.Writer) error {
	if _, err := w.Write([]byte{byte(u.Type)}); err != nil {
		return err
	}
	return u.Assignment.Serialize(w)
}

// Deserialize decodes the undo record from r.
func (u *UndoRecord) Deserialize(r io.Reader) error {
	var t [1]byte
	if _, err := io.ReadFull(r, t[:]); err != nil {
		return err
	}
	u.Type = UndoType(t[0])
	return u.Assignment.Deserialize(r)
}

// SerializeUndoRecords encodes a block's undo records as a length-prefixed
// list.
func SerializeUndoRecords(records []UndoRecord) []byte {
	var buf bytes.Buffer
	_ = writeInt64(&buf, int64(len(records)))
	for i := range records {
		_ = records[i].Serialize(&buf)
	}
	return buf.Bytes()
}

// DeserializeUndoRecords decodes a block's undo records.
func DeserializeUndoRecords(b []byte) ([]UndoRecord, error) {
	r := bytes.NewReader(b)
	count, err := readInt64(r)
	if err != nil {
		return nil, err
	}
	if count < 0 || count > int64(len(b)) {
		return nil, makeError(ErrStoreCorruption, "undo record count is "+
			"not sane")
	}
	records := make([]UndoRecord, count)
	for i := range records {
		if err := records[i].Deserialize(r); err != nil {
			return nil, makeError(ErrStoreCorruption, "undo record failed "+
				"to decode: "+err.Error())
		}
	}
	return records, nil
}
