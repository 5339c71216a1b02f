// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"fmt"
	"io"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

const (
	// TxVersion is the current latest supported transaction version.
	TxVersion uint16 = 1

	// maxTxInPerMessage and maxTxOutPerMessage are sanity bounds on the
	// number of inputs and outputs a deserialized transaction may carry.
	maxTxInPerMessage  = 1 << 14
	maxTxOutPerMessage = 1 << 14
)

// OutPoint defines a data type that is used to track previous transaction
// outputs.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// NewOutPoint returns a new transaction outpoint point with the provided
// hash and index.
func NewOutPoint(hash *chainhash.Hash, index uint32) *OutPoint {
	return &OutPoint{Hash: *hash, Index: index}
}

// String returns the OutPoint in the human-readable form "hash:index".
func (o OutPoint) String() string {
	return fmt.Sprintf("%v:%d", o.Hash, o.Index)
}

// TxIn defines a transaction input.
type TxIn struct {
	PreviousOutPoint OutPoint
	Sequence         uint32
	SignatureScript  []byte
	Witness          [][]byte
}

// TxOut defines a transaction output.
type TxOut struct {
	Value    int64
	PkScript []byte
}

// MsgTx represents a transaction message.  Script interpretation is out of scope for this module; the
// structure exists so assignment transactions and coinbases can be carried
// in blocks and identified by hash.
type MsgTx struct {
	Version  uint16
	TxIn     []*TxIn
	TxOut    []*TxOut
	LockTime uint32
}

// NewMsgTx returns a new tx message with the current transaction version.
func NewMsgTx() *MsgTx {
	return &MsgTx{Version: TxVersion}
}

// AddTxIn adds a transaction input to the message.
func (msg *MsgTx) AddTxIn(ti *TxIn) {
	msg.TxIn = append(msg.TxIn, ti)
}

// AddTxOut adds a transaction output to the message.
func (msg *MsgTx) AddTxOut(to *TxOut) {
	msg.TxOut = append(msg.TxOut, to)
}

// serialize encodes the transaction to w.  Witness data is only included
// when withWitness is set; the transaction hash commits to the witness-free
// encoding.
func (msg *MsgTx) serialize(w io.Writer, withWitness bool) error {
	if err := writeUint32(w, uint32(msg.Version)); err != nil {
		return err
	}
	if err := WriteVarInt(w, uint64(len(msg.TxIn))); err != nil {
		return err
	}
	for _, ti := range msg.TxIn {
		if _, err := w.Write(ti.PreviousOutPoint.Hash[:]); err != nil {
			return err
		}
		if err := writeUint32(w, ti.PreviousOutPoint.Index); err != nil {
			return err
		}
		if err := writeUint32(w, ti.Sequence); err != nil {
			return err
		}
		if err := WriteVarBytes(w, ti.SignatureScript); err != nil {
			return err
		}
	}
	if err := WriteVarInt(w, uint64(len(msg.TxOut))); err != nil {
		return err
	}
	for _, to := range msg.TxOut {
		if err := writeUint64(w, uint64(to.Value)); err != nil {
			return err
		}
		if err := WriteVarBytes(w, to.PkScript); err != nil {
			return err
		}
	}
	if err := writeUint32(w, msg.LockTime); err != nil {
		return err
	}

	if !withWitness {
		return nil
	}
	for _, ti := range msg.TxIn {
		if err := WriteVarInt(w, uint64(len(ti.Witness))); err != nil {
			return err
		}
		for _, item := range ti.Witness {
			if err := WriteVarBytes(w, item); err != nil {
				return err
			}
		}
	}
	return nil
}

// Serialize encodes the transaction including witness data to w.
func (msg *MsgTx) Serialize(w io.Writer) error {
	return msg.serialize(w, true)
}

// Deserialize decodes a transaction from r.
func (msg *MsgTx) Deserialize(r io.Reader) error {
	version, err := readUint32(r)
	if err != nil {
		return err
	}
	msg.Version = uint16(version)

	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > maxTxInPerMessage {
		str := fmt.Sprintf("too many transaction inputs [%d]", count)
		return messageError("MsgTx.Deserialize", ErrTooManyTxIns, str)
	}
	msg.TxIn = make([]*TxIn, 0, count)
	for i := uint64(0); i < count; i++ {
		ti := TxIn{}
		if _, err := io.ReadFull(r, ti.PreviousOutPoint.Hash[:]); err != nil {
			return err
		}
		if ti.PreviousOutPoint.Index, err = readUint32(r); err != nil {
			return err
		}
		if ti.Sequence, err = readUint32(r); err != nil {
			return err
		}
		if ti.SignatureScript, err = ReadVarBytes(r, "signature script"); err != nil {
			return err
		}
		msg.TxIn = append(msg.TxIn, &ti)
	}

	count, err = ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > maxTxOutPerMessage {
		str := fmt.Sprintf("too many transaction outputs [%d]", count)
		return messageError("MsgTx.Deserialize", ErrTooManyTxOuts, str)
	}
	msg.TxOut = make([]*TxOut, 0, count)
	for i := uint64(0); i < count; i++ {
		to := TxOut{}
		value, err := readUint64(r)
		if err != nil {
			return err
		}
		to.Value = int64(value)
		if to.PkScript, err = ReadVarBytes(r, "pk script"); err != nil {
			return err
		}
		msg.TxOut = append(msg.TxOut, &to)
	}

	if msg.LockTime, err = readUint32(r); err != nil {
		return err
	}

	for _, ti := range msg.TxIn {
		witCount, err := ReadVarInt(r)
		if err != nil {
			return err
		}
		if witCount > maxTxInPerMessage {
			str := fmt.Sprintf("too many witness items [%d]", witCount)
			return messageError("MsgTx.Deserialize", ErrTooManyTxIns, str)
		}
		ti.Witness = make([][]byte, 0, witCount)
		for i := uint64(0); i < witCount; i++ {
			item, err := ReadVarBytes(r, "witness item")
			if err != nil {
				return err
			}
			ti.Witness = append(ti.Witness, item)
		}
	}
	return nil
}

// Bytes returns the full serialized transaction.
func (msg *MsgTx) Bytes() []byte {
	var buf bytes.Buffer
	_ = msg.serialize(&buf, true)
	return buf.Bytes()
}

// TxHash generates the hash for the transaction.  The hash commits to the
// witness-free serialization so witness malleation cannot change it.
func (msg *MsgTx) TxHash() chainhash.Hash {
	var buf bytes.Buffer
	_ = msg.serialize(&buf, false)
	return chainhash.HashH(buf.Bytes())
}
