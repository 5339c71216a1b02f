// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"
)

// blockHeaderLen is the serialized length of a block header: the ordinary
// chain fields followed by the proof of capacity additions.
const blockHeaderLen = 4 + 32 + 32 + 4 + 4 + 32 + 8 + pocProofLen + 33 + 65

// pocProofLen is the serialized length of a PoCProof.
const pocProofLen = 32 + 20 + 4 + 8 + 8

// BlockHeader defines information about a block and is used in the block
// message.  The proof of capacity fields replace the nonce grinding fields a
// proof of work header would carry.
type BlockHeader struct {
	// Version of the block.  This is not the same as the protocol version.
	Version int32

	// Hash of the previous block header in the block chain.
	PrevBlock chainhash.Hash

	// Merkle tree reference to hash of all transactions for the block.
	MerkleRoot chainhash.Hash

	// Time the block was created.  Encoded as uint32 on the wire which
	// limits it to 2106.
	Timestamp time.Time

	// Height is the block height in the block chain, present so headers
	// validate context-free.
	Height int32

	// GenerationSignature determines the scoop and feeds the quality hash
	// for the proofs of this block.
	GenerationSignature chainhash.Hash

	// BaseTarget is the difficulty scalar the proof was validated
	// against.  Larger means easier.
	BaseTarget uint64

	// Proof is the proof of capacity.
	Proof PoCProof

	// PubKey is the compressed secp256k1 public key of the block signer.
	PubKey [33]byte

	// Signature is the 65-byte recoverable compact signature over the
	// signing hash of the block hash.
	Signature [65]byte
}

// serialize encodes the header to w.  The signature is replaced with zeros
// when zeroSig is set, which is the form the block hash commits to.
func (h *BlockHeader) serialize(w io.Writer, zeroSig bool) error {
	if err := writeUint32(w, uint32(h.Version)); err != nil {
		return err
	}
	if _, err := w.Write(h.PrevBlock[:]); err != nil {
		return err
	}
	if _, err := w.Write(h.MerkleRoot[:]); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(h.Timestamp.Unix())); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(h.Height)); err != nil {
		return err
	}
	if _, err := w.Write(h.GenerationSignature[:]); err != nil {
		return err
	}
	if err := writeUint64(w, h.BaseTarget); err != nil {
		return err
	}
	if err := h.Proof.Serialize(w); err != nil {
		return err
	}
	if _, err := w.Write(h.PubKey[:]); err != nil {
		return err
	}
	sig := h.Signature[:]
	if zeroSig {
		sig = make([]byte, len(h.Signature))
	}
	_, err := w.Write(sig)
	return err
}

// Serialize encodes the header to w in its canonical on-wire byte order.
func (h *BlockHeader) Serialize(w io.Writer) error {
	return h.serialize(w, false)
}

// Deserialize decodes a header from r.
func (h *BlockHeader) Deserialize(r io.Reader) error {
	version, err := readUint32(r)
	if err != nil {
		return err
	}
	h.Version = int32(version)
	if _, err := io.ReadFull(r, h.PrevBlock[:]); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, h.MerkleRoot[:]); err != nil {
		return err
	}
	ts, err := readUint32(r)
	if err != nil {
		return err
	}
	h.Timestamp = time.Unix(int64(ts), 0)
	height, err := readUint32(r)
	if err != nil {
		return err
	}
	h.Height = int32(height)
	if _, err := io.ReadFull(r, h.GenerationSignature[:]); err != nil {
		return err
	}
	if h.BaseTarget, err = readUint64(r); err != nil {
		return err
	}
	if err := h.Proof.Deserialize(r); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, h.PubKey[:]); err != nil {
		return err
	}
	_, err = io.ReadFull(r, h.Signature[:])
	return err
}

// Bytes returns the serialized header.
func (h *BlockHeader) Bytes() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, blockHeaderLen))
	// The writers can only fail on a failing io.Writer and a bytes.Buffer
	// never fails.
	_ = h.Serialize(buf)
	return buf.Bytes()
}

// BlockHash computes the block identifier: the canonical chain hash of the
// serialized header with the signature field zeroed, so the embedded
// signature can commit to it.
func (h *BlockHeader) BlockHash() chainhash.Hash {
	buf := bytes.NewBuffer(make([]byte, 0, blockHeaderLen))
	_ = h.serialize(buf, true)
	return chainhash.HashH(buf.Bytes())
}
