// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"
)

// PoCProof houses the proof of capacity a block header commits to: the plot
// identity (seed and account), the compression level, the winning nonce and
// the claimed quality.  The claimed quality is informational only and is
// recomputed during validation.
type PoCProof struct {
	Seed        [32]byte
	AccountID   [20]byte
	Compression uint32
	Nonce       uint64
	Quality     uint64
}

// SetNull clears the proof to its null encoding.
func (p *PoCProof) SetNull() {
	*p = PoCProof{}
}

// IsNull returns whether the proof is the null proof, which is a zero nonce
// together with an all-zero account identifier.
func (p *PoCProof) IsNull() bool {
	if p.Nonce != 0 {
		return false
	}
	for _, b := range p.AccountID {
		if b != 0 {
			return false
		}
	}
	return true
}

// Serialize encodes the proof to w in its canonical byte order.
func (p *PoCProof) Serialize(w io.Writer) error {
	if _, err := w.Write(p.Seed[:]); err != nil {
		return err
	}
	if _, err := w.Write(p.AccountID[:]); err != nil {
		return err
	}
	if err := writeUint32(w, p.Compression); err != nil {
		return err
	}
	if err := writeUint64(w, p.Nonce); err != nil {
		return err
	}
	return writeUint64(w, p.Quality)
}

// Deserialize decodes the proof from r.
func (p *PoCProof) Deserialize(r io.Reader) error {
	if _, err := io.ReadFull(r, p.Seed[:]); err != nil {
		return err
	}
	if _, err := io.ReadFull(r, p.AccountID[:]); err != nil {
		return err
	}
	var err error
	if p.Compression, err = readUint32(r); err != nil {
		return err
	}
	if p.Nonce, err = readUint64(r); err != nil {
		return err
	}
	p.Quality, err = readUint64(r)
	return err
}
