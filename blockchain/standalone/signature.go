// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package standalone

import (
	"bytes"
	"fmt"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/pocx-project/pocxd/pocxutil"
)

// blockSignMagic is the prefix that domain-separates block signing hashes
// from every other message the same keys might ever sign.
const blockSignMagic = "POCX Signed Block:\n"

// appendVarBytes appends the canonical compact-size length prefix followed
// by the provided bytes.
func appendVarBytes(buf, b []byte) []byte {
	// Every string hashed here is far below the single-byte length bound.
	if len(b) >= 0xfd {
		panic("appendVarBytes: unexpected long string")
	}
	buf = append(buf, byte(len(b)))
	return append(buf, b...)
}

// BlockSigningHash returns the hash a forger signs for a block with the
// provided block hash: the canonical chain hash over the magic prefix and
// the hex representation of the block hash, each with a length prefix.
func BlockSigningHash(blockHash *chainhash.Hash) chainhash.Hash {
	buf := make([]byte, 0, 1+len(blockSignMagic)+1+2*chainhash.HashSize)
	buf = appendVarBytes(buf, []byte(blockSignMagic))
	buf = appendVarBytes(buf, []byte(blockHash.String()))
	return chainhash.HashH(buf)
}

// SignBlockHash produces the 65-byte recoverable compact signature a block
// header carries for the provided block hash.
func SignBlockHash(priv *secp256k1.PrivateKey, blockHash *chainhash.Hash) [65]byte {
	signingHash := BlockSigningHash(blockHash)
	var sig [65]byte
	copy(sig[:], ecdsa.SignCompact(priv, signingHash[:], true))
	return sig
}

// CheckBlockSignature verifies the compact signature commits to the provided
// block hash and recovers to the provided compressed public key.  It is a
// pure check: whether that public key is entitled to sign for the proof's
// plot is a separate, stateful policy decision (see the assignment package).
func CheckBlockSignature(blockHash *chainhash.Hash, pubKey *[33]byte,
	signature *[65]byte) error {

	storedPubKey, err := secp256k1.ParsePubKey(pubKey[:])
	if err != nil {
		str := fmt.Sprintf("invalid block public key: %v", err)
		return ruleError(ErrInvalidPubKey, str)
	}

	signingHash := BlockSigningHash(blockHash)
	recovered, compressed, err := ecdsa.RecoverCompact(signature[:],
		signingHash[:])
	if err != nil {
		str := fmt.Sprintf("unable to recover public key from block "+
			"signature: %v", err)
		return ruleError(ErrBadBlockSignature, str)
	}
	if !compressed {
		return ruleError(ErrBadBlockSignature, "block signature was not "+
			"created with a compressed public key")
	}
	if !recovered.IsEqual(storedPubKey) {
		return ruleError(ErrBadBlockSignature, "recovered public key does "+
			"not match the public key stored in the block")
	}
	return nil
}

// BlockSignerAccount returns the account identifier of the public key stored
// in a block header.
func BlockSignerAccount(pubKey *[33]byte) [20]byte {
	return pocxutil.AccountID(pubKey[:])
}

// AccountIDsMatch returns whether two account identifiers are equal.
func AccountIDsMatch(a, b *[20]byte) bool {
	return bytes.Equal(a[:], b[:])
}
