// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keyring

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/pocx-project/pocxd/pocxutil"
)

// TestImportAndSign ensures imported keys are discoverable by account and
// produce recoverable compact signatures.
func TestImportAndSign(t *testing.T) {
	ring := New()

	account, err := ring.ImportHex("000102030405060708090a0b0c0d0e0f" +
		"101112131415161718191a1b1c1d1e1f")
	if err != nil {
		t.Fatalf("ImportHex: unexpected error: %v", err)
	}
	if !ring.HaveKey(account) {
		t.Fatal("imported key not reported")
	}

	pubKey, err := ring.PubKey(account)
	if err != nil {
		t.Fatalf("PubKey: unexpected error: %v", err)
	}
	if pocxutil.AccountID(pubKey.SerializeCompressed()) != account {
		t.Fatal("public key does not hash to the reported account")
	}

	digest := chainhash.HashH([]byte("digest"))
	sig, err := ring.SignCompact(&digest, account)
	if err != nil {
		t.Fatalf("SignCompact: unexpected error: %v", err)
	}
	if len(sig) != 65 {
		t.Fatalf("signature is %d bytes, want 65", len(sig))
	}
	recovered, compressed, err := ecdsa.RecoverCompact(sig, digest[:])
	if err != nil || !compressed {
		t.Fatalf("RecoverCompact failed (err=%v, compressed=%v)", err,
			compressed)
	}
	if !recovered.IsEqual(pubKey) {
		t.Fatal("recovered key does not match the signing key")
	}
}

// TestUnknownAccount ensures operations on unknown accounts fail with
// ErrNoKey.
func TestUnknownAccount(t *testing.T) {
	ring := New()
	var account [20]byte

	if _, err := ring.PubKey(account); !errors.Is(err, ErrNoKey) {
		t.Fatalf("PubKey: unexpected error: %v", err)
	}
	digest := chainhash.HashH([]byte("digest"))
	if _, err := ring.SignCompact(&digest, account); !errors.Is(err, ErrNoKey) {
		t.Fatalf("SignCompact: unexpected error: %v", err)
	}
}

// TestImportHexErrors ensures malformed key material is rejected.
func TestImportHexErrors(t *testing.T) {
	ring := New()
	if _, err := ring.ImportHex("zz"); err == nil {
		t.Fatal("malformed hex accepted")
	}
	short := hex.EncodeToString(make([]byte, 16))
	if _, err := ring.ImportHex(short); err == nil {
		t.Fatal("short key accepted")
	}
}
