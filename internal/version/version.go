// Copyright (c) 2013-2014 The btcsuite developers
// Copyright (c) 2015-2021 The Decred developers
// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package version provides a single location to house the version
// information for pocxd.
package version

import (
	"fmt"
	"strings"
)

const (
	// semanticAlphabet defines the allowed characters for the pre-release
	// and build metadata portions of a semantic version string.
	semanticAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-."
)

// These variables define the application version and follow the semantic
// versioning 2.0.0 spec (https://semver.org/).
var (
	// Version is the application version.  It is defined as a variable so
	// it can be overridden during the build process with
	// '-ldflags "-X github.com/pocx-project/pocxd/internal/version.Version=fullsemver"'
	// if needed.
	Version = "0.1.0-pre"
)

// normalizeSemString returns the passed string stripped of all characters
// which are not valid according to the provided alphabet.
func normalizeSemString(str, alphabet string) string {
	var result strings.Builder
	for _, r := range str {
		if strings.ContainsRune(alphabet, r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// String returns the application version as a properly formed string.
func String() string {
	return normalizeSemString(Version, semanticAlphabet)
}

// UserAgent returns a user agent string suitable for external reporting.
func UserAgent() string {
	return fmt.Sprintf("pocxd/%s", String())
}
