// Copyright (c) 2025 The PoCX developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package standalone

import "fmt"

// CompressionBounds houses the compression levels permitted for proofs at a
// given height.  Min is the lowest level validators accept and Target is the
// level plotters should aim for; submissions outside [Min, Target] are
// rejected.
type CompressionBounds struct {
	Min    uint32
	Target uint32
}

// CalcCompressionBounds returns the compression bounds active at the given
// height.
//
// The minimum level starts at 1 and steps up at years 4, 12, 28, 60 and 124
// of chain time, where one subsidy halving interval corresponds to four
// years.  The doubling cadence tracks the historical growth of storage
// density so honest plots stay ahead of time/memory trade-off attacks.  The
// target level is always one above the minimum.
func CalcCompressionBounds(height, subsidyHalvingInterval int64) CompressionBounds {
	minCompression := uint32(1)
	yearBlocks := subsidyHalvingInterval / 4
	switch {
	case height >= 124*yearBlocks:
		minCompression = 6
	case height >= 60*yearBlocks:
		minCompression = 5
	case height >= 28*yearBlocks:
		minCompression = 4
	case height >= 12*yearBlocks:
		minCompression = 3
	case height >= 4*yearBlocks:
		minCompression = 2
	}
	return CompressionBounds{Min: minCompression, Target: minCompression + 1}
}

// CheckCompressionBounds returns a RuleError with kind
// ErrCompressionOutOfBounds when the provided compression level is outside
// the bounds active at the given height.
func CheckCompressionBounds(compression uint32, height,
	subsidyHalvingInterval int64) error {

	bounds := CalcCompressionBounds(height, subsidyHalvingInterval)
	if compression < bounds.Min || compression > bounds.Target {
		str := fmt.Sprintf("compression level %d at height %d is not in "+
			"the accepted range [%d, %d]", compression, height, bounds.Min,
			bounds.Target)
		return ruleError(ErrCompressionOutOfBounds, str)
	}
	return nil
}
