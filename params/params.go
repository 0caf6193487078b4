// Package params holds the parameters of well known crc algorithms.
// It is plain configuration data consulted when building a generator
// config, not generator state.
package params

import (
	"math/big"
	"sort"
)

// Parameters of a named crc algorithm.
// Polynomial is in the bit order matching ShiftRight.
type Parameters struct {
	Polynomial *big.Int
	CRCBits    int
	ShiftRight bool
}

var table = map[string]Parameters{
	"CRC-64-ECMA": {
		Polynomial: u64(0xC96C5795D7870F42),
		CRCBits:    64,
		ShiftRight: true,
	},
	"CRC-64-ISO": {
		Polynomial: u64(0xD800000000000000),
		CRCBits:    64,
		ShiftRight: true,
	},
	"CRC-32": {
		Polynomial: u64(0xEDB88320),
		CRCBits:    32,
		ShiftRight: true,
	},
	"CRC-16": {
		Polynomial: u64(0xA001),
		CRCBits:    16,
		ShiftRight: true,
	},
	"CRC-16-CCITT": {
		Polynomial: u64(0x1021),
		CRCBits:    16,
		ShiftRight: false,
	},
	"CRC-8-CCITT": {
		Polynomial: u64(0x07),
		CRCBits:    8,
		ShiftRight: false,
	},
	"CRC-8-IBUTTON": {
		Polynomial: u64(0x8C),
		CRCBits:    8,
		ShiftRight: true,
	},
	"CRC-6-ITU": {
		Polynomial: u64(0x03),
		CRCBits:    6,
		ShiftRight: false,
	},
}

// Get returns the parameters of the named algorithm.
// The polynomial is a copy, the caller may modify it.
func Get(name string) (Parameters, bool) {
	p, ok := table[name]
	if !ok {
		return Parameters{}, false
	}

	p.Polynomial = new(big.Int).Set(p.Polynomial)

	return p, true
}

// Names lists known algorithms in a fixed order.
func Names() []string {
	names := make([]string, 0, len(table))

	for name := range table {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func u64(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}
