// Package ref is a bit serial crc reference implementation.
// It is the oracle the generated combinatorial expressions are
// checked against and is not meant to be fast.
package ref

import "math/big"

// Update consumes one data word and returns the new crc register value.
// crc, data and poly are not modified.
// Bit order conventions match the generator: bit 0 is least significant,
// right shifting algorithms keep the polynomial bit reversed.
func Update(crc, data, poly *big.Int, crcBits, dataBits int, shiftRight bool) *big.Int {
	c := new(big.Int).Set(crc)

	if shiftRight {
		for i := 0; i < dataBits; i++ {
			if data.Bit(i) == 1 {
				c.SetBit(c, 0, c.Bit(0)^1)
			}

			lsb := c.Bit(0)
			c.Rsh(c, 1)

			if lsb == 1 {
				c.Xor(c, poly)
			}

			c = truncate(c, crcBits)
		}

		return c
	}

	for i := dataBits - 1; i >= 0; i-- {
		if data.Bit(i) == 1 {
			c.SetBit(c, crcBits-1, c.Bit(crcBits-1)^1)
		}

		msb := c.Bit(crcBits - 1)
		c.Lsh(c, 1)

		if msb == 1 {
			c.Xor(c, poly)
		}

		c = truncate(c, crcBits)
	}

	return c
}

// Block runs Update over a byte sequence.
// preFlip and postFlip invert the register before and after,
// which is how most standard crcs (crc-32 included) are defined.
// dataBits is the width of one input word and must be 8 for byte input
// to mean what it usually means.
func Block(crc *big.Int, data []byte, poly *big.Int, crcBits, dataBits int, shiftRight, preFlip, postFlip bool) *big.Int {
	mask := onesMask(crcBits)

	c := new(big.Int).Set(crc)

	if preFlip {
		c.Xor(c, mask)
	}

	for _, b := range data {
		c = Update(c, big.NewInt(int64(b)), poly, crcBits, dataBits, shiftRight)
	}

	if postFlip {
		c.Xor(c, mask)
	}

	return c
}

func truncate(p *big.Int, bits int) *big.Int {
	return p.And(p, onesMask(bits))
}

func onesMask(bits int) *big.Int {
	mask := new(big.Int).Lsh(big.NewInt(1), uint(bits))

	return mask.Sub(mask, big.NewInt(1))
}
