// Package poly converts crc polynomial coefficients between
// the integer form and the x^n + ... coefficient string form.
package poly

import (
	"math/big"
	"strconv"
	"strings"

	"tlog.app/go/errors"
)

// Reverse returns p with its low bits bits in reversed order.
// Right shifting crc algorithms keep their coefficients reversed.
func Reverse(p *big.Int, bits int) *big.Int {
	res := new(big.Int)

	for i := 0; i < bits; i++ {
		res.SetBit(res, bits-1-i, p.Bit(i))
	}

	return res
}

// FromString parses polynomial coefficients given as
// a coefficient string (x^8 + x^2 + x + 1), a hex integer (0xedb88320)
// or a decimal integer.
// The result is truncated to bits bits, which drops the implicit
// leading term, and bit reversed for shiftRight.
func FromString(s string, bits int, shiftRight bool) (*big.Int, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	p := new(big.Int)

	switch {
	case strings.HasPrefix(s, "0x"):
		if _, ok := p.SetString(s[2:], 16); !ok {
			return nil, errors.New("invalid polynomial coefficient format")
		}
	case !strings.ContainsAny(s, "x^+ "):
		if _, ok := p.SetString(s, 10); !ok {
			return nil, errors.New("invalid polynomial coefficient format")
		}
	default:
		s = strings.Map(func(r rune) rune {
			if r == ' ' || r == '\t' {
				return -1
			}

			return r
		}, s)

		for _, term := range strings.Split(s, "+") {
			switch {
			case strings.HasPrefix(term, "x^"):
				exp, ok := new(big.Int).SetString(term[2:], 10)
				if !ok || !exp.IsInt64() || exp.Sign() < 0 {
					return nil, errors.New("invalid polynomial coefficient format")
				}

				p.SetBit(p, int(exp.Int64()), 1)
			case term == "x":
				p.SetBit(p, 1, 1)
			case term == "1":
				p.SetBit(p, 0, 1)
			default:
				return nil, errors.New("invalid polynomial coefficient format")
			}
		}
	}

	p = truncate(p, bits)

	if shiftRight {
		p = Reverse(p, bits)
	}

	return p, nil
}

// ToString formats polynomial coefficients as a coefficient string.
// The implicit leading x^bits term is printed.
func ToString(p *big.Int, bits int, shiftRight bool) string {
	p = truncate(p, bits)

	if shiftRight {
		p = Reverse(p, bits)
	}

	var terms []string

	terms = append(terms, "x^"+strconv.Itoa(bits))

	for i := bits - 1; i >= 0; i-- {
		if p.Bit(i) == 0 {
			continue
		}

		switch i {
		case 0:
			terms = append(terms, "1")
		case 1:
			terms = append(terms, "x")
		default:
			terms = append(terms, "x^"+strconv.Itoa(i))
		}
	}

	return strings.Join(terms, " + ")
}

func truncate(p *big.Int, bits int) *big.Int {
	mask := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	mask.Sub(mask, big.NewInt(1))

	return new(big.Int).And(p, mask)
}
