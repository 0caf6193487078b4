package gen

import (
	"context"
	"math/big"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"nikand.dev/go/crcgen/expr"
)

type (
	// Opt selects optimizer steps.
	Opt int

	// Config describes one crc algorithm.
	//
	// Poly holds the polynomial coefficients, bit i set means the term
	// x^i is present. The implicit leading x^width term is not included.
	// For right shifting algorithms the coefficients are in reversed
	// (little endian) bit order, as usual.
	Config struct {
		Poly       *big.Int
		CRCBits    int
		DataBits   int
		ShiftRight bool

		Opt Opt
	}

	// Generator unrolls the crc shift register into one combinatorial
	// expression per output bit.
	//
	// It is pure: the same config always produces the same word,
	// independent runs share no state.
	Generator struct {
		cfg Config
	}
)

const (
	OptFlatten   Opt = 1 << iota // flatten the bit operation tree
	OptEliminate                 // eliminate redundant operations
	OptLex                       // sort operands in lexicographic order where possible

	OptNone Opt = 0
	OptAll      = OptFlatten | OptEliminate | OptLex
)

// New validates the config and creates a generator.
func New(cfg Config) (*Generator, error) {
	if cfg.CRCBits < 1 || cfg.DataBits < 1 {
		return nil, errors.New("invalid number of bits")
	}

	if cfg.Poly == nil || cfg.Poly.Sign() < 0 {
		return nil, errors.New("invalid polynomial")
	}

	if cfg.Poly.BitLen() > cfg.CRCBits {
		return nil, errors.New("polynomial is wider than the crc: (2**%d)-1", cfg.CRCBits)
	}

	return &Generator{cfg: cfg}, nil
}

func (g *Generator) Config() Config { return g.cfg }

// Generate consumes one symbolic data word and returns the new crc
// register value as a word of expressions over the two symbolic inputs.
// dataName and crcName are the input word names baked into bit references.
//
// One shift register step is simulated per data bit, most significant
// bit first for left shifting and least significant first for right
// shifting. Eliminating after every step is what keeps the expressions
// from growing exponentially with the data width, the final pass only
// establishes the lexicographic operand order.
func (g *Generator) Generate(ctx context.Context, dataName, crcName string) (expr.Word, error) {
	tr := tlog.SpanFromContext(ctx)

	cfg := g.cfg

	tr.Printw("generate", "poly", cfg.Poly.Text(16), "crc_bits", cfg.CRCBits, "data_bits", cfg.DataBits, "shift_right", cfg.ShiftRight, "opt", cfg.Opt)

	inData := make(expr.Word, cfg.DataBits)

	for i := range inData {
		inData[i] = expr.Bit{Name: dataName, Index: i}
	}

	word := make(expr.Word, cfg.CRCBits)

	for i := range word {
		word[i] = expr.Bit{Name: crcName, Index: i}
	}

	if cfg.ShiftRight {
		for i := 0; i < cfg.DataBits; i++ {
			word = g.step(word, inData[i])
			g.optimize(word, false)

			tr.V("step").Printw("shift step", "i", i, "ops", operands(word), "from", loc.Caller(0))
		}
	} else {
		for i := cfg.DataBits - 1; i >= 0; i-- {
			word = g.step(word, inData[i])
			g.optimize(word, false)

			tr.V("step").Printw("shift step", "i", i, "ops", operands(word), "from", loc.Caller(0))
		}
	}

	g.optimize(word, true)

	tr.Printw("generated", "ops", operands(word))

	return word, nil
}

// step runs the shift register once for the given data bit.
func (g *Generator) step(word expr.Word, dataBit expr.Expr) expr.Word {
	cfg := g.cfg
	next := make(expr.Word, cfg.CRCBits)

	// The polynomial is applied where the shifted out bit xor the
	// data bit is set.
	var query expr.Expr

	if cfg.ShiftRight {
		query = expr.Xor{Ops: []expr.Expr{word[0], dataBit}}
	} else {
		query = expr.Xor{Ops: []expr.Expr{word[cfg.CRCBits-1], dataBit}}
	}

	for j := 0; j < cfg.CRCBits; j++ {
		var state expr.Expr = expr.Const{}

		if cfg.ShiftRight {
			if j < cfg.CRCBits-1 {
				state = word[j+1]
			}
		} else {
			if j > 0 {
				state = word[j-1]
			}
		}

		if cfg.Poly.Bit(j) == 1 {
			state = expr.Xor{Ops: []expr.Expr{state, query}}
		}

		next[j] = state
	}

	return next
}

func (g *Generator) optimize(word expr.Word, final bool) {
	if g.cfg.Opt&OptFlatten != 0 {
		word.Flatten()
	}

	if g.cfg.Opt&OptEliminate != 0 {
		word.Eliminate(final && g.cfg.Opt&OptLex != 0)
	}
}

func operands(word expr.Word) (n int) {
	for _, x := range word {
		if xor, ok := x.(expr.Xor); ok {
			n += len(xor.Ops)
		} else {
			n++
		}
	}

	return n
}
