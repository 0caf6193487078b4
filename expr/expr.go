package expr

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

type (
	// Expr is a single bit of a crc word expressed as a function of
	// symbolic input bits: a reference to an input bit, a constant,
	// or an exclusive or of subexpressions.
	Expr interface {
		SortKey() string
	}

	// Bit references bit Index of the named symbolic input word.
	// Two Bits are the same value iff Name and Index match,
	// which is what operand cancellation relies on.
	Bit struct {
		Name  string
		Index int
	}

	// Const is a constant zero or one.
	Const struct {
		Value bool
	}

	// Xor is an exclusive or of one or more operands.
	// Operands may be nested Xors until Flatten removes the nesting.
	Xor struct {
		Ops []Expr
	}

	// Word is a fixed length crc or data word, least significant bit first.
	// It is not resized after construction.
	Word []Expr
)

// SortKey pads the index so that lexicographic comparison
// of keys matches numeric comparison of indexes.
func (x Bit) SortKey() string {
	return fmt.Sprintf("%s_%07d", x.Name, x.Index)
}

func (x Const) SortKey() string {
	if x.Value {
		return "1"
	}

	return "0"
}

func (x Xor) SortKey() string {
	keys := make([]string, len(x.Ops))

	for i, op := range x.Ops {
		keys[i] = op.SortKey()
	}

	return strings.Join(keys, "__")
}

// Flatten returns the single level operand list of x.
// Nested Xors are replaced by their own operands (xor is associative),
// any other expression is its own list.
func Flatten(x Expr) []Expr {
	xor, ok := x.(Xor)
	if !ok {
		return []Expr{x}
	}

	ops := make([]Expr, 0, len(xor.Ops))

	for _, op := range xor.Ops {
		ops = append(ops, Flatten(op)...)
	}

	return ops
}

// Eliminate cancels redundant operands of x.
//
// An even count of the same input bit is zero, an uneven count is one
// of them. Constant zeros are dropped, an uneven count of constant ones
// keeps a single one. Operands that are neither bits nor constants
// (nested xors if Flatten did not run) are kept as is.
// If nothing survives the result is the constant zero.
//
// With sortLex the surviving operands are reordered by their sort key,
// which is allowed because xor is commutative.
func (x Xor) Eliminate(sortLex bool) Xor {
	if len(x.Ops) == 0 {
		panic("xor without operands")
	}

	var ops []Expr

	count := map[Bit]int{}
	seen := []Bit{}
	ones := 0

	for _, op := range x.Ops {
		switch op := op.(type) {
		case Bit:
			if count[op] == 0 {
				seen = append(seen, op)
			}

			count[op]++
		case Const:
			if op.Value {
				ones++
			}
		default:
			ops = append(ops, op)
		}
	}

	for _, b := range seen {
		if count[b]%2 != 0 {
			ops = append(ops, b)
		}
	}

	if ones%2 != 0 {
		ops = append(ops, Const{Value: true})
	}

	if sortLex {
		sort.SliceStable(ops, func(i, j int) bool {
			return ops[i].SortKey() < ops[j].SortKey()
		})
	}

	if len(ops) == 0 {
		ops = append(ops, Const{})
	}

	return Xor{Ops: ops}
}

// Flatten flattens each bit of the word in place.
func (w Word) Flatten() {
	for i, x := range w {
		if xor, ok := x.(Xor); ok {
			w[i] = Xor{Ops: Flatten(xor)}
		}
	}
}

// Eliminate cancels redundant operands of each bit of the word in place.
func (w Word) Eliminate(sortLex bool) {
	for i, x := range w {
		if xor, ok := x.(Xor); ok {
			w[i] = xor.Eliminate(sortLex)
		}
	}
}

// Eval computes the concrete word value given concrete values
// of the symbolic input words.
// It panics on an input word the expression references but the map lacks
// and on malformed expressions. Both are caller bugs, not data errors.
func (w Word) Eval(in map[string]*big.Int) *big.Int {
	res := new(big.Int)

	for i, x := range w {
		if EvalBit(x, in) {
			res.SetBit(res, i, 1)
		}
	}

	return res
}

// EvalBit computes the value of a single bit expression.
func EvalBit(x Expr, in map[string]*big.Int) bool {
	switch x := x.(type) {
	case Bit:
		v, ok := in[x.Name]
		if !ok {
			panic("unknown input word: " + x.Name)
		}

		return v.Bit(x.Index) == 1
	case Const:
		return x.Value
	case Xor:
		if len(x.Ops) == 0 {
			panic("xor without operands")
		}

		res := false

		for _, op := range x.Ops {
			res = res != EvalBit(op, in)
		}

		return res
	default:
		panic(fmt.Sprintf("unsupported expression: %T", x))
	}
}
