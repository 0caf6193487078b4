// Package render emits the generated crc expressions as source code
// for a number of target languages.
//
// Backends only walk the word the generator produced, they add no
// semantics of their own beyond operator spelling and declarations.
package render

import (
	"strings"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"nikand.dev/go/crcgen/expr"
	"nikand.dev/go/crcgen/gen"
	"nikand.dev/go/crcgen/poly"
)

type (
	// Names binds the symbolic input words and the generated
	// function or module to backend visible names.
	Names struct {
		Name   string // function/module/block name
		Data   string // data input parameter
		CRCIn  string // crc input parameter
		CRCOut string // crc output parameter, module style backends only
	}

	// style is how one backend spells the three expression forms.
	style struct {
		ref func(b []byte, x expr.Bit) []byte
		con func(b []byte, v bool) []byte
		op  string
	}
)

func (n *Names) norm() {
	if n.Name == "" {
		n.Name = "crc"
	}
	if n.Data == "" {
		n.Data = "data"
	}
	if n.CRCIn == "" {
		n.CRCIn = "crcIn"
	}
	if n.CRCOut == "" {
		n.CRCOut = "crcOut"
	}
}

// appendExpr renders one bit expression.
// Xor operands are joined with the backend operator and wrapped in
// parentheses, a zero operand xor here is a generator bug.
func appendExpr(b []byte, x expr.Expr, st style) (_ []byte, err error) {
	switch x := x.(type) {
	case expr.Bit:
		return st.ref(b, x), nil
	case expr.Const:
		return st.con(b, x.Value), nil
	case expr.Xor:
		if len(x.Ops) == 0 {
			panic("xor without operands")
		}

		b = append(b, '(')

		for i, op := range x.Ops {
			if i != 0 {
				b = append(b, st.op...)
			}

			b, err = appendExpr(b, op, st)
			if err != nil {
				return nil, errors.Wrap(err, "operand %d", i)
			}
		}

		b = append(b, ')')

		return b, nil
	default:
		return nil, errors.New("unsupported expression: %T", x)
	}
}

// appendDescription emits the algorithm parameters as a comment block.
func appendDescription(b []byte, comment string, cfg gen.Config) []byte {
	shift := "left (big endian)"
	if cfg.ShiftRight {
		shift = "right (little endian)"
	}

	b = hfmt.Appendf(b, "%sThis is generated code.\n", comment)
	b = hfmt.Appendf(b, "%s\n", comment)
	b = hfmt.Appendf(b, "%sCRC polynomial coefficients: %s\n", comment, poly.ToString(cfg.Poly, cfg.CRCBits, cfg.ShiftRight))
	b = hfmt.Appendf(b, "%s                             0x%s (hex)\n", comment, strings.ToUpper(cfg.Poly.Text(16)))
	b = hfmt.Appendf(b, "%sCRC width:                   %d bits\n", comment, cfg.CRCBits)
	b = hfmt.Appendf(b, "%sCRC shift direction:         %s\n", comment, shift)
	b = hfmt.Appendf(b, "%sInput word width:            %d bits\n", comment, cfg.DataBits)

	return b
}

func indexedRef(format string) func(b []byte, x expr.Bit) []byte {
	return func(b []byte, x expr.Bit) []byte {
		return hfmt.Appendf(b, format, x.Name, x.Index)
	}
}

func litConst(one, zero string) func(b []byte, v bool) []byte {
	return func(b []byte, v bool) []byte {
		if v {
			return append(b, one...)
		}

		return append(b, zero...)
	}
}
