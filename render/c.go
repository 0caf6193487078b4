package render

import (
	"context"
	"strings"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"nikand.dev/go/crcgen/expr"
	"nikand.dev/go/crcgen/gen"
)

// C renders the crc update as a C function over stdint types.
// Unlike the symbolic core it has a width ceiling: words must fit
// a native integer type.
type C struct {
	Names

	Static bool
	Inline bool

	// DeclOnly emits the prototype only, for headers and ffi bindings.
	DeclOnly bool

	// IncludeGuards and Includes are on by default.
	NoIncludeGuards bool
	NoIncludes      bool
}

var cStyle = style{
	ref: func(b []byte, x expr.Bit) []byte {
		return hfmt.Appendf(b, "b(%s, %d)", x.Name, x.Index)
	},
	con: litConst("1u", "0u"),
	op:  " ^ ",
}

func (r C) Render(ctx context.Context, g *gen.Generator) (b []byte, err error) {
	r.norm()

	cfg := g.Config()

	crcType, err := cType(cfg.CRCBits, "CRC")
	if err != nil {
		return nil, err
	}

	dataType, err := cType(cfg.DataBits, "Input data")
	if err != nil {
		return nil, err
	}

	word, err := g.Generate(ctx, r.Data, r.CRCIn)
	if err != nil {
		return nil, errors.Wrap(err, "generate")
	}

	guard := strings.ToUpper(r.Name) + "_H_"

	if !r.NoIncludeGuards {
		b = hfmt.Appendf(b, "#ifndef %s\n#define %s\n\n", guard, guard)
	}

	if !r.NoIncludes {
		b = append(b, "#include <stdint.h>\n\n"...)
	}

	b = appendDescription(b, "// ", cfg)
	b = append(b, '\n')

	if !r.DeclOnly {
		b = append(b, "#ifdef b\n# undef b\n#endif\n#define b(x, b) (((x) >> (b)) & 1u)\n\n"...)
	}

	qual := ""

	switch {
	case r.DeclOnly:
		qual = "extern "
	default:
		if r.Static {
			qual += "static "
		}
		if r.Inline {
			qual += "inline "
		}
	}

	end := ""
	if r.DeclOnly {
		end = ";"
	}

	b = hfmt.Appendf(b, "%s%s %s(%s %s, %s %s)%s\n", qual, crcType, r.Name, crcType, r.CRCIn, dataType, r.Data, end)

	if !r.DeclOnly {
		b = append(b, "{\n"...)
		b = hfmt.Appendf(b, "    %s ret;\n", crcType)

		for i, x := range word {
			op := "|="
			if i == 0 {
				op = " ="
			}

			b = hfmt.Appendf(b, "    ret %s (%s)", op, crcType)

			b, err = appendExpr(b, x, cStyle)
			if err != nil {
				return nil, errors.Wrap(err, "bit %d", i)
			}

			b = hfmt.Appendf(b, " << %d;\n", i)
		}

		b = append(b, "    return ret;\n}\n#undef b\n"...)
	}

	if !r.NoIncludeGuards {
		b = hfmt.Appendf(b, "\n#endif /* %s */\n", guard)
	}

	return b, nil
}

func cType(bits int, name string) (string, error) {
	switch {
	case bits <= 8:
		return "uint8_t", nil
	case bits <= 16:
		return "uint16_t", nil
	case bits <= 32:
		return "uint32_t", nil
	case bits <= 64:
		return "uint64_t", nil
	default:
		return "", errors.New("%s sizes bigger than 64 bit are not supported", name)
	}
}
