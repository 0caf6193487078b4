package render

import (
	"context"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"nikand.dev/go/crcgen/expr"
	"nikand.dev/go/crcgen/gen"
)

// Go renders the crc update as a Go function.
// Words are mapped to the smallest fitting unsigned integer type,
// so like the C backend it refuses widths over 64 bits.
type Go struct {
	Names

	// Package is the package clause name, "crc" if empty.
	Package string
}

func (r Go) Render(ctx context.Context, g *gen.Generator) (b []byte, err error) {
	r.norm()

	if r.Package == "" {
		r.Package = "crc"
	}

	cfg := g.Config()

	crcType, err := goType(cfg.CRCBits, "CRC")
	if err != nil {
		return nil, err
	}

	dataType, err := goType(cfg.DataBits, "Input data")
	if err != nil {
		return nil, err
	}

	word, err := g.Generate(ctx, r.Data, r.CRCIn)
	if err != nil {
		return nil, errors.Wrap(err, "generate")
	}

	// Bit references are converted to the crc type one by one,
	// the crc and data words may map to different types.
	st := style{
		ref: func(b []byte, x expr.Bit) []byte {
			return hfmt.Appendf(b, "%s(%s>>%d&1)", crcType, x.Name, x.Index)
		},
		con: litConst("1", "0"),
		op:  " ^ ",
	}

	b = append(b, "// Code generated by crcgen. DO NOT EDIT.\n//\n"...)
	b = appendDescription(b, "// ", cfg)

	b = hfmt.Appendf(b, "\npackage %s\n\n", r.Package)

	b = hfmt.Appendf(b, "func %s(%s %s, %s %s) %s {\n", r.Name, r.CRCIn, crcType, r.Data, dataType, crcType)
	b = hfmt.Appendf(b, "\tvar ret %s\n\n", crcType)

	for i, x := range word {
		b = hfmt.Appendf(b, "\tret |= %s(", crcType)

		b, err = appendExpr(b, x, st)
		if err != nil {
			return nil, errors.Wrap(err, "bit %d", i)
		}

		b = hfmt.Appendf(b, ") << %d\n", i)
	}

	b = append(b, "\n\treturn ret\n}\n"...)

	return b, nil
}

func goType(bits int, name string) (string, error) {
	switch {
	case bits <= 8:
		return "uint8", nil
	case bits <= 16:
		return "uint16", nil
	case bits <= 32:
		return "uint32", nil
	case bits <= 64:
		return "uint64", nil
	default:
		return "", errors.New("%s sizes bigger than 64 bit are not supported", name)
	}
}
