package render

import (
	"context"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"nikand.dev/go/crcgen/gen"
)

// VHDL renders the crc update as a VHDL entity with one
// combinational architecture.
type VHDL struct {
	Names
}

var vhdlStyle = style{
	ref: indexedRef("%s(%d)"),
	con: litConst(`b"1"`, `b"0"`),
	op:  " xor ",
}

func (r VHDL) Render(ctx context.Context, g *gen.Generator) (b []byte, err error) {
	r.norm()

	word, err := g.Generate(ctx, r.Data, r.CRCIn)
	if err != nil {
		return nil, errors.Wrap(err, "generate")
	}

	cfg := g.Config()

	b = appendDescription(b, "-- ", cfg)

	b = append(b, "\nlibrary IEEE;\nuse IEEE.std_logic_1164.all;\n\n"...)

	b = hfmt.Appendf(b, "entity %s is\n    port (\n", r.Name)
	b = hfmt.Appendf(b, "        %s: in std_logic_vector(%d downto 0);\n", r.CRCIn, cfg.CRCBits-1)
	b = hfmt.Appendf(b, "        %s: in std_logic_vector(%d downto 0);\n", r.Data, cfg.DataBits-1)
	b = hfmt.Appendf(b, "        %s: out std_logic_vector(%d downto 0)\n", r.CRCOut, cfg.CRCBits-1)
	b = hfmt.Appendf(b, "    );\nend entity %s;\n\n", r.Name)

	b = hfmt.Appendf(b, "architecture Behavioral of %s is\nbegin\n", r.Name)

	for i, x := range word {
		b = hfmt.Appendf(b, "    %s(%d) <= ", r.CRCOut, i)

		b, err = appendExpr(b, x, vhdlStyle)
		if err != nil {
			return nil, errors.Wrap(err, "bit %d", i)
		}

		b = append(b, ";\n"...)
	}

	b = append(b, "end architecture Behavioral;\n"...)

	return b, nil
}
