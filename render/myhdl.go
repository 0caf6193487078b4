package render

import (
	"context"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"nikand.dev/go/crcgen/gen"
)

// MyHDL renders the crc update as a MyHDL combinational block.
type MyHDL struct {
	Names
}

var myhdlStyle = style{
	ref: indexedRef("%s[%d]"),
	con: litConst("1", "0"),
	op:  " ^ ",
}

func (r MyHDL) Render(ctx context.Context, g *gen.Generator) (b []byte, err error) {
	r.norm()

	word, err := g.Generate(ctx, r.Data, r.CRCIn)
	if err != nil {
		return nil, errors.Wrap(err, "generate")
	}

	cfg := g.Config()

	b = appendDescription(b, "# ", cfg)

	b = append(b, "\nfrom myhdl import *\n\n@block\n"...)
	b = hfmt.Appendf(b, "def %s(%s, %s, %s):\n", r.Name, r.CRCIn, r.Data, r.CRCOut)
	b = append(b, "    @always_comb\n    def logic():\n"...)

	for i, x := range word {
		b = hfmt.Appendf(b, "        %s[%d].next = ", r.CRCOut, i)

		b, err = appendExpr(b, x, myhdlStyle)
		if err != nil {
			return nil, errors.Wrap(err, "bit %d", i)
		}

		b = append(b, '\n')
	}

	b = append(b, "    return logic\n\n"...)

	b = append(b, "if __name__ == '__main__':\n"...)
	b = hfmt.Appendf(b, "    instance = %s(\n", r.Name)
	b = hfmt.Appendf(b, "        %s=Signal(intbv(0)[%d:]),\n", r.CRCIn, cfg.CRCBits)
	b = hfmt.Appendf(b, "        %s=Signal(intbv(0)[%d:]),\n", r.Data, cfg.DataBits)
	b = hfmt.Appendf(b, "        %s=Signal(intbv(0)[%d:])\n    )\n", r.CRCOut, cfg.CRCBits)
	b = append(b, "    instance.convert(hdl='Verilog')\n    instance.convert(hdl='VHDL')\n"...)

	return b, nil
}
