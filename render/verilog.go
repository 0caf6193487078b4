package render

import (
	"context"
	"strings"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"nikand.dev/go/crcgen/gen"
)

// Verilog renders the crc update as a Verilog function or,
// with Module set, as a standalone module with an include guard.
type Verilog struct {
	Names

	Module bool
}

var verilogStyle = style{
	ref: indexedRef("%s[%d]"),
	con: litConst("1'b1", "1'b0"),
	op:  " ^ ",
}

func (r Verilog) Render(ctx context.Context, g *gen.Generator) (b []byte, err error) {
	r.norm()

	word, err := g.Generate(ctx, r.Data, r.CRCIn)
	if err != nil {
		return nil, errors.Wrap(err, "generate")
	}

	cfg := g.Config()

	if r.Module {
		guard := strings.ToUpper(r.Name) + "_V_"

		b = hfmt.Appendf(b, "`ifndef %s\n`define %s\n\n", guard, guard)
	}

	b = appendDescription(b, "// ", cfg)
	b = append(b, '\n')

	end := ","
	if !r.Module {
		end = ";"

		b = hfmt.Appendf(b, "function automatic [%d:0] %s;\n", cfg.CRCBits-1, r.Name)
	} else {
		b = hfmt.Appendf(b, "module %s (\n", r.Name)
	}

	b = hfmt.Appendf(b, "    input [%d:0] %s%s\n", cfg.CRCBits-1, r.CRCIn, end)
	b = hfmt.Appendf(b, "    input [%d:0] %s%s\n", cfg.DataBits-1, r.Data, end)

	assign, target := "", r.Name

	if r.Module {
		assign, target = "assign ", r.CRCOut

		b = hfmt.Appendf(b, "    output [%d:0] %s\n);\n", cfg.CRCBits-1, r.CRCOut)
	} else {
		b = append(b, "begin\n"...)
	}

	for i, x := range word {
		b = hfmt.Appendf(b, "    %s%s[%d] = ", assign, target, i)

		b, err = appendExpr(b, x, verilogStyle)
		if err != nil {
			return nil, errors.Wrap(err, "bit %d", i)
		}

		b = append(b, ";\n"...)
	}

	if r.Module {
		b = hfmt.Appendf(b, "endmodule\n\n`endif // %s_V_\n", strings.ToUpper(r.Name))
	} else {
		b = append(b, "end\nendfunction\n"...)
	}

	return b, nil
}
