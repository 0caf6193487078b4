package render

import (
	"context"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"nikand.dev/go/crcgen/gen"
)

// Python renders the crc update as a plain Python function.
// Inputs are wrapped into a small bit addressable helper class
// so the expressions can index them directly.
type Python struct {
	Names
}

var pythonStyle = style{
	ref: indexedRef("%s[%d]"),
	con: litConst("1", "0"),
	op:  " ^ ",
}

func (r Python) Render(ctx context.Context, g *gen.Generator) (b []byte, err error) {
	r.norm()

	word, err := g.Generate(ctx, r.Data, r.CRCIn)
	if err != nil {
		return nil, errors.Wrap(err, "generate")
	}

	b = appendDescription(b, "# ", g.Config())
	b = append(b, '\n')

	b = hfmt.Appendf(b, "def %s(%s, %s):\n", r.Name, r.CRCIn, r.Data)
	b = append(b, `    class bitwrapper:
        def __init__(self, x):
            self.x = x
        def __getitem__(self, i):
            return ((self.x >> i) & 1)
        def __setitem__(self, i, x):
            self.x = (self.x | (1 << i)) if x else (self.x & ~(1 << i))
`...)
	b = hfmt.Appendf(b, "    %s = bitwrapper(%s)\n", r.CRCIn, r.CRCIn)
	b = hfmt.Appendf(b, "    %s = bitwrapper(%s)\n", r.Data, r.Data)
	b = append(b, "    ret = bitwrapper(0)\n"...)

	for i, x := range word {
		b = hfmt.Appendf(b, "    ret[%d] = ", i)

		b, err = appendExpr(b, x, pythonStyle)
		if err != nil {
			return nil, errors.Wrap(err, "bit %d", i)
		}

		b = append(b, '\n')
	}

	b = append(b, "    return ret.x\n"...)

	return b, nil
}
