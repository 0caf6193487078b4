package main

import (
	"context"
	"fmt"
	"math/big"
	"math/rand"
	"os"
	"strings"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"nikand.dev/go/crcgen/gen"
	"nikand.dev/go/crcgen/params"
	"nikand.dev/go/crcgen/poly"
	"nikand.dev/go/crcgen/ref"
	"nikand.dev/go/crcgen/render"
)

type renderer interface {
	Render(ctx context.Context, g *gen.Generator) ([]byte, error)
}

func main() {
	polyCmd := &cli.Command{
		Name:        "poly",
		Description: "convert a polynomial between coefficient string and integer form",
		Action:      polyAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("crc-bits,B", 0, "number of crc bits"),
			cli.NewFlag("shift-right,R", false, "crc shift direction: right shift"),
		},
	}

	selftestCmd := backendCmd("selftest", "check the generated expressions against the bit serial reference", selftestAct,
		cli.NewFlag("rounds", 32, "number of random crc start values"))

	app := &cli.Command{
		Name:        "crcgen",
		Description: "combinatorial (table free) crc code generator",
		Commands: []*cli.Command{
			backendCmd("verilog", "generate a Verilog function or module", verilogAct,
				cli.NewFlag("module,m", false, "generate a module instead of a function")),
			backendCmd("vhdl", "generate a VHDL module", vhdlAct),
			backendCmd("myhdl", "generate a MyHDL block", myhdlAct),
			backendCmd("python", "generate Python code", pythonAct),
			backendCmd("c", "generate C code", cAct,
				cli.NewFlag("static,S", false, "generate a static function"),
				cli.NewFlag("inline,I", false, "generate an inline function"),
				cli.NewFlag("decl-only", false, "generate the declaration only")),
			backendCmd("go", "generate Go code", goAct,
				cli.NewFlag("package", "crc", "generated package name")),
			polyCmd,
			selftestCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func backendCmd(name, desc string, act func(*cli.Command) error, extra ...*cli.Flag) *cli.Command {
	flags := []*cli.Flag{
		cli.NewFlag("algorithm,a", "CRC-32", "crc algorithm preset; individual parameters can be overridden: "+strings.Join(params.Names(), ", ")),
		cli.NewFlag("polynomial,P", "", "crc polynomial (coefficient string, hex or decimal)"),
		cli.NewFlag("crc-bits,B", 0, "number of crc bits"),
		cli.NewFlag("data-bits,b", 8, "number of input data word bits"),
		cli.NewFlag("shift-right,R", false, "crc shift direction: right shift"),
		cli.NewFlag("shift-left,L", false, "crc shift direction: left shift"),
		cli.NewFlag("name,n", "crc", "generated function/module name"),
		cli.NewFlag("data-param,D", "data", "data parameter name"),
		cli.NewFlag("crc-in-param,C", "crcIn", "crc input parameter name"),
		cli.NewFlag("crc-out-param,o", "crcOut", "crc output parameter name"),
		cli.NewFlag("optimize,O", int(gen.OptAll), "optimizer step mask: 1 flatten, 2 eliminate, 4 lexicographic sort"),
	}

	return &cli.Command{
		Name:        name,
		Description: desc,
		Action:      act,
		Flags:       append(flags, extra...),
	}
}

func verilogAct(c *cli.Command) error {
	return emit(c, render.Verilog{Names: names(c), Module: c.Bool("module")})
}

func vhdlAct(c *cli.Command) error {
	return emit(c, render.VHDL{Names: names(c)})
}

func myhdlAct(c *cli.Command) error {
	return emit(c, render.MyHDL{Names: names(c)})
}

func pythonAct(c *cli.Command) error {
	return emit(c, render.Python{Names: names(c)})
}

func cAct(c *cli.Command) error {
	return emit(c, render.C{
		Names:    names(c),
		Static:   c.Bool("static"),
		Inline:   c.Bool("inline"),
		DeclOnly: c.Bool("decl-only"),
	})
}

func goAct(c *cli.Command) error {
	return emit(c, render.Go{Names: names(c), Package: c.String("package")})
}

func emit(c *cli.Command, r renderer) error {
	ctx := tlog.ContextWithSpan(context.Background(), tlog.Root())

	g, err := generator(c)
	if err != nil {
		return err
	}

	b, err := r.Render(ctx, g)
	if err != nil {
		return errors.Wrap(err, "render")
	}

	fmt.Printf("%s", b)

	return nil
}

func polyAct(c *cli.Command) error {
	if len(c.Args) != 1 {
		return errors.New("exactly one polynomial argument expected")
	}

	bits := c.Int("crc-bits")
	if bits < 1 {
		return errors.New("crc-bits is required")
	}

	arg := c.Args[0]

	if strings.Contains(arg, "^") {
		p, err := poly.FromString(arg, bits, c.Bool("shift-right"))
		if err != nil {
			return errors.Wrap(err, "parse polynomial")
		}

		fmt.Printf("0x%s\n", strings.ToUpper(p.Text(16)))

		return nil
	}

	p, ok := new(big.Int).SetString(arg, 0)
	if !ok {
		return errors.New("invalid polynomial integer: %v", arg)
	}

	fmt.Println(poly.ToString(p, bits, c.Bool("shift-right")))

	return nil
}

// selftestAct compares the generated expressions to the bit serial
// reference over chained pseudo random inputs covering the corners
// and a sample of the domain.
func selftestAct(c *cli.Command) error {
	ctx := tlog.ContextWithSpan(context.Background(), tlog.Root())
	tr := tlog.SpanFromContext(ctx)

	g, err := generator(c)
	if err != nil {
		return err
	}

	cfg := g.Config()

	word, err := g.Generate(ctx, "data", "crc")
	if err != nil {
		return errors.Wrap(err, "generate")
	}

	rng := rand.New(rand.NewSource(424242))

	crcMask := mask(cfg.CRCBits)
	dataMask := mask(cfg.DataBits)

	dataValues := 64
	if dataMask.Cmp(big.NewInt(int64(dataValues))) < 0 {
		dataValues = int(dataMask.Int64()) + 1
	}

	for i := 0; i < c.Int("rounds"); i++ {
		crc := randValue(rng, i, crcMask)

		for j := 0; j < dataValues; j++ {
			data := randValue(rng, j, dataMask)

			for k := 0; k < 3; k++ {
				want := ref.Update(crc, data, cfg.Poly, cfg.CRCBits, cfg.DataBits, cfg.ShiftRight)
				got := word.Eval(map[string]*big.Int{"crc": crc, "data": data})

				if want.Cmp(got) != 0 {
					return errors.New("mismatch: crc 0x%s data 0x%s want 0x%s got 0x%s",
						crc.Text(16), data.Text(16), want.Text(16), got.Text(16))
				}

				crc = want
				data = new(big.Int).And(new(big.Int).Add(data, big.NewInt(1)), dataMask)
			}
		}
	}

	tr.Printw("selftest passed", "poly", cfg.Poly.Text(16), "crc_bits", cfg.CRCBits, "data_bits", cfg.DataBits, "shift_right", cfg.ShiftRight)

	fmt.Println("ok")

	return nil
}

func generator(c *cli.Command) (*gen.Generator, error) {
	p, ok := params.Get(c.String("algorithm"))
	if !ok {
		return nil, errors.New("unknown algorithm: %v (known: %v)", c.String("algorithm"), strings.Join(params.Names(), ", "))
	}

	if bits := c.Int("crc-bits"); bits != 0 {
		p.CRCBits = bits
	}

	if c.Bool("shift-right") {
		p.ShiftRight = true
	}

	if c.Bool("shift-left") {
		p.ShiftRight = false
	}

	if s := c.String("polynomial"); s != "" {
		var err error

		if strings.Contains(s, "^") {
			p.Polynomial, err = poly.FromString(s, p.CRCBits, p.ShiftRight)
		} else {
			var ok bool
			p.Polynomial, ok = new(big.Int).SetString(s, 0)
			if !ok {
				err = errors.New("invalid polynomial integer: %v", s)
			}
		}

		if err != nil {
			return nil, errors.Wrap(err, "polynomial")
		}
	}

	return gen.New(gen.Config{
		Poly:       p.Polynomial,
		CRCBits:    p.CRCBits,
		DataBits:   c.Int("data-bits"),
		ShiftRight: p.ShiftRight,
		Opt:        gen.Opt(c.Int("optimize")),
	})
}

func names(c *cli.Command) render.Names {
	return render.Names{
		Name:   c.String("name"),
		Data:   c.String("data-param"),
		CRCIn:  c.String("crc-in-param"),
		CRCOut: c.String("crc-out-param"),
	}
}

func mask(bits int) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), uint(bits))

	return m.Sub(m, big.NewInt(1))
}

func randValue(rng *rand.Rand, i int, max *big.Int) *big.Int {
	switch i {
	case 0:
		return new(big.Int)
	case 1:
		return new(big.Int).Set(max)
	default:
		return new(big.Int).Rand(rng, new(big.Int).Add(max, big.NewInt(1)))
	}
}
