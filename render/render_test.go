package render

import (
	"bytes"
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"nikand.dev/go/crcgen/gen"
)

// tiny enough to derive the expected expressions by hand:
// one data bit, one crc bit, polynomial x + 1.
func tinyGen(t *testing.T) *gen.Generator {
	t.Helper()

	g, err := gen.New(gen.Config{Poly: big.NewInt(0x1), CRCBits: 1, DataBits: 1, Opt: gen.OptAll})
	require.NoError(t, err)

	return g
}

func crc8Gen(t *testing.T) *gen.Generator {
	t.Helper()

	g, err := gen.New(gen.Config{Poly: big.NewInt(0x07), CRCBits: 8, DataBits: 8, Opt: gen.OptAll})
	require.NoError(t, err)

	return g
}

func TestVerilogFunctionGolden(t *testing.T) {
	b, err := Verilog{}.Render(context.Background(), tinyGen(t))
	require.NoError(t, err)

	want := strings.Join([]string{
		"// This is generated code.",
		"// ",
		"// CRC polynomial coefficients: x^1 + 1",
		"//                              0x1 (hex)",
		"// CRC width:                   1 bits",
		"// CRC shift direction:         left (big endian)",
		"// Input word width:            1 bits",
		"",
		"function automatic [0:0] crc;",
		"    input [0:0] crcIn;",
		"    input [0:0] data;",
		"begin",
		"    crc[0] = (crcIn[0] ^ data[0]);",
		"end",
		"endfunction",
		"",
	}, "\n")

	require.Equal(t, want, string(b))
}

func TestPythonGolden(t *testing.T) {
	b, err := Python{}.Render(context.Background(), tinyGen(t))
	require.NoError(t, err)

	want := strings.Join([]string{
		"# This is generated code.",
		"# ",
		"# CRC polynomial coefficients: x^1 + 1",
		"#                              0x1 (hex)",
		"# CRC width:                   1 bits",
		"# CRC shift direction:         left (big endian)",
		"# Input word width:            1 bits",
		"",
		"def crc(crcIn, data):",
		"    class bitwrapper:",
		"        def __init__(self, x):",
		"            self.x = x",
		"        def __getitem__(self, i):",
		"            return ((self.x >> i) & 1)",
		"        def __setitem__(self, i, x):",
		"            self.x = (self.x | (1 << i)) if x else (self.x & ~(1 << i))",
		"    crcIn = bitwrapper(crcIn)",
		"    data = bitwrapper(data)",
		"    ret = bitwrapper(0)",
		"    ret[0] = (crcIn[0] ^ data[0])",
		"    return ret.x",
		"",
	}, "\n")

	require.Equal(t, want, string(b))
}

func TestVerilogModule(t *testing.T) {
	b, err := Verilog{Module: true}.Render(context.Background(), crc8Gen(t))
	require.NoError(t, err)

	s := string(b)

	require.Contains(t, s, "`ifndef CRC_V_")
	require.Contains(t, s, "module crc (")
	require.Contains(t, s, "output [7:0] crcOut")
	require.Equal(t, 8, strings.Count(s, "assign crcOut["))
	require.Contains(t, s, "`endif // CRC_V_")
}

func TestVHDL(t *testing.T) {
	b, err := VHDL{Names: Names{Name: "crc8"}}.Render(context.Background(), crc8Gen(t))
	require.NoError(t, err)

	s := string(b)

	require.Contains(t, s, "entity crc8 is")
	require.Contains(t, s, "crcIn: in std_logic_vector(7 downto 0);")
	require.Contains(t, s, " xor ")
	require.Equal(t, 8, strings.Count(s, "crcOut("))
	require.Contains(t, s, "end architecture Behavioral;")
}

func TestMyHDL(t *testing.T) {
	b, err := MyHDL{}.Render(context.Background(), crc8Gen(t))
	require.NoError(t, err)

	s := string(b)

	require.Contains(t, s, "def crc(crcIn, data, crcOut):")
	require.Contains(t, s, "@always_comb")
	require.Equal(t, 8, strings.Count(s, "crcOut["))
	require.Contains(t, s, "crcOut=Signal(intbv(0)[8:])")
}

func TestC(t *testing.T) {
	b, err := C{Static: true, Inline: true}.Render(context.Background(), crc8Gen(t))
	require.NoError(t, err)

	s := string(b)

	require.Contains(t, s, "#ifndef CRC_H_")
	require.Contains(t, s, "#include <stdint.h>")
	require.Contains(t, s, "#define b(x, b) (((x) >> (b)) & 1u)")
	require.Contains(t, s, "static inline uint8_t crc(uint8_t crcIn, uint8_t data)")
	require.Contains(t, s, "    ret  = (uint8_t)(")
	require.Contains(t, s, "#endif /* CRC_H_ */")
}

func TestCDeclOnly(t *testing.T) {
	b, err := C{DeclOnly: true, NoIncludeGuards: true, NoIncludes: true}.Render(context.Background(), crc8Gen(t))
	require.NoError(t, err)

	s := string(b)

	require.Contains(t, s, "extern uint8_t crc(uint8_t crcIn, uint8_t data);")
	require.NotContains(t, s, "#define")
	require.NotContains(t, s, "#include")
	require.NotContains(t, s, "return")
}

func TestCWidthCeiling(t *testing.T) {
	g, err := gen.New(gen.Config{Poly: big.NewInt(0x07), CRCBits: 65, DataBits: 8, Opt: gen.OptAll})
	require.NoError(t, err)

	_, err = C{}.Render(context.Background(), g)
	require.Error(t, err)

	_, err = Go{}.Render(context.Background(), g)
	require.Error(t, err)

	// the symbolic core and hdl backends have no such limit
	b, err := Verilog{}.Render(context.Background(), g)
	require.NoError(t, err)
	require.Contains(t, string(b), "input [64:0] crcIn;")
}

func TestGoGolden(t *testing.T) {
	b, err := Go{}.Render(context.Background(), tinyGen(t))
	require.NoError(t, err)

	s := string(b)

	require.Contains(t, s, "// Code generated by crcgen. DO NOT EDIT.")
	require.Contains(t, s, "package crc")
	require.Contains(t, s, "func crc(crcIn uint8, data uint8) uint8 {")
	require.Contains(t, s, "\tret |= uint8((uint8(crcIn>>0&1) ^ uint8(data>>0&1))) << 0\n")
}

func TestRenderDeterminism(t *testing.T) {
	g := crc8Gen(t)
	ctx := context.Background()

	a, err := Verilog{}.Render(ctx, g)
	require.NoError(t, err)

	b, err := Verilog{}.Render(ctx, g)
	require.NoError(t, err)

	require.True(t, bytes.Equal(a, b))
}
