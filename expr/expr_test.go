package expr

import (
	"math/big"
	"reflect"
	"testing"
)

func TestSortKey(t *testing.T) {
	if k := (Bit{Name: "crc", Index: 7}).SortKey(); k != "crc_0000007" {
		t.Errorf("bit key: %v", k)
	}

	// padding keeps lexicographic order numeric
	if a, b := (Bit{Name: "d", Index: 9}).SortKey(), (Bit{Name: "d", Index: 10}).SortKey(); a >= b {
		t.Errorf("key order: %v >= %v", a, b)
	}

	if k := (Const{Value: true}).SortKey(); k != "1" {
		t.Errorf("const key: %v", k)
	}

	x := Xor{Ops: []Expr{Bit{Name: "a", Index: 1}, Const{}}}
	if k := x.SortKey(); k != "a_0000001__0" {
		t.Errorf("xor key: %v", k)
	}
}

func TestFlatten(t *testing.T) {
	a := Bit{Name: "a", Index: 0}
	b := Bit{Name: "b", Index: 1}
	c := Bit{Name: "c", Index: 2}

	x := Xor{Ops: []Expr{a, Xor{Ops: []Expr{b, Xor{Ops: []Expr{c}}}}}}

	got := Flatten(x)
	want := []Expr{a, b, c}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("flatten: %v", got)
	}

	if got := Flatten(a); !reflect.DeepEqual(got, []Expr{a}) {
		t.Errorf("flatten leaf: %v", got)
	}
}

func TestEliminateCancellation(t *testing.T) {
	b := Bit{Name: "data", Index: 3}
	keep := Bit{Name: "crc", Index: 0}

	for _, n := range []int{2, 4, 6, 8} {
		ops := []Expr{keep}
		for i := 0; i < n; i++ {
			ops = append(ops, b)
		}

		got := Xor{Ops: ops}.Eliminate(false)

		if !reflect.DeepEqual(got.Ops, []Expr{keep}) {
			t.Errorf("%d copies: %v", n, got.Ops)
		}
	}

	for _, n := range []int{1, 3, 5, 7} {
		ops := []Expr{keep}
		for i := 0; i < n; i++ {
			ops = append(ops, b)
		}

		got := Xor{Ops: ops}.Eliminate(false)

		if !reflect.DeepEqual(got.Ops, []Expr{keep, b}) {
			t.Errorf("%d copies: %v", n, got.Ops)
		}
	}
}

func TestEliminateConstants(t *testing.T) {
	b := Bit{Name: "crc", Index: 5}
	one := Const{Value: true}
	zero := Const{}

	got := Xor{Ops: []Expr{zero, b, zero}}.Eliminate(false)
	if !reflect.DeepEqual(got.Ops, []Expr{b}) {
		t.Errorf("zeros: %v", got.Ops)
	}

	got = Xor{Ops: []Expr{one, b, one, one}}.Eliminate(false)
	if !reflect.DeepEqual(got.Ops, []Expr{b, one}) {
		t.Errorf("uneven ones: %v", got.Ops)
	}

	got = Xor{Ops: []Expr{one, one}}.Eliminate(false)
	if !reflect.DeepEqual(got.Ops, []Expr{zero}) {
		t.Errorf("even ones: %v", got.Ops)
	}

	// everything cancels out to the constant zero
	got = Xor{Ops: []Expr{b, b, zero}}.Eliminate(false)
	if !reflect.DeepEqual(got.Ops, []Expr{zero}) {
		t.Errorf("all cancelled: %v", got.Ops)
	}
}

func TestEliminateKeepsNested(t *testing.T) {
	b := Bit{Name: "crc", Index: 1}
	nested := Xor{Ops: []Expr{b, b}}

	// without flattening a nested xor cannot be analyzed, it is kept as is
	got := Xor{Ops: []Expr{nested, b}}.Eliminate(false)

	if !reflect.DeepEqual(got.Ops, []Expr{nested, b}) {
		t.Errorf("nested: %v", got.Ops)
	}
}

func TestEliminateSorts(t *testing.T) {
	a := Bit{Name: "crc", Index: 2}
	b := Bit{Name: "crc", Index: 10}
	c := Bit{Name: "data", Index: 0}

	got := Xor{Ops: []Expr{c, b, a}}.Eliminate(true)

	if !reflect.DeepEqual(got.Ops, []Expr{a, b, c}) {
		t.Errorf("sorted: %v", got.Ops)
	}
}

func TestEliminateIdempotent(t *testing.T) {
	w := Word{
		Xor{Ops: []Expr{
			Bit{Name: "data", Index: 1},
			Bit{Name: "crc", Index: 0},
			Bit{Name: "data", Index: 1},
			Bit{Name: "data", Index: 1},
			Const{Value: true},
		}},
		Bit{Name: "crc", Index: 1},
	}

	w.Flatten()
	w.Eliminate(true)

	once := make(Word, len(w))
	copy(once, w)

	w.Flatten()
	w.Eliminate(true)

	if !reflect.DeepEqual(w, once) {
		t.Errorf("not idempotent:\n%v\n%v", once, w)
	}
}

func TestEliminateEmptyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic")
		}
	}()

	Xor{}.Eliminate(false)
}

func TestEval(t *testing.T) {
	w := Word{
		Xor{Ops: []Expr{Bit{Name: "crc", Index: 0}, Bit{Name: "data", Index: 1}}},
		Const{Value: true},
		Bit{Name: "data", Index: 0},
	}

	got := w.Eval(map[string]*big.Int{
		"crc":  big.NewInt(0b1),
		"data": big.NewInt(0b10),
	})

	// bit 0: 1^1 = 0, bit 1: const 1, bit 2: data[0] = 0
	if got.Int64() != 0b010 {
		t.Errorf("eval: %b", got.Int64())
	}
}
