package rtti

import (
	"fmt"
	"strings"
	"testing"
)

// shape hierarchy used across tests:
//
//	object
//	 └─ shape
//	     ├─ circle
//	     └─ polygon
//	         └─ square
//	thing (unrelated root)
func newShapes() (r *Registry, object, shape, circle, polygon, square, thing *Type) {
	r = NewRegistry()
	object = r.Register("test.Object", nil)
	shape = r.Register("test.Shape", object)
	circle = r.Register("test.Circle", shape)
	polygon = r.Register("test.Polygon", shape)
	square = r.Register("test.Square", polygon)
	thing = r.Register("test.Thing", nil)
	return
}

func TestIsDerivedAncestors(t *testing.T) {
	_, object, shape, _, polygon, square, _ := newShapes()

	for _, anc := range []*Type{square, polygon, shape, object} {
		if !IsDerived(square, anc) {
			t.Errorf("IsDerived(square, %s) = false, want true", anc)
		}
	}
}

func TestIsDerivedSelf(t *testing.T) {
	_, object, shape, circle, polygon, square, thing := newShapes()
	for _, typ := range []*Type{object, shape, circle, polygon, square, thing} {
		if !typ.IsDerived(typ) {
			t.Errorf("%s should derive from itself", typ)
		}
	}
}

func TestIsDerivedUnrelated(t *testing.T) {
	_, object, shape, circle, polygon, square, thing := newShapes()

	cases := []struct{ a, b *Type }{
		{circle, polygon},
		{circle, square},
		{polygon, square}, // ancestor is not derived from descendant
		{object, shape},
		{square, thing},
		{thing, object},
	}
	for _, c := range cases {
		if IsDerived(c.a, c.b) {
			t.Errorf("IsDerived(%s, %s) = true, want false", c.a, c.b)
		}
	}
}

func TestIsDerivedNil(t *testing.T) {
	_, object, _, _, _, _, _ := newShapes()
	if IsDerived(nil, object) {
		t.Error("nil candidate should not derive")
	}
	if IsDerived(object, nil) {
		t.Error("nil query should not match")
	}
}

func TestIsExactly(t *testing.T) {
	_, _, shape, circle, _, _, _ := newShapes()
	if !circle.IsExactly(circle) {
		t.Error("circle should be exactly circle")
	}
	if circle.IsExactly(shape) {
		t.Error("circle should not be exactly shape")
	}
}

func TestDepthAndBase(t *testing.T) {
	_, object, shape, _, polygon, square, _ := newShapes()
	if object.Depth() != 0 || square.Depth() != 3 {
		t.Errorf("depths = %d, %d, want 0, 3", object.Depth(), square.Depth())
	}
	if square.Base() != polygon || polygon.Base() != shape || object.Base() != nil {
		t.Error("base chain mismatch")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register("dup", nil)
	defer func() {
		rec := recover()
		if rec == nil {
			t.Fatal("expected panic on duplicate registration")
		}
		if !strings.Contains(fmt.Sprint(rec), "already registered") {
			t.Errorf("unexpected panic: %v", rec)
		}
	}()
	r.Register("dup", nil)
}

func TestRegisterEmptyNamePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on empty name")
		}
	}()
	NewRegistry().Register("", nil)
}

func TestRegisterForeignBasePanics(t *testing.T) {
	other := NewRegistry().Register("foreign", nil)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on unregistered base")
		}
	}()
	NewRegistry().Register("child", other)
}

func TestLookupAndTypes(t *testing.T) {
	r, _, _, circle, _, _, _ := newShapes()
	got, ok := r.Lookup("test.Circle")
	if !ok || got != circle {
		t.Errorf("Lookup = %v, %v", got, ok)
	}
	if _, ok := r.Lookup("test.Missing"); ok {
		t.Error("missing type should not be found")
	}
	types := r.Types()
	if len(types) != 6 {
		t.Fatalf("len(Types) = %d, want 6", len(types))
	}
	for i := 1; i < len(types); i++ {
		if types[i-1].Name() > types[i].Name() {
			t.Errorf("Types not sorted: %s before %s", types[i-1], types[i])
		}
	}
}

// --- Typed helpers ---

var (
	testAnimal = Register("rtti_test.Animal", nil)
	testDog    = Register("rtti_test.Dog", testAnimal)
	testCat    = Register("rtti_test.Cat", testAnimal)
)

type animal struct{ name string }

func (a *animal) Type() *Type { return testAnimal }

type dog struct{ animal }

func (d *dog) Type() *Type { return testDog }
func (d *dog) Bark() string { return d.name + ": woof" }

type cat struct{ animal }

func (c *cat) Type() *Type { return testCat }

func TestIsAndAs(t *testing.T) {
	var a Typed = &dog{animal{"rex"}}

	if !Is(a, testAnimal) || !Is(a, testDog) || Is(a, testCat) {
		t.Error("Is results mismatch for dog")
	}
	if !IsExactly(a, testDog) || IsExactly(a, testAnimal) {
		t.Error("IsExactly results mismatch for dog")
	}

	d, ok := As[*dog](a, testDog)
	if !ok || d.Bark() != "rex: woof" {
		t.Errorf("As[*dog] = %v, %v", d, ok)
	}

	if c, ok := As[*cat](a, testCat); ok || c != nil {
		t.Errorf("As[*cat] on dog = %v, %v, want nil, false", c, ok)
	}
}

func TestAsNil(t *testing.T) {
	if v, ok := As[*dog](nil, testDog); ok || v != nil {
		t.Errorf("As on nil = %v, %v", v, ok)
	}
}

func TestSameTypeHelpers(t *testing.T) {
	d1 := &dog{}
	d2 := &dog{}
	c := &cat{}
	a := &animal{}
	if !SameType(d1, d2) || SameType(d1, c) {
		t.Error("SameType mismatch")
	}
	if !DerivedFromSameType(d1, a) || DerivedFromSameType(a, d1) {
		t.Error("DerivedFromSameType mismatch")
	}
}

func TestDefaultRegistryLookup(t *testing.T) {
	got, ok := Lookup("rtti_test.Dog")
	if !ok || got != testDog {
		t.Errorf("Lookup(rtti_test.Dog) = %v, %v", got, ok)
	}
}
