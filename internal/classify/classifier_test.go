package classify

import (
	"testing"

	"protobridge-generator/internal/schema"
)

func named(name, pkg string) schema.TypeRef {
	return schema.TypeRef{Kind: schema.RefKindNamed, Name: name, PkgPath: pkg}
}

func basic(name string) schema.TypeRef {
	return schema.TypeRef{Kind: schema.RefKindBasic, Name: name}
}

func ptr(elem schema.TypeRef) schema.TypeRef {
	return schema.TypeRef{Kind: schema.RefKindPointer, Elem: &elem}
}

func slice(elem schema.TypeRef) schema.TypeRef {
	return schema.TypeRef{Kind: schema.RefKindSlice, Elem: &elem}
}

func mapOf(key, elem schema.TypeRef) schema.TypeRef {
	return schema.TypeRef{Kind: schema.RefKindMap, Key: &key, Elem: &elem}
}

func testClassifier(wirePkg string) *Classifier {
	cfg := DefaultConfig()
	cfg.WirePackage = wirePkg
	return New(cfg)
}

func TestClassifyRuleOrder(t *testing.T) {
	c := testClassifier("example.com/app/wirepb")
	reg := NewRegistry()
	reg.Add("Status")

	tests := []struct {
		name string
		ref  schema.TypeRef
		want Class
	}{
		{"basic primitive", basic("uint64"), ClassPrimitive},
		{"string primitive", basic("string"), ClassPrimitive},
		{"pointer", ptr(basic("string")), ClassNullable},
		{"slice", slice(basic("uint64")), ClassSequence},
		{"map", mapOf(basic("string"), basic("int32")), ClassMap},
		{"wire origin", named("Track", "example.com/app/wirepb"), ClassWire},
		{"registered enum", named("Status", "example.com/app/catalog"), ClassEnum},
		{"custom fallback", named("TrackId", "example.com/app/catalog"), ClassCustom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.ref, reg)
			if got.Class != tt.want {
				t.Errorf("Classify(%s) = %s, want %s", tt.ref, got.Class, tt.want)
			}
		})
	}
}

func TestClassifyRecursion(t *testing.T) {
	c := testClassifier("example.com/app/wirepb")
	reg := NewRegistry()

	got := c.Classify(ptr(slice(named("Track", "example.com/app/catalog"))), reg)
	if got.Class != ClassNullable {
		t.Fatalf("outer class = %s, want nullable", got.Class)
	}
	if got.Inner.Class != ClassSequence {
		t.Fatalf("inner class = %s, want sequence", got.Inner.Class)
	}
	if got.Inner.Inner.Class != ClassCustom {
		t.Fatalf("element class = %s, want custom", got.Inner.Inner.Class)
	}
	if !got.IsCollection() {
		t.Error("nullable-wrapped sequence must count as a collection")
	}

	if want := "nullable(sequence(custom))"; got.String() != want {
		t.Errorf("String() = %q, want %q", got.String(), want)
	}
}

func TestClassifyMapKeyAndValue(t *testing.T) {
	c := testClassifier("")
	reg := NewRegistry()

	got := c.Classify(mapOf(basic("string"), named("Track", "x/y")), reg)
	if got.Key.Class != ClassPrimitive {
		t.Errorf("key class = %s, want primitive", got.Key.Class)
	}
	if got.Inner.Class != ClassCustom {
		t.Errorf("value class = %s, want custom", got.Inner.Class)
	}
}

func TestClassifyPrimitiveNameWinsOverWireOrigin(t *testing.T) {
	// A named type called like a primitive classifies as primitive even
	// when it originates from the wire package: the name rule runs first.
	c := testClassifier("example.com/app/wirepb")
	reg := NewRegistry()

	got := c.Classify(named("uint64", "example.com/app/wirepb"), reg)
	if got.Class != ClassPrimitive {
		t.Errorf("got %s, want primitive", got.Class)
	}
}

func TestClassifyConfiguredPrimitiveExtension(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PrimitiveNames = append(cfg.PrimitiveNames, "time.Duration")
	c := New(cfg)
	reg := NewRegistry()

	got := c.Classify(named("Duration", "time"), reg)
	if got.Class != ClassPrimitive {
		t.Errorf("got %s, want primitive for configured time.Duration", got.Class)
	}

	// Without the extension the same reference is custom.
	got = New(DefaultConfig()).Classify(named("Duration", "time"), reg)
	if got.Class != ClassCustom {
		t.Errorf("got %s, want custom without the extension", got.Class)
	}
}

func TestRegistryOrderDependence(t *testing.T) {
	c := testClassifier("")
	reg := NewRegistry()
	ref := named("Status", "x/y")

	// Before registration the name is a plain custom type.
	if got := c.Classify(ref, reg); got.Class != ClassCustom {
		t.Fatalf("before Add: got %s, want custom", got.Class)
	}

	reg.Add("Status")

	// After registration the same call sees an enum.
	if got := c.Classify(ref, reg); got.Class != ClassEnum {
		t.Fatalf("after Add: got %s, want enum", got.Class)
	}
}

func TestClassifyDeterminism(t *testing.T) {
	c := testClassifier("example.com/app/wirepb")
	reg := NewRegistry()
	reg.Add("Status")

	refs := []schema.TypeRef{
		basic("int32"),
		ptr(basic("uint32")),
		slice(named("Track", "example.com/app/wirepb")),
		mapOf(basic("string"), named("Status", "a/b")),
		named("Anything", "a/b"),
	}

	for _, ref := range refs {
		first := c.Classify(ref, reg)
		second := c.Classify(ref, reg)
		if first.String() != second.String() {
			t.Errorf("classification of %s not deterministic: %s vs %s", ref, first, second)
		}
	}
}
