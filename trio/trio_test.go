package trio

import "testing"

func TestVariantsAreExclusive(t *testing.T) {
	ok := Ok[int, string, error](5)
	if !ok.IsOk() || ok.IsWarn() || ok.IsErr() {
		t.Fatalf("Ok item reported wrong variant: %v", ok.Variant())
	}
	v, has := ok.OkValue()
	if !has || v != 5 {
		t.Fatalf("OkValue() = (%v, %v), want (5, true)", v, has)
	}
	if _, has := ok.WarnValue(); has {
		t.Fatal("WarnValue() should not report present on an Ok item")
	}

	warn := Warn[int, string, error]("careful")
	if !warn.IsWarn() {
		t.Fatal("expected Warn variant")
	}
	w, has := warn.WarnValue()
	if !has || w != "careful" {
		t.Fatalf("WarnValue() = (%v, %v), want (\"careful\", true)", w, has)
	}

	errItem := Err[int, string, error](errSentinel{})
	if !errItem.IsErr() {
		t.Fatal("expected Err variant")
	}
}

type errSentinel struct{}

func (errSentinel) Error() string { return "sentinel" }

func TestMapOkPreservesOtherVariants(t *testing.T) {
	warn := Warn[int, string, error]("w")
	mapped := MapOk(warn, func(v int) string { return "mapped" })
	if !mapped.IsWarn() {
		t.Fatal("MapOk must preserve Warn variant")
	}
	gotW, _ := mapped.WarnValue()
	if gotW != "w" {
		t.Fatalf("warn payload changed: got %q", gotW)
	}

	errItem := Err[int, string, error](errSentinel{})
	mappedErr := MapOk(errItem, func(v int) string { return "mapped" })
	if !mappedErr.IsErr() {
		t.Fatal("MapOk must preserve Err variant")
	}

	ok := Ok[int, string, error](3)
	mappedOk := MapOk(ok, func(v int) string { return "three" })
	got, _ := mappedOk.OkValue()
	if got != "three" {
		t.Fatalf("MapOk transformed value incorrectly: got %q", got)
	}
}

func TestFlattenTakesInnermostVariant(t *testing.T) {
	inner := Warn[int, string, error]("inner-warn")
	outer := Ok[Result[int, string, error], string, error](inner)
	flat := Flatten(outer)
	if !flat.IsWarn() {
		t.Fatalf("Flatten should collapse to innermost variant, got %v", flat.Variant())
	}

	outerWarn := Warn[Result[int, string, error], string, error]("outer-warn")
	flatWarn := Flatten(outerWarn)
	if !flatWarn.IsWarn() {
		t.Fatal("an outer Warn should remain a Warn after flattening")
	}
	w, _ := flatWarn.WarnValue()
	if w != "outer-warn" {
		t.Fatalf("flattened warn payload = %q, want \"outer-warn\"", w)
	}
}
