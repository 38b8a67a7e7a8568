package title

import "testing"

func TestParseSplitsNamespace(t *testing.T) {
	cases := []struct {
		raw      string
		wantNS   int32
		wantBase string
	}{
		{"Main Page", NSMain, "Main Page"},
		{"Talk:Foo", NSTalk, "Foo"},
		{"Category:Cats", NSCategory, "Cats"},
		{"Category_talk:Cats", NSCategoryTalk, "Cats"},
		{"User:Someone", NSUser, "Someone"},
		{"not a real prefix:stays main", NSMain, "Not a real prefix:stays main"},
	}

	for _, c := range cases {
		got := Parse(c.raw)
		if got.Namespace() != c.wantNS || got.Base() != c.wantBase {
			t.Errorf("Parse(%q) = (ns=%d, base=%q), want (ns=%d, base=%q)",
				c.raw, got.Namespace(), got.Base(), c.wantNS, c.wantBase)
		}
	}
}

func TestEqualAndLess(t *testing.T) {
	a := Parse("Foo")
	b := Parse("foo")
	if !a.Equal(b) {
		t.Fatalf("%v and %v should be equal after base-name capitalisation", a, b)
	}

	talk := Parse("Talk:Foo")
	if !a.Less(talk) {
		t.Fatalf("main-namespace title should sort before its talk companion")
	}
}

func TestCompanion(t *testing.T) {
	talkFoo := Parse("Talk:Foo")
	companion, ok := Companion(talkFoo)
	if !ok {
		t.Fatal("Talk: namespace should have a companion")
	}
	if companion.Namespace() != NSMain || companion.Base() != "Foo" {
		t.Errorf("companion of Talk:Foo = %v, want Foo in namespace 0", companion)
	}

	back, ok := Companion(companion)
	if !ok || !back.Equal(talkFoo) {
		t.Fatalf("companion should be its own inverse, got %v", back)
	}
}

func TestString(t *testing.T) {
	if got := New(NSMain, "Main Page").String(); got != "Main Page" {
		t.Errorf("String() = %q, want \"Main Page\"", got)
	}
	if got := New(NSCategory, "Cats").String(); got != "Category:Cats" {
		t.Errorf("String() = %q, want \"Category:Cats\"", got)
	}
}
