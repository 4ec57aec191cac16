package strings

import "testing"

func TestIfEmpty(t *testing.T) {
	t.Parallel()

	// non-empty slice should be returned as-is
	in := []int{1, 2, 3}
	def := []int{9}
	got := IfEmpty(in, def)
	if len(got) != 3 || got[0] != 1 {
		t.Fatalf("IfEmpty returned wrong slice: %#v", got)
	}

	// empty slice should fall back to default
	var empty []string
	def2 := []string{"x"}
	got2 := IfEmpty(empty, def2)
	if len(got2) != 1 || got2[0] != "x" {
		t.Fatalf("IfEmpty did not return default: %#v", got2)
	}
}

func TestOr(t *testing.T) {
	t.Parallel()

	cases := []struct {
		s, def, want string
	}{
		{"", "d", "d"},
		{"  \t", "d", "d"},
		{" v ", "d", "v"},
		{"v", "", "v"},
	}
	for _, c := range cases {
		if got := Or(c.s, c.def); got != c.want {
			t.Fatalf("Or(%q, %q) = %q, want %q", c.s, c.def, got, c.want)
		}
	}
}
