package raw

import "testing"

func TestGet(t *testing.T) {
	t.Setenv("RAWT_LOG_LEVEL", " info ")
	c := New().Prefix("RAWT_").Prefix("LOG_")

	if got := c.Get("LEVEL", "debug"); got != "info" {
		t.Fatalf("Get = %q", got)
	}
	if got := c.Get("FORMAT", "console"); got != "console" {
		t.Fatalf("Get default = %q", got)
	}
}

func TestGetBool(t *testing.T) {
	c := New().Prefix("RAWB_")
	cases := []struct {
		val  string
		def  bool
		want bool
	}{
		{"", true, true},
		{"", false, false},
		{"1", false, true},
		{"YES", false, true},
		{"on", false, true},
		{"0", true, false},
		{"nah", true, false},
	}
	for _, tc := range cases {
		t.Setenv("RAWB_X", tc.val)
		if got := c.GetBool("X", tc.def); got != tc.want {
			t.Fatalf("GetBool(%q, %v) = %v", tc.val, tc.def, got)
		}
	}
}

func TestGetInt(t *testing.T) {
	c := New().Prefix("RAWI_")
	cases := []struct {
		val  string
		want int
	}{
		{"", 5},
		{"10", 10},
		{" 7 ", 7},
		{"-3", 5},
		{"1e3", 5},
	}
	for _, tc := range cases {
		t.Setenv("RAWI_N", tc.val)
		if got := c.GetInt("N", 5); got != tc.want {
			t.Fatalf("GetInt(%q) = %d, want %d", tc.val, got, tc.want)
		}
	}
}
