package util

import "testing"

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "红烧肉", want: "红烧肉"},
		{name: "inner runs", input: "红烧肉  大份", want: "红烧肉 大份"},
		{name: "surrounding", input: "  pork bun \t", want: "pork bun"},
		{name: "tabs and newlines", input: "a\t b\nc", want: "a b c"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeName(tc.input); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("选择配送到家", 4); got != "选择配送" {
		t.Fatalf("got %q", got)
	}
	if got := TruncateRunes("short", 150); got != "short" {
		t.Fatalf("got %q", got)
	}
}
