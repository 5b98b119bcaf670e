package format

import "testing"

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{name: "short", in: "abc", n: 5, want: "abc"},
		{name: "exact", in: "abcde", n: 5, want: "abcde"},
		{name: "cut", in: "abcdef", n: 5, want: "abcde..."},
		{name: "runes", in: "今天要开会", n: 2, want: "今天..."},
		{name: "empty", in: "", n: 3, want: ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Truncate(tt.in, tt.n); got != tt.want {
				t.Fatalf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}

func TestPostContentMarkdown(t *testing.T) {
	t.Parallel()

	got := PostContentMarkdown("看这个\n[https://x.test/a.png]")
	want := "看这个  \n![图片](https://x.test/a.png)"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if PostContentMarkdown("   ") != "" {
		t.Fatalf("blank content should render empty")
	}
}
