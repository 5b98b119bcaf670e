package i18n

import "testing"

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		wantJN  string
		wantErr bool
	}{
		{in: "", wantJN: "刚刚"},
		{in: "zh-CN", wantJN: "刚刚"},
		{in: "zh", wantJN: "刚刚"},
		{in: "en", wantJN: "just now"},
		{in: "en-US", wantJN: "just now"},
		{in: "not a tag!", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			c, err := Resolve(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q): %v", tt.in, err)
			}
			if c.JustNow != tt.wantJN {
				t.Fatalf("Resolve(%q).JustNow = %q, want %q", tt.in, c.JustNow, tt.wantJN)
			}
		})
	}
}

func TestCatalog_IsChinese(t *testing.T) {
	t.Parallel()

	if !MustResolve("zh-CN").IsChinese() {
		t.Fatalf("zh-CN should be chinese")
	}
	if MustResolve("en").IsChinese() {
		t.Fatalf("en should not be chinese")
	}
}

func TestCatalog_StatusLabel(t *testing.T) {
	t.Parallel()

	c := MustResolve("zh-CN")
	if got := c.StatusLabel("in_progress"); got != "进行中" {
		t.Fatalf("got %q", got)
	}
	if got := c.StatusLabel("archived"); got != "archived" {
		t.Fatalf("unknown status should pass through, got %q", got)
	}
}
