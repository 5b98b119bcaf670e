package docs

import (
	"strings"
	"testing"
)

func TestTopics(t *testing.T) {
	t.Parallel()

	want := []string{"config", "exit-codes", "keys", "notifications", "offline"}
	got := Topics()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("Topics() = %v, want %v", got, want)
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		topic  string
		wantOK bool
		substr string
	}{
		{topic: "keys", wantOK: true, substr: "Ctrl+J"},
		{topic: " Exit-Codes ", wantOK: true, substr: "| 3 |"},
		{topic: "offline", wantOK: true, substr: "cache.sqlite"},
		{topic: "notifications", wantOK: true, substr: "/api/notifications"},
		{topic: "", wantOK: false},
		{topic: "nope", wantOK: false},
		{topic: "../docs", wantOK: false},
	}
	for _, tt := range tests {
		body, ok := Get(tt.topic)
		if ok != tt.wantOK {
			t.Fatalf("Get(%q) ok=%v, want %v", tt.topic, ok, tt.wantOK)
		}
		if ok && !strings.Contains(body, tt.substr) {
			t.Fatalf("Get(%q) missing %q", tt.topic, tt.substr)
		}
	}
}
