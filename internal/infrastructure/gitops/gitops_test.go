package gitops

import "testing"

func TestCommitMessage(t *testing.T) {
	tests := []struct {
		name     string
		template string
		zone     string
		expected string
	}{
		{"default template", "feat(zone): update {zone}", "example.com.", "feat(zone): update example.com"},
		{"trailing dot stripped", "update {zone}", "example.com.", "update example.com"},
		{"no placeholder", "zone update", "example.com.", "zone update"},
		{"placeholder repeated", "{zone}: sync {zone}", "example.com.", "example.com: sync example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CommitMessage(tt.template, tt.zone); got != tt.expected {
				t.Errorf("CommitMessage(%q, %q) = %q, want %q", tt.template, tt.zone, got, tt.expected)
			}
		})
	}
}
