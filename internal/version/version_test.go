package version

import "testing"

func TestCompatibleHost(t *testing.T) {
	tests := []struct {
		server string
		want   bool
	}{
		{"1.1.2", true},
		{"v1.1.0", true},
		{"1.1", true},
		{"1.2.0", false},
		{"2.1.2", false},
		{"...", false},
		{"", false},
		{"1.x.2", false},
	}

	for _, tt := range tests {
		t.Run(tt.server, func(t *testing.T) {
			if got := CompatibleHost(tt.server); got != tt.want {
				t.Errorf("CompatibleHost(%q) = %v, want %v", tt.server, got, tt.want)
			}
		})
	}
}

func TestFull(t *testing.T) {
	if Version == "" || Commit == "" {
		t.Fatalf("Version/Commit should be populated, got %q/%q", Version, Commit)
	}
	want := Version + " (commit: " + Commit + ")"
	if got := Full(); got != want {
		t.Errorf("Full() = %q, want %q", got, want)
	}
}
