package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestGetConfigDir_XDG(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux")
	}

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if want := filepath.Join(dir, "siadrive"); got != want {
		t.Errorf("GetConfigDir() = %v, want %v", got, want)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	reg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if reg.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", reg.Version, CurrentVersion)
	}
	if reg.Preferences == nil || reg.Preferences.DiscoverTimeout != 5 {
		t.Errorf("Preferences = %+v, want default discover timeout 5", reg.Preferences)
	}
	if reg.Path() != path {
		t.Errorf("Path() = %v, want %v", reg.Path(), path)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	reg := NewRegistry()
	reg.Preferences.BridgeURL = "ws://127.0.0.1:9980/bridge"
	reg.Preferences.LastDrive = "Z:\\"
	seen := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	reg.TouchHost("ws://127.0.0.1:9980/bridge", "1.1.2", seen)

	if err := reg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "# SiaDrive UI preferences") {
		t.Error("saved file should start with the header comment")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
		t.Errorf("file mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.Preferences.LastDrive != "Z:\\" {
		t.Errorf("LastDrive = %q, want Z:\\", loaded.Preferences.LastDrive)
	}
	host := loaded.Hosts["ws://127.0.0.1:9980/bridge"]
	if host == nil {
		t.Fatal("host entry missing after reload")
	}
	if host.ServerVersion != "1.1.2" || !host.LastSeen.Equal(seen) {
		t.Errorf("host = %+v, want version 1.1.2 seen %v", host, seen)
	}
}

func TestLoad_RejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: 7\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() should reject an unsupported version")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: [1\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on malformed YAML")
	}
}

func TestResolveBridgeURL(t *testing.T) {
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	tests := []struct {
		name       string
		flag       string
		configured string
		hosts      map[string]time.Time
		want       string
	}{
		{
			name:       "flag wins",
			flag:       "ws://flag/bridge",
			configured: "ws://configured/bridge",
			want:       "ws://flag/bridge",
		},
		{
			name:       "configured url",
			configured: "ws://configured/bridge",
			hosts:      map[string]time.Time{"ws://seen/bridge": newer},
			want:       "ws://configured/bridge",
		},
		{
			name:  "most recent host",
			hosts: map[string]time.Time{"ws://old/bridge": older, "ws://new/bridge": newer},
			want:  "ws://new/bridge",
		},
		{
			name: "nothing known",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			reg.Preferences.BridgeURL = tt.configured
			for u, seen := range tt.hosts {
				reg.TouchHost(u, "", seen)
			}

			if got := reg.ResolveBridgeURL(tt.flag); got != tt.want {
				t.Errorf("ResolveBridgeURL(%q) = %q, want %q", tt.flag, got, tt.want)
			}
		})
	}
}
