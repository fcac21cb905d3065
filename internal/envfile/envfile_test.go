package envfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := `# comment
SLIDESMITH_TEST_DPI=150
export SLIDESMITH_TEST_BIN="/opt/inkscape"
SLIDESMITH_TEST_KEEP=from-file
not a pair
=novalue
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SLIDESMITH_TEST_KEEP", "from-env")
	t.Setenv("SLIDESMITH_TEST_DPI", "")
	os.Unsetenv("SLIDESMITH_TEST_DPI")
	t.Setenv("SLIDESMITH_TEST_BIN", "")
	os.Unsetenv("SLIDESMITH_TEST_BIN")

	res := LoadPath(path)
	if res.Err != nil || !res.Loaded {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Keys != 2 {
		t.Errorf("expected 2 keys set, got %d", res.Keys)
	}
	if got := os.Getenv("SLIDESMITH_TEST_DPI"); got != "150" {
		t.Errorf("expected 150, got %q", got)
	}
	if got := os.Getenv("SLIDESMITH_TEST_BIN"); got != "/opt/inkscape" {
		t.Errorf("expected quotes stripped, got %q", got)
	}
	if got := os.Getenv("SLIDESMITH_TEST_KEEP"); got != "from-env" {
		t.Errorf("expected existing value kept, got %q", got)
	}
}

func TestLoadOverride(t *testing.T) {
	t.Setenv(PathVar, filepath.Join(t.TempDir(), "missing.env"))
	res := Load()
	if res.Loaded || res.Err == nil {
		t.Errorf("expected error for missing override, got %+v", res)
	}
}

func TestParseBool(t *testing.T) {
	cases := map[string]bool{
		"1":     true,
		"true":  true,
		"TRUE":  true,
		"yes":   true,
		"on":    true,
		"false": false,
		"0":     false,
		"":      false,
	}
	for input, want := range cases {
		if got := ParseBool(input); got != want {
			t.Fatalf("ParseBool(%q) = %v, want %v", input, got, want)
		}
	}
}
