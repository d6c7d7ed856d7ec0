package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// seedGolden writes a golden file mirroring exactly what
// CompareWithGolden would produce for the given data, so the
// comparison below is self-contained and independent of the Go
// toolchain version the test happens to run under.
func seedGolden(t *testing.T, feature, name string, data interface{}) {
	t.Helper()
	goldenData := GoldenFile{
		Meta: GoldenMeta{
			GoVersion: runtime.Version(),
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
		},
		Data: data,
	}
	raw, err := json.MarshalIndent(goldenData, "", "  ")
	if err != nil {
		t.Fatalf("marshal seed golden: %v", err)
	}
	path := GoldenPath(feature, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir testdata: %v", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write seed golden: %v", err)
	}
}

func TestCompareWithGoldenMatches(t *testing.T) {
	chdirToTemp(t)
	data := map[string]interface{}{"functions": []string{"add"}, "blocks": 4}
	seedGolden(t, "mirsnap", "simple", data)
	CompareWithGolden(t, "mirsnap", "simple", data)
}

func TestJSONEqualDetectsMismatch(t *testing.T) {
	a, err := marshalDeterministic(map[string]int{"blocks": 4})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b, err := marshalDeterministic(map[string]int{"blocks": 5})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if jsonEqual(a, b) {
		t.Fatalf("expected differing payloads to compare unequal")
	}
}

func chdirToTemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })
}
