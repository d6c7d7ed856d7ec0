// Package testutil provides golden-file comparison for pipeline stage
// snapshots (token streams, AST/HIR/MIR summaries) shared across
// package test suites.
package testutil

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// UpdateGoldens controls whether to (re)write golden files instead of
// comparing against them. Set via UPDATE_GOLDENS=true go test ./...
var UpdateGoldens = os.Getenv("UPDATE_GOLDENS") == "true"

// GoldenMeta captures platform information alongside golden data, for
// debugging cross-platform drift — it is not itself compared.
type GoldenMeta struct {
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GoldenFile is the on-disk shape of a golden snapshot.
type GoldenFile struct {
	Meta GoldenMeta  `json:"meta"`
	Data interface{} `json:"data"`
}

// GoldenPath returns the path to a golden file under testdata/.
func GoldenPath(feature, name string) string {
	return filepath.Join("testdata", feature, name+".golden.json")
}

// CompareWithGolden marshals actual deterministically and compares it
// to the stored golden file for feature/name, updating the file in
// place when UpdateGoldens is set.
func CompareWithGolden(t *testing.T, feature, name string, actual interface{}) {
	t.Helper()

	goldenPath := GoldenPath(feature, name)

	goldenData := GoldenFile{
		Meta: GoldenMeta{
			GoVersion: runtime.Version(),
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
		},
		Data: actual,
	}

	actualJSON, err := marshalDeterministic(goldenData)
	if err != nil {
		t.Fatalf("failed to marshal actual data: %v", err)
	}

	if UpdateGoldens {
		if err := os.MkdirAll(filepath.Dir(goldenPath), 0o755); err != nil {
			t.Fatalf("failed to create golden directory: %v", err)
		}
		if err := os.WriteFile(goldenPath, actualJSON, 0o644); err != nil {
			t.Fatalf("failed to write golden file: %v", err)
		}
		t.Logf("Updated golden file: %s", goldenPath)
		return
	}

	expectedJSON, err := os.ReadFile(goldenPath)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("golden file does not exist: %s\nRun with UPDATE_GOLDENS=true to create", goldenPath)
		}
		t.Fatalf("failed to read golden file: %v", err)
	}

	if !jsonEqual(actualJSON, expectedJSON) {
		t.Errorf("golden file mismatch for %s/%s\nExpected:\n%s\nActual:\n%s",
			feature, name, string(expectedJSON), string(actualJSON))
	}
}

func marshalDeterministic(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return json.MarshalIndent(m, "", "  ")
}

func jsonEqual(a, b []byte) bool {
	var aData, bData interface{}
	if err := json.Unmarshal(a, &aData); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bData); err != nil {
		return false
	}
	aJSON, _ := json.Marshal(aData)
	bJSON, _ := json.Marshal(bData)
	return bytes.Equal(aJSON, bJSON)
}
