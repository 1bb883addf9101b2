package builder

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/rulegen/pkg/config"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const validDoc = `<prompt>
  <metadata description="d" globs="*" alwaysApply="false"/>
  <header><title>T</title></header>
  <content><rule number="1"><title>R</title><subtitle>s</subtitle><description>d</description></rule></content>
</prompt>`

func testConfig() *config.Config {
	cfg := &config.Config{
		Enabled:   true,
		SourceDir: "prompts",
		OutputDir: "out",
		Workers:   2,
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestBuildCompilesAllDocuments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "prompts/a.xml", validDoc)
	writeFile(t, dir, "prompts/nested/b.xml", validDoc)

	results, err := New(testLogger()).Build(testConfig(), dir)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("unexpected failure for %s: %v", r.Source, r.Err)
		}
		if _, err := os.Stat(r.Output); err != nil {
			t.Errorf("artifact %s not written: %v", r.Output, err)
		}
		if !strings.HasSuffix(r.Output, ".mdc") {
			t.Errorf("artifact %s should carry the configured extension", r.Output)
		}
	}
}

func TestBuildFailureDoesNotAbortSiblings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "prompts/bad.xml", `<prompt><header><title>T</title></header></prompt>`)
	writeFile(t, dir, "prompts/good.xml", validDoc)

	results, err := New(testLogger()).Build(testConfig(), dir)
	if err == nil {
		t.Fatal("expected aggregate error when a document fails")
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	var goodOK, badFailed bool
	for _, r := range results {
		switch filepath.Base(r.Source) {
		case "good.xml":
			goodOK = r.Err == nil
		case "bad.xml":
			badFailed = r.Err != nil
		}
	}
	if !goodOK {
		t.Error("sibling document should still compile when another fails")
	}
	if !badFailed {
		t.Error("malformed document should be reported as failed")
	}
	if !strings.Contains(err.Error(), "1 of 2") {
		t.Errorf("aggregate error should count failures: %v", err)
	}
}

func TestBuildSkipsFragmentDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "prompts/a.xml", validDoc)
	writeFile(t, dir, "prompts/fragments/common.xml", `<fragment><instruction><title>I</title></instruction></fragment>`)

	results, err := New(testLogger()).Build(testConfig(), dir)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1 (fragments are not compiled directly)", len(results))
	}
}

func TestBuildEmptySourceDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "prompts"), 0755); err != nil {
		t.Fatal(err)
	}

	results, err := New(testLogger()).Build(testConfig(), dir)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestBuildDeterministicResultOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "prompts/z.xml", validDoc)
	writeFile(t, dir, "prompts/a.xml", validDoc)
	writeFile(t, dir, "prompts/m.xml", validDoc)

	results, err := New(testLogger()).Build(testConfig(), dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, r := range results {
		names = append(names, filepath.Base(r.Source))
	}
	want := []string{"a.xml", "m.xml", "z.xml"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("result order = %v, want %v", names, want)
		}
	}
}
