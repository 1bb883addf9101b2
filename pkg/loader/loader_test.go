package loader

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/rulegen/pkg/model"
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

func TestLoadSimpleDocument(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.xml", `<prompt>
  <metadata description="d" globs="g" alwaysApply="false"/>
  <header><title>T</title></header>
</prompt>`)

	root, err := New(testLogger()).Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if root.Name != "prompt" {
		t.Errorf("root element = %q, want prompt", root.Name)
	}
	meta := root.Find("metadata")
	if meta == nil {
		t.Fatal("metadata element not found")
	}
	if got := meta.Attr("description"); got != "d" {
		t.Errorf("description attr = %q, want d", got)
	}
	if title := root.Find("header").Find("title"); title == nil || strings.TrimSpace(title.Text) != "T" {
		t.Errorf("unexpected header title: %+v", title)
	}
}

func TestLoadResolvesIncludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "fragments/common.xml", `<fragment>
  <instruction><title>A</title></instruction>
  <instruction><title>B</title></instruction>
</fragment>`)
	path := writeFile(t, dir, "doc.xml", `<prompt>
  <metadata/>
  <header><title>T</title></header>
  <content>
    <include src="fragments/common.xml"/>
    <rule number="1"><title>R</title></rule>
  </content>
</prompt>`)

	root, err := New(testLogger()).Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	content := root.Find("content")
	if content == nil {
		t.Fatal("content element not found")
	}
	var names []string
	for _, c := range content.Children {
		names = append(names, c.Name)
	}
	want := []string{"instruction", "instruction", "rule"}
	if len(names) != len(want) {
		t.Fatalf("content children = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("child %d = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestLoadNestedIncludes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "fragments/inner.xml", `<fragment>
  <rule number="2"><title>Inner</title></rule>
</fragment>`)
	writeFile(t, dir, "fragments/outer.xml", `<fragment>
  <rule number="1"><title>Outer</title></rule>
  <include src="inner.xml"/>
</fragment>`)
	path := writeFile(t, dir, "doc.xml", `<prompt>
  <metadata/>
  <header><title>T</title></header>
  <content><include src="fragments/outer.xml"/></content>
</prompt>`)

	root, err := New(testLogger()).Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	rules := root.Find("content").FindAll("rule")
	if len(rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(rules))
	}
}

func TestLoadCircularInclude(t *testing.T) {
	dir := t.TempDir()
	pathA := writeFile(t, dir, "a.xml", `<prompt>
  <metadata/>
  <header><title>A</title></header>
  <content><include src="b.xml"/></content>
</prompt>`)
	pathB := writeFile(t, dir, "b.xml", `<fragment><include src="a.xml"/></fragment>`)

	_, err := New(testLogger()).Load(pathA)
	if err == nil {
		t.Fatal("expected circular include error")
	}
	var circular *CircularIncludeError
	if !errors.As(err, &circular) {
		t.Fatalf("error type = %T, want *CircularIncludeError", err)
	}
	if !errors.Is(err, model.ErrStructural) {
		t.Error("circular include error should be structural")
	}
	msg := err.Error()
	if !strings.Contains(msg, pathA) || !strings.Contains(msg, pathB) {
		t.Errorf("error %q should name both documents in the cycle", msg)
	}
}

func TestLoadSelfInclude(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.xml", `<fragment><include src="a.xml"/></fragment>`)

	_, err := New(testLogger()).Load(path)
	var circular *CircularIncludeError
	if !errors.As(err, &circular) {
		t.Fatalf("error = %v, want *CircularIncludeError", err)
	}
}

func TestLoadUnresolvedInclude(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.xml", `<prompt>
  <metadata/>
  <header><title>T</title></header>
  <content><include src="missing.xml"/></content>
</prompt>`)

	_, err := New(testLogger()).Load(path)
	var unresolved *UnresolvedIncludeError
	if !errors.As(err, &unresolved) {
		t.Fatalf("error = %v, want *UnresolvedIncludeError", err)
	}
	if unresolved.Fragment != "missing.xml" {
		t.Errorf("Fragment = %q, want missing.xml", unresolved.Fragment)
	}
	if unresolved.ReferencedBy != path {
		t.Errorf("ReferencedBy = %q, want %q", unresolved.ReferencedBy, path)
	}
	if !errors.Is(err, model.ErrStructural) {
		t.Error("unresolved include error should be structural")
	}
}

func TestLoadMalformedDocument(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.xml", `<prompt><unclosed>`)

	_, err := New(testLogger()).Load(path)
	var malformed *MalformedDocumentError
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v, want *MalformedDocumentError", err)
	}
	if !errors.Is(err, model.ErrStructural) {
		t.Error("malformed document error should be structural")
	}
}

func TestSplicePointsAreIndependentCopies(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "fragments/common.xml", `<fragment>
  <instruction><title>Shared</title></instruction>
</fragment>`)
	path := writeFile(t, dir, "doc.xml", `<prompt>
  <metadata/>
  <header><title>T</title></header>
  <content>
    <include src="fragments/common.xml"/>
    <include src="fragments/common.xml"/>
  </content>
</prompt>`)

	root, err := New(testLogger()).Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	instructions := root.Find("content").FindAll("instruction")
	if len(instructions) != 2 {
		t.Fatalf("got %d spliced instructions, want 2", len(instructions))
	}
	if instructions[0] == instructions[1] {
		t.Error("splice points share the same node")
	}
	instructions[0].Find("title").Text = "mutated"
	if instructions[1].Find("title").Text == "mutated" {
		t.Error("mutating one splice point affected the other")
	}
}

func TestVerbatimTextPreserved(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "doc.xml", "<prompt><content><rule number=\"1\"><good language=\"java\">\nfoo();  \n</good></rule></content></prompt>")

	root, err := New(testLogger()).Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	good := root.Find("content").Find("rule").Find("good")
	if good.Text != "\nfoo();  \n" {
		t.Errorf("verbatim text = %q, want %q", good.Text, "\nfoo();  \n")
	}
}
