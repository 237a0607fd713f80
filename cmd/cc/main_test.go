package main

import (
	"os"
	"strings"
	"testing"
)

func TestReadSourceStdin(t *testing.T) {
	oldStdin := os.Stdin
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdin = r
	t.Cleanup(func() { os.Stdin = oldStdin })

	go func() {
		w.WriteString("int main(void) { return 0; }\n")
		w.Close()
	}()

	name, src, err := readSource(nil)
	if err != nil {
		t.Fatalf("readSource: %v", err)
	}
	if name != "<stdin>" {
		t.Errorf("got name %q, want <stdin>", name)
	}
	if !strings.Contains(src, "int main") {
		t.Errorf("got src %q", src)
	}
}

func TestReadSourceFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/in.c"
	if err := os.WriteFile(path, []byte("int x;\n"), 0644); err != nil {
		t.Fatal(err)
	}
	name, src, err := readSource([]string{path})
	if err != nil {
		t.Fatalf("readSource: %v", err)
	}
	if name != path {
		t.Errorf("got name %q, want %q", name, path)
	}
	if src != "int x;\n" {
		t.Errorf("got src %q", src)
	}
}

func TestOpenOutputFile(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/out.s"
	outputPath = path
	t.Cleanup(func() { outputPath = "" })

	wc, err := openOutput()
	if err != nil {
		t.Fatalf("openOutput: %v", err)
	}
	if _, err := wc.Write([]byte("hello")); err != nil {
		t.Fatal(err)
	}
	wc.Close()

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello" {
		t.Errorf("got %q, want %q", got, "hello")
	}
}

func TestOpenOutputStdoutFallback(t *testing.T) {
	outputPath = ""
	wc, err := openOutput()
	if err != nil {
		t.Fatalf("openOutput: %v", err)
	}
	if err := wc.Close(); err != nil {
		t.Errorf("Close on stdout fallback should be a no-op, got %v", err)
	}
}
