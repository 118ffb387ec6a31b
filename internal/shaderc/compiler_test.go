package shaderc

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

type countingLowerer struct {
	calls int
	out   []byte
}

func (l *countingLowerer) Lower(stage vk.ShaderStageFlagBits, source []byte) ([]byte, error) {
	l.calls++
	return l.out, nil
}

func TestCompileSkipsUnchangedSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tri.vert")
	if err := os.WriteFile(src, []byte("void main() {}"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	lowerer := &countingLowerer{out: []byte{0x03, 0x02, 0x23, 0x07}}
	c, err := NewCompiler(filepath.Join(dir, "store.db"), lowerer, 4, nil)
	if err != nil {
		t.Fatalf("NewCompiler: %v", err)
	}
	defer c.Shutdown()

	if err := c.Compile(Request{SourcePath: src}); err != nil {
		t.Fatalf("Compile (first): %v", err)
	}
	if lowerer.calls != 1 {
		t.Fatalf("calls after first compile = %d, want 1", lowerer.calls)
	}
	if _, err := os.Stat(src + ".spv"); err != nil {
		t.Fatalf("expected %s.spv to exist: %v", src, err)
	}

	if err := c.Compile(Request{SourcePath: src}); err != nil {
		t.Fatalf("Compile (second): %v", err)
	}
	if lowerer.calls != 1 {
		t.Errorf("calls after unchanged second compile = %d, want 1 (should skip)", lowerer.calls)
	}

	if err := os.WriteFile(src, []byte("void main() { gl_Position = vec4(0); }"), 0o644); err != nil {
		t.Fatalf("WriteFile (modify): %v", err)
	}
	if err := c.Compile(Request{SourcePath: src}); err != nil {
		t.Fatalf("Compile (third): %v", err)
	}
	if lowerer.calls != 2 {
		t.Errorf("calls after modified source = %d, want 2", lowerer.calls)
	}
}

func TestCompileUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	c, err := NewCompiler(filepath.Join(dir, "store.db"), &countingLowerer{}, 4, nil)
	if err != nil {
		t.Fatalf("NewCompiler: %v", err)
	}
	defer c.Shutdown()

	err = c.Compile(Request{SourcePath: filepath.Join(dir, "readme.txt")})
	if !errors.Is(err, ErrUnknownStage) {
		t.Fatalf("Compile error = %v, want ErrUnknownStage", err)
	}
}

func TestSubmitWorkAfterShutdown(t *testing.T) {
	dir := t.TempDir()
	c, err := NewCompiler(filepath.Join(dir, "store.db"), &countingLowerer{}, 4, nil)
	if err != nil {
		t.Fatalf("NewCompiler: %v", err)
	}
	if err := c.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := c.SubmitWork(Request{SourcePath: "x.vert"}); !errors.Is(err, ErrClosed) {
		t.Fatalf("SubmitWork after shutdown = %v, want ErrClosed", err)
	}
}

func TestSubmitWorkProcessesAsynchronously(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "tri.frag")
	if err := os.WriteFile(src, []byte("void main() {}"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	lowerer := &countingLowerer{out: []byte{0x03, 0x02, 0x23, 0x07}}
	c, err := NewCompiler(filepath.Join(dir, "store.db"), lowerer, 4, nil)
	if err != nil {
		t.Fatalf("NewCompiler: %v", err)
	}
	if err := c.SubmitWork(Request{SourcePath: src}); err != nil {
		t.Fatalf("SubmitWork: %v", err)
	}
	if err := c.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if _, err := os.Stat(src + ".spv"); err != nil {
		t.Fatalf("expected %s.spv to exist after shutdown drained the queue: %v", src, err)
	}
}
