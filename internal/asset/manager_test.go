package asset

import (
	"errors"
	"log/slog"
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

type fakeLoader struct {
	types []string
}

func (f *fakeLoader) FileTypes() []string { return f.types }
func (f *fakeLoader) LoadFromMemory(m *Manager, cmd vk.CommandBuffer, data []byte) error {
	return nil
}
func (f *fakeLoader) LoadFromFile(m *Manager, cmd vk.CommandBuffer, path string) error {
	return nil
}

func newTestManager() *Manager {
	return &Manager{loaders: map[string]Loader{}, log: slog.Default()}
}

func TestRegisterLoaderIdempotentByFileTypeSet(t *testing.T) {
	m := newTestManager()
	first := &fakeLoader{types: []string{".png", ".jpg"}}
	second := &fakeLoader{types: []string{".jpg", ".png"}} // same set, different order

	m.RegisterLoader(first)
	m.RegisterLoader(second)

	if len(m.loaderSets) != 1 {
		t.Fatalf("loaderSets len = %d, want 1 (duplicate set skipped)", len(m.loaderSets))
	}
	if m.loaders[".png"] != first {
		t.Error("expected the first-registered loader to remain for .png")
	}
}

func TestRegisterLoaderDistinctSets(t *testing.T) {
	m := newTestManager()
	m.RegisterLoader(&fakeLoader{types: []string{".png"}})
	m.RegisterLoader(&fakeLoader{types: []string{".obj"}})

	if len(m.loaderSets) != 2 {
		t.Fatalf("loaderSets len = %d, want 2", len(m.loaderSets))
	}
	if _, err := m.loaderFor(".png"); err != nil {
		t.Errorf("loaderFor(.png) error = %v", err)
	}
	if _, err := m.loaderFor(".obj"); err != nil {
		t.Errorf("loaderFor(.obj) error = %v", err)
	}
}

func TestLoaderForUnknownFileType(t *testing.T) {
	m := newTestManager()
	_, err := m.loaderFor(".gltf")
	if !errors.Is(err, ErrNoLoader) {
		t.Fatalf("loaderFor error = %v, want ErrNoLoader", err)
	}
}

func TestLoadFromFileRejectsExtensionless(t *testing.T) {
	m := newTestManager()
	m.RegisterLoader(&fakeLoader{types: []string{".obj"}})
	m.loadingInProgress = true

	err := m.LoadFromFile("README")
	if !errors.Is(err, ErrFileHasNoExtension) {
		t.Fatalf("LoadFromFile error = %v, want ErrFileHasNoExtension", err)
	}
}

func TestLoadFromMemoryPanicsOutsideSession(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected LoadFromMemory to panic outside a loading session")
		}
	}()
	m := newTestManager()
	m.LoadFromMemory([]byte("x"), ".png")
}

func TestEndLoadingPanicsOutsideSession(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected EndLoading to panic outside a loading session")
		}
	}()
	m := newTestManager()
	m.EndLoading()
}
