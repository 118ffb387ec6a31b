// Package project implements §4.10's on-disk project layout: a
// directory holding project.toml plus the images/models/scenes/
// scripts/shaders subdirectories, grounded on original_source's
// muon::Project (engine/src/muon/core/project.cpp).
package project

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

var subdirectories = []string{"images", "models", "scenes", "scripts", "shaders"}

// Project is the in-memory handle for an opened or newly created
// project directory.
type Project struct {
	name string
	path string
}

type fileContents struct {
	Name string `toml:"name"`
}

// Name returns the project's display name, as stored in project.toml.
func (p *Project) Name() string { return p.name }

// Path returns the project's root directory.
func (p *Project) Path() string { return p.path }

// ImagesDir, ModelsDir, ScenesDir, ScriptsDir and ShadersDir return the
// absolute paths of the project's standard subdirectories.
func (p *Project) ImagesDir() string  { return filepath.Join(p.path, "images") }
func (p *Project) ModelsDir() string  { return filepath.Join(p.path, "models") }
func (p *Project) ScenesDir() string  { return filepath.Join(p.path, "scenes") }
func (p *Project) ScriptsDir() string { return filepath.Join(p.path, "scripts") }
func (p *Project) ShadersDir() string { return filepath.Join(p.path, "shaders") }

// Create makes a new project at path with the given name, failing if
// path exists and is non-empty or cannot be created, per §4.10.
func Create(path, name string) (*Project, error) {
	p := &Project{name: name, path: path}

	if err := p.configureStructure(); err != nil {
		return nil, err
	}
	if err := p.writeProjectFile(); err != nil {
		return nil, err
	}

	slog.Debug("project: created new project", "path", path, "name", name)
	return p, nil
}

// Load opens an existing project at path, reading and parsing its
// project.toml, per §4.10.
func Load(path string) (*Project, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrProjectFileDoesNotExist, path)
	}
	if !info.IsDir() {
		return nil, ErrPathIsNotDirectory
	}

	configPath := filepath.Join(path, "project.toml")
	if _, err := os.Stat(configPath); err != nil {
		return nil, ErrProjectFileDoesNotExist
	}

	var contents fileContents
	if _, err := toml.DecodeFile(configPath, &contents); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedProjectFile, err)
	}
	if contents.Name == "" {
		return nil, ErrMalformedProjectFile
	}

	slog.Debug("project: loaded project", "path", path, "name", contents.Name)
	return &Project{name: contents.Name, path: path}, nil
}

func (p *Project) configureStructure() error {
	if info, err := os.Stat(p.path); err != nil {
		if err := os.MkdirAll(p.path, 0o755); err != nil {
			return fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
		}
	} else if !info.IsDir() {
		return ErrPathIsNotDirectory
	}

	entries, err := os.ReadDir(p.path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
	}
	if len(entries) != 0 {
		return ErrDirectoryIsNotEmpty
	}

	for _, sub := range subdirectories {
		dir := filepath.Join(p.path, sub)
		slog.Debug("project: creating subdirectory", "dir", dir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
		}
	}
	return nil
}

func (p *Project) writeProjectFile() error {
	configPath := filepath.Join(p.path, "project.toml")
	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToOpenProjectFile, err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(fileContents{Name: p.name}); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToOpenProjectFile, err)
	}
	return nil
}

// Save rewrites project.toml with the project's current name, mirroring
// original_source's Project::Save.
func (p *Project) Save() error {
	return p.writeProjectFile()
}
