package project

import "errors"

// Errors per §7's Project-error taxonomy, grounded on original_source's
// ProjectError enum (muon/core/project.hpp).
var (
	ErrProjectFileDoesNotExist = errors.New("project: project.toml does not exist")
	ErrMalformedProjectFile    = errors.New("project: project.toml is malformed")
	ErrPathIsNotDirectory      = errors.New("project: path exists and is not a directory")
	ErrDirectoryIsNotEmpty     = errors.New("project: directory exists and is not empty")
	ErrFailedToCreateDirectory = errors.New("project: failed to create directory")
	ErrFailedToOpenProjectFile = errors.New("project: failed to open project.toml")
)
