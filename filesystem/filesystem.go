// Package filesystem provides a swappable afero backend for every file the application touches.
//
// Production code uses the OS filesystem; tests switch to an in-memory map so config, logs,
// query history and token override scripts never hit the disk.
package filesystem

import "github.com/spf13/afero"

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active afero.Afero instance.
func API() afero.Afero {
	return backend
}

// SetOsFs restores the native operating system backend.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs switches to a volatile in-memory backend.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}

// ReadText reads a whole file as a string.
func ReadText(path string) (string, error) {
	b, err := backend.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
