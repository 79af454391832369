package export

import (
	"fmt"
	"os"
	"path/filepath"
)

// Provisioner ensures a target directory exists and is writable.
type Provisioner interface {
	Ensure(path string) error
}

// DirProvisioner provisions directories on the local filesystem. It is never
// destructive: an existing path that is not a usable directory is reported,
// not repaired.
type DirProvisioner struct{}

// Ensure makes path an existing writable directory, creating intermediate
// segments as needed. Calling it twice yields the same outcome with no
// additional side effects.
func (DirProvisioner) Ensure(path string) error {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if !info.IsDir() {
			return fmt.Errorf("%s exists and is not a directory", path)
		}
		return checkWritable(path)
	case os.IsNotExist(err):
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		return checkWritable(path)
	default:
		return fmt.Errorf("stat %s: %w", path, err)
	}
}

// checkWritable probes writability by creating and removing a temp file.
// Permission bits alone are unreliable across mount options and ACLs.
func checkWritable(path string) error {
	probe, err := os.CreateTemp(path, ".cardpress-probe-*")
	if err != nil {
		return fmt.Errorf("%s is not writable: %w", path, err)
	}
	name := probe.Name()
	probe.Close()
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("cleaning probe file in %s: %w", path, err)
	}
	return nil
}

var _ Provisioner = DirProvisioner{}

// Writer persists rendered artifact bytes.
type Writer interface {
	Write(path string, data []byte) error
}

// AtomicWriter writes files via a temp file and rename so a failed write
// never leaves a partial artifact behind.
type AtomicWriter struct{}

func (AtomicWriter) Write(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".cardpress-tmp-*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

var _ Writer = AtomicWriter{}
