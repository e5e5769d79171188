package adapter

import (
	"fmt"
	"os"
	"path/filepath"

	m "mutator.dev/pkg/mutator/internal/model"
)

// backupSuffix marks the pristine copy kept next to a file mutated in place.
const backupSuffix = ".mutator.bak"

// BackupKeeper guards in-place mutation of a user's real source file. The
// pristine bytes are parked next to the file for the duration of the run so a
// crash can always be undone.
type BackupKeeper interface {
	// BackupPath returns where source's pristine copy lives during a run.
	BackupPath(source m.Path) m.Path

	// HasStaleBackup reports whether a previous run left a backup behind,
	// which means the source file may still hold a mutation.
	HasStaleBackup(source m.Path) bool

	// Create writes the pristine copy before the first mutation is applied.
	Create(source m.Path) error

	// Restore puts the pristine bytes back, deletes the backup, and drops
	// any bytecode compiled from the mutated file.
	Restore(source m.Path) error

	// Remove drops the backup after a run that left source pristine.
	Remove(source m.Path) error
}

// LocalBackupKeeper implements BackupKeeper on the local filesystem.
type LocalBackupKeeper struct{}

// NewLocalBackupKeeper constructs a LocalBackupKeeper.
func NewLocalBackupKeeper() *LocalBackupKeeper {
	return &LocalBackupKeeper{}
}

// BackupPath returns a dot-prefixed sibling of source so test collectors
// that glob the directory never pick the pristine copy up.
func (k *LocalBackupKeeper) BackupPath(source m.Path) m.Path {
	dir, base := filepath.Split(string(source))

	return m.Path(filepath.Join(dir, "."+base+backupSuffix))
}

// HasStaleBackup checks for a leftover backup file.
func (k *LocalBackupKeeper) HasStaleBackup(source m.Path) bool {
	_, err := os.Stat(string(k.BackupPath(source)))

	return err == nil
}

// Create snapshots source before mutation.
func (k *LocalBackupKeeper) Create(source m.Path) error {
	data, err := os.ReadFile(string(source))
	if err != nil {
		return fmt.Errorf("read %s for backup: %w", source, err)
	}

	info, err := os.Stat(string(source))
	if err != nil {
		return fmt.Errorf("stat %s for backup: %w", source, err)
	}

	backup := string(k.BackupPath(source))
	if err := os.WriteFile(backup, data, info.Mode().Perm()); err != nil {
		return fmt.Errorf("write backup %s: %w", backup, err)
	}

	return nil
}

// Restore copies the pristine bytes back over source and removes the backup.
func (k *LocalBackupKeeper) Restore(source m.Path) error {
	backup := string(k.BackupPath(source))

	data, err := os.ReadFile(backup)
	if err != nil {
		return fmt.Errorf("read backup %s: %w", backup, err)
	}

	if err := os.WriteFile(string(source), data, 0o644); err != nil {
		return fmt.Errorf("restore %s: %w", source, err)
	}

	if err := os.Remove(backup); err != nil {
		return fmt.Errorf("remove backup %s: %w", backup, err)
	}

	// The runtime may have compiled the mutated file already.
	clearBytecodeCache(source)

	return nil
}

// Remove deletes the backup without touching source.
func (k *LocalBackupKeeper) Remove(source m.Path) error {
	if err := os.Remove(string(k.BackupPath(source))); err != nil {
		return fmt.Errorf("remove backup for %s: %w", source, err)
	}

	return nil
}

