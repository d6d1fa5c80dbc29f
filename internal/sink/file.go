// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sink

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

const fileMode = 0o644

// Options for opening a [File].
type Options struct {
	// NoSync disables syncing the file after every write. Without sync, data
	// written right before a host crash may be lost.
	NoSync bool
}

// File is an append-only output file.
type File struct {
	file   *os.File
	noSync bool

	closeOnce sync.Once
	closeErr  error
}

// Open opens the file at the given path for appending. It is created if it
// does not exist. The parent directory must exist.
//
// The file is locked for exclusive ownership by the calling process, where
// supported. Reading it is still possible for others.
func Open(path string, opts Options) (*File, error) {
	// Opening a FIFO for writing blocks until a reader shows up.
	err := checkRegular(path)
	if err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, fileMode)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("stat: %w", err)
	}

	if !stat.Mode().IsRegular() {
		_ = file.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrNotRegularFile)
	}

	err = lock(file)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("lock %s: %w", path, err)
	}

	return &File{
		file:   file,
		noSync: opts.NoSync,
	}, nil
}

// Name returns the path of the file.
func (f *File) Name() string {
	return f.file.Name()
}

// Write appends p to the file. It writes all of p or returns an error. Unless
// [Options.NoSync] is set, the file is synced before returning.
func (f *File) Write(p []byte) (int, error) {
	n, err := f.file.Write(p)
	if err != nil {
		return n, fmt.Errorf("write: %w", err)
	}

	if !f.noSync {
		err := f.file.Sync()
		if err != nil {
			return n, fmt.Errorf("sync: %w", err)
		}
	}

	return n, nil
}

// Close closes the file. Only the first call has an effect, later calls
// return the result of the first one.
func (f *File) Close() error {
	f.closeOnce.Do(func() {
		f.closeErr = f.file.Close()
	})

	return f.closeErr
}

func checkRegular(path string) error {
	stat, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("stat: %w", err)
	}

	if !stat.Mode().IsRegular() {
		return fmt.Errorf("%s: %w", path, ErrNotRegularFile)
	}

	return nil
}
