//
//  Copyright 2024 The FakeFS authors
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//  	http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.
//

package memfs

import (
	"io/fs"
)

// MemIOFS implements the io/fs interfaces (fs.FS, fs.GlobFS,
// fs.ReadDirFS, fs.ReadFileFS, fs.StatFS, fs.SubFS) over a MemFS.
// Paths follow the io/fs convention: unrooted, slash-separated.
type MemIOFS struct {
	*MemFS
	prefix string
}

// NewIOFS creates a new file system exposing a MemFS through the io/fs
// interfaces.
func NewIOFS(opts ...Option) *MemIOFS {
	vfs := New(opts...)

	iofs := &MemIOFS{MemFS: vfs}
	iofs.prefix, _ = vfs.Getwd()

	return iofs
}

func (vfs *MemIOFS) fromIOPath(name string) string {
	return vfs.Join(vfs.prefix, vfs.FromSlash(name))
}

// Open opens the named file (fs.FS interface).
func (vfs *MemIOFS) Open(name string) (fs.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	return vfs.MemFS.Open(vfs.fromIOPath(name))
}

// Glob returns the names of all files matching pattern (fs.GlobFS
// interface).
func (vfs *MemIOFS) Glob(pattern string) ([]string, error) {
	matches, err := vfs.MemFS.Glob(vfs.fromIOPath(pattern))
	if err != nil {
		return nil, err
	}

	for i, m := range matches {
		if rel, rerr := vfs.Rel(vfs.prefix, m); rerr == nil {
			matches[i] = vfs.ToSlash(rel)
		}
	}

	return matches, nil
}

// ReadDir reads the named directory (fs.ReadDirFS interface).
func (vfs *MemIOFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	return vfs.MemFS.ReadDir(vfs.fromIOPath(name))
}

// ReadFile reads the named file (fs.ReadFileFS interface).
func (vfs *MemIOFS) ReadFile(name string) ([]byte, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	return vfs.MemFS.ReadFile(vfs.fromIOPath(name))
}

// Stat returns a FileInfo describing the named file (fs.StatFS
// interface).
func (vfs *MemIOFS) Stat(name string) (fs.FileInfo, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrInvalid}
	}

	return vfs.MemFS.Stat(vfs.fromIOPath(name))
}

// Sub returns an FS corresponding to the subtree rooted at dir
// (fs.SubFS interface).
func (vfs *MemIOFS) Sub(dir string) (fs.FS, error) {
	if !fs.ValidPath(dir) {
		return nil, &fs.PathError{Op: "sub", Path: dir, Err: fs.ErrInvalid}
	}

	info, err := vfs.Stat(dir)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return nil, &fs.PathError{Op: "sub", Path: dir, Err: vfs.err.NotADirectory}
	}

	sub := &MemIOFS{MemFS: vfs.MemFS, prefix: vfs.fromIOPath(dir)}

	return sub, nil
}
