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

// Package osfs implements the fakefs.FS interface over the real file
// system of the host, using the os and path/filepath packages.
// It is the real counterpart of vfs/memfs behind the fakefs.Switcher
// seam.
package osfs

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fakefs/fakefs"
)

// Abs returns an absolute representation of path.
func (vfs *OsFS) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

// Base returns the last element of path.
func (vfs *OsFS) Base(path string) string {
	return filepath.Base(path)
}

// Chdir changes the current working directory to the named directory.
func (vfs *OsFS) Chdir(dir string) error {
	return os.Chdir(dir)
}

// Chmod changes the mode of the named file to mode.
func (vfs *OsFS) Chmod(name string, mode fs.FileMode) error {
	return os.Chmod(name, mode)
}

// Chown changes the numeric uid and gid of the named file.
func (vfs *OsFS) Chown(name string, uid, gid int) error {
	return os.Chown(name, uid, gid)
}

// Chtimes changes the access and modification times of the named file.
func (vfs *OsFS) Chtimes(name string, atime, mtime time.Time) error {
	return os.Chtimes(name, atime, mtime)
}

// Clean returns the shortest path name equivalent to path.
func (vfs *OsFS) Clean(path string) string {
	return filepath.Clean(path)
}

// Create creates or truncates the named file.
func (vfs *OsFS) Create(name string) (fakefs.File, error) {
	return os.Create(name)
}

// CreateTemp creates a new temporary file in the directory dir.
func (vfs *OsFS) CreateTemp(dir, pattern string) (fakefs.File, error) {
	return os.CreateTemp(dir, pattern)
}

// Dir returns all but the last element of path.
func (vfs *OsFS) Dir(path string) string {
	return filepath.Dir(path)
}

// EvalSymlinks returns the path name after the evaluation of any
// symbolic links.
func (vfs *OsFS) EvalSymlinks(path string) (string, error) {
	return filepath.EvalSymlinks(path)
}

// FromSlash returns the result of replacing each slash ('/') character
// in path with a separator character.
func (vfs *OsFS) FromSlash(path string) string {
	return filepath.FromSlash(path)
}

// Getwd returns a rooted path name corresponding to the current
// directory.
func (vfs *OsFS) Getwd() (dir string, err error) {
	return os.Getwd()
}

// Glob returns the names of all files matching pattern or nil if there
// is no matching file.
func (vfs *OsFS) Glob(pattern string) (matches []string, err error) {
	return filepath.Glob(pattern)
}

// IsAbs reports whether the path is absolute.
func (vfs *OsFS) IsAbs(path string) bool {
	return filepath.IsAbs(path)
}

// IsPathSeparator reports whether c is a directory separator character.
func (vfs *OsFS) IsPathSeparator(c uint8) bool {
	return os.IsPathSeparator(c)
}

// Join joins any number of path elements into a single path.
func (vfs *OsFS) Join(elem ...string) string {
	return filepath.Join(elem...)
}

// Lchown changes the numeric uid and gid of the named file without
// following symbolic links.
func (vfs *OsFS) Lchown(name string, uid, gid int) error {
	return os.Lchown(name, uid, gid)
}

// Link creates newname as a hard link to the oldname file.
func (vfs *OsFS) Link(oldname, newname string) error {
	return os.Link(oldname, newname)
}

// Lstat returns a FileInfo describing the named file without following
// symbolic links.
func (vfs *OsFS) Lstat(name string) (fs.FileInfo, error) {
	return os.Lstat(name)
}

// Match reports whether name matches the shell file name pattern.
func (vfs *OsFS) Match(pattern, name string) (matched bool, err error) {
	return filepath.Match(pattern, name)
}

// Mkdir creates a new directory with the specified name and permission
// bits (before umask).
func (vfs *OsFS) Mkdir(name string, perm fs.FileMode) error {
	return os.Mkdir(name, perm)
}

// MkdirAll creates a directory named path, along with any necessary
// parents.
func (vfs *OsFS) MkdirAll(path string, perm fs.FileMode) error {
	return os.MkdirAll(path, perm)
}

// MkdirTemp creates a new temporary directory in the directory dir.
func (vfs *OsFS) MkdirTemp(dir, pattern string) (string, error) {
	return os.MkdirTemp(dir, pattern)
}

// Open opens the named file for reading.
func (vfs *OsFS) Open(name string) (fakefs.File, error) {
	return os.Open(name)
}

// OpenFile is the generalized open call.
func (vfs *OsFS) OpenFile(name string, flag int, perm fs.FileMode) (fakefs.File, error) {
	return os.OpenFile(name, flag, perm)
}

// PathSeparator returns the OS-specific path separator.
func (vfs *OsFS) PathSeparator() uint8 {
	return uint8(os.PathSeparator)
}

// ReadDir reads the named directory, returning all its directory entries
// sorted by filename.
func (vfs *OsFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

// ReadFile reads the named file and returns the contents.
func (vfs *OsFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// Readlink returns the destination of the named symbolic link.
func (vfs *OsFS) Readlink(name string) (string, error) {
	return os.Readlink(name)
}

// Rel returns a relative path that is lexically equivalent to targpath
// when joined to basepath with an intervening separator.
func (vfs *OsFS) Rel(basepath, targpath string) (string, error) {
	return filepath.Rel(basepath, targpath)
}

// Remove removes the named file or (empty) directory.
func (vfs *OsFS) Remove(name string) error {
	return os.Remove(name)
}

// RemoveAll removes path and any children it contains.
func (vfs *OsFS) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// Rename renames (moves) oldpath to newpath.
func (vfs *OsFS) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

// SameFile reports whether fi1 and fi2 describe the same file.
func (vfs *OsFS) SameFile(fi1, fi2 fs.FileInfo) bool {
	return os.SameFile(fi1, fi2)
}

// Split splits path immediately following the final Separator.
func (vfs *OsFS) Split(path string) (dir, file string) {
	return filepath.Split(path)
}

// Stat returns a FileInfo describing the named file.
func (vfs *OsFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

// Symlink creates newname as a symbolic link to oldname.
func (vfs *OsFS) Symlink(oldname, newname string) error {
	return os.Symlink(oldname, newname)
}

// TempDir returns the default directory to use for temporary files.
func (vfs *OsFS) TempDir() string {
	return os.TempDir()
}

// ToSlash returns the result of replacing each separator character in
// path with a slash ('/') character.
func (vfs *OsFS) ToSlash(path string) string {
	return filepath.ToSlash(path)
}

// Truncate changes the size of the named file.
func (vfs *OsFS) Truncate(name string, size int64) error {
	return os.Truncate(name, size)
}

// WalkDir walks the file tree rooted at root, calling fn for each file
// or directory in the tree, including root.
func (vfs *OsFS) WalkDir(root string, fn fs.WalkDirFunc) error {
	return filepath.WalkDir(root, fn)
}

// WriteFile writes data to the named file, creating it if necessary.
func (vfs *OsFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}
