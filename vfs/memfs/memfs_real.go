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
	"os"
	"path/filepath"

	"github.com/fakefs/fakefs"
)

// AddRealFile maps the real file realPath into the fake tree at
// targetPath (or at the same location when targetPath is empty) as a
// read-only lazy file: its bytes are loaded from disk and cached on
// first read, and the real file is never written.
// Parent directories of the target are created as needed.
// If there is an error, it will be of type *PathError.
func (vfs *MemFS) AddRealFile(realPath, targetPath string) error {
	return vfs.addRealFile(realPath, targetPath, true)
}

// AddRealFileCopy maps the real file realPath into the fake tree at
// targetPath as a writable file. The content stays lazy until first
// access; once loaded, modifications only affect the cached copy.
// If there is an error, it will be of type *PathError.
func (vfs *MemFS) AddRealFileCopy(realPath, targetPath string) error {
	return vfs.addRealFile(realPath, targetPath, false)
}

func (vfs *MemFS) addRealFile(realPath, targetPath string, readOnly bool) error {
	const op = "open"

	info, err := os.Lstat(realPath)
	if err != nil {
		return &fs.PathError{Op: op, Path: realPath, Err: vfs.err.NoSuchFile}
	}

	if !info.Mode().IsRegular() {
		return &fs.PathError{Op: op, Path: realPath, Err: vfs.err.InvalidArgument}
	}

	target := vfs.realTarget(realPath, targetPath)

	if err := vfs.MkdirAll(vfs.ut.Dir(target), fakefs.DefaultDirPerm); err != nil {
		return err
	}

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	parent, child, pi, serr := vfs.searchNode(target, slmEval)
	if serr == vfs.err.FileExists || child != nil {
		return &fs.PathError{Op: op, Path: target, Err: vfs.err.FileExists}
	}

	if parent == nil || !pi.IsLast() {
		return &fs.PathError{Op: op, Path: target, Err: vfs.err.NoSuchDir}
	}

	perm := info.Mode().Perm()
	if readOnly {
		perm &^= 0o222
	}

	size := info.Size()

	mnt := parent.mnt
	if err := mnt.claim(vfs, size); err != nil {
		return &fs.PathError{Op: op, Path: target, Err: err}
	}

	fn := &fileNode{
		baseNode: vfs.newBaseNode(mnt, perm),
		realPath: realPath,
		dataSize: size,
		readOnly: readOnly,
		nlink:    1,
	}
	fn.mtime = info.ModTime().UnixNano()

	parent.addChild(vfs.ut, pi.Part(), fn)
	parent.touchMTime()
	vfs.inodes[fn.ino] = fn

	return nil
}

// AddRealDirectory maps the real directory realPath into the fake tree
// at targetPath (or at the same location when targetPath is empty).
// The directory structure is enumerated eagerly but file contents stay
// lazy. Symbolic links are recreated with their original targets.
// When the target directory already exists the contents are merged;
// a collision with an existing file is an error of kind Exists.
// If there is an error, it will be of type *PathError.
func (vfs *MemFS) AddRealDirectory(realPath, targetPath string) error {
	const op = "open"

	info, err := os.Lstat(realPath)
	if err != nil {
		return &fs.PathError{Op: op, Path: realPath, Err: vfs.err.NoSuchFile}
	}

	if !info.IsDir() {
		return &fs.PathError{Op: op, Path: realPath, Err: vfs.err.NotADirectory}
	}

	target := vfs.realTarget(realPath, targetPath)

	if err := vfs.MkdirAll(target, info.Mode().Perm()); err != nil {
		return err
	}

	entries, err := os.ReadDir(realPath)
	if err != nil {
		return &fs.PathError{Op: op, Path: realPath, Err: vfs.err.IOError}
	}

	for _, entry := range entries {
		src := filepath.Join(realPath, entry.Name())
		dst := vfs.ut.Join(target, entry.Name())

		switch {
		case entry.IsDir():
			err = vfs.AddRealDirectory(src, dst)
		case entry.Type()&fs.ModeSymlink != 0:
			err = vfs.AddRealSymlink(src, dst)
		case entry.Type().IsRegular():
			err = vfs.AddRealFile(src, dst)
		default:
			continue
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// AddRealSymlink recreates the real symbolic link realPath in the fake
// tree at targetPath (or at the same location when targetPath is empty)
// with the same target, stored verbatim.
// If there is an error, it will be of type *PathError.
func (vfs *MemFS) AddRealSymlink(realPath, targetPath string) error {
	const op = "readlink"

	link, err := os.Readlink(realPath)
	if err != nil {
		return &fs.PathError{Op: op, Path: realPath, Err: vfs.err.NoSuchFile}
	}

	target := vfs.realTarget(realPath, targetPath)

	if err := vfs.MkdirAll(vfs.ut.Dir(target), fakefs.DefaultDirPerm); err != nil {
		return err
	}

	return vfs.Symlink(link, target)
}

// AddRealPaths maps a list of real files, directories or symbolic links
// into the fake tree at their original locations.
func (vfs *MemFS) AddRealPaths(paths []string) error {
	for _, path := range paths {
		info, err := os.Lstat(path)
		if err != nil {
			return &fs.PathError{Op: "open", Path: path, Err: vfs.err.NoSuchFile}
		}

		switch {
		case info.IsDir():
			err = vfs.AddRealDirectory(path, "")
		case info.Mode()&fs.ModeSymlink != 0:
			err = vfs.AddRealSymlink(path, "")
		default:
			err = vfs.AddRealFile(path, "")
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// ClearCache drops the cached content of every read-only lazy file,
// releasing the memory; the bytes are reloaded from the real files on
// the next read.
func (vfs *MemFS) ClearCache() {
	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	for _, nd := range vfs.inodes {
		fn, ok := nd.(*fileNode)
		if !ok || fn.realPath == "" || !fn.readOnly || !fn.loaded {
			continue
		}

		// The accounted bytes stay claimed: only the cached copy is dropped.
		fn.dataSize = int64(len(fn.data))
		fn.data = nil
		fn.loaded = false
	}
}

// realTarget returns the fake path where the real path realPath is
// anchored: targetPath when given, the absolute real path translated to
// the active profile otherwise.
func (vfs *MemFS) realTarget(realPath, targetPath string) string {
	if targetPath != "" {
		return vfs.toAbsPath(targetPath)
	}

	abs, err := filepath.Abs(realPath)
	if err != nil {
		abs = realPath
	}

	return vfs.ut.FromUnixPath(fakefs.DefaultVolume, filepath.ToSlash(abs))
}

// CreateFile creates the named file with the given contents and
// permission bits (before umask), creating any missing parent
// directories. It is the test-facing shortcut for populating the tree.
// If there is an error, it will be of type *PathError.
func (vfs *MemFS) CreateFile(name string, data []byte, perm fs.FileMode) error {
	if err := vfs.MkdirAll(vfs.ut.Dir(vfs.toAbsPath(name)), fakefs.DefaultDirPerm); err != nil {
		return err
	}

	return vfs.WriteFile(name, data, perm)
}

// CreateFileSize creates the named file with a declared size and no
// contents, creating any missing parent directories. The size is
// accounted against the mount budget; the content materializes as NUL
// bytes on first access. It allows large files without using memory.
// If there is an error, it will be of type *PathError.
func (vfs *MemFS) CreateFileSize(name string, size int64, perm fs.FileMode) error {
	const op = "open"

	if size < 0 {
		return &fs.PathError{Op: op, Path: name, Err: vfs.err.InvalidArgument}
	}

	if err := vfs.MkdirAll(vfs.ut.Dir(vfs.toAbsPath(name)), fakefs.DefaultDirPerm); err != nil {
		return err
	}

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	parent, child, pi, err := vfs.searchNode(name, slmEval)
	if err == vfs.err.FileExists || child != nil {
		return &fs.PathError{Op: op, Path: name, Err: vfs.err.FileExists}
	}

	if parent == nil || !pi.IsLast() {
		return &fs.PathError{Op: op, Path: name, Err: vfs.err.NoSuchDir}
	}

	if !vfs.checkPermission(&parent.baseNode, fakefs.OpenWrite|fakefs.OpenLookup) {
		return &fs.PathError{Op: op, Path: name, Err: vfs.err.PermDenied}
	}

	if err := parent.mnt.claim(vfs, size); err != nil {
		return &fs.PathError{Op: op, Path: name, Err: err}
	}

	fn := vfs.createFile(parent, pi.Part(), perm)
	fn.dataSize = size

	return nil
}
