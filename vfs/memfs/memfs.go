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

// Package memfs implements an in memory fake file system emulating
// Linux, Darwin or Windows file system behavior as seen through the os
// package surface.
//
// It supports several features :
//   - emulates any OS profile regardless of the host system
//   - checks file permissions against an emulated identity
//   - supports hard links, symbolic links and mount points
//   - accounts disk usage against per-mount size budgets
//   - imports real files and directories lazily
package memfs

import (
	"io/fs"
	"os"
	"sort"
	"time"

	"github.com/fakefs/fakefs"
)

// Abs returns an absolute representation of path.
// If the path is not absolute it will be joined with the current
// working directory to turn it into an absolute path. The absolute
// path name for a given file is not guaranteed to be unique.
// Abs calls [Clean] on the result.
func (vfs *MemFS) Abs(path string) (string, error) {
	vfs.mu.RLock()
	defer vfs.mu.RUnlock()

	return vfs.toAbsPath(path), nil
}

// Access checks whether the effective user can access the named file
// with the given access mode (any combination of the 0o4 read, 0o2 write
// and 0o1 execute bits). A mode of 0 checks for existence only.
// If there is an error, it will be of type *PathError.
func (vfs *MemFS) Access(name string, mode fs.FileMode) error {
	const op = "access"

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	_, child, _, err := vfs.searchNode(name, slmEval)
	if err != vfs.err.FileExists || child == nil {
		return &fs.PathError{Op: op, Path: name, Err: err}
	}

	if !vfs.checkPermission(child.base(), fakefs.OpenMode(mode&0o7)) {
		return &fs.PathError{Op: op, Path: name, Err: vfs.err.PermDenied}
	}

	return nil
}

// Base returns the last element of path.
// Trailing path separators are removed before extracting the last element.
// If the path is empty, Base returns ".".
// If the path consists entirely of separators, Base returns a single separator.
func (vfs *MemFS) Base(path string) string {
	return vfs.ut.Base(path)
}

// Chdir changes the current working directory to the named directory.
// If there is an error, it will be of type *PathError.
func (vfs *MemFS) Chdir(dir string) error {
	const op = "chdir"

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	_, child, pi, err := vfs.searchNode(dir, slmEval)
	if err != vfs.err.FileExists {
		return &fs.PathError{Op: op, Path: dir, Err: err}
	}

	c, ok := child.(*dirNode)
	if !ok {
		err = vfs.err.NotADirectory
		if vfs.osType == fakefs.OsWindows {
			err = fakefs.ErrWinDirNameInvalid
		}

		return &fs.PathError{Op: op, Path: dir, Err: err}
	}

	if !vfs.checkPermission(&c.baseNode, fakefs.OpenLookup) {
		return &fs.PathError{Op: op, Path: dir, Err: vfs.err.PermDenied}
	}

	vfs.curDir = pi.Path()

	return nil
}

// Chmod changes the mode of the named file to mode.
// If the file is a symbolic link, it changes the mode of the link's target.
// If there is an error, it will be of type *PathError.
//
// On the Windows profile, only the 0200 bit (owner writable) of mode is
// used by default; it controls whether the file's read-only attribute is
// set or cleared (see WithUnixModeOnWindows).
func (vfs *MemFS) Chmod(name string, mode fs.FileMode) error {
	const op = "chmod"

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	_, child, _, err := vfs.searchNode(name, slmEval)
	if err != vfs.err.FileExists || child == nil {
		return &fs.PathError{Op: op, Path: name, Err: err}
	}

	if !vfs.setMode(child.base(), mode) {
		return &fs.PathError{Op: op, Path: name, Err: vfs.err.OpNotPermitted}
	}

	return nil
}

// Chown changes the numeric uid and gid of the named file.
// If the file is a symbolic link, it changes the uid and gid of the link's target.
// A uid or gid of -1 means to not change that value.
// If there is an error, it will be of type *PathError.
//
// On the Windows profile, Chown always returns an error.
func (vfs *MemFS) Chown(name string, uid, gid int) error {
	const op = "chown"

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	if vfs.osType == fakefs.OsWindows || !vfs.user.IsAdmin() {
		return &fs.PathError{Op: op, Path: name, Err: vfs.err.OpNotPermitted}
	}

	_, child, _, err := vfs.searchNode(name, slmEval)
	if err != vfs.err.FileExists || child == nil {
		return &fs.PathError{Op: op, Path: name, Err: err}
	}

	child.base().setOwner(uid, gid)

	return nil
}

// Chtimes changes the access and modification times of the named
// file, similar to the Unix utime() or utimes() functions, with
// nanosecond precision.
// If there is an error, it will be of type *PathError.
func (vfs *MemFS) Chtimes(name string, atime, mtime time.Time) error {
	const op = "chtimes"

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	_, child, _, err := vfs.searchNode(name, slmEval)
	if err != vfs.err.FileExists || child == nil {
		return &fs.PathError{Op: op, Path: name, Err: err}
	}

	bn := child.base()

	u := vfs.user
	if bn.uid != u.Uid() && !(u.IsAdmin() && vfs.allowRoot) {
		return &fs.PathError{Op: op, Path: name, Err: vfs.err.OpNotPermitted}
	}

	bn.atime = atime.UnixNano()
	bn.mtime = mtime.UnixNano()
	bn.ctime = nowNano()

	return nil
}

// Clean returns the shortest path name equivalent to path
// by purely lexical processing.
func (vfs *MemFS) Clean(path string) string {
	return vfs.ut.Clean(path)
}

// Create creates or truncates the named file. If the file already exists,
// it is truncated. If the file does not exist, it is created with mode 0666
// (before umask). If successful, methods on the returned file can
// be used for I/O; the associated file descriptor has mode O_RDWR.
// If there is an error, it will be of type *PathError.
func (vfs *MemFS) Create(name string) (fakefs.File, error) {
	return vfs.ut.Create(vfs, name)
}

// CreateTemp creates a new temporary file in the directory dir,
// opens the file for reading and writing, and returns the resulting file.
// The filename is generated by taking pattern and adding a random string to the end.
// If pattern includes a "*", the random string replaces the last "*".
// If dir is the empty string, CreateTemp uses the default directory for temporary files, as returned by TempDir.
func (vfs *MemFS) CreateTemp(dir, pattern string) (fakefs.File, error) {
	return vfs.ut.CreateTemp(vfs, dir, pattern)
}

// Dir returns all but the last element of path, typically the path's directory.
func (vfs *MemFS) Dir(path string) string {
	return vfs.ut.Dir(path)
}

// DiskUsage returns the disk space accounting of the mount point
// containing the named path.
// If there is an error, it will be of type *PathError.
func (vfs *MemFS) DiskUsage(name string) (fakefs.DiskUsage, error) {
	const op = "statfs"

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	_, _, _, err := vfs.searchNode(name, slmEval)
	if err != vfs.err.FileExists {
		return fakefs.DiskUsage{}, &fs.PathError{Op: op, Path: name, Err: err}
	}

	mnt := vfs.mountFor(vfs.toAbsPath(name))

	return fakefs.DiskUsage{Total: mnt.total, Used: mnt.used, Free: mnt.total - mnt.used}, nil
}

// EvalSymlinks returns the path name after the evaluation of any symbolic
// links.
// If path is relative the result will be relative to the current directory,
// unless one of the components is an absolute symbolic link.
// EvalSymlinks calls [Clean] on the result.
func (vfs *MemFS) EvalSymlinks(path string) (string, error) {
	const op = "lstat"

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	_, _, pi, err := vfs.searchNode(path, slmEval)
	if err != vfs.err.FileExists {
		return "", &fs.PathError{Op: op, Path: pi.LeftPart(), Err: err}
	}

	return pi.Path(), nil
}

// FromSlash returns the result of replacing each slash ('/') character
// in path with a separator character.
func (vfs *MemFS) FromSlash(path string) string {
	return vfs.ut.FromSlash(path)
}

// Getwd returns a rooted path name corresponding to the
// current directory.
func (vfs *MemFS) Getwd() (dir string, err error) {
	vfs.mu.RLock()
	defer vfs.mu.RUnlock()

	return vfs.curDir, nil
}

// Glob returns the names of all files matching pattern or nil
// if there is no matching file.
func (vfs *MemFS) Glob(pattern string) (matches []string, err error) {
	return vfs.ut.Glob(vfs, pattern)
}

// Idm returns the identity manager of the file system.
func (vfs *MemFS) Idm() fakefs.IdentityMgr {
	return vfs.idm
}

// IsAbs reports whether the path is absolute.
func (vfs *MemFS) IsAbs(path string) bool {
	return vfs.ut.IsAbs(path)
}

// IsPathSeparator reports whether c is a directory separator character.
func (vfs *MemFS) IsPathSeparator(c uint8) bool {
	return vfs.ut.IsPathSeparator(c)
}

// Join joins any number of path elements into a single path,
// separating them with an OS specific Separator. Empty elements
// are ignored. The result is Cleaned.
func (vfs *MemFS) Join(elem ...string) string {
	return vfs.ut.Join(elem...)
}

// Lchown changes the numeric uid and gid of the named file.
// If the file is a symbolic link, it changes the uid and gid of the link itself.
// If there is an error, it will be of type *PathError.
func (vfs *MemFS) Lchown(name string, uid, gid int) error {
	const op = "lchown"

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	if vfs.osType == fakefs.OsWindows || !vfs.user.IsAdmin() {
		return &fs.PathError{Op: op, Path: name, Err: vfs.err.OpNotPermitted}
	}

	_, child, _, err := vfs.searchNode(name, slmLstat)
	if err != vfs.err.FileExists || child == nil {
		return &fs.PathError{Op: op, Path: name, Err: err}
	}

	child.base().setOwner(uid, gid)

	return nil
}

// Link creates newname as a hard link to the oldname file.
// Hard links to directories are forbidden and both names must be
// anchored in the same mount.
// If there is an error, it will be of type *LinkError.
func (vfs *MemFS) Link(oldname, newname string) error {
	const op = "link"

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	_, oChild, _, oErr := vfs.searchNode(oldname, slmLstat)
	if oErr != vfs.err.FileExists || oChild == nil {
		return &os.LinkError{Op: op, Old: oldname, New: newname, Err: oErr}
	}

	nParent, _, pi, nErr := vfs.searchNode(newname, slmLstat)
	if !vfs.isNotExist(nErr) {
		if nErr == vfs.err.FileExists && vfs.osType == fakefs.OsWindows {
			nErr = fakefs.ErrWinAlreadyExists
		}

		return &os.LinkError{Op: op, Old: oldname, New: newname, Err: nErr}
	}

	if nParent == nil || !pi.IsLast() {
		return &os.LinkError{Op: op, Old: oldname, New: newname, Err: vfs.err.NoSuchDir}
	}

	if !vfs.checkPermission(&nParent.baseNode, fakefs.OpenWrite) {
		return &os.LinkError{Op: op, Old: oldname, New: newname, Err: vfs.err.PermDenied}
	}

	c, ok := oChild.(*fileNode)
	if !ok {
		err := vfs.err.OpNotPermitted
		if vfs.osType == fakefs.OsWindows {
			err = fakefs.ErrWinAccessDenied
		}

		return &os.LinkError{Op: op, Old: oldname, New: newname, Err: err}
	}

	if c.mnt != nParent.mnt {
		return &os.LinkError{Op: op, Old: oldname, New: newname, Err: vfs.err.CrossDevLink}
	}

	nParent.addChild(vfs.ut, pi.Part(), c)
	nParent.touchMTime()

	c.nlink++
	c.ctime = nowNano()

	return nil
}

// Lstat returns a FileInfo describing the named file.
// If the file is a symbolic link, the returned FileInfo
// describes the symbolic link. Lstat makes no attempt to follow the link.
// If there is an error, it will be of type *PathError.
func (vfs *MemFS) Lstat(name string) (fs.FileInfo, error) {
	op := "lstat"
	if vfs.osType == fakefs.OsWindows {
		op = "CreateFile"
	}

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	_, child, _, err := vfs.searchNode(name, slmLstat)
	if err != vfs.err.FileExists || child == nil {
		return nil, &fs.PathError{Op: op, Path: name, Err: err}
	}

	return child.fillStatFrom(vfs, vfs.ut.Base(vfs.toAbsPath(name))), nil
}

// Match reports whether name matches the shell file name pattern.
func (vfs *MemFS) Match(pattern, name string) (matched bool, err error) {
	return vfs.ut.Match(pattern, name)
}

// Mkdir creates a new directory with the specified name and permission
// bits (before umask). Unlike MkdirAll it fails when the parent
// directory does not exist.
// If there is an error, it will be of type *PathError.
func (vfs *MemFS) Mkdir(name string, perm fs.FileMode) error {
	const op = "mkdir"

	if name == "" {
		return &fs.PathError{Op: op, Path: "", Err: vfs.err.NoSuchDir}
	}

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	parent, _, pi, err := vfs.searchNode(name, slmEval)
	if !vfs.isNotExist(err) || !pi.IsLast() {
		return &fs.PathError{Op: op, Path: name, Err: err}
	}

	if parent == nil {
		return &fs.PathError{Op: op, Path: name, Err: vfs.err.PermDenied}
	}

	if !vfs.checkPermission(&parent.baseNode, fakefs.OpenWrite|fakefs.OpenLookup) {
		return &fs.PathError{Op: op, Path: name, Err: vfs.err.PermDenied}
	}

	_ = vfs.createDir(parent, pi.Part(), perm)

	return nil
}

// MkdirAll creates a directory named path,
// along with any necessary parents, and returns nil,
// or else returns an error.
// The permission bits perm (before umask) are used for all
// directories that MkdirAll creates.
// If path is already a directory, MkdirAll does nothing
// and returns nil.
func (vfs *MemFS) MkdirAll(path string, perm fs.FileMode) error {
	const op = "mkdir"

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	parent, child, pi, err := vfs.searchNode(path, slmEval)

	switch child.(type) {
	case *dirNode:
		if err != vfs.err.FileExists {
			return &fs.PathError{Op: op, Path: path, Err: err}
		}

		return nil
	case *fileNode, *deviceNode:
		if err == vfs.err.FileExists {
			err = vfs.err.NotADirectory
		}

		return &fs.PathError{Op: op, Path: pi.LeftPart(), Err: err}
	}

	if err == vfs.err.NotADirectory || err == vfs.err.PermDenied ||
		err == vfs.err.FileNameTooLong || err == vfs.err.TooManySymlinks {
		return &fs.PathError{Op: op, Path: pi.LeftPart(), Err: err}
	}

	if parent == nil {
		return &fs.PathError{Op: op, Path: path, Err: vfs.err.PermDenied}
	}

	if !vfs.checkPermission(&parent.baseNode, fakefs.OpenWrite|fakefs.OpenLookup) {
		return &fs.PathError{Op: op, Path: path, Err: vfs.err.PermDenied}
	}

	dn := parent

	for {
		part := pi.Part()

		child := dn.child(vfs.ut, part)
		if child == nil {
			dn = vfs.createDir(dn, part, perm)
		} else {
			c, ok := child.(*dirNode)
			if !ok {
				return &fs.PathError{Op: op, Path: pi.LeftPart(), Err: vfs.err.NotADirectory}
			}

			dn = c
		}

		if !pi.Next() {
			break
		}
	}

	return nil
}

// MkdirTemp creates a new temporary directory in the directory dir
// and returns the pathname of the new directory.
func (vfs *MemFS) MkdirTemp(dir, pattern string) (string, error) {
	return vfs.ut.MkdirTemp(vfs, dir, pattern)
}

// Open opens the named file for reading. If successful, methods on
// the returned file can be used for reading; the associated file
// descriptor has mode O_RDONLY.
// If there is an error, it will be of type *PathError.
func (vfs *MemFS) Open(name string) (fakefs.File, error) {
	return vfs.OpenFile(name, os.O_RDONLY, 0)
}

// OpenFile is the generalized open call; most users will use Open
// or Create instead. It opens the named file with specified flag
// (O_RDONLY etc.). If the file does not exist, and the O_CREATE flag
// is passed, it is created with mode perm (before umask). If successful,
// methods on the returned File can be used for I/O.
// If there is an error, it will be of type *PathError.
func (vfs *MemFS) OpenFile(name string, flag int, perm fs.FileMode) (fakefs.File, error) {
	const op = "open"

	om := fakefs.ToOpenMode(flag)

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	if name == "" {
		return nil, &fs.PathError{Op: op, Path: name, Err: vfs.err.NoSuchFile}
	}

	parent, child, pi, err := vfs.searchNode(name, slmEval)
	if err != vfs.err.FileExists && !vfs.isNotExist(err) {
		return nil, &fs.PathError{Op: op, Path: name, Err: err}
	}

	if vfs.isNotExist(err) {
		if !pi.IsLast() {
			return nil, &fs.PathError{Op: op, Path: name, Err: err}
		}

		if om&fakefs.OpenCreate == 0 {
			return nil, &fs.PathError{Op: op, Path: name, Err: err}
		}

		if parent == nil {
			return nil, &fs.PathError{Op: op, Path: name, Err: vfs.err.PermDenied}
		}

		if om&fakefs.OpenWrite == 0 || !vfs.checkPermission(&parent.baseNode, fakefs.OpenWrite|fakefs.OpenLookup) {
			return nil, &fs.PathError{Op: op, Path: name, Err: vfs.err.PermDenied}
		}

		c := vfs.createFile(parent, pi.Part(), perm)
		c.openCnt++

		return vfs.newMemFile(c, name, om), nil
	}

	switch c := child.(type) {
	case *fileNode:
		if om&fakefs.OpenCreateExcl != 0 {
			return nil, &fs.PathError{Op: op, Path: name, Err: vfs.err.FileExists}
		}

		if !vfs.checkPermission(&c.baseNode, om) {
			return nil, &fs.PathError{Op: op, Path: name, Err: vfs.err.PermDenied}
		}

		if om&fakefs.OpenTruncate != 0 && om&fakefs.OpenWrite != 0 {
			c.mnt.release(uint64(c.storedSize()))
			c.data = nil
			c.dataSize = 0
			c.loaded = true
			c.touchMTime()
		}

		c.openCnt++

		return vfs.newMemFile(c, name, om), nil

	case *dirNode:
		if om&fakefs.OpenWrite != 0 {
			return nil, &fs.PathError{Op: op, Path: name, Err: vfs.err.IsADirectory}
		}

		if !vfs.checkPermission(&c.baseNode, om) {
			return nil, &fs.PathError{Op: op, Path: name, Err: vfs.err.PermDenied}
		}

		return vfs.newMemFile(c, name, om), nil

	case *deviceNode:
		return vfs.newMemFile(c, name, om), nil

	default:
		// A dangling trailing symlink resolves to not found above; any
		// other node type cannot be opened.
		return nil, &fs.PathError{Op: op, Path: name, Err: vfs.err.InvalidArgument}
	}
}

// ReadDir reads the named directory,
// returning all its directory entries sorted by filename (unless the
// engine was created with WithShuffledReadDir).
// If an error occurs reading the directory,
// ReadDir returns the entries it was able to read before the error,
// along with the error.
func (vfs *MemFS) ReadDir(name string) ([]fs.DirEntry, error) {
	f, err := vfs.Open(name)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	dirs, err := f.ReadDir(-1)

	if !vfs.shuffleDir {
		sort.Slice(dirs, func(i, j int) bool { return dirs[i].Name() < dirs[j].Name() })
	}

	return dirs, err
}

// ReadFile reads the named file and returns the contents.
// A successful call returns err == nil, not err == EOF.
func (vfs *MemFS) ReadFile(name string) ([]byte, error) {
	return vfs.ut.ReadFile(vfs, name)
}

// Readlink returns the destination of the named symbolic link, verbatim.
// If there is an error, it will be of type *PathError.
func (vfs *MemFS) Readlink(name string) (string, error) {
	const op = "readlink"

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	_, child, _, err := vfs.searchNode(name, slmLstat)
	if err != vfs.err.FileExists {
		return "", &fs.PathError{Op: op, Path: name, Err: err}
	}

	sl, ok := child.(*symlinkNode)
	if !ok {
		err := vfs.err.InvalidArgument
		if vfs.osType == fakefs.OsWindows {
			err = fakefs.ErrWinNotReparsePoint
		}

		return "", &fs.PathError{Op: op, Path: name, Err: err}
	}

	return sl.link, nil
}

// Rel returns a relative path that is lexically equivalent to targpath when
// joined to basepath with an intervening separator.
func (vfs *MemFS) Rel(basepath, targpath string) (string, error) {
	return vfs.ut.Rel(basepath, targpath)
}

// Remove removes the named file or (empty) directory.
// If there is an error, it will be of type *PathError.
func (vfs *MemFS) Remove(name string) error {
	const op = "remove"

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	parent, child, pi, err := vfs.searchNode(name, slmLstat)
	if err != vfs.err.FileExists || child == nil {
		return &fs.PathError{Op: op, Path: name, Err: err}
	}

	if parent == nil || child == node(parent) {
		return &fs.PathError{Op: op, Path: name, Err: vfs.err.OpNotPermitted}
	}

	if !vfs.checkPermission(&parent.baseNode, fakefs.OpenWrite|fakefs.OpenLookup) {
		return &fs.PathError{Op: op, Path: name, Err: vfs.err.PermDenied}
	}

	if !vfs.checkSticky(parent, child) {
		return &fs.PathError{Op: op, Path: name, Err: vfs.err.OpNotPermitted}
	}

	if c, ok := child.(*dirNode); ok {
		if len(c.children) != 0 {
			return &fs.PathError{Op: op, Path: name, Err: vfs.err.DirNotEmpty}
		}
	}

	parent.removeChild(vfs.ut, pi.Part())
	parent.touchMTime()
	child.delete(vfs)

	return nil
}

// RemoveAll removes path and any children it contains.
// It removes everything it can but returns the first error
// it encounters. If the path does not exist, RemoveAll
// returns nil (no error).
// If there is an error, it will be of type *PathError.
func (vfs *MemFS) RemoveAll(path string) error {
	const op = "unlinkat"

	if path == "" {
		// fail silently to retain compatibility with previous behavior of RemoveAll.
		return nil
	}

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	parent, child, pi, err := vfs.searchNode(path, slmLstat)
	if vfs.isNotExist(err) {
		return nil
	}

	if err != vfs.err.FileExists {
		return &fs.PathError{Op: op, Path: path, Err: err}
	}

	if parent == nil || child == node(parent) {
		return &fs.PathError{Op: op, Path: path, Err: vfs.err.OpNotPermitted}
	}

	if c, ok := child.(*dirNode); ok && len(c.children) != 0 {
		if err := vfs.removeAll(c); err != nil {
			return &fs.PathError{Op: op, Path: path, Err: err}
		}
	}

	if !vfs.checkPermission(&parent.baseNode, fakefs.OpenWrite|fakefs.OpenLookup) {
		return &fs.PathError{Op: op, Path: path, Err: vfs.err.PermDenied}
	}

	parent.removeChild(vfs.ut, pi.Part())
	parent.touchMTime()
	child.delete(vfs)

	return nil
}

func (vfs *MemFS) removeAll(parent *dirNode) error {
	if !vfs.checkPermission(&parent.baseNode, fakefs.OpenWrite|fakefs.OpenLookup) {
		return vfs.err.PermDenied
	}

	for _, c := range parent.children {
		if dn, ok := c.nd.(*dirNode); ok {
			if err := vfs.removeAll(dn); err != nil {
				return err
			}
		}

		c.nd.delete(vfs)
	}

	parent.children = nil

	return nil
}

// Rename renames (moves) oldpath to newpath.
// On POSIX profiles, if newpath already exists and is not a directory,
// Rename replaces it silently; on the Windows profile the rename fails.
// Renaming across mount points fails with a cross-device error.
// If there is an error, it will be of type *LinkError.
func (vfs *MemFS) Rename(oldpath, newpath string) error {
	const op = "rename"

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	oParent, oChild, oPI, oErr := vfs.searchNode(oldpath, slmLstat)
	if oErr != vfs.err.FileExists || oChild == nil {
		return &os.LinkError{Op: op, Old: oldpath, New: newpath, Err: oErr}
	}

	nParent, nChild, nPI, nErr := vfs.searchNode(newpath, slmLstat)
	if nErr != vfs.err.FileExists && !vfs.isNotExist(nErr) {
		return &os.LinkError{Op: op, Old: oldpath, New: newpath, Err: nErr}
	}

	if !nPI.IsLast() {
		return &os.LinkError{Op: op, Old: oldpath, New: newpath, Err: vfs.err.NoSuchDir}
	}

	if oParent == nil || nParent == nil || oChild == node(oParent) {
		return &os.LinkError{Op: op, Old: oldpath, New: newpath, Err: vfs.err.OpNotPermitted}
	}

	if !vfs.checkPermission(&oParent.baseNode, fakefs.OpenWrite|fakefs.OpenLookup) ||
		!vfs.checkPermission(&nParent.baseNode, fakefs.OpenWrite|fakefs.OpenLookup) {
		return &os.LinkError{Op: op, Old: oldpath, New: newpath, Err: vfs.err.PermDenied}
	}

	if !vfs.checkSticky(oParent, oChild) || (nChild != nil && !vfs.checkSticky(nParent, nChild)) {
		return &os.LinkError{Op: op, Old: oldpath, New: newpath, Err: vfs.err.OpNotPermitted}
	}

	if oChild.base().mnt != nParent.mnt {
		return &os.LinkError{Op: op, Old: oldpath, New: newpath, Err: vfs.err.CrossDevLink}
	}

	if nChild == oChild {
		if oParent == nParent && oPI.Part() != nPI.Part() {
			// Case-only rename on a non-case-sensitive profile.
			oParent.setChildName(vfs.ut, oPI.Part(), nPI.Part())
			oParent.touchMTime()
			oChild.base().ctime = nowNano()
		}

		return nil
	}

	switch oChild.(type) {
	case *dirNode:
		// A directory cannot be moved into its own subtree.
		if vfs.ut.IsPrefixPath(oPI.Path(), nPI.Path()) {
			return &os.LinkError{Op: op, Old: oldpath, New: newpath, Err: vfs.err.InvalidArgument}
		}

		if nChild != nil {
			if vfs.osType == fakefs.OsWindows {
				return &os.LinkError{Op: op, Old: oldpath, New: newpath, Err: fakefs.ErrWinAccessDenied}
			}

			nc, ok := nChild.(*dirNode)
			if !ok {
				return &os.LinkError{Op: op, Old: oldpath, New: newpath, Err: vfs.err.NotADirectory}
			}

			if len(nc.children) != 0 {
				return &os.LinkError{Op: op, Old: oldpath, New: newpath, Err: vfs.err.DirNotEmpty}
			}

			nc.delete(vfs)
		}

	case *fileNode:
		if nChild != nil {
			switch nc := nChild.(type) {
			case *fileNode:
				if vfs.osType == fakefs.OsWindows {
					return &os.LinkError{Op: op, Old: oldpath, New: newpath, Err: fakefs.ErrWinAlreadyExists}
				}

				nc.delete(vfs)
			case *dirNode:
				return &os.LinkError{Op: op, Old: oldpath, New: newpath, Err: vfs.err.IsADirectory}
			default:
				return &os.LinkError{Op: op, Old: oldpath, New: newpath, Err: vfs.err.OpNotPermitted}
			}
		}

	default:
		if nChild != nil {
			if vfs.osType == fakefs.OsWindows {
				return &os.LinkError{Op: op, Old: oldpath, New: newpath, Err: fakefs.ErrWinAlreadyExists}
			}

			if _, ok := nChild.(*dirNode); ok {
				return &os.LinkError{Op: op, Old: oldpath, New: newpath, Err: vfs.err.IsADirectory}
			}

			nChild.delete(vfs)
		}
	}

	nParent.addChild(vfs.ut, nPI.Part(), oChild)
	oParent.removeChild(vfs.ut, oPI.Part())
	oParent.touchMTime()
	nParent.touchMTime()
	oChild.base().ctime = nowNano()

	return nil
}

// SameFile reports whether fi1 and fi2 describe the same file:
// their device and inode fields are identical.
// SameFile only applies to results returned by this package's Stat.
// It returns false in other cases.
func (*MemFS) SameFile(fi1, fi2 fs.FileInfo) bool {
	fs1, ok1 := fi1.(*MemInfo)
	if !ok1 {
		return false
	}

	fs2, ok2 := fi2.(*MemInfo)
	if !ok2 {
		return false
	}

	return fs1.ino == fs2.ino && fs1.dev == fs2.dev
}

// Split splits path immediately following the final Separator,
// separating it into a directory and file name component.
func (vfs *MemFS) Split(path string) (dir, file string) {
	return vfs.ut.Split(path)
}

// Stat returns a FileInfo describing the named file.
// If there is an error, it will be of type *PathError.
func (vfs *MemFS) Stat(name string) (fs.FileInfo, error) {
	op := "stat"
	if vfs.osType == fakefs.OsWindows {
		op = "CreateFile"
	}

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	_, child, _, err := vfs.searchNode(name, slmStat)
	if err != vfs.err.FileExists || child == nil {
		return nil, &fs.PathError{Op: op, Path: name, Err: err}
	}

	return child.fillStatFrom(vfs, vfs.ut.Base(vfs.toAbsPath(name))), nil
}

// Symlink creates newname as a symbolic link to oldname.
// The target oldname is stored verbatim: it is not resolved and may not
// exist.
// If there is an error, it will be of type *LinkError.
func (vfs *MemFS) Symlink(oldname, newname string) error {
	const op = "symlink"

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	parent, _, pi, nErr := vfs.searchNode(newname, slmLstat)
	if !vfs.isNotExist(nErr) {
		if nErr == vfs.err.FileExists && vfs.osType == fakefs.OsWindows {
			nErr = fakefs.ErrWinAlreadyExists
		}

		return &os.LinkError{Op: op, Old: oldname, New: newname, Err: nErr}
	}

	if parent == nil || !pi.IsLast() {
		return &os.LinkError{Op: op, Old: oldname, New: newname, Err: vfs.err.NoSuchDir}
	}

	if !vfs.checkPermission(&parent.baseNode, fakefs.OpenWrite|fakefs.OpenLookup) {
		return &os.LinkError{Op: op, Old: oldname, New: newname, Err: vfs.err.PermDenied}
	}

	vfs.createSymlink(parent, pi.Part(), oldname)

	return nil
}

// TempDir returns the default directory to use for temporary files.
func (vfs *MemFS) TempDir() string {
	return vfs.ut.TempDir(vfs.user.Name())
}

// ToSlash returns the result of replacing each separator character
// in path with a slash ('/') character.
func (vfs *MemFS) ToSlash(path string) string {
	return vfs.ut.ToSlash(path)
}

// ToSysStat takes a value from fs.FileInfo.Sys() and returns a value that
// implements the fakefs.SysStater interface.
func (*MemFS) ToSysStat(info fs.FileInfo) fakefs.SysStater {
	return info.Sys().(fakefs.SysStater) //nolint:forcetypeassert // type assertion must be checked
}

// Truncate changes the size of the named file.
// If the file is a symbolic link, it changes the size of the link's target.
// If there is an error, it will be of type *PathError.
func (vfs *MemFS) Truncate(name string, size int64) error {
	op := "truncate"

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	_, child, _, err := vfs.searchNode(name, slmEval)
	if err != vfs.err.FileExists {
		if vfs.osType == fakefs.OsWindows {
			op = "open"
		}

		return &fs.PathError{Op: op, Path: name, Err: err}
	}

	c, ok := child.(*fileNode)
	if !ok {
		if vfs.osType == fakefs.OsWindows {
			op = "open"
		}

		return &fs.PathError{Op: op, Path: name, Err: vfs.err.IsADirectory}
	}

	if size < 0 {
		return &fs.PathError{Op: op, Path: name, Err: vfs.err.InvalidArgument}
	}

	if !vfs.checkPermission(&c.baseNode, fakefs.OpenWrite) {
		return &fs.PathError{Op: op, Path: name, Err: vfs.err.PermDenied}
	}

	if err := c.truncate(vfs, size); err != nil {
		return &fs.PathError{Op: op, Path: name, Err: err}
	}

	return nil
}

// WalkDir walks the file tree rooted at root, calling fn for each file or
// directory in the tree, including root.
//
// All errors that arise visiting files and directories are filtered by fn:
// see the fs.WalkDirFunc documentation for details.
//
// WalkDir does not follow symbolic links.
func (vfs *MemFS) WalkDir(root string, fn fs.WalkDirFunc) error {
	return vfs.ut.WalkDir(vfs, root, fn)
}

// WriteFile writes data to the named file, creating it if necessary.
// If the file does not exist, WriteFile creates it with permissions perm (before umask);
// otherwise WriteFile truncates it before writing, without changing permissions.
func (vfs *MemFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return vfs.ut.WriteFile(vfs, name, data, perm)
}
