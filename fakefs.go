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

// Package fakefs defines the interfaces, types and errors shared by the
// fake file system engine (vfs/memfs) and the real file system adapter
// (vfs/osfs).
//
// Test code is written against the FS interface; swapping the fake engine
// for the real adapter (and back, see Switcher) turns hermetic in-memory
// tests into tests against the host disk without code changes.
package fakefs

import (
	"io"
	"io/fs"
	"os"
	"time"
)

const (
	DefaultDirPerm  = fs.FileMode(0o777) // DefaultDirPerm is the default permission for directories.
	DefaultFilePerm = fs.FileMode(0o666) // DefaultFilePerm is the default permission for files.
	DefaultUMask    = fs.FileMode(0o022) // DefaultUMask is the default user file creation mode mask.
	DefaultVolume   = "C:"               // DefaultVolume is the default volume name for Windows.

	// FileModeMask is the bitmask used for permissions.
	FileModeMask = fs.ModePerm | fs.ModeSticky | fs.ModeSetuid | fs.ModeSetgid

	// NameMax is the maximum length in bytes of a path component.
	NameMax = 255

	// PathMax is the maximum length in bytes of a path.
	PathMax = 4096

	// SymlinkMax is the maximum number of symbolic links followed while
	// resolving a path.
	SymlinkMax = 40
)

// OpenMode defines constants used by OpenFile and permission checks.
type OpenMode uint16

const (
	OpenLookup     OpenMode = 0o001     // OpenLookup checks for lookup (execute) permission on a directory.
	OpenWrite      OpenMode = 0o002     // OpenWrite opens or checks for write permission.
	OpenRead       OpenMode = 0o004     // OpenRead opens or checks for read permission.
	OpenAppend     OpenMode = 1 << iota // OpenAppend opens a file for appending (os.O_APPEND).
	OpenCreate                          // OpenCreate creates a file (os.O_CREATE).
	OpenCreateExcl                      // OpenCreateExcl creates a non existing file (os.O_EXCL).
	OpenTruncate                        // OpenTruncate truncates a file (os.O_TRUNC).
	OpenDir                             // OpenDir opens a directory (syscall.O_DIRECTORY).
	OpenNoFollow                        // OpenNoFollow does not follow a trailing symbolic link (syscall.O_NOFOLLOW).
)

// ToOpenMode converts standard os package open flags to an OpenMode.
func ToOpenMode(flag int) OpenMode {
	om := OpenRead
	if flag&(os.O_WRONLY|os.O_RDWR) != 0 {
		om = OpenWrite
		if flag&os.O_RDWR != 0 {
			om |= OpenRead
		}
	}

	if flag&os.O_APPEND != 0 {
		om |= OpenAppend | OpenWrite
	}

	if flag&os.O_CREATE != 0 {
		om |= OpenCreate
	}

	if flag&os.O_EXCL != 0 {
		om |= OpenCreateExcl
	}

	if flag&os.O_TRUNC != 0 {
		om |= OpenTruncate
	}

	return om
}

// DiskUsage is the disk space accounting of a mount point.
type DiskUsage struct {
	Total uint64 // Total is the size in bytes of the mount point.
	Used  uint64 // Used is the number of bytes used by files on the mount point.
	Free  uint64 // Free is the number of available bytes on the mount point.
}

// FS is the file system interface implemented by the fake engine
// (vfs/memfs) and the real file system adapter (vfs/osfs).
type FS interface {
	Featurer
	Namer
	Typer

	// Abs returns an absolute representation of path.
	// If the path is not absolute it will be joined with the current
	// working directory to turn it into an absolute path.
	// Abs calls Clean on the result.
	Abs(path string) (string, error)

	// Access checks whether the calling identity can access the named file
	// with the given access mode (any combination of the 0o4 read, 0o2 write
	// and 0o1 execute bits). A mode of 0 checks for existence only.
	// If there is an error, it will be of type *PathError.
	Access(name string, mode fs.FileMode) error

	// Base returns the last element of path.
	// Trailing path separators are removed before extracting the last element.
	// If the path is empty, Base returns ".".
	Base(path string) string

	// Chdir changes the current working directory to the named directory.
	// If there is an error, it will be of type *PathError.
	Chdir(dir string) error

	// Chmod changes the mode of the named file to mode.
	// If the file is a symbolic link, it changes the mode of the link's target.
	// If there is an error, it will be of type *PathError.
	Chmod(name string, mode fs.FileMode) error

	// Chown changes the numeric uid and gid of the named file.
	// If the file is a symbolic link, it changes the uid and gid of the
	// link's target. A uid or gid of -1 means to not change that value.
	// If there is an error, it will be of type *PathError.
	Chown(name string, uid, gid int) error

	// Chtimes changes the access and modification times of the named
	// file, similar to the Unix utime() or utimes() functions.
	// If there is an error, it will be of type *PathError.
	Chtimes(name string, atime, mtime time.Time) error

	// Clean returns the shortest path name equivalent to path
	// by purely lexical processing.
	Clean(path string) string

	// Create creates or truncates the named file.
	// If there is an error, it will be of type *PathError.
	Create(name string) (File, error)

	// CreateTemp creates a new temporary file in the directory dir,
	// opens the file for reading and writing, and returns the resulting file.
	CreateTemp(dir, pattern string) (File, error)

	// Dir returns all but the last element of path, typically the path's
	// directory.
	Dir(path string) string

	// DiskUsage returns the disk space accounting of the mount point
	// containing the named path.
	// If there is an error, it will be of type *PathError.
	DiskUsage(name string) (DiskUsage, error)

	// EvalSymlinks returns the path name after the evaluation of any
	// symbolic links. EvalSymlinks calls Clean on the result.
	EvalSymlinks(path string) (string, error)

	// FromSlash returns the result of replacing each slash ('/') character
	// in path with a separator character.
	FromSlash(path string) string

	// Getwd returns a rooted path name corresponding to the current directory.
	Getwd() (dir string, err error)

	// Glob returns the names of all files matching pattern or nil
	// if there is no matching file.
	Glob(pattern string) (matches []string, err error)

	// Idm returns the identity manager of the file system.
	Idm() IdentityMgr

	// IsAbs reports whether the path is absolute.
	IsAbs(path string) bool

	// IsPathSeparator reports whether c is a directory separator character.
	IsPathSeparator(c uint8) bool

	// Join joins any number of path elements into a single path, adding a
	// separating slash if necessary. The result is Cleaned.
	Join(elem ...string) string

	// Lchown changes the numeric uid and gid of the named file.
	// If the file is a symbolic link, it changes the uid and gid of the
	// link itself.
	// If there is an error, it will be of type *PathError.
	Lchown(name string, uid, gid int) error

	// Link creates newname as a hard link to the oldname file.
	// If there is an error, it will be of type *LinkError.
	Link(oldname, newname string) error

	// Lstat returns a FileInfo describing the named file.
	// If the file is a symbolic link, the returned FileInfo
	// describes the symbolic link.
	// If there is an error, it will be of type *PathError.
	Lstat(name string) (fs.FileInfo, error)

	// Match reports whether name matches the shell file name pattern.
	Match(pattern, name string) (matched bool, err error)

	// Mkdir creates a new directory with the specified name and permission
	// bits (before umask). Unlike MkdirAll it fails when the parent
	// directory does not exist.
	// If there is an error, it will be of type *PathError.
	Mkdir(name string, perm fs.FileMode) error

	// MkdirAll creates a directory named path,
	// along with any necessary parents, and returns nil,
	// or else returns an error.
	MkdirAll(path string, perm fs.FileMode) error

	// MkdirTemp creates a new temporary directory in the directory dir
	// and returns the pathname of the new directory.
	MkdirTemp(dir, pattern string) (string, error)

	// Open opens the named file for reading.
	// If there is an error, it will be of type *PathError.
	Open(name string) (File, error)

	// OpenFile is the generalized open call; most users will use Open
	// or Create instead.
	// If there is an error, it will be of type *PathError.
	OpenFile(name string, flag int, perm fs.FileMode) (File, error)

	// OSType returns the operating system type of the file system.
	OSType() OSType

	// PathSeparator returns the OS-specific path separator.
	PathSeparator() uint8

	// ReadDir reads the named directory,
	// returning all its directory entries sorted by filename.
	ReadDir(name string) ([]fs.DirEntry, error)

	// ReadFile reads the named file and returns the contents.
	ReadFile(name string) ([]byte, error)

	// Readlink returns the destination of the named symbolic link, verbatim.
	// If there is an error, it will be of type *PathError.
	Readlink(name string) (string, error)

	// Rel returns a relative path that is lexically equivalent to targpath
	// when joined to basepath with an intervening separator.
	Rel(basepath, targpath string) (string, error)

	// Remove removes the named file or (empty) directory.
	// If there is an error, it will be of type *PathError.
	Remove(name string) error

	// RemoveAll removes path and any children it contains.
	RemoveAll(path string) error

	// Rename renames (moves) oldpath to newpath.
	// If there is an error, it will be of type *LinkError.
	Rename(oldpath, newpath string) error

	// SameFile reports whether fi1 and fi2 describe the same file.
	SameFile(fi1, fi2 fs.FileInfo) bool

	// SetUMask sets the file mode creation mask.
	SetUMask(mask fs.FileMode)

	// Split splits path immediately following the final Separator,
	// separating it into a directory and file name component.
	Split(path string) (dir, file string)

	// Stat returns a FileInfo describing the named file.
	// If there is an error, it will be of type *PathError.
	Stat(name string) (fs.FileInfo, error)

	// Symlink creates newname as a symbolic link to oldname.
	// The target oldname is stored verbatim and may not exist.
	// If there is an error, it will be of type *LinkError.
	Symlink(oldname, newname string) error

	// TempDir returns the default directory to use for temporary files.
	TempDir() string

	// ToSlash returns the result of replacing each separator character
	// in path with a slash ('/') character.
	ToSlash(path string) string

	// ToSysStat takes a value from fs.FileInfo.Sys() and returns a value
	// that implements the SysStater interface.
	ToSysStat(info fs.FileInfo) SysStater

	// Truncate changes the size of the named file.
	// If there is an error, it will be of type *PathError.
	Truncate(name string, size int64) error

	// UMask returns the file mode creation mask.
	UMask() fs.FileMode

	// User returns the effective user of the file system.
	User() UserReader

	// WalkDir walks the file tree rooted at root, calling fn for each file
	// or directory in the tree, including root.
	WalkDir(root string, fn fs.WalkDirFunc) error

	// WriteFile writes data to the named file, creating it if necessary.
	WriteFile(name string, data []byte, perm fs.FileMode) error
}

// File represents an open file of an FS.
type File interface {
	fs.File
	fs.ReadDirFile
	io.ReaderAt
	io.StringWriter
	io.WriterAt
	io.WriteSeeker

	// Chdir changes the current working directory to the file,
	// which must be a directory.
	// If there is an error, it will be of type *PathError.
	Chdir() error

	// Chmod changes the mode of the file to mode.
	// If there is an error, it will be of type *PathError.
	Chmod(mode fs.FileMode) error

	// Chown changes the numeric uid and gid of the named file.
	// If there is an error, it will be of type *PathError.
	Chown(uid, gid int) error

	// Fd returns the integer file descriptor referencing the open file.
	Fd() uintptr

	// Name returns the name of the file as presented to Open.
	Name() string

	// Readdirnames reads and returns a slice of names from the directory f.
	Readdirnames(n int) (names []string, err error)

	// Sync commits the current contents of the file to stable storage.
	Sync() error

	// Truncate changes the size of the file.
	// It does not change the I/O offset.
	// If there is an error, it will be of type *PathError.
	Truncate(size int64) error
}

// Featurer is the interface that wraps the Features and HasFeature methods.
type Featurer interface {
	// Features returns the set of features provided by the file system or
	// identity manager.
	Features() Features

	// HasFeature returns true if the file system or identity manager
	// provides a given feature.
	HasFeature(feature Features) bool
}

// Namer is the interface that wraps the Name method.
type Namer interface {
	Name() string
}

// Typer is the interface that wraps the Type method.
type Typer interface {
	// Type returns the type of the file system or identity manager.
	Type() string
}

// Pauser is implemented by file systems that can be temporarily disabled
// as the answerer of file system calls (see Switcher).
type Pauser interface {
	// Pause disables the file system until Resume is called.
	// The file system keeps its state while paused.
	Pause()

	// Resume re-enables a paused file system.
	Resume()

	// Paused returns true while the file system is paused.
	Paused() bool
}

// Switcher selects between a fake file system and the real one, honoring
// the pause state of the fake. It is the dependency injection seam used by
// test harnesses: code under test calls s.FS() to obtain the currently
// active file system.
type Switcher struct {
	Fake FS // Fake is the fake file system engine.
	Real FS // Real is the real file system adapter.
}

// FS returns the active file system: Real while Fake is paused, Fake
// otherwise.
func (s *Switcher) FS() FS {
	if p, ok := s.Fake.(Pauser); ok && p.Paused() {
		return s.Real
	}

	return s.Fake
}

// SysStater is the interface returned by ToSysStat on all file systems.
type SysStater interface {
	GroupIdentifier
	UserIdentifier

	// Dev returns the device id of the mount point containing the file.
	Dev() uint64

	// Ino returns the inode number of the file.
	Ino() uint64

	// Nlink returns the number of hard links to the file.
	Nlink() uint64
}
