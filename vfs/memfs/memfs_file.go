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
	"errors"
	"io"
	"io/fs"
	"time"

	"github.com/fakefs/fakefs"
	"github.com/valyala/fastrand"
)

// errWriteAtInAppendMode is returned by WriteAt on a file opened with
// O_APPEND, matching the os package behavior.
var errWriteAtInAppendMode = errors.New("invalid use of WriteAt on file opened with O_APPEND")

// newMemFile registers a new open file description for the node nd under
// the smallest free descriptor number. The engine lock must be held.
func (vfs *MemFS) newMemFile(nd node, name string, om fakefs.OpenMode) *MemFile {
	of := &openFile{
		vfs:      vfs,
		nd:       nd,
		name:     name,
		openMode: om,
		refCnt:   1,
	}

	f := &MemFile{of: of}
	f.fd = vfs.allocFd(f)

	return f
}

// Dup duplicates the descriptor f: the returned descriptor shares the
// same open file description, including the file offset, under a new
// descriptor number.
func (vfs *MemFS) Dup(f *MemFile) (*MemFile, error) {
	const op = "dup"

	f.of.mu.Lock()
	defer f.of.mu.Unlock()

	if f.closed {
		return nil, &fs.PathError{Op: op, Path: f.of.name, Err: vfs.err.BadFileDesc}
	}

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	nf := &MemFile{of: f.of}
	nf.fd = vfs.allocFd(nf)
	f.of.refCnt++

	return nf, nil
}

// FdFile returns the open descriptor registered under the number fd.
// If there is an error, it will be of type *PathError with an error of
// kind BadFileDesc.
func (vfs *MemFS) FdFile(fd int) (*MemFile, error) {
	vfs.mu.RLock()
	defer vfs.mu.RUnlock()

	f, ok := vfs.fds[fd]
	if !ok || f == nil {
		return nil, &fs.PathError{Op: "fd", Path: "", Err: vfs.err.BadFileDesc}
	}

	return f, nil
}

// Chdir changes the current working directory to the file,
// which must be a directory.
// If there is an error, it will be of type *PathError.
func (f *MemFile) Chdir() error {
	const op = "chdir"

	f.of.mu.Lock()
	defer f.of.mu.Unlock()

	if f.closed {
		return &fs.PathError{Op: op, Path: f.of.name, Err: fakefs.ErrFileClosing}
	}

	vfs := f.of.vfs

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	if _, ok := f.of.nd.(*dirNode); !ok {
		return &fs.PathError{Op: op, Path: f.of.name, Err: vfs.err.NotADirectory}
	}

	vfs.curDir = vfs.toAbsPath(f.of.name)

	return nil
}

// Chmod changes the mode of the file to mode.
// If there is an error, it will be of type *PathError.
func (f *MemFile) Chmod(mode fs.FileMode) error {
	const op = "chmod"

	f.of.mu.Lock()
	defer f.of.mu.Unlock()

	if f.closed {
		return &fs.PathError{Op: op, Path: f.of.name, Err: fakefs.ErrFileClosing}
	}

	vfs := f.of.vfs

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	if !vfs.setMode(f.of.nd.base(), mode) {
		return &fs.PathError{Op: op, Path: f.of.name, Err: vfs.err.OpNotPermitted}
	}

	return nil
}

// Chown changes the numeric uid and gid of the named file.
// If there is an error, it will be of type *PathError.
func (f *MemFile) Chown(uid, gid int) error {
	const op = "chown"

	f.of.mu.Lock()
	defer f.of.mu.Unlock()

	if f.closed {
		return &fs.PathError{Op: op, Path: f.of.name, Err: fakefs.ErrFileClosing}
	}

	vfs := f.of.vfs

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	if vfs.osType == fakefs.OsWindows || !vfs.user.IsAdmin() {
		return &fs.PathError{Op: op, Path: f.of.name, Err: vfs.err.OpNotPermitted}
	}

	f.of.nd.base().setOwner(uid, gid)

	return nil
}

// Close closes the descriptor. The open file description is released
// when the last duplicated descriptor is closed; the content bytes of an
// unlinked file are returned to its mount budget at that point.
func (f *MemFile) Close() error {
	const op = "close"

	f.of.mu.Lock()
	defer f.of.mu.Unlock()

	if f.closed {
		return &fs.PathError{Op: op, Path: f.of.name, Err: fakefs.ErrFileClosing}
	}

	f.closed = true

	vfs := f.of.vfs

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	vfs.freeFd(f.fd)

	f.of.refCnt--
	if f.of.refCnt > 0 {
		return nil
	}

	if fn, ok := f.of.nd.(*fileNode); ok {
		fn.openCnt--
		if fn.nlink == 0 && fn.openCnt == 0 {
			fn.release(vfs)
		}
	}

	f.of.dirEntries = nil
	f.of.dirNames = nil

	return nil
}

// Fd returns the integer file descriptor referencing the open file.
func (f *MemFile) Fd() uintptr {
	return uintptr(f.fd)
}

// Name returns the name of the file as presented to Open.
func (f *MemFile) Name() string {
	return f.of.name
}

// Read reads up to len(b) bytes from the file and advances the offset.
// It returns the number of bytes read and any error encountered.
// At end of file, Read returns 0, io.EOF.
func (f *MemFile) Read(b []byte) (n int, err error) {
	const op = "read"

	f.of.mu.Lock()
	defer f.of.mu.Unlock()

	if f.closed {
		return 0, &fs.PathError{Op: op, Path: f.of.name, Err: fakefs.ErrFileClosing}
	}

	vfs := f.of.vfs

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	switch nd := f.of.nd.(type) {
	case *fileNode:
		if f.of.openMode&fakefs.OpenRead == 0 {
			return 0, &fs.PathError{Op: op, Path: f.of.name, Err: vfs.err.BadFileDesc}
		}

		if err := nd.materialize(vfs); err != nil {
			return 0, &fs.PathError{Op: op, Path: f.of.name, Err: err}
		}

		if f.of.at >= int64(len(nd.data)) {
			return 0, io.EOF
		}

		n = copy(b, nd.data[f.of.at:])
		f.of.at += int64(n)

		if !vfs.noAtime {
			nd.touchATime()
		}

		return n, nil

	case *deviceNode:
		return 0, io.EOF

	default:
		return 0, &fs.PathError{Op: op, Path: f.of.name, Err: vfs.err.IsADirectory}
	}
}

// ReadAt reads len(b) bytes from the file starting at byte offset off.
// It does not affect the file offset.
// ReadAt always returns a non-nil error when n < len(b).
func (f *MemFile) ReadAt(b []byte, off int64) (n int, err error) {
	const op = "readat"

	if off < 0 {
		return 0, &fs.PathError{Op: op, Path: f.of.name, Err: fakefs.ErrNegativeOffset}
	}

	f.of.mu.Lock()
	defer f.of.mu.Unlock()

	if f.closed {
		return 0, &fs.PathError{Op: op, Path: f.of.name, Err: fakefs.ErrFileClosing}
	}

	vfs := f.of.vfs

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	switch nd := f.of.nd.(type) {
	case *fileNode:
		if f.of.openMode&fakefs.OpenRead == 0 {
			return 0, &fs.PathError{Op: op, Path: f.of.name, Err: vfs.err.BadFileDesc}
		}

		if err := nd.materialize(vfs); err != nil {
			return 0, &fs.PathError{Op: op, Path: f.of.name, Err: err}
		}

		if off >= int64(len(nd.data)) {
			return 0, io.EOF
		}

		n = copy(b, nd.data[off:])

		if !vfs.noAtime {
			nd.touchATime()
		}

		if n < len(b) {
			return n, io.EOF
		}

		return n, nil

	case *deviceNode:
		return 0, io.EOF

	default:
		return 0, &fs.PathError{Op: op, Path: f.of.name, Err: vfs.err.IsADirectory}
	}
}

// ReadDir reads the contents of the directory and returns a slice of up
// to n fs.DirEntry values, in directory order: the insertion order of
// the entries, or a random order when the engine was created with
// WithShuffledReadDir. Entry information is captured lazily at the time
// of the ReadDir call.
func (f *MemFile) ReadDir(n int) ([]fs.DirEntry, error) {
	const op = "readdirent"

	f.of.mu.Lock()
	defer f.of.mu.Unlock()

	if f.closed {
		return nil, &fs.PathError{Op: op, Path: f.of.name, Err: fakefs.ErrFileClosing}
	}

	vfs := f.of.vfs

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	dn, ok := f.of.nd.(*dirNode)
	if !ok {
		return nil, &fs.PathError{Op: op, Path: f.of.name, Err: vfs.err.NotADirectory}
	}

	if n <= 0 || f.of.dirEntries == nil {
		entries := make([]fs.DirEntry, 0, len(dn.children))
		for _, c := range dn.children {
			entries = append(entries, c.nd.fillStatFrom(vfs, c.name))
		}

		if vfs.shuffleDir {
			shuffleDirEntries(entries)
		}

		if n <= 0 {
			f.of.dirEntries = nil
			f.of.dirIndex = 0

			return entries, nil
		}

		f.of.dirEntries = entries
		f.of.dirIndex = 0
	}

	start := f.of.dirIndex
	if start >= len(f.of.dirEntries) {
		f.of.dirEntries = nil
		f.of.dirIndex = 0

		return nil, io.EOF
	}

	end := start + n
	if end > len(f.of.dirEntries) {
		end = len(f.of.dirEntries)
	}

	f.of.dirIndex = end

	return f.of.dirEntries[start:end], nil
}

// Readdirnames reads and returns a slice of names from the directory f,
// in directory order.
func (f *MemFile) Readdirnames(n int) (names []string, err error) {
	const op = "readdirent"

	f.of.mu.Lock()
	defer f.of.mu.Unlock()

	if f.closed {
		return nil, &fs.PathError{Op: op, Path: f.of.name, Err: fakefs.ErrFileClosing}
	}

	vfs := f.of.vfs

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	dn, ok := f.of.nd.(*dirNode)
	if !ok {
		return nil, &fs.PathError{Op: op, Path: f.of.name, Err: vfs.err.NotADirectory}
	}

	if n <= 0 || f.of.dirNames == nil {
		all := dn.names()
		if vfs.shuffleDir {
			shuffleStrings(all)
		}

		if n <= 0 {
			f.of.dirNames = nil
			f.of.dirIndex = 0

			return all, nil
		}

		f.of.dirNames = all
		f.of.dirIndex = 0
	}

	start := f.of.dirIndex
	if start >= len(f.of.dirNames) {
		f.of.dirNames = nil
		f.of.dirIndex = 0

		return nil, io.EOF
	}

	end := start + n
	if end > len(f.of.dirNames) {
		end = len(f.of.dirNames)
	}

	f.of.dirIndex = end

	return f.of.dirNames[start:end], nil
}

// Seek sets the offset for the next Read or Write on file to offset,
// interpreted according to whence: 0 means relative to the origin of the
// file, 1 means relative to the current offset, and 2 means relative to
// the end. It returns the new offset and an error, if any.
// In append mode the offset is informational: every write is performed
// at the end of the file regardless of seeks.
func (f *MemFile) Seek(offset int64, whence int) (ret int64, err error) {
	const op = "seek"

	f.of.mu.Lock()
	defer f.of.mu.Unlock()

	if f.closed {
		return 0, &fs.PathError{Op: op, Path: f.of.name, Err: fakefs.ErrFileClosing}
	}

	vfs := f.of.vfs

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	var size int64
	if fn, ok := f.of.nd.(*fileNode); ok {
		size = fn.storedSize()
	}

	var at int64

	switch whence {
	case io.SeekStart:
		at = offset
	case io.SeekCurrent:
		at = f.of.at + offset
	case io.SeekEnd:
		at = size + offset
	default:
		return 0, &fs.PathError{Op: op, Path: f.of.name, Err: vfs.err.InvalidArgument}
	}

	if at < 0 {
		err := vfs.err.InvalidArgument
		if vfs.osType == fakefs.OsWindows {
			err = fakefs.ErrWinNegativeSeek
		}

		return 0, &fs.PathError{Op: op, Path: f.of.name, Err: err}
	}

	f.of.at = at

	return at, nil
}

// Stat returns the FileInfo structure describing file.
// If there is an error, it will be of type *PathError.
func (f *MemFile) Stat() (fs.FileInfo, error) {
	const op = "stat"

	f.of.mu.Lock()
	defer f.of.mu.Unlock()

	if f.closed {
		return nil, &fs.PathError{Op: op, Path: f.of.name, Err: fakefs.ErrFileClosing}
	}

	vfs := f.of.vfs

	vfs.mu.RLock()
	defer vfs.mu.RUnlock()

	return f.of.nd.fillStatFrom(vfs, vfs.ut.Base(vfs.toAbsPath(f.of.name))), nil
}

// Sync commits the current contents of the file to stable storage: a
// no-op for an in memory file system.
func (f *MemFile) Sync() error {
	const op = "sync"

	f.of.mu.Lock()
	defer f.of.mu.Unlock()

	if f.closed {
		return &fs.PathError{Op: op, Path: f.of.name, Err: fakefs.ErrFileClosing}
	}

	return nil
}

// Truncate changes the size of the file.
// It does not change the I/O offset.
// If there is an error, it will be of type *PathError.
func (f *MemFile) Truncate(size int64) error {
	const op = "truncate"

	f.of.mu.Lock()
	defer f.of.mu.Unlock()

	if f.closed {
		return &fs.PathError{Op: op, Path: f.of.name, Err: fakefs.ErrFileClosing}
	}

	vfs := f.of.vfs

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	if size < 0 {
		return &fs.PathError{Op: op, Path: f.of.name, Err: vfs.err.InvalidArgument}
	}

	fn, ok := f.of.nd.(*fileNode)
	if !ok || f.of.openMode&fakefs.OpenWrite == 0 {
		return &fs.PathError{Op: op, Path: f.of.name, Err: vfs.err.InvalidArgument}
	}

	if err := fn.truncate(vfs, size); err != nil {
		return &fs.PathError{Op: op, Path: f.of.name, Err: err}
	}

	return nil
}

// Write writes len(b) bytes from b to the file at the current offset,
// extending the file if necessary. In append mode the offset is forced
// to the end of the file before every write, regardless of seeks.
// A write that would exceed the mount budget fails entirely with an
// error of kind NoSpaceLeft; no partial write is persisted.
func (f *MemFile) Write(b []byte) (n int, err error) {
	const op = "write"

	f.of.mu.Lock()
	defer f.of.mu.Unlock()

	if f.closed {
		return 0, &fs.PathError{Op: op, Path: f.of.name, Err: fakefs.ErrFileClosing}
	}

	vfs := f.of.vfs

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	switch nd := f.of.nd.(type) {
	case *fileNode:
		if f.of.openMode&fakefs.OpenWrite == 0 {
			return 0, &fs.PathError{Op: op, Path: f.of.name, Err: vfs.err.BadFileDesc}
		}

		if err := nd.materialize(vfs); err != nil {
			return 0, &fs.PathError{Op: op, Path: f.of.name, Err: err}
		}

		if f.of.openMode&fakefs.OpenAppend != 0 {
			f.of.at = int64(len(nd.data))
		}

		n, err = vfs.writeToFile(nd, f.of.at, b)
		if err != nil {
			return 0, &fs.PathError{Op: op, Path: f.of.name, Err: err}
		}

		f.of.at += int64(n)

		return n, nil

	case *deviceNode:
		// Writes to the null device are discarded.
		return len(b), nil

	default:
		return 0, &fs.PathError{Op: op, Path: f.of.name, Err: vfs.err.BadFileDesc}
	}
}

// WriteAt writes len(b) bytes to the file starting at byte offset off.
// It does not affect the file offset.
func (f *MemFile) WriteAt(b []byte, off int64) (n int, err error) {
	const op = "writeat"

	if off < 0 {
		return 0, &fs.PathError{Op: op, Path: f.of.name, Err: fakefs.ErrNegativeOffset}
	}

	f.of.mu.Lock()
	defer f.of.mu.Unlock()

	if f.closed {
		return 0, &fs.PathError{Op: op, Path: f.of.name, Err: fakefs.ErrFileClosing}
	}

	if f.of.openMode&fakefs.OpenAppend != 0 {
		return 0, errWriteAtInAppendMode
	}

	vfs := f.of.vfs

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	switch nd := f.of.nd.(type) {
	case *fileNode:
		if f.of.openMode&fakefs.OpenWrite == 0 {
			return 0, &fs.PathError{Op: op, Path: f.of.name, Err: vfs.err.BadFileDesc}
		}

		if err := nd.materialize(vfs); err != nil {
			return 0, &fs.PathError{Op: op, Path: f.of.name, Err: err}
		}

		n, err = vfs.writeToFile(nd, off, b)
		if err != nil {
			return 0, &fs.PathError{Op: op, Path: f.of.name, Err: err}
		}

		return n, nil

	case *deviceNode:
		return len(b), nil

	default:
		return 0, &fs.PathError{Op: op, Path: f.of.name, Err: vfs.err.BadFileDesc}
	}
}

// WriteString is like Write, but writes the contents of string s rather
// than a slice of bytes.
func (f *MemFile) WriteString(s string) (n int, err error) {
	return f.Write([]byte(s))
}

// writeToFile overwrites the content of fn from offset off with b,
// extending the content if the write goes past the end. The mount budget
// is claimed before any byte is copied.
func (vfs *MemFS) writeToFile(fn *fileNode, off int64, b []byte) (int, error) {
	end := off + int64(len(b))

	if delta := end - int64(len(fn.data)); delta > 0 {
		if err := fn.mnt.claim(vfs, delta); err != nil {
			return 0, err
		}

		if gap := off - int64(len(fn.data)); gap > 0 {
			// A seek past the end leaves a NUL filled gap.
			fn.data = append(fn.data, make([]byte, gap)...)
		}

		fn.data = append(fn.data[:off], b...)
	} else {
		copy(fn.data[off:], b)
	}

	fn.touchMTime()

	return len(b), nil
}

// shuffleDirEntries shuffles directory entries in place.
func shuffleDirEntries(entries []fs.DirEntry) {
	for i := len(entries) - 1; i > 0; i-- {
		j := int(fastrand.Uint32n(uint32(i + 1)))
		entries[i], entries[j] = entries[j], entries[i]
	}
}

// shuffleStrings shuffles names in place.
func shuffleStrings(names []string) {
	for i := len(names) - 1; i > 0; i-- {
		j := int(fastrand.Uint32n(uint32(i + 1)))
		names[i], names[j] = names[j], names[i]
	}
}

// MemInfo

// Info returns the FileInfo of the entry (fs.DirEntry interface).
func (info *MemInfo) Info() (fs.FileInfo, error) {
	return info, nil
}

// IsDir reports whether the entry describes a directory.
func (info *MemInfo) IsDir() bool {
	return info.mode.IsDir()
}

// Mode returns the file mode bits.
func (info *MemInfo) Mode() fs.FileMode {
	return info.mode
}

// ModTime returns the modification time.
func (info *MemInfo) ModTime() time.Time {
	return time.Unix(0, info.mtime)
}

// Name returns the base name of the file.
func (info *MemInfo) Name() string {
	return info.name
}

// Size returns the length in bytes for regular files.
func (info *MemInfo) Size() int64 {
	return info.size
}

// Sys returns the system dependent part of the file information: the
// MemInfo itself, which implements fakefs.SysStater.
func (info *MemInfo) Sys() any {
	return info
}

// Type returns the type bits of the file mode (fs.DirEntry interface).
func (info *MemInfo) Type() fs.FileMode {
	return info.mode.Type()
}

// AccessTime returns the access time.
func (info *MemInfo) AccessTime() time.Time {
	return time.Unix(0, info.atime)
}

// ChangeTime returns the status change time.
func (info *MemInfo) ChangeTime() time.Time {
	return time.Unix(0, info.ctime)
}

// BirthTime returns the creation time.
func (info *MemInfo) BirthTime() time.Time {
	return time.Unix(0, info.btime)
}

// Dev returns the device id of the mount containing the file.
func (info *MemInfo) Dev() uint64 {
	return info.dev
}

// Gid returns the group id.
func (info *MemInfo) Gid() int {
	return info.gid
}

// Ino returns the inode number.
func (info *MemInfo) Ino() uint64 {
	return info.ino
}

// Nlink returns the number of hard links.
func (info *MemInfo) Nlink() uint64 {
	return uint64(info.nlink)
}

// Uid returns the user id.
func (info *MemInfo) Uid() int {
	return info.uid
}

// FileAttributes returns the synthesized Windows file attributes of the
// file: only the DIRECTORY, READONLY and REPARSE_POINT bits are
// produced, and only on the Windows profile.
func (info *MemInfo) FileAttributes() uint32 {
	return info.winAttr
}

// ReparseTag returns the synthesized Windows reparse tag of the file:
// IO_REPARSE_TAG_SYMLINK for symbolic links, 0 elsewhere.
func (info *MemInfo) ReparseTag() uint32 {
	return info.reparse
}
