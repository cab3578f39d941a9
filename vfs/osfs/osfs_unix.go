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

//go:build linux || darwin

package osfs

import (
	"io/fs"
	"syscall"

	"github.com/fakefs/fakefs"
)

// Access checks whether the calling process can access the named file
// with the given access mode, using the real access(2) system call.
func (vfs *OsFS) Access(name string, mode fs.FileMode) error {
	err := syscall.Access(name, uint32(mode&0o7))
	if err != nil {
		return &fs.PathError{Op: "access", Path: name, Err: err}
	}

	return nil
}

// DiskUsage returns the disk space accounting of the file system
// containing the named path, using statfs(2).
func (vfs *OsFS) DiskUsage(name string) (fakefs.DiskUsage, error) {
	var stat syscall.Statfs_t

	err := syscall.Statfs(name, &stat)
	if err != nil {
		return fakefs.DiskUsage{}, &fs.PathError{Op: "statfs", Path: name, Err: err}
	}

	bsize := uint64(stat.Bsize)
	total := stat.Blocks * bsize
	free := stat.Bavail * bsize

	return fakefs.DiskUsage{
		Total: total,
		Used:  total - stat.Bfree*bsize,
		Free:  free,
	}, nil
}

// SetUMask sets the file mode creation mask of the process.
func (vfs *OsFS) SetUMask(mask fs.FileMode) {
	syscall.Umask(int(mask & fs.ModePerm))
}

// UMask returns the file mode creation mask of the process.
func (vfs *OsFS) UMask() fs.FileMode {
	mask := syscall.Umask(0)
	syscall.Umask(mask)

	return fs.FileMode(mask)
}

// osSysStat adapts a syscall.Stat_t to the fakefs.SysStater interface.
type osSysStat struct {
	stat *syscall.Stat_t
}

func (s *osSysStat) Dev() uint64 {
	return uint64(s.stat.Dev) //nolint:unconvert // Dev is int32 on Darwin.
}

func (s *osSysStat) Gid() int {
	return int(s.stat.Gid)
}

func (s *osSysStat) Ino() uint64 {
	return s.stat.Ino
}

func (s *osSysStat) Nlink() uint64 {
	return uint64(s.stat.Nlink) //nolint:unconvert // Nlink is uint16 on Darwin.
}

func (s *osSysStat) Uid() int {
	return int(s.stat.Uid)
}

// ToSysStat takes a value from fs.FileInfo.Sys() and returns a value
// that implements the fakefs.SysStater interface.
func (vfs *OsFS) ToSysStat(info fs.FileInfo) fakefs.SysStater {
	return &osSysStat{stat: info.Sys().(*syscall.Stat_t)} //nolint:forcetypeassert // type assertion must be checked
}
