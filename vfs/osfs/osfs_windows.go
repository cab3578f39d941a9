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

//go:build windows

package osfs

import (
	"io/fs"
	"os"
	"syscall"
	"unsafe"

	"github.com/fakefs/fakefs"
)

// Access checks whether the named file exists and, when write access is
// requested, that it is not read-only. NTFS ACLs cannot be expressed
// through POSIX modes, so the check is a best effort.
func (vfs *OsFS) Access(name string, mode fs.FileMode) error {
	info, err := os.Stat(name)
	if err != nil {
		return err
	}

	if mode&0o2 != 0 && info.Mode().Perm()&0o200 == 0 {
		return &fs.PathError{Op: "access", Path: name, Err: syscall.ERROR_ACCESS_DENIED}
	}

	return nil
}

var (
	kernel32            = syscall.NewLazyDLL("kernel32.dll")                //nolint:gochecknoglobals // kernel32.dll procedures.
	procGetDiskFreeSpac = kernel32.NewProc("GetDiskFreeSpaceExW")           //nolint:gochecknoglobals // kernel32.dll procedures.
)

// DiskUsage returns the disk space accounting of the volume containing
// the named path, using GetDiskFreeSpaceEx.
func (vfs *OsFS) DiskUsage(name string) (fakefs.DiskUsage, error) {
	p, err := syscall.UTF16PtrFromString(name)
	if err != nil {
		return fakefs.DiskUsage{}, &fs.PathError{Op: "statfs", Path: name, Err: err}
	}

	var availBytes, totalBytes, freeBytes uint64

	r1, _, e1 := procGetDiskFreeSpac.Call(
		uintptr(unsafe.Pointer(p)),
		uintptr(unsafe.Pointer(&availBytes)),
		uintptr(unsafe.Pointer(&totalBytes)),
		uintptr(unsafe.Pointer(&freeBytes)),
	)
	if r1 == 0 {
		return fakefs.DiskUsage{}, &fs.PathError{Op: "statfs", Path: name, Err: e1}
	}

	return fakefs.DiskUsage{
		Total: totalBytes,
		Used:  totalBytes - freeBytes,
		Free:  availBytes,
	}, nil
}

// SetUMask is a no-op on Windows.
func (vfs *OsFS) SetUMask(mask fs.FileMode) {}

// UMask returns 0 on Windows.
func (vfs *OsFS) UMask() fs.FileMode {
	return 0
}

// winSysStat is the fakefs.SysStater returned on Windows, where inode
// and identity fields are not available through fs.FileInfo.Sys().
type winSysStat struct{}

func (*winSysStat) Dev() uint64   { return 0 }
func (*winSysStat) Gid() int      { return -1 }
func (*winSysStat) Ino() uint64   { return 0 }
func (*winSysStat) Nlink() uint64 { return 1 }
func (*winSysStat) Uid() int      { return -1 }

// ToSysStat takes a value from fs.FileInfo.Sys() and returns a value
// that implements the fakefs.SysStater interface.
func (vfs *OsFS) ToSysStat(info fs.FileInfo) fakefs.SysStater {
	return &winSysStat{}
}
