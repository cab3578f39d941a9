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

//go:build !linux && !darwin && !windows

package osfs

import (
	"io/fs"
	"os"

	"github.com/fakefs/fakefs"
)

// Access checks for the existence of the named file only.
func (vfs *OsFS) Access(name string, mode fs.FileMode) error {
	_, err := os.Stat(name)

	return err
}

// DiskUsage is not supported on this platform.
func (vfs *OsFS) DiskUsage(name string) (fakefs.DiskUsage, error) {
	return fakefs.DiskUsage{}, &fs.PathError{Op: "statfs", Path: name, Err: fs.ErrInvalid}
}

// SetUMask is a no-op on this platform.
func (vfs *OsFS) SetUMask(mask fs.FileMode) {}

// UMask returns 0 on this platform.
func (vfs *OsFS) UMask() fs.FileMode {
	return 0
}

// ToSysStat takes a value from fs.FileInfo.Sys() and returns a value
// that implements the fakefs.SysStater interface.
func (vfs *OsFS) ToSysStat(info fs.FileInfo) fakefs.SysStater {
	return &otherSysStat{}
}

type otherSysStat struct{}

func (*otherSysStat) Dev() uint64   { return 0 }
func (*otherSysStat) Gid() int      { return -1 }
func (*otherSysStat) Ino() uint64   { return 0 }
func (*otherSysStat) Nlink() uint64 { return 1 }
func (*otherSysStat) Uid() int      { return -1 }
