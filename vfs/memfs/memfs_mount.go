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

	"github.com/fakefs/fakefs"
)

// AddMountPoint creates a new mount point at path with its own device id
// and a disk budget of totalSize bytes. The mount directory is created;
// it must not already exist, and its parent must.
// If there is an error, it will be of type *PathError.
func (vfs *MemFS) AddMountPoint(path string, totalSize uint64) error {
	const op = "mount"

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	parent, _, pi, err := vfs.searchNode(path, slmEval)
	if !vfs.isNotExist(err) {
		return &fs.PathError{Op: op, Path: path, Err: err}
	}

	if parent == nil || !pi.IsLast() {
		return &fs.PathError{Op: op, Path: path, Err: vfs.err.NoSuchDir}
	}

	if !vfs.checkPermission(&parent.baseNode, fakefs.OpenWrite|fakefs.OpenLookup) {
		return &fs.PathError{Op: op, Path: path, Err: vfs.err.PermDenied}
	}

	mnt := vfs.newMount(pi.Path(), totalSize)
	parent.addChild(vfs.ut, pi.Part(), mnt.root)
	parent.touchMTime()

	return nil
}

// AddVolume adds a new Windows volume (drive letter or UNC share) with a
// default total size. Volumes are also created implicitly when a path on
// a new drive is first referenced.
// If there is an error, it will be of type *PathError.
func (vfs *MemFS) AddVolume(name string) error {
	const op = "mount"

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	if vfs.osType != fakefs.OsWindows {
		return &fs.PathError{Op: op, Path: name, Err: vfs.err.OpNotPermitted}
	}

	if vfs.ut.VolumeNameLen(name) != len(name) || name == "" {
		return &fs.PathError{Op: op, Path: name, Err: vfs.err.InvalidArgument}
	}

	_ = vfs.volumeMount(name)

	return nil
}

// VolumeList returns the volume names of the file system.
func (vfs *MemFS) VolumeList() []string {
	vfs.mu.RLock()
	defer vfs.mu.RUnlock()

	if vfs.osType != fakefs.OsWindows {
		return nil
	}

	names := make([]string, 0, len(vfs.volumes))
	for name := range vfs.volumes {
		names = append(names, name)
	}

	return names
}

// GetDiskUsage is an alias of DiskUsage, matching the engine level API.
func (vfs *MemFS) GetDiskUsage(name string) (fakefs.DiskUsage, error) {
	return vfs.DiskUsage(name)
}

// SetDiskUsage sets the total size in bytes of the mount point
// containing path. Setting a total below the bytes already used is an
// error of kind InvalidArgument.
// If there is an error, it will be of type *PathError.
func (vfs *MemFS) SetDiskUsage(totalSize uint64, path string) error {
	const op = "statfs"

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	_, _, _, err := vfs.searchNode(path, slmEval)
	if err != vfs.err.FileExists {
		return &fs.PathError{Op: op, Path: path, Err: err}
	}

	mnt := vfs.mountFor(vfs.toAbsPath(path))
	if totalSize < mnt.used {
		return &fs.PathError{Op: op, Path: path, Err: vfs.err.InvalidArgument}
	}

	mnt.total = totalSize

	return nil
}

// ChangeDiskUsage adjusts the used bytes of the mount point containing
// path by delta, simulating disk consumption outside the fake file
// system. A positive delta exceeding the free space fails with an error
// of kind NoSpaceLeft.
// If there is an error, it will be of type *PathError.
func (vfs *MemFS) ChangeDiskUsage(delta int64, path string) error {
	const op = "statfs"

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	_, _, _, err := vfs.searchNode(path, slmEval)
	if err != vfs.err.FileExists {
		return &fs.PathError{Op: op, Path: path, Err: err}
	}

	mnt := vfs.mountFor(vfs.toAbsPath(path))
	if err := mnt.claim(vfs, delta); err != nil {
		return &fs.PathError{Op: op, Path: path, Err: err}
	}

	return nil
}
