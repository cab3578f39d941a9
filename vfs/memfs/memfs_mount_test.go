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
	"testing"

	"github.com/fakefs/fakefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMountPoint(t *testing.T) {
	vfs := newTestFS(t)

	require.NoError(t, vfs.AddMountPoint("/mnt", 1000))

	info, err := vfs.Stat("/mnt")
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// The mount has its own device id.
	rootInfo, err := vfs.Stat("/")
	require.NoError(t, err)
	assert.NotEqual(t, vfs.ToSysStat(rootInfo).Dev(), vfs.ToSysStat(info).Dev())

	// An existing path cannot become a mount point.
	err = vfs.AddMountPoint("/mnt", 1000)
	assertErrno(t, err, vfs.err.FileExists)
}

func TestMountDiskUsage(t *testing.T) {
	vfs := newTestFS(t)

	require.NoError(t, vfs.AddMountPoint("/mnt", 1000))

	du, err := vfs.GetDiskUsage("/mnt")
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), du.Total)
	assert.Equal(t, uint64(0), du.Used)
	assert.Equal(t, uint64(1000), du.Free)

	// Files on the mount are accounted on the mount only.
	require.NoError(t, vfs.CreateFile("/mnt/f", make([]byte, 100), 0o644))

	du, err = vfs.GetDiskUsage("/mnt")
	require.NoError(t, err)
	assert.Equal(t, uint64(100), du.Used)
	assert.Equal(t, uint64(900), du.Free)

	rootDu, err := vfs.GetDiskUsage("/")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), rootDu.Used)
}

func TestSetDiskUsage(t *testing.T) {
	vfs := newTestFS(t)

	require.NoError(t, vfs.CreateFile("/f", make([]byte, 50), 0o644))

	// The total cannot shrink below the used bytes.
	err := vfs.SetDiskUsage(10, "/")
	assertErrno(t, err, vfs.err.InvalidArgument)

	require.NoError(t, vfs.SetDiskUsage(50, "/"))

	du, err := vfs.GetDiskUsage("/")
	require.NoError(t, err)
	assert.Equal(t, uint64(50), du.Total)
	assert.Equal(t, uint64(0), du.Free)
}

func TestChangeDiskUsage(t *testing.T) {
	vfs := newTestFS(t)

	require.NoError(t, vfs.SetDiskUsage(100, "/"))
	require.NoError(t, vfs.ChangeDiskUsage(60, "/"))

	du, err := vfs.GetDiskUsage("/")
	require.NoError(t, err)
	assert.Equal(t, uint64(60), du.Used)

	err = vfs.ChangeDiskUsage(50, "/")
	assertErrno(t, err, vfs.err.NoSpaceLeft)

	require.NoError(t, vfs.ChangeDiskUsage(-60, "/"))

	du, err = vfs.GetDiskUsage("/")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), du.Used)
}

func TestCrossMountLink(t *testing.T) {
	vfs := newTestFS(t)

	require.NoError(t, vfs.AddMountPoint("/mnt", 1000))
	require.NoError(t, vfs.CreateFile("/mnt/f", []byte("x"), 0o644))

	err := vfs.Link("/mnt/f", "/f")
	assertErrno(t, err, vfs.err.CrossDevLink)

	// Hard links inside the same mount are fine.
	require.NoError(t, vfs.Link("/mnt/f", "/mnt/g"))
}

func TestLinkDirectoryForbidden(t *testing.T) {
	vfs := newTestFS(t)

	require.NoError(t, vfs.Mkdir("/dir", fakefs.DefaultDirPerm))

	err := vfs.Link("/dir", "/dirlink")
	assertErrno(t, err, vfs.err.OpNotPermitted)
}

func TestMountDeviceIds(t *testing.T) {
	vfs := newTestFS(t)

	require.NoError(t, vfs.AddMountPoint("/mnt", 1000))
	require.NoError(t, vfs.CreateFile("/mnt/f", nil, 0o644))
	require.NoError(t, vfs.CreateFile("/f", nil, 0o644))

	inside, err := vfs.Stat("/mnt/f")
	require.NoError(t, err)

	mntInfo, err := vfs.Stat("/mnt")
	require.NoError(t, err)

	outside, err := vfs.Stat("/f")
	require.NoError(t, err)

	// Files inherit the device id of their mount.
	assert.Equal(t, vfs.ToSysStat(mntInfo).Dev(), vfs.ToSysStat(inside).Dev())
	assert.NotEqual(t, vfs.ToSysStat(outside).Dev(), vfs.ToSysStat(inside).Dev())
}

func TestVolumes(t *testing.T) {
	vfs := New(WithOSType(fakefs.OsWindows))

	require.NoError(t, vfs.AddVolume("D:"))
	require.NoError(t, vfs.CreateFile(`D:\f`, []byte("x"), 0o644))

	data, err := vfs.ReadFile(`d:\f`)
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))

	assert.GreaterOrEqual(t, len(vfs.VolumeList()), 2)

	err = vfs.AddVolume("not-a-volume")
	assertErrno(t, err, vfs.err.InvalidArgument)

	// Volumes are a Windows profile feature.
	linux := newTestFS(t)
	err = linux.AddVolume("D:")
	assertErrno(t, err, linux.err.OpNotPermitted)
}
