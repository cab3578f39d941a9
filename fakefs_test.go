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

package fakefs_test

import (
	"io/fs"
	"testing"

	"github.com/fakefs/fakefs"
	"github.com/fakefs/fakefs/vfs/memfs"
	"github.com/fakefs/fakefs/vfs/osfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwitcher(t *testing.T) {
	fake := memfs.New(memfs.WithOSType(fakefs.OsLinux))
	real := osfs.New()

	s := &fakefs.Switcher{Fake: fake, Real: real}

	// The fake engine answers by default.
	assert.Equal(t, fakefs.FS(fake), s.FS())

	// While paused, calls are routed to the real file system; the fake
	// keeps its state.
	require.NoError(t, fake.CreateFile("/kept", []byte("x"), 0o644))

	fake.Pause()
	assert.Equal(t, fakefs.FS(real), s.FS())

	fake.Resume()
	assert.Equal(t, fakefs.FS(fake), s.FS())

	data, err := fake.ReadFile("/kept")
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestCopyFileBetweenFS(t *testing.T) {
	src := memfs.New(memfs.WithOSType(fakefs.OsLinux))
	dst := memfs.New(memfs.WithOSType(fakefs.OsLinux))

	require.NoError(t, src.CreateFile("/src.txt", []byte("payload"), 0o640))

	require.NoError(t, fakefs.CopyFile(dst, src, "/dst.txt", "/src.txt"))

	data, err := dst.ReadFile("/dst.txt")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	info, err := dst.Stat("/dst.txt")
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o640), info.Mode().Perm())
	assert.Equal(t, "dst.txt", info.Name())
}

func TestCopyTreeBetweenFS(t *testing.T) {
	src := memfs.New(memfs.WithOSType(fakefs.OsLinux))
	dst := memfs.New(memfs.WithOSType(fakefs.OsLinux))

	require.NoError(t, src.MkdirAll("/tree/sub", 0o755))
	require.NoError(t, src.CreateFile("/tree/a.txt", []byte("a"), 0o644))
	require.NoError(t, src.CreateFile("/tree/sub/b.txt", []byte("bb"), 0o644))
	require.NoError(t, src.Symlink("a.txt", "/tree/lnk"))

	require.NoError(t, fakefs.CopyTree(dst, src, "/copy", "/tree"))

	data, err := dst.ReadFile("/copy/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))

	data, err = dst.ReadFile("/copy/sub/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "bb", string(data))

	target, err := dst.Readlink("/copy/lnk")
	require.NoError(t, err)
	assert.Equal(t, "a.txt", target)
}
