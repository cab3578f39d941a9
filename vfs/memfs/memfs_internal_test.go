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
	"strings"
	"testing"

	"github.com/fakefs/fakefs"
)

var (
	// Tests that the node types implement the node interface.
	_ node = &dirNode{}
	_ node = &fileNode{}
	_ node = &symlinkNode{}
	_ node = &deviceNode{}

	// Tests that MemInfo implements fs.FileInfo, fs.DirEntry and
	// fakefs.SysStater.
	_ fs.FileInfo      = &MemInfo{}
	_ fs.DirEntry      = &MemInfo{}
	_ fakefs.SysStater = &MemInfo{}

	// Tests that MemFS implements the fakefs interfaces.
	_ fakefs.FS     = &MemFS{}
	_ fakefs.Pauser = &MemFS{}

	// Tests that MemFile implements fakefs.File.
	_ fakefs.File = &MemFile{}
)

func newTestFS(t *testing.T, opts ...Option) *MemFS {
	t.Helper()

	opts = append([]Option{WithOSType(fakefs.OsLinux)}, opts...)

	return New(opts...)
}

func TestSearchNode(t *testing.T) {
	vfs := newTestFS(t, WithoutSystemDirs())
	rn := vfs.rootMnt.root

	// Directories
	da := vfs.createDir(rn, "a", fakefs.DefaultDirPerm)
	db := vfs.createDir(rn, "b", fakefs.DefaultDirPerm)
	dc := vfs.createDir(rn, "c", fakefs.DefaultDirPerm)
	da1 := vfs.createDir(da, "a1", fakefs.DefaultDirPerm)
	db1 := vfs.createDir(db, "b1", fakefs.DefaultDirPerm)

	// Files
	f1 := vfs.createFile(rn, "file1", fakefs.DefaultFilePerm)
	fa1 := vfs.createFile(da, "afile1", fakefs.DefaultFilePerm)

	// Symlinks
	vfs.createSymlink(rn, "lroot", "/")
	vfs.createSymlink(rn, "la", "/a")
	vfs.createSymlink(dc, "lafile1", "../a/afile1")
	vfs.createSymlink(rn, "loop1", "/loop2")
	vfs.createSymlink(rn, "loop2", "/loop1")

	cases := []struct {
		path   string
		parent *dirNode
		child  node
		err    error
	}{
		// Existing nodes.
		{path: "/", parent: rn, child: rn, err: vfs.err.FileExists},
		{path: "/a", parent: rn, child: da, err: vfs.err.FileExists},
		{path: "/a/a1", parent: da, child: da1, err: vfs.err.FileExists},
		{path: "/b/b1", parent: db, child: db1, err: vfs.err.FileExists},
		{path: "/file1", parent: rn, child: f1, err: vfs.err.FileExists},
		{path: "/a/afile1", parent: da, child: fa1, err: vfs.err.FileExists},

		// Missing nodes.
		{path: "/z", parent: rn, child: nil, err: vfs.err.NoSuchFile},
		{path: "/a/z", parent: da, child: nil, err: vfs.err.NoSuchFile},
		{path: "/z/z", parent: rn, child: nil, err: vfs.err.NoSuchDir},

		// File in the middle of the path.
		{path: "/file1/z", parent: rn, child: f1, err: vfs.err.NotADirectory},

		// Symlinks.
		{path: "/lroot", parent: rn, child: rn, err: vfs.err.FileExists},
		{path: "/lroot/a", parent: rn, child: da, err: vfs.err.FileExists},
		{path: "/la/afile1", parent: da, child: fa1, err: vfs.err.FileExists},
		{path: "/c/lafile1", parent: da, child: fa1, err: vfs.err.FileExists},

		// Symlink loops.
		{path: "/loop1", parent: rn, child: nil, err: vfs.err.TooManySymlinks},
	}

	for _, tc := range cases {
		parent, child, _, err := vfs.searchNode(tc.path, slmEval)
		if err != tc.err {
			t.Errorf("%s : want error %v, got %v", tc.path, tc.err, err)

			continue
		}

		if tc.err != vfs.err.FileExists {
			continue
		}

		if parent != tc.parent {
			t.Errorf("%s : wrong parent", tc.path)
		}

		if child != tc.child {
			t.Errorf("%s : wrong child", tc.path)
		}
	}
}

func TestSearchNodeLstat(t *testing.T) {
	vfs := newTestFS(t, WithoutSystemDirs())
	rn := vfs.rootMnt.root

	da := vfs.createDir(rn, "a", fakefs.DefaultDirPerm)
	sl := vfs.createSymlink(rn, "la", "/a")

	_, child, _, err := vfs.searchNode("/la", slmLstat)
	if err != vfs.err.FileExists || child != node(sl) {
		t.Error("slmLstat should return the symlink itself")
	}

	_, child, _, err = vfs.searchNode("/la", slmStat)
	if err != vfs.err.FileExists || child != node(da) {
		t.Error("slmStat should follow the trailing symlink")
	}
}

func TestSearchNodeNameTooLong(t *testing.T) {
	vfs := newTestFS(t, WithoutSystemDirs())

	longName := strings.Repeat("a", fakefs.NameMax+1)

	_, _, _, err := vfs.searchNode("/"+longName, slmEval)
	if err != vfs.err.FileNameTooLong {
		t.Errorf("want %v, got %v", vfs.err.FileNameTooLong, err)
	}

	longPath := "/" + strings.Repeat("a/", fakefs.PathMax/2)

	_, _, _, err = vfs.searchNode(longPath, slmEval)
	if err != vfs.err.FileNameTooLong {
		t.Errorf("want %v, got %v", vfs.err.FileNameTooLong, err)
	}
}

func TestSearchNodeCaseFold(t *testing.T) {
	vfs := New(WithOSType(fakefs.OsWindows), WithoutSystemDirs())
	rn := vfs.rootMnt.root

	da := vfs.createDir(rn, "Foo", fakefs.DefaultDirPerm)

	_, child, _, err := vfs.searchNode(`C:\FOO`, slmEval)
	if err != vfs.err.FileExists || child != node(da) {
		t.Error("case folded lookup should find the directory")
	}

	// First inserted entry wins on fold collisions.
	vfs.ut.SetCaseSensitive(true)
	db := vfs.createDir(rn, "FOO", fakefs.DefaultDirPerm)
	vfs.ut.SetCaseSensitive(false)

	_, child, _, _ = vfs.searchNode(`C:\foo`, slmEval)
	if child != node(da) {
		t.Error("first inserted entry should win on fold collisions")
	}

	vfs.ut.SetCaseSensitive(true)

	_, child, _, _ = vfs.searchNode(`C:\FOO`, slmEval)
	if child != node(db) {
		t.Error("case sensitive lookup should find the exact entry")
	}
}

func TestMountFor(t *testing.T) {
	vfs := newTestFS(t, WithoutSystemDirs())

	if err := vfs.MkdirAll("/mnt", fakefs.DefaultDirPerm); err != nil {
		t.Fatal(err)
	}

	if err := vfs.AddMountPoint("/mnt/data", 1<<20); err != nil {
		t.Fatal(err)
	}

	if mnt := vfs.mountFor("/mnt/data/file"); mnt.path != "/mnt/data" {
		t.Errorf("mountFor : want %q, got %q", "/mnt/data", mnt.path)
	}

	if mnt := vfs.mountFor("/mnt/datafile"); mnt != vfs.rootMnt {
		t.Error("mountFor : partial component should not match the mount")
	}

	if mnt := vfs.mountFor("/elsewhere"); mnt != vfs.rootMnt {
		t.Error("mountFor : want root mount")
	}
}

func TestAllocFd(t *testing.T) {
	vfs := newTestFS(t, WithoutSystemDirs())

	f1, err := vfs.Create("/f1")
	if err != nil {
		t.Fatal(err)
	}

	f2, err := vfs.Create("/f2")
	if err != nil {
		t.Fatal(err)
	}

	if f1.Fd() != 3 || f2.Fd() != 4 {
		t.Errorf("fds : want 3 and 4, got %d and %d", f1.Fd(), f2.Fd())
	}

	if err := f1.Close(); err != nil {
		t.Fatal(err)
	}

	// The smallest free descriptor is reused.
	f3, err := vfs.Create("/f3")
	if err != nil {
		t.Fatal(err)
	}

	if f3.Fd() != 3 {
		t.Errorf("fd : want 3, got %d", f3.Fd())
	}
}
