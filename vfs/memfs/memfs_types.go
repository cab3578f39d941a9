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
	"sync"

	"github.com/fakefs/fakefs"
)

const (
	// DefaultMountSize is the size in bytes of a mount point created
	// without an explicit total size (1 TiB, the default size of an
	// auto-created Windows volume).
	DefaultMountSize = uint64(1) << 40
)

// MemFS implements an in memory fake file system using the fakefs.FS
// interface. A single engine-wide lock serializes every operation, which
// is sufficient for test-scale throughput.
type MemFS struct {
	user     fakefs.UserReader // user is the effective user of the file system.
	idm      fakefs.IdentityMgr
	ut       *fakefs.Utils     // ut are the path functions for the active OS profile.
	rootMnt  *mount            // rootMnt is the mount of the root directory.
	mounts   []*mount          // mounts are all mount points, sorted by decreasing path length.
	volumes  volumes           // volumes are the Windows volumes by folded volume name.
	fds      map[int]*MemFile  // fds is the file descriptor table.
	inodes   map[uint64]node   // inodes is the reverse cache by inode number.
	nullDev  *deviceNode       // nullDev is the sink device for /dev/null and reserved Windows names.
	err      fakefs.Errors     // err regroups errors returned by MemFS functions.
	name     string            // name is the name of the file system.
	curDir   string            // curDir is the current directory.
	umask    fs.FileMode       // umask is the user file creation mode mask.
	lastIno  uint64            // lastIno is the last inode number allocated.
	lastDev  uint64            // lastDev is the last device id allocated.
	osType   fakefs.OSType     // osType is the emulated operating system profile.

	paused     bool // paused is true while the engine is paused.
	shuffleDir bool // shuffleDir shuffles directory listings when set.
	noAtime    bool // noAtime disables access time updates on reads.
	allowRoot  bool // allowRoot lets uid 0 bypass permission checks.
	unixMode   bool // unixMode enables full POSIX chmod semantics on the Windows profile.
	systemDirs bool // systemDirs creates the main directories at reset.

	mu *sync.RWMutex // mu is the engine-wide lock, shared with clones.
	fakefs.FeaturesFn
}

// Option defines the option function used for initializing MemFS.
type Option func(*MemFS)

// volumes are the mounts of the Windows volumes by folded volume name.
type volumes map[string]*mount

// mount is a mount point: an independent device id scope with its own
// disk size budget.
type mount struct {
	root  *dirNode // root is the root directory of the mount.
	path  string   // path is the absolute mount path.
	dev   uint64   // dev is the device id of the mount.
	total uint64   // total is the size in bytes of the mount.
	used  uint64   // used is the number of bytes used by files of the mount.
}

// node is the interface implemented by dirNode, fileNode, symlinkNode and
// deviceNode.
type node interface {
	// base returns the common part of the node.
	base() *baseNode

	// delete removes the node data when its last directory entry is removed.
	delete(vfs *MemFS)

	// fillStatFrom returns a *MemInfo (implementation of fs.FileInfo and
	// fs.DirEntry) from a node named name.
	fillStatFrom(vfs *MemFS, name string) *MemInfo

	// size returns the size of the node.
	size() int64
}

// baseNode is the common structure of directories, files, symbolic links
// and devices.
type baseNode struct {
	xattrs map[string][]byte // xattrs are the extended attributes (Linux profile only).
	mnt    *mount            // mnt is the mount the node is anchored in.
	ino    uint64            // ino is the inode number.
	atime  int64             // atime is the access time in nanoseconds.
	mtime  int64             // mtime is the modification time in nanoseconds.
	ctime  int64             // ctime is the status change time in nanoseconds.
	btime  int64             // btime is the creation (birth) time in nanoseconds.
	uid    int               // uid is the user id.
	gid    int               // gid is the group id.
	mode   fs.FileMode       // mode represents the node type and its permission bits.
}

// dirNode is the structure for a directory.
type dirNode struct {
	baseNode
	children []dirChild // children are the entries of the directory in insertion order.
}

// dirChild is a directory entry: a name bound to a node.
// The name keeps the case used at creation; lookups fold case on
// non-case-sensitive profiles and the first inserted entry wins.
type dirChild struct {
	name string
	nd   node
}

// fileNode is the structure for a regular file.
type fileNode struct {
	baseNode
	data     []byte // data is the file content.
	realPath string // realPath is the real file backing a lazy file, empty otherwise.
	dataSize int64  // dataSize is the declared size while data is not materialized.
	loaded   bool   // loaded is true once a lazy file content has been read from disk.
	readOnly bool   // readOnly marks a lazy file whose real content must never change.
	nlink    int    // nlink is the number of hard links to the node.
	openCnt  int    // openCnt is the number of open file descriptions on the node.
}

// symlinkNode is the structure for a symbolic link.
type symlinkNode struct {
	baseNode
	link string // link is the symbolic link target, stored verbatim.
}

// deviceNode is the structure for a null-like device: reads return no
// bytes and writes are discarded.
type deviceNode struct {
	baseNode
}

// slMode defines the behavior of the searchNode function relatively to
// symbolic links.
type slMode int

const (
	slmLstat slMode = iota + 1 // slmLstat does not follow a trailing symbolic link, like Lstat.
	slmStat                    // slmStat follows a trailing symbolic link, like Stat.
	slmEval                    // slmEval follows and records every symbolic link, like EvalSymlinks.
)

// MemFile represents an open file descriptor. Descriptors created with
// Dup share the same open file description (openFile), including the
// file offset.
type MemFile struct {
	of     *openFile // of is the shared open file description.
	fd     int       // fd is the file descriptor number.
	closed bool      // closed is true once this descriptor is closed.
}

// openFile is an open file description, shared by duplicated descriptors.
type openFile struct {
	vfs        *MemFS        // vfs is the file system of the file.
	nd         node          // nd is the node of the file.
	name       string        // name is the name of the file as presented to Open.
	dirEntries []fs.DirEntry // dirEntries stores the entries returned by ReadDir.
	dirNames   []string      // dirNames stores the names returned by Readdirnames.
	at         int64         // at is the current position in the file.
	dirIndex   int           // dirIndex is the position in dirEntries or dirNames.
	refCnt     int           // refCnt is the number of descriptors sharing this description.
	openMode   fakefs.OpenMode
	mu         sync.Mutex // mu serializes access to the open file description.
}

// MemInfo is the implementation of fs.DirEntry (returned by ReadDir) and
// fs.FileInfo (returned by Stat and Lstat).
type MemInfo struct {
	name    string      // name is the name of the file.
	ino     uint64      // ino is the inode number.
	dev     uint64      // dev is the device id of the mount.
	size    int64       // size is the size of the file.
	atime   int64       // atime is the access time in nanoseconds.
	mtime   int64       // mtime is the modification time in nanoseconds.
	ctime   int64       // ctime is the status change time in nanoseconds.
	btime   int64       // btime is the creation (birth) time in nanoseconds.
	uid     int         // uid is the user id.
	gid     int         // gid is the group id.
	nlink   int         // nlink is the number of hard links.
	mode    fs.FileMode // mode represents the node type and its permission bits.
	winAttr uint32      // winAttr are the synthesized Windows file attributes.
	reparse uint32      // reparse is the synthesized Windows reparse tag.
}

// Windows file attributes synthesized on the Windows profile.
// Only these three bits are produced.
const (
	FileAttributeReadOnly     = uint32(0x0001) // FILE_ATTRIBUTE_READONLY
	FileAttributeDirectory    = uint32(0x0010) // FILE_ATTRIBUTE_DIRECTORY
	FileAttributeReparsePoint = uint32(0x0400) // FILE_ATTRIBUTE_REPARSE_POINT

	// IOReparseTagSymlink is the reparse tag of a symbolic link.
	IOReparseTagSymlink = uint32(0xA000000C)
)
