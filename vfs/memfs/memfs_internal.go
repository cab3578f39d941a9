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
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fakefs/fakefs"
)

func nowNano() int64 {
	return time.Now().UnixNano()
}

// toAbsPath turns path into a cleaned absolute path using the current
// directory.
func (vfs *MemFS) toAbsPath(path string) string {
	if vfs.ut.IsAbs(path) {
		return vfs.ut.Clean(path)
	}

	return vfs.ut.Join(vfs.curDir, path)
}

// searchNode searches a node from the root of the file system, where
// path is the absolute or relative path of the node and slm the behavior
// of searchNode relatively to symbolic links.
// It returns :
//
//	parent, the parent directory of the node if found, the last directory found otherwise
//	child, the node corresponding to the path or nil if not found
//	pi, the path iterator positioned on the last processed part
//	err, one of the following errors :
//	 err.FileExists when the node is found
//	 err.NoSuchFile or err.NoSuchDir when a part of the path is missing
//	 err.PermDenied when the user misses the lookup permission on an intermediate directory
//	 err.NotADirectory when a file is found while the path segmentation is not finished
//	 err.TooManySymlinks when more than SymlinkMax symbolic links have been followed
//	 err.FileNameTooLong when a part exceeds NameMax bytes or the path exceeds PathMax bytes
func (vfs *MemFS) searchNode(path string, slm slMode) (parent *dirNode, child node, pi *fakefs.PathIterator, err error) {
	absPath := vfs.toAbsPath(path)
	if len(path) > fakefs.PathMax || len(absPath) > fakefs.PathMax {
		return nil, nil, fakefs.NewPathIterator(vfs.ut, absPath), vfs.err.FileNameTooLong
	}

	// Windows reserved device names are always valid paths mapping to a
	// sink device.
	if vfs.ut.IsReservedName(vfs.ut.Base(absPath)) {
		return nil, vfs.nullDev, fakefs.NewPathIterator(vfs.ut, absPath), vfs.err.FileExists
	}

	pi = fakefs.NewPathIterator(vfs.ut, absPath)

	rootNode := vfs.rootMnt.root
	if vol := pi.VolumeName(); vol != "" {
		rootNode = vfs.volumeMount(vol).root
	}

	parent = rootNode
	slCount := 0

	for pi.Next() {
		name := pi.Part()
		if len(name) > fakefs.NameMax {
			return parent, nil, pi, vfs.err.FileNameTooLong
		}

		if !vfs.checkPermission(&parent.baseNode, fakefs.OpenLookup) {
			return parent, nil, pi, vfs.err.PermDenied
		}

		child = parent.child(vfs.ut, name)
		if child == nil {
			if pi.IsLast() {
				return parent, nil, pi, vfs.err.NoSuchFile
			}

			return parent, nil, pi, vfs.err.NoSuchDir
		}

		switch c := child.(type) {
		case *dirNode:
			if pi.IsLast() {
				return parent, c, pi, vfs.err.FileExists
			}

			parent = c

		case *symlinkNode:
			slCount++
			if slCount > fakefs.SymlinkMax {
				return parent, nil, pi, vfs.err.TooManySymlinks
			}

			if pi.IsLast() && slm == slmLstat {
				return parent, c, pi, vfs.err.FileExists
			}

			if pi.ReplacePart(c.link) {
				// The absolute link target restarts the walk from the root
				// of its volume.
				rootNode = vfs.rootMnt.root
				if vol := pi.VolumeName(); vol != "" {
					rootNode = vfs.volumeMount(vol).root
				}

				parent = rootNode
			}

		default:
			if pi.IsLast() {
				return parent, child, pi, vfs.err.FileExists
			}

			return parent, child, pi, vfs.err.NotADirectory
		}
	}

	return parent, parent, pi, vfs.err.FileExists
}

// isNotExist returns true when err is one of the not-found errors
// returned by searchNode.
func (vfs *MemFS) isNotExist(err error) bool {
	return err == vfs.err.NoSuchFile || err == vfs.err.NoSuchDir
}

// newBaseNode returns the common part of a new node anchored in the
// mount mnt: a fresh inode number, the effective identity and creation
// timestamps (birth = access = modification = change).
func (vfs *MemFS) newBaseNode(mnt *mount, mode fs.FileMode) baseNode {
	now := nowNano()
	vfs.lastIno++

	return baseNode{
		mnt:   mnt,
		ino:   vfs.lastIno,
		atime: now,
		mtime: now,
		ctime: now,
		btime: now,
		uid:   vfs.user.Uid(),
		gid:   vfs.user.Gid(),
		mode:  mode,
	}
}

// createDir creates a new directory as a child name of parent.
func (vfs *MemFS) createDir(parent *dirNode, name string, perm fs.FileMode) *dirNode {
	mode := fs.ModeDir | (perm&fakefs.FileModeMask)&^vfs.umask

	child := &dirNode{baseNode: vfs.newBaseNode(parent.mnt, mode)}
	parent.addChild(vfs.ut, name, child)
	parent.touchMTime()
	vfs.inodes[child.ino] = child

	return child
}

// createFile creates a new empty file as a child name of parent.
func (vfs *MemFS) createFile(parent *dirNode, name string, perm fs.FileMode) *fileNode {
	mode := (perm & fakefs.FileModeMask) &^ vfs.umask

	child := &fileNode{baseNode: vfs.newBaseNode(parent.mnt, mode), nlink: 1}
	parent.addChild(vfs.ut, name, child)
	parent.touchMTime()
	vfs.inodes[child.ino] = child

	return child
}

// createSymlink creates a new symbolic link to link as a child name of
// parent. Symbolic links are always created with mode 0o777.
func (vfs *MemFS) createSymlink(parent *dirNode, name, link string) *symlinkNode {
	child := &symlinkNode{
		baseNode: vfs.newBaseNode(parent.mnt, fs.ModeSymlink|fs.ModePerm),
		link:     link,
	}

	parent.addChild(vfs.ut, name, child)
	parent.touchMTime()
	vfs.inodes[child.ino] = child

	return child
}

// checkPermission returns true if the effective user has the desired
// permissions (perm) on the node bn. Uid 0 bypasses read and write checks
// when the allowRoot setting is on, but execute on a regular file still
// requires at least one execute bit, as on a real POSIX system.
func (vfs *MemFS) checkPermission(bn *baseNode, perm fakefs.OpenMode) bool {
	u := vfs.user
	want := perm & (fakefs.OpenRead | fakefs.OpenWrite | fakefs.OpenLookup)

	if u.IsAdmin() && vfs.allowRoot {
		if want&fakefs.OpenLookup != 0 && !bn.mode.IsDir() && bn.mode&0o111 == 0 {
			return false
		}

		return true
	}

	mode := bn.mode

	switch {
	case bn.uid == u.Uid():
		mode >>= 6
	case vfs.userInGroup(u, bn.gid):
		mode >>= 3
	}

	return fakefs.OpenMode(mode)&want == want
}

// userInGroup returns true if u belongs to the group gid, honoring
// supplementary groups when the user carries them.
func (vfs *MemFS) userInGroup(u fakefs.UserReader, gid int) bool {
	if gm, ok := u.(fakefs.GroupMember); ok {
		return gm.IsInGroup(gid)
	}

	return u.Gid() == gid
}

// checkSticky returns true when the effective user may remove or rename
// the entry child of the directory parent, honoring the sticky bit owner
// rule of the Linux profile.
func (vfs *MemFS) checkSticky(parent *dirNode, child node) bool {
	if vfs.osType != fakefs.OsLinux || parent.mode&fs.ModeSticky == 0 {
		return true
	}

	u := vfs.user
	if u.IsAdmin() && vfs.allowRoot {
		return true
	}

	uid := u.Uid()

	return uid == child.base().uid || uid == parent.uid
}

// setMode sets the permission bits of the node bn for the active profile.
// On the Windows profile the mode is clamped to the NTFS read-only
// attribute: only the owner write bit toggles, unless the full POSIX
// semantics were requested at engine creation.
func (vfs *MemFS) setMode(bn *baseNode, mode fs.FileMode) bool {
	u := vfs.user
	if bn.uid != u.Uid() && !(u.IsAdmin() && vfs.allowRoot) {
		return false
	}

	if vfs.osType == fakefs.OsWindows && !vfs.unixMode {
		readable := fs.FileMode(0o444)
		if bn.mode.IsDir() {
			readable = 0o555
		}

		if mode&0o200 != 0 {
			readable |= 0o222
			if bn.mode.IsDir() {
				readable |= 0o111
			}
		}

		bn.mode = bn.mode&^fakefs.FileModeMask | readable
		bn.ctime = nowNano()

		return true
	}

	bn.mode = bn.mode&^fakefs.FileModeMask | mode&fakefs.FileModeMask
	bn.ctime = nowNano()

	return true
}

// baseNode

func (bn *baseNode) base() *baseNode {
	return bn
}

func (bn *baseNode) setOwner(uid, gid int) {
	if uid != -1 {
		bn.uid = uid
	}

	if gid != -1 {
		bn.gid = gid
	}

	bn.ctime = nowNano()
}

// touchATime updates the access time.
func (bn *baseNode) touchATime() {
	bn.atime = nowNano()
}

// touchMTime updates the modification and change times.
func (bn *baseNode) touchMTime() {
	now := nowNano()
	bn.mtime = now
	bn.ctime = now
}

// dirNode

// child returns the child node named name, nil if not found.
// On non-case-sensitive profiles names are compared folded and the first
// inserted entry wins.
func (dn *dirNode) child(ut *fakefs.Utils, name string) node {
	for _, c := range dn.children {
		if ut.FoldEqual(c.name, name) {
			return c.nd
		}
	}

	return nil
}

// addChild adds the child nd named name, replacing an existing entry
// matching name under the profile's case policy.
func (dn *dirNode) addChild(ut *fakefs.Utils, name string, nd node) {
	for i, c := range dn.children {
		if ut.FoldEqual(c.name, name) {
			dn.children[i].nd = nd

			return
		}
	}

	dn.children = append(dn.children, dirChild{name: name, nd: nd})
}

// setChildName renames the entry matching name in place, preserving the
// insertion order (used by case-only renames).
func (dn *dirNode) setChildName(ut *fakefs.Utils, name, newName string) {
	for i, c := range dn.children {
		if ut.FoldEqual(c.name, name) {
			dn.children[i].name = newName

			return
		}
	}
}

// removeChild removes the entry matching name.
func (dn *dirNode) removeChild(ut *fakefs.Utils, name string) {
	for i, c := range dn.children {
		if ut.FoldEqual(c.name, name) {
			dn.children = append(dn.children[:i], dn.children[i+1:]...)

			return
		}
	}
}

// names returns the names of the directory entries in insertion order.
func (dn *dirNode) names() []string {
	if len(dn.children) == 0 {
		return nil
	}

	names := make([]string, len(dn.children))
	for i, c := range dn.children {
		names[i] = c.name
	}

	return names
}

func (dn *dirNode) delete(vfs *MemFS) {
	delete(vfs.inodes, dn.ino)
	dn.children = nil
}

func (dn *dirNode) size() int64 {
	return int64(len(dn.children))
}

func (dn *dirNode) fillStatFrom(vfs *MemFS, name string) *MemInfo {
	return vfs.newInfo(&dn.baseNode, name, dn.size(), 0)
}

// fileNode

// storedSize returns the size in bytes accounted on the mount: the
// content length once materialized, the declared size before.
func (fn *fileNode) storedSize() int64 {
	if fn.data != nil || fn.loaded {
		return int64(len(fn.data))
	}

	return fn.dataSize
}

// materialize makes the file content available: a lazy file is read from
// its real backing file, a phantom-size file is filled with NUL bytes.
// It returns an error of kind IOError when the real file is unreachable.
func (fn *fileNode) materialize(vfs *MemFS) error {
	if fn.data != nil || fn.loaded {
		return nil
	}

	if fn.realPath != "" {
		data, err := os.ReadFile(fn.realPath)
		if err != nil {
			return vfs.err.IOError
		}

		if delta := int64(len(data)) - fn.dataSize; delta != 0 {
			// The real file changed size since it was added.
			if err := fn.mnt.claim(vfs, delta); err != nil {
				return err
			}
		}

		fn.data = data
		fn.loaded = true

		return nil
	}

	if fn.dataSize > 0 {
		fn.data = make([]byte, fn.dataSize)
	}

	fn.loaded = true

	return nil
}

// truncate resizes the file content, adjusting the disk accounting of
// its mount. Extensions are filled with NUL bytes.
func (fn *fileNode) truncate(vfs *MemFS, size int64) error {
	if err := fn.materialize(vfs); err != nil {
		return err
	}

	delta := size - int64(len(fn.data))
	if delta == 0 {
		return nil
	}

	if err := fn.mnt.claim(vfs, delta); err != nil {
		return err
	}

	if delta < 0 {
		fn.data = fn.data[:size]
	} else {
		fn.data = append(fn.data, make([]byte, delta)...)
	}

	fn.touchMTime()

	return nil
}

// delete removes one hard link to the file. The content bytes are
// released to the mount only when no link and no open descriptor remain.
func (fn *fileNode) delete(vfs *MemFS) {
	fn.nlink--
	if fn.nlink > 0 {
		return
	}

	fn.ctime = nowNano()

	if fn.openCnt == 0 {
		fn.release(vfs)
	}
}

// release frees the content bytes of an unreferenced file.
func (fn *fileNode) release(vfs *MemFS) {
	fn.mnt.release(uint64(fn.storedSize()))
	fn.data = nil
	fn.dataSize = 0
	delete(vfs.inodes, fn.ino)
}

func (fn *fileNode) size() int64 {
	return fn.storedSize()
}

func (fn *fileNode) fillStatFrom(vfs *MemFS, name string) *MemInfo {
	return vfs.newInfo(&fn.baseNode, name, fn.storedSize(), fn.nlink)
}

// symlinkNode

func (sn *symlinkNode) delete(vfs *MemFS) {
	delete(vfs.inodes, sn.ino)
}

func (sn *symlinkNode) size() int64 {
	return int64(len(sn.link))
}

func (sn *symlinkNode) fillStatFrom(vfs *MemFS, name string) *MemInfo {
	return vfs.newInfo(&sn.baseNode, name, sn.size(), 0)
}

// deviceNode

func (dn *deviceNode) delete(vfs *MemFS) {}

func (dn *deviceNode) size() int64 {
	return 0
}

func (dn *deviceNode) fillStatFrom(vfs *MemFS, name string) *MemInfo {
	return vfs.newInfo(&dn.baseNode, name, 0, 1)
}

// newInfo builds a MemInfo from a node, synthesizing the Windows file
// attributes on the Windows profile.
func (vfs *MemFS) newInfo(bn *baseNode, name string, size int64, nlink int) *MemInfo {
	info := &MemInfo{
		name:  name,
		ino:   bn.ino,
		dev:   bn.mnt.dev,
		size:  size,
		atime: bn.atime,
		mtime: bn.mtime,
		ctime: bn.ctime,
		btime: bn.btime,
		uid:   bn.uid,
		gid:   bn.gid,
		nlink: nlink,
		mode:  bn.mode,
	}

	if vfs.osType == fakefs.OsWindows {
		switch {
		case bn.mode.IsDir():
			info.winAttr |= FileAttributeDirectory
		case bn.mode&fs.ModeSymlink != 0:
			info.winAttr |= FileAttributeReparsePoint
			info.reparse = IOReparseTagSymlink
		}

		if bn.mode&0o200 == 0 {
			info.winAttr |= FileAttributeReadOnly
		}
	}

	return info
}

// mounts

// newMount creates a new mount anchored at path with a fresh device id
// and registers it in the mount table, sorted by decreasing path length.
func (vfs *MemFS) newMount(path string, total uint64) *mount {
	vfs.lastDev++

	mnt := &mount{path: path, dev: vfs.lastDev, total: total}

	root := &dirNode{baseNode: vfs.newBaseNode(mnt, fs.ModeDir|0o755)}
	mnt.root = root
	vfs.inodes[root.ino] = root

	vfs.mounts = append(vfs.mounts, mnt)
	sort.SliceStable(vfs.mounts, func(i, j int) bool { return len(vfs.mounts[i].path) > len(vfs.mounts[j].path) })

	return mnt
}

// mountFor returns the mount containing the absolute path absPath: the
// mount with the longest path prefix of absPath.
func (vfs *MemFS) mountFor(absPath string) *mount {
	for _, mnt := range vfs.mounts {
		if vfs.ut.IsPrefixPath(mnt.path, absPath) {
			return mnt
		}
	}

	return vfs.rootMnt
}

// volumeMount returns the mount of the Windows volume vol, creating it
// with a default total size when the volume is referenced for the first
// time. Volume names match case-insensitively whatever the case policy
// of the profile.
func (vfs *MemFS) volumeMount(vol string) *mount {
	for key, mnt := range vfs.volumes {
		if strings.EqualFold(key, vol) {
			return mnt
		}
	}

	mnt := vfs.newMount(vol+string(vfs.ut.PathSeparator()), DefaultMountSize)
	vfs.volumes[vfs.ut.Fold(vol)] = mnt

	return mnt
}

// claim reserves delta bytes on the mount. A negative delta releases
// bytes. The whole claim fails with NoSpaceLeft when the budget would be
// exceeded; no partial accounting is performed.
func (mnt *mount) claim(vfs *MemFS, delta int64) error {
	if delta <= 0 {
		mnt.release(uint64(-delta))

		return nil
	}

	if mnt.used+uint64(delta) > mnt.total {
		return vfs.err.NoSpaceLeft
	}

	mnt.used += uint64(delta)

	return nil
}

func (mnt *mount) release(n uint64) {
	if n > mnt.used {
		n = mnt.used
	}

	mnt.used -= n
}

// file descriptor table

// allocFd registers the file f under the smallest unused descriptor
// number. Descriptors 0, 1 and 2 are reserved for the standard streams.
func (vfs *MemFS) allocFd(f *MemFile) int {
	fd := 3
	for {
		if _, ok := vfs.fds[fd]; !ok {
			vfs.fds[fd] = f

			return fd
		}

		fd++
	}
}

// freeFd releases the descriptor number fd.
func (vfs *MemFS) freeFd(fd int) {
	delete(vfs.fds, fd)
}
