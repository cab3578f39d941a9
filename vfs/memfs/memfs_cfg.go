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
	"github.com/fakefs/fakefs/idm/memidm"
)

// New creates a new in memory fake file system for the host OS profile
// (unless overridden with WithOSType).
//
// The file system starts with a single root mount, the main system
// directories and a temp directory; the effective user is the identity
// manager's administrator.
func New(opts ...Option) *MemFS {
	vfs := &MemFS{
		mu:         &sync.RWMutex{},
		name:       "MemFS",
		osType:     fakefs.CurrentOSType(),
		umask:      fakefs.DefaultUMask,
		allowRoot:  true,
		systemDirs: true,
	}

	for _, opt := range opts {
		opt(vfs)
	}

	if vfs.idm == nil {
		vfs.idm = memidm.New(memidm.WithOSType(vfs.osType))
	}

	vfs.user = vfs.idm.AdminUser()

	vfs.SetFeatures(fakefs.FeatHardlink | fakefs.FeatSymlink | fakefs.FeatIdentityMgr | fakefs.FeatMainDirs)
	vfs.setOSType(vfs.osType)

	return vfs
}

// WithOSType returns an option function setting the emulated operating
// system profile.
func WithOSType(osType fakefs.OSType) Option {
	return func(vfs *MemFS) { vfs.osType = osType }
}

// WithIdm returns an option function setting the identity manager.
func WithIdm(idm fakefs.IdentityMgr) Option {
	return func(vfs *MemFS) { vfs.idm = idm }
}

// WithName returns an option function setting the name of the file system.
func WithName(name string) Option {
	return func(vfs *MemFS) { vfs.name = name }
}

// WithUMask returns an option function setting the file mode creation mask.
func WithUMask(umask fs.FileMode) Option {
	return func(vfs *MemFS) { vfs.umask = umask & fs.ModePerm }
}

// WithoutSystemDirs returns an option function disabling the creation of
// the main system directories.
func WithoutSystemDirs() Option {
	return func(vfs *MemFS) { vfs.systemDirs = false }
}

// WithShuffledReadDir returns an option function making directory
// listings return entries in random order, surfacing order-dependent
// tests.
func WithShuffledReadDir() Option {
	return func(vfs *MemFS) { vfs.shuffleDir = true }
}

// WithNoAtime returns an option function disabling access time updates
// on reads.
func WithNoAtime() Option {
	return func(vfs *MemFS) { vfs.noAtime = true }
}

// WithAllowRootUser returns an option function controlling whether uid 0
// bypasses permission checks, as on a real POSIX system.
func WithAllowRootUser(allowRoot bool) Option {
	return func(vfs *MemFS) { vfs.allowRoot = allowRoot }
}

// WithUnixModeOnWindows returns an option function enabling full POSIX
// chmod semantics on the Windows profile instead of the NTFS read-only
// clamp.
func WithUnixModeOnWindows() Option {
	return func(vfs *MemFS) { vfs.unixMode = true }
}

// setOSType switches the engine to the OS profile ost and resets the
// file system.
func (vfs *MemFS) setOSType(ost fakefs.OSType) {
	vfs.mu.Lock()
	vfs.osType = ost
	vfs.ut = fakefs.NewUtils(ost)
	vfs.err.SetOSType(ost)
	vfs.reset()
	vfs.mu.Unlock()

	if vfs.systemDirs {
		vfs.createSystemDirs()
	}
}

// SetOSType switches the emulated operating system profile.
// The file system is reset: every inode, mount and open descriptor of
// the previous profile is discarded.
func (vfs *MemFS) SetOSType(ost fakefs.OSType) {
	vfs.setOSType(ost)
}

// SetCaseSensitive overrides the case sensitivity of the active profile.
// Entries created before the switch keep their case; when a fold
// collision appears, the first inserted entry wins.
func (vfs *MemFS) SetCaseSensitive(caseSensitive bool) {
	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	vfs.ut.SetCaseSensitive(caseSensitive)
}

// SetPathSeparators overrides the path separator and the alternative
// path separator (0 for none) of the active profile.
func (vfs *MemFS) SetPathSeparators(sep, alt uint8) {
	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	vfs.ut.SetPathSeparators(sep, alt)
}

// Reset rebuilds the file system in place: a fresh mount table, a fresh
// inode store, a re-seeded inode counter and the pre-created system
// directories. Open descriptors of the previous generation are dropped.
func (vfs *MemFS) Reset() {
	vfs.mu.Lock()
	vfs.reset()
	vfs.mu.Unlock()

	if vfs.systemDirs {
		vfs.createSystemDirs()
	}
}

func (vfs *MemFS) reset() {
	vfs.mounts = nil
	vfs.volumes = make(volumes)
	vfs.fds = make(map[int]*MemFile)
	vfs.inodes = make(map[uint64]node)
	vfs.lastIno = 0
	vfs.lastDev = 0

	rootPath := "/"
	if vfs.osType == fakefs.OsWindows {
		rootPath = fakefs.DefaultVolume + string(vfs.ut.PathSeparator())
	}

	vfs.rootMnt = vfs.newMount(rootPath, DefaultMountSize)

	if vfs.osType == fakefs.OsWindows {
		vfs.volumes[vfs.ut.Fold(fakefs.DefaultVolume)] = vfs.rootMnt
	}

	vfs.curDir = rootPath

	vfs.nullDev = &deviceNode{
		baseNode: vfs.newBaseNode(vfs.rootMnt, fs.ModeDevice|fs.ModeCharDevice|0o666),
	}
}

// createSystemDirs creates the main directories of the profile and the
// default temp directory.
func (vfs *MemFS) createSystemDirs() {
	ut := vfs.ut

	switch vfs.osType {
	case fakefs.OsWindows:
		for _, dir := range []string{
			ut.HomeDir(),
			ut.Join(fakefs.DefaultVolume, `\Windows`),
			ut.TempDir(ut.AdminUserName()),
			ut.TempDir(ut.DefaultUserName()),
		} {
			_ = vfs.MkdirAll(dir, fakefs.DefaultDirPerm)
		}
	default:
		for _, dir := range []struct {
			path string
			perm fs.FileMode
		}{
			{path: ut.HomeDir(), perm: ut.HomeDirPerm()},
			{path: "/root", perm: 0o700},
			{path: "/tmp", perm: 0o777},
			{path: "/dev", perm: 0o755},
		} {
			_ = vfs.MkdirAll(dir.path, dir.perm)
			_ = vfs.Chmod(dir.path, dir.perm)
		}

		// The temp directory convention of the host ($TMPDIR and friends)
		// is honored so that code using TempDir works unchanged.
		if tmp := ut.TempDir(vfs.user.Name()); tmp != "/tmp" {
			_ = vfs.MkdirAll(tmp, 0o777)
		}

		vfs.createDeviceNull()
	}
}

// createDeviceNull anchors the null device at /dev/null.
func (vfs *MemFS) createDeviceNull() {
	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	_, child, _, err := vfs.searchNode("/dev", slmEval)
	if err != vfs.err.FileExists {
		return
	}

	dn, ok := child.(*dirNode)
	if !ok {
		return
	}

	dn.addChild(vfs.ut, "null", vfs.nullDev)
}

// Pause tells the consumers of the engine (see fakefs.Switcher) to route
// file system calls back to the real OS. The engine keeps its state while
// paused; Resume reverses the switch.
func (vfs *MemFS) Pause() {
	vfs.mu.Lock()
	vfs.paused = true
	vfs.mu.Unlock()
}

// Resume re-enables a paused engine.
func (vfs *MemFS) Resume() {
	vfs.mu.Lock()
	vfs.paused = false
	vfs.mu.Unlock()
}

// Paused returns true while the engine is paused.
func (vfs *MemFS) Paused() bool {
	vfs.mu.RLock()
	defer vfs.mu.RUnlock()

	return vfs.paused
}

// Clone returns a shallow copy of the file system sharing the inode
// graph, with an independent descriptor table. It is intended for
// intra-process copying and is not a persistence format.
func (vfs *MemFS) Clone() *MemFS {
	vfs.mu.RLock()
	defer vfs.mu.RUnlock()

	clone := *vfs
	clone.fds = make(map[int]*MemFile, len(vfs.fds))

	for fd, f := range vfs.fds {
		clone.fds[fd] = f
	}

	return &clone
}

// Name returns the name of the file system.
func (vfs *MemFS) Name() string {
	return vfs.name
}

// Type returns the type of the file system.
func (*MemFS) Type() string {
	return "MemFS"
}

// OSType returns the emulated operating system profile.
func (vfs *MemFS) OSType() fakefs.OSType {
	return vfs.osType
}

// PathSeparator returns the profile path separator.
func (vfs *MemFS) PathSeparator() uint8 {
	return vfs.ut.PathSeparator()
}

// SetUMask sets the file mode creation mask.
func (vfs *MemFS) SetUMask(mask fs.FileMode) {
	vfs.mu.Lock()
	vfs.umask = mask & fs.ModePerm
	vfs.mu.Unlock()
}

// UMask returns the file mode creation mask.
func (vfs *MemFS) UMask() fs.FileMode {
	vfs.mu.RLock()
	defer vfs.mu.RUnlock()

	return vfs.umask
}

// Utils returns the path functions of the active profile.
func (vfs *MemFS) Utils() *fakefs.Utils {
	return vfs.ut
}
