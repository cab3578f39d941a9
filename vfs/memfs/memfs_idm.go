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
	"strconv"

	"github.com/fakefs/fakefs"
)

// User returns the effective user of the file system.
func (vfs *MemFS) User() fakefs.UserReader {
	vfs.mu.RLock()
	defer vfs.mu.RUnlock()

	return vfs.user
}

// SetUser sets the effective user of the file system.
func (vfs *MemFS) SetUser(u fakefs.UserReader) {
	vfs.mu.Lock()
	vfs.user = u
	vfs.mu.Unlock()
}

// SetUserByName sets the effective user by name using the identity
// manager of the file system.
// If the user is not found, the returned error is of type
// fakefs.UnknownUserError.
func (vfs *MemFS) SetUserByName(name string) error {
	u, err := vfs.idm.LookupUser(name)
	if err != nil {
		return err
	}

	vfs.SetUser(u)

	return nil
}

// idsUser is an ad hoc identity used by SetIds, detached from the
// identity manager accounts.
type idsUser struct {
	uid int
	gid int
}

func (u *idsUser) Name() string {
	return "uid:" + strconv.Itoa(u.uid)
}

func (u *idsUser) Uid() int {
	return u.uid
}

func (u *idsUser) Gid() int {
	return u.gid
}

func (u *idsUser) IsAdmin() bool {
	return u.uid == 0
}

// SetIds sets the effective user and group ids without going through the
// identity manager, mirroring the seteuid/setegid pair of a test.
func (vfs *MemFS) SetIds(uid, gid int) {
	vfs.SetUser(&idsUser{uid: uid, gid: gid})
}

// ResetIds restores the effective identity to the administrator of the
// identity manager.
func (vfs *MemFS) ResetIds() {
	vfs.SetUser(vfs.idm.AdminUser())
}
