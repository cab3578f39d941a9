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

// Package memidm implements an in memory identity manager keeping users
// and groups of a fake file system independent of the host accounts.
package memidm

import "github.com/fakefs/fakefs"

// New creates a new in memory identity manager. The administrator user
// and group and a default user are always present.
func New(opts ...Option) *MemIdm {
	idm := &MemIdm{
		groupsByName: make(groupsByName),
		groupsById:   make(groupsById),
		usersByName:  make(usersByName),
		usersById:    make(usersById),
		maxGid:       minGid,
		maxUid:       minUid,
		osType:       fakefs.CurrentOSType(),
	}

	idm.SetFeatures(fakefs.FeatIdentityMgr)

	for _, opt := range opts {
		opt(idm)
	}

	ut := fakefs.NewUtils(idm.osType)

	adminGroupName := ut.AdminGroupName()
	adminUserName := ut.AdminUserName()

	idm.adminGroup = &MemGroup{name: adminGroupName, gid: 0}
	idm.adminUser = &MemUser{name: adminUserName, uid: 0, gid: 0}

	idm.groupsByName[adminGroupName] = idm.adminGroup
	idm.groupsById[0] = idm.adminGroup
	idm.usersByName[adminUserName] = idm.adminUser
	idm.usersById[0] = idm.adminUser

	_, _ = idm.GroupAdd(ut.DefaultGroupName())
	_, _ = idm.UserAdd(ut.DefaultUserName(), ut.DefaultGroupName())

	return idm
}

// Option defines the option function used for initializing MemIdm.
type Option func(*MemIdm)

// WithOSType returns an option function setting the operating system type.
func WithOSType(osType fakefs.OSType) Option {
	return func(idm *MemIdm) { idm.osType = osType }
}

// Type returns the type of the identity manager.
func (idm *MemIdm) Type() string {
	return "MemIdm"
}

// OSType returns the operating system type of the identity manager.
func (idm *MemIdm) OSType() fakefs.OSType {
	return idm.osType
}

// AdminGroup returns the administrator group.
func (idm *MemIdm) AdminGroup() fakefs.GroupReader {
	return idm.adminGroup
}

// AdminUser returns the administrator user.
func (idm *MemIdm) AdminUser() fakefs.UserReader {
	return idm.adminUser
}

// GroupAdd adds a new group.
// If the group already exists, the returned error is of type
// fakefs.AlreadyExistsGroupError.
func (idm *MemIdm) GroupAdd(name string) (fakefs.GroupReader, error) {
	idm.grpMu.Lock()
	defer idm.grpMu.Unlock()

	if _, ok := idm.groupsByName[name]; ok {
		return nil, fakefs.AlreadyExistsGroupError(name)
	}

	idm.maxGid++
	gid := idm.maxGid

	g := &MemGroup{name: name, gid: gid}
	idm.groupsByName[name] = g
	idm.groupsById[gid] = g

	return g, nil
}

// GroupDel deletes an existing group.
// If the group is not found, the returned error is of type
// fakefs.UnknownGroupError.
func (idm *MemIdm) GroupDel(name string) error {
	idm.grpMu.Lock()
	defer idm.grpMu.Unlock()

	g, ok := idm.groupsByName[name]
	if !ok {
		return fakefs.UnknownGroupError(name)
	}

	delete(idm.groupsByName, g.name)
	delete(idm.groupsById, g.gid)

	return nil
}

// LookupGroup looks up a group by name.
// If the group is not found, the returned error is of type
// fakefs.UnknownGroupError.
func (idm *MemIdm) LookupGroup(name string) (fakefs.GroupReader, error) {
	idm.grpMu.RLock()
	defer idm.grpMu.RUnlock()

	g, ok := idm.groupsByName[name]
	if !ok {
		return nil, fakefs.UnknownGroupError(name)
	}

	return g, nil
}

// LookupGroupId looks up a group by group id.
// If the group is not found, the returned error is of type
// fakefs.UnknownGroupIdError.
func (idm *MemIdm) LookupGroupId(gid int) (fakefs.GroupReader, error) {
	idm.grpMu.RLock()
	defer idm.grpMu.RUnlock()

	g, ok := idm.groupsById[gid]
	if !ok {
		return nil, fakefs.UnknownGroupIdError(gid)
	}

	return g, nil
}

// LookupUser looks up a user by name.
// If the user is not found, the returned error is of type
// fakefs.UnknownUserError.
func (idm *MemIdm) LookupUser(name string) (fakefs.UserReader, error) {
	idm.usrMu.RLock()
	defer idm.usrMu.RUnlock()

	u, ok := idm.usersByName[name]
	if !ok {
		return nil, fakefs.UnknownUserError(name)
	}

	return u, nil
}

// LookupUserId looks up a user by user id.
// If the user is not found, the returned error is of type
// fakefs.UnknownUserIdError.
func (idm *MemIdm) LookupUserId(uid int) (fakefs.UserReader, error) {
	idm.usrMu.RLock()
	defer idm.usrMu.RUnlock()

	u, ok := idm.usersById[uid]
	if !ok {
		return nil, fakefs.UnknownUserIdError(uid)
	}

	return u, nil
}

// UserAdd adds a new user with groupName as primary group.
// If the user already exists, the returned error is of type
// fakefs.AlreadyExistsUserError.
func (idm *MemIdm) UserAdd(name, groupName string) (fakefs.UserReader, error) {
	g, err := idm.LookupGroup(groupName)
	if err != nil {
		return nil, err
	}

	idm.usrMu.Lock()
	defer idm.usrMu.Unlock()

	if _, ok := idm.usersByName[name]; ok {
		return nil, fakefs.AlreadyExistsUserError(name)
	}

	idm.maxUid++
	uid := idm.maxUid

	u := &MemUser{name: name, uid: uid, gid: g.Gid()}
	idm.usersByName[name] = u
	idm.usersById[uid] = u

	return u, nil
}

// UserAddToGroup adds the user userName to the supplementary group
// groupName.
func (idm *MemIdm) UserAddToGroup(userName, groupName string) error {
	g, err := idm.LookupGroup(groupName)
	if err != nil {
		return err
	}

	idm.usrMu.Lock()
	defer idm.usrMu.Unlock()

	u, ok := idm.usersByName[userName]
	if !ok {
		return fakefs.UnknownUserError(userName)
	}

	if !u.IsInGroup(g.Gid()) {
		u.groups = append(u.groups, g.Gid())
	}

	return nil
}

// UserDel deletes an existing user.
// If the user is not found, the returned error is of type
// fakefs.UnknownUserError.
func (idm *MemIdm) UserDel(name string) error {
	idm.usrMu.Lock()
	defer idm.usrMu.Unlock()

	u, ok := idm.usersByName[name]
	if !ok {
		return fakefs.UnknownUserError(name)
	}

	delete(idm.usersByName, u.name)
	delete(idm.usersById, u.uid)

	return nil
}

// MemUser

// Name returns the username.
func (u *MemUser) Name() string {
	return u.name
}

// Uid returns the user id.
func (u *MemUser) Uid() int {
	return u.uid
}

// Gid returns the primary group id of the user.
func (u *MemUser) Gid() int {
	return u.gid
}

// IsAdmin returns true if the user has administrator (root) privileges.
func (u *MemUser) IsAdmin() bool {
	return u.uid == 0 || u.gid == 0
}

// IsInGroup returns true if the user is a member of the group gid, either
// as primary group or as a supplementary group.
func (u *MemUser) IsInGroup(gid int) bool {
	if u.gid == gid {
		return true
	}

	for _, g := range u.groups {
		if g == gid {
			return true
		}
	}

	return false
}

// MemGroup

// Name returns the group name.
func (g *MemGroup) Name() string {
	return g.name
}

// Gid returns the group id.
func (g *MemGroup) Gid() int {
	return g.gid
}
