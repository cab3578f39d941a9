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

package memidm

import (
	"testing"

	"github.com/fakefs/fakefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	// Tests that MemIdm implements fakefs.IdentityMgr.
	_ fakefs.IdentityMgr = &MemIdm{}

	// Tests that MemUser implements fakefs.UserReader and
	// fakefs.GroupMember.
	_ fakefs.UserReader  = &MemUser{}
	_ fakefs.GroupMember = &MemUser{}

	// Tests that MemGroup implements fakefs.GroupReader.
	_ fakefs.GroupReader = &MemGroup{}
)

func TestMemIdmAdmin(t *testing.T) {
	idm := New(WithOSType(fakefs.OsLinux))

	adminUser := idm.AdminUser()
	assert.Equal(t, "root", adminUser.Name())
	assert.Equal(t, 0, adminUser.Uid())
	assert.Equal(t, 0, adminUser.Gid())
	assert.True(t, adminUser.IsAdmin())

	adminGroup := idm.AdminGroup()
	assert.Equal(t, "root", adminGroup.Name())
	assert.Equal(t, 0, adminGroup.Gid())
}

func TestMemIdmUserGroup(t *testing.T) {
	idm := New(WithOSType(fakefs.OsLinux))

	g, err := idm.GroupAdd("devs")
	require.NoError(t, err)

	_, err = idm.GroupAdd("devs")
	assert.ErrorIs(t, err, fakefs.AlreadyExistsGroupError("devs"))

	u, err := idm.UserAdd("alice", "devs")
	require.NoError(t, err)
	assert.Equal(t, g.Gid(), u.Gid())
	assert.False(t, u.IsAdmin())

	_, err = idm.UserAdd("alice", "devs")
	assert.ErrorIs(t, err, fakefs.AlreadyExistsUserError("alice"))

	lu, err := idm.LookupUser("alice")
	require.NoError(t, err)
	assert.Equal(t, u.Uid(), lu.Uid())

	lu, err = idm.LookupUserId(u.Uid())
	require.NoError(t, err)
	assert.Equal(t, "alice", lu.Name())

	_, err = idm.LookupUser("nobody")
	assert.ErrorIs(t, err, fakefs.UnknownUserError("nobody"))

	lg, err := idm.LookupGroupId(g.Gid())
	require.NoError(t, err)
	assert.Equal(t, "devs", lg.Name())

	require.NoError(t, idm.UserDel("alice"))
	_, err = idm.LookupUser("alice")
	assert.Error(t, err)

	require.NoError(t, idm.GroupDel("devs"))
	_, err = idm.LookupGroup("devs")
	assert.Error(t, err)
}

func TestMemIdmSupplementaryGroups(t *testing.T) {
	idm := New(WithOSType(fakefs.OsLinux))

	_, err := idm.GroupAdd("devs")
	require.NoError(t, err)

	g2, err := idm.GroupAdd("ops")
	require.NoError(t, err)

	u, err := idm.UserAdd("bob", "devs")
	require.NoError(t, err)

	mu := u.(*MemUser)
	assert.True(t, mu.IsInGroup(u.Gid()))
	assert.False(t, mu.IsInGroup(g2.Gid()))

	require.NoError(t, idm.UserAddToGroup("bob", "ops"))
	assert.True(t, mu.IsInGroup(g2.Gid()))

	err = idm.UserAddToGroup("nobody", "ops")
	assert.ErrorIs(t, err, fakefs.UnknownUserError("nobody"))
}

func TestMemIdmWindowsNames(t *testing.T) {
	idm := New(WithOSType(fakefs.OsWindows))

	assert.Equal(t, "ContainerAdministrator", idm.AdminUser().Name())
	assert.Equal(t, "Administrators", idm.AdminGroup().Name())
}
