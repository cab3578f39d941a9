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
	"sync"

	"github.com/fakefs/fakefs"
)

const (
	// minUid is the minimum uid for a user.
	minUid = 1000

	// minGid is the minimum gid for a group.
	minGid = 1000
)

// MemIdm implements an in memory identity manager using the
// fakefs.IdentityMgr interface.
type MemIdm struct {
	adminGroup   *MemGroup    // adminGroup is the administrator group.
	adminUser    *MemUser     // adminUser is the administrator user.
	groupsByName groupsByName // groupsByName is the groups map by name.
	groupsById   groupsById   // groupsById is the groups map by id.
	usersByName  usersByName  // usersByName is the users map by name.
	usersById    usersById    // usersById is the users map by id.
	maxGid       int          // maxGid is the current maximum gid.
	maxUid       int          // maxUid is the current maximum uid.
	grpMu        sync.RWMutex // grpMu is the groups mutex.
	usrMu        sync.RWMutex // usrMu is the users mutex.
	osType       fakefs.OSType
	fakefs.FeaturesFn
}

// groupsByName is the map of groups by group name.
type groupsByName map[string]*MemGroup

// groupsById is the map of the groups by group id.
type groupsById map[int]*MemGroup

// usersByName is the map of the users by username.
type usersByName map[string]*MemUser

// usersById is the map of the users by user id.
type usersById map[int]*MemUser

// MemUser is the implementation of fakefs.UserReader.
type MemUser struct {
	name   string
	uid    int
	gid    int
	groups []int // groups are the supplementary group ids of the user.
}

// MemGroup is the implementation of fakefs.GroupReader.
type MemGroup struct {
	name string
	gid  int
}
