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

package osfs

import (
	"os"
	"os/user"

	"github.com/fakefs/fakefs"
)

// osUser is the real user running the process.
type osUser struct {
	name string
	uid  int
	gid  int
}

func (u *osUser) Name() string {
	return u.name
}

func (u *osUser) Uid() int {
	return u.uid
}

func (u *osUser) Gid() int {
	return u.gid
}

func (u *osUser) IsAdmin() bool {
	return u.uid == 0
}

// User returns the real user running the process.
func (vfs *OsFS) User() fakefs.UserReader {
	name := ""
	if u, err := user.Current(); err == nil {
		name = u.Username
	}

	return &osUser{
		name: name,
		uid:  os.Geteuid(),
		gid:  os.Getegid(),
	}
}
