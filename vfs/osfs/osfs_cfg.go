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
	"github.com/fakefs/fakefs"
	"github.com/fakefs/fakefs/idm/memidm"
)

// OsFS implements the fakefs.FS interface over the real file system of
// the host.
type OsFS struct {
	idm fakefs.IdentityMgr
	fakefs.FeaturesFn
}

// New creates a new real file system adapter.
func New() *OsFS {
	vfs := &OsFS{
		idm: memidm.New(),
	}

	vfs.SetFeatures(fakefs.FeatRealFS | fakefs.FeatHardlink | fakefs.FeatSymlink)

	return vfs
}

// Name returns the name of the file system.
func (vfs *OsFS) Name() string {
	return "OsFS"
}

// Type returns the type of the file system.
func (*OsFS) Type() string {
	return "OsFS"
}

// OSType returns the operating system type of the file system: always
// the host operating system.
func (vfs *OsFS) OSType() fakefs.OSType {
	return fakefs.CurrentOSType()
}

// Idm returns the identity manager of the file system.
func (vfs *OsFS) Idm() fakefs.IdentityMgr {
	return vfs.idm
}
