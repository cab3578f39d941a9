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

package fakefs

import "strings"

// Features defines the set of features available on a file system.
type Features uint64

const (
	// FeatHardlink indicates that the file system supports hard links
	// (Link function).
	FeatHardlink Features = 1 << iota

	// FeatIdentityMgr indicates that the file system features an identity
	// manager and checks permissions against multiple users.
	FeatIdentityMgr

	// FeatMainDirs indicates that the main directories of the file system
	// (/home, /root and /tmp for Linux) are present.
	FeatMainDirs

	// FeatReadOnly indicates a read only file system.
	FeatReadOnly

	// FeatRealFS indicates that the file system is a real one, not emulated
	// (see vfs/osfs).
	FeatRealFS

	// FeatSymlink indicates that the file system supports symbolic links
	// (Symlink, Readlink, EvalSymlinks functions).
	FeatSymlink
)

var featureNames = []struct { //nolint:gochecknoglobals // Used by Features.String().
	feature Features
	name    string
}{
	{feature: FeatHardlink, name: "Hardlink"},
	{feature: FeatIdentityMgr, name: "IdentityMgr"},
	{feature: FeatMainDirs, name: "MainDirs"},
	{feature: FeatReadOnly, name: "ReadOnly"},
	{feature: FeatRealFS, name: "RealFS"},
	{feature: FeatSymlink, name: "Symlink"},
}

// String returns the names of the features set, separated by "|".
func (f Features) String() string {
	if f == 0 {
		return "None"
	}

	var names []string

	for _, fn := range featureNames {
		if f&fn.feature != 0 {
			names = append(names, fn.name)
		}
	}

	return strings.Join(names, "|")
}

// FeaturesFn provides the features functions to a file system or an
// identity manager that embeds it.
type FeaturesFn struct {
	features Features // features defines the list of features available.
}

// Features returns the set of features provided by the file system or
// identity manager.
func (ff *FeaturesFn) Features() Features {
	return ff.features
}

// HasFeature returns true if the file system or identity manager provides
// a given feature.
func (ff *FeaturesFn) HasFeature(feature Features) bool {
	return ff.features&feature == feature
}

// SetFeatures sets the features of the file system or identity manager.
func (ff *FeaturesFn) SetFeatures(feature Features) {
	ff.features = feature
}
