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

import "runtime"

// OSType defines the operating system profile emulated by a file system.
type OSType uint8

const (
	OsUnknown OSType = iota // Unknown
	OsLinux                 // Linux
	OsDarwin                // Darwin
	OsWindows               // Windows
)

// String returns the name of the operating system profile.
func (ost OSType) String() string {
	switch ost {
	case OsLinux:
		return "Linux"
	case OsDarwin:
		return "Darwin"
	case OsWindows:
		return "Windows"
	default:
		return "Unknown"
	}
}

// IsCaseSensitive returns the default case sensitivity of the file
// systems of an operating system: Linux file systems are case sensitive,
// Darwin (APFS, HFS+) and Windows (NTFS) fold case.
func (ost OSType) IsCaseSensitive() bool {
	return ost == OsLinux
}

// CurrentOSType returns the OSType of the host operating system.
func CurrentOSType() OSType {
	switch runtime.GOOS {
	case "linux":
		return OsLinux
	case "darwin":
		return OsDarwin
	case "windows":
		return OsWindows
	default:
		return OsUnknown
	}
}
