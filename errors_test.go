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

import (
	"errors"
	"io/fs"
	"testing"
)

func TestErrorText(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{err: ErrNoSuchFileOrDir, want: "no such file or directory"},
		{err: ErrFileExists, want: "file exists"},
		{err: ErrPermDenied, want: "permission denied"},
		{err: ErrTooManySymlinks, want: "too many levels of symbolic links"},
		{err: ErrNoSpaceLeft, want: "no space left on device"},
		{err: ErrDarwinDirNotEmpty, want: "directory not empty"},
		{err: ErrWinFileNotFound, want: "The system cannot find the file specified."},
		{err: ErrWinDirNotEmpty, want: "The directory is not empty."},
		{err: ErrWinNegativeSeek, want: "An attempt was made to move the file pointer before the beginning of the file."},
		{err: LinuxError(123456), want: "errno 123456"},
	}

	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Errorf("Error() : want %q, got %q", tc.want, got)
		}
	}
}

func TestErrorsIs(t *testing.T) {
	cases := []struct {
		err    error
		target error
	}{
		{err: ErrNoSuchFileOrDir, target: fs.ErrNotExist},
		{err: ErrFileExists, target: fs.ErrExist},
		{err: ErrPermDenied, target: fs.ErrPermission},
		{err: ErrOpNotPermitted, target: fs.ErrPermission},
		{err: ErrInvalidArgument, target: fs.ErrInvalid},
		{err: ErrWinFileNotFound, target: fs.ErrNotExist},
		{err: ErrWinPathNotFound, target: fs.ErrNotExist},
		{err: ErrWinFileExists, target: fs.ErrExist},
		{err: ErrWinAlreadyExists, target: fs.ErrExist},
		{err: ErrWinAccessDenied, target: fs.ErrPermission},
		{err: ErrDarwinTooManySymlinks, target: nil},
	}

	for _, tc := range cases {
		if tc.target == nil {
			continue
		}

		if !errors.Is(tc.err, tc.target) {
			t.Errorf("errors.Is(%v, %v) : want true, got false", tc.err, tc.target)
		}
	}

	if errors.Is(ErrNoSuchFileOrDir, fs.ErrExist) {
		t.Error("errors.Is : ENOENT should not match ErrExist")
	}

	pathErr := &fs.PathError{Op: "open", Path: "/nope", Err: ErrNoSuchFileOrDir}
	if !errors.Is(pathErr, fs.ErrNotExist) {
		t.Error("errors.Is : wrapped ENOENT should match ErrNotExist")
	}
}

func TestErrorsSetOSType(t *testing.T) {
	var e Errors

	e.SetOSType(OsLinux)

	if e.NoSuchFile != ErrNoSuchFileOrDir || e.DirNotEmpty != ErrDirNotEmpty {
		t.Error("SetOSType(OsLinux) : wrong error set")
	}

	e.SetOSType(OsDarwin)

	if e.DirNotEmpty != ErrDarwinDirNotEmpty || e.TooManySymlinks != ErrDarwinTooManySymlinks {
		t.Error("SetOSType(OsDarwin) : wrong error set")
	}

	if e.NoSuchFile != ErrNoSuchFileOrDir {
		t.Error("SetOSType(OsDarwin) : ENOENT should be shared with Linux")
	}

	e.SetOSType(OsWindows)

	if e.NoSuchFile != ErrWinFileNotFound || e.NoSuchDir != ErrWinPathNotFound {
		t.Error("SetOSType(OsWindows) : wrong error set")
	}
}
