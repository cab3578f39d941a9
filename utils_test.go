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

import "testing"

func TestUtilsClean(t *testing.T) {
	utLinux := NewUtils(OsLinux)
	utWin := NewUtils(OsWindows)

	linuxCases := []struct{ path, want string }{
		{path: "", want: "."},
		{path: ".", want: "."},
		{path: "/", want: "/"},
		{path: "//", want: "/"},
		{path: "/abc", want: "/abc"},
		{path: "/abc/", want: "/abc"},
		{path: "/abc//def", want: "/abc/def"},
		{path: "abc/./def", want: "abc/def"},
		{path: "/abc/def/..", want: "/abc"},
		{path: "/abc/def/../..", want: "/"},
		{path: "/abc/def/../../..", want: "/"},
		{path: "abc/def/../../..", want: ".."},
		{path: "/../abc", want: "/abc"},
	}

	for _, tc := range linuxCases {
		if got := utLinux.Clean(tc.path); got != tc.want {
			t.Errorf("Clean(%q) : want %q, got %q", tc.path, tc.want, got)
		}
	}

	winCases := []struct{ path, want string }{
		{path: `C:\`, want: `C:\`},
		{path: `C:/`, want: `C:\`},
		{path: `C:\abc\..\def`, want: `C:\def`},
		{path: `C:abc`, want: `C:abc`},
		{path: `c:\abc\`, want: `c:\abc`},
		{path: `\\server\share\..\abc`, want: `\\server\share\abc`},
		{path: `/abc/def`, want: `\abc\def`},
	}

	for _, tc := range winCases {
		if got := utWin.Clean(tc.path); got != tc.want {
			t.Errorf("Clean(%q) : want %q, got %q", tc.path, tc.want, got)
		}
	}
}

func TestUtilsJoin(t *testing.T) {
	utLinux := NewUtils(OsLinux)
	utWin := NewUtils(OsWindows)

	if got := utLinux.Join("a", "b", "c"); got != "a/b/c" {
		t.Errorf("Join : want %q, got %q", "a/b/c", got)
	}

	if got := utLinux.Join("/", "a", "", "b"); got != "/a/b" {
		t.Errorf("Join : want %q, got %q", "/a/b", got)
	}

	if got := utLinux.Join(); got != "" {
		t.Errorf("Join : want empty, got %q", got)
	}

	if got := utWin.Join(`C:\`, "a", "b"); got != `C:\a\b` {
		t.Errorf("Join : want %q, got %q", `C:\a\b`, got)
	}

	if got := utWin.Join("C:", "a"); got != `C:a` {
		t.Errorf("Join : want %q, got %q", `C:a`, got)
	}
}

func TestUtilsSplit(t *testing.T) {
	ut := NewUtils(OsLinux)

	dir, file := ut.Split("/a/b/c.txt")
	if dir != "/a/b/" || file != "c.txt" {
		t.Errorf("Split : want (%q, %q), got (%q, %q)", "/a/b/", "c.txt", dir, file)
	}

	dir, file = ut.Split("abc")
	if dir != "" || file != "abc" {
		t.Errorf("Split : want (%q, %q), got (%q, %q)", "", "abc", dir, file)
	}

	utWin := NewUtils(OsWindows)

	dir, file = utWin.Split(`C:\a\b`)
	if dir != `C:\a\` || file != "b" {
		t.Errorf("Split : want (%q, %q), got (%q, %q)", `C:\a\`, "b", dir, file)
	}
}

func TestUtilsIsAbs(t *testing.T) {
	utLinux := NewUtils(OsLinux)
	utWin := NewUtils(OsWindows)

	cases := []struct {
		ut   *Utils
		path string
		want bool
	}{
		{ut: utLinux, path: "/abc", want: true},
		{ut: utLinux, path: "abc", want: false},
		{ut: utLinux, path: `C:\abc`, want: false},
		{ut: utWin, path: `C:\abc`, want: true},
		{ut: utWin, path: `C:/abc`, want: true},
		{ut: utWin, path: `C:abc`, want: false},
		{ut: utWin, path: `\abc`, want: false},
		{ut: utWin, path: `\\server\share\abc`, want: true},
		{ut: utWin, path: "NUL", want: true},
	}

	for _, tc := range cases {
		if got := tc.ut.IsAbs(tc.path); got != tc.want {
			t.Errorf("IsAbs(%q) on %s : want %t, got %t", tc.path, tc.ut.OSType(), tc.want, got)
		}
	}
}

func TestUtilsVolumeNameLen(t *testing.T) {
	utWin := NewUtils(OsWindows)

	cases := []struct {
		path string
		want int
	}{
		{path: `C:\foo`, want: 2},
		{path: `c:`, want: 2},
		{path: `\\server\share\foo`, want: 14},
		{path: `\\server\share`, want: 14},
		{path: `\foo`, want: 0},
		{path: "foo", want: 0},
	}

	for _, tc := range cases {
		if got := utWin.VolumeNameLen(tc.path); got != tc.want {
			t.Errorf("VolumeNameLen(%q) : want %d, got %d", tc.path, tc.want, got)
		}
	}

	utLinux := NewUtils(OsLinux)
	if got := utLinux.VolumeNameLen(`C:\foo`); got != 0 {
		t.Errorf("VolumeNameLen : want 0, got %d", got)
	}
}

func TestUtilsFold(t *testing.T) {
	utLinux := NewUtils(OsLinux)
	utWin := NewUtils(OsWindows)

	if !utLinux.FoldEqual("abc", "abc") {
		t.Error("FoldEqual : identical names differ")
	}

	if utLinux.FoldEqual("abc", "ABC") {
		t.Error("FoldEqual : case folding on a case sensitive profile")
	}

	if !utWin.FoldEqual("abc", "ABC") {
		t.Error("FoldEqual : no case folding on a non-case-sensitive profile")
	}

	if !utWin.FoldEqual("été", "ÉTÉ") {
		t.Error("FoldEqual : no Unicode case folding")
	}

	utLinux.SetCaseSensitive(false)

	if !utLinux.FoldEqual("abc", "ABC") {
		t.Error("FoldEqual : case sensitivity override ignored")
	}
}

func TestUtilsIsReservedName(t *testing.T) {
	utWin := NewUtils(OsWindows)
	utLinux := NewUtils(OsLinux)

	for _, name := range []string{"NUL", "nul", "CON", "com1", "LPT9", "NUL.txt", "con.log"} {
		if !utWin.IsReservedName(name) {
			t.Errorf("IsReservedName(%q) : want true, got false", name)
		}
	}

	for _, name := range []string{"", "NULL", "COM0", "COM10", "console"} {
		if utWin.IsReservedName(name) {
			t.Errorf("IsReservedName(%q) : want false, got true", name)
		}
	}

	if utLinux.IsReservedName("NUL") {
		t.Error("IsReservedName : reserved name on a Linux profile")
	}
}

func TestUtilsCommonPath(t *testing.T) {
	ut := NewUtils(OsLinux)

	cases := []struct {
		paths []string
		want  string
	}{
		{paths: []string{"/a/b/c", "/a/b/d"}, want: "/a/b"},
		{paths: []string{"/a/b", "/a/b"}, want: "/a/b"},
		{paths: []string{"/a/b", "/c"}, want: "/"},
		{paths: []string{"/a/bcd", "/a/bce"}, want: "/a"},
	}

	for _, tc := range cases {
		if got := ut.CommonPath(tc.paths...); got != tc.want {
			t.Errorf("CommonPath(%q) : want %q, got %q", tc.paths, tc.want, got)
		}
	}
}

func TestUtilsDirBaseProperty(t *testing.T) {
	for _, osType := range []OSType{OsLinux, OsWindows} {
		ut := NewUtils(osType)

		paths := []string{"/a/b/c", "/a/b/", "/", "a/../b", "a", "/a//b"}
		if osType == OsWindows {
			paths = append(paths, `C:\a\b`, `C:\`, `C:\a\..\b`)
		}

		for _, p := range paths {
			want := ut.Clean(p)

			got := ut.Clean(ut.Join(ut.Dir(p), ut.Base(p)))
			if got != want {
				t.Errorf("%s : Clean(Join(Dir, Base))(%q) : want %q, got %q", osType, p, want, got)
			}
		}
	}
}

func TestUtilsMatch(t *testing.T) {
	ut := NewUtils(OsLinux)

	cases := []struct {
		pattern, name string
		want          bool
	}{
		{pattern: "*.txt", name: "file.txt", want: true},
		{pattern: "*.txt", name: "file.go", want: false},
		{pattern: "a?c", name: "abc", want: true},
		{pattern: "[a-c]bc", name: "abc", want: true},
		{pattern: "*", name: "a/b", want: false},
	}

	for _, tc := range cases {
		got, err := ut.Match(tc.pattern, tc.name)
		if err != nil {
			t.Fatalf("Match(%q, %q) : %v", tc.pattern, tc.name, err)
		}

		if got != tc.want {
			t.Errorf("Match(%q, %q) : want %t, got %t", tc.pattern, tc.name, tc.want, got)
		}
	}
}

func TestUtilsTempDir(t *testing.T) {
	utWin := NewUtils(OsWindows)

	want := `C:\Users\Default\AppData\Local\Temp`
	if got := utWin.TempDir("Default"); got != want {
		t.Errorf("TempDir : want %q, got %q", want, got)
	}

	t.Setenv("TMPDIR", "")
	t.Setenv("TEMPDIR", "")
	t.Setenv("TEMP", "")
	t.Setenv("TMP", "")

	utLinux := NewUtils(OsLinux)
	if got := utLinux.TempDir("user"); got != "/tmp" {
		t.Errorf("TempDir : want %q, got %q", "/tmp", got)
	}

	t.Setenv("TMPDIR", "/var/tmp")

	if got := utLinux.TempDir("user"); got != "/var/tmp" {
		t.Errorf("TempDir : want %q, got %q", "/var/tmp", got)
	}
}
