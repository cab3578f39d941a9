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
	"io/fs"
	"testing"

	"github.com/fakefs/fakefs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	// Tests that MemIOFS implements the io/fs interfaces.
	_ fs.FS         = &MemIOFS{}
	_ fs.GlobFS     = &MemIOFS{}
	_ fs.ReadDirFS  = &MemIOFS{}
	_ fs.ReadFileFS = &MemIOFS{}
	_ fs.StatFS     = &MemIOFS{}
	_ fs.SubFS      = &MemIOFS{}
)

func TestIOFS(t *testing.T) {
	iofs := NewIOFS(WithOSType(fakefs.OsLinux))

	require.NoError(t, iofs.CreateFile("/data/a.txt", []byte("a"), 0o644))
	require.NoError(t, iofs.CreateFile("/data/sub/b.txt", []byte("bb"), 0o644))

	data, err := iofs.ReadFile("data/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "a", string(data))

	entries, err := iofs.ReadDir("data")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	info, err := iofs.Stat("data/sub/b.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(2), info.Size())

	matches, err := iofs.Glob("data/*.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"data/a.txt"}, matches)

	sub, err := iofs.Sub("data")
	require.NoError(t, err)

	data, err = fs.ReadFile(sub, "sub/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "bb", string(data))

	// Invalid io/fs paths are rejected.
	_, err = iofs.Open("/rooted")
	require.Error(t, err)
}
