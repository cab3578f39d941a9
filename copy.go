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
	"io"
	"io/fs"
	"os"
	"sync"
)

// bufSize is the size of each buffer used to copy files.
const bufSize = 32 * 1024

// bufPool is the buffer pool used to copy files.
var bufPool = &sync.Pool{New: func() any { //nolint:gochecknoglobals // bufPool must be global.
	buf := make([]byte, bufSize)

	return &buf
}}

// CopyFile copies the file srcPath from srcFS to the file dstPath of
// dstFS, preserving the permission bits of the source file.
// The source and destination file systems may differ; copying between a
// fake file system and the real one imports or exports contents.
func CopyFile(dstFS FS, srcFS FS, dstPath, srcPath string) error {
	src, err := srcFS.Open(srcPath)
	if err != nil {
		return err
	}

	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}

	dst, err := dstFS.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	_, err = copyBufPool(dst, src)
	if err1 := dst.Close(); err1 != nil && err == nil {
		err = err1
	}

	return err
}

// CopyTree recursively copies the directory tree rooted at srcPath of
// srcFS to dstPath of dstFS. Directories are created with the permission
// bits of their source counterparts; symbolic links are not followed and
// are recreated verbatim on file systems supporting them.
func CopyTree(dstFS FS, srcFS FS, dstPath, srcPath string) error {
	return srcFS.WalkDir(srcPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := srcFS.Rel(srcPath, path)
		if err != nil {
			return err
		}

		dst := dstFS.Join(dstPath, dstFS.FromSlash(srcFS.ToSlash(rel)))

		switch {
		case d.IsDir():
			info, err := d.Info()
			if err != nil {
				return err
			}

			return dstFS.MkdirAll(dst, info.Mode().Perm())

		case d.Type()&fs.ModeSymlink != 0:
			target, err := srcFS.Readlink(path)
			if err != nil {
				return err
			}

			return dstFS.Symlink(target, dst)

		default:
			return CopyFile(dstFS, srcFS, dst, path)
		}
	})
}

// copyBufPool copies a source reader to a writer using a buffer from the
// buffer pool.
func copyBufPool(dst io.Writer, src io.Reader) (written int64, err error) {
	buf := bufPool.Get().(*[]byte) //nolint:errcheck // Get() always returns a pointer to a byte slice.
	defer bufPool.Put(buf)

	return io.CopyBuffer(dst, src, *buf)
}
