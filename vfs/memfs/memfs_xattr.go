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
	"sort"

	"github.com/fakefs/fakefs"
)

// Extended attributes are only available on the Linux profile, as with
// the listxattr family of system calls.

// Getxattr returns the value of the extended attribute attr of the named
// file.
// If there is an error, it will be of type *PathError.
func (vfs *MemFS) Getxattr(name, attr string) ([]byte, error) {
	const op = "getxattr"

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	bn, err := vfs.xattrNode(name)
	if err != nil {
		return nil, &fs.PathError{Op: op, Path: name, Err: err}
	}

	value, ok := bn.xattrs[attr]
	if !ok {
		return nil, &fs.PathError{Op: op, Path: name, Err: vfs.err.NoSuchFile}
	}

	return append([]byte(nil), value...), nil
}

// Setxattr sets the value of the extended attribute attr of the named
// file.
// If there is an error, it will be of type *PathError.
func (vfs *MemFS) Setxattr(name, attr string, value []byte) error {
	const op = "setxattr"

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	bn, err := vfs.xattrNode(name)
	if err != nil {
		return &fs.PathError{Op: op, Path: name, Err: err}
	}

	u := vfs.user
	if bn.uid != u.Uid() && !(u.IsAdmin() && vfs.allowRoot) {
		return &fs.PathError{Op: op, Path: name, Err: vfs.err.PermDenied}
	}

	if bn.xattrs == nil {
		bn.xattrs = make(map[string][]byte)
	}

	bn.xattrs[attr] = append([]byte(nil), value...)
	bn.ctime = nowNano()

	return nil
}

// Listxattr returns the names of the extended attributes of the named
// file, sorted.
// If there is an error, it will be of type *PathError.
func (vfs *MemFS) Listxattr(name string) ([]string, error) {
	const op = "listxattr"

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	bn, err := vfs.xattrNode(name)
	if err != nil {
		return nil, &fs.PathError{Op: op, Path: name, Err: err}
	}

	attrs := make([]string, 0, len(bn.xattrs))
	for attr := range bn.xattrs {
		attrs = append(attrs, attr)
	}

	sort.Strings(attrs)

	return attrs, nil
}

// Removexattr removes the extended attribute attr of the named file.
// If there is an error, it will be of type *PathError.
func (vfs *MemFS) Removexattr(name, attr string) error {
	const op = "removexattr"

	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	bn, err := vfs.xattrNode(name)
	if err != nil {
		return &fs.PathError{Op: op, Path: name, Err: err}
	}

	u := vfs.user
	if bn.uid != u.Uid() && !(u.IsAdmin() && vfs.allowRoot) {
		return &fs.PathError{Op: op, Path: name, Err: vfs.err.PermDenied}
	}

	if _, ok := bn.xattrs[attr]; !ok {
		return &fs.PathError{Op: op, Path: name, Err: vfs.err.NoSuchFile}
	}

	delete(bn.xattrs, attr)
	bn.ctime = nowNano()

	return nil
}

// xattrNode resolves name to a node for an extended attribute operation.
func (vfs *MemFS) xattrNode(name string) (*baseNode, error) {
	if vfs.osType != fakefs.OsLinux {
		return nil, vfs.err.OpNotPermitted
	}

	_, child, _, err := vfs.searchNode(name, slmEval)
	if err != vfs.err.FileExists || child == nil {
		return nil, err
	}

	return child.base(), nil
}
