package testutil

import (
	"io/fs"
	"strings"
	"testing/fstest"
)

// FakeFS builds an in-memory root filesystem for tests. Keys are unrooted
// paths the way production code reads them through os.DirFS("/") (e.g.
// "proc/meminfo"). A key with a trailing slash becomes an empty directory,
// which is how controller mount points such as "sys/fs/cgroup/memory/" are
// faked without putting files under them.
func FakeFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, content := range files {
		if strings.HasSuffix(name, "/") {
			fsys[strings.TrimSuffix(name, "/")] = &fstest.MapFile{Mode: fs.ModeDir}
			continue
		}
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

// Ptr returns a pointer to the value (useful for optional fields in tests).
func Ptr[T any](v T) *T {
	return &v
}
