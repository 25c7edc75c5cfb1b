package cgroup

import (
	"reflect"
	"testing"

	"github.com/A2-ai/systemcheck/pkg/testutil"
)

func TestSelfPath(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{
			name: "v2 entry",
			files: map[string]string{
				"proc/self/cgroup": "0::/user.slice/user-1000.slice/session-4.scope\n",
			},
			want: "/user.slice/user-1000.slice/session-4.scope",
		},
		{
			name: "v2 entry wins over v1 lines",
			files: map[string]string{
				"proc/self/cgroup": "12:memory:/docker/abc123\n0::/unified\n",
			},
			want: "/unified",
		},
		{
			name: "v1 memory controller",
			files: map[string]string{
				"proc/self/cgroup": "12:cpu,cpuacct:/other\n11:memory:/docker/abc123\n10:pids:/elsewhere\n",
			},
			want: "/docker/abc123",
		},
		{
			name: "combined controller list is not the memory field",
			files: map[string]string{
				"proc/self/cgroup": "11:cpuacct,memory:/docker/abc123\n",
			},
			want: "",
		},
		{
			name: "path containing a colon survives intact",
			files: map[string]string{
				"proc/self/cgroup": "11:memory:/odd:name\n",
			},
			want: "/odd:name",
		},
		{
			name:  "missing file",
			files: map[string]string{},
			want:  "",
		},
		{
			name: "no matching line",
			files: map[string]string{
				"proc/self/cgroup": "12:pids:/init.scope\n",
			},
			want: "",
		},
		{
			name: "root scope",
			files: map[string]string{
				"proc/self/cgroup": "0::/\n",
			},
			want: "/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelfPath(testutil.FakeFS(tt.files))
			if got != tt.want {
				t.Errorf("SelfPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMemberships(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  []string
	}{
		{
			name: "non-empty lines returned in order",
			files: map[string]string{
				"proc/self/cgroup": "12:memory:/a\n0::/b\n\n",
			},
			want: []string{"12:memory:/a", "0::/b"},
		},
		{
			name:  "missing file is nil",
			files: map[string]string{},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Memberships(testutil.FakeFS(tt.files))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Memberships() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectVersion(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  Version
	}{
		{
			name: "v2 marker",
			files: map[string]string{
				"sys/fs/cgroup/cgroup.controllers": "cpuset cpu memory pids\n",
			},
			want: V2,
		},
		{
			name: "v1 cpu mount",
			files: map[string]string{
				"sys/fs/cgroup/cpu/": "",
			},
			want: V1,
		},
		{
			name: "v1 memory mount",
			files: map[string]string{
				"sys/fs/cgroup/memory/": "",
			},
			want: V1,
		},
		{
			name: "v2 wins when both are mounted",
			files: map[string]string{
				"sys/fs/cgroup/cgroup.controllers": "memory\n",
				"sys/fs/cgroup/memory/":            "",
				"sys/fs/cgroup/cpu/":               "",
			},
			want: V2,
		},
		{
			name:  "no hierarchy",
			files: map[string]string{},
			want:  VersionUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectVersion(testutil.FakeFS(tt.files))
			if got != tt.want {
				t.Errorf("DetectVersion() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVersionString(t *testing.T) {
	tests := []struct {
		v    Version
		want string
	}{
		{V1, "v1"},
		{V2, "v2"},
		{VersionUnknown, ""},
	}

	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("Version(%d).String() = %q, want %q", int(tt.v), got, tt.want)
		}
	}
}
