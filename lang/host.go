package lang

import (
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/mung"
)

// The host environment is built once per process and cloned on access.
//
//nolint:gochecknoglobals
var (
	hostEnvOnce sync.Once
	hostEnv     map[string]any
)

// makeHostEnv returns a clone of the environment available to definition
// expressions. The caller may modify the returned map.
func makeHostEnv() map[string]any {
	hostEnvOnce.Do(func() {
		hostEnv = map[string]any{
			"target":   getTarget(),
			"platform": getPlatform(),
			"hostname": getHostname(),
			"cwd":      getCwd,
			"env":      os.Getenv,
			"file": map[string]any{
				"exists": fileExists,
				"isDir":  fileIsDir,
			},
			"path": map[string]any{
				"abs": pathAbs,
				"cat": pathCat,
				"rel": pathRel,
			},
			"mung": map[string]any{
				"prefix":   mungPrefix,
				"prefixif": mungPrefixIf,
			},
		}
	})

	return maps.Clone(hostEnv)
}

// HostNames returns the sorted top-level names available to definition
// expressions.
func HostNames() []string {
	return slices.Sorted(maps.Keys(makeHostEnv()))
}

// target identifies an operating system and instruction set architecture.
type target struct {
	OS   string
	Arch string
}

// getTarget returns the host target using GNU toolchain naming.
func getTarget() target {
	t := getPlatform()

	switch t.Arch {
	case "386":
		t.Arch = "i386"
	case "amd64":
		t.Arch = "x86_64"
	case "arm":
		if arm, ok := os.LookupEnv("GOARM"); ok {
			arm, _, _ = strings.Cut(arm, ",")
			switch arm = strings.TrimSpace(arm); arm {
			case "5", "6", "7":
				t.Arch = "armv" + arm
			}
		}
	case "arm64":
		if t.OS != "darwin" {
			t.Arch = "aarch64"
		}
	case "mipsle":
		t.Arch = "mipsel"
	}

	return t
}

// getPlatform returns the host target using Go naming.
func getPlatform() target {
	return target{
		OS:   lookupFirst(runtime.GOOS, "GOHOSTOS", "GOOS"),
		Arch: lookupFirst(runtime.GOARCH, "GOHOSTARCH", "GOARCH"),
	}
}

func lookupFirst(fallback string, keys ...string) string {
	for _, key := range keys {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
	}

	return fallback
}

func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return ""
	}

	return hostname
}

func getCwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return pathAbs(".")
	}

	return cwd
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return !os.IsNotExist(err)
}

func fileIsDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

func pathAbs(path string) string {
	p, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return p
}

func pathCat(elem ...string) string { return filepath.Join(elem...) }

func pathRel(from, to string) string {
	p, err := filepath.Rel(pathAbs(from), pathAbs(to))
	if err != nil {
		return pathCat(from, to)
	}

	return p
}

// mungPrefix prepends prefix to the path list key.
func mungPrefix(key string, prefix ...string) string {
	return SearchPath(key, nil, prefix...)
}

// mungPrefixIf is [mungPrefix] keeping only the elements accepted by keep.
func mungPrefixIf(key string, keep func(string) bool, prefix ...string) string {
	return SearchPath(key, keep, prefix...)
}

// SearchPath joins prefix ahead of the elements of the path list subject,
// using the platform's list separator. A non-nil keep drops every element
// it rejects.
func SearchPath(subject string, keep func(string) bool, prefix ...string) string {
	delim := string(os.PathListSeparator)

	if keep == nil {
		return mung.Make(
			mung.WithSubjectItems(subject),
			mung.WithDelim(delim),
			mung.WithPrefixItems(prefix...),
		).String()
	}

	return mung.Make(
		mung.WithSubjectItems(subject),
		mung.WithDelim(delim),
		mung.WithPrefixItems(prefix...),
		mung.WithFilter(keep),
	).String()
}
