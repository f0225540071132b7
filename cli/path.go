package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/plume/pkg"
)

// baseConfig is the base name, without extension, of the configuration
// files.
const baseConfig = "config"

// defaultDirMode is the permission mode of created directories.
var defaultDirMode os.FileMode = 0o700

// exeRename rewrites executable names that make poor directory names.
var exeRename = []struct {
	pattern *regexp.Regexp
	repl    string
}{
	{regexp.MustCompile(`^__debug_bin\d*$`), pkg.Name}, // dlv default output
	{regexp.MustCompile(`^\.+`), ""},                   // leading dots
}

// basePrefix names the per-user configuration and cache directories after
// the executable, so a renamed binary keeps separate settings.
var basePrefix = sync.OnceValue(func() string {
	id := os.Args[0]
	if exe, err := os.Executable(); err == nil {
		id = exe
	}

	id = filepath.Base(id)
	id = strings.TrimSuffix(id, filepath.Ext(id))

	for _, r := range exeRename {
		id = r.pattern.ReplaceAllString(id, r.repl)
	}

	if id == "" {
		return pkg.Name
	}

	return id
})

// userDir returns dir joined with basePrefix, where dir comes from lookup or,
// failing that, the hidden directory fallback under the home directory or
// the working directory.
func userDir(lookup func() (string, error), fallback string) string {
	dir, err := lookup()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, fallback)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, basePrefix())
}

var (
	configDir = sync.OnceValue(func() string { return userDir(os.UserConfigDir, ".config") })
	cacheDir  = sync.OnceValue(func() string { return userDir(os.UserCacheDir, ".cache") })
)

// configPath joins elem to the configuration directory.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
