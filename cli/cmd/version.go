package cmd

import (
	"context"
	"fmt"
	"runtime"

	"github.com/ardnew/plume/pkg"
	"github.com/ardnew/plume/profile"
)

// Version prints version information.
type Version struct {
	Verbose bool `help:"Include build details." short:"v"`
}

// Run executes the version command.
func (v *Version) Run(ctx context.Context) error {
	out := streamsFrom(ctx).Out

	if _, err := fmt.Fprintf(out, "%s %s\n", pkg.Name, pkg.Version()); err != nil {
		return err
	}

	if !v.Verbose {
		return nil
	}

	_, err := fmt.Fprintf(out, "go:     %s\nos:     %s/%s\npprof:  %t\n",
		runtime.Version(), runtime.GOOS, runtime.GOARCH, profile.Enabled())

	return err
}
