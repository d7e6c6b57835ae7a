package version

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Version information for the sigtype CLI.
// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with major, minor and patch in their own colors.
// A version that is not dotted is returned unchanged.
func Colored(enabled bool) string {
	parts := strings.SplitN(Version, ".", 3)
	if !enabled || len(parts) != 3 {
		return Version
	}
	paint := func(c *color.Color, s string) string {
		c.EnableColor()
		return c.Sprint(s)
	}
	patch, suffix := parts[2], ""
	if i := strings.IndexAny(patch, "-+"); i >= 0 {
		patch, suffix = patch[:i], patch[i:]
	}
	return paint(versionMajorColor, parts[0]) + "." + paint(versionMinorColor, parts[1]) + "." +
		paint(versionPatchColor, patch) + suffix
}

// Describe returns the one-line version banner.
func Describe(colored bool) string {
	out := "sigtype " + Colored(colored)
	if GitCommit != "" {
		out += fmt.Sprintf(" (%s)", GitCommit)
	}
	if BuildDate != "" {
		out += " built " + BuildDate
	}
	return out
}
