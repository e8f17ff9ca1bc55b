// Package version holds the build fingerprints baked into the glint binary.
package version

import "github.com/fatih/color"

// Channel names the release channel. Release builds override it via
// -ldflags "-X glint/internal/version.Channel=release".
var Channel = "dev"

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)

	// Version is the release string the CLI reports.
	Version = majorColor.Sprint("0") + "." + minorColor.Sprint("1") + "." + patchColor.Sprint("0") + "-" + Channel

	// GitCommit is the short hash glint was built from, when recorded.
	GitCommit = ""

	// BuildDate is the build timestamp in ISO-8601, when recorded.
	BuildDate = ""
)
