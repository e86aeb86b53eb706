// Package version reports build metadata for the nlos payload tool.
package version

import (
	"fmt"
	"runtime"
	"strings"
)

// AppName is reported in logs and version output.
const AppName = "nlos"

// Set with -ldflags, e.g.
// -X 'github.com/cantone/nlos/pkg/version.Version=0.3.0' -X 'github.com/cantone/nlos/pkg/version.Commit=abc1234'
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// Info describes the running binary.
type Info struct {
	App       string
	Version   string
	Commit    string
	BuildTime string
	Go        string
	Platform  string // GOOS/GOARCH
}

// Get returns the metadata of the running build.
func Get() Info {
	return Info{
		App:       AppName,
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		Go:        runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Dev reports whether the binary was built without release metadata.
func (i Info) Dev() bool {
	return i.Version == "dev"
}

// String renders e.g.
// nlos 0.3.0 (abc1234, built 2026-10-14T09:00:00Z, go1.23.1 linux/amd64)
// Unset build fields are left out.
func (i Info) String() string {
	details := make([]string, 0, 3)
	if i.Commit != "" && i.Commit != "none" {
		details = append(details, i.Commit)
	}
	if i.BuildTime != "" && i.BuildTime != "unknown" {
		details = append(details, "built "+i.BuildTime)
	}
	details = append(details, i.Go+" "+i.Platform)
	return fmt.Sprintf("%s %s (%s)", i.App, i.Version, strings.Join(details, ", "))
}
