// Package buildinfo reports the version netweave was built from.
//
// Release builds set the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/netweave/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/netweave/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/netweave/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/netweave
package buildinfo

import "fmt"

var (
	// Version is the semantic version, "dev" for local builds.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the UTC build timestamp.
	Date = "unknown"
)

// Info is the build information as served by the HTTP API.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the current build information.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// Template returns the version template for cobra's --version flag.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (%s, built %s)\n", Version, Commit, Date)
}
