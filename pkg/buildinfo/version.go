// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/matzehuels/flowplot/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/flowplot/pkg/buildinfo.Commit=$(git rev-parse HEAD)" ./cmd/flowplot
package buildinfo

import "fmt"

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// Short returns "flowplot/<version>", sent as the server's Server header.
func Short() string {
	return "flowplot/" + Version
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
