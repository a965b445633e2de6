package version

// Version is set at build time:
// go build -ldflags "-X github.com/pabpereza/docsite/internal/version.Version=v1.0.0".
var Version = "dev"

// Additional build metadata, also set through ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String returns a one-line description used by --version.
func String() string {
	return Version + " (commit " + GitCommit + ", built " + BuildTime + ")"
}
