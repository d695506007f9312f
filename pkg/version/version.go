package version

// Version and GitCommit are set at build time via ldflags:
//
//	go build -ldflags "-X github.com/fabricgw/gwdataplane/pkg/version.Version=v1.0.0 \
//	  -X github.com/fabricgw/gwdataplane/pkg/version.GitCommit=abc1234"
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info returns a human-readable summary of the build's version, commit,
// and build date.
func Info() string {
	return Version + " (" + GitCommit + ", " + BuildDate + ")"
}
