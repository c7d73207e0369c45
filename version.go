package compensation

// Release is the semantic version of the payout binaries. Builds from an
// untagged commit keep the -dev suffix.
const Release = "v0.1.0-dev"

// GitCommit is set at build time with
//
//	-ldflags "-X github.com/iov-one/compensation.GitCommit=$(git rev-parse --short HEAD)"
var GitCommit = ""

// Version returns the release followed by the commit, if known. It is
// reported by the version commands and in the ABCI info response.
func Version() string {
	if GitCommit == "" {
		return Release
	}
	return Release + " " + GitCommit
}
