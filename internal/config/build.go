package config

// Set at link time:
//
//	go build -ldflags "-X github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/config.version=1.0.0 \
//	    -X github.com/alateeqabdullah/daar-ul-maysaroh-sub001/internal/config.commit=$(git rev-parse --short HEAD)"
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

// NewBuildInfo returns the linker-injected build metadata.
func NewBuildInfo() BuildInfo {
	return BuildInfo{Version: version, Commit: commit, BuildTime: buildTime}
}
