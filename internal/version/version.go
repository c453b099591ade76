package version

// Set at build time:
//
//	go build -ldflags "-X gold-catalog/internal/version.Version=v1.0.0 -X gold-catalog/internal/version.Commit=$(git rev-parse --short HEAD)"
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)
