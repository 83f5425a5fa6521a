package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/rigtools/rigup/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/rigtools/rigup/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/rigtools/rigup/internal/version.Date={{.Date}}
)
