package versioning

// Set with -ldflags at build time
var (
	Version string // semantic version of the build
	Commit  string // git commit the binary was built from
)
