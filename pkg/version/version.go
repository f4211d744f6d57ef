package version

const (
	Name    = "promptforge"
	Version = "0.3.0"
)
