package api

// API limits and constants.
const (
	// MaxImportSize is the maximum allowed size for CSV imports (10 MB).
	MaxImportSize = 10 << 20
)
