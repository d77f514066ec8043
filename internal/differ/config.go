package differ

// DiffConfig controls how inline field diffs are produced
type DiffConfig struct {
	EnableSemanticCleanup bool
	// MaxInlineDiffLength caps the rendered inline diff; 0 means no cap
	MaxInlineDiffLength int
}

// DefaultDiffConfig returns default diff settings
func DefaultDiffConfig() DiffConfig {
	return DiffConfig{
		EnableSemanticCleanup: true,
		MaxInlineDiffLength:   2000,
	}
}
