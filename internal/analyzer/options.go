package analyzer

// AnalysisOptions provides flexible configuration for beer colour analysis
type AnalysisOptions struct {
	// Analysis modes
	Detailed bool // include intermediates and sample statistics
	Strict   bool // surface errors instead of the Unknown sentinel

	// Feature toggles for detailed analysis
	SkipDominantColor bool
	SkipUniformity    bool
	SkipValidation    bool

	// Batch execution; without the pool a batch runs sequentially
	UseWorkerPool bool
	MaxWorkers    int
}

// DefaultOptions returns default analysis options
func DefaultOptions() AnalysisOptions {
	return AnalysisOptions{
		Detailed:          false,
		Strict:            false,
		SkipDominantColor: false,
		SkipUniformity:    false,
		SkipValidation:    false,
		UseWorkerPool:     true,
		MaxWorkers:        0, // Use default CPU count
	}
}

// DetailedOptions returns options for a full diagnostic analysis
func DetailedOptions() AnalysisOptions {
	opts := DefaultOptions()
	opts.Detailed = true
	return opts
}

// FastOptions returns options that skip the per-pixel diagnostics
func FastOptions() AnalysisOptions {
	opts := DefaultOptions()
	opts.SkipDominantColor = true
	opts.SkipUniformity = true
	return opts
}
