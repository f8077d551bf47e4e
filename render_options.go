package antsi

// RenderOption configures parsing and rendering behavior.
type RenderOption func(*renderConfig)

type renderConfig struct {
	plain    bool
	maxDepth int
	base     CurrentStyle
}

func newRenderConfig(opts []RenderOption) renderConfig {
	cfg := renderConfig{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithColor enables or disables SGR output. With color disabled markup is
// still parsed and validated but only the text is written.
func WithColor(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.plain = !enabled
	}
}

// WithMaxDepth limits how deeply styled spans may nest. Values below one
// restore DefaultMaxDepth.
func WithMaxDepth(depth int) RenderOption {
	return func(cfg *renderConfig) {
		if depth <= 0 {
			depth = DefaultMaxDepth
		}
		cfg.maxDepth = depth
	}
}

// WithBaseStyle renders relative to a style that is already in effect where
// the output will be written, so no codes restate it.
func WithBaseStyle(base CurrentStyle) RenderOption {
	return func(cfg *renderConfig) {
		cfg.base = base
	}
}
