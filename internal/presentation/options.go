package presentation

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithTitle sets the page title.
func WithTitle(title string) Option {
	return func(b *Builder) {
		if title != "" {
			b.title = title
		}
	}
}

// WithNoDataLabel sets the text shown for undefined metrics.
func WithNoDataLabel(label string) Option {
	return func(b *Builder) {
		if label != "" {
			b.noDataLabel = label
		}
	}
}

// WithTopN sets how many ranking and prediction rows are shown.
func WithTopN(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.topN = n
		}
	}
}
