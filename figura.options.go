package figura

import (
	"go.uber.org/zap"
)

// Option is a functional option for configuring the Engine.
type Option func(*engineConfig)

// engineConfig holds the internal configuration for an Engine.
type engineConfig struct {
	open            rune
	close           rune
	parser          Parser
	maxRepeatLength int64
	logger          *zap.Logger
}

// defaultEngineConfig returns the default engine configuration.
func defaultEngineConfig() *engineConfig {
	return &engineConfig{
		open:            DefaultOpenDelim,
		close:           DefaultCloseDelim,
		maxRepeatLength: DefaultMaxRepeatLength,
	}
}

// WithDelimiters sets the directive delimiters. Open and close may be the
// same character.
// Default: '{' and '}'
func WithDelimiters(open, close rune) Option {
	return func(c *engineConfig) {
		c.open = open
		c.close = close
	}
}

// WithParser replaces the directive grammar for every template the engine
// compiles. Use Chain to combine the default grammar with extensions.
// Default: DefaultParser
func WithParser(p Parser) Option {
	return func(c *engineConfig) {
		c.parser = p
	}
}

// WithMaxRepeatLength caps the output of a single repeat directive built by
// the default parser. It has no effect when WithParser is used; configure the
// DefaultParser passed there instead.
// Default: 64 MiB
func WithMaxRepeatLength(n int64) Option {
	return func(c *engineConfig) {
		c.maxRepeatLength = n
	}
}

// WithLogger sets the logger for the engine.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *engineConfig) {
		c.logger = logger
	}
}
