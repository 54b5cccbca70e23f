package internal

import (
	"go.uber.org/zap"
)

// CompilerConfig holds compiler configuration
type CompilerConfig struct {
	Open  rune
	Close rune
}

// DefaultCompilerConfig returns the default compiler configuration
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{Open: '{', Close: '}'}
}

// Validate checks both delimiters
func (c CompilerConfig) Validate() error {
	if err := ValidateDelimiter(c.Open); err != nil {
		return err
	}
	return ValidateDelimiter(c.Close)
}

// Compiler scans, lexes and parses template source into a Program.
type Compiler struct {
	config CompilerConfig
	parser Parser
	logger *zap.Logger
}

// NewCompiler creates a compiler. A nil parser selects DefaultParser.
func NewCompiler(config CompilerConfig, parser Parser, logger *zap.Logger) *Compiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if parser == nil {
		parser = NewDefaultParser()
	}
	logger.Debug(LogMsgCompilerCreated,
		zap.String(LogFieldOpen, string(config.Open)),
		zap.String(LogFieldClose, string(config.Close)))
	return &Compiler{config: config, parser: parser, logger: logger}
}

// Compile builds a program from source. Compilation is all or nothing.
func (c *Compiler) Compile(source string) (*Program, error) {
	c.logger.Debug(LogMsgCompileStart, zap.Int(LogFieldSource, len(source)))

	segments, err := NewScanner(source, c.config.Open, c.config.Close).Scan()
	if err != nil {
		return nil, err
	}
	c.logger.Debug(LogMsgScanComplete, zap.Int(LogFieldSegments, len(segments)))

	prog := &Program{
		Nodes: make([]Node, 0, len(segments)),
		Open:  c.config.Open,
		Close: c.config.Close,
	}
	for _, seg := range segments {
		if seg.Kind == SegmentLiteral {
			prog.Nodes = append(prog.Nodes, NewTextNode(seg.Text, seg.Position))
			prog.literalLen += seg.Text.Len()
			continue
		}

		tokens := Tokenize(seg.Body)
		d, ok := c.parser.Parse(tokens)
		if !ok || d == nil {
			c.logger.Debug(LogMsgDirectiveEmpty,
				zap.Int(LogFieldOffset, seg.Position.Offset),
				zap.String(LogFieldDirective, seg.Body))
			d = EmptyDirective{}
		} else {
			c.logger.Debug(LogMsgDirectiveParsed,
				zap.Int(LogFieldOffset, seg.Position.Offset),
				zap.Int(LogFieldTokens, len(tokens)))
		}
		prog.Nodes = append(prog.Nodes, NewDirectiveNode(seg.Body, d, seg.Position))
		prog.directives++
	}

	c.logger.Debug(LogMsgCompileEnd, zap.Int(LogFieldSegments, len(prog.Nodes)))
	return prog, nil
}
