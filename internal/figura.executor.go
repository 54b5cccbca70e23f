package internal

import (
	"strings"

	"go.uber.org/zap"
)

// Executor renders compiled programs. It holds no per-render state and may be
// shared between goroutines.
type Executor struct {
	logger *zap.Logger
}

// NewExecutor creates a new executor
func NewExecutor(logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgExecutorCreated)
	return &Executor{logger: logger}
}

// Execute renders prog against ctx. The first failing directive aborts the
// render and no partial output is returned. A nil ctx behaves as empty.
func (e *Executor) Execute(prog *Program, ctx *Context) (string, error) {
	e.logger.Debug(LogMsgExecutorStart, zap.Int(LogFieldSegments, len(prog.Nodes)))

	// A lone literal needs no buffer.
	if len(prog.Nodes) == 1 {
		if tn, ok := prog.Nodes[0].(*TextNode); ok {
			return tn.Text.String(), nil
		}
	}

	var sb strings.Builder
	sb.Grow(prog.literalLen + prog.directives*estimatedDirectiveLen)

	for _, n := range prog.Nodes {
		switch node := n.(type) {
		case *TextNode:
			sb.WriteString(node.Text.String())
		case *DirectiveNode:
			out, err := node.Directive.Exec(ctx)
			if err != nil {
				e.logger.Debug(LogMsgExecutorFailed,
					zap.Int(LogFieldOffset, node.pos.Offset),
					zap.String(LogFieldDirective, node.Body),
					zap.Error(err))
				return "", NewRenderError(node.Body, node.pos, err)
			}
			sb.WriteString(out.String())
		}
	}

	e.logger.Debug(LogMsgExecutorEnd, zap.Int(LogFieldOutput, sb.Len()))
	return sb.String(), nil
}

// estimatedDirectiveLen is the per-directive allowance when presizing output
const estimatedDirectiveLen = 16
