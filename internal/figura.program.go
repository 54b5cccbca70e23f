package internal

import (
	"fmt"
	"strings"
)

// NodeType identifies a program node
type NodeType uint8

// Node types
const (
	NodeTypeText NodeType = iota
	NodeTypeDirective
)

// Node is one element of a compiled program
type Node interface {
	// Type returns the node type identifier
	Type() NodeType
	// Pos returns the source position of this node
	Pos() Position
	// String returns a human-readable representation
	String() string
}

// TextNode is literal template text
type TextNode struct {
	pos  Position
	Text Text
}

// NewTextNode creates a new text node
func NewTextNode(text Text, pos Position) *TextNode {
	return &TextNode{pos: pos, Text: text}
}

// Type returns NodeTypeText
func (n *TextNode) Type() NodeType { return NodeTypeText }

// Pos returns the source position
func (n *TextNode) Pos() Position { return n.pos }

// String returns a string representation
func (n *TextNode) String() string {
	return fmt.Sprintf("TextNode{%q @ %s}", n.Text.String(), n.pos)
}

// DirectiveNode is a parsed directive with the body it came from
type DirectiveNode struct {
	pos       Position
	Body      string
	Directive Directive
}

// NewDirectiveNode creates a new directive node
func NewDirectiveNode(body string, d Directive, pos Position) *DirectiveNode {
	return &DirectiveNode{pos: pos, Body: body, Directive: d}
}

// Type returns NodeTypeDirective
func (n *DirectiveNode) Type() NodeType { return NodeTypeDirective }

// Pos returns the source position
func (n *DirectiveNode) Pos() Position { return n.pos }

// String returns a string representation
func (n *DirectiveNode) String() string {
	return fmt.Sprintf("DirectiveNode{%q %T @ %s}", n.Body, n.Directive, n.pos)
}

// Program is the immutable result of compiling a template.
type Program struct {
	Nodes      []Node
	Open       rune
	Close      rune
	literalLen int
	directives int
}

// LiteralLen returns the total byte length of the literal text
func (p *Program) LiteralLen() int { return p.literalLen }

// DirectiveCount returns the number of directive nodes
func (p *Program) DirectiveCount() int { return p.directives }

// Variables returns the distinct variable names referenced by directives
// that implement VariableLister, in order of first use.
func (p *Program) Variables() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, n := range p.Nodes {
		dn, ok := n.(*DirectiveNode)
		if !ok {
			continue
		}
		lister, ok := dn.Directive.(VariableLister)
		if !ok {
			continue
		}
		for _, name := range lister.Variables() {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	return names
}

// String returns a string representation of the program
func (p *Program) String() string {
	var sb strings.Builder
	sb.WriteString("Program{\n")
	for i, n := range p.Nodes {
		sb.WriteString(fmt.Sprintf("  [%d] %s\n", i, n.String()))
	}
	sb.WriteString("}")
	return sb.String()
}
