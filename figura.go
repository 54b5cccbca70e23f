// Package figura compiles delimiter-bounded text templates once and renders
// them many times against different variable contexts.
//
// A template is literal text with directives between an open and a close
// character, '{' and '}' by default:
//
//	Hello {name}!
//
// # Basic Usage
//
//	tmpl := figura.MustCompile("Hello {name}, you are {age}.")
//
//	ctx := figura.NewContext()
//	ctx.SetString("name", "Alice")
//	ctx.SetInt("age", 30)
//
//	out, err := tmpl.Render(ctx)
//	// out: "Hello Alice, you are 30."
//
// A compiled Template is immutable and may be rendered from many goroutines
// at once.
//
// # Directive Syntax
//
// Variable, replaced by the canonical rendering of its value:
//
//	{name}
//
// String literal, in single or double quotes:
//
//	{'text'}
//
// Repeat a pattern; the count is an integer literal or an int variable and
// counts of zero or less produce nothing:
//
//	{'*':3}        ***
//	{'-':width}
//
// Conditionals pick one of two branches. A branch is a string literal or a
// variable; only the selected branch is evaluated:
//
//	{admin ? 'root' : 'user'}
//	{!admin ? 'user' : 'root'}
//	{age >= 18 ? 'Yes' : 'No'}
//
// Comparisons are == != > < >= <=. Ints and floats compare with each other;
// other tags must match, and ordering is defined only for numbers.
//
// Any other directive body renders as the empty string. It is not an error.
//
// # Escaping
//
// A doubled delimiter character is one literal character:
//
//	a{{b}}c        a{b}c
//
// # Values
//
// Context values carry exactly one of four tags: text, int64, float64 or
// bool. Ints render in base 10, floats in the shortest form that round-trips
// and always with a fractional part ("3.0"), bools as "true" and "false".
//
// # Extending the Grammar
//
// Directive bodies are tokenized and handed to a Parser. Chain combines
// parsers so that the first match wins:
//
//	engine := figura.MustNew(figura.WithParser(figura.Chain(
//	    figura.NewDefaultParser(),
//	    figura.NewConcatParser(),   // {first + ' ' + last}
//	    figura.NewFilterParser(),   // {name | upper}
//	)))
//
// Custom directives implement Directive; custom grammars implement Parser.
//
// # Storage
//
// Templates can be kept in a TemplateStorage (memory, filesystem or
// PostgreSQL) and rendered through a StorageEngine, which caches compiled
// templates per version.
package figura
