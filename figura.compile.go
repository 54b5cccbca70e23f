package figura

// Compile compiles source with the given delimiters and parser. A nil parser
// selects the default grammar. Each call builds a throwaway Engine; use an
// Engine directly to compile many templates with the same settings.
func Compile(source string, open, close rune, parser Parser) (*Template, error) {
	engine, err := New(WithDelimiters(open, close), WithParser(parser))
	if err != nil {
		return nil, err
	}
	return engine.Compile(source)
}

// MustCompile compiles source with the default delimiters and grammar and
// panics on error. It is meant for package-level template variables.
func MustCompile(source string) *Template {
	tmpl, err := Compile(source, DefaultOpenDelim, DefaultCloseDelim, nil)
	if err != nil {
		panic(err)
	}
	return tmpl
}
