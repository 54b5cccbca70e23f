package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/itsatony/go-figura"
	"gopkg.in/yaml.v3"
)

// readInput reads content from a file or stdin
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == InputSourceStdin {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

// writeOutput writes content to a file or stdout
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == FlagDefaultOutput {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, FilePermissions)
}

// writeJSON writes v as indented JSON followed by a newline
func writeJSON(w io.Writer, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", JSONIndent)
	if err != nil {
		return fmt.Errorf(FmtErrorWrap, ErrMsgEncodeJSONFailed, err)
	}
	_, err = fmt.Fprintln(w, string(jsonBytes))
	return err
}

// varFlags collects repeated --var name=value assignments
type varFlags []string

func (v *varFlags) String() string { return strings.Join(*v, " ") }

func (v *varFlags) Set(s string) error {
	if !strings.Contains(s, VarAssignment) || strings.HasPrefix(s, VarAssignment) {
		return errors.New(ErrMsgInvalidVar)
	}
	*v = append(*v, s)
	return nil
}

// engineFlags are the grammar settings shared by render and validate
type engineFlags struct {
	open    string
	close   string
	filters bool
}

func (f *engineFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.open, FlagOpen, FlagDefaultOpen, "")
	fs.StringVar(&f.close, FlagClose, FlagDefaultClose, "")
	fs.BoolVar(&f.filters, FlagFilters, false, "")
}

func (f *engineFlags) delimiters() (open, close rune, err error) {
	if open, err = singleRune(f.open); err != nil {
		return 0, 0, err
	}
	if close, err = singleRune(f.close); err != nil {
		return 0, 0, err
	}
	return open, close, nil
}

func (f *engineFlags) parser() figura.Parser {
	if f.filters {
		return figura.StandardParser()
	}
	return figura.NewDefaultParser()
}

func singleRune(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, errors.New(ErrMsgInvalidDelimiter)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// loadContext builds the render context from a data file or inline data.
// The file wins when both are given.
func loadContext(inline, filePath string) (*figura.Context, error) {
	switch {
	case filePath != "":
		return figura.LoadContextFile(filePath)
	case inline != "":
		return figura.LoadContextYAML([]byte(inline))
	default:
		return figura.NewContext(), nil
	}
}

// applyVars sets each name=value assignment on ctx, overriding loaded data
func applyVars(ctx *figura.Context, vars []string) error {
	for _, assignment := range vars {
		name, raw, _ := strings.Cut(assignment, VarAssignment)
		value, err := parseScalar(name, raw)
		if err != nil {
			return err
		}
		ctx.Set(name, value)
	}
	return nil
}

// parseScalar reads raw as a YAML scalar so "3" is an int and "true" a bool.
// Anything that is not a scalar is kept as text.
func parseScalar(name, raw string) (figura.Value, error) {
	var decoded any
	if err := yaml.Unmarshal([]byte(raw), &decoded); err != nil || decoded == nil {
		return figura.StringValue(raw), nil
	}
	switch decoded.(type) {
	case map[string]any, []any:
		return figura.StringValue(raw), nil
	}
	return figura.ValueOf(name, decoded)
}
