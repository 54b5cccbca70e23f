package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/itsatony/go-figura"
)

// VariablePrompter asks the user for the raw value of one variable.
type VariablePrompter interface {
	Ask(ctx context.Context, name string) (string, error)
}

type surveyPrompter struct{}

// newPrompter is replaced in tests, which have no terminal
var newPrompter = func() VariablePrompter { return surveyPrompter{} }

// Ask implements VariablePrompter
func (surveyPrompter) Ask(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Input{
		Message: fmt.Sprintf(PromptVariableMessage, name),
		Help:    PromptVariableHelp,
	}
	if err := survey.AskOne(prompt, &out, survey.WithValidator(survey.Required)); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", errors.New(ErrMsgPromptAborted)
		}
		return "", err
	}
	return out, nil
}

// promptMissing asks for every variable the template reads that ctx lacks
func promptMissing(ctx context.Context, p VariablePrompter, tmpl *figura.Template, vars *figura.Context) error {
	for _, name := range tmpl.Variables() {
		if vars.Has(name) {
			continue
		}
		raw, err := p.Ask(ctx, name)
		if err != nil {
			return err
		}
		value, err := parseScalar(name, raw)
		if err != nil {
			return err
		}
		vars.Set(name, value)
	}
	return nil
}
