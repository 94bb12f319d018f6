// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package tui

import (
	"fmt"
	"reflect"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// promptModel drives a single prompt until the answer validates or the user
// cancels.
type promptModel struct {
	prompt   Prompt
	validate Validator
	answer   interface{}
	done     bool
	err      error
}

func (m *promptModel) Init() tea.Cmd {
	return nil
}

func (m *promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			m.err = fmt.Errorf("cancelled by user")
			return m, tea.Quit

		case "enter":
			if m.validate != nil {
				if err := m.validate(m.prompt.Value()); err != nil {
					m.prompt.SetError(err.Error())
					return m, nil
				}
			}

			m.prompt.SetError("")
			m.answer = m.prompt.Value()
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *promptModel) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.prompt.Render())
	b.WriteString("\n\n")

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true)
	b.WriteString(footerStyle.Render("Press Enter to confirm, Ctrl+C to cancel"))

	return b.String()
}

// AskOne runs a single prompt and assigns the answer
func AskOne(prompt Prompt, answer interface{}, validators ...Validator) error {
	model := &promptModel{prompt: prompt}
	if len(validators) > 0 {
		model.validate = ComposeValidators(validators...)
	}

	finalModel, err := tea.NewProgram(model).Run()
	if err != nil {
		return fmt.Errorf("failed to run prompt: %w", err)
	}

	result := finalModel.(*promptModel)
	if result.err != nil {
		return result.err
	}
	if !result.done {
		return fmt.Errorf("no answer received")
	}

	return assignValue(answer, result.answer)
}

// assignValue assigns a value to a pointer target
func assignValue(target interface{}, value interface{}) error {
	targetValue := reflect.ValueOf(target)
	if targetValue.Kind() != reflect.Ptr {
		return fmt.Errorf("target must be a pointer")
	}

	targetValue = targetValue.Elem()
	sourceValue := reflect.ValueOf(value)

	if !sourceValue.Type().AssignableTo(targetValue.Type()) {
		if !sourceValue.Type().ConvertibleTo(targetValue.Type()) {
			return fmt.Errorf("cannot assign %T to %T", value, target)
		}
		sourceValue = sourceValue.Convert(targetValue.Type())
	}

	targetValue.Set(sourceValue)
	return nil
}
