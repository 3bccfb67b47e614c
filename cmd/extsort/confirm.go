package main

import (
	"fmt"
	"io"

	"extsort/cmd/extsort/cli"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// confirmKeyMap defines the keybindings of the confirmation prompt
type confirmKeyMap struct {
	Yes key.Binding
	No  key.Binding
}

func (k confirmKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Yes, k.No}
}

func (k confirmKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var confirmKeys = confirmKeyMap{
	Yes: key.NewBinding(
		key.WithKeys("y", "Y"),
		key.WithHelp("y", "move files"),
	),
	No: key.NewBinding(
		key.WithKeys("n", "N", "enter", "esc", "q", "ctrl+c"),
		key.WithHelp("n/enter", "cancel"),
	),
}

// confirmModel is a yes/no prompt. Anything but an explicit yes declines.
type confirmModel struct {
	question  string
	keys      confirmKeyMap
	help      help.Model
	confirmed bool
	done      bool
}

func newConfirmModel(question string) confirmModel {
	return confirmModel{question: question, keys: confirmKeys, help: help.New()}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Yes):
		m.confirmed = true
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.No):
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		answer := "no"
		if m.confirmed {
			answer = "yes"
		}
		return fmt.Sprintf("%s %s\n", m.question, answer)
	}
	return fmt.Sprintf("%s %s\n%s", m.question, cli.StatusStyle.Render("[y/N]"), m.help.View(m.keys))
}

// confirm asks question on the terminal and reports whether it was accepted
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	p := tea.NewProgram(newConfirmModel(question), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("error running prompt: %w", err)
	}
	return final.(confirmModel).confirmed, nil
}
