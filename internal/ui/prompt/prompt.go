package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ErrAborted is returned when the user cancels an interactive prompt.
var ErrAborted = errors.New("prompt aborted")

// Defines the interface for asking the user for a single value
type Prompter interface {
	// Asks for a value; an empty answer yields defaultValue
	Input(label, defaultValue string) (string, error)
}

// New returns the prompter suited to the attached input: the interactive one
// on a terminal, a plain reader otherwise.
func New(in io.Reader, out io.Writer) Prompter {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return NewTeaPrompter()
	}
	return NewReaderPrompter(in, out)
}

// Provides a line-oriented implementation of the Prompter interface using
// specified input/output streams
type ReaderPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// Creates a new ReaderPrompter with the given input and output streams
func NewReaderPrompter(in io.Reader, out io.Writer) *ReaderPrompter {
	return &ReaderPrompter{
		reader: bufio.NewReader(in),
		writer: out,
	}
}

func (p *ReaderPrompter) Input(label, defaultValue string) (string, error) {
	if defaultValue != "" {
		fmt.Fprintf(p.writer, "%s (default: %q): ", label, defaultValue)
	} else {
		fmt.Fprintf(p.writer, "%s: ", label)
	}

	line, err := p.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("error reading user input: %w", err)
	}

	value := strings.TrimSpace(line)
	if value == "" {
		return defaultValue, nil
	}
	return value, nil
}

var (
	labelStyle = lipgloss.NewStyle().Bold(true)
	hintStyle  = lipgloss.NewStyle().Faint(true)
)

// TeaPrompter renders a single-field text input in the terminal.
type TeaPrompter struct{}

func NewTeaPrompter() *TeaPrompter {
	return &TeaPrompter{}
}

func (p *TeaPrompter) Input(label, defaultValue string) (string, error) {
	final, err := tea.NewProgram(newInputModel(label, defaultValue)).Run()
	if err != nil {
		return "", fmt.Errorf("error running prompt: %w", err)
	}

	m, ok := final.(inputModel)
	if !ok || m.aborted {
		return "", ErrAborted
	}

	value := strings.TrimSpace(m.text.Value())
	if value == "" {
		return defaultValue, nil
	}
	return value, nil
}

type inputModel struct {
	text    textinput.Model
	label   string
	aborted bool
}

func newInputModel(label, defaultValue string) inputModel {
	ti := textinput.New()
	ti.Placeholder = defaultValue
	ti.Prompt = "> "
	ti.Focus()
	return inputModel{text: ti, label: label}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.text, cmd = m.text.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	return labelStyle.Render(m.label) + "\n" +
		m.text.View() + "\n" +
		hintStyle.Render("enter to accept, esc to cancel") + "\n"
}
