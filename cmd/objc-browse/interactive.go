package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/objckit/objckit/bridge"
	"github.com/objckit/objckit/marshal"
	"github.com/objckit/objckit/trait"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateSelectClass modelState = iota
	stateSelectMethod
	stateInputArgs
	stateShowResult
)

type browseModel struct {
	br  *bridge.Bridge
	reg *trait.Registry

	classes  []string
	surface  []trait.Composed
	instance bridge.Object
	haveInst bool

	inputs   []textinput.Model
	selected int
	method   int
	focusIdx int
	state    modelState

	result string
	err    error
}

func newBrowseModel(br *bridge.Bridge, reg *trait.Registry) *browseModel {
	return &browseModel{
		br:      br,
		reg:     reg,
		classes: reg.Classes(),
		state:   stateSelectClass,
	}
}

type sendResultMsg struct {
	err    error
	result string
}

func (m *browseModel) Init() tea.Cmd {
	return nil
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state != stateInputArgs || msg.String() == "ctrl+c" {
				m.releaseInstance()
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectClass && m.selected > 0 {
				m.selected--
			}
			if m.state == stateSelectMethod && m.method > 0 {
				m.method--
			}

		case "down", "j":
			if m.state == stateSelectClass && m.selected < len(m.classes)-1 {
				m.selected++
			}
			if m.state == stateSelectMethod && m.method < len(m.surface)-1 {
				m.method++
			}

		case "enter":
			switch m.state {
			case stateSelectClass:
				if err := m.enterClass(); err != nil {
					m.err = err
					m.state = stateShowResult
				}

			case stateSelectMethod:
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.send
				}
				m.state = stateInputArgs

			case stateInputArgs:
				return m, m.send

			case stateShowResult:
				m.state = stateSelectMethod
				m.result = ""
				m.err = nil
				if len(m.surface) == 0 {
					m.state = stateSelectClass
				}
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateSelectMethod:
				m.releaseInstance()
				m.state = stateSelectClass
				m.surface = nil
			case stateInputArgs:
				m.state = stateSelectMethod
				m.inputs = nil
			case stateShowResult:
				m.state = stateSelectMethod
				m.result = ""
				m.err = nil
			}
		}

	case sendResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

// enterClass flattens the selected class and constructs the probe
// instance sends go to.
func (m *browseModel) enterClass() error {
	name := m.classes[m.selected]
	flat, err := m.reg.Flatten(name)
	if err != nil {
		return err
	}

	var instanceSide []trait.Composed
	for _, cm := range flat {
		if !cm.ClassMethod {
			instanceSide = append(instanceSide, cm)
		}
	}

	obj, err := m.br.NewObject(name)
	if err != nil {
		return err
	}

	m.releaseInstance()
	m.instance = obj
	m.haveInst = true
	m.surface = instanceSide
	m.method = 0
	m.state = stateSelectMethod
	return nil
}

func (m *browseModel) releaseInstance() {
	if m.haveInst {
		m.instance.Release()
		m.haveInst = false
	}
}

func (m *browseModel) prepareInputs() {
	cm := m.surface[m.method]
	segs := strings.Split(strings.TrimSuffix(cm.Sel, ":"), ":")
	m.inputs = make([]textinput.Model, len(cm.Params))
	for i, p := range cm.Params {
		ti := textinput.New()
		ti.Placeholder = p.String()
		if i < len(segs) {
			ti.Prompt = segs[i] + ": "
		} else {
			ti.Prompt = fmt.Sprintf("arg%d: ", i)
		}
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *browseModel) send() tea.Msg {
	cm := m.surface[m.method]

	args := make([]any, len(m.inputs))
	for i, input := range m.inputs {
		v, err := convertArg(input.Value(), cm.Params[i])
		if err != nil {
			return sendResultMsg{err: err}
		}
		args[i] = v
	}

	pool := m.br.Refs().PushPool()
	defer pool.Drain()

	out, err := sendMethod(m.br, m.instance.Handle(), cm.Method, args)
	if err != nil {
		return sendResultMsg{err: err}
	}
	return sendResultMsg{result: out}
}

func convertArg(value string, k marshal.Kind) (any, error) {
	switch k {
	case marshal.KindBool:
		return value == "true" || value == "1", nil
	case marshal.KindInt, marshal.KindInt8, marshal.KindInt16, marshal.KindInt32, marshal.KindInt64:
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", value, err)
		}
		return v, nil
	case marshal.KindUint, marshal.KindUint8, marshal.KindUint16, marshal.KindUint32, marshal.KindUint64:
		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", value, err)
		}
		return v, nil
	case marshal.KindFloat32, marshal.KindFloat64:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", value, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("no text form for %s arguments", k)
	}
}

func (m *browseModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("objc-browse"))
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectClass:
		b.WriteString("Select a class:\n\n")
		for i, name := range m.classes {
			cursor := "  "
			if i == m.selected {
				cursor = "> "
				b.WriteString(selectedStyle.Render(cursor + name))
			} else {
				b.WriteString(cursor + name)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter open • q quit"))

	case stateSelectMethod:
		b.WriteString(fmt.Sprintf("%s  %s\n\n",
			selStyle.Render(m.classes[m.selected]),
			helpStyle.Render(m.instance.String())))
		for i, cm := range m.surface {
			cursor := "  "
			line := m.formatMethod(cm)
			if i == m.method {
				cursor = "> "
				b.WriteString(selectedStyle.Render(cursor + line))
			} else {
				b.WriteString(cursor + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter send • esc back • q quit"))

	case stateInputArgs:
		cm := m.surface[m.method]
		b.WriteString(fmt.Sprintf("Sending %s\n\n", selStyle.Render(cm.Sel)))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(typeStyle.Render(cm.Params[i].String()))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter send • esc back"))

	case stateShowResult:
		b.WriteString("Result:\n\n")
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func (m *browseModel) formatMethod(cm trait.Composed) string {
	var params []string
	for _, p := range cm.Params {
		params = append(params, typeStyle.Render(p.String()))
	}
	sig := selStyle.Render(cm.Sel)
	if len(params) > 0 {
		sig += "(" + strings.Join(params, ", ") + ")"
	}
	return sig + " -> " + typeStyle.Render(cm.Result.String()) + "  " + helpStyle.Render(cm.Source)
}

func runInteractive(br *bridge.Bridge, reg *trait.Registry) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive mode needs a terminal")
	}
	p := tea.NewProgram(newBrowseModel(br, reg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
