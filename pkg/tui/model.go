// Package tui is the interactive terminal front end: pick a template, type the
// keyword and a list file, and write the expanded table next to the template.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/walteh/csvexpand/pkg/codec"
	"github.com/walteh/csvexpand/pkg/locality"
)

type state int

const (
	statePickTemplate state = iota
	stateKeyword
	stateList
	stateProcessing
	stateComplete
	stateError
)

// Options seeds the model
type Options struct {
	Dir        string // starting directory of the file picker
	Keyword    string // prefilled keyword
	Suffix     string
	ReplaceAll bool
}

type Model struct {
	ctx          context.Context
	state        state
	filepicker   filepicker.Model
	keyword      textinput.Model
	list         textinput.Model
	progress     progress.Model
	job          Job
	result       *Result
	err          error
	width        int
	height       int
	progressChan chan float64
	resultChan   chan jobResultMsg
}

type jobResultMsg struct {
	result *Result
	err    error
}

type jobCompleteMsg jobResultMsg

type progressMsg float64

type waitForProgressMsg struct{}

func InitialModel(ctx context.Context, opts Options) Model {
	fp := filepicker.New()
	for _, name := range codec.Names() {
		c, _ := codec.ByName(name)
		fp.AllowedTypes = append(fp.AllowedTypes, c.Extension())
	}
	fp.CurrentDirectory = opts.Dir
	if fp.CurrentDirectory == "" {
		fp.CurrentDirectory, _ = os.Getwd()
	}
	fp.Styles.Cursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#2E86DE"))
	fp.Styles.Directory = lipgloss.NewStyle().Foreground(lipgloss.Color("#54A0FF"))
	fp.Styles.Selected = lipgloss.NewStyle().Foreground(lipgloss.Color("#2E86DE")).Bold(true)

	kw := textinput.New()
	kw.Placeholder = "Toledo"
	kw.SetValue(opts.Keyword)
	kw.CharLimit = 128

	list := textinput.New()
	list.Placeholder = fmt.Sprintf("vacío = %s", locality.DefaultList)
	list.CharLimit = 512

	return Model{
		ctx:        ctx,
		state:      statePickTemplate,
		filepicker: fp,
		keyword:    kw,
		list:       list,
		progress:   progress.New(progress.WithGradient("#2E86DE", "#10AC84")),
		job: Job{
			Suffix:     opts.Suffix,
			ReplaceAll: opts.ReplaceAll,
		},
	}
}

func (m Model) Init() tea.Cmd {
	return m.filepicker.Init()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		height := msg.Height - 14
		if height < 5 {
			height = 5
		}
		m.filepicker.SetHeight(height)
		m.progress.Width = min(60, max(20, msg.Width-10))
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.state {
		case statePickTemplate:
			if msg.String() == "q" {
				return m, tea.Quit
			}

		case stateKeyword:
			switch msg.String() {
			case "esc":
				return m, tea.Quit
			case "enter":
				kw := strings.TrimSpace(m.keyword.Value())
				if kw == "" {
					return m, nil
				}
				m.job.Keyword = kw
				m.keyword.Blur()
				m.state = stateList
				return m, m.list.Focus()
			}
			var cmd tea.Cmd
			m.keyword, cmd = m.keyword.Update(msg)
			return m, cmd

		case stateList:
			switch msg.String() {
			case "esc":
				m.list.Blur()
				m.state = stateKeyword
				return m, m.keyword.Focus()
			case "enter":
				m.job.ListFile = strings.TrimSpace(m.list.Value())
				m.list.Blur()
				m.state = stateProcessing
				return m.startJob()
			}
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd

		case stateComplete, stateError:
			switch msg.String() {
			case "q", "enter", "esc":
				return m, tea.Quit
			}
		}

	case jobCompleteMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.result = msg.result
		m.state = stateComplete
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case progressMsg:
		if m.state == stateProcessing {
			cmd := m.progress.SetPercent(float64(msg))
			return m, tea.Batch(cmd, waitForProgress(m.progressChan, m.resultChan))
		}
		return m, nil

	case waitForProgressMsg:
		return m, waitForProgress(m.progressChan, m.resultChan)
	}

	if m.state == statePickTemplate {
		var cmd tea.Cmd
		m.filepicker, cmd = m.filepicker.Update(msg)

		if didSelect, path := m.filepicker.DidSelectFile(msg); didSelect {
			m.job.Template = path
			m.state = stateKeyword
			return m, m.keyword.Focus()
		}
		return m, cmd
	}

	return m, nil
}

func (m Model) startJob() (Model, tea.Cmd) {
	m.progressChan = make(chan float64, 100)
	m.resultChan = make(chan jobResultMsg, 1)

	ctx := m.ctx
	job := m.job
	progressChan := m.progressChan
	resultChan := m.resultChan

	go func() {
		result, err := RunJob(ctx, job, progressChan)
		resultChan <- jobResultMsg{result: result, err: err}
		close(progressChan)
		close(resultChan)
	}()

	return m, tea.Batch(
		waitForProgress(progressChan, resultChan),
		m.progress.Init(),
	)
}

func waitForProgress(progressChan chan float64, resultChan chan jobResultMsg) tea.Cmd {
	return func() tea.Msg {
		if progressChan == nil {
			return nil
		}

		p, ok := <-progressChan
		if !ok {
			res, ok := <-resultChan
			if ok {
				return jobCompleteMsg(res)
			}
			return nil
		}

		return progressMsg(p)
	}
}

func (m Model) View() string {
	switch m.state {
	case statePickTemplate:
		return m.viewPicker()
	case stateKeyword, stateList:
		return m.viewInputs()
	case stateProcessing:
		return m.viewProcessing()
	case stateComplete:
		return m.viewComplete()
	case stateError:
		return m.viewError()
	}
	return ""
}

func (m Model) viewPicker() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("◆ csvexpand"))
	s.WriteString("\n")
	s.WriteString(SubtitleStyle.Render("Selecciona una plantilla (" + strings.Join(m.filepicker.AllowedTypes, ", ") + ")"))
	s.WriteString("\n\n")
	s.WriteString(m.filepicker.View())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("q: salir"))

	return s.String()
}

func (m Model) viewInputs() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("◆ " + filepath.Base(m.job.Template)))
	s.WriteString("\n\n")
	s.WriteString(LabelStyle.Render("Palabra clave"))
	s.WriteString("\n")
	s.WriteString(m.keyword.View())
	s.WriteString("\n\n")
	if m.state == stateList {
		s.WriteString(LabelStyle.Render("Lista de localidades"))
		s.WriteString("\n")
		s.WriteString(m.list.View())
		s.WriteString("\n")
	}
	s.WriteString(HelpStyle.Render("enter: continuar • esc: volver • ctrl+c: salir"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewProcessing() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("◆ Procesando..."))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("Sustituyendo %q en %s", m.job.Keyword, filepath.Base(m.job.Template)))
	s.WriteString("\n\n")
	s.WriteString(m.progress.View())

	return BoxStyle.Render(s.String())
}

func (m Model) viewComplete() string {
	var s strings.Builder

	s.WriteString(TitleStyle.Render("✓ Listo"))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("Plantilla: %s\n", truncatePath(m.result.Input, m.width)))
	s.WriteString(SuccessStyle.Render(fmt.Sprintf("Salida:    %s (%s)", truncatePath(m.result.Output, m.width), m.result.Status)))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("Lista: %s (%d)\n", m.result.List, m.result.Replacements))
	s.WriteString(fmt.Sprintf("Filas: %d\n", m.result.Rows))
	s.WriteString(HelpStyle.Render("enter: salir"))

	return BoxStyle.Render(s.String())
}

func (m Model) viewError() string {
	var s strings.Builder

	s.WriteString(ErrorStyle.Render("✗ Error"))
	s.WriteString("\n\n")
	s.WriteString(m.err.Error())
	s.WriteString("\n\n")
	s.WriteString(HelpStyle.Render("enter: salir"))

	return BoxStyle.Render(s.String())
}

func truncatePath(p string, width int) string {
	maxLen := width - 20
	if maxLen < 30 {
		maxLen = 30
	}
	if len(p) > maxLen {
		return "..." + p[len(p)-maxLen+3:]
	}
	return p
}
