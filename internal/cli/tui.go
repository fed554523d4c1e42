package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/lfom/pkg/lfom"
	"github.com/matzehuels/lfom/pkg/units"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// SDRPickerModel - Interactive dimension ratio selection
// =============================================================================

// sdrOption is one dimension-ratio class together with the pipe it yields
// for the requested flow.
type sdrOption struct {
	SDR  float64
	Pipe lfom.PipeDesign
	Err  error
}

// sdrOptions sizes the pipe once per dimension ratio.
func sdrOptions(q, hl float64, p lfom.Params, pipes lfom.PipeCatalog, sdrs []float64) []sdrOption {
	opts := make([]sdrOption, len(sdrs))
	for i, sdr := range sdrs {
		pp := p
		pp.SDR = sdr
		d, err := lfom.SizePipe(q, hl, pp, pipes)
		opts[i] = sdrOption{SDR: sdr, Pipe: d, Err: err}
	}
	return opts
}

// SDRPickerModel is the bubbletea model for interactive SDR selection.
type SDRPickerModel struct {
	Options  []sdrOption
	Cursor   int
	Selected *float64
}

// NewSDRPickerModel creates a picker with the cursor on current, if listed.
func NewSDRPickerModel(options []sdrOption, current float64) SDRPickerModel {
	m := SDRPickerModel{Options: options}
	for i, o := range options {
		if o.SDR == current {
			m.Cursor = i
		}
	}
	return m
}

func (m SDRPickerModel) Init() tea.Cmd {
	return nil
}

func (m SDRPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Options)-1 {
				m.Cursor++
			}
		case "enter":
			o := m.Options[m.Cursor]
			if o.Err != nil {
				return m, nil
			}
			sdr := o.SDR
			m.Selected = &sdr
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m SDRPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Pipe SDR"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, 0, len(m.Options))
	for i, o := range m.Options {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		pipe, inner := "—", "—"
		if o.Err == nil {
			pipe = units.FormatInches(o.Pipe.Nominal)
			inner = units.FormatLength(o.Pipe.InnerDiameter)
		}
		rows = append(rows, []string{cursor, fmt.Sprintf("%g", o.SDR), pipe, inner})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "SDR", "Pipe", "Inner ⌀").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row >= len(m.Options) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if m.Options[row].Err != nil {
				return base.Foreground(colorDim)
			}
			if row == m.Cursor {
				return base.Foreground(colorGreen).Bold(true)
			}
			return base.Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Options))))

	return b.String()
}

// pickSDR runs the picker and returns the chosen ratio, or ok=false if the
// user quit without choosing.
func pickSDR(options []sdrOption, current float64) (sdr float64, ok bool, err error) {
	final, err := tea.NewProgram(NewSDRPickerModel(options, current)).Run()
	if err != nil {
		return 0, false, err
	}
	m := final.(SDRPickerModel)
	if m.Selected == nil {
		return 0, false, nil
	}
	return *m.Selected, true, nil
}
