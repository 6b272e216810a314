package approval

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/typeddata/eip712"
)

// Decision is the outcome of an approval prompt
type Decision int

const (
	Pending Decision = iota
	Approved
	Rejected
)

func (d Decision) String() string {
	switch d {
	case Approved:
		return "approved"
	case Rejected:
		return "rejected"
	}
	return "pending"
}

const (
	defaultWidth  = 80
	defaultHeight = 20
	chromeHeight  = 4 // title and help lines
)

// Model is a bubbletea model presenting one signature request
type Model struct {
	viewport viewport.Model
	content  string
	decision Decision
}

// NewModel creates a prompt for req
func NewModel(req *eip712.SignatureRequest) *Model {
	content := Render(req)
	vp := viewport.New(defaultWidth, defaultHeight)
	vp.SetContent(content)
	return &Model{
		viewport: vp,
		content:  content,
	}
}

// Decision returns the choice made so far
func (m *Model) Decision() Decision { return m.decision }

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "y", "a":
			m.decision = Approved
			return m, tea.Quit
		case "n", "r", "esc", "q", "ctrl+c":
			m.decision = Rejected
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 1)
		m.viewport.SetContent(m.content)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	switch m.decision {
	case Approved:
		return approvedStyle.Render("Signature request approved.") + "\n"
	case Rejected:
		return rejectedStyle.Render("Signature request rejected.") + "\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Signature Request"))
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ scroll • y approve • n reject"))
	return b.String()
}

// Run shows req on the terminal attached to in and out and blocks until
// the user decides or ctx is cancelled. Anything but an explicit approval
// is a rejection.
func Run(ctx context.Context, req *eip712.SignatureRequest, in io.Reader, out io.Writer) (Decision, error) {
	m := NewModel(req)
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	final, err := p.Run()
	if err != nil {
		return Rejected, err
	}
	if fm, ok := final.(*Model); ok && fm.decision == Approved {
		return Approved, nil
	}
	return Rejected, nil
}
