package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ScenarioInfo is one entry of the scenario menu.
type ScenarioInfo struct {
	Name        string
	Description string
}

// Launcher builds the live view for a scenario.
type Launcher func(name string) (Model, error)

const (
	stateMenu = iota
	stateSim
)

type picker struct {
	state, cursor int
	items         []ScenarioInfo
	launch        Launcher
	live          Model
	err           error
	theme         Theme
	size          *tea.WindowSizeMsg
}

// NewPicker returns a menu that starts the live view of the chosen scenario.
func NewPicker(items []ScenarioInfo, launch Launcher, theme string) tea.Model {
	return picker{
		state:  stateMenu,
		items:  items,
		launch: launch,
		theme:  GetTheme(theme),
	}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = &msg
	case tea.KeyMsg:
		if m.state == stateMenu {
			return m.menuKey(msg)
		}
	}

	if m.state == stateSim {
		live, cmd := m.live.Update(msg)
		m.live = live.(Model)
		return m, cmd
	}
	return m, nil
}

func (m picker) menuKey(msg tea.KeyMsg) (picker, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.items) == 0 {
			return m, nil
		}
		return m.start(m.items[m.cursor].Name)
	}
	return m, nil
}

func (m picker) start(name string) (picker, tea.Cmd) {
	live, err := m.launch(name)
	if err != nil {
		m.err = err
		return m, nil
	}
	if m.size != nil {
		live.resize(m.size.Width, m.size.Height)
	}
	m.live, m.err = live, nil
	m.state = stateSim
	return m, m.live.Init()
}

func (m picker) View() string {
	if m.state == stateSim {
		return m.live.View()
	}

	st := m.theme.styles()
	var b strings.Builder
	b.WriteString("\n\n    " + st.header.Render("ORBITSIM") + "\n")
	b.WriteString("    " + st.item.Render("choose a scenario") + "\n\n")

	for i, it := range m.items {
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n",
				st.running.Render("▸"),
				st.selected.Render(fmt.Sprintf("%-14s", it.Name)),
				st.value.Render(it.Description)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n",
				st.item.Render(fmt.Sprintf("%-14s", it.Name)),
				st.item.Render(it.Description)))
		}
	}

	if m.err != nil {
		b.WriteString("\n    " + st.paused.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + st.help.Render("j/k navigate  enter select  q quit") + "\n")
	return b.String()
}

// RunPicker runs the scenario menu full-screen.
func RunPicker(items []ScenarioInfo, launch Launcher, theme string, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	_, err := tea.NewProgram(NewPicker(items, launch, theme), opts...).Run()
	return err
}
