// Package ui provides the terminal interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/config"
	"taskdeck/internal/pagination"
	"taskdeck/internal/posts"
	"taskdeck/internal/search"
	"taskdeck/internal/task"
	"taskdeck/internal/theme"
)

// Deps are the collaborators the TUI binds to. All fields are required;
// RunTUI rejects missing ones at startup rather than failing mid-session.
type Deps struct {
	Config     *config.Config
	Tasks      *task.Store
	Aggregator *posts.Aggregator
	Theme      *theme.Manager
}

func (d Deps) validate() error {
	switch {
	case d.Config == nil:
		return fmt.Errorf("ui: Config is required")
	case d.Tasks == nil:
		return fmt.Errorf("ui: Tasks is required")
	case d.Aggregator == nil:
		return fmt.Errorf("ui: Aggregator is required")
	case d.Theme == nil:
		return fmt.Errorf("ui: Theme is required")
	}
	return nil
}

// RunTUI starts the interactive terminal interface.
func RunTUI(ctx context.Context, deps Deps) error {
	if err := deps.validate(); err != nil {
		return err
	}
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	updates := make(chan search.Update, 16)
	controller := search.NewController(ctx, deps.Aggregator,
		func(u search.Update) { updates <- u },
		search.WithInterval(deps.Config.DebounceInterval()),
		search.WithPageSize(deps.Config.PostsPerPage),
	)

	model := newModel(deps, controller, updates)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type tab int

const (
	tasksTab tab = iota
	postsTab
)

type inputMode int

const (
	inputNone inputMode = iota
	inputTitle
	inputDescription
	inputSearch
)

type model struct {
	deps       Deps
	controller *search.Controller
	updates    <-chan search.Update
	styles     styles

	tab    tab
	mode   inputMode
	buffer string // text being typed in title/description mode
	title  string // captured title while describing

	// tasks view
	cursor int
	filter task.Filter

	// posts view
	result    *search.Update
	loading   bool
	statusErr string
}

type searchMsg struct {
	update search.Update
}

func newModel(deps Deps, controller *search.Controller, updates <-chan search.Update) *model {
	return &model{
		deps:       deps,
		controller: controller,
		updates:    updates,
		styles:     newStyles(deps.Theme.IsDark()),
		filter:     task.FilterAll,
	}
}

func (m *model) Init() tea.Cmd {
	m.loading = true
	m.controller.Refresh()
	return waitForUpdate(m.updates)
}

func waitForUpdate(ch <-chan search.Update) tea.Cmd {
	return func() tea.Msg {
		return searchMsg{update: <-ch}
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case searchMsg:
		m.loading = false
		u := msg.update
		m.result = &u
		if u.Err != nil {
			m.statusErr = u.Err.Error()
		} else {
			m.statusErr = ""
		}
		return m, waitForUpdate(m.updates)

	case tea.KeyMsg:
		if m.mode != inputNone {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

// updateInput handles keys while typing into the title, description, or
// search field.
func (m *model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.mode == inputSearch {
			m.loading = true
			m.controller.Clear()
		}
		m.mode = inputNone
		m.buffer = ""
		m.title = ""
		return m, nil
	case "enter":
		return m.commitInput()
	case "backspace":
		if len(m.buffer) > 0 {
			m.buffer = m.buffer[:len(m.buffer)-1]
			if m.mode == inputSearch {
				m.loading = true
				m.controller.SetQuery(m.buffer)
			}
		}
		return m, nil
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.buffer += msg.String()
			if m.mode == inputSearch {
				m.loading = true
				m.controller.SetQuery(m.buffer)
			}
		}
		return m, nil
	}
}

func (m *model) commitInput() (tea.Model, tea.Cmd) {
	switch m.mode {
	case inputTitle:
		m.title = m.buffer
		m.buffer = ""
		m.mode = inputDescription
	case inputDescription:
		if _, err := m.deps.Tasks.Add(m.title, m.buffer); err != nil {
			m.statusErr = err.Error()
		} else {
			m.statusErr = ""
		}
		m.mode = inputNone
		m.buffer = ""
		m.title = ""
	case inputSearch:
		m.loading = true
		m.controller.Submit()
		m.mode = inputNone
	}
	return m, nil
}

func (m *model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "tab":
		if m.tab == tasksTab {
			m.tab = postsTab
		} else {
			m.tab = tasksTab
		}
		return m, nil
	case "D":
		m.deps.Theme.Toggle()
		m.styles = newStyles(m.deps.Theme.IsDark())
		return m, nil
	}

	if m.tab == tasksTab {
		return m.updateTasksKeys(msg)
	}
	return m.updatePostsKeys(msg)
}

func (m *model) updateTasksKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.deps.Tasks.Filter(m.filter)
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case "a":
		m.mode = inputTitle
		m.buffer = ""
		m.statusErr = ""
	case " ", "t":
		if m.cursor < len(visible) {
			if _, err := m.deps.Tasks.ToggleCompletion(visible[m.cursor].ID); err != nil {
				m.statusErr = err.Error()
			}
		}
	case "d":
		if m.cursor < len(visible) {
			m.deps.Tasks.Remove(visible[m.cursor].ID)
			if m.cursor > 0 {
				m.cursor--
			}
		}
	case "c":
		m.deps.Tasks.ClearCompleted()
		m.cursor = 0
	case "1":
		m.filter = task.FilterAll
		m.cursor = 0
	case "2":
		m.filter = task.FilterActive
		m.cursor = 0
	case "3":
		m.filter = task.FilterCompleted
		m.cursor = 0
	}
	return m, nil
}

func (m *model) updatePostsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "/":
		m.mode = inputSearch
		m.buffer = m.controller.Raw()
	case "esc":
		m.loading = true
		m.controller.Clear()
	case "r":
		m.loading = true
		m.controller.Refresh()
	case "left", "h":
		if page := m.controller.Page(); page > 1 {
			m.loading = true
			m.controller.SetPage(page - 1)
		}
	case "right", "l":
		if m.result != nil && m.controller.Page() < m.result.Result.TotalPages {
			m.loading = true
			m.controller.SetPage(m.controller.Page() + 1)
		}
	}
	return m, nil
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("taskdeck"))
	b.WriteString("  ")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.tab == tasksTab {
		m.viewTasks(&b)
	} else {
		m.viewPosts(&b)
	}

	if m.statusErr != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.errText.Render("error: " + m.statusErr))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.dim.Render(m.footer()))
	b.WriteString("\n")
	return b.String()
}

func (m *model) renderTabs() string {
	names := []string{"Tasks", "Posts"}
	parts := make([]string, len(names))
	for i, name := range names {
		if tab(i) == m.tab {
			parts[i] = m.styles.tabActive.Render(name)
		} else {
			parts[i] = m.styles.tabInactive.Render(name)
		}
	}
	return strings.Join(parts, " ")
}

func (m *model) viewTasks(b *strings.Builder) {
	stats := m.deps.Tasks.Stats()
	b.WriteString(fmt.Sprintf("  Total: %d  Active: %d  Completed: %d (%d%%)\n\n",
		stats.Total, stats.Active, stats.Completed, stats.CompletionPercentage()))

	if m.filter != task.FilterAll {
		b.WriteString(m.styles.dim.Render(fmt.Sprintf("  Filter: %s (1 to clear)", m.filter)))
		b.WriteString("\n\n")
	}

	switch m.mode {
	case inputTitle:
		b.WriteString("  New task title: " + m.buffer + "█\n\n")
	case inputDescription:
		b.WriteString("  " + m.title + "\n  Description: " + m.buffer + "█\n\n")
	}

	visible := m.deps.Tasks.Filter(m.filter)
	if len(visible) == 0 {
		b.WriteString(m.styles.dim.Render("  No tasks. Press a to add one."))
		b.WriteString("\n")
		return
	}

	for i, t := range visible {
		marker := "[ ]"
		line := t.Title
		if t.Completed {
			marker = "[x]"
			line = m.styles.done.Render(line)
		}
		prefix := "  "
		if i == m.cursor && m.mode == inputNone {
			prefix = m.styles.selected.Render("> ")
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", prefix, marker, line))
		if t.Description != "" && i == m.cursor {
			b.WriteString(m.styles.dim.Render("      " + t.Description))
			b.WriteString("\n")
		}
	}
}

func (m *model) viewPosts(b *strings.Builder) {
	if m.mode == inputSearch {
		b.WriteString("  Search: " + m.buffer + "█\n\n")
	} else if q := m.controller.Query(); q != "" {
		b.WriteString(m.styles.dim.Render("  Search: " + q + " (esc to clear)"))
		b.WriteString("\n\n")
	}

	if m.loading {
		b.WriteString("  Loading...\n")
		return
	}
	if m.result == nil {
		return
	}
	res := m.result.Result
	if len(res.Data) == 0 {
		b.WriteString(m.styles.dim.Render("  No posts found."))
		b.WriteString("\n")
		return
	}

	for _, p := range res.Data {
		author := "unknown"
		if p.User != nil {
			author = p.User.Name
		}
		b.WriteString("  " + m.styles.postTitle.Render(p.Title) + "\n")
		b.WriteString(m.styles.dim.Render(fmt.Sprintf("    #%d by %s", p.ID, author)))
		b.WriteString("\n")
	}

	if res.TotalPages > 1 {
		b.WriteString("\n  " + m.renderPagination(res) + "\n")
	}
}

func (m *model) renderPagination(res posts.PageResult[posts.EnrichedPost]) string {
	window := pagination.Window(res.Page, res.TotalPages, pagination.DefaultMaxVisible)
	parts := make([]string, 0, len(window)+2)
	parts = append(parts, m.styles.dim.Render("«"))
	for _, p := range window {
		label := fmt.Sprintf("%d", p)
		if p == res.Page {
			parts = append(parts, m.styles.pageActive.Render(label))
		} else {
			parts = append(parts, m.styles.dim.Render(label))
		}
	}
	parts = append(parts, m.styles.dim.Render("»"))
	parts = append(parts, m.styles.dim.Render(fmt.Sprintf(" page %d/%d, %d posts", res.Page, res.TotalPages, res.Total)))
	return strings.Join(parts, " ")
}

func (m *model) footer() string {
	if m.mode != inputNone {
		return "enter confirm | esc cancel"
	}
	if m.tab == tasksTab {
		return "a add | space toggle | d delete | c clear done | 1/2/3 filter | tab posts | D theme | q quit"
	}
	return "/ search | h/l pages | r refresh | esc clear | tab tasks | D theme | q quit"
}

// IsTTY returns true if the writer is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
