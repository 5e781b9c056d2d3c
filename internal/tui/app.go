// Package tui is the terminal front end: a commit list, the files
// changed by the selected commit, and the selected file's diff.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/commitlens/commitlens/internal/diffview"
	"github.com/commitlens/commitlens/internal/git"
	"github.com/commitlens/commitlens/internal/prefs"
)

type focusPane int

const (
	focusCommits focusPane = iota
	focusFiles
	focusDiff
)

const (
	sidebarWidth = 36
	chromeHeight = 2 // status bar + pane borders share the rest
)

// Model is the application state.
type Model struct {
	repo  *git.Repo
	info  git.RepoInfo
	ctrl  *diffview.Controller
	store *prefs.Store

	viewMode prefs.ViewMode
	limit    int

	commits        []git.Commit
	selectedCommit int
	files          []git.ChangedFile
	selectedFile   int

	focus         focusPane
	width, height int
	ready         bool
	diffViewport  viewport.Model

	err error
}

// New builds the application model. The caller wires the controller's
// OnChange to the running program, forwarding DiffUpdatedMsg.
func New(repo *git.Repo, info git.RepoInfo, ctrl *diffview.Controller, store *prefs.Store, mode prefs.ViewMode, limit int) Model {
	return Model{
		repo:     repo,
		info:     info,
		ctrl:     ctrl,
		store:    store,
		viewMode: mode,
		limit:    limit,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.loadCommits()
}

func (m Model) loadCommits() tea.Cmd {
	repo, limit := m.repo, m.limit
	return func() tea.Msg {
		commits, err := repo.ListCommits(limit)
		return commitsLoadedMsg{Commits: commits, Err: err}
	}
}

func (m Model) loadFiles(commitID string) tea.Cmd {
	repo := m.repo
	return func() tea.Msg {
		files, err := repo.CommitFiles(commitID)
		return filesLoadedMsg{CommitID: commitID, Files: files, Err: err}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewport()
		m.ready = true
		m.refreshDiff()
		return m, nil

	case commitsLoadedMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.commits = msg.Commits
		m.selectedCommit = 0
		m.files = nil
		m.selectedFile = 0
		if len(m.commits) == 0 {
			return m, nil
		}
		return m, m.loadFiles(m.commits[0].ID)

	case filesLoadedMsg:
		// Drop results for a commit the user has moved past.
		if len(m.commits) == 0 || msg.CommitID != m.commits[m.selectedCommit].ID {
			return m, nil
		}
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.files = msg.Files
		m.selectedFile = 0
		m.selectCurrentFile()
		return m, nil

	case DiffUpdatedMsg:
		m.refreshDiff()
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "tab", "l", "right":
		m.focus = (m.focus + 1) % 3
		return m, nil

	case "shift+tab", "h", "left":
		m.focus = (m.focus + 2) % 3
		return m, nil

	case "v":
		m.viewMode = m.viewMode.Toggle()
		if m.store != nil {
			// Best effort; the toggle still applies this session.
			_ = m.store.Set(m.viewMode)
		}
		m.refreshDiff()
		return m, nil

	case "j", "down":
		return m.moveSelection(1)

	case "k", "up":
		return m.moveSelection(-1)

	case "ctrl+d":
		m.diffViewport.HalfViewDown()
		return m, nil

	case "ctrl+u":
		m.diffViewport.HalfViewUp()
		return m, nil

	case "g":
		if m.focus == focusDiff {
			m.diffViewport.GotoTop()
		}
		return m, nil

	case "G":
		if m.focus == focusDiff {
			m.diffViewport.GotoBottom()
		}
		return m, nil
	}
	return m, nil
}

func (m Model) moveSelection(delta int) (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusCommits:
		if len(m.commits) == 0 {
			return m, nil
		}
		idx := clamp(m.selectedCommit+delta, 0, len(m.commits)-1)
		if idx == m.selectedCommit {
			return m, nil
		}
		m.selectedCommit = idx
		m.files = nil
		m.selectedFile = 0
		m.ctrl.Select(diffview.Selection{RepoPath: m.repo.Dir, CommitID: m.commits[idx].ID})
		return m, m.loadFiles(m.commits[idx].ID)

	case focusFiles:
		if len(m.files) == 0 {
			return m, nil
		}
		idx := clamp(m.selectedFile+delta, 0, len(m.files)-1)
		if idx == m.selectedFile {
			return m, nil
		}
		m.selectedFile = idx
		m.selectCurrentFile()
		return m, nil

	case focusDiff:
		if delta > 0 {
			m.diffViewport.ScrollDown(1)
		} else {
			m.diffViewport.ScrollUp(1)
		}
	}
	return m, nil
}

// selectCurrentFile pushes the current commit/file pair into the diff
// controller.
func (m *Model) selectCurrentFile() {
	sel := diffview.Selection{RepoPath: m.repo.Dir}
	if len(m.commits) > 0 {
		sel.CommitID = m.commits[m.selectedCommit].ID
	}
	if len(m.files) > 0 {
		sel.FilePath = m.files[m.selectedFile].Path
	}
	m.ctrl.Select(sel)
}

func (m *Model) resizeViewport() {
	w := m.diffWidth()
	h := max(m.height-chromeHeight-2, 1)
	if m.diffViewport.Width == 0 {
		m.diffViewport = viewport.New(w, h)
	} else {
		m.diffViewport.Width = w
		m.diffViewport.Height = h
	}
}

func (m Model) diffWidth() int {
	return max(m.width-sidebarWidth-4, 20)
}

// refreshDiff rebuilds the diff viewport from the controller state.
func (m *Model) refreshDiff() {
	if !m.ready {
		return
	}
	st := m.ctrl.State()
	var content string
	switch st.Phase {
	case diffview.PhaseIdle:
		content = mutedStyle.Render("Select a file to view its diff")
	case diffview.PhaseLoading:
		content = mutedStyle.Render("Loading…")
	case diffview.PhaseFailed:
		content = deleteStyle.Render("Error: " + st.Err)
	case diffview.PhaseLoaded:
		rendered, err := renderDiff(*st.Diff, m.viewMode, m.diffViewport.Width)
		if err != nil {
			content = deleteStyle.Render("Error: " + err.Error())
		} else {
			content = rendered
		}
	}
	m.diffViewport.SetContent(content)
	m.diffViewport.GotoTop()
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}
	if m.err != nil {
		return deleteStyle.Render("Error: "+m.err.Error()) + "\n"
	}

	sidebarH := (m.height - chromeHeight) / 2
	commitsPane := m.renderCommitsPane(sidebarWidth, sidebarH)
	filesPane := m.renderFilesPane(sidebarWidth, m.height-chromeHeight-sidebarH)
	sidebar := lipgloss.JoinVertical(lipgloss.Left, commitsPane, filesPane)

	diffPane := paneBorder(m.focus == focusDiff).
		Width(m.diffWidth()).
		Height(m.height - chromeHeight - 2).
		Render(m.diffViewport.View())

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, diffPane)
	return lipgloss.JoinVertical(lipgloss.Left, body, m.statusBar())
}

func (m Model) renderCommitsPane(width, height int) string {
	inner := height - 2
	var lines []string
	lines = append(lines, titleStyle.Render(truncate(m.info.Name+" @ "+m.info.Branch, width-2)))
	top := scrollTop(m.selectedCommit, inner-1, len(m.commits))
	for i := top; i < len(m.commits) && len(lines) < inner; i++ {
		c := m.commits[i]
		line := truncate(c.ID[:min(7, len(c.ID))]+" "+c.Message, width-2)
		if i == m.selectedCommit {
			line = selectedStyle.Render(pad(line, width-2))
		}
		lines = append(lines, line)
	}
	if len(m.commits) == 0 {
		lines = append(lines, mutedStyle.Render("No commits"))
	}
	return paneBorder(m.focus == focusCommits).
		Width(width).Height(inner).
		Render(strings.Join(lines, "\n"))
}

func (m Model) renderFilesPane(width, height int) string {
	inner := height - 2
	var lines []string
	top := scrollTop(m.selectedFile, inner, len(m.files))
	for i := top; i < len(m.files) && len(lines) < inner; i++ {
		f := m.files[i]
		line := truncate(statusMarker(f.Status)+" "+f.Path, width-2)
		if i == m.selectedFile {
			line = selectedStyle.Render(pad(line, width-2))
		}
		lines = append(lines, line)
	}
	if len(m.files) == 0 {
		lines = append(lines, mutedStyle.Render("No files"))
	}
	return paneBorder(m.focus == focusFiles).
		Width(width).Height(inner).
		Render(strings.Join(lines, "\n"))
}

func (m Model) statusBar() string {
	hints := []string{
		"[j/k] navigate",
		"[tab] switch pane",
		fmt.Sprintf("[v] view: %s", m.viewMode),
		"[q] quit",
	}
	return statusStyle.Render(truncate(" "+strings.Join(hints, "  "), m.width))
}

func statusMarker(status string) string {
	switch status {
	case "added":
		return addStyle.Render("A")
	case "deleted":
		return deleteStyle.Render("D")
	case "renamed":
		return hunkStyle.Render("R")
	default:
		return contextStyle.Render("M")
	}
}

// scrollTop keeps the selected index inside a window of the given height.
func scrollTop(selected, height, total int) int {
	if height <= 0 || total <= height {
		return 0
	}
	top := selected - height + 1
	if top < 0 {
		top = 0
	}
	return top
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
