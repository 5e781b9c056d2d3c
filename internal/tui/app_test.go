package tui

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/commitlens/commitlens/internal/diff"
	"github.com/commitlens/commitlens/internal/diffview"
	"github.com/commitlens/commitlens/internal/git"
	"github.com/commitlens/commitlens/internal/prefs"
)

var errNotFound = errors.New("File not found in commit")

// stubProvider serves canned diffs keyed by file path.
type stubProvider struct {
	diffs map[string]diff.FileDiff
	errs  map[string]error
}

func (p stubProvider) FileDiff(repoPath, commitID, filePath string) (diff.FileDiff, error) {
	if err, ok := p.errs[filePath]; ok {
		return diff.FileDiff{}, err
	}
	return p.diffs[filePath], nil
}

func testModel(t *testing.T, p diffview.Provider) Model {
	t.Helper()
	store := prefs.NewStoreAt(filepath.Join(t.TempDir(), "prefs.yaml"))
	ctrl := diffview.NewController(p)
	m := New(
		git.NewRepo(t.TempDir()),
		git.RepoInfo{Name: "demo", Branch: "main"},
		ctrl,
		store,
		prefs.ViewSplit,
		50,
	)
	sized, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return sized.(Model)
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func someCommits() []git.Commit {
	return []git.Commit{
		{ID: "aaaaaaaa", Message: "newest change"},
		{ID: "bbbbbbbb", Message: "older change"},
	}
}

func TestUpdate_CommitsLoadedTriggersFileLoad(t *testing.T) {
	m := testModel(t, stubProvider{})

	next, cmd := m.Update(commitsLoadedMsg{Commits: someCommits()})
	m = next.(Model)

	require.Len(t, m.commits, 2)
	require.Equal(t, 0, m.selectedCommit)
	require.NotNil(t, cmd, "loading commits should kick off a file load")
}

func TestUpdate_StaleFilesLoadDropped(t *testing.T) {
	m := testModel(t, stubProvider{})
	m = update(t, m, commitsLoadedMsg{Commits: someCommits()})

	// A response for a commit that is no longer selected changes nothing.
	m = update(t, m, filesLoadedMsg{
		CommitID: "bbbbbbbb",
		Files:    []git.ChangedFile{{Path: "stale.go", Status: "modified"}},
	})
	require.Empty(t, m.files)

	m = update(t, m, filesLoadedMsg{
		CommitID: "aaaaaaaa",
		Files:    []git.ChangedFile{{Path: "fresh.go", Status: "modified"}},
	})
	require.Len(t, m.files, 1)
	require.Equal(t, "fresh.go", m.files[0].Path)
}

func TestUpdate_FileLoadSelectsIntoController(t *testing.T) {
	p := stubProvider{diffs: map[string]diff.FileDiff{
		"a.go": {OldPath: "a.go", NewPath: "a.go", Status: "modified"},
	}}
	m := testModel(t, p)
	m = update(t, m, commitsLoadedMsg{Commits: someCommits()})
	m = update(t, m, filesLoadedMsg{
		CommitID: "aaaaaaaa",
		Files:    []git.ChangedFile{{Path: "a.go", Status: "modified"}},
	})

	require.Eventually(t, func() bool {
		st := m.ctrl.State()
		return st.Phase == diffview.PhaseLoaded && st.Selection.FilePath == "a.go"
	}, time.Second, time.Millisecond)
}

func TestUpdate_ViewToggleKeyPersists(t *testing.T) {
	m := testModel(t, stubProvider{})
	require.Equal(t, prefs.ViewSplit, m.viewMode)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'v'}})
	require.Equal(t, prefs.ViewUnified, m.viewMode)
	require.Equal(t, prefs.ViewUnified, m.store.Load())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'v'}})
	require.Equal(t, prefs.ViewSplit, m.viewMode)
	require.Equal(t, prefs.ViewSplit, m.store.Load())
}

func TestUpdate_CommitNavigationResetsFiles(t *testing.T) {
	m := testModel(t, stubProvider{})
	m = update(t, m, commitsLoadedMsg{Commits: someCommits()})
	m = update(t, m, filesLoadedMsg{
		CommitID: "aaaaaaaa",
		Files:    []git.ChangedFile{{Path: "a.go", Status: "modified"}},
	})
	require.Len(t, m.files, 1)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m = next.(Model)
	require.Equal(t, 1, m.selectedCommit)
	require.Empty(t, m.files)
	require.NotNil(t, cmd, "moving to another commit should load its files")
}

func TestView_ShowsProviderErrorVerbatim(t *testing.T) {
	p := stubProvider{errs: map[string]error{
		"gone.go": errNotFound,
	}}
	m := testModel(t, p)
	m = update(t, m, commitsLoadedMsg{Commits: someCommits()})
	m = update(t, m, filesLoadedMsg{
		CommitID: "aaaaaaaa",
		Files:    []git.ChangedFile{{Path: "gone.go", Status: "deleted"}},
	})

	require.Eventually(t, func() bool {
		return m.ctrl.State().Phase == diffview.PhaseFailed
	}, time.Second, time.Millisecond)

	m = update(t, m, DiffUpdatedMsg{})
	require.Contains(t, m.View(), "Error: File not found in commit")
}

func TestView_QuitKey(t *testing.T) {
	m := testModel(t, stubProvider{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
}
