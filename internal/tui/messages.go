package tui

import "github.com/commitlens/commitlens/internal/git"

// commitsLoadedMsg carries the commit history back to the model.
type commitsLoadedMsg struct {
	Commits []git.Commit
	Err     error
}

// filesLoadedMsg carries the changed files of one commit. CommitID tags
// the response so results for a commit the user has moved past are
// dropped.
type filesLoadedMsg struct {
	CommitID string
	Files    []git.ChangedFile
	Err      error
}

// DiffUpdatedMsg signals that the diff controller changed state. The
// program owner forwards controller notifications as this message.
type DiffUpdatedMsg struct{}
