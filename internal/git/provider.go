package git

import "github.com/commitlens/commitlens/internal/diff"

// Provider routes diff fetches to the repository named in the request.
// It satisfies the diffview controller's provider interface.
type Provider struct{}

func (Provider) FileDiff(repoPath, commitID, filePath string) (diff.FileDiff, error) {
	return NewRepo(repoPath).FileDiff(commitID, filePath)
}
