// Package git shells out to the git binary to read repository data.
package git

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/commitlens/commitlens/internal/diff"
)

// Hash of git's empty tree, used as the diff base for root commits.
const emptyTree = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"

// Commit represents a single git commit. Message is the subject line
// only; Timestamp is unix seconds.
type Commit struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	Author    string `json:"author"`
	Email     string `json:"email"`
	Timestamp int64  `json:"timestamp"`
}

// ChangedFile is one file touched by a commit or the working tree.
type ChangedFile struct {
	Path   string `json:"path"`
	Status string `json:"status"` // "added", "deleted", "modified", "renamed"
}

// FileContents is the content of one file at some revision.
type FileContents struct {
	Content  string `json:"content"`
	IsBinary bool   `json:"isBinary"`
}

// RepoInfo describes a validated repository.
type RepoInfo struct {
	Root   string `json:"root"`
	Name   string `json:"name"`
	Branch string `json:"branch"`
}

// Repo represents a git repository at a specific directory.
type Repo struct {
	Dir string
}

// NewRepo creates a Repo pointing at the given directory.
func NewRepo(dir string) *Repo {
	return &Repo{Dir: dir}
}

// ValidateRepo checks that path is inside a git work tree and returns
// its root, name, and current branch.
func ValidateRepo(path string) (RepoInfo, error) {
	r := NewRepo(path)
	root, err := r.git("rev-parse", "--show-toplevel")
	if err != nil {
		return RepoInfo{}, fmt.Errorf("not a git repository: %s", path)
	}
	branch, err := r.CurrentBranch()
	if err != nil {
		// Unborn or detached HEAD still counts as a valid repo.
		branch = ""
	}
	return RepoInfo{
		Root:   root,
		Name:   filepath.Base(root),
		Branch: branch,
	}, nil
}

// git runs a git command in the repo directory and returns trimmed stdout.
func (r *Repo) git(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %w\n%s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out)), nil
}

// gitRaw is like git but keeps stdout byte-exact, for file contents.
func (r *Repo) gitRaw(args ...string) ([]byte, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git %s: %w\n%s", strings.Join(args, " "), err, stderr.Bytes())
	}
	return out, nil
}

// validateRef rejects refs that would be parsed as git flags.
func validateRef(ref string) error {
	if ref == "" {
		return fmt.Errorf("empty ref")
	}
	if strings.HasPrefix(ref, "-") {
		return fmt.Errorf("ref %q must not start with '-'", ref)
	}
	return nil
}

// ListCommits returns the most recent commits on the current branch,
// newest first. A non-positive limit means 100.
func (r *Repo) ListCommits(limit int) ([]Commit, error) {
	if limit <= 0 {
		limit = 100
	}
	// Unit separator: safe against anything a subject line can hold.
	const sep = "\x1f"
	format := strings.Join([]string{"%H", "%s", "%an", "%ae", "%at"}, sep)
	out, err := r.git("log", "--format="+format, "-n", strconv.Itoa(limit))
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}

	var commits []Commit
	for _, line := range strings.Split(out, "\n") {
		parts := strings.SplitN(line, sep, 5)
		if len(parts) != 5 {
			continue
		}
		ts, err := strconv.ParseInt(parts[4], 10, 64)
		if err != nil {
			continue
		}
		commits = append(commits, Commit{
			ID:        parts[0],
			Message:   parts[1],
			Author:    parts[2],
			Email:     parts[3],
			Timestamp: ts,
		})
	}
	return commits, nil
}

// CommitFiles lists the files changed by a single commit.
func (r *Repo) CommitFiles(commitID string) ([]ChangedFile, error) {
	if err := validateRef(commitID); err != nil {
		return nil, err
	}
	out, err := r.git("show", "--format=", "--name-status", commitID)
	if err != nil {
		return nil, err
	}
	return parseNameStatus(out), nil
}

// CommitRangeFiles lists the union of files changed between the oldest
// commit (inclusive) and the newest. For a root commit the empty tree
// serves as the base.
func (r *Repo) CommitRangeFiles(oldestID, newestID string) ([]ChangedFile, error) {
	if err := validateRef(oldestID); err != nil {
		return nil, err
	}
	if err := validateRef(newestID); err != nil {
		return nil, err
	}
	base, err := r.git("rev-parse", "--verify", oldestID+"^")
	if err != nil {
		base = emptyTree
	}
	out, err := r.git("diff", "--name-status", base, newestID)
	if err != nil {
		return nil, err
	}
	return parseNameStatus(out), nil
}

// FileDiff returns the parsed diff for one file in one commit.
func (r *Repo) FileDiff(commitID, filePath string) (diff.FileDiff, error) {
	if err := validateRef(commitID); err != nil {
		return diff.FileDiff{}, err
	}
	out, err := r.git("show", "--format=", "--patch", "--no-ext-diff", commitID, "--", filePath)
	if err != nil {
		return diff.FileDiff{}, err
	}
	files, err := diff.Parse(out)
	if err != nil {
		return diff.FileDiff{}, err
	}
	if len(files) == 0 {
		return diff.FileDiff{}, errors.New("File not found in commit")
	}
	return files[0], nil
}

// WorkingFileDiff returns the diff between HEAD and the working tree
// for one file. Untracked files are diffed against nothing, so they
// come back as additions.
func (r *Repo) WorkingFileDiff(filePath string) (diff.FileDiff, error) {
	out, err := r.git("diff", "--no-ext-diff", "HEAD", "--", filePath)
	if err != nil {
		return diff.FileDiff{}, err
	}
	if out == "" {
		out, err = r.noIndexDiff(filePath)
		if err != nil {
			return diff.FileDiff{}, err
		}
	}
	files, err := diff.Parse(out)
	if err != nil {
		return diff.FileDiff{}, err
	}
	if len(files) == 0 {
		return diff.FileDiff{}, fmt.Errorf("no changes for %s", filePath)
	}
	return files[0], nil
}

// noIndexDiff diffs a file against /dev/null. git exits 1 when the
// sides differ, which is the expected case here.
func (r *Repo) noIndexDiff(filePath string) (string, error) {
	cmd := exec.Command("git", "diff", "--no-ext-diff", "--no-index", "--", "/dev/null", filePath)
	cmd.Dir = r.Dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || exitErr.ExitCode() != 1 {
			return "", fmt.Errorf("git diff --no-index: %w\n%s", err, out)
		}
	}
	return strings.TrimSpace(string(out)), nil
}

// WorkingChanges lists files that differ from HEAD, staged or not.
func (r *Repo) WorkingChanges() ([]ChangedFile, error) {
	out, err := r.git("status", "--porcelain")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	var files []ChangedFile
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}
		code, path := line[:2], line[3:]
		if i := strings.Index(path, " -> "); i >= 0 {
			path = path[i+4:]
		}
		files = append(files, ChangedFile{Path: path, Status: porcelainStatus(code)})
	}
	return files, nil
}

// FileContents returns the content of a file at a commit.
func (r *Repo) FileContents(commitID, filePath string) (FileContents, error) {
	if err := validateRef(commitID); err != nil {
		return FileContents{}, err
	}
	out, err := r.gitRaw("show", commitID+":"+filePath)
	if err != nil {
		return FileContents{}, errors.New("File not found in commit")
	}
	return contentsOf(out), nil
}

// WorkingFileContents returns the content of a file in the working tree.
func (r *Repo) WorkingFileContents(filePath string) (FileContents, error) {
	out, err := os.ReadFile(filepath.Join(r.Dir, filePath))
	if err != nil {
		return FileContents{}, fmt.Errorf("read %s: %w", filePath, err)
	}
	return contentsOf(out), nil
}

func contentsOf(data []byte) FileContents {
	if bytes.IndexByte(data, 0) >= 0 {
		return FileContents{IsBinary: true}
	}
	return FileContents{Content: string(data)}
}

// CurrentBranch returns the checked-out branch name.
func (r *Repo) CurrentBranch() (string, error) {
	return r.git("rev-parse", "--abbrev-ref", "HEAD")
}

// ListBranches returns all local branch names.
func (r *Repo) ListBranches() ([]string, error) {
	out, err := r.git("branch", "--format=%(refname:short)")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// CheckoutBranch switches the working tree to the named branch.
func (r *Repo) CheckoutBranch(name string) error {
	if err := validateRef(name); err != nil {
		return err
	}
	_, err := r.git("checkout", name)
	return err
}

func parseNameStatus(out string) []ChangedFile {
	if out == "" {
		return nil
	}
	var files []ChangedFile
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			continue
		}
		files = append(files, ChangedFile{
			Path:   fields[len(fields)-1],
			Status: statusName(fields[0]),
		})
	}
	return files
}

func statusName(code string) string {
	switch code[0] {
	case 'A':
		return "added"
	case 'D':
		return "deleted"
	case 'R':
		return "renamed"
	default:
		return "modified"
	}
}

func porcelainStatus(code string) string {
	if strings.Contains(code, "?") {
		return "added"
	}
	c := code[0]
	if c == ' ' {
		c = code[1]
	}
	switch c {
	case 'A':
		return "added"
	case 'D':
		return "deleted"
	case 'R':
		return "renamed"
	default:
		return "modified"
	}
}
