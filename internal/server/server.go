// Package server exposes the repository browsing operations as a JSON
// API for headless use.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/commitlens/commitlens/internal/git"
)

// Server is the HTTP server for the JSON API mode.
type Server struct {
	repo *git.Repo
	mux  *http.ServeMux
}

// New creates a server over the given repository.
func New(repo *git.Repo) *Server {
	s := &Server{
		repo: repo,
		mux:  http.NewServeMux(),
	}
	s.routes()
	return s
}

// Handler returns the http.Handler (useful for testing).
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/commits", s.handleCommits)
	s.mux.HandleFunc("GET /api/commits/{id}/files", s.handleCommitFiles)
	s.mux.HandleFunc("GET /api/range/files", s.handleRangeFiles)
	s.mux.HandleFunc("GET /api/diff", s.handleDiff)
	s.mux.HandleFunc("GET /api/contents", s.handleContents)
	s.mux.HandleFunc("GET /api/branch", s.handleBranch)
	s.mux.HandleFunc("GET /api/branches", s.handleBranches)
	s.mux.HandleFunc("POST /api/checkout", s.handleCheckout)
	s.mux.HandleFunc("GET /api/working/changes", s.handleWorkingChanges)
	s.mux.HandleFunc("GET /api/working/diff", s.handleWorkingDiff)
	s.mux.HandleFunc("GET /api/working/contents", s.handleWorkingContents)
	s.mux.HandleFunc("GET /api/validate", s.handleValidate)
}

func (s *Server) handleCommits(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "invalid limit: "+v, http.StatusBadRequest)
			return
		}
		limit = n
	}

	commits, err := s.repo.ListCommits(limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if commits == nil {
		commits = []git.Commit{}
	}
	writeJSON(w, commits)
}

func (s *Server) handleCommitFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.repo.CommitFiles(r.PathValue("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if files == nil {
		files = []git.ChangedFile{}
	}
	writeJSON(w, files)
}

func (s *Server) handleRangeFiles(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		http.Error(w, "missing 'from' or 'to' commit", http.StatusBadRequest)
		return
	}
	files, err := s.repo.CommitRangeFiles(from, to)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if files == nil {
		files = []git.ChangedFile{}
	}
	writeJSON(w, files)
}

func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	commit := r.URL.Query().Get("commit")
	path := r.URL.Query().Get("path")
	if commit == "" || path == "" {
		http.Error(w, "missing 'commit' or 'path'", http.StatusBadRequest)
		return
	}
	f, err := s.repo.FileDiff(commit, path)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, f)
}

func (s *Server) handleContents(w http.ResponseWriter, r *http.Request) {
	commit := r.URL.Query().Get("commit")
	path := r.URL.Query().Get("path")
	if commit == "" || path == "" {
		http.Error(w, "missing 'commit' or 'path'", http.StatusBadRequest)
		return
	}
	c, err := s.repo.FileContents(commit, path)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, c)
}

func (s *Server) handleBranch(w http.ResponseWriter, r *http.Request) {
	branch, err := s.repo.CurrentBranch()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"branch": branch})
}

func (s *Server) handleBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := s.repo.ListBranches()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if branches == nil {
		branches = []string{}
	}
	writeJSON(w, branches)
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Branch string `json:"branch"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Branch == "" {
		http.Error(w, "missing 'branch'", http.StatusBadRequest)
		return
	}
	if err := s.repo.CheckoutBranch(req.Branch); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"branch": req.Branch})
}

func (s *Server) handleWorkingChanges(w http.ResponseWriter, r *http.Request) {
	files, err := s.repo.WorkingChanges()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if files == nil {
		files = []git.ChangedFile{}
	}
	writeJSON(w, files)
}

func (s *Server) handleWorkingDiff(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "missing 'path'", http.StatusBadRequest)
		return
	}
	f, err := s.repo.WorkingFileDiff(path)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, f)
}

func (s *Server) handleWorkingContents(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "missing 'path'", http.StatusBadRequest)
		return
	}
	c, err := s.repo.WorkingFileContents(path)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, c)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	info, err := git.ValidateRepo(s.repo.Dir)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, info)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
