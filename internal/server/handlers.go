package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/nishchaysingla/Codebase-project/internal/cleanup"
	"github.com/nishchaysingla/Codebase-project/internal/job"
	"github.com/nishchaysingla/Codebase-project/internal/pipeline"
	"github.com/nishchaysingla/Codebase-project/internal/workspace"
)

// noFilesMessage is the fixed, user-facing message for repositories that
// cloned fine but contained nothing to analyze. It is deliberately distinct
// from fetch failures.
const noFilesMessage = "No suitable files were found to analyze in the repository."

// SubmitRequest represents the request body for POST /jobs
type SubmitRequest struct {
	RepoURL string `json:"repo_url" validate:"required,url"`
}

// SubmitResponse represents the response for POST /jobs
type SubmitResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// StatusResponse represents the response for GET /jobs/{id}
type StatusResponse struct {
	JobID        string  `json:"job_id"`
	Status       string  `json:"status"`
	DownloadURL  *string `json:"download_url"`
	ErrorMessage *string `json:"error_message"`
}

// handleSubmit accepts a repository URL and starts a background job for it.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "A valid repository URL is required")
		return
	}

	jobID := uuid.New().String()
	rec := job.NewRecord(jobID, req.RepoURL)
	if err := s.store.Put(r.Context(), rec); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to accept job: "+err.Error())
		return
	}

	log.Printf("[job %s] accepted %s", jobID, req.RepoURL)
	go s.execute(jobID, req.RepoURL)

	s.jsonResponse(w, http.StatusAccepted, SubmitResponse{
		JobID:  jobID,
		Status: string(job.StatusPending),
	})
}

// execute runs the pipeline on a background worker. It is the only writer of
// this job's status record; status polls read concurrently through the store.
func (s *Server) execute(jobID, repoURL string) {
	ctx := context.Background()

	rec, err := s.store.Get(ctx, jobID)
	if err != nil || rec == nil {
		log.Printf("[job %s] lost its record before starting: %v", jobID, err)
		return
	}
	if err := rec.Transition(job.StatusProcessing); err != nil {
		log.Printf("[job %s] %v", jobID, err)
		return
	}
	if err := s.store.Put(ctx, rec); err != nil {
		log.Printf("[job %s] failed to record PROCESSING: %v", jobID, err)
	}

	archivePath, runErr := s.runner.Run(ctx, jobID, repoURL)
	switch {
	case runErr == nil:
		_ = rec.Complete(filepath.Base(archivePath))
		log.Printf("[job %s] complete: %s", jobID, rec.DownloadName)
	case errors.Is(runErr, pipeline.ErrNoFiles):
		_ = rec.Fail(noFilesMessage)
		log.Printf("[job %s] failed: no files to analyze", jobID)
	default:
		_ = rec.Fail(runErr.Error())
		log.Printf("[job %s] failed: %v", jobID, runErr)
	}

	if err := s.store.Put(ctx, rec); err != nil {
		log.Printf("[job %s] failed to record final status: %v", jobID, err)
	}
}

// handleStatus returns the status record for a job id.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		s.errorResponse(w, http.StatusBadRequest, "Job ID is required")
		return
	}

	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Store error: "+err.Error())
		return
	}
	if rec == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}

	resp := StatusResponse{JobID: rec.ID, Status: string(rec.Status)}
	if rec.DownloadName != "" {
		u := "/download/" + rec.DownloadName
		resp.DownloadURL = &u
	}
	if rec.ErrorMessage != "" {
		m := rec.ErrorMessage
		resp.ErrorMessage = &m
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleDownload streams a finished archive and cleans the job's workspace
// once the bytes have been fully handed to the transport layer.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	jobID := workspace.JobIDFromArchiveName(name)
	if jobID == "" || name != filepath.Base(name) {
		s.errorResponse(w, http.StatusBadRequest, "Invalid archive name")
		return
	}

	ws := workspace.New(s.workspaceRoot, jobID)
	f, err := os.Open(ws.ArchivePath)
	if err != nil {
		s.errorResponse(w, http.StatusNotFound, "Archive not found")
		return
	}
	defer func() { _ = f.Close() }()

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))

	if _, err := io.Copy(w, f); err != nil {
		// Keep the workspace so an interrupted client can retry.
		log.Printf("[download] stream of %s aborted: %v", name, err)
		return
	}
	_ = f.Close()

	// The archive was fully written to the response; only now may cleanup run.
	cleanup.RemoveWorkspace(ws)
	log.Printf("[job %s] workspace cleaned after download", jobID)
}
