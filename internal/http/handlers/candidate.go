package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"bridgerh/internal/app"
	"bridgerh/internal/common"
	"bridgerh/internal/domain/candidate"
	"bridgerh/internal/http/metrics"
	"bridgerh/internal/http/middleware"
	"bridgerh/internal/http/response"
)

const (
	maxCVBytes        = 5 << 20
	multipartMemLimit = 8 << 20
)

var allowedCVExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

type CandidateHandler struct {
	candidates *app.CandidateService
	limiter    middleware.Limiter
	collector  *metrics.Collector
}

func NewCandidateHandler(candidates *app.CandidateService, limiter middleware.Limiter, collector *metrics.Collector) *CandidateHandler {
	return &CandidateHandler{candidates: candidates, limiter: limiter, collector: collector}
}

func (h *CandidateHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil {
		key := "submit:ip:" + middleware.ClientIP(r)
		if !h.limiter.Allow(key, 5, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "submission rate limit exceeded", nil))
			return
		}
	}
	if err := r.ParseMultipartForm(multipartMemLimit); err != nil {
		response.Error(w, common.NewError(common.CodeValidation, "invalid multipart form", err))
		return
	}

	input := app.SubmitInput{
		FirstName:   r.FormValue("firstName"),
		LastName:    r.FormValue("lastName"),
		Email:       r.FormValue("email"),
		LinkedinURL: r.FormValue("linkedinUrl"),
		Skills:      r.FormValue("skills"),
		Position:    r.FormValue("position"),
	}

	file, header, err := r.FormFile("cvFile")
	if err == nil {
		defer file.Close()
		name := path.Base(header.Filename)
		ext := strings.ToLower(path.Ext(name))
		if !allowedCVExtensions[ext] {
			response.Error(w, common.NewValidationError("unsupported resume format", map[string]string{"cvFile": "file must be a PDF, DOC or DOCX"}))
			return
		}
		data, err := io.ReadAll(io.LimitReader(file, maxCVBytes+1))
		if err != nil {
			response.Error(w, common.NewError(common.CodeValidation, "failed to read resume file", err))
			return
		}
		if len(data) > maxCVBytes {
			response.Error(w, common.NewValidationError("resume file is too large", map[string]string{"cvFile": "file must be 5MB or less"}))
			return
		}
		input.CVFileName = name
		input.CVData = data
	} else if !errors.Is(err, http.ErrMissingFile) {
		response.Error(w, common.NewError(common.CodeValidation, "invalid resume file", err))
		return
	}

	created, err := h.candidates.Submit(r.Context(), input)
	if err != nil {
		response.Error(w, err)
		return
	}
	if h.collector != nil {
		h.collector.ObserveSubmission()
	}
	response.JSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "candidacy submitted successfully",
		"candidate": created,
	})
}

func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filters := candidate.Filters{
		Position: strings.TrimSpace(query.Get("position")),
		Status:   candidate.Status(strings.TrimSpace(query.Get("status"))),
		Skills:   strings.TrimSpace(query.Get("skills")),
	}
	items, err := h.candidates.List(r.Context(), filters)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *CandidateHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	patch, err := decodePatch(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.candidates.UpdateReview(r.Context(), id, patch)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

// decodePatch keeps partial-patch semantics: only keys present in the body
// are applied, and an explicit null or empty interviewDate clears the field.
func decodePatch(r *http.Request) (candidate.Patch, error) {
	var raw map[string]json.RawMessage
	if err := decodeJSON(r, &raw); err != nil {
		return candidate.Patch{}, err
	}
	var patch candidate.Patch
	if value, ok := raw["status"]; ok {
		var status candidate.Status
		if err := json.Unmarshal(value, &status); err != nil {
			return candidate.Patch{}, common.NewValidationError("invalid status", map[string]string{"status": "status must be a string"})
		}
		patch.Status = &status
	}
	if value, ok := raw["comment"]; ok {
		var comment string
		if err := json.Unmarshal(value, &comment); err != nil {
			return candidate.Patch{}, common.NewValidationError("invalid comment", map[string]string{"comment": "comment must be a string"})
		}
		patch.Comment = &comment
	}
	if value, ok := raw["interviewDate"]; ok {
		var dateStr *string
		if err := json.Unmarshal(value, &dateStr); err != nil {
			return candidate.Patch{}, common.NewValidationError("invalid interview date", map[string]string{"interviewDate": "interviewDate must be a string or null"})
		}
		if dateStr == nil || strings.TrimSpace(*dateStr) == "" {
			patch.ClearInterviewDate = true
		} else {
			parsed, err := parseInterviewDate(*dateStr)
			if err != nil {
				return candidate.Patch{}, common.NewValidationError("invalid interview date", map[string]string{"interviewDate": "interviewDate must be an RFC 3339 timestamp"})
			}
			patch.InterviewDate = &parsed
		}
	}
	return patch, nil
}

// parseInterviewDate accepts RFC 3339 and the datetime-local form the
// dashboard's picker submits.
func parseInterviewDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02T15:04", value)
}
