package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"bridgerh/internal/app"
	"bridgerh/internal/common"
	"bridgerh/internal/domain/candidate"
	"bridgerh/internal/http/handlers"
	"bridgerh/internal/http/metrics"
	httpmw "bridgerh/internal/http/middleware"
	"bridgerh/internal/integration/mailer"
	"bridgerh/internal/integration/storage"
	"bridgerh/internal/security"
)

type memoryRepo struct {
	mu      sync.Mutex
	byEmail map[string]*candidate.Candidate
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byEmail: make(map[string]*candidate.Candidate)}
}

func (r *memoryRepo) UpsertByEmail(ctx context.Context, sub candidate.Submission) (*candidate.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := r.byEmail[sub.Email]; ok {
		existing.FirstName = sub.FirstName
		existing.LastName = sub.LastName
		existing.LinkedinURL = sub.LinkedinURL
		existing.CVFileName = sub.CVFileName
		existing.CVURL = sub.CVURL
		existing.CVPublicID = sub.CVPublicID
		existing.Skills = sub.Skills
		existing.Position = sub.Position
		existing.UpdatedAt = now
		copied := *existing
		return &copied, nil
	}
	created := &candidate.Candidate{
		ID:        common.NewUUID(),
		FirstName: sub.FirstName,
		LastName:  sub.LastName,
		Email:     sub.Email,
		Skills:    sub.Skills,
		Position:  sub.Position,
		Status:    candidate.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.byEmail[sub.Email] = created
	copied := *created
	return &copied, nil
}

func (r *memoryRepo) GetByID(ctx context.Context, id common.UUID) (*candidate.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byEmail {
		if c.ID == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "candidate not found", nil)
}

func (r *memoryRepo) List(ctx context.Context, filters candidate.Filters) ([]candidate.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := []candidate.Candidate{}
	for _, c := range r.byEmail {
		if filters.Status != "" && c.Status != filters.Status {
			continue
		}
		if filters.Position != "" && !strings.Contains(strings.ToLower(c.Position), strings.ToLower(filters.Position)) {
			continue
		}
		if filters.Skills != "" && !strings.Contains(strings.ToLower(c.Skills), strings.ToLower(filters.Skills)) {
			continue
		}
		items = append(items, *c)
	}
	return items, nil
}

func (r *memoryRepo) Update(ctx context.Context, id common.UUID, patch candidate.Patch) (*candidate.Candidate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byEmail {
		if c.ID != id {
			continue
		}
		if patch.Status != nil {
			c.Status = *patch.Status
		}
		if patch.Comment != nil {
			c.Comment = *patch.Comment
		}
		if patch.InterviewDate != nil {
			date := patch.InterviewDate.UTC()
			c.InterviewDate = &date
		} else if patch.ClearInterviewDate {
			c.InterviewDate = nil
		}
		c.UpdatedAt = time.Now().UTC()
		copied := *c
		return &copied, nil
	}
	return nil, common.NewError(common.CodeNotFound, "candidate not found", nil)
}

func newTestServer(t *testing.T) (*httptest.Server, *memoryRepo) {
	t.Helper()
	repo := newMemoryRepo()
	logger := slog.Default()
	jwt := security.NewJWTProvider("router-test-secret")
	authService := app.NewAuthService("admin", "hunter2", "", jwt, time.Hour, logger)
	candidateService := app.NewCandidateService(repo, mailer.Noop{}, storage.Noop{}, logger, time.Second)

	collector := metrics.NewCollector()
	router := NewRouter(RouterDependencies{
		AuthHandler:      handlers.NewAuthHandler(authService, nil, collector, false),
		CandidateHandler: handlers.NewCandidateHandler(candidateService, nil, collector),
		MetricsHandler:   handlers.NewMetricsHandler(collector),
		AuthMiddleware:   httpmw.NewAuthMiddleware(authService),
		Metrics:          collector,
		RequestTimeout:   5 * time.Second,
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, repo
}

func login(t *testing.T, server *httptest.Server) *http.Cookie {
	t.Helper()
	body := `{"username":"admin","password":"hunter2"}`
	resp, err := http.Post(server.URL+"/auth/login", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from login, got %d", resp.StatusCode)
	}
	for _, cookie := range resp.Cookies() {
		if cookie.Name == httpmw.SessionCookieName {
			if !cookie.HttpOnly {
				t.Fatalf("expected the session cookie to be http-only")
			}
			return cookie
		}
	}
	t.Fatalf("expected a session cookie")
	return nil
}

func submitForm(t *testing.T, server *httptest.Server, fields map[string]string, fileName string, fileData []byte) *http.Response {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field failed: %v", err)
		}
	}
	if fileName != "" {
		part, err := writer.CreateFormFile("cvFile", fileName)
		if err != nil {
			t.Fatalf("create form file failed: %v", err)
		}
		if _, err := part.Write(fileData); err != nil {
			t.Fatalf("write form file failed: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close form failed: %v", err)
	}
	resp, err := http.Post(server.URL+"/candidates", writer.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("submit request failed: %v", err)
	}
	return resp
}

func validFields() map[string]string {
	return map[string]string{
		"firstName": "A",
		"lastName":  "B",
		"email":     "a@b.com",
		"skills":    "react",
		"position":  "Dev",
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	server, _ := newTestServer(t)

	body := `{"username":"admin","password":"wrong"}`
	resp, err := http.Post(server.URL+"/auth/login", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	for _, cookie := range resp.Cookies() {
		if cookie.Name == httpmw.SessionCookieName {
			t.Fatalf("expected no session cookie on failed login")
		}
	}
}

func TestAuthCheckRoundTrip(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/auth/check")
	if err != nil {
		t.Fatalf("check request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a cookie, got %d", resp.StatusCode)
	}

	cookie := login(t, server)
	req, _ := http.NewRequest(http.MethodGet, server.URL+"/auth/check", nil)
	req.AddCookie(cookie)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("check request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with a session cookie, got %d", resp.StatusCode)
	}
	var parsed map[string]bool
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !parsed["authenticated"] {
		t.Fatalf("expected authenticated:true")
	}
}

func TestAuthCheckRejectsTamperedCookie(t *testing.T) {
	server, _ := newTestServer(t)

	cookie := login(t, server)
	cookie.Value += "x"
	req, _ := http.NewRequest(http.MethodGet, server.URL+"/auth/check", nil)
	req.AddCookie(cookie)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("check request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a tampered cookie, got %d", resp.StatusCode)
	}
}

func TestSubmitValidatesRequiredFields(t *testing.T) {
	server, repo := newTestServer(t)

	fields := validFields()
	delete(fields, "email")
	resp := submitForm(t, server, fields, "", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if len(repo.byEmail) != 0 {
		t.Fatalf("expected no record to be created")
	}
}

func TestSubmitRejectsUnsupportedResume(t *testing.T) {
	server, _ := newTestServer(t)

	resp := submitForm(t, server, validFields(), "virus.exe", []byte("MZ"))
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for a non-document upload, got %d", resp.StatusCode)
	}
}

func TestSubmitAndReviewWorkflow(t *testing.T) {
	server, _ := newTestServer(t)

	// Applicant submits.
	resp := submitForm(t, server, validFields(), "", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var createBody struct {
		Message   string              `json:"message"`
		Candidate candidate.Candidate `json:"candidate"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&createBody); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	resp.Body.Close()
	if createBody.Candidate.Status != candidate.StatusPending {
		t.Fatalf("expected PENDING, got %s", createBody.Candidate.Status)
	}

	// Resubmission with the same email keeps the record.
	fields := validFields()
	fields["position"] = "Lead Dev"
	resp = submitForm(t, server, fields, "", nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 on resubmission, got %d", resp.StatusCode)
	}
	var resubmitBody struct {
		Candidate candidate.Candidate `json:"candidate"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&resubmitBody); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	resp.Body.Close()
	if resubmitBody.Candidate.ID != createBody.Candidate.ID {
		t.Fatalf("expected the same record id after resubmission")
	}
	if resubmitBody.Candidate.Position != "Lead Dev" {
		t.Fatalf("expected position to be overwritten")
	}
	if resubmitBody.Candidate.Status != candidate.StatusPending {
		t.Fatalf("expected status to be unchanged")
	}

	// Listing requires a session.
	resp, err := http.Get(server.URL + "/candidates")
	if err != nil {
		t.Fatalf("list request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 listing without a session, got %d", resp.StatusCode)
	}

	cookie := login(t, server)
	req, _ := http.NewRequest(http.MethodGet, server.URL+"/candidates?position=lead", nil)
	req.AddCookie(cookie)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("list request failed: %v", err)
	}
	var listed []candidate.Candidate
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	resp.Body.Close()
	if len(listed) != 1 || listed[0].ID != createBody.Candidate.ID {
		t.Fatalf("expected the submitted candidate to be listed, got %v", listed)
	}

	// Patching requires a session too.
	patch := strings.NewReader(`{"status":"HIRED"}`)
	req, _ = http.NewRequest(http.MethodPatch, server.URL+"/candidates/"+createBody.Candidate.ID.String(), patch)
	req.Header.Set("Content-Type", "application/json")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("patch request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 patching without a session, got %d", resp.StatusCode)
	}

	patch = strings.NewReader(`{"status":"HIRED"}`)
	req, _ = http.NewRequest(http.MethodPatch, server.URL+"/candidates/"+createBody.Candidate.ID.String(), patch)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("patch request failed: %v", err)
	}
	var updated candidate.Candidate
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if updated.Status != candidate.StatusHired {
		t.Fatalf("expected HIRED, got %s", updated.Status)
	}
}

func TestPatchClearsInterviewDate(t *testing.T) {
	server, repo := newTestServer(t)

	resp := submitForm(t, server, validFields(), "", nil)
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	var id common.UUID
	for _, c := range repo.byEmail {
		id = c.ID
	}

	cookie := login(t, server)
	doPatch := func(body string) candidate.Candidate {
		req, _ := http.NewRequest(http.MethodPatch, server.URL+"/candidates/"+id.String(), strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(cookie)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("patch request failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		var updated candidate.Candidate
		if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		return updated
	}

	updated := doPatch(`{"status":"INTERVIEW_SCHEDULED","interviewDate":"2026-09-15T14:00:00Z"}`)
	if updated.InterviewDate == nil {
		t.Fatalf("expected interview date to be set")
	}

	updated = doPatch(`{"comment":"called back"}`)
	if updated.InterviewDate == nil {
		t.Fatalf("expected omitted interview date to survive")
	}

	updated = doPatch(`{"interviewDate":null}`)
	if updated.InterviewDate != nil {
		t.Fatalf("expected explicit null to clear the interview date")
	}
	if updated.Comment != "called back" {
		t.Fatalf("expected comment to survive the clearing patch")
	}
}
