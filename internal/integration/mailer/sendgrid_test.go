package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSendCandidateConfirmation(t *testing.T) {
	var captured sendRequest
	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v3/mail/send" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		authHeader = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewSendGridClient(server.URL, "sg-key", "noreply@bridgerh.example", "rh@bridgerh.example", server.Client())
	info := CandidateInfo{FirstName: "A", LastName: "B", Email: "a@b.com", Position: "Dev", Skills: "react"}
	if err := client.SendCandidateConfirmation(context.Background(), info); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if authHeader != "Bearer sg-key" {
		t.Fatalf("expected the api key in the authorization header, got %q", authHeader)
	}
	if len(captured.Personalizations) != 1 || captured.Personalizations[0].To[0].Email != "a@b.com" {
		t.Fatalf("expected the applicant as recipient, got %+v", captured.Personalizations)
	}
	if captured.From.Email != "noreply@bridgerh.example" {
		t.Fatalf("unexpected sender %q", captured.From.Email)
	}
	if !strings.Contains(captured.Subject, "Dev") {
		t.Fatalf("expected the position in the subject, got %q", captured.Subject)
	}
}

func TestSendReviewerAlertTargetsAdmin(t *testing.T) {
	var captured sendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode failed: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewSendGridClient(server.URL, "sg-key", "noreply@bridgerh.example", "rh@bridgerh.example", server.Client())
	info := CandidateInfo{FirstName: "A", LastName: "B", Email: "a@b.com", Position: "Dev", Skills: "react"}
	if err := client.SendReviewerAlert(context.Background(), info); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if captured.Personalizations[0].To[0].Email != "rh@bridgerh.example" {
		t.Fatalf("expected the reviewer inbox as recipient, got %+v", captured.Personalizations)
	}
}

func TestSendReportsAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"message":"bad key"}]}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewSendGridClient(server.URL, "bad-key", "noreply@bridgerh.example", "rh@bridgerh.example", server.Client())
	info := CandidateInfo{FirstName: "A", LastName: "B", Email: "a@b.com", Position: "Dev"}
	if err := client.SendCandidateConfirmation(context.Background(), info); err == nil {
		t.Fatalf("expected an error for a rejected send")
	}
}
