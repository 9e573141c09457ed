package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultSendGridBaseURL = "https://api.sendgrid.com"

type SendGridClient struct {
	baseURL    string
	apiKey     string
	from       string
	adminTo    string
	httpClient *http.Client
}

func NewSendGridClient(baseURL, apiKey, from, adminTo string, httpClient *http.Client) *SendGridClient {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		trimmed = defaultSendGridBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &SendGridClient{
		baseURL:    trimmed,
		apiKey:     strings.TrimSpace(apiKey),
		from:       strings.TrimSpace(from),
		adminTo:    strings.TrimSpace(adminTo),
		httpClient: httpClient,
	}
}

type sendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             emailAddress      `json:"from"`
	Subject          string            `json:"subject"`
	Content          []content         `json:"content"`
}

type personalization struct {
	To []emailAddress `json:"to"`
}

type emailAddress struct {
	Email string `json:"email"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func (c *SendGridClient) SendCandidateConfirmation(ctx context.Context, info CandidateInfo) error {
	subject := "Confirmation de candidature - " + info.Position
	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<h2>Merci pour votre candidature !</h2>
<p>Bonjour %s %s,</p>
<p>Nous avons bien re&ccedil;u votre candidature pour le poste de <strong>%s</strong>.</p>
<p>Notre &eacute;quipe va examiner votre profil et nous vous recontacterons dans les plus brefs d&eacute;lais.</p>
<p>Cordialement,<br>L'&eacute;quipe BridgeRH</p>
</div>`, info.FirstName, info.LastName, info.Position)
	return c.send(ctx, info.Email, subject, body)
}

func (c *SendGridClient) SendReviewerAlert(ctx context.Context, info CandidateInfo) error {
	subject := fmt.Sprintf("Nouvelle candidature - %s %s", info.FirstName, info.LastName)
	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<h2>Nouvelle candidature re&ccedil;ue</h2>
<p><strong>Nom :</strong> %s %s</p>
<p><strong>Email :</strong> %s</p>
<p><strong>Poste recherch&eacute; :</strong> %s</p>
<p><strong>Comp&eacute;tences :</strong> %s</p>
<p>Connectez-vous au tableau de bord pour examiner cette candidature.</p>
</div>`, info.FirstName, info.LastName, info.Email, info.Position, info.Skills)
	return c.send(ctx, c.adminTo, subject, body)
}

func (c *SendGridClient) send(ctx context.Context, to, subject, html string) error {
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("mail recipient is empty")
	}
	payload := sendRequest{
		Personalizations: []personalization{{To: []emailAddress{{Email: to}}}},
		From:             emailAddress{Email: c.from},
		Subject:          subject,
		Content:          []content{{Type: "text/html", Value: html}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode mail request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v3/mail/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send mail request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		payloadBytes, _ := io.ReadAll(resp.Body)
		message := strings.TrimSpace(string(payloadBytes))
		if message == "" {
			return fmt.Errorf("mail api error: status %d", resp.StatusCode)
		}
		return fmt.Errorf("mail api error: status %d: %s", resp.StatusCode, message)
	}
	return nil
}
