// Package notify sends applicant-facing email notifications through an
// HTTP email delivery service.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.resend.com"

// InterviewInvitation carries the template data for a second-round
// interview invitation email.
type InterviewInvitation struct {
	ApplicantName string
	JobTitle      string
	CompanyName   string
}

// Client sends transactional email through an HTTP delivery API.
type Client struct {
	baseURL    string
	apiKey     string
	fromAddr   string
	httpClient *http.Client
}

// NewClient creates an email client. baseURL may be empty to use the
// service default.
func NewClient(baseURL, apiKey, fromAddr string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		fromAddr:   fromAddr,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// SendInterviewInvitation emails an applicant that they advanced to the
// interview stage. Callers treat failures as best-effort.
func (c *Client) SendInterviewInvitation(ctx context.Context, recipient string, invitation InterviewInvitation) error {
	if recipient == "" {
		return fmt.Errorf("recipient email is empty")
	}

	subject := fmt.Sprintf("Interview Invitation: %s", invitation.JobTitle)
	body := renderInvitationHTML(invitation)

	return c.send(ctx, sendRequest{
		From:    c.fromAddr,
		To:      []string{recipient},
		Subject: subject,
		HTML:    body,
	})
}

func (c *Client) send(ctx context.Context, req sendRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("email delivery request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email delivery returned status %d: %s", resp.StatusCode, detail)
	}
	return nil
}

func renderInvitationHTML(invitation InterviewInvitation) string {
	name := invitation.ApplicantName
	if name == "" {
		name = "Applicant"
	}
	return fmt.Sprintf(
		`<p>Dear %s,</p>
<p>Thank you for applying for the <strong>%s</strong> position at %s. We were impressed by your application and would like to invite you to the interview stage.</p>
<p>Our hiring team will contact you shortly to schedule a time.</p>
<p>Best regards,<br>%s Hiring Team</p>`,
		name, invitation.JobTitle, invitation.CompanyName, invitation.CompanyName)
}
