package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendInterviewInvitation(t *testing.T) {
	var got sendRequest
	var auth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/emails", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "jobs@example.gov")
	err := client.SendInterviewInvitation(context.Background(), "jane@example.com", InterviewInvitation{
		ApplicantName: "Jane Doe",
		JobTitle:      "Software Engineer",
		CompanyName:   "Department of Technology",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", auth)
	assert.Equal(t, "jobs@example.gov", got.From)
	assert.Equal(t, []string{"jane@example.com"}, got.To)
	assert.Equal(t, "Interview Invitation: Software Engineer", got.Subject)
	assert.Contains(t, got.HTML, "Jane Doe")
	assert.Contains(t, got.HTML, "Software Engineer")
	assert.Contains(t, got.HTML, "Department of Technology")
}

func TestSendInterviewInvitationServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"invalid from address"}`, http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "bad")
	err := client.SendInterviewInvitation(context.Background(), "jane@example.com", InterviewInvitation{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestSendInterviewInvitationEmptyRecipient(t *testing.T) {
	client := NewClient("", "test-key", "jobs@example.gov")
	err := client.SendInterviewInvitation(context.Background(), "", InterviewInvitation{})
	assert.Error(t, err)
}

func TestRenderInvitationFallbackName(t *testing.T) {
	html := renderInvitationHTML(InterviewInvitation{JobTitle: "Clerk", CompanyName: "City Hall"})
	assert.Contains(t, html, "Dear Applicant")
}
