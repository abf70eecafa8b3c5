package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateManager_Builtins(t *testing.T) {
	tm, err := NewTemplateManager()
	require.NoError(t, err)

	html, err := tm.Render(TemplateVerificationDecision, TemplateData{"Name": "Sam", "Status": "verified"})
	require.NoError(t, err)
	assert.Contains(t, html, "<strong>verified</strong>")
	assert.Contains(t, html, "You can now post jobs")

	html, err = tm.Render(TemplateVerificationDecision, TemplateData{"Name": "Sam", "Status": "rejected"})
	require.NoError(t, err)
	assert.NotContains(t, html, "You can now post jobs")

	html, err = tm.Render(TemplateJobCancelled, TemplateData{"Name": "Jo", "JobTitle": "Deck <repair>", "Late": true})
	require.NoError(t, err)
	assert.Contains(t, html, "Deck &lt;repair&gt;")
	assert.Contains(t, html, "late cancellation")
}

func TestTemplateManager_Unknown(t *testing.T) {
	tm, err := NewTemplateManager()
	require.NoError(t, err)

	_, err = tm.Render("missing", nil)
	assert.Error(t, err)
	assert.Error(t, tm.AddTemplate("broken", "{{.Name"))
}

func TestNoopProvider(t *testing.T) {
	p := NewNoopProvider()

	assert.Error(t, p.Send(&Email{}))
	require.NoError(t, p.SendTemplate([]string{"a@b.co"}, "Subject", TemplateJobCancelled, nil))
	require.Len(t, p.Sent, 1)
	assert.Equal(t, []string{"a@b.co"}, p.Sent[0].To)
}
