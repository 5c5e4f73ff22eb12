package notify

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/talkincode/realtydesk/config"
	"github.com/talkincode/realtydesk/internal/analytics"
	"github.com/talkincode/realtydesk/internal/domain"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

func digest(email string, n int) analytics.ClientMatches {
	cm := analytics.ClientMatches{
		Client: domain.Client{ID: 1, FirstName: "Ada", LastName: "Lovelace", Email: email},
	}
	for i := 0; i < n; i++ {
		cm.Matches = append(cm.Matches, analytics.Match{
			Property: domain.Property{ID: int64(i + 1), Address: "12 Oak Ave", City: "Austin", Price: 450000, Bedrooms: 3, Bathrooms: 2, Area: 2200},
			Score:    0.85,
		})
	}
	return cm
}

func TestCompose(t *testing.T) {
	m := NewMailer(config.MailConfig{From: "agent@example.com"})
	assert.False(t, m.Enabled())

	msg, err := m.Compose(digest("ada@example.com", 1))
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "From: agent@example.com")
	assert.Contains(t, out, "ada@example.com")
	assert.Contains(t, out, "Subject: 1 properties matching your search")
	assert.Contains(t, out, "$450,000.00")
	assert.Contains(t, out, "2,200 sq ft")
	assert.Contains(t, out, "85%")

	_, err = m.Compose(digest("", 1))
	assert.True(t, domain.IsValidation(err))
}

func TestSend(t *testing.T) {
	_, err := NewMailer(config.MailConfig{}).Send(nil)
	assert.True(t, domain.IsValidation(err))

	fs := &fakeSender{}
	m := NewMailer(config.MailConfig{Host: "smtp.example.com", Port: 587, Username: "bot@example.com"}).WithSender(fs)
	require.True(t, m.Enabled())

	n, err := m.Send([]analytics.ClientMatches{
		digest("ada@example.com", 2),
		digest("", 1),
		digest("bob@example.com", 0),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, fs.sent, 1)
	assert.Equal(t, []string{"bot@example.com"}, fs.sent[0].GetHeader("From"))

	fs.err = errors.New("connection refused")
	_, err = m.Send([]analytics.ClientMatches{digest("ada@example.com", 1)})
	assert.ErrorContains(t, err, "connection refused")
}
