package notify

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/talkincode/realtydesk/config"
	"github.com/talkincode/realtydesk/internal/analytics"
	"github.com/talkincode/realtydesk/internal/domain"
	"github.com/talkincode/realtydesk/pkg/common"
)

// Sender delivers composed messages. *gomail.Dialer implements it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends match digests to clients.
type Mailer struct {
	from   string
	sender Sender
}

// NewMailer returns a Mailer for cfg. Without a host it can still compose
// messages but Enabled reports false.
func NewMailer(cfg config.MailConfig) *Mailer {
	m := &Mailer{from: cfg.From}
	if cfg.Host != "" {
		m.sender = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	if m.from == "" {
		m.from = cfg.Username
	}
	return m
}

// WithSender replaces the SMTP dialer.
func (m *Mailer) WithSender(s Sender) *Mailer {
	m.sender = s
	return m
}

func (m *Mailer) Enabled() bool {
	return m.sender != nil
}

// Compose builds the digest for one client.
func (m *Mailer) Compose(cm analytics.ClientMatches) (*gomail.Message, error) {
	if cm.Client.Email == "" {
		return nil, domain.NewValidationError("email", "client %d has no email address", cm.Client.ID)
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetAddressHeader("To", cm.Client.Email, cm.Client.FullName())
	msg.SetHeader("Subject", fmt.Sprintf("%d properties matching your search", len(cm.Matches)))
	msg.SetBody("text/plain", digestBody(cm))
	return msg, nil
}

func digestBody(cm analytics.ClientMatches) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Hello %s,\n\n", cm.Client.FirstName)
	if len(cm.Matches) == 0 {
		sb.WriteString("No listings match your preferences right now.\n")
		return sb.String()
	}
	sb.WriteString("These listings match your preferences:\n\n")
	for _, mt := range cm.Matches {
		p := mt.Property
		fmt.Fprintf(&sb, "- %s, %s: %s, %d bd / %d ba, %s sq ft (match %s)\n",
			p.Address, p.City, common.FormatMoney(p.Price), p.Bedrooms, p.Bathrooms,
			common.FormatInt(int(p.Area)), common.FormatPercent(mt.Score))
	}
	return sb.String()
}

// Send composes and delivers one digest per client that has matches and an
// email address. It returns the number of messages sent.
func (m *Mailer) Send(all []analytics.ClientMatches) (int, error) {
	if !m.Enabled() {
		return 0, domain.NewValidationError("mail", "smtp host is not configured")
	}
	var msgs []*gomail.Message
	for _, cm := range all {
		if len(cm.Matches) == 0 {
			continue
		}
		msg, err := m.Compose(cm)
		if err != nil {
			zap.L().Warn("skip match digest", zap.Int64("client_id", cm.Client.ID), zap.Error(err))
			continue
		}
		msgs = append(msgs, msg)
	}
	if len(msgs) == 0 {
		return 0, nil
	}
	if err := m.sender.DialAndSend(msgs...); err != nil {
		return 0, errors.Wrap(err, "send match digests")
	}
	return len(msgs), nil
}
