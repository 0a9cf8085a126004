package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"mime"
	"mime/quotedprintable"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"

	"alfredoptarigan/declic-pro/internal/logger"
	"alfredoptarigan/declic-pro/internal/models"
)

const (
	EmailSubject       = "DAP Déclic Pro — Tes résultats"
	DefaultFromAddress = "no-reply@dap-declic-pro.local"
)

var resultEmailTemplate = template.Must(template.New("result").Parse(`<h2>DAP Déclic Pro — Résultats</h2>
<p><b>Type:</b> {{.ProfileType}}</p>
<p><b>Compatibilité:</b> {{.Score}}%</p>
<p><b>Plan:</b> {{.Summary}}</p>
<pre style="background:#f6f6f6;padding:12px;border-radius:8px">{{.JSON}}</pre>
`))

type MailMessage struct {
	From    string
	To      string
	Subject string
	HTML    string
}

type MailTransport interface {
	Name() string
	Send(ctx context.Context, msg *MailMessage) error
}

type Mailer interface {
	Configured() bool
	Send(ctx context.Context, to string, result *models.AnalysisResult) error
}

type mailer struct {
	transport MailTransport
	from      string
	log       logger.Logger
}

// NewMailer accepts a nil transport: Send then reports the feature as unconfigured.
func NewMailer(transport MailTransport, from string, log logger.Logger) Mailer {
	if from == "" {
		from = DefaultFromAddress
	}
	return &mailer{
		transport: transport,
		from:      from,
		log:       log.WithFields(map[string]interface{}{"component": "mailer"}),
	}
}

func (m *mailer) Configured() bool {
	return m.transport != nil
}

func (m *mailer) Send(ctx context.Context, to string, result *models.AnalysisResult) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return &InputValidationError{Field: "to", Message: MsgMissingRecipient}
	}
	if m.transport == nil {
		return &ConfigurationError{Setting: "SMTP_HOST", Optional: true, Message: MsgMailNotConfigured}
	}
	if result == nil {
		return &InputValidationError{Field: "result", Message: MsgMissingResult}
	}

	html, err := RenderResultEmail(result)
	if err != nil {
		return err
	}

	msg := &MailMessage{From: m.from, To: to, Subject: EmailSubject, HTML: html}
	if err := m.transport.Send(ctx, msg); err != nil {
		EmailsSentTotal.WithLabelValues(m.transport.Name(), "failed").Inc()
		m.log.Error("❌ Failed to send result email", map[string]interface{}{
			"transport": m.transport.Name(),
			"error":     err.Error(),
		})
		return &EmailTransportError{Cause: err}
	}

	EmailsSentTotal.WithLabelValues(m.transport.Name(), "sent").Inc()
	m.log.Info("📧 Result email sent", map[string]interface{}{"transport": m.transport.Name()})
	return nil
}

// RenderResultEmail builds the HTML summary. Every value is escaped by html/template.
func RenderResultEmail(result *models.AnalysisResult) (string, error) {
	pretty, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}

	var buf bytes.Buffer
	err = resultEmailTemplate.Execute(&buf, map[string]string{
		"ProfileType": result.ProfileType,
		"Score":       strconv.FormatFloat(result.Compatibility.ScorePercent, 'f', -1, 64),
		"Summary":     result.ActionPlan.Summary,
		"JSON":        string(pretty),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render email: %w", err)
	}

	return buf.String(), nil
}

// BuildMIMEMessage returns an RFC 5322 HTML message with a quoted-printable body.
func BuildMIMEMessage(msg *MailMessage) ([]byte, error) {
	var builder bytes.Buffer

	builder.WriteString(fmt.Sprintf("From: %s\r\n", msg.From))
	builder.WriteString(fmt.Sprintf("To: %s\r\n", msg.To))
	builder.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject)))
	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	builder.WriteString("Content-Transfer-Encoding: quoted-printable\r\n")
	builder.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&builder)
	if _, err := qp.Write([]byte(msg.HTML)); err != nil {
		return nil, fmt.Errorf("failed to encode body: %w", err)
	}
	if err := qp.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode body: %w", err)
	}

	return builder.Bytes(), nil
}

type smtpSendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type smtpTransport struct {
	host     string
	port     int
	username string
	password string
	send     smtpSendFunc
}

// NewSMTPTransport returns nil unless host, user and password are all set.
// smtp.SendMail upgrades with STARTTLS whenever the server offers it.
func NewSMTPTransport(host string, port int, username, password string) MailTransport {
	if host == "" || username == "" || password == "" {
		return nil
	}
	if port == 0 {
		port = 587
	}
	return &smtpTransport{
		host:     host,
		port:     port,
		username: username,
		password: password,
		send:     smtp.SendMail,
	}
}

func (s *smtpTransport) Name() string {
	return "smtp"
}

func (s *smtpTransport) Send(ctx context.Context, msg *MailMessage) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before sending email: %w", err)
	}

	raw, err := BuildMIMEMessage(msg)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	if err := s.send(addr, auth, msg.From, []string{msg.To}, raw); err != nil {
		return fmt.Errorf("smtp send via %s: %w", addr, err)
	}
	return nil
}

type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type sesTransport struct {
	client sesAPI
}

// NewSESTransport loads the default AWS credential chain for region.
func NewSESTransport(ctx context.Context, region string) (MailTransport, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &sesTransport{client: ses.NewFromConfig(cfg)}, nil
}

func (s *sesTransport) Name() string {
	return "ses"
}

func (s *sesTransport) Send(ctx context.Context, msg *MailMessage) error {
	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(msg.From),
		Destination: &sestypes.Destination{ToAddresses: []string{msg.To}},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
			Body: &sestypes.Body{
				Html: &sestypes.Content{Data: aws.String(msg.HTML), Charset: aws.String("UTF-8")},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	return nil
}
