package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/quotedprintable"
	"net/smtp"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/declic-pro/internal/logger"
)

type fakeTransport struct {
	sent []*MailMessage
	err  error
}

func (f *fakeTransport) Name() string { return "fake" }

func (f *fakeTransport) Send(ctx context.Context, msg *MailMessage) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func TestMailerSend(t *testing.T) {
	transport := &fakeTransport{}
	m := NewMailer(transport, "", logger.NewNoOpLogger())

	require.True(t, m.Configured())
	require.NoError(t, m.Send(context.Background(), " jean@example.com ", sampleResult()))
	require.Len(t, transport.sent, 1)

	msg := transport.sent[0]
	assert.Equal(t, DefaultFromAddress, msg.From)
	assert.Equal(t, "jean@example.com", msg.To)
	assert.Equal(t, EmailSubject, msg.Subject)
	assert.Contains(t, msg.HTML, "Acheteur opérationnel en transition")
	assert.Contains(t, msg.HTML, "<b>Compatibilité:</b> 78%")
	assert.Contains(t, msg.HTML, "<pre")
}

func TestMailerErrors(t *testing.T) {
	tests := []struct {
		name      string
		transport MailTransport
		to        string
		nilResult bool
		check     func(t *testing.T, err error)
	}{
		{
			name:      "missing recipient",
			transport: &fakeTransport{},
			to:        "  ",
			check: func(t *testing.T, err error) {
				var inputErr *InputValidationError
				require.ErrorAs(t, err, &inputErr)
				assert.Equal(t, MsgMissingRecipient, err.Error())
			},
		},
		{
			name: "unconfigured",
			to:   "jean@example.com",
			check: func(t *testing.T, err error) {
				var cfgErr *ConfigurationError
				require.ErrorAs(t, err, &cfgErr)
				assert.True(t, cfgErr.Optional)
				assert.Equal(t, MsgMailNotConfigured, err.Error())
			},
		},
		{
			name:      "missing result",
			transport: &fakeTransport{},
			to:        "jean@example.com",
			nilResult: true,
			check: func(t *testing.T, err error) {
				var inputErr *InputValidationError
				require.ErrorAs(t, err, &inputErr)
			},
		},
		{
			name:      "transport failure",
			transport: &fakeTransport{err: errors.New("connection refused")},
			to:        "jean@example.com",
			check: func(t *testing.T, err error) {
				var transportErr *EmailTransportError
				require.ErrorAs(t, err, &transportErr)
				assert.EqualError(t, transportErr.Cause, "connection refused")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var transport MailTransport
			if tt.transport != nil {
				transport = tt.transport
			}
			m := NewMailer(transport, "from@example.com", logger.NewNoOpLogger())

			result := sampleResult()
			if tt.nilResult {
				result = nil
			}
			tt.check(t, m.Send(context.Background(), tt.to, result))
		})
	}
}

func TestRenderResultEmailEscapesValues(t *testing.T) {
	r := sampleResult()
	r.ProfileType = `<script>alert("x")</script>`
	r.ActionPlan.Summary = "A & B"

	html, err := RenderResultEmail(r)
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "A &amp; B")
}

func TestNewSMTPTransportRequiresCredentials(t *testing.T) {
	assert.Nil(t, NewSMTPTransport("", 587, "u", "p"))
	assert.Nil(t, NewSMTPTransport("smtp.example.com", 587, "", "p"))
	assert.Nil(t, NewSMTPTransport("smtp.example.com", 587, "u", ""))

	tr := NewSMTPTransport("smtp.example.com", 0, "u", "p")
	require.NotNil(t, tr)
	assert.Equal(t, 587, tr.(*smtpTransport).port)
}

func TestSMTPTransportSend(t *testing.T) {
	tr := NewSMTPTransport("smtp.example.com", 2525, "user", "secret").(*smtpTransport)

	var (
		gotAddr string
		gotFrom string
		gotTo   []string
		gotMsg  []byte
	)
	tr.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	html := "<p>" + strings.Repeat("Résultat très détaillé ", 80) + "</p>"
	err := tr.Send(context.Background(), &MailMessage{
		From:    "no-reply@example.com",
		To:      "jean@example.com",
		Subject: EmailSubject,
		HTML:    html,
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:2525", gotAddr)
	assert.Equal(t, "no-reply@example.com", gotFrom)
	assert.Equal(t, []string{"jean@example.com"}, gotTo)

	headers, body, found := bytes.Cut(gotMsg, []byte("\r\n\r\n"))
	require.True(t, found)
	assert.Contains(t, string(headers), "Subject: =?utf-8?q?")
	assert.Contains(t, string(headers), "Content-Transfer-Encoding: quoted-printable")

	for _, line := range strings.Split(string(body), "\r\n") {
		assert.LessOrEqual(t, len(line), 76)
	}
	decoded, err := io.ReadAll(quotedprintable.NewReader(bytes.NewReader(body)))
	require.NoError(t, err)
	assert.Equal(t, html, string(decoded))
}

func TestSMTPTransportCancelledContext(t *testing.T) {
	tr := NewSMTPTransport("smtp.example.com", 587, "user", "secret").(*smtpTransport)
	tr.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("must not dial with a cancelled context")
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, tr.Send(ctx, &MailMessage{}))
}

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESTransportSend(t *testing.T) {
	client := &fakeSES{}
	tr := &sesTransport{client: client}

	err := tr.Send(context.Background(), &MailMessage{
		From:    "no-reply@example.com",
		To:      "jean@example.com",
		Subject: EmailSubject,
		HTML:    "<p>ok</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, "ses", tr.Name())
	assert.Equal(t, "no-reply@example.com", aws.ToString(client.input.Source))
	assert.Equal(t, []string{"jean@example.com"}, client.input.Destination.ToAddresses)
	assert.Equal(t, EmailSubject, aws.ToString(client.input.Message.Subject.Data))
	assert.Equal(t, "<p>ok</p>", aws.ToString(client.input.Message.Body.Html.Data))

	client.err = errors.New("throttled")
	assert.ErrorContains(t, tr.Send(context.Background(), &MailMessage{}), "throttled")
}
