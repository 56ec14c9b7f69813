package email

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/syndik/internal/domain/money"
)

type captureSender struct {
	sent []Message
	err  error
}

func (c *captureSender) Name() string { return "capture" }

func (c *captureSender) Send(_ context.Context, msg Message) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, msg)
	return nil
}

func TestRenderer_EscapesUserInput(t *testing.T) {
	r := NewRenderer()
	msg, err := r.Render(TplInvitation, "a@b.ma", map[string]any{
		"name":      "<script>x</script>",
		"residence": "Les Jardins",
		"apartment": "B12",
		"link":      "https://app.example/activate",
	})
	require.NoError(t, err)
	assert.Equal(t, "a@b.ma", msg.To)
	assert.Equal(t, "Invitation à Les Jardins", msg.Subject)
	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.HTML, "&lt;script&gt;")
	assert.Contains(t, msg.Text, "B12")
}

func TestRenderer_UnknownTemplate(t *testing.T) {
	_, err := NewRenderer().Render("nope", "x@y.z", nil)
	assert.ErrorIs(t, err, ErrTemplateRender)
}

func TestRenderer_Override(t *testing.T) {
	r := NewRenderer()
	_, err := r.Render(TplDocumentApproved, "x@y.z", map[string]any{"residence": "A", "name": "n"})
	require.NoError(t, err)

	r.Override(TplDocumentApproved, "Custom {{ residence }}", "<b>{{ residence }}</b>", "{{ residence }}")
	msg, err := r.Render(TplDocumentApproved, "x@y.z", map[string]any{"residence": "B"})
	require.NoError(t, err)
	assert.Equal(t, "Custom B", msg.Subject)
	assert.Equal(t, "<b>B</b>", msg.HTML)
}

func TestService_PaymentReceipt(t *testing.T) {
	s := &captureSender{}
	svc := NewService(s, nil, "")

	err := svc.SendPaymentReceipt(context.Background(), Recipient{Email: "r@x.ma", Name: "Rim"},
		money.FromUnits(1000), money.FromUnits(100), []AllocationLine{
			{Label: "Ascenseur", Amount: money.FromUnits(600)},
			{Label: "2025-05", Amount: money.FromUnits(300)},
		})
	require.NoError(t, err)
	require.Len(t, s.sent, 1)

	m := s.sent[0]
	assert.Equal(t, "Paiement confirmé: 1000.00 MAD", m.Subject)
	assert.Contains(t, m.HTML, "Ascenseur: 600.00 MAD")
	assert.Contains(t, m.HTML, "Crédit disponible: 100.00 MAD")
}

func TestService_OTPAndFailureObserver(t *testing.T) {
	s := &captureSender{}
	svc := NewService(s, nil, "MAD")
	require.NoError(t, svc.SendOTP(context.Background(), Recipient{Email: "a@b.c"}, "123456", "login", 10*time.Minute))
	assert.Contains(t, s.sent[0].Text, "123456")
	assert.Contains(t, s.sent[0].Text, "10 minutes")
	assert.Equal(t, "Votre code de connexion", s.sent[0].Subject)

	s.err = errors.New("smtp down")
	var failed []string
	svc.OnFailure(func(tpl string) { failed = append(failed, tpl) })
	err := svc.SendDocumentRejected(context.Background(), Recipient{Email: "a@b.c"}, "R", "incomplet")
	assert.Error(t, err)
	assert.Equal(t, []string{"document_rejected"}, failed)
}

type fakeSES struct{ in *sesv2.SendEmailInput }

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.in = in
	return &sesv2.SendEmailOutput{MessageId: aws.String("m-1")}, nil
}

func TestSESSender_BuildsSimpleMessage(t *testing.T) {
	api := &fakeSES{}
	s := NewSESSenderWithClient(api, "no-reply@syndik.ma")
	require.NoError(t, s.Send(context.Background(), Message{To: "r@x.ma", Subject: "Hi", HTML: "<p>x</p>", Text: "x"}))

	require.NotNil(t, api.in)
	assert.Equal(t, "no-reply@syndik.ma", aws.ToString(api.in.FromEmailAddress))
	assert.Equal(t, []string{"r@x.ma"}, api.in.Destination.ToAddresses)
	assert.Equal(t, "Hi", aws.ToString(api.in.Content.Simple.Subject.Data))
	assert.Equal(t, "<p>x</p>", aws.ToString(api.in.Content.Simple.Body.Html.Data))
	assert.Equal(t, "x", aws.ToString(api.in.Content.Simple.Body.Text.Data))
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestDiagnoseSMTP(t *testing.T) {
	cases := []struct {
		err  error
		code string
		temp bool
	}{
		{timeoutErr{}, "timeout", true},
		{errors.New("535 5.7.8 Username and Password not accepted"), "auth", false},
		{errors.New("dial tcp 1.2.3.4:587: connect: connection refused"), "dial", true},
		{errors.New("550 5.1.1 user unknown"), "invalid_recipient", false},
		{errors.New("421 4.7.0 try again later"), "rate_limited", true},
		{errors.New("x509: certificate signed by unknown authority"), "tls", false},
		{errors.New("weird"), "unknown", false},
	}
	for _, c := range cases {
		d := DiagnoseSMTP(c.err)
		assert.Equal(t, c.code, d.Code, c.err.Error())
		assert.Equal(t, c.temp, d.Temporary, c.err.Error())
	}
}
