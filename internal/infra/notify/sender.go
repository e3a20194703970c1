package notify

import (
	"context"
	"fmt"
	"log/slog"

	"salon-booking/internal/pkg/config"
	"salon-booking/internal/pkg/crypto"
	"salon-booking/internal/pkg/errs"
	"salon-booking/internal/usecase/shared"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	ProviderLog      = "log"
	ProviderSendGrid = "sendgrid"
	ProviderSES      = "ses"
)

var ErrSendRejected = errs.New("email provider rejected the message")

type sendGridClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type SendGridSender struct {
	client    sendGridClient
	fromEmail string
	fromName  string
}

func NewSendGridSender(cfg config.NotifierConfig) *SendGridSender {
	return &SendGridSender{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}
}

func (s *SendGridSender) Send(ctx context.Context, msg shared.Message) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail("", msg.To)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Body, "")

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return errs.Wrap(err, "sendgrid send failed")
	}
	if resp.StatusCode >= 400 {
		return errs.Wrap(ErrSendRejected, fmt.Sprintf("sendgrid status %d", resp.StatusCode))
	}
	slog.Debug("email sent via sendgrid", "to", crypto.MaskEmail(msg.To), "status", resp.StatusCode)
	return nil
}

type sesClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type SESSender struct {
	client    sesClient
	fromEmail string
	fromName  string
}

func NewSESSender(client *sesv2.Client, cfg config.NotifierConfig) *SESSender {
	return &SESSender{
		client:    client,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}
}

func (s *SESSender) Send(ctx context.Context, msg shared.Message) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)),
		Destination:      &types.Destination{ToAddresses: []string{msg.To}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(msg.Body), Charset: aws.String("UTF-8")},
				},
			},
		},
	}

	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return errs.Wrap(err, "ses send failed")
	}
	slog.Debug("email sent via ses", "to", crypto.MaskEmail(msg.To), "message_id", aws.ToString(out.MessageId))
	return nil
}

// LogSender only logs; it is the default outside production.
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg shared.Message) error {
	slog.Info("email (log provider)", "to", crypto.MaskEmail(msg.To), "subject", msg.Subject)
	return nil
}

var (
	_ shared.Notifier = (*SendGridSender)(nil)
	_ shared.Notifier = (*SESSender)(nil)
	_ shared.Notifier = LogSender{}
)
