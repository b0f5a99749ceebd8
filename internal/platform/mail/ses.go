package mail

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// Mailer sends transactional mail through Amazon SES. When no sender address
// is configured the mailer is disabled and sends become no-ops, so the API
// can run locally without AWS credentials.
type Mailer struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
}

func NewMailer(ctx context.Context, awsRegion, fromEmail, fromName, appBaseURL string) (*Mailer, error) {
	if fromEmail == "" {
		log.Println("Mailer disabled: MAIL_FROM not configured")
		return &Mailer{enabled: false}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Mailer{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
	}, nil
}

func (m *Mailer) IsEnabled() bool {
	return m.enabled
}

// SendPasswordRecoveryEmail mails the recovery token to the user as a reset
// link pointing at the frontend.
func (m *Mailer) SendPasswordRecoveryEmail(ctx context.Context, toEmail, toName, recoveryToken string) error {
	if !m.enabled {
		log.Printf("INFO: Mailer disabled, skipping password recovery mail to %s", toEmail)
		return nil
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", m.appBaseURL, recoveryToken)
	subject := "Reset your Study Platform password"
	textBody := fmt.Sprintf(`Hi %s,

We received a request to reset your Study Platform password.

Open the link below to choose a new password:
%s

If you did not request a password reset, you can safely ignore this email.
`, toName, resetLink)
	htmlBody := fmt.Sprintf(`<p>Hi %s,</p>
<p>We received a request to reset your Study Platform password.</p>
<p><a href="%s">Reset your password</a></p>
<p>If you did not request a password reset, you can safely ignore this email.</p>
`, toName, resetLink)

	return m.send(ctx, toEmail, subject, htmlBody, textBody)
}

// SendWelcomeEmail greets a freshly registered user.
func (m *Mailer) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	if !m.enabled {
		log.Printf("INFO: Mailer disabled, skipping welcome mail to %s", toEmail)
		return nil
	}

	subject := "Welcome to Study Platform"
	textBody := fmt.Sprintf(`Hi %s,

Your Study Platform account is ready. Log in at %s to get started.
`, toName, m.appBaseURL)
	htmlBody := fmt.Sprintf(`<p>Hi %s,</p>
<p>Your Study Platform account is ready. <a href="%s">Log in</a> to get started.</p>
`, toName, m.appBaseURL)

	return m.send(ctx, toEmail, subject, htmlBody, textBody)
}

func (m *Mailer) send(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := m.fromEmail
	if m.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", m.fromName, m.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	log.Printf("INFO: Email sent: to=%s, subject=%s", toEmail, subject)
	return nil
}
