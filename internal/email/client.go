package email

import (
	"context"
	"fmt"
	"html"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	appconfig "github.com/ugcgo/ugcgo-backend/internal/config"
)

// SESClient is the subset of the SES v2 API used for notifications
type SESClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type Client struct {
	SESClient SESClient
	Sender    string
	LoginURL  string
}

func NewClient(ctx context.Context, appCfg *appconfig.Config) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(appCfg.SESAccessKeyID, appCfg.SESSecretAccessKey, "")),
		config.WithRegion(appCfg.SESRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load SES config: %w", err)
	}

	sesClient := sesv2.NewFromConfig(cfg, func(o *sesv2.Options) {
		if appCfg.SESEndpoint != "" {
			o.BaseEndpoint = aws.String(appCfg.SESEndpoint)
		}
	})

	return &Client{
		SESClient: sesClient,
		Sender:    appCfg.EmailFrom,
		LoginURL:  appCfg.AppLoginURL,
	}, nil
}

// IsConfigured reports whether the client can send mail
func (c *Client) IsConfigured() bool {
	return c != nil && c.Sender != "" && c.SESClient != nil
}

// SendGiftCreditsEmail tells a user that video credits were added to their account
func (c *Client) SendGiftCreditsEmail(ctx context.Context, toEmail string, gifted, total int) error {
	subject := fmt.Sprintf("%d video hakkı hesabınıza eklendi", gifted)
	body := fmt.Sprintf(`
		<html>
		<head>
			<meta charset="UTF-8">
		</head>
		<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
			<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
				<h2>Hediye video hakkı</h2>
				<p>Merhaba,</p>
				<p>Hesabınıza <strong>%d</strong> hediye video hakkı eklendi. Toplam hakkınız: <strong>%d</strong>.</p>
				<p style="margin-top: 30px;">
					<a href="%s" style="background-color: #111; color: white; padding: 12px 30px; text-decoration: none; border-radius: 4px; display: inline-block;">
						Video oluştur
					</a>
				</p>
				<p style="margin-top: 30px; border-top: 1px solid #ddd; padding-top: 20px; font-size: 12px; color: #999;">
					Bu e-posta otomatik olarak gönderilmiştir. Lütfen yanıtlamayın.
				</p>
			</div>
		</body>
		</html>
	`, gifted, total, html.EscapeString(c.LoginURL))

	return c.sendHTMLEmail(ctx, toEmail, subject, body)
}

// sendHTMLEmail sends an HTML email through SES
func (c *Client) sendHTMLEmail(ctx context.Context, toEmail, subject, htmlBody string) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: &c.Sender,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    &subject,
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    &htmlBody,
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	_, err := c.SESClient.SendEmail(ctx, input)
	return err
}
