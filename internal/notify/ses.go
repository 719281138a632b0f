package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/insulindose/interest-api/internal/config"
	"github.com/insulindose/interest-api/internal/pkg/logger"
)

// SESSender sends the notification via AWS SES using the SDK v2.
type SESSender struct {
	client *sesv2.Client
}

// NewSESSender creates an SES sender. Initializes the AWS SDK client if
// credentials are provided.
func NewSESSender(cfg config.SESConfig) *SESSender {
	sender := &SESSender{}

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(cfg.Region),
			awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
		)
		if err != nil {
			logger.Warn("failed to initialize AWS config", "error", err)
		} else {
			sender.client = sesv2.NewFromConfig(awsCfg)
		}
	}

	return sender
}

// Name implements Sender.
func (s *SESSender) Name() string { return "ses" }

// Send implements Sender.
func (s *SESSender) Send(ctx context.Context, msg *Message) error {
	if s.client == nil {
		return fmt.Errorf("SES client not initialized - check credentials")
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", msg.FromName, msg.FromEmail)),
		Destination:      &types.Destination{ToAddresses: []string{msg.To}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(msg.HTML), Charset: aws.String("UTF-8")},
					Text: &types.Content{Data: aws.String(msg.Text), Charset: aws.String("UTF-8")},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("ses send: %w", err)
	}
	return nil
}
