// internal/notifier/ses.go
package notifier

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"careers-intake/internal/common/config"
	"careers-intake/internal/common/errors"
	"careers-intake/internal/common/logger"
)

// SESService is the slice of the SES client the notifier needs; narrowed for
// mocking.
type SESService interface {
	SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error)
}

// SESNotifier delivers notifications through Amazon SES raw email, which is
// the only SES path that carries attachments.
type SESNotifier struct {
	client SESService
	cfg    config.NotificationConfig
	logger logger.Logger
}

func NewSESNotifier(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (*SESNotifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &SESNotifier{
		client: ses.NewFromConfig(awsCfg),
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "notifier", "provider": "ses"}),
	}, nil
}

// NewSESNotifierWithClient injects a prebuilt client; used by tests.
func NewSESNotifierWithClient(client SESService, cfg config.NotificationConfig, log logger.Logger) *SESNotifier {
	return &SESNotifier{
		client: client,
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "notifier", "provider": "ses"}),
	}
}

func (n *SESNotifier) Send(ctx context.Context, msg Message) error {
	if !isValidEmail(msg.To) {
		return errors.NewDeliveryError(errors.ErrCodeNotificationSendFailed,
			fmt.Errorf("invalid recipient address: %s", msg.To))
	}

	payload := buildMIMEMessage(msg)

	out, err := n.client.SendRawEmail(ctx, &ses.SendRawEmailInput{
		RawMessage:   &types.RawMessage{Data: payload},
		Source:       aws.String(msg.From),
		Destinations: []string{msg.To},
	})
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return errors.NewDeliveryError(errors.ErrCodeNotificationTimeout, err)
		}
		return errors.NewDeliveryError(errors.ErrCodeNotificationSendFailed, err)
	}

	n.logger.Info("notification sent", map[string]interface{}{
		"to":        msg.To,
		"subject":   msg.Subject,
		"messageId": aws.ToString(out.MessageId),
	})

	return nil
}
