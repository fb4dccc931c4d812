package notification

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Notifier sends a dispatch alert for a patient to a recipient (an SMS
// gateway in production). failures are for the caller to log; they must
// never block or roll back a lifecycle transition.
type Notifier interface {
	Notify(ctx context.Context, recipient, patientName string) error
}

func alertBody(patientName string) string {
	return fmt.Sprintf("ALERT: Ambulance dispatched for %s. Stay safe!", patientName)
}

// LogNotifier logs alerts instead of delivering them. used when no SMS
// gateway is configured.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, recipient, patientName string) error {
	n.log.Info("dispatch alert (no sms gateway configured)",
		zap.String("recipient", recipient),
		zap.String("body", alertBody(patientName)))
	return nil
}

// SMSGateway delivers alerts through a twilio-style messages endpoint.
type SMSGateway struct {
	endpoint string
	from     string
	token    string
	client   *http.Client
	log      *zap.Logger
}

func NewSMSGateway(endpoint, from, token string, log *zap.Logger) *SMSGateway {
	return &SMSGateway{
		endpoint: endpoint,
		from:     from,
		token:    token,
		client:   &http.Client{Timeout: 10 * time.Second},
		log:      log,
	}
}

func (g *SMSGateway) Notify(ctx context.Context, recipient, patientName string) error {
	form := url.Values{}
	form.Set("To", recipient)
	form.Set("From", g.from)
	form.Set("Body", alertBody(patientName))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}
	g.log.Info("sms alert delivered", zap.String("recipient", recipient))
	return nil
}
