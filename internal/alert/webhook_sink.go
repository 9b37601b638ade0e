package alert

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cout970/cronrs/internal/task"
)

// webhookTimeout is the connect+read timeout for webhook sinks, per §4.6.
const webhookTimeout = 10 * time.Second

// webhookSink dispatches a single HTTP request, retry never (at-most-once).
type webhookSink struct {
	cfg    WebhookSinkConfig
	client *http.Client
}

func NewWebhookSink(cfg WebhookSinkConfig) Sink {
	return &webhookSink{cfg: cfg, client: &http.Client{Timeout: webhookTimeout}}
}

func (s *webhookSink) Send(rc task.RunContext) error {
	method := strings.ToUpper(strings.TrimSpace(s.cfg.Method))
	if method == "" {
		method = http.MethodPost
	}
	body := render(s.cfg.Body, rc)

	req, err := http.NewRequest(method, s.cfg.URL, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: build request: %w", err)
	}
	for k, v := range s.cfg.Headers {
		req.Header.Set(k, render(v, rc))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook: %s returned status %d", s.cfg.URL, resp.StatusCode)
	}
	return nil
}
