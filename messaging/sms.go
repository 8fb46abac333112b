package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"venue_manager/metrics"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// PermanentError marks a delivery failure that retrying cannot fix.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func IsPermanent(err error) bool {
	var p *PermanentError
	return errors.As(err, &p)
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) (providerId string, err error)
}

type SMSConfig struct {
	BaseURL        string
	AccountSID     string
	AuthToken      string
	From           string
	StatusCallback string
	RatePerSecond  float64
	Timeout        time.Duration
}

// SMSClient talks to a Twilio-compatible Messages API.
type SMSClient struct {
	cfg     SMSConfig
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

func NewSMSClient(cfg SMSConfig) *SMSClient {
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &SMSClient{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "sms",
			MaxRequests: 1,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.Requests >= 5 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
			},
			IsSuccessful: func(err error) bool {
				// A rejected recipient says nothing about the provider's health.
				return err == nil || IsPermanent(err)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			},
		}),
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1),
	}
}

type smsResponse struct {
	Sid     string `json:"sid"`
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (c *SMSClient) SendSMS(ctx context.Context, to, body string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.post(ctx, to, body)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

func (c *SMSClient) post(ctx context.Context, to, body string) (string, error) {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", c.cfg.From)
	form.Set("Body", body)
	if c.cfg.StatusCallback != "" {
		form.Set("StatusCallback", c.cfg.StatusCallback)
	}

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &PermanentError{Err: err}
	}
	req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("sms request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var out smsResponse
	_ = json.Unmarshal(raw, &out)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out.Sid == "" {
			return "", errors.New("sms provider returned no message id")
		}
		return out.Sid, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", fmt.Errorf("sms provider status %d: %s", resp.StatusCode, out.Message)
	default:
		return "", &PermanentError{Err: fmt.Errorf("sms provider status %d (code %d): %s", resp.StatusCode, out.Code, out.Message)}
	}
}
