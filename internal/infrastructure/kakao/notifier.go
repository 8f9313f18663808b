package kakao

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"NewsDigest/internal/ports"
)

// One initial POST plus a single retry after a 401-driven token refresh.
const maxSendAttempts = 2

// Config is the immutable input of the notifier.
type Config struct {
	ClientID      string
	ClientSecret  string
	RefreshToken  string
	TokenURL      string
	MessageURL    string
	LinkURL       string
	ButtonTitle   string
	Timeout       time.Duration
	RatePerSecond float64
}

// Notifier sends digests to the authenticated user's own KakaoTalk chat ("send to me").
type Notifier struct {
	cfg     Config
	oauth   oauth2.Config
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
	state   tokenState
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers credentials and endpoints; no network call happens until the first send.
func NewNotifier(cfg Config, log *slog.Logger) *Notifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	return &Notifier{
		cfg: cfg,
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, 1),
		logger:  log,
		state:   tokenState{refreshToken: cfg.RefreshToken},
	}
}

// APIError is a non-2xx answer from the memo endpoint.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("kakao api returned %d", e.StatusCode)
	}
	return fmt.Sprintf("kakao api returned %d: %s (code %d)", e.StatusCode, e.Message, e.Code)
}

// Unauthorized reports whether the provider rejected the access token.
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// PublishDigest delivers the digest as a text template memo.
// A rejected access token is refreshed once and the memo re-sent once; on a second
// rejection the latest response is returned.
func (n *Notifier) PublishDigest(ctx context.Context, digest string) error {
	if n.cfg.ClientID == "" || n.cfg.MessageURL == "" || n.cfg.TokenURL == "" {
		return fmt.Errorf("kakao notifier misconfigured")
	}

	templateObject, err := buildTemplate(digest, n.cfg.LinkURL, n.cfg.ButtonTitle)
	if err != nil {
		return fmt.Errorf("build template: %w", err)
	}

	if !n.state.hasAccessToken() {
		if err := n.AcquireAccessToken(ctx); err != nil {
			return fmt.Errorf("acquire access token: %w", err)
		}
	}

	var lastErr error
	for attempt := 1; attempt <= maxSendAttempts; attempt++ {
		lastErr = n.postMemo(ctx, templateObject)
		if lastErr == nil {
			n.info("digest delivered", "attempt", attempt)
			return nil
		}

		var apiErr *APIError
		if !errors.As(lastErr, &apiErr) || !apiErr.Unauthorized() || attempt == maxSendAttempts {
			break
		}

		n.warn("access token rejected, refreshing", "attempt", attempt)
		if err := n.AcquireAccessToken(ctx); err != nil {
			return fmt.Errorf("refresh after unauthorized send: %w", err)
		}
	}

	n.warn("digest delivery failed", "error", lastErr)
	return fmt.Errorf("send memo: %w", lastErr)
}

func (n *Notifier) postMemo(ctx context.Context, templateObject string) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	form := url.Values{}
	form.Set("template_object", templateObject)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.MessageURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+n.state.accessToken)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	return decodeAPIError(resp)
}

func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Msg  string `json:"msg"`
		Code int    `json:"code"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Message = payload.Msg
		apiErr.Code = payload.Code
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}

type textTemplate struct {
	ObjectType  string       `json:"object_type"`
	Text        string       `json:"text"`
	Link        templateLink `json:"link"`
	ButtonTitle string       `json:"button_title"`
}

type templateLink struct {
	WebURL       string `json:"web_url"`
	MobileWebURL string `json:"mobile_web_url"`
}

func buildTemplate(text, linkURL, buttonTitle string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	err := enc.Encode(textTemplate{
		ObjectType: "text",
		Text:       text,
		Link: templateLink{
			WebURL:       linkURL,
			MobileWebURL: linkURL,
		},
		ButtonTitle: buttonTitle,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func (n *Notifier) info(msg string, args ...interface{}) {
	if n.logger != nil {
		n.logger.Info(msg, args...)
	}
}

func (n *Notifier) warn(msg string, args ...interface{}) {
	if n.logger != nil {
		n.logger.Warn(msg, args...)
	}
}
