package api

import (
	"encoding/json"
	"fmt"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

type ClientConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second
}

// Client talks to the Infuse backend. Session credentials arrive as
// cookies on login and the jar replays them on every later call.
type Client struct {
	config  ClientConfig
	http    *resty.Client
	limiter *rate.Limiter
}

func NewWithConfig(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("api base URL is required")
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = 10
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %v", err)
	}

	c := resty.New().
		SetBaseURL(strings.TrimRight(config.BaseURL, "/")).
		SetTimeout(config.Timeout).
		SetCookieJar(jar)

	return &Client{
		config:  config,
		http:    c,
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
	}, nil
}

func New(baseURL string) (*Client, error) {
	return NewWithConfig(ClientConfig{BaseURL: baseURL})
}

// Error is the single opaque failure shape the rest of the client
// sees. Subtypes are not interpreted beyond success/failure.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// remoteError extracts the server's human-readable message when the
// body carries one.
func remoteError(r *resty.Response) error {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := ""
	if err := json.Unmarshal(r.Body(), &body); err == nil {
		msg = body.Error
		if msg == "" {
			msg = body.Message
		}
	}
	return &Error{Status: r.StatusCode(), Message: msg}
}
