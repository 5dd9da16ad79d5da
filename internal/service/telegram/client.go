package telegram

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	xhttp "SignalRelay/pkg/http"
)

const defaultAPIBase = "https://api.telegram.org"

// Client sends messages through the Telegram Bot API. It is the only piece
// that talks to the chat platform; callers hand it text and a destination.
type Client struct {
	apiBase string
	token   string
	http    *xhttp.Client
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
}

// Option configures Client.
type Option func(*Client)

// WithAPIBase overrides the API host (tests point it at a local server).
func WithAPIBase(base string) Option {
	return func(c *Client) { c.apiBase = base }
}

func New(botToken string, sendTimeout time.Duration, opts ...Option) *Client {
	if sendTimeout <= 0 {
		sendTimeout = 15 * time.Second
	}
	c := &Client{
		apiBase: defaultAPIBase,
		token:   botToken,
		http:    xhttp.NewClient(xhttp.WithTimeout(sendTimeout)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SendMessage delivers text to chatID. HTML parse mode with link previews
// disabled, since the notification format carries its own markup and a chart URL.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	form := url.Values{
		"chat_id":                  {strconv.FormatInt(chatID, 10)},
		"text":                     {text},
		"parse_mode":               {"HTML"},
		"disable_web_page_preview": {"true"},
	}

	var resp apiResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    fmt.Sprintf("%s/bot%s/sendMessage", c.apiBase, c.token),
		Body:   form,
	}, &resp)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	if !resp.OK {
		return fmt.Errorf("telegram api error %d: %s", resp.ErrorCode, resp.Description)
	}
	return nil
}
