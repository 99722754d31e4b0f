package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// API: методы Bot API, которые нужны боту.
type API interface {
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error)
	SendMessage(ctx context.Context, chatID int64, text string) error
}

type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

type Message struct {
	MessageID int64  `json:"message_id"`
	Chat      Chat   `json:"chat"`
	From      *User  `json:"from,omitempty"`
	Text      string `json:"text"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// ответ Bot API: {"ok":true,"result":...} или {"ok":false,"description":...}
type envelope[T any] struct {
	OK          bool   `json:"ok"`
	Result      T      `json:"result"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

// Client: resty-клиент Bot API.
type Client struct {
	http *resty.Client
}

func NewClient(baseURL, token string) *Client {
	base := strings.TrimSuffix(baseURL, "/")
	c := resty.New().
		SetBaseURL(fmt.Sprintf("%s/bot%s", base, token)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(90 * time.Second)
	return &Client{http: c}
}

func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	out := new(envelope[[]Update])
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"offset":          offset,
			"timeout":         int(timeout.Seconds()),
			"allowed_updates": []string{"message"},
		}).
		SetResult(out).
		SetError(out).
		Post("/getUpdates")
	if err != nil {
		return nil, fmt.Errorf("getUpdates: %w", err)
	}
	if resp.IsError() || !out.OK {
		return nil, apiError("getUpdates", resp.StatusCode(), out.Description)
	}
	return out.Result, nil
}

func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	out := new(envelope[Message])
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"chat_id": chatID, "text": text}).
		SetResult(out).
		SetError(out).
		Post("/sendMessage")
	if err != nil {
		return fmt.Errorf("sendMessage: %w", err)
	}
	if resp.IsError() || !out.OK {
		return apiError("sendMessage", resp.StatusCode(), out.Description)
	}
	return nil
}

func apiError(method string, status int, desc string) error {
	if desc == "" {
		desc = "unknown error"
	}
	return fmt.Errorf("%s: telegram api status %d: %s", method, status, desc)
}
