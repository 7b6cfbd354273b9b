// Package telegram implements the Telegram Bot API transport: long-poll
// update retrieval, text replies, and multipart media uploads.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"reel/internal/config"
	"reel/internal/media"
	"reel/internal/services"
)

const userAgent = "Reel/0.1.0"

// Client talks to the Telegram Bot API over HTTPS.
type Client struct {
	token   string
	baseURL string
	client  *http.Client
}

// NewClient builds a client from configuration. The HTTP client carries no
// overall timeout because getUpdates long polls; per-call deadlines come from
// the caller's context.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		token:   cfg.Telegram.BotToken,
		baseURL: strings.TrimRight(cfg.Telegram.BaseURL, "/"),
		client:  &http.Client{},
	}
}

// Update is one inbound Bot API update.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message is the inbound message payload of an update.
type Message struct {
	MessageID int64  `json:"message_id"`
	Text      string `json:"text"`
	Chat      Chat   `json:"chat"`
	From      *User  `json:"from"`
}

// Chat identifies the conversation a message belongs to.
type Chat struct {
	ID int64 `json:"id"`
}

// User identifies the sender of a message.
type User struct {
	ID int64 `json:"id"`
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

// GetUpdates long polls for updates after offset. timeout is the server-side
// hold time in seconds.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout int) ([]Update, error) {
	body, err := json.Marshal(map[string]any{
		"offset":          offset,
		"timeout":         timeout,
		"allowed_updates": []string{"message"},
	})
	if err != nil {
		return nil, fmt.Errorf("encode getUpdates request: %w", err)
	}

	result, err := c.call(ctx, "getUpdates", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var updates []Update
	if err := json.Unmarshal(result, &updates); err != nil {
		return nil, fmt.Errorf("decode updates: %w", err)
	}
	return updates, nil
}

// SendText sends a plain text message to chatID.
func (c *Client) SendText(ctx context.Context, chatID int64, text string) error {
	body, err := json.Marshal(map[string]any{
		"chat_id": chatID,
		"text":    text,
	})
	if err != nil {
		return services.Wrap(services.ErrDelivery, "telegram", "send_text", "encode request", err)
	}
	if _, err := c.call(ctx, "sendMessage", "application/json", bytes.NewReader(body)); err != nil {
		return services.Wrap(services.ErrDelivery, "telegram", "send_text", "sendMessage failed", err)
	}
	return nil
}

// SendFile uploads the file at path to chatID as video or audio.
func (c *Client) SendFile(ctx context.Context, chatID int64, path string, kind media.Kind) error {
	method, field := "sendVideo", "video"
	if kind == media.KindAudio {
		method, field = "sendAudio", "audio"
	}

	file, err := os.Open(path)
	if err != nil {
		return services.Wrap(services.ErrDelivery, "telegram", "send_file", "open artifact", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("chat_id", fmt.Sprintf("%d", chatID)); err != nil {
		return services.Wrap(services.ErrDelivery, "telegram", "send_file", "encode chat id", err)
	}
	part, err := writer.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return services.Wrap(services.ErrDelivery, "telegram", "send_file", "create form file", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return services.Wrap(services.ErrDelivery, "telegram", "send_file", "read artifact", err)
	}
	if err := writer.Close(); err != nil {
		return services.Wrap(services.ErrDelivery, "telegram", "send_file", "finish form", err)
	}

	if _, err := c.call(ctx, method, writer.FormDataContentType(), &buf); err != nil {
		return services.Wrap(services.ErrDelivery, "telegram", "send_file", method+" failed", err)
	}
	return nil
}

func (c *Client) call(ctx context.Context, method, contentType string, body io.Reader) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", method, err)
	}

	var decoded apiResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("%s: decode response (status %d): %w", method, resp.StatusCode, err)
	}
	if !decoded.OK {
		description := decoded.Description
		if description == "" {
			description = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("%s: api error: %s", method, description)
	}
	return decoded.Result, nil
}
