package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

var ErrNoChat = errors.New("telegram chat id is empty")

// Client sends messages through the Telegram Bot API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// NewClient creates a client for the bot identified by token. baseURL is
// the API prefix the token is appended to, e.g. https://api.telegram.org/bot.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Send delivers text to the chat chatID.
func (c *Client) Send(ctx context.Context, chatID, text string) error {
	if chatID == "" {
		return ErrNoChat
	}

	body, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.token+"/sendMessage", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	defer resp.Body.Close()

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && resp.StatusCode == http.StatusOK {
		return fmt.Errorf("failed to decode telegram response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !out.OK {
		return fmt.Errorf("telegram returned %d: %s", resp.StatusCode, out.Description)
	}

	logrus.WithField("chat_id", chatID).Debug("Telegram message sent")
	return nil
}
