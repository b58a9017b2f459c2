package solapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/bravo6co-debug/SMS-solapi/environments"
	"github.com/bravo6co-debug/SMS-solapi/internal/domain"
	"github.com/bravo6co-debug/SMS-solapi/pkg/logger"
)

const sendPath = "/messages/v4/send"

type messagePayload struct {
	To   string `json:"to"`
	From string `json:"from"`
	Text string `json:"text"`
}

type sendRequest struct {
	Message messagePayload `json:"message"`
}

type sendResponse struct {
	MessageID  string `json:"messageId"`
	StatusCode string `json:"statusCode"`
}

// Client sends SMS messages through the Solapi HTTP API. Every failure
// mode is folded into the returned SendResult; callers never see raw
// transport errors.
type Client struct {
	httpClient  *resty.Client
	apiKey      string
	apiSecret   string
	senderPhone string
	sendURL     string
}

func NewClient(cfg environments.SolapiConfig) *Client {
	// Retry stays off here: the dispatch orchestrator owns the retry policy
	// and needs to observe each attempt individually.
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient:  client,
		apiKey:      cfg.APIKey,
		apiSecret:   cfg.APISecret,
		senderPhone: cfg.SenderPhone,
		sendURL:     cfg.BaseURL + sendPath,
	}
}

// SendMessage performs one send attempt. A fresh signed Authorization
// header is built per call; date and salt are single-use.
func (c *Client) SendMessage(ctx context.Context, to, text string) domain.SendResult {
	payload := sendRequest{
		Message: messagePayload{
			To:   to,
			From: c.senderPhone,
			Text: text,
		},
	}

	var body sendResponse

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Authorization", BuildAuthHeader(c.apiKey, c.apiSecret)).
		SetBody(payload).
		SetResult(&body).
		Post(c.sendURL)

	if err != nil {
		if isTimeout(err) {
			logger.Warnf("Solapi request to %s timed out", c.sendURL)
			return domain.SendResult{Success: false, Error: "request timed out"}
		}

		logger.Errorf("Solapi request to %s failed: %v", c.sendURL, err)
		return domain.SendResult{Success: false, Error: fmt.Sprintf("network error: %v", err)}
	}

	if resp.StatusCode() != http.StatusOK {
		return domain.SendResult{
			Success: false,
			Error:   fmt.Sprintf("HTTP %d: %s", resp.StatusCode(), resp.String()),
		}
	}

	return domain.SendResult{Success: true, MessageID: body.MessageID}
}

func (c *Client) SenderPhone() string {
	return c.senderPhone
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
