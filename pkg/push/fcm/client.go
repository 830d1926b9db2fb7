// Package fcm provides a push.Sender implementation backed by the Firebase
// Cloud Messaging legacy HTTP API.
package fcm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"wefund/pkg/push"
	"wefund/pkg/serrors"
)

const sendURL = "https://fcm.googleapis.com/fcm/send"

// Client talks to the FCM legacy HTTP API and fulfills the push.Sender
// interface. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client // httpClient performs HTTP requests to FCM
	serverKey  string       // serverKey is the legacy FCM server key
}

// Send delivers the message to a single registration token. Token errors
// reported by FCM ("NotRegistered", "InvalidRegistration") surface as
// push.ErrInvalidToken so the caller can drop the token.
func (c *Client) Send(ctx context.Context, token string, message push.Message) error {
	type notification struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}
	type sendReq struct {
		To           string            `json:"to"`
		Notification notification      `json:"notification"`
		Data         map[string]string `json:"data,omitempty"`
	}
	bodyBytes, err := json.Marshal(sendReq{
		To: token,
		Notification: notification{
			Title: message.Title,
			Body:  message.Body,
		},
		Data: message.Data,
	})
	if err != nil {
		return fmt.Errorf("could not marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendURL, strings.NewReader(string(bodyBytes)))
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+c.serverKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("could not send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read response body: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return serrors.With(serrors.ErrRateLimited, "rate limited: %s", strings.TrimSpace(string(b)))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("send failed: %s", strings.TrimSpace(string(b)))
	}

	// a 200 can still carry per-token errors
	var sendResp struct {
		Failure int `json:"failure"`
		Results []struct {
			Error string `json:"error"`
		} `json:"results"`
	}
	if err := json.Unmarshal(b, &sendResp); err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}
	if sendResp.Failure > 0 {
		for _, res := range sendResp.Results {
			switch res.Error {
			case "NotRegistered", "InvalidRegistration", "MissingRegistration":
				return push.ErrInvalidToken
			}
		}

		return fmt.Errorf("send failed: %s", strings.TrimSpace(string(b)))
	}

	return nil
}

// Ensure Client conforms to the push.Sender interface at compile time.
var _ push.Sender = (*Client)(nil)

// New constructs a Client that uses the provided http.Client and server key
// to interact with the FCM legacy HTTP API.
func New(httpClient *http.Client, serverKey string) *Client {
	return &Client{
		httpClient: httpClient,
		serverKey:  serverKey,
	}
}
