package api

import (
	"context"
	"net/http"

	"github.com/xhad/infuse/internal/models"
)

// Ask submits a question against a file. The server persists the
// exchange as a new history record before responding.
func (c *Client) Ask(ctx context.Context, question, fileID string) (*models.Answer, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	var resp models.Answer
	r, err := c.http.R().SetContext(ctx).
		SetBody(map[string]string{"question": question, "fileId": fileID}).
		SetResult(&resp).
		Post("/ask")
	if err != nil {
		return nil, err
	}
	if r.IsError() {
		return nil, remoteError(r)
	}
	return &resp, nil
}

// History returns every stored question/answer record. Order is
// whatever the server produced.
func (c *Client) History(ctx context.Context) ([]models.QARecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	var resp struct {
		History []models.QARecord `json:"history"`
	}
	r, err := c.http.R().SetContext(ctx).SetResult(&resp).Get("/chat-history")
	if err != nil {
		return nil, err
	}
	if r.IsError() {
		return nil, remoteError(r)
	}
	return resp.History, nil
}

func (c *Client) GetMessage(ctx context.Context, messageID string) (*models.QARecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	var resp struct {
		Message models.QARecord `json:"message"`
	}
	r, err := c.http.R().SetContext(ctx).SetResult(&resp).Get("/chat-history/" + messageID)
	if err != nil {
		return nil, err
	}
	if r.IsError() {
		return nil, remoteError(r)
	}
	return &resp.Message, nil
}

// DeleteMessage removes one history record. Missing records count as
// deleted.
func (c *Client) DeleteMessage(ctx context.Context, messageID string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	r, err := c.http.R().SetContext(ctx).Delete("/chat-history/" + messageID)
	if err != nil {
		return err
	}
	if r.IsError() && r.StatusCode() != http.StatusNotFound {
		return remoteError(r)
	}
	return nil
}

// DeleteAll clears the whole chat history.
func (c *Client) DeleteAll(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	r, err := c.http.R().SetContext(ctx).Delete("/chat-history")
	if err != nil {
		return err
	}
	if r.IsError() {
		return remoteError(r)
	}
	return nil
}
