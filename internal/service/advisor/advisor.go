package advisor

import (
	"context"
	"fmt"
	"strings"
	"time"

	xhttp "SignalRelay/pkg/http"
)

// systemPrompt frames the model as the bot's trading mentor. Chat text that
// matches no command is answered in this voice.
const systemPrompt = `You are a tactical trading mentor assisting users of an ` +
	`algorithmic signal feed. You interpret supply and demand zones, change of ` +
	`character, break of structure, volume traps and trend context. Respond with ` +
	`clear, concise, tactical trading insight. Tone: street-smart and mentor-like.`

// Client asks an OpenAI-compatible chat-completions endpoint for a reply.
// The model call is opaque to the rest of the gateway: text in, text out.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *xhttp.Client
}

func New(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// Enabled reports whether an API key is configured. When false the gateway
// answers fallback text itself instead of calling out.
func (c *Client) Enabled() bool { return c.apiKey != "" }

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Reply asks the model for a response to userText.
func (c *Client) Reply(ctx context.Context, userText string) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("advisor disabled: no api key")
	}

	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userText},
		},
	}

	var resp chatResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.baseURL + "/chat/completions",
		Headers: map[string]string{
			"Authorization": "Bearer " + c.apiKey,
		},
		Body: req,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("advisor request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("advisor: empty completion")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
