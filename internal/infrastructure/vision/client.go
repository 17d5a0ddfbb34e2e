package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/scansafe/backend/internal/domain"
)

const defaultModel = "gpt-4o-mini"

const frontPrompt = "Identify the packaged product in this photo. " +
	"Reply with only the brand and product name, nothing else. " +
	"If you cannot identify it, reply with an empty string."

const backPrompt = "Read the product label in this photo. Respond with JSON only, " +
	`in this exact shape: {"ingredients": "...", "allergens": "...", "warnings": ["..."]}. ` +
	"Transcribe the ingredient list and allergen statement in their original language. " +
	"Put advisory statements like \"may contain traces\" into warnings. " +
	"Use empty strings for anything not readable."

// Client extracts product data from label photos via an OpenAI vision model
type Client struct {
	api   *openai.Client
	model string
}

// NewClient creates a vision client. model falls back to a default when empty.
func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = defaultModel
	}
	return &Client{
		api:   openai.NewClient(apiKey),
		model: model,
	}
}

// AnalyzeFront identifies the product from its front photo
func (c *Client) AnalyzeFront(ctx context.Context, image []byte) (string, error) {
	reply, err := c.complete(ctx, frontPrompt, image)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

// AnalyzeBack reads ingredients, allergens and advisory warnings off the back
// label. An unparseable reply is a partial success: the raw text is kept as
// ingredients and the extraction is flagged low-confidence.
func (c *Client) AnalyzeBack(ctx context.Context, image []byte) (*domain.LabelExtraction, error) {
	reply, err := c.complete(ctx, backPrompt, image)
	if err != nil {
		return nil, err
	}

	extraction, ok := parseLabelReply(reply)
	if !ok {
		log.Printf("[VISION] unparseable label reply, keeping raw text")
	}
	return extraction, nil
}

// complete sends one prompt plus one image and returns the model's reply
func (c *Client) complete(ctx context.Context, prompt string, image []byte) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL(image),
							Detail: openai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("vision API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("vision API returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// parseLabelReply decodes the model's JSON reply. The second value reports
// whether the reply parsed cleanly.
func parseLabelReply(reply string) (*domain.LabelExtraction, bool) {
	cleaned := strings.TrimSpace(reply)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var extraction domain.LabelExtraction
	if err := json.Unmarshal([]byte(cleaned), &extraction); err != nil {
		return &domain.LabelExtraction{
			Ingredients:   cleaned,
			LowConfidence: true,
		}, false
	}
	if extraction.Ingredients == "" && extraction.Allergens == "" {
		extraction.LowConfidence = true
	}
	return &extraction, true
}

// dataURL encodes an image for inline transmission
func dataURL(image []byte) string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)
}
