package repository

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const (
	defaultGeminiModel = "gemini-2.0-flash"
	headlineSystemText = "You are a content editor for US mortgage loan officers. " +
		"You write short, accurate, compliant blog headlines in English."
)

// GeminiGenerator produces text through the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(headlineSystemText, genai.RoleUser),
		MaxOutputTokens:   300,
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("empty response from gemini")
	}
	return text, nil
}
