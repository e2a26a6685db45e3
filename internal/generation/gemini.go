package generation

import (
	"context"
	"fmt"
	"strings"

	"mock_interview_backend/internal/config"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var harmCategories = map[string]genai.HarmCategory{
	"HARM_CATEGORY_HARASSMENT":        genai.HarmCategoryHarassment,
	"HARM_CATEGORY_HATE_SPEECH":       genai.HarmCategoryHateSpeech,
	"HARM_CATEGORY_SEXUALLY_EXPLICIT": genai.HarmCategorySexuallyExplicit,
	"HARM_CATEGORY_DANGEROUS_CONTENT": genai.HarmCategoryDangerousContent,
}

var blockThresholds = map[string]genai.HarmBlockThreshold{
	"BLOCK_LOW_AND_ABOVE":    genai.HarmBlockLowAndAbove,
	"BLOCK_MEDIUM_AND_ABOVE": genai.HarmBlockMediumAndAbove,
	"BLOCK_ONLY_HIGH":        genai.HarmBlockOnlyHigh,
	"BLOCK_NONE":             genai.HarmBlockNone,
}

// DefaultSafety 骚扰与仇恨言论均为中等及以上拦截
var DefaultSafety = []config.SafetyConfig{
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
}

type geminiProvider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func safetySettings(list []config.SafetyConfig) ([]*genai.SafetySetting, error) {
	if len(list) == 0 {
		list = DefaultSafety
	}
	out := make([]*genai.SafetySetting, 0, len(list))
	for _, s := range list {
		cat, ok := harmCategories[strings.ToUpper(s.Category)]
		if !ok {
			return nil, fmt.Errorf("generation: unknown harm category %q", s.Category)
		}
		th, ok := blockThresholds[strings.ToUpper(s.Threshold)]
		if !ok {
			return nil, fmt.Errorf("generation: unknown block threshold %q", s.Threshold)
		}
		out = append(out, &genai.SafetySetting{Category: cat, Threshold: th})
	}
	return out, nil
}

func newGeminiProvider(ctx context.Context, cfg config.AIConfig) (*geminiProvider, error) {
	safety, err := safetySettings(cfg.Safety)
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	model.SetTemperature(cfg.Temperature)
	model.SetTopP(cfg.TopP)
	model.SetTopK(cfg.TopK)
	model.SetMaxOutputTokens(cfg.MaxOutputTokens)
	model.SafetySettings = safety

	return &geminiProvider{client: client, model: model}, nil
}

func (g *geminiProvider) name() string { return "gemini" }

func (g *geminiProvider) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	return extractText(resp), nil
}

func (g *geminiProvider) close() error {
	return g.client.Close()
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
		// 只取第一个候选
		break
	}
	return sb.String()
}
