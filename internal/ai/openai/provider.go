// Package openai implements the inference provider using the OpenAI API.
package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/medicassist/medicassist/internal/ai/aierrors"
	"github.com/medicassist/medicassist/internal/config"
	"github.com/medicassist/medicassist/pkg/models"
)

const inferSystemPrompt = `You are a medical triage assistant. Given a description of symptoms
(and optionally a photo of the affected area), respond with JSON of the form:
{"summary": string, "imageAnalysis": string, "possibleConditions":
[{"condition": string, "confidenceScore": number between 0 and 1, "explanation": string}]}.
Order possibleConditions from most to least likely. Omit imageAnalysis when no photo is given.
This is not a diagnosis; keep explanations short and factual.`

const adviceSystemPrompt = `You are a trained medical professional providing first aid advice.
Based on the symptoms and suggested conditions, provide immediate, actionable first aid advice.
Be clear, concise, and focus on what the user can do before seeking professional medical help.
Respond with JSON of the form {"advice": string} where advice is a numbered list, one step per line.`

// Provider implements models.InferenceProvider using OpenAI.
type Provider struct {
	client *goopenai.Client
	cfg    config.OpenAIConfig
}

func NewProvider(cfg config.OpenAIConfig) *Provider {
	return &Provider{
		client: goopenai.NewClient(cfg.APIKey),
		cfg:    cfg,
	}
}

func (p *Provider) Name() string { return "openai" }

func (p *Provider) InferConditions(ctx context.Context, req models.InferenceRequest) (models.AnalysisOutput, error) {
	userParts := []goopenai.ChatMessagePart{
		{
			Type: goopenai.ChatMessagePartTypeText,
			Text: fmt.Sprintf("Respond in language %q.\n\nSymptoms: %s", req.Language, req.Symptoms),
		},
	}
	if req.ImageDataURI != "" {
		userParts = append(userParts, goopenai.ChatMessagePart{
			Type:     goopenai.ChatMessagePartTypeImageURL,
			ImageURL: &goopenai.ChatMessageImageURL{URL: req.ImageDataURI},
		})
	}

	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: p.cfg.Model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: inferSystemPrompt},
			{Role: goopenai.ChatMessageRoleUser, MultiContent: userParts},
		},
		Temperature: 0.2,
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return models.AnalysisOutput{}, classifyError(err)
	}
	if len(resp.Choices) == 0 {
		return models.AnalysisOutput{}, fmt.Errorf("%w: no choices returned", aierrors.ErrInvalidResponse)
	}

	var out models.AnalysisOutput
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &out); err != nil {
		return models.AnalysisOutput{}, fmt.Errorf("%w: %v", aierrors.ErrInvalidResponse, err)
	}
	clampConfidence(out.PossibleConditions)
	return out, nil
}

func (p *Provider) GenerateAdvice(ctx context.Context, req models.AdviceRequest) (models.AdviceOutput, error) {
	userPrompt := fmt.Sprintf("Respond in language %q.\n\nSymptoms: %s\nSuggested Conditions: %s",
		req.Language, req.Symptoms, req.SuggestedConditions)

	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: p.cfg.Model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: adviceSystemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: 0.2,
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return models.AdviceOutput{}, classifyError(err)
	}
	if len(resp.Choices) == 0 {
		return models.AdviceOutput{}, fmt.Errorf("%w: no choices returned", aierrors.ErrInvalidResponse)
	}

	var out models.AdviceOutput
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &out); err != nil {
		return models.AdviceOutput{}, fmt.Errorf("%w: %v", aierrors.ErrInvalidResponse, err)
	}
	if out.Advice == "" {
		return models.AdviceOutput{}, fmt.Errorf("%w: empty advice", aierrors.ErrInvalidResponse)
	}
	return out, nil
}

func (p *Provider) SynthesizeSpeech(ctx context.Context, text string) (string, error) {
	resp, err := p.client.CreateSpeech(ctx, goopenai.CreateSpeechRequest{
		Model:          goopenai.SpeechModel(p.cfg.TTSModel),
		Input:          text,
		Voice:          goopenai.SpeechVoice(p.cfg.TTSVoice),
		ResponseFormat: goopenai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return "", classifyError(err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return "", fmt.Errorf("%w: reading audio stream: %v", aierrors.ErrInvalidResponse, err)
	}
	return "data:audio/mpeg;base64," + base64.StdEncoding.EncodeToString(audio), nil
}

// classifyError maps transport-level failures onto the package sentinels,
// keeping the provider detail in the wrapped message.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", aierrors.ErrInferenceTimeout, err)
	}
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: openai status %d: %s", aierrors.ErrProviderUnavailable, apiErr.HTTPStatusCode, apiErr.Message)
	}
	return fmt.Errorf("%w: %v", aierrors.ErrProviderUnavailable, err)
}

func clampConfidence(conditions []models.PossibleCondition) {
	for i := range conditions {
		if conditions[i].ConfidenceScore < 0 {
			conditions[i].ConfidenceScore = 0
		}
		if conditions[i].ConfidenceScore > 1 {
			conditions[i].ConfidenceScore = 1
		}
	}
}

var _ models.InferenceProvider = (*Provider)(nil)
