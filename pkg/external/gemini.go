// Package external wraps the generative-model capability behind the
// AnalysisInvoker contract, with a circuit breaker in front of the call.
package external

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"google.golang.org/genai"

	"github.com/tumorboard-analysis-server/internal/domain"
)

// GeminiClient submits prompts to Gemini on Vertex AI. It knows nothing
// about prompt content; it is a narrow adapter between text-in/text-out and
// the model API's request shape.
type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker
	log     *logrus.Logger
}

// NewGeminiClient creates a Gemini client for the configured project and
// location. The handle is process-wide and read-only after construction.
func NewGeminiClient(ctx context.Context, cfg *domain.GenAIConfig, logger *logrus.Logger) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend:  genai.BackendVertexAI,
		Project:  cfg.Project,
		Location: cfg.Location,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "Gemini",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})

	return &GeminiClient{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.RequestTimeout,
		breaker: breaker,
		log:     logger,
	}, nil
}

// generationConfig is the fixed, reproducibility-oriented configuration for
// every invocation: greedy decoding, bounded output, text-only responses.
// All safety categories are switched off: oncology case notes and treatment
// literature routinely trip generic content filters.
func generationConfig() *genai.GenerateContentConfig {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHateSpeech,
		genai.HarmCategoryDangerousContent,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryHarassment,
	}

	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, category := range categories {
		settings = append(settings, &genai.SafetySetting{
			Category:  category,
			Threshold: genai.HarmBlockThresholdOff,
		})
	}

	return &genai.GenerateContentConfig{
		Temperature:        genai.Ptr[float32](0),
		TopP:               genai.Ptr[float32](0.95),
		MaxOutputTokens:    8192,
		ResponseModalities: []string{"TEXT"},
		SafetySettings:     settings,
	}
}

// Invoke submits the prompt as a single user-role message and returns the
// trimmed response text. One attempt per request; a failure is the caller's
// to report, not to retry.
func (c *GeminiClient) Invoke(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), generationConfig())
		if err != nil {
			return nil, err
		}
		return resp.Text(), nil
	})
	if err != nil {
		if err == gobreaker.ErrOpenState {
			c.log.Error("Gemini unavailable (circuit breaker open)")
			return "", fmt.Errorf("model service unavailable: %w", err)
		}
		c.log.WithFields(logrus.Fields{
			"model": c.model,
			"error": err,
		}).Error("Failed to generate content")
		return "", fmt.Errorf("generating content: %w", err)
	}

	return strings.TrimSpace(result.(string)), nil
}
