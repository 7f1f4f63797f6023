package estimation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/projectcostai/projectcostai/internal/domain/prediction"
	"github.com/projectcostai/projectcostai/internal/pkg/logger"
)

const maxAdvisorRecommendations = 8

// ChatCompleter is the subset of the OpenAI client used by Advisor.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Advisor decorates an Estimator and extends its recommendations with
// suggestions from a chat model. Any model failure leaves the wrapped
// estimator's recommendations untouched.
type Advisor struct {
	Estimator
	chat  ChatCompleter
	model string
	log   *logger.Logger
}

func NewAdvisor(base Estimator, chat ChatCompleter, model string, log *logger.Logger) *Advisor {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Advisor{Estimator: base, chat: chat, model: model, log: log}
}

func (a *Advisor) GenerateRecommendations(ctx context.Context, in prediction.ProjectParams) ([]string, error) {
	base, err := a.Estimator.GenerateRecommendations(ctx, in)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	extra, err := a.ask(ctx, in)
	if err != nil {
		a.log.WithError(err).Warn("Advisor recommendations unavailable, using base list")
		return base, nil
	}
	return mergeRecommendations(base, extra), nil
}

func (a *Advisor) ask(ctx context.Context, in prediction.ProjectParams) ([]string, error) {
	params, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}

	resp, err := a.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a delivery consultant. Reply with short, actionable project recommendations, one per line, no numbering.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Project parameters: %s", params),
			},
		},
		MaxTokens: 300,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion")
	}
	return parseLines(resp.Choices[0].Message.Content), nil
}

func parseLines(content string) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*•0123456789.) "))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// mergeRecommendations appends unseen extras to base up to the cap.
func mergeRecommendations(base, extra []string) []string {
	seen := make(map[string]bool, len(base))
	out := append([]string{}, base...)
	for _, r := range base {
		seen[strings.ToLower(r)] = true
	}
	for _, r := range extra {
		if len(out) >= maxAdvisorRecommendations {
			break
		}
		if !seen[strings.ToLower(r)] {
			seen[strings.ToLower(r)] = true
			out = append(out, r)
		}
	}
	return out
}
