package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"lo-site/domain"
)

var ErrInvalidHeadlineInput = errors.New("invalid headline request")

const (
	HeadlineSourceAI       = "ai"
	HeadlineSourceFallback = "fallback"
)

// HeadlineGenerator turns a prompt into free text.
type HeadlineGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// HeadlineService suggests blog headlines for a loan officer. Without a
// generator, or when it fails, it falls back to fixed templates.
type HeadlineService struct {
	generator HeadlineGenerator
	logger    *zap.Logger
}

func NewHeadlineService(generator HeadlineGenerator, logger *zap.Logger) *HeadlineService {
	return &HeadlineService{generator: generator, logger: logger}
}

func (s *HeadlineService) Suggest(ctx context.Context, profile domain.Profile, input domain.HeadlineInput) (domain.HeadlineResult, error) {
	topic := strings.TrimSpace(input.Topic)
	if topic == "" {
		return domain.HeadlineResult{}, fmt.Errorf("%w: topic is required", ErrInvalidHeadlineInput)
	}
	if len(topic) > MaxTopicLength {
		return domain.HeadlineResult{}, fmt.Errorf("%w: topic exceeds %d characters", ErrInvalidHeadlineInput, MaxTopicLength)
	}
	count := input.Count
	if count == 0 {
		count = DefaultHeadlineCount
	}
	if count < 0 || count > MaxHeadlineCount {
		return domain.HeadlineResult{}, fmt.Errorf("%w: count must be between 1 and %d", ErrInvalidHeadlineInput, MaxHeadlineCount)
	}

	if s.generator == nil {
		return s.fallback(topic, count), nil
	}

	text, err := s.generator.Generate(ctx, headlinePrompt(profile, topic, count))
	if err != nil {
		s.logger.Warn("headline generation failed, using fallback",
			zap.String("slug", profile.Slug), zap.Error(err))
		return s.fallback(topic, count), nil
	}

	headlines := parseHeadlines(text, count)
	if len(headlines) == 0 {
		s.logger.Warn("headline generation returned nothing usable", zap.String("slug", profile.Slug))
		return s.fallback(topic, count), nil
	}
	return domain.HeadlineResult{Headlines: headlines, Source: HeadlineSourceAI}, nil
}

func headlinePrompt(profile domain.Profile, topic string, count int) string {
	name := profile.Name
	if name == "" {
		name = "a local loan officer"
	}
	return fmt.Sprintf(`Write %d blog headlines for %s, a mortgage loan officer (NMLS %s).

TOPIC: %s

RULES:
1. One headline per line, no numbering, no quotes.
2. Under 70 characters each.
3. Plain language a first-time home buyer understands.
4. No rate promises and no guaranteed approval claims.`, count, name, profile.NMLS, topic)
}

var listMarker = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s*`)

// parseHeadlines strips list markers and quotes that models add anyway.
func parseHeadlines(text string, count int) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = listMarker.ReplaceAllString(strings.TrimSpace(line), "")
		line = strings.Trim(line, `"'`)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == count {
			break
		}
	}
	return out
}

var fallbackHeadlines = []string{
	"%s: What Every Home Buyer Should Know",
	"A Simple Guide to %s",
	"%s Explained in Five Minutes",
	"Common Questions About %s, Answered",
	"%s: Mistakes to Avoid Before You Apply",
	"How %s Affects Your Monthly Payment",
	"Is Now the Right Time? %s in Plain English",
	"%s for First-Time Buyers",
	"What Your Loan Officer Wishes You Knew About %s",
	"%s: A Checklist Before Closing",
}

func (s *HeadlineService) fallback(topic string, count int) domain.HeadlineResult {
	headlines := make([]string, 0, count)
	for i := 0; i < count && i < len(fallbackHeadlines); i++ {
		headlines = append(headlines, fmt.Sprintf(fallbackHeadlines[i], topic))
	}
	return domain.HeadlineResult{Headlines: headlines, Source: HeadlineSourceFallback}
}
