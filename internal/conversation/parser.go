// Package conversation provides intent parsing and user notification implementations.
package conversation

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/ottocart/internal/domain"
	"github.com/hammamikhairi/ottocart/internal/logger"
)

// Compile-time interface check.
var _ domain.IntentParser = (*KeywordParser)(nil)

// KeywordParser matches user input to intents using keywords and simple patterns.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
}

// patternRule maps a regex to an intent. Submatches become Intent.Args;
// when text is set, the first submatch is carried as Intent.Text instead.
type patternRule struct {
	regex  *regexp.Regexp
	intent domain.IntentType
	text   bool
}

// NewKeywordParser creates a keyword-based intent parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		{regex: regexp.MustCompile(`(?i)^(list|recipes|ls|browse)$`), intent: domain.IntentListRecipes},
		{regex: regexp.MustCompile(`(?i)^(?:load|open|select)\s+(\d+)$`), intent: domain.IntentLoadRecipe},
		{regex: regexp.MustCompile(`(?i)^(?:search|find)\s+(.+)$`), intent: domain.IntentSearchRecipes, text: true},
		{regex: regexp.MustCompile(`(?i)^(?:generate|gen|make)\s+(.+)$`), intent: domain.IntentGenerate, text: true},
		{regex: regexp.MustCompile(`(?i)^(cart|show|basket|c)$`), intent: domain.IntentShowCart},
		{regex: regexp.MustCompile(`(?i)^(?:pick|choose|swap)\s+(\d+)\s+(\d+)$`), intent: domain.IntentPick},
		{regex: regexp.MustCompile(`(?i)^(?:qty|quantity|set)\s+(\d+)\s+(-?\d+)$`), intent: domain.IntentQuantity},
		{regex: regexp.MustCompile(`(?i)^(link|url|checkout)$`), intent: domain.IntentLink},
		{regex: regexp.MustCompile(`(?i)^(copy|share|cp)$`), intent: domain.IntentCopy},
		{regex: regexp.MustCompile(`(?i)^(help|h|\?)$`), intent: domain.IntentHelp},
		{regex: regexp.MustCompile(`(?i)^(quit|exit|q|bye)$`), intent: domain.IntentQuit},
	}
	return p
}

// Parse converts user input into an intent.
func (p *KeywordParser) Parse(ctx context.Context, input string) (*domain.Intent, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return &domain.Intent{Type: domain.IntentUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	// Bare number loads a recipe from the last listing.
	if len(trimmed) <= 3 && isDigits(trimmed) {
		return &domain.Intent{Type: domain.IntentLoadRecipe, Args: []string{trimmed}}, nil
	}

	for _, rule := range p.patterns {
		m := rule.regex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		p.log.Debug("matched intent: %s", rule.intent)
		intent := &domain.Intent{Type: rule.intent}
		switch {
		case rule.text:
			intent.Text = strings.TrimSpace(m[1])
		case rule.regex.NumSubexp() > 1 || rule.intent == domain.IntentLoadRecipe:
			intent.Args = m[1:]
		}
		return intent, nil
	}

	p.log.Debug("no match, returning unknown intent")
	return &domain.Intent{Type: domain.IntentUnknown, Text: trimmed}, nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
