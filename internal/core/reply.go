package core

import (
	"fmt"
	"strings"
)

// ParsedReply holds the two values extracted from a model reply
type ParsedReply struct {
	Category          Category
	SuggestedResponse string
}

// ParseReply extracts the category and suggested response from a model
// reply. The reply must be exactly two non-blank lines, the first starting
// with CATEGORIA: and the second with RESPOSTA_SUGERIDA:. Any deviation
// returns an error wrapping ErrMalformedReply.
func ParseReply(text string) (ParsedReply, error) {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}

	if len(lines) != 2 {
		return ParsedReply{}, fmt.Errorf("%w: expected 2 lines, got %d", ErrMalformedReply, len(lines))
	}

	rawCategory, ok := strings.CutPrefix(lines[0], CategoryPrefix)
	if !ok {
		return ParsedReply{}, fmt.Errorf("%w: first line does not start with %q", ErrMalformedReply, CategoryPrefix)
	}
	response, ok := strings.CutPrefix(lines[1], SuggestedResponsePrefix)
	if !ok {
		return ParsedReply{}, fmt.Errorf("%w: second line does not start with %q", ErrMalformedReply, SuggestedResponsePrefix)
	}

	category, err := canonicalCategory(strings.TrimSpace(rawCategory))
	if err != nil {
		return ParsedReply{}, err
	}

	response = strings.TrimSpace(response)
	if response == "" {
		return ParsedReply{}, fmt.Errorf("%w: empty suggested response", ErrMalformedReply)
	}

	return ParsedReply{
		Category:          category,
		SuggestedResponse: response,
	}, nil
}

func canonicalCategory(value string) (Category, error) {
	for _, c := range []Category{CategoryProductive, CategoryUnproductive} {
		if strings.EqualFold(value, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown category %q", ErrMalformedReply, value)
}
