package resolver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/heartmarshall/terminology-bot/internal/domain"
)

// ParseWordList splits a comma-separated reply into normalized, distinct,
// non-empty words, keeping their order.
func ParseWordList(input string) []string {
	return normalizeWords(strings.Split(input, ","))
}

func normalizeWords(words []string) []string {
	out := make([]string, 0, len(words))
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		w = domain.NormalizeText(w)
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// ParseIndices parses a comma-separated list of 1-based indices into a list
// of n items. Duplicates are dropped, order is kept. Any token that is not a
// number in [1, n] fails the whole reply.
func ParseIndices(input string, n int) ([]int, error) {
	var (
		indices []int
		errs    []domain.FieldError
		seen    = make(map[int]bool)
	)

	for _, token := range strings.Split(input, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		i, err := strconv.Atoi(token)
		if err != nil {
			errs = append(errs, domain.FieldError{Field: "index", Message: fmt.Sprintf("%q is not a number", token)})
			continue
		}
		if i < 1 || i > n {
			errs = append(errs, domain.FieldError{Field: "index", Message: fmt.Sprintf("%d is out of range 1..%d", i, n)})
			continue
		}
		if !seen[i] {
			seen[i] = true
			indices = append(indices, i)
		}
	}

	if len(errs) > 0 {
		return nil, &domain.ValidationError{Errors: errs}
	}
	if len(indices) == 0 {
		return nil, domain.NewValidationError("index", "required")
	}

	return indices, nil
}
