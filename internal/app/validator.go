package app

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"quiz-session-service/internal/domain"
)

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// Validate checks an answer against a question's type rules and returns every
// violation as a human-readable message. An empty slice means accepted.
// Malformed input is a validation failure, never an error.
func Validate(q domain.Question, answer string) []string {
	switch q.Type {
	case domain.SingleChoice:
		return validateSingleChoice(answer, optionIDs(q))
	case domain.MultipleChoice:
		return validateMultipleChoice(answer, optionIDs(q))
	case domain.ShortAnswer:
		return validateShortAnswer(answer)
	case domain.PhoneNumber:
		return validatePhoneNumber(answer)
	case domain.LongAnswer:
		return validateLongAnswer(answer)
	default:
		return []string{"Unknown question type."}
	}
}

func optionIDs(q domain.Question) map[int64]struct{} {
	ids := make(map[int64]struct{}, len(q.Options))
	for _, o := range q.Options {
		ids[o.ID] = struct{}{}
	}
	return ids
}

func validateSingleChoice(answer string, valid map[int64]struct{}) []string {
	if strings.TrimSpace(answer) == "" {
		return []string{"Please select an option."}
	}
	selected, err := strconv.ParseInt(strings.TrimSpace(answer), 10, 64)
	if err != nil {
		return []string{"Invalid option value."}
	}
	if _, ok := valid[selected]; !ok {
		return []string{"Selected option is not valid for this question."}
	}
	return nil
}

func validateMultipleChoice(answer string, valid map[int64]struct{}) []string {
	if strings.TrimSpace(answer) == "" {
		return []string{"Please select at least one option."}
	}

	var errs []string
	seen := 0
	for _, part := range strings.Split(answer, ",") {
		if part == "" {
			continue
		}
		seen++
		token := strings.TrimSpace(part)
		id, err := strconv.ParseInt(token, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Invalid option ID: %s", token))
			continue
		}
		if _, ok := valid[id]; !ok {
			errs = append(errs, fmt.Sprintf("Invalid option ID: %s", token))
		}
	}
	if seen == 0 {
		return []string{"Please select at least one option."}
	}
	return errs
}

func validateShortAnswer(answer string) []string {
	if strings.TrimSpace(answer) == "" {
		return []string{"Answer cannot be blank."}
	}
	return nil
}

func validatePhoneNumber(answer string) []string {
	if !phonePattern.MatchString(strings.TrimSpace(answer)) {
		return []string{"Phone number must be exactly 10 digits."}
	}
	return nil
}

func validateLongAnswer(answer string) []string {
	if utf8.RuneCountInString(strings.TrimSpace(answer)) < 10 {
		return []string{"Answer must be at least 10 characters."}
	}
	return nil
}
