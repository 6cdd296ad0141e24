package app_test

import (
	"testing"

	"quiz-session-service/internal/app"
	"quiz-session-service/internal/domain"
)

func choiceQuestion(qtype domain.QuestionType) domain.Question {
	return domain.Question{
		ID: 1, OrderNo: 1, Text: "pick", Type: qtype,
		Options: []domain.Option{
			{ID: 5, QuestionID: 1, Text: "a"},
			{ID: 6, QuestionID: 1, Text: "b"},
			{ID: 7, QuestionID: 1, Text: "c"},
		},
	}
}

func TestValidateSingleChoice(t *testing.T) {
	q := choiceQuestion(domain.SingleChoice)

	cases := []struct {
		name    string
		answer  string
		wantErr string
	}{
		{"valid id", "6", ""},
		{"valid id with spaces", " 6 ", ""},
		{"blank", "  ", "Please select an option."},
		{"not a number", "abc", "Invalid option value."},
		{"unknown id", "99", "Selected option is not valid for this question."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := app.Validate(q, tc.answer)
			if tc.wantErr == "" {
				if len(errs) != 0 {
					t.Fatalf("expected accepted, got %v", errs)
				}
				return
			}
			if len(errs) != 1 || errs[0] != tc.wantErr {
				t.Fatalf("expected [%q], got %v", tc.wantErr, errs)
			}
		})
	}
}

func TestValidateMultipleChoice(t *testing.T) {
	q := choiceQuestion(domain.MultipleChoice)

	if errs := app.Validate(q, "5,6,7"); len(errs) != 0 {
		t.Fatalf("expected accepted, got %v", errs)
	}
	if errs := app.Validate(q, " 7 , 5 "); len(errs) != 0 {
		t.Fatalf("expected accepted with spaces, got %v", errs)
	}

	if errs := app.Validate(q, ""); len(errs) != 1 || errs[0] != "Please select at least one option." {
		t.Fatalf("expected blank error, got %v", errs)
	}

	// One error per bad token, valid tokens pass silently.
	errs := app.Validate(q, "5,abc,99")
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	if errs[0] != "Invalid option ID: abc" || errs[1] != "Invalid option ID: 99" {
		t.Fatalf("unexpected messages: %v", errs)
	}
}

func TestValidateShortAnswer(t *testing.T) {
	q := domain.Question{ID: 1, Type: domain.ShortAnswer}

	if errs := app.Validate(q, "H2O"); len(errs) != 0 {
		t.Fatalf("expected accepted, got %v", errs)
	}
	if errs := app.Validate(q, "   "); len(errs) != 1 || errs[0] != "Answer cannot be blank." {
		t.Fatalf("expected blank error, got %v", errs)
	}
}

func TestValidatePhoneNumber(t *testing.T) {
	q := domain.Question{ID: 1, Type: domain.PhoneNumber}

	if errs := app.Validate(q, "1234567890"); len(errs) != 0 {
		t.Fatalf("expected accepted, got %v", errs)
	}
	if errs := app.Validate(q, " 1234567890 "); len(errs) != 0 {
		t.Fatalf("expected accepted with spaces, got %v", errs)
	}

	for _, bad := range []string{"12345", "12345678901", "123456789a", "+1234567890", "123-456-7890"} {
		errs := app.Validate(q, bad)
		if len(errs) != 1 || errs[0] != "Phone number must be exactly 10 digits." {
			t.Fatalf("answer %q: expected digit error, got %v", bad, errs)
		}
	}
}

func TestValidateLongAnswer(t *testing.T) {
	q := domain.Question{ID: 1, Type: domain.LongAnswer}

	if errs := app.Validate(q, "a perfectly long answer"); len(errs) != 0 {
		t.Fatalf("expected accepted, got %v", errs)
	}
	if errs := app.Validate(q, "short"); len(errs) != 1 || errs[0] != "Answer must be at least 10 characters." {
		t.Fatalf("expected length error, got %v", errs)
	}
	// Trimming happens before the length check.
	if errs := app.Validate(q, "  short   "); len(errs) != 1 {
		t.Fatalf("expected length error for padded short answer, got %v", errs)
	}
}
