package handlers

import "testing"

func TestRoundQuestionPayloadRoundTrip(t *testing.T) {
	data := ChoicePayload(7, 42)
	if data != "btn_choice:7:42" {
		t.Fatalf("unexpected payload: %s", data)
	}

	roundID, questionID, err := ParseRoundQuestion(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if roundID != 7 || questionID != 42 {
		t.Errorf("got (%d, %d), want (7, 42)", roundID, questionID)
	}
}

func TestParseRoundQuestionRejectsMalformed(t *testing.T) {
	tests := []string{
		"btn_choice",
		"btn_choice:7",
		"btn_choice:7:42:9",
		"btn_choice:x:42",
		"btn_choice:7:y",
	}

	for _, data := range tests {
		if _, _, err := ParseRoundQuestion(data); err == nil {
			t.Errorf("expected error for %q", data)
		}
	}
}

func TestVerdictPayloadRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		correct bool
	}{
		{"correct", true},
		{"wrong", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := VerdictPayload(tt.correct, 555, 3, 1200, 42)

			verdict, err := ParseVerdict(data)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if verdict.Correct != tt.correct {
				t.Errorf("Correct = %v, want %v", verdict.Correct, tt.correct)
			}
			if verdict.UserID != 555 || verdict.GameID != 3 || verdict.MessageID != 1200 || verdict.QuestionID != 42 {
				t.Errorf("unexpected fields: %+v", verdict)
			}
		})
	}
}

func TestParseVerdictRejectsMalformed(t *testing.T) {
	tests := []string{
		"",
		"correct:1:2:3",
		"maybe:1:2:3:4",
		"correct:x:2:3:4",
		"correct:1:2:3:4:5",
	}

	for _, data := range tests {
		if _, err := ParseVerdict(data); err == nil {
			t.Errorf("expected error for %q", data)
		}
	}
}
