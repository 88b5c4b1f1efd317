package models

import "testing"

func TestBaseScore(t *testing.T) {
	tests := []struct {
		roundType string
		want      int
	}{
		{RoundType1, 100},
		{RoundType2, 200},
		{RoundType3, 300},
	}

	for _, tt := range tests {
		t.Run(tt.roundType, func(t *testing.T) {
			r := &Round{Type: tt.roundType}
			if got := r.BaseScore(); got != tt.want {
				t.Errorf("BaseScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestQuestionPrice(t *testing.T) {
	q := &Question{HardLevel: 3}
	r := &Round{Type: RoundType1}

	if got := q.Price(r); got != 300 {
		t.Errorf("Price() = %d, want 300", got)
	}

	r.Type = RoundType3
	if got := q.Price(r); got != 900 {
		t.Errorf("Price() = %d, want 900", got)
	}
}
