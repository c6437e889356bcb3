package exam

import (
	"testing"

	"github.com/dangwonlab/dangwon/internal/model"
)

func TestValidQuestion(t *testing.T) {
	tests := []struct {
		name     string
		q        model.GeneratedQuestion
		unitName string
		want     bool
	}{
		{
			name:     "unchecked unit passes through",
			q:        model.GeneratedQuestion{Question: "12를 소인수분해하면?", Answer: "2^2*3"},
			unitName: "소인수분해",
			want:     true,
		},
		{
			name:     "empty question rejected",
			q:        model.GeneratedQuestion{Question: "  ", Answer: "3"},
			unitName: "소인수분해",
			want:     false,
		},
		{
			name:     "empty answer rejected",
			q:        model.GeneratedQuestion{Question: "2x + 1 = 7", Answer: " "},
			unitName: "소인수분해",
			want:     false,
		},
		{
			name:     "linear equation accepted",
			q:        model.GeneratedQuestion{Question: "2x + 1 = 7을 풀어라", Answer: "3"},
			unitName: "일차방정식",
			want:     true,
		},
		{
			name:     "linear equation without equals sign",
			q:        model.GeneratedQuestion{Question: "2x + 1", Answer: "3"},
			unitName: "일차방정식",
			want:     false,
		},
		{
			name:     "linear equation without unknown",
			q:        model.GeneratedQuestion{Question: "2 + 1 = 3", Answer: "3"},
			unitName: "일차방정식",
			want:     false,
		},
		{
			name:     "linear equation with non-numeric answer",
			q:        model.GeneratedQuestion{Question: "2x + 1 = 7", Answer: "x는 3"},
			unitName: "일차방정식",
			want:     false,
		},
		{
			name:     "linear equation with fraction answer",
			q:        model.GeneratedQuestion{Question: "2x = 1", Answer: "1/2"},
			unitName: "일차방정식",
			want:     true,
		},
		{
			name:     "check applies on substring unit name",
			q:        model.GeneratedQuestion{Question: "2x + 1", Answer: "3"},
			unitName: "일차방정식의 활용",
			want:     false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidQuestion(tt.q, tt.unitName); got != tt.want {
				t.Errorf("ValidQuestion(%+v, %q) = %v, want %v", tt.q, tt.unitName, got, tt.want)
			}
		})
	}
}
