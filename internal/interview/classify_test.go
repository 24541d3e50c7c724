package interview

import "testing"

func TestClassify(t *testing.T) {
	if got := Classify(1); got != CategoryIntroduction {
		t.Fatalf("position 1 = %s, want introduction", got)
	}
	for pos := 2; pos <= 10; pos++ {
		if got := Classify(pos); got != CategorySubstantive {
			t.Fatalf("position %d = %s, want substantive", pos, got)
		}
	}
}

func TestCanAssessSubstantive(t *testing.T) {
	tests := []struct {
		name      string
		positions []int
		want      bool
	}{
		{"nothing answered", nil, false},
		{"only introduction", []int{1}, false},
		{"one substantive", []int{3}, true},
		{"introduction plus substantive", []int{1, 2}, true},
		{"all answered", []int{1, 2, 3, 4, 5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := make(map[int]struct{}, len(tt.positions))
			for _, p := range tt.positions {
				set[p] = struct{}{}
			}
			if got := CanAssessSubstantive(set); got != tt.want {
				t.Errorf("CanAssessSubstantive(%v) = %v, want %v", tt.positions, got, tt.want)
			}
		})
	}
}
