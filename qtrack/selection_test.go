package qtrack

import (
	"testing"
)

func TestSelectorFirstFound(t *testing.T) {
	selector := NewSelectorDefault()
	candidates := []Candidate{
		NewCandidate(NewRect(0, 0, 10, 10), 100),
		NewCandidate(NewRect(100, 100, 30, 30), 700),
		NewCandidate(NewRect(300, 300, 60, 60), 2800),
	}
	selected, ok := selector.Select(candidates, nil)
	if !ok {
		t.Fatal("Expected candidate to be selected")
	}
	if selected.Center != (Point{X: 115, Y: 115}) {
		t.Errorf("Expected first qualifying region at (115, 115), got %v", selected.Center)
	}
}

func TestSelectorMinAreaIsStrict(t *testing.T) {
	selector := NewSelectorDefault()
	candidates := []Candidate{
		NewCandidate(NewRect(0, 0, 10, 10), 500),
		NewCandidate(NewRect(0, 0, 10, 10), 499),
	}
	if _, ok := selector.Select(candidates, nil); ok {
		t.Error("Area equal to minimum should not qualify")
	}
	if _, ok := selector.Select(nil, nil); ok {
		t.Error("No candidates should yield nothing")
	}
}

func TestSelectorLargestArea(t *testing.T) {
	selector := NewSelector(SelectLargestArea, DefaultMinArea)
	candidates := []Candidate{
		NewCandidate(NewRect(0, 0, 30, 30), 700),
		NewCandidate(NewRect(200, 0, 60, 60), 2800),
		NewCandidate(NewRect(400, 0, 40, 40), 1200),
		NewCandidate(NewRect(600, 0, 60, 60), 2800),
	}
	selected, ok := selector.Select(candidates, nil)
	if !ok {
		t.Fatal("Expected candidate to be selected")
	}
	// Ties go to detector order
	if selected.BBox.X != 200 {
		t.Errorf("Expected region at x=200, got %v", selected.BBox)
	}
}

func TestSelectorNearestPredicted(t *testing.T) {
	selector := NewSelector(SelectNearestPredicted, DefaultMinArea)
	candidates := []Candidate{
		NewCandidate(NewRect(0, 0, 30, 30), 700),
		NewCandidate(NewRect(400, 400, 30, 30), 700),
	}
	predicted := Point{X: 410, Y: 420}
	selected, ok := selector.Select(candidates, &predicted)
	if !ok {
		t.Fatal("Expected candidate to be selected")
	}
	if selected.BBox.X != 400 {
		t.Errorf("Expected region nearest to prediction, got %v", selected.BBox)
	}
	// Without prediction falls back to detector order
	selected, _ = selector.Select(candidates, nil)
	if selected.BBox.X != 0 {
		t.Errorf("Expected first region without prediction, got %v", selected.BBox)
	}
}

func TestParseSelectionPolicy(t *testing.T) {
	cases := map[string]SelectionPolicy{
		"":        SelectFirstFound,
		"first":   SelectFirstFound,
		"Largest": SelectLargestArea,
		"nearest": SelectNearestPredicted,
	}
	for s, expected := range cases {
		policy, err := ParseSelectionPolicy(s)
		if err != nil {
			t.Errorf("Unexpected error for '%s': %v", s, err)
		}
		if policy != expected {
			t.Errorf("'%s': expected %v, got %v", s, expected, policy)
		}
		if s != "" && policy.String() != "first" && policy.String() != "largest" && policy.String() != "nearest" {
			t.Errorf("Unexpected name %s", policy.String())
		}
	}
	if _, err := ParseSelectionPolicy("random"); err == nil {
		t.Error("Expected error for unknown policy")
	}
}
