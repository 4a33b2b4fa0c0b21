package qtrack

import (
	"image"
	"math"
	"testing"
)

const (
	eps = 0.00001
)

func TestEuclideanDistance(t *testing.T) {
	p1 := Point{X: 341, Y: 264}
	p2 := Point{X: 421, Y: 427}
	correctAnswer := 181.57367
	answer := euclideanDistance(p1, p2)
	if math.Abs(answer-correctAnswer) > eps {
		t.Errorf("Wrong answer: %v, correct answer: %v", answer, correctAnswer)
	}
}

func TestRectangleCenter(t *testing.T) {
	cases := []struct {
		rect     Rectangle
		expected Point
	}{
		{NewRect(10, 10, 5, 5), Point{X: 12, Y: 12}},
		{NewRect(0, 0, 40, 20), Point{X: 20, Y: 10}},
		{NewRectFrom(image.Rect(100, 50, 131, 71)), Point{X: 115, Y: 60}},
	}
	for _, c := range cases {
		center := c.rect.Center()
		if center != c.expected {
			t.Errorf("Center of %v: expected %v, got %v", c.rect, c.expected, center)
		}
	}
}

func TestPointImagePoint(t *testing.T) {
	p := NewPointFrom(image.Pt(3, 4))
	if p.ImagePoint() != image.Pt(3, 4) {
		t.Errorf("Expected (3,4), got %v", p.ImagePoint())
	}
	if NewPoint(2.6, 7.4).ImagePoint() != image.Pt(3, 7) {
		t.Errorf("Expected rounding to (3,7), got %v", NewPoint(2.6, 7.4).ImagePoint())
	}
}
