package qtrack

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewBallTrack(t *testing.T) {
	ball := NewBallTrack("yellow", Point{X: 100, Y: 50})
	if ball.GetID() == uuid.Nil {
		t.Error("Track ID should not be nil")
	}
	if ball.GetColor() != "yellow" {
		t.Errorf("Expected color yellow, got %s", ball.GetColor())
	}
	if ball.GetPredicted() != (Point{X: 100, Y: 50}) {
		t.Errorf("Prediction should start at initial center, got %v", ball.GetPredicted())
	}
	if len(ball.GetTrack()) != 1 {
		t.Errorf("Expected track length 1, got %d", len(ball.GetTrack()))
	}
	if ball.GetMaxTrackLen() != 150 {
		t.Errorf("Default max track len should be 150, got %d", ball.GetMaxTrackLen())
	}
}

func TestBallTrackFollowsBall(t *testing.T) {
	ball := NewBallTrack("green", Point{X: 100, Y: 100})
	ball.SetMaxTrackLen(5)
	for i := 1; i <= 10; i++ {
		ball.PredictNextPosition()
		err := ball.Update(Point{X: 100 + float64(i)*10, Y: 100})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
	}
	if len(ball.GetTrack()) != 5 {
		t.Errorf("Expected track to be capped at 5, got %d", len(ball.GetTrack()))
	}
	center := ball.GetCenter()
	if center.X < 150 || center.X > 250 {
		t.Errorf("Smoothed center should follow the ball, got %v", center)
	}
	ball.PredictNextPosition()
	if ball.DistanceToPredicted(Point{X: 210, Y: 100}) > ball.DistanceToPredicted(Point{X: 0, Y: 100}) {
		t.Error("Prediction should be closer to the ball's path than to the origin")
	}
}

func TestBallTracksMiss(t *testing.T) {
	tracks := NewBallTracks(1.0, 2)
	if _, ok := tracks.Predicted("white"); ok {
		t.Error("Unknown color should have no prediction")
	}
	if err := tracks.Observe("white", Point{X: 10, Y: 10}); err != nil {
		t.Fatal(err)
	}
	tracks.PredictAll()
	if _, ok := tracks.Predicted("white"); !ok {
		t.Error("Expected prediction for tracked color")
	}
	tracks.Miss("white")
	tracks.Miss("white")
	if _, ok := tracks.Objects["white"]; !ok {
		t.Error("Track should survive maxNoMatch misses")
	}
	tracks.Miss("white")
	if _, ok := tracks.Objects["white"]; ok {
		t.Error("Track should be dropped after too many misses")
	}
	tracks.Miss("unknown")
	if NewBallTracksDefault().maxNoMatch != 5 {
		t.Error("Default maxNoMatch should be 5")
	}
}
