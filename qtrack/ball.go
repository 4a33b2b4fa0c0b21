package qtrack

import (
	kalman_filter "github.com/LdDl/kalman-filter"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// BallTrack is a per-color track using 2D Kalman filter for the centroid.
// It is used to predict where a ball should be on the next sampled frame and to
// keep a short history for drawing. It never affects quadrant classification.
type BallTrack struct {
	id                    uuid.UUID
	color                 string
	currentCenter         Point
	predictedNextPosition Point
	track                 []Point
	maxTrackLen           int
	noMatchTimes          int
	tracker               *kalman_filter.Kalman2D
}

// NewBallTrackWithTime creates track for the given color starting at center.
// dt is the time between sampled frames.
func NewBallTrackWithTime(color string, center Point, dt float64) *BallTrack {
	/* Kalman filter props */
	ux := 1.0
	uy := 1.0
	stdDevA := 2.0
	stdDevMx := 0.1
	stdDevMy := 0.1
	kf := kalman_filter.NewKalman2D(dt, ux, uy, stdDevA, stdDevMx, stdDevMy, kalman_filter.WithState2D(center.X, center.Y))
	ball := BallTrack{
		id:                    uuid.New(),
		color:                 color,
		currentCenter:         center,
		predictedNextPosition: center,
		track:                 make([]Point, 0, 150),
		maxTrackLen:           150,
		noMatchTimes:          0,
		tracker:               kf,
	}
	ball.track = append(ball.track, ball.currentCenter)
	return &ball
}

func NewBallTrack(color string, center Point) *BallTrack {
	return NewBallTrackWithTime(color, center, 1.0)
}

// GetID returns track's identifier
func (ball *BallTrack) GetID() uuid.UUID {
	return ball.id
}

// GetColor returns name of color class being tracked
func (ball *BallTrack) GetColor() string {
	return ball.color
}

// GetCenter returns smoothed center
func (ball *BallTrack) GetCenter() Point {
	return ball.currentCenter
}

// GetPredicted returns position predicted by the last PredictNextPosition call
func (ball *BallTrack) GetPredicted() Point {
	return ball.predictedNextPosition
}

// GetTrack returns track history. Be careful: this is not copy of track, but reference to it
func (ball *BallTrack) GetTrack() []Point {
	return ball.track
}

// GetMaxTrackLen returns max track length
func (ball *BallTrack) GetMaxTrackLen() int {
	return ball.maxTrackLen
}

// SetMaxTrackLen sets max track length
func (ball *BallTrack) SetMaxTrackLen(newMaxTrackLen int) {
	ball.maxTrackLen = newMaxTrackLen
}

// GetNoMatchTimes returns number of consecutive frames without detection
func (ball *BallTrack) GetNoMatchTimes() int {
	return ball.noMatchTimes
}

// IncNoMatch increases no match times
func (ball *BallTrack) IncNoMatch() {
	ball.noMatchTimes++
}

// ResetNoMatch resets no match times
func (ball *BallTrack) ResetNoMatch() {
	ball.noMatchTimes = 0
}

// DistanceToPredicted returns distance from predicted position to p
func (ball *BallTrack) DistanceToPredicted(p Point) float64 {
	return euclideanDistance(ball.predictedNextPosition, p)
}

// PredictNextPosition execute Kalman filter's first step but without re-evaluating state vector based on Kalman gain
func (ball *BallTrack) PredictNextPosition() {
	ball.tracker.Predict()
	stateX, stateY := ball.tracker.GetState()
	ball.predictedNextPosition.X = stateX
	ball.predictedNextPosition.Y = stateY
}

// Update corrects the filter with a detected center and appends smoothed position to the track
func (ball *BallTrack) Update(center Point) error {
	err := ball.tracker.Update(center.X, center.Y)
	if err != nil {
		return errors.Wrapf(err, "Can't update track for color '%s'", ball.color)
	}
	stateX, stateY := ball.tracker.GetState()
	ball.currentCenter = Point{X: stateX, Y: stateY}
	ball.noMatchTimes = 0
	ball.track = append(ball.track, ball.currentCenter)
	if len(ball.track) > ball.maxTrackLen {
		ball.track = ball.track[1:]
	}
	return nil
}

// BallTracks holds at most one track per color.
type BallTracks struct {
	// Main storage
	Objects map[string]*BallTrack
	// Time between sampled frames
	dt float64
	// Max number of consecutive sampled frames a color may be missing before its track is dropped. Default is 5
	maxNoMatch int
}

// NewBallTracksDefault creates tracks with dt=1 and maxNoMatch=5
func NewBallTracksDefault() *BallTracks {
	return NewBallTracks(1.0, 5)
}

// NewBallTracks creates new instance of BallTracks
func NewBallTracks(dt float64, maxNoMatch int) *BallTracks {
	return &BallTracks{
		Objects:    make(map[string]*BallTrack),
		dt:         dt,
		maxNoMatch: maxNoMatch,
	}
}

// PredictAll advances every track one sampled frame
func (tracks *BallTracks) PredictAll() {
	for _, ball := range tracks.Objects {
		ball.PredictNextPosition()
	}
}

// Predicted returns predicted center for the color if it is being tracked
func (tracks *BallTracks) Predicted(color string) (Point, bool) {
	ball, ok := tracks.Objects[color]
	if !ok {
		return Point{}, false
	}
	return ball.GetPredicted(), true
}

// Observe updates (or starts) track for the color
func (tracks *BallTracks) Observe(color string, center Point) error {
	ball, ok := tracks.Objects[color]
	if !ok {
		tracks.Objects[color] = NewBallTrackWithTime(color, center, tracks.dt)
		return nil
	}
	return ball.Update(center)
}

// Miss registers absence of the color on the current frame and drops the track
// once it has been missing for too long
func (tracks *BallTracks) Miss(color string) {
	ball, ok := tracks.Objects[color]
	if !ok {
		return
	}
	ball.IncNoMatch()
	if ball.GetNoMatchTimes() > tracks.maxNoMatch {
		delete(tracks.Objects, color)
	}
}
