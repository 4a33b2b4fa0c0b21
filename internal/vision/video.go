package vision

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// DefaultCodec is the fourcc used for the annotated output
const DefaultCodec = "XVID"

// VideoSource reads frames from a video file or stream.
type VideoSource struct {
	capture *gocv.VideoCapture
	width   int
	height  int
	fps     float64
}

// OpenVideoSource opens the file and queries frame size and rate once
func OpenVideoSource(path string) (*VideoSource, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't open video '%s'", path)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, errors.Errorf("Can't open video '%s'", path)
	}
	return &VideoSource{
		capture: capture,
		width:   int(capture.Get(gocv.VideoCaptureFrameWidth)),
		height:  int(capture.Get(gocv.VideoCaptureFrameHeight)),
		fps:     capture.Get(gocv.VideoCaptureFPS),
	}, nil
}

// Read reads next frame. It returns false at end of stream or on read failure.
func (source *VideoSource) Read(frame *gocv.Mat) bool {
	if ok := source.capture.Read(frame); !ok || frame.Empty() {
		return false
	}
	return true
}

// Width returns frame width
func (source *VideoSource) Width() int {
	return source.width
}

// Height returns frame height
func (source *VideoSource) Height() int {
	return source.height
}

// FPS returns frame rate reported by the container
func (source *VideoSource) FPS() float64 {
	return source.fps
}

// Close releases capture
func (source *VideoSource) Close() error {
	return source.capture.Close()
}

// VideoSink writes frames to a video container.
type VideoSink struct {
	writer *gocv.VideoWriter
}

// OpenVideoSink creates writer with the same size and rate as the input
func OpenVideoSink(path, codec string, fps float64, width, height int) (*VideoSink, error) {
	if codec == "" {
		codec = DefaultCodec
	}
	writer, err := gocv.VideoWriterFile(path, codec, fps, width, height, true)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't open video writer '%s'", path)
	}
	if !writer.IsOpened() {
		writer.Close()
		return nil, errors.Errorf("Can't open video writer '%s'", path)
	}
	return &VideoSink{writer: writer}, nil
}

// Write appends frame
func (sink *VideoSink) Write(frame gocv.Mat) error {
	if err := sink.writer.Write(frame); err != nil {
		return errors.Wrap(err, "Can't write frame")
	}
	return nil
}

// Close flushes and releases writer
func (sink *VideoSink) Close() error {
	return sink.writer.Close()
}
