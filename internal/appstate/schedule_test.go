package appstate

import (
	"image"
	"strings"
	"testing"
	"time"

	"github.com/example/circlemark/internal/circles"
)

func TestManualSchedulerOrder(t *testing.T) {
	s := NewManualScheduler()
	var got []string
	s.AfterFunc(2*time.Second, func() { got = append(got, "b") })
	s.AfterFunc(time.Second, func() { got = append(got, "a") })
	s.AfterFunc(2*time.Second, func() { got = append(got, "c") })
	cancelled := s.AfterFunc(time.Second, func() { got = append(got, "x") })
	if !cancelled.Cancel() {
		t.Fatal("cancel failed")
	}
	if s.Pending() != 3 {
		t.Fatalf("pending %d, want 3", s.Pending())
	}
	s.Advance(1500 * time.Millisecond)
	s.Advance(time.Second)
	if order := strings.Join(got, ""); order != "abc" {
		t.Fatalf("order %q, want %q", order, "abc")
	}
	if s.Now() != 2500*time.Millisecond {
		t.Fatalf("clock %v", s.Now())
	}
	if s.Pending() != 0 {
		t.Fatalf("pending %d after run", s.Pending())
	}
}

func TestManualSchedulerNestedTasks(t *testing.T) {
	s := NewManualScheduler()
	ran := 0
	s.AfterFunc(time.Second, func() {
		ran++
		s.AfterFunc(time.Second, func() { ran++ })
	})
	s.Advance(3 * time.Second)
	if ran != 2 {
		t.Fatalf("ran %d, want 2", ran)
	}
}

func TestTimerTaskCancel(t *testing.T) {
	s := NewTimerScheduler(func(fn func()) { fn() })
	task := s.AfterFunc(time.Hour, func() { t.Error("cancelled task ran") })
	if !task.Cancel() {
		t.Fatal("first cancel should succeed")
	}
	if task.Cancel() {
		t.Fatal("second cancel should fail")
	}
}

func TestToCanvas(t *testing.T) {
	tests := []struct {
		name    string
		x, y    float64
		display image.Rectangle
		backing image.Point
		want    circles.Point
	}{
		{"identity", 30, 40, image.Rect(0, 0, 100, 100), image.Pt(100, 100), circles.Point{X: 30, Y: 40}},
		{"offset", 130, 64, image.Rect(48, 24, 148, 124), image.Pt(100, 100), circles.Point{X: 82, Y: 40}},
		{"half size display", 60, 25, image.Rect(10, 0, 110, 50), image.Pt(200, 100), circles.Point{X: 100, Y: 50}},
		{"upscaled display", 200, 100, image.Rect(0, 0, 400, 200), image.Pt(100, 50), circles.Point{X: 50, Y: 25}},
		{"empty display", 12, 7, image.Rect(2, 2, 2, 2), image.Pt(100, 50), circles.Point{X: 10, Y: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToCanvas(tt.x, tt.y, tt.display, tt.backing); got != tt.want {
				t.Fatalf("ToCanvas = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFitRect(t *testing.T) {
	r := fitRect(image.Pt(200, 100), image.Rect(0, 0, 100, 100))
	if r != image.Rect(0, 25, 100, 75) {
		t.Fatalf("fitRect = %v", r)
	}
	r = fitRect(image.Pt(50, 100), image.Rect(10, 10, 210, 110))
	if r != image.Rect(85, 10, 135, 110) {
		t.Fatalf("fitRect = %v", r)
	}
}
