package hand

import (
	"errors"
	"testing"
)

func TestFromPoints(t *testing.T) {
	t.Run("copies 21 points in order", func(t *testing.T) {
		points := make([]Point, NumLandmarks)
		for i := range points {
			points[i] = Point{X: i * 10, Y: i * 20}
		}

		obs, err := FromPoints(points)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for i := 0; i < NumLandmarks; i++ {
			if obs.Points[i] != points[i] {
				t.Errorf("point %d = %v, want %v", i, obs.Points[i], points[i])
			}
		}
	})

	t.Run("ignores extra points", func(t *testing.T) {
		points := make([]Point, NumLandmarks+3)
		points[NumLandmarks] = Point{X: 999, Y: 999}

		if _, err := FromPoints(points); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("rejects short hands", func(t *testing.T) {
		for _, n := range []int{0, 5, NumLandmarks - 1} {
			_, err := FromPoints(make([]Point, n))
			if !errors.Is(err, ErrInsufficientLandmarks) {
				t.Errorf("FromPoints(%d points) error = %v, want ErrInsufficientLandmarks", n, err)
			}
		}
	})
}

func TestDigits_Schema(t *testing.T) {
	wantTips := []int{ThumbTip, IndexTip, MiddleTip, RingTip, PinkyTip}

	for i, d := range Digits {
		if d.Tip != wantTips[i] {
			t.Errorf("digit %s tip = %d, want %d", d.Name, d.Tip, wantTips[i])
		}
	}

	thumb := Digits[0]
	if thumb.Joint != ThumbIP || thumb.Axis != AxisX {
		t.Errorf("thumb = %+v, want joint %d on x axis", thumb, ThumbIP)
	}

	for _, d := range Digits[1:] {
		if d.Joint != d.Tip-2 {
			t.Errorf("digit %s joint = %d, want %d", d.Name, d.Joint, d.Tip-2)
		}
		if d.Axis != AxisY {
			t.Errorf("digit %s should compare on the y axis", d.Name)
		}
	}
}

func TestConnections_InRange(t *testing.T) {
	for _, c := range Connections {
		for _, idx := range c {
			if idx < 0 || idx >= NumLandmarks {
				t.Errorf("connection %v has out of range index %d", c, idx)
			}
		}
	}
}
