package syncwatch

import "time"

// animationDuration is how long the displayed value takes to reach a newly
// polled target.
const animationDuration = 600 * time.Millisecond

// Animator eases the displayed progress toward the most recent polled value
// so the indicator moves continuously between polls spaced seconds apart.
// Retargeting resumes from the currently displayed value, never from zero or
// the previous target, so the display cannot jump on a mid-animation poll.
type Animator struct {
	origin   float64
	target   float64
	start    time.Time
	duration time.Duration
}

// NewAnimator returns an animator resting at zero.
func NewAnimator() *Animator {
	return &Animator{duration: animationDuration}
}

// SetTarget retargets the animation from the value displayed at now.
func (a *Animator) SetTarget(now time.Time, target float64) {
	a.origin = a.ValueAt(now)
	a.target = target
	a.start = now
}

// SetPercent retargets toward a polled progress reading. A nil reading
// means no progress is known; the target collapses to zero and callers show
// no progress text.
func (a *Animator) SetPercent(now time.Time, pct *int) {
	if pct == nil {
		a.SetTarget(now, 0)
		return
	}
	a.SetTarget(now, float64(*pct))
}

// Target returns the value the animator is easing toward.
func (a *Animator) Target() float64 {
	return a.target
}

// ValueAt samples the displayed value at an arbitrary instant. The value is
// monotone between the last retarget origin and the target; it never
// overshoots.
func (a *Animator) ValueAt(now time.Time) float64 {
	if a.start.IsZero() {
		return a.origin
	}
	elapsed := now.Sub(a.start)
	if elapsed <= 0 {
		return a.origin
	}
	if elapsed >= a.duration {
		return a.target
	}
	t := float64(elapsed) / float64(a.duration)
	return a.origin + (a.target-a.origin)*easeOutCubic(t)
}

// easeOutCubic is monotone on [0,1]: fast at first, settling into the target.
func easeOutCubic(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}
