package kinetic

import (
	"fmt"
	"math"
)

// Kind tags which variant an Event holds.
type Kind uint8

const (
	// KindNone: nothing to resolve, bodies only drift (fallback or horizon).
	KindNone Kind = iota
	// KindPair: bodies A and B touch.
	KindPair
	// KindWall: body A reaches a boundary.
	KindWall
)

func (k Kind) String() string {
	switch k {
	case KindPair:
		return "pair"
	case KindWall:
		return "wall"
	default:
		return "none"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "pair":
		return KindPair, nil
	case "wall":
		return KindWall, nil
	case "none":
		return KindNone, nil
	}
	return KindNone, fmt.Errorf("kinetic: unknown event kind %q", s)
}

// Event is the next state change, with Time relative to the instant the
// bodies were last synchronized. A and B are indices into the body slice the
// event was computed from; B is -1 unless Kind is KindPair.
type Event struct {
	Kind Kind
	Time float64
	A, B int
}

func PairEvent(t float64, a, b int) Event { return Event{Kind: KindPair, Time: t, A: a, B: b} }
func WallEvent(t float64, a int) Event    { return Event{Kind: KindWall, Time: t, A: a, B: -1} }
func NoEvent(t float64) Event             { return Event{Kind: KindNone, Time: t, A: -1, B: -1} }

// Participants lists the body indices the event involves.
func (e Event) Participants() []int {
	switch e.Kind {
	case KindPair:
		return []int{e.A, e.B}
	case KindWall:
		return []int{e.A}
	}
	return nil
}

func (e Event) String() string {
	switch e.Kind {
	case KindPair:
		return fmt.Sprintf("pair(%d,%d)@%.6g", e.A, e.B, e.Time)
	case KindWall:
		return fmt.Sprintf("wall(%d)@%.6g", e.A, e.Time)
	}
	return fmt.Sprintf("none@%.6g", e.Time)
}

// NextEvent scans every unordered pair (i<j) and every body against the
// walls and returns the earliest event. Pairs for body i are scanned before
// its wall check and a candidate only replaces the current best when it is
// strictly earlier, so exact ties go to the first one scanned.
//
// Pair contacts must be strictly in the future. A wall time of zero is
// accepted: WallTime only reports zero for a body sitting on (or past) a wall
// while still moving outward, and Reflect always removes that component, so
// the same wall cannot fire twice in a row.
//
// When nothing is finite, the returned event is KindNone with Time set to
// maxAdvance so the caller still makes progress.
func NextEvent(bodies []*Body, box Bounds, maxAdvance float64) Event {
	best := NoEvent(math.Inf(1))
	n := len(bodies)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			t := PairTime(bodies[i], bodies[j])
			if t > 0 && t < best.Time {
				best = PairEvent(t, i, j)
			}
		}
		if tw := WallTime(bodies[i], box); tw >= 0 && tw < best.Time {
			best = WallEvent(tw, i)
		}
	}

	if math.IsInf(best.Time, 1) {
		return NoEvent(maxAdvance)
	}
	return best
}
