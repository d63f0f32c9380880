package transcript

import "math"

// Align assigns each segment the speaker whose diarization turn overlaps it
// the most. The input transcript is not modified; a labeled copy is returned.
//
// Per segment: overlap with a turn is max(0, min(ends) - max(starts)); the
// turn with the largest overlap wins, exact ties going to the turn that
// starts earlier. A segment overlapping no turn at all takes the speaker of
// the nearest turn by center-to-center distance; if two different speakers
// are equally near, the segment stays unlabeled. Segments are assigned
// independently, so input order never changes the result.
func Align(t *Transcript, turns []SpeakerTurn) *Transcript {
	out := t.Clone()
	if len(turns) == 0 {
		return out
	}

	for i := range out.Segments {
		out.Segments[i].Speaker = assignSpeaker(out.Segments[i], turns)
	}
	return out
}

func assignSpeaker(s Segment, turns []SpeakerTurn) string {
	best := -1
	bestOverlap := 0.0
	for j, turn := range turns {
		ov := math.Min(s.End, turn.End) - math.Max(s.Start, turn.Start)
		if ov <= 0 {
			continue
		}
		if ov > bestOverlap || (ov == bestOverlap && turn.Start < turns[best].Start) {
			best = j
			bestOverlap = ov
		}
	}
	if best >= 0 {
		return turns[best].Speaker
	}

	// Segment falls in a diarization gap: pick the nearest turn by center
	// distance. A distance tie between different speakers stays unresolved.
	center := (s.Start + s.End) / 2
	nearest := -1
	nearestDist := math.Inf(1)
	ambiguous := false
	for j, turn := range turns {
		d := math.Abs((turn.Start+turn.End)/2 - center)
		switch {
		case d < nearestDist:
			nearest = j
			nearestDist = d
			ambiguous = false
		case d == nearestDist && turn.Speaker != turns[nearest].Speaker:
			ambiguous = true
		}
	}
	if nearest < 0 || ambiguous {
		return ""
	}
	return turns[nearest].Speaker
}
