package insights

import (
	"github.com/Atharva-Kanherkar/cadence/internal/activity"
)

// FocusBlocks keeps sessions lasting at least FocusBlockMinDuration and merges
// consecutive kept sessions on the same app separated by no more than
// SustainedGapThreshold. A merged block spans its first start to its last
// end, sums interruptions and input counts, and averages focus scores.
func FocusBlocks(sessions []activity.FocusSession) []activity.FocusSession {
	var blocks []activity.FocusSession
	var focusSum float64
	merged := 0

	closeBlock := func() {
		if merged == 0 {
			return
		}
		blocks[len(blocks)-1].FocusScore = focusSum / float64(merged)
	}

	for _, s := range sessions {
		if s.Duration < FocusBlockMinDuration {
			continue
		}
		if n := len(blocks); n > 0 {
			cur := &blocks[n-1]
			if cur.AppName == s.AppName && s.Start.Sub(cur.End) <= SustainedGapThreshold {
				if s.End.After(cur.End) {
					cur.End = s.End
				}
				cur.Duration = cur.End.Sub(cur.Start)
				cur.Interruptions += s.Interruptions
				cur.Keystrokes += s.Keystrokes
				cur.MouseClicks += s.MouseClicks
				focusSum += s.FocusScore
				merged++
				continue
			}
		}
		closeBlock()
		blocks = append(blocks, s)
		focusSum = s.FocusScore
		merged = 1
	}
	closeBlock()
	return blocks
}
