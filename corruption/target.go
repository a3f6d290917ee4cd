package corruption

import (
	"fmt"

	"github.com/alorle/chaos-stream-manager/domain"
)

// TargetMode selects how a corruption picks segments from a manifest.
type TargetMode string

// Targeting modes. Exactly one mode is active per target; constructing a new
// target replaces any previous selection.
const (
	// TargetNone leaves a corruption without targeting. It is only useful to
	// carve an exclusion out of a wildcard-targeted sibling rule.
	TargetNone TargetMode = "none"

	// TargetAll applies the corruption to every segment (wildcard).
	TargetAll TargetMode = "all"

	// TargetIndex selects a single segment by zero-based index.
	TargetIndex TargetMode = "index"

	// TargetSequence selects a segment by absolute media-sequence number.
	TargetSequence TargetMode = "sequence"

	// TargetRelativeSequence selects a segment by offset from the proxy's
	// playback cursor. Only meaningful against a stateful proxy instance.
	TargetRelativeSequence TargetMode = "relativeSequence"

	// TargetBitrate selects the rendition whose bitrate matches (bits/sec).
	TargetBitrate TargetMode = "bitrate"

	// TargetLadder selects a quality-ladder rung by ordinal.
	// Valid for delay corruptions on HLS streams only.
	TargetLadder TargetMode = "ladder"
)

// Target selects which segments a corruption applies to. The zero value is
// an untargeted selection (mode none).
type Target struct {
	Mode  TargetMode `json:"mode,omitempty" yaml:"mode,omitempty"`
	Value int64      `json:"value,omitempty" yaml:"value,omitempty"`
}

// NoTarget returns an untargeted selection
func NoTarget() Target {
	return Target{Mode: TargetNone}
}

// AllSegments returns a wildcard selection covering every segment
func AllSegments() Target {
	return Target{Mode: TargetAll}
}

// SegmentIndex targets the segment at a zero-based index
func SegmentIndex(i int64) Target {
	return Target{Mode: TargetIndex, Value: i}
}

// MediaSequence targets the segment with an absolute media-sequence number
func MediaSequence(n int64) Target {
	return Target{Mode: TargetSequence, Value: n}
}

// RelativeSequence targets a segment by offset from the playback cursor
func RelativeSequence(n int64) Target {
	return Target{Mode: TargetRelativeSequence, Value: n}
}

// Bitrate targets the rendition with the given bitrate in bits/sec
func Bitrate(bps int64) Target {
	return Target{Mode: TargetBitrate, Value: bps}
}

// LadderRung targets a quality-ladder rung by ordinal
func LadderRung(n int64) Target {
	return Target{Mode: TargetLadder, Value: n}
}

// Validate checks that the target mode is known and its value is in range
// for that mode. The empty mode is normalized to none by callers.
func (t Target) Validate() error {
	switch t.Mode {
	case "", TargetNone, TargetAll:
		return nil
	case TargetIndex:
		if t.Value < 0 {
			return domain.NewFieldError("target.value", "segment index must not be negative")
		}
	case TargetSequence:
		if t.Value < 0 {
			return domain.NewFieldError("target.value", "media sequence must not be negative")
		}
	case TargetRelativeSequence:
		// Offsets may be negative for segments behind the playback cursor.
	case TargetBitrate:
		if t.Value <= 0 {
			return domain.NewFieldError("target.value", "bitrate must be positive")
		}
	case TargetLadder:
		if t.Value < 0 {
			return domain.NewFieldError("target.value", "ladder rung must not be negative")
		}
	default:
		return domain.NewFieldError("target.mode", fmt.Sprintf("unknown targeting mode %q", t.Mode))
	}
	return nil
}

// IsSet reports whether the target selects anything at all
func (t Target) IsSet() bool {
	return t.Mode != "" && t.Mode != TargetNone
}
