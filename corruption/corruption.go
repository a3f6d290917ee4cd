// Package corruption models the network-fault injections a chaos stream-proxy
// can apply to segments of an HLS or DASH manifest.
package corruption

import (
	"fmt"

	"github.com/alorle/chaos-stream-manager/domain"
)

// Default values applied by the constructors
const (
	DefaultDelayMS      = 1000
	DefaultStatusCode   = 404
	DefaultThrottleRate = 100000
)

// Delay holds back delivery of the targeted segments by a number of
// milliseconds.
type Delay struct {
	Target Target `json:"target" yaml:"target"`
	MS     int64  `json:"ms" yaml:"ms"`
}

// NewDelay returns a delay corruption with the default 1000ms and no targeting
func NewDelay() Delay {
	return Delay{Target: NoTarget(), MS: DefaultDelayMS}
}

// Validate checks the delay fields and targeting
func (d Delay) Validate() error {
	if d.MS < 0 {
		return domain.NewFieldError("ms", "delay must not be negative")
	}
	return d.Target.Validate()
}

// StatusCode replaces the response for the targeted segments with an HTTP
// error status.
type StatusCode struct {
	Target Target `json:"target" yaml:"target"`
	Code   int    `json:"code" yaml:"code"`
}

// NewStatusCode returns a status code corruption defaulting to 404
func NewStatusCode() StatusCode {
	return StatusCode{Target: NoTarget(), Code: DefaultStatusCode}
}

// Validate checks the status code fields and targeting
func (s StatusCode) Validate() error {
	if s.Code < 100 || s.Code > 599 {
		return domain.NewFieldError("code", fmt.Sprintf("%d is not a valid HTTP status code", s.Code))
	}
	if s.Target.Mode == TargetLadder {
		return domain.NewFieldError("target.mode", "ladder targeting is only valid for delay corruptions")
	}
	return s.Target.Validate()
}

// Timeout makes requests for the targeted segments hang indefinitely.
// It carries no fields beyond its targeting.
type Timeout struct {
	Target Target `json:"target" yaml:"target"`
}

// NewTimeout returns a timeout corruption with no targeting
func NewTimeout() Timeout {
	return Timeout{Target: NoTarget()}
}

// Validate checks the timeout targeting
func (t Timeout) Validate() error {
	if t.Target.Mode == TargetLadder {
		return domain.NewFieldError("target.mode", "ladder targeting is only valid for delay corruptions")
	}
	return t.Target.Validate()
}

// Throttle limits delivery of the targeted segments to a byte rate.
type Throttle struct {
	Target Target `json:"target" yaml:"target"`
	Rate   int64  `json:"rate" yaml:"rate"`
}

// NewThrottle returns a throttle corruption defaulting to 100000 bytes/sec
func NewThrottle() Throttle {
	return Throttle{Target: NoTarget(), Rate: DefaultThrottleRate}
}

// Validate checks the throttle fields and targeting
func (t Throttle) Validate() error {
	if t.Rate <= 0 {
		return domain.NewFieldError("rate", "throttle rate must be positive")
	}
	if t.Target.Mode == TargetLadder {
		return domain.NewFieldError("target.mode", "ladder targeting is only valid for delay corruptions")
	}
	return t.Target.Validate()
}

// Profile groups the ordered corruption lists applied to one source stream.
// List order is significant: it determines the rendering order on the proxy
// URL, not any selection precedence.
type Profile struct {
	SourceURL   string            `json:"sourceUrl" yaml:"source_url"`
	Protocol    domain.Protocol   `json:"protocol" yaml:"protocol"`
	StreamType  domain.StreamType `json:"streamType" yaml:"stream_type"`
	Delays      []Delay           `json:"delays,omitempty" yaml:"delays,omitempty"`
	StatusCodes []StatusCode      `json:"statusCodes,omitempty" yaml:"status_codes,omitempty"`
	Timeouts    []Timeout         `json:"timeouts,omitempty" yaml:"timeouts,omitempty"`
	Throttles   []Throttle        `json:"throttles,omitempty" yaml:"throttles,omitempty"`
}

// Validate checks every corruption in the profile, including the rule that
// ladder targeting is limited to delay corruptions on HLS streams.
func (p Profile) Validate() error {
	for i, d := range p.Delays {
		if err := d.Validate(); err != nil {
			return prefix(fmt.Sprintf("delays[%d]", i), err)
		}
		if d.Target.Mode == TargetLadder && p.Protocol != domain.ProtocolHLS {
			return domain.NewFieldError(fmt.Sprintf("delays[%d].target.mode", i), "ladder targeting requires an HLS stream")
		}
	}
	for i, s := range p.StatusCodes {
		if err := s.Validate(); err != nil {
			return prefix(fmt.Sprintf("statusCodes[%d]", i), err)
		}
	}
	for i, to := range p.Timeouts {
		if err := to.Validate(); err != nil {
			return prefix(fmt.Sprintf("timeouts[%d]", i), err)
		}
	}
	for i, th := range p.Throttles {
		if err := th.Validate(); err != nil {
			return prefix(fmt.Sprintf("throttles[%d]", i), err)
		}
	}
	return nil
}

// UsesRelativeSequence reports whether any corruption targets a relative
// sequence offset, which requires a stateful proxy instance.
func (p Profile) UsesRelativeSequence() bool {
	for _, d := range p.Delays {
		if d.Target.Mode == TargetRelativeSequence {
			return true
		}
	}
	for _, s := range p.StatusCodes {
		if s.Target.Mode == TargetRelativeSequence {
			return true
		}
	}
	for _, to := range p.Timeouts {
		if to.Target.Mode == TargetRelativeSequence {
			return true
		}
	}
	for _, th := range p.Throttles {
		if th.Target.Mode == TargetRelativeSequence {
			return true
		}
	}
	return false
}

// prefix qualifies a field error with the list position it occurred at
func prefix(path string, err error) error {
	if fe, ok := err.(*domain.FieldError); ok {
		return domain.NewFieldError(path+"."+fe.Field, fe.Message)
	}
	return fmt.Errorf("%s: %w", path, err)
}
