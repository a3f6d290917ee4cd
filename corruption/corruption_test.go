package corruption

import (
	"errors"
	"testing"

	"github.com/alorle/chaos-stream-manager/domain"
)

func TestDefaults(t *testing.T) {
	d := NewDelay()
	if d.MS != 1000 {
		t.Errorf("NewDelay().MS = %d, want 1000", d.MS)
	}
	if d.Target.IsSet() {
		t.Error("NewDelay() should have no targeting")
	}

	s := NewStatusCode()
	if s.Code != 404 {
		t.Errorf("NewStatusCode().Code = %d, want 404", s.Code)
	}

	th := NewThrottle()
	if th.Rate != 100000 {
		t.Errorf("NewThrottle().Rate = %d, want 100000", th.Rate)
	}

	to := NewTimeout()
	if to.Target.IsSet() {
		t.Error("NewTimeout() should have no targeting")
	}
}

func TestTargetConstructorsAreExclusive(t *testing.T) {
	// Building a new target always replaces the previous selection entirely
	tgt := SegmentIndex(5)
	tgt = Bitrate(2000000)
	if tgt.Mode != TargetBitrate || tgt.Value != 2000000 {
		t.Errorf("expected bitrate target, got %+v", tgt)
	}

	tgt = NoTarget()
	if tgt.IsSet() {
		t.Error("NoTarget() should not be set")
	}
	if tgt.Value != 0 {
		t.Errorf("NoTarget() should carry no value, got %d", tgt.Value)
	}
}

func TestTargetValidate(t *testing.T) {
	cases := []struct {
		name   string
		target Target
		ok     bool
	}{
		{"none", NoTarget(), true},
		{"zero value", Target{}, true},
		{"all", AllSegments(), true},
		{"index zero", SegmentIndex(0), true},
		{"negative index", SegmentIndex(-1), false},
		{"sequence", MediaSequence(1234), true},
		{"negative sequence", MediaSequence(-1), false},
		{"negative relative sequence", RelativeSequence(-2), true},
		{"bitrate", Bitrate(2000000), true},
		{"zero bitrate", Bitrate(0), false},
		{"ladder", LadderRung(1), true},
		{"negative ladder", LadderRung(-1), false},
		{"unknown mode", Target{Mode: "segment"}, false},
	}
	for _, tc := range cases {
		err := tc.target.Validate()
		if tc.ok && err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestValidateReportsFieldErrors(t *testing.T) {
	d := Delay{Target: NoTarget(), MS: -5}
	err := d.Validate()
	if err == nil {
		t.Fatal("expected error for negative delay")
	}
	var fe *domain.FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldError, got %T", err)
	}
	if fe.Field != "ms" {
		t.Errorf("expected field 'ms', got %q", fe.Field)
	}

	s := StatusCode{Code: 42}
	if s.Validate() == nil {
		t.Error("expected error for implausible status code")
	}

	th := Throttle{Rate: 0}
	if th.Validate() == nil {
		t.Error("expected error for zero throttle rate")
	}
}

func TestLadderOnlyForDelays(t *testing.T) {
	if err := (StatusCode{Target: LadderRung(0), Code: 404}).Validate(); err == nil {
		t.Error("status code with ladder targeting should be rejected")
	}
	if err := (Timeout{Target: LadderRung(0)}).Validate(); err == nil {
		t.Error("timeout with ladder targeting should be rejected")
	}
	if err := (Throttle{Target: LadderRung(0), Rate: 1000}).Validate(); err == nil {
		t.Error("throttle with ladder targeting should be rejected")
	}
	if err := (Delay{Target: LadderRung(0), MS: 100}).Validate(); err != nil {
		t.Errorf("delay with ladder targeting should be valid: %v", err)
	}
}

func TestProfileValidate(t *testing.T) {
	p := Profile{
		SourceURL:  "https://example.com/stream.m3u8",
		Protocol:   domain.ProtocolHLS,
		StreamType: domain.StreamTypeLive,
		Delays:     []Delay{{Target: LadderRung(1), MS: 500}},
	}
	if err := p.Validate(); err != nil {
		t.Errorf("HLS ladder delay should validate: %v", err)
	}

	// Ladder targeting is HLS-only
	p.Protocol = domain.ProtocolDASH
	if err := p.Validate(); err == nil {
		t.Error("DASH ladder delay should be rejected")
	}

	// Field errors are qualified with the list position
	p = Profile{
		Protocol:    domain.ProtocolHLS,
		StatusCodes: []StatusCode{{Code: 404}, {Code: 9999}},
	}
	err := p.Validate()
	if err == nil {
		t.Fatal("expected error for implausible status code")
	}
	var fe *domain.FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldError, got %T", err)
	}
	if fe.Field != "statusCodes[1].code" {
		t.Errorf("expected field 'statusCodes[1].code', got %q", fe.Field)
	}
}

func TestUsesRelativeSequence(t *testing.T) {
	p := Profile{
		Delays:    []Delay{{Target: AllSegments(), MS: 100}},
		Throttles: []Throttle{{Target: RelativeSequence(2), Rate: 5000}},
	}
	if !p.UsesRelativeSequence() {
		t.Error("expected relative sequence usage to be detected")
	}

	p.Throttles[0].Target = Bitrate(1000000)
	if p.UsesRelativeSequence() {
		t.Error("no corruption targets a relative sequence")
	}
}
