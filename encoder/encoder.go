// Package encoder renders the proxy URL consumed by the downstream chaos
// stream-proxy. The query grammar is a wire contract with the proxy's own
// parser: object keys are unquoted, the wildcard is a bare *, and unset
// fields are omitted entirely. A general-purpose serializer would quote all
// of these and break the proxy, so the rendering is done by hand.
package encoder

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alorle/chaos-stream-manager/corruption"
	"github.com/alorle/chaos-stream-manager/domain"
)

// Manifest paths exposed by the chaos stream-proxy
const (
	HLSManifestPath  = "/api/v2/manifests/hls/proxied/master.m3u8"
	DASHManifestPath = "/api/v2/manifests/dash/proxied/manifest.mpd"
)

// Wire keys understood by the proxy's corruption parser
const (
	keyIndex            = "i"
	keySequence         = "sq"
	keyRelativeSequence = "rsq"
	keyBitrate          = "br"
	keyLadder           = "l"
	keyDelayMS          = "ms"
	keyStatusCode       = "code"
	keyThrottleRate     = "rate"
)

// ErrNoSourceURL is returned when a profile has no source URL to proxy.
// There is no valid output in that case, never an empty URL.
var ErrNoSourceURL = errors.New("profile has no source url")

// ErrNoInstanceURL is returned when no chaos-proxy instance URL is known.
var ErrNoInstanceURL = errors.New("no chaos proxy instance url")

// Encode renders the full proxy URL for a corruption profile hosted on the
// given chaos-proxy instance. The output is deterministic: parameters appear
// in the fixed order url, delay, statusCode, timeout, throttle, and empty
// corruption lists contribute no parameter at all.
func Encode(instanceURL string, p corruption.Profile) (string, error) {
	if instanceURL == "" {
		return "", ErrNoInstanceURL
	}
	if p.SourceURL == "" {
		return "", ErrNoSourceURL
	}

	var path string
	switch p.Protocol {
	case domain.ProtocolHLS:
		path = HLSManifestPath
	case domain.ProtocolDASH:
		path = DASHManifestPath
	default:
		return "", fmt.Errorf("unknown protocol %q", p.Protocol)
	}

	var sb strings.Builder
	sb.WriteString(strings.TrimSuffix(instanceURL, "/"))
	sb.WriteString(path)

	// The source URL is embedded raw: the proxy parses its query string
	// itself and expects the url value without percent-encoding.
	sb.WriteString("?url=")
	sb.WriteString(p.SourceURL)

	if len(p.Delays) > 0 {
		sb.WriteString("&delay=")
		writeArray(&sb, len(p.Delays), func(i int) []field {
			d := p.Delays[i]
			return append(targetFields(d.Target), field{keyDelayMS, intValue(d.MS)})
		})
	}
	if len(p.StatusCodes) > 0 {
		sb.WriteString("&statusCode=")
		writeArray(&sb, len(p.StatusCodes), func(i int) []field {
			s := p.StatusCodes[i]
			return append(targetFields(s.Target), field{keyStatusCode, intValue(int64(s.Code))})
		})
	}
	if len(p.Timeouts) > 0 {
		sb.WriteString("&timeout=")
		writeArray(&sb, len(p.Timeouts), func(i int) []field {
			return targetFields(p.Timeouts[i].Target)
		})
	}
	if len(p.Throttles) > 0 {
		sb.WriteString("&throttle=")
		writeArray(&sb, len(p.Throttles), func(i int) []field {
			t := p.Throttles[i]
			return append(targetFields(t.Target), field{keyThrottleRate, intValue(t.Rate)})
		})
	}

	return sb.String(), nil
}

// field is one key/value pair of a rendered corruption object. The value is
// already in wire form.
type field struct {
	key   string
	value string
}

// targetFields renders the targeting selection of a corruption. An unset
// target contributes no field (sparse objects, not null values).
func targetFields(t corruption.Target) []field {
	switch t.Mode {
	case corruption.TargetAll:
		return []field{{keyIndex, "*"}}
	case corruption.TargetIndex:
		return []field{{keyIndex, intValue(t.Value)}}
	case corruption.TargetSequence:
		return []field{{keySequence, intValue(t.Value)}}
	case corruption.TargetRelativeSequence:
		return []field{{keyRelativeSequence, intValue(t.Value)}}
	case corruption.TargetBitrate:
		return []field{{keyBitrate, intValue(t.Value)}}
	case corruption.TargetLadder:
		return []field{{keyLadder, intValue(t.Value)}}
	default:
		return nil
	}
}

// writeArray renders [{...},{...}] with comma separation and no whitespace
func writeArray(sb *strings.Builder, n int, objectAt func(int) []field) {
	sb.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteByte(',')
		}
		writeObject(sb, objectAt(i))
	}
	sb.WriteByte(']')
}

// writeObject renders {k:v,k:v} with unquoted keys
func writeObject(sb *strings.Builder, fields []field) {
	sb.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(f.key)
		sb.WriteByte(':')
		sb.WriteString(f.value)
	}
	sb.WriteByte('}')
}

func intValue(v int64) string {
	return strconv.FormatInt(v, 10)
}
