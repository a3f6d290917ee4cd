package domain

import "fmt"

// Protocol identifies the manifest format a configuration targets.
type Protocol string

// Supported streaming protocols
const (
	ProtocolHLS  Protocol = "hls"
	ProtocolDASH Protocol = "dash"
)

// ParseProtocol converts a protocol token into a Protocol.
// Only "hls" and "dash" are accepted.
func ParseProtocol(s string) (Protocol, error) {
	switch Protocol(s) {
	case ProtocolHLS:
		return ProtocolHLS, nil
	case ProtocolDASH:
		return ProtocolDASH, nil
	default:
		return "", fmt.Errorf("unknown protocol %q (expected hls or dash)", s)
	}
}

// ManifestExtension returns the manifest filename extension for a protocol
func (p Protocol) ManifestExtension() string {
	if p == ProtocolDASH {
		return ".mpd"
	}
	return ".m3u8"
}

// ProtocolForExtension maps a manifest filename extension to its protocol.
// The extension must include the leading dot.
func ProtocolForExtension(ext string) (Protocol, bool) {
	switch ext {
	case ".m3u8":
		return ProtocolHLS, true
	case ".mpd":
		return ProtocolDASH, true
	default:
		return "", false
	}
}

// StreamType distinguishes live streams from video-on-demand assets.
type StreamType string

// Supported stream types
const (
	StreamTypeLive StreamType = "live"
	StreamTypeVOD  StreamType = "vod"
)

// ParseStreamType converts a stream type token into a StreamType.
// The empty string defaults to live.
func ParseStreamType(s string) (StreamType, error) {
	switch StreamType(s) {
	case "":
		return StreamTypeLive, nil
	case StreamTypeLive:
		return StreamTypeLive, nil
	case StreamTypeVOD:
		return StreamTypeVOD, nil
	default:
		return "", fmt.Errorf("unknown stream type %q (expected live or vod)", s)
	}
}
