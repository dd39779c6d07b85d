package capture

import (
	"fmt"

	"github.com/pion/webrtc/v4"
)

// nullService is a capture backend that produces a silent video track.
// Useful on machines without a capture runtime and in tests: the
// session machinery is exercised end to end, the track just carries no
// samples.
type nullService struct{}

// NewNullService returns the sample-less capture backend.
func NewNullService() Service {
	return nullService{}
}

func (nullService) Devices() ([]Device, error) {
	return []Device{{ID: "null:0", Name: "Null test source"}}, nil
}

func (nullService) CreateStream(device Device) (Stream, error) {
	track, err := webrtc.NewTrackLocalStaticSample(
		webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeH264},
		"video",
		"panecast-"+device.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("create null track: %w", err)
	}
	return &nullStream{track: track}, nil
}

type nullStream struct {
	track *webrtc.TrackLocalStaticSample
}

func (s *nullStream) Track() *webrtc.TrackLocalStaticSample { return s.track }

func (s *nullStream) Close() error { return nil }
