// Package capture defines the window/screen capture collaborators the
// provider role consumes. Enumeration and pixel acquisition live in
// platform backends behind these interfaces.
package capture

import "github.com/pion/webrtc/v4"

// Device is one enumerable capture source.
type Device struct {
	ID   string
	Name string
}

// Stream is an acquired capture stream exposed as a local WebRTC track.
type Stream interface {
	Track() *webrtc.TrackLocalStaticSample
	Close() error
}

// Service enumerates capture devices and acquires streams from them.
type Service interface {
	Devices() ([]Device, error)
	CreateStream(device Device) (Stream, error)
}
