package call

import "context"

// MediaDevices abstracts the platform's capture capability check and the
// permission prompt. Acquire is invoked exactly once per device-check; the
// returned stream is scoped to the call and is always stopped on every exit
// path, so no path leaks an open device handle.
type MediaDevices interface {
	// Supported reports whether real-time capture is available at all.
	// When false the call machine short-circuits to unsupported without
	// ever attempting to join.
	Supported() bool

	// Acquire prompts for microphone and camera access. A partial grant
	// is not an error: the stream reports each device independently.
	Acquire(ctx context.Context) (MediaStream, error)
}

// MediaStream is an acquired capture handle.
type MediaStream interface {
	AudioGranted() bool
	VideoGranted() bool

	// Stop releases the underlying devices. Idempotent.
	Stop()
}
