//go:build !linux

package notify

// Send is a no-op on platforms without a session bus.
func Send(title, body string) error {
	return nil
}
