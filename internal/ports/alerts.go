package ports

// Notifier shows desktop notifications.
// This is a driven port (implemented by adapters). Implementations must
// return quickly; slow delivery happens in the background.
type Notifier interface {
	// Notify displays a notification with the given title and body.
	Notify(title, body string) error

	// RequestPermission checks that notifications can be delivered.
	RequestPermission() error
}

// Chime plays the short audible cue at the start of a break.
// This is a driven port (implemented by adapters). Play must not block.
type Chime interface {
	Play()
}
