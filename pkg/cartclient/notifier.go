package cartclient

// Notifier is the user-facing notification surface (toasts in the web UI,
// plain lines in the CLI). Failures here are never fatal.
type Notifier interface {
	Success(message string)
	Error(message string)
}

type noopNotifier struct{}

func (noopNotifier) Success(string) {}
func (noopNotifier) Error(string)   {}
