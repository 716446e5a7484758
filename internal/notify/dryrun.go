package notify

import (
	"fmt"
	"io"
	"os"
)

// DryRunNotifier prints what would be sent without delivering anything.
type DryRunNotifier struct {
	out io.Writer
}

// NewDryRunNotifier creates a dry-run notifier writing to stdout.
func NewDryRunNotifier() *DryRunNotifier {
	return &DryRunNotifier{out: os.Stdout}
}

// Name implements Notifier.
func (n *DryRunNotifier) Name() string { return "dry-run" }

// Notify prints the notification.
func (n *DryRunNotifier) Notify(msg Notification) error {
	fmt.Fprintf(n.out, "--- Notification ---\n%s\n\n", msg.Text())
	return nil
}
