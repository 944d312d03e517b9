//go:build darwin

package platform

import (
	"fmt"
	"os/exec"
)

// Notify shows a Notification Center banner through osascript. Failures
// play the alert sound.
func Notify(title, body string, opts Options) error {
	script := fmt.Sprintf("display notification %q with title %q subtitle %q", body, AppName, title)
	if opts.Urgent {
		script += ` sound name "Basso"`
	}
	if out, err := exec.Command("osascript", "-e", script).CombinedOutput(); err != nil {
		return fmt.Errorf("osascript: %w: %s", err, out)
	}
	return nil
}
