//go:build linux

package platform

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	notifyDest   = "org.freedesktop.Notifications"
	notifyPath   = "/org/freedesktop/Notifications"
	notifyMethod = notifyDest + ".Notify"

	// expireMillis is how long routine notices stay up; urgent ones persist.
	expireMillis = 5000
)

// Notify posts to the session bus notification daemon.
func Notify(title, body string, opts Options) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("session bus: %w", err)
	}
	defer conn.Close()

	icon := opts.IconPath
	if icon == "" {
		icon = "image-x-generic"
	}
	hints := map[string]dbus.Variant{
		"category": dbus.MakeVariant("transfer.complete"),
	}
	timeout := int32(expireMillis)
	if opts.Urgent {
		hints["urgency"] = dbus.MakeVariant(byte(2))
		hints["category"] = dbus.MakeVariant("transfer.error")
		timeout = 0
	}
	call := conn.Object(notifyDest, notifyPath).Call(notifyMethod, 0,
		AppName, uint32(0), icon, title, body, []string{}, hints, timeout)
	if call.Err != nil {
		return fmt.Errorf("notify: %w", call.Err)
	}
	return nil
}
