// Package notify turns editor events into desktop notifications.
package notify

import (
	"fmt"
	"log"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/example/retouch/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventSave fires when the edited image is written.
	EventSave Event = "save"
	// EventCopy fires when the image is copied to the clipboard.
	EventCopy Event = "copy"
	// EventError fires when a background job fails.
	EventError Event = "error"
)

// Preferences describes notification text.
type Preferences struct {
	Title  string
	Events map[Event]string
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "Retouch",
		Events: map[Event]string{
			EventSave:  "Saved %s",
			EventCopy:  "Copied %s to clipboard",
			EventError: "Failed: %s",
		},
	}
}

type envPrefs struct {
	Title     string `envconfig:"NOTIFY_TITLE"`
	SaveText  string `envconfig:"NOTIFY_SAVE_TEXT"`
	CopyText  string `envconfig:"NOTIFY_COPY_TEXT"`
	ErrorText string `envconfig:"NOTIFY_ERROR_TEXT"`
}

// LoadPreferences applies RETOUCH_NOTIFY_* environment overrides to the
// defaults.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	var env envPrefs
	if err := envconfig.Process("RETOUCH", &env); err != nil {
		log.Printf("notification preferences: %v", err)
		return prefs
	}
	if v := strings.TrimSpace(env.Title); v != "" {
		prefs.Title = v
	}
	for event, v := range map[Event]string{EventSave: env.SaveText, EventCopy: env.CopyText, EventError: env.ErrorText} {
		if v = strings.TrimSpace(v); v != "" {
			prefs.Events[event] = v
		}
	}
	return prefs
}

// Sender delivers one notification.
type Sender func(title, body string, opts platform.Options) error

// Notifier sends OS-level notifications for enabled events.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    Sender
}

// New creates a Notifier using the platform sender.
func New(prefs Preferences) *Notifier {
	return &Notifier{
		prefs:   Preferences{Title: prefs.Title, Events: maps.Clone(prefs.Events)},
		enabled: make(map[Event]bool),
		send:    platform.Notify,
	}
}

// WithSender replaces the delivery function.
func (n *Notifier) WithSender(s Sender) *Notifier {
	n.send = s
	return n
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Save announces a written file.
func (n *Notifier) Save(path string) {
	if !n.enabledFor(EventSave) {
		return
	}
	detail := strings.TrimSpace(path)
	opts := platform.Options{}
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if _, err := os.Stat(abs); err == nil {
			opts.IconPath = abs
		}
	}
	n.dispatch(EventSave, detail, opts)
}

// Copy announces a clipboard copy.
func (n *Notifier) Copy(detail string) {
	if strings.TrimSpace(detail) == "" {
		detail = "image"
	}
	n.dispatch(EventCopy, detail, platform.Options{})
}

// Error announces a failure.
func (n *Notifier) Error(err error) {
	if err == nil {
		return
	}
	n.dispatch(EventError, err.Error(), platform.Options{Urgent: true})
}

func (n *Notifier) enabledFor(event Event) bool {
	return n != nil && n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	if !n.enabledFor(event) {
		return
	}
	template := strings.TrimSpace(n.prefs.Events[event])
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if err := n.send(n.prefs.Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}
