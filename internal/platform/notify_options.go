package platform

// AppName is reported to the host notification service.
const AppName = "Retouch"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file shown with the
	// notification where supported.
	IconPath string
	// Urgent raises the priority, used for failures.
	Urgent bool
}
