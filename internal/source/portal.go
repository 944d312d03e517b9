package source

// Portal asks the desktop portal for a screenshot. Interactive lets the user
// pick a region.
type Portal struct {
	Interactive bool
}

func (p Portal) Name() string { return "portal" }
