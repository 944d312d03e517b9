//go:build !linux && !darwin && !windows

package platform

// Notify drops the notice; there is no desktop service to reach.
func Notify(string, string, Options) error { return nil }
