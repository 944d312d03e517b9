//go:build linux || freebsd || openbsd || netbsd || dragonfly

package source

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	portalDest   = "org.freedesktop.portal.Desktop"
	portalPath   = "/org/freedesktop/portal/desktop"
	portalMethod = "org.freedesktop.portal.Screenshot.Screenshot"
	portalSignal = "org.freedesktop.portal.Request.Response"
)

func (p Portal) Load(ctx context.Context) (image.Image, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("dbus connect: %w", err)
	}
	defer conn.Close()

	obj := conn.Object(portalDest, portalPath)
	var handle dbus.ObjectPath
	call := obj.CallWithContext(ctx, portalMethod, 0, "", portalOptions(p.Interactive))
	if call.Err != nil {
		return nil, fmt.Errorf("portal screenshot call: %w", call.Err)
	}
	if err := call.Store(&handle); err != nil {
		return nil, fmt.Errorf("portal screenshot response: %w", err)
	}

	sigc := make(chan *dbus.Signal, 1)
	conn.Signal(sigc)
	rule := fmt.Sprintf("type='signal',interface='org.freedesktop.portal.Request',member='Response',path='%s'", handle)
	if err := conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, rule).Err; err != nil {
		return nil, fmt.Errorf("portal screenshot subscribe: %w", err)
	}
	defer conn.BusObject().Call("org.freedesktop.DBus.RemoveMatch", 0, rule)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case sig, ok := <-sigc:
			if !ok {
				return nil, fmt.Errorf("portal screenshot: bus closed")
			}
			if sig.Path != handle || sig.Name != portalSignal {
				continue
			}
			path, err := portalResult(sig.Body)
			if err != nil {
				return nil, err
			}
			return loadAndRemove(ctx, path)
		}
	}
}

// portalResult extracts the file path from a Response signal body of
// (response code, results).
func portalResult(body []any) (string, error) {
	if len(body) < 2 {
		return "", fmt.Errorf("portal screenshot: short response")
	}
	if code, ok := body[0].(uint32); ok && code != 0 {
		return "", fmt.Errorf("portal screenshot: %w (response %d)", ErrNoImage, code)
	}
	res, ok := body[1].(map[string]dbus.Variant)
	if !ok {
		return "", fmt.Errorf("portal screenshot: unexpected results")
	}
	v, ok := res["uri"]
	if !ok {
		return "", fmt.Errorf("portal screenshot: response missing image data")
	}
	s, ok := v.Value().(string)
	if !ok {
		return "", fmt.Errorf("portal screenshot: uri is not a string")
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("portal screenshot uri: %w", err)
	}
	return u.Path, nil
}

func portalOptions(interactive bool) map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"interactive":  dbus.MakeVariant(interactive),
		"modal":        dbus.MakeVariant(interactive),
		"handle_token": dbus.MakeVariant(fmt.Sprintf("retouch%d", time.Now().UnixNano())),
	}
}

func loadAndRemove(ctx context.Context, path string) (image.Image, error) {
	defer func() {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("remove %s: %v", path, err)
		}
	}()
	return File{Path: path}.Load(ctx)
}
