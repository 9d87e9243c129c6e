// Package input counts keystrokes and mouse clicks from Linux evdev devices.
//
// Reading /dev/input requires the user to be in the 'input' group:
//
//	sudo usermod -aG input $USER
//
// Privacy note: only counts are kept, never which key was pressed.
package input

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Atharva-Kanherkar/cadence/internal/capture"
)

// Linux input event layout (linux/input.h) on 64-bit:
// struct timeval (16 bytes), __u16 type, __u16 code, __s32 value.
const (
	eventSize = 24

	evKey    = 0x01
	keyPress = 1

	btnMisc  = 0x100 // first button code; everything below is a keyboard key
	btnLeft  = 0x110
	btnTask  = 0x117 // last mouse button code
	procList = "/proc/bus/input/devices"
)

// ErrNoDevices is returned by Start when no input device could be opened.
var ErrNoDevices = errors.New("no readable input devices")

// Counter tallies key presses and mouse button presses between captures.
type Counter struct {
	devices []string
	open    func(path string) (io.ReadCloser, error)
	logger  *zap.Logger

	keystrokes atomic.Int64
	clicks     atomic.Int64
}

// New creates a Counter over the keyboards and mice found on this system.
func New(logger *zap.Logger) *Counter {
	return NewWithDevices(findDevices(), openDevice, logger)
}

// NewWithDevices creates a Counter over the given device paths.
func NewWithDevices(devices []string, open func(string) (io.ReadCloser, error), logger *zap.Logger) *Counter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Counter{devices: devices, open: open, logger: logger.Named("input")}
}

func openDevice(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// Name returns the capturer identifier.
func (c *Counter) Name() string {
	return "input"
}

// Available reports whether at least one device can be opened.
func (c *Counter) Available() bool {
	for _, path := range c.devices {
		f, err := c.open(path)
		if err != nil {
			continue
		}
		f.Close()
		return true
	}
	return false
}

// Start opens every device and counts its events in the background until
// ctx is cancelled.
func (c *Counter) Start(ctx context.Context) error {
	opened := 0
	for _, path := range c.devices {
		f, err := c.open(path)
		if err != nil {
			c.logger.Debug("skipping input device", zap.String("device", path), zap.Error(err))
			continue
		}
		opened++
		// Closing the file unblocks the pending read.
		go func() {
			<-ctx.Done()
			f.Close()
		}()
		go c.read(f, path)
	}
	if opened == 0 {
		return ErrNoDevices
	}
	c.logger.Info("counting input events", zap.Int("devices", opened))
	return nil
}

func (c *Counter) read(r io.Reader, path string) {
	buf := make([]byte, eventSize)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			c.logger.Debug("input device closed", zap.String("device", path), zap.Error(err))
			return
		}
		c.count(buf)
	}
}

// count classifies one raw event. Only presses count; releases and
// autorepeat are ignored.
func (c *Counter) count(buf []byte) {
	typ := binary.LittleEndian.Uint16(buf[16:18])
	code := binary.LittleEndian.Uint16(buf[18:20])
	value := int32(binary.LittleEndian.Uint32(buf[20:24]))

	if typ != evKey || value != keyPress {
		return
	}
	switch {
	case code < btnMisc:
		c.keystrokes.Add(1)
	case code >= btnLeft && code <= btnTask:
		c.clicks.Add(1)
	}
}

// Capture returns the counts since the previous capture and resets them.
func (c *Counter) Capture(context.Context) (*capture.Result, error) {
	result := capture.NewResult("input")
	result.SetMetadata("keystrokes", strconv.FormatInt(c.keystrokes.Swap(0), 10))
	result.SetMetadata("mouse_clicks", strconv.FormatInt(c.clicks.Swap(0), 10))
	return result, nil
}

// findDevices lists keyboard and mouse event devices.
func findDevices() []string {
	var devices []string
	for _, pattern := range []string{"/dev/input/by-id/*-event-kbd", "/dev/input/by-id/*-event-mouse"} {
		matches, _ := filepath.Glob(pattern)
		devices = append(devices, matches...)
	}
	if len(devices) > 0 {
		return devices
	}

	f, err := os.Open(procList)
	if err != nil {
		return nil
	}
	defer f.Close()
	return parseDevices(f)
}

// parseDevices extracts the event handlers of keyboards and mice from the
// /proc/bus/input/devices format. Entries are separated by blank lines.
func parseDevices(r io.Reader) []string {
	var (
		devices []string
		handler string
		isInput bool
	)
	flush := func() {
		if handler != "" && isInput {
			devices = append(devices, handler)
		}
		handler, isInput = "", false
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "H: Handlers="):
			for _, field := range strings.Fields(strings.TrimPrefix(line, "H: Handlers=")) {
				if strings.HasPrefix(field, "event") {
					handler = "/dev/input/" + field
				}
				if strings.HasPrefix(field, "mouse") {
					isInput = true
				}
			}
		case strings.HasPrefix(line, "B: EV=120013"):
			isInput = true
		}
	}
	flush()
	return devices
}
