package input

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(typ, code uint16, value int32) []byte {
	buf := make([]byte, eventSize)
	binary.LittleEndian.PutUint16(buf[16:18], typ)
	binary.LittleEndian.PutUint16(buf[18:20], code)
	binary.LittleEndian.PutUint32(buf[20:24], uint32(value))
	return buf
}

func stream(events ...[]byte) io.Reader {
	return bytes.NewReader(bytes.Join(events, nil))
}

func TestRead_CountsPressesOnly(t *testing.T) {
	c := NewWithDevices(nil, nil, nil)

	c.read(stream(
		event(evKey, 30, keyPress),
		event(evKey, 30, 0),
		event(evKey, 30, 2),
		event(evKey, 14, keyPress),
		event(evKey, btnLeft, keyPress),
		event(evKey, btnLeft+1, keyPress),
		event(evKey, 0x130, keyPress),
		event(0x02, 0, 5),
	), "test")

	result, err := c.Capture(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "input", result.Source)
	assert.Equal(t, "2", result.Metadata["keystrokes"])
	assert.Equal(t, "2", result.Metadata["mouse_clicks"])

	result, err = c.Capture(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0", result.Metadata["keystrokes"], "capture resets the counts")
	assert.Equal(t, "0", result.Metadata["mouse_clicks"])
}

func TestRead_StopsOnTruncatedEvent(t *testing.T) {
	c := NewWithDevices(nil, nil, nil)
	full := event(evKey, 30, keyPress)

	c.read(bytes.NewReader(append(full, full[:10]...)), "test")

	assert.EqualValues(t, 1, c.keystrokes.Load())
}

func TestStartAndAvailable(t *testing.T) {
	missing := func(string) (io.ReadCloser, error) { return nil, errors.New("permission denied") }
	c := NewWithDevices([]string{"/dev/input/event3"}, missing, nil)

	assert.False(t, c.Available())
	assert.ErrorIs(t, c.Start(context.Background()), ErrNoDevices)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	open := func(string) (io.ReadCloser, error) {
		return io.NopCloser(stream(event(evKey, 30, keyPress))), nil
	}
	c = NewWithDevices([]string{"/dev/input/event3"}, open, nil)

	assert.True(t, c.Available())
	require.NoError(t, c.Start(ctx))
	assert.Eventually(t, func() bool { return c.keystrokes.Load() == 1 }, time.Second, 10*time.Millisecond)
}

const procDevices = `I: Bus=0011 Vendor=0001 Product=0001 Version=ab41
N: Name="AT Translated Set 2 keyboard"
H: Handlers=sysrq kbd leds event3
B: EV=120013

I: Bus=0019 Vendor=0000 Product=0001 Version=0000
N: Name="Power Button"
H: Handlers=kbd event1
B: EV=3

I: Bus=0003 Vendor=046d Product=c52b Version=0111
N: Name="Logitech USB Receiver Mouse"
H: Handlers=mouse0 event7
B: EV=17
`

func TestParseDevices(t *testing.T) {
	assert.Equal(t, []string{"/dev/input/event3", "/dev/input/event7"}, parseDevices(strings.NewReader(procDevices)))
	assert.Empty(t, parseDevices(strings.NewReader("")))
}
