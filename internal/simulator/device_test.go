package simulator

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amzn/robotiq-gripper-interface/modbus"
)

func newTestDevice(t *testing.T, opts ...Option) (*Device, net.Conn) {
	t.Helper()

	d, conn := Pipe(opts...)
	t.Cleanup(func() {
		_ = conn.Close()
		_ = d.Close()
	})

	return d, conn
}

// roundTrip writes a hex request and reads a response of n bytes.
func roundTrip(t *testing.T, conn net.Conn, req string, n int) string {
	t.Helper()

	_, err := conn.Write(modbus.MustHexToBytes(req))
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	buf := make([]byte, n)
	_, err = io.ReadFull(conn, buf)
	require.NoError(t, err)

	return modbus.BytesToHex(buf)
}

func TestDevice_ActivateAndMove(t *testing.T) {
	d, conn := newTestDevice(t, WithActivationPolls(1), WithMotionStep(100))

	assert.Equal(t, modbus.PresetAck, roundTrip(t, conn, modbus.ActivateRequest, 8))
	assert.True(t, d.Activated())

	// activation completes on the first poll
	assert.Equal(t, modbus.FeedbackResponse(0x31, 0, 0, 0, 0),
		roundTrip(t, conn, modbus.ReadFeedbackRequest, 11))

	req, err := modbus.PositionRequest(200)
	require.NoError(t, err)
	assert.Equal(t, modbus.PresetAck, roundTrip(t, conn, req, 8))

	assert.Equal(t, modbus.FeedbackResponse(0x39, 0, 200, 100, movingCurrent),
		roundTrip(t, conn, modbus.ReadFeedbackRequest, 11))
	assert.Equal(t, modbus.FeedbackResponse(0xF9, 0, 200, 200, 0),
		roundTrip(t, conn, modbus.ReadFeedbackRequest, 11))
	assert.Equal(t, uint8(200), d.Position())

	assert.Equal(t, modbus.PresetAck, roundTrip(t, conn, modbus.ResetRequest, 8))
	assert.False(t, d.Activated())

	assert.Equal(t, []string{
		modbus.ActivateRequest, modbus.ReadFeedbackRequest, req,
		modbus.ReadFeedbackRequest, modbus.ReadFeedbackRequest, modbus.ResetRequest,
	}, d.Requests())
}

func TestDevice_LineFeed(t *testing.T) {
	_, conn := newTestDevice(t, WithLineFeed(true))

	frame := append(modbus.MustHexToBytes(modbus.ResetRequest), '\n')
	_, err := conn.Write(frame)
	require.NoError(t, err)

	buf := make([]byte, 9)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, err = io.ReadFull(conn, buf)
	require.NoError(t, err)
	assert.Equal(t, modbus.PresetAck, modbus.BytesToHex(buf[:8]))
	assert.Equal(t, byte('\n'), buf[8])
}

func TestDevice_IgnoresBadCRC(t *testing.T) {
	d, conn := newTestDevice(t)

	bad := modbus.MustHexToBytes(modbus.ResetRequest)
	bad[len(bad)-1] ^= 0xFF
	_, err := conn.Write(bad)
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(50*time.Millisecond)))
	_, err = conn.Read(make([]byte, 1))
	require.Error(t, err)
	assert.Len(t, d.Requests(), 1)
}

func TestDevice_Mute(t *testing.T) {
	d, conn := newTestDevice(t)
	d.SetMute(true)

	_, err := conn.Write(modbus.MustHexToBytes(modbus.ReadFeedbackRequest))
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(50*time.Millisecond)))
	_, err = conn.Read(make([]byte, 1))
	var netErr net.Error
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
}
