package gripper

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/amzn/robotiq-gripper-interface/internal/simulator"
	"github.com/amzn/robotiq-gripper-interface/serialport"
)

const testTimeout = 50 * time.Millisecond

// pipeOpener returns an Opener handing out conn regardless of the device.
func pipeOpener(conn net.Conn) Opener {
	return func(string, int) (serialport.Port, error) {
		return conn, nil
	}
}

// newSimGripper connects a Gripper to a simulated device with the given
// scale. The device uses line-feed framing unless simOpts override it.
func newSimGripper(t *testing.T, scale Scale, simOpts []simulator.Option, opts ...Option) (*Gripper, *simulator.Device) {
	t.Helper()

	dev, conn := simulator.Pipe(append([]simulator.Option{simulator.WithLineFeed(true)}, simOpts...)...)

	cfgOpts := append([]Option{
		WithReceiveTimeout(testTimeout),
		WithSettleDelay(0),
		WithOpener(pipeOpener(conn)),
	}, opts...)
	cfg, err := NewConfig(cfgOpts...)
	require.NoError(t, err)

	g, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, g.Connect("sim", DefaultBaud, scale.Alpha, scale.Beta))

	t.Cleanup(func() {
		_ = g.Close()
		_ = dev.Close()
	})

	return g, dev
}

// unitScale is the default scale: 0 open, 1 closed.
var unitScale = Scale{Alpha: DefaultScaleAlpha, Beta: DefaultScaleBeta}

// metersScale maps a 2F-85 to finger opening in meters.
var metersScale = Scale{Alpha: -0.086, Beta: 0.086}
