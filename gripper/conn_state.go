package gripper

import "sync/atomic"

type ConnState uint32

const (
	DisconnectedState ConnState = iota
	ConnectedState
)

func (s ConnState) String() string {
	switch s {
	case DisconnectedState:
		return "Disconnected"
	case ConnectedState:
		return "Connected"
	default:
		return "Unknown"
	}
}

// atomicConnState lets IsConnected be read while another goroutine holds
// the session lock for a blocking command.
type atomicConnState struct {
	state atomic.Uint32
}

func (st *atomicConnState) Get() ConnState {
	return ConnState(st.state.Load())
}

func (st *atomicConnState) Set(state ConnState) {
	st.state.Store(uint32(state))
}

func (st *atomicConnState) IsConnected() bool {
	return st.Get() == ConnectedState
}
