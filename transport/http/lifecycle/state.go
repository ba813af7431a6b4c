package lifecycle

import "sync/atomic"

type ServerState int32

const (
	ServerStateStarting ServerState = iota
	ServerStateReady
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

func (s ServerState) String() string {
	switch s {
	case ServerStateReady:
		return "ready"
	case ServerStateInGracePeriod:
		return "grace_period"
	case ServerStateInCleanupPeriod:
		return "cleanup_period"
	default:
		return "starting"
	}
}

// State is the server lifecycle shared by the server, the shutdown guard and the health check.
type State struct {
	value atomic.Int32
}

func NewState() *State {
	return &State{}
}

func (s *State) Set(state ServerState) {
	s.value.Store(int32(state))
}

func (s *State) Get() ServerState {
	return ServerState(s.value.Load())
}

// ShuttingDown reports whether the server has entered its grace or cleanup period.
func (s *State) ShuttingDown() bool {
	return s.Get() >= ServerStateInGracePeriod
}
