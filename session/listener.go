package session

// Listener observes session lifecycle events. Listeners receive
// immutable snapshots taken before notification, so they cannot mutate
// a session mid-teardown.
type Listener interface {
	OnStart(s Snapshot)
	OnStop(s Snapshot)
	OnExpiration(s Snapshot)
}

// ListenerFuncs adapts plain functions to the Listener interface. Nil
// fields are skipped.
type ListenerFuncs struct {
	Start      func(Snapshot)
	Stop       func(Snapshot)
	Expiration func(Snapshot)
}

func (l ListenerFuncs) OnStart(s Snapshot) {
	if l.Start != nil {
		l.Start(s)
	}
}

func (l ListenerFuncs) OnStop(s Snapshot) {
	if l.Stop != nil {
		l.Stop(s)
	}
}

func (l ListenerFuncs) OnExpiration(s Snapshot) {
	if l.Expiration != nil {
		l.Expiration(s)
	}
}
