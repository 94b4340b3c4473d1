package engine

// State names a stage in the per-event pipeline. States are advisory:
// they drive debug logging and let surfaces report where an event died,
// they do not gate transitions.
type State int

const (
	StateReceived State = iota
	StateFingerprinted
	StateCacheHit
	StateCacheMiss
	StateContextResolved
	StateAnalyzed
	StateCached
	StateDone
	StateFailed
)

var stateNames = map[State]string{
	StateReceived:        "RECEIVED",
	StateFingerprinted:   "FINGERPRINTED",
	StateCacheHit:        "CACHE_HIT",
	StateCacheMiss:       "CACHE_MISS",
	StateContextResolved: "CONTEXT_RESOLVED",
	StateAnalyzed:        "ANALYZED",
	StateCached:          "CACHED",
	StateDone:            "DONE",
	StateFailed:          "FAILED",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}
