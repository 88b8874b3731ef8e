package timeseries

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Kind identifies the representation of a Timestamp. A series must use a
// single kind for its whole lifetime; mixing kinds is a fatal error.
type Kind int

const (
	// KindNone is the zero value, used for unset timestamps.
	KindNone Kind = iota
	// KindTick is a monotonically increasing integer tick count.
	KindTick
	// KindWall is a point in civil time.
	KindWall
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindTick:
		return "tick"
	case KindWall:
		return "wall"
	default:
		return "none"
	}
}

// ErrKindMismatch is returned when two timestamps of different kinds are
// combined, or when a series receives a timestamp of a different kind than
// its existing entries.
var ErrKindMismatch = errors.New("timestamp kind mismatch")

// Timestamp is either an integer tick count or a wall-clock instant.
// The zero value is the unset timestamp.
type Timestamp struct {
	kind Kind
	tick int64
	wall time.Time
}

// Tick returns a tick-count timestamp.
func Tick(n int64) Timestamp {
	return Timestamp{kind: KindTick, tick: n}
}

// Wall returns a wall-clock timestamp. The monotonic clock reading is
// stripped so timestamps compare and hash by wall time only.
func Wall(t time.Time) Timestamp {
	return Timestamp{kind: KindWall, wall: t.Round(0)}
}

// Kind reports the representation of the timestamp.
func (ts Timestamp) Kind() Kind { return ts.kind }

// IsZero reports whether the timestamp is unset.
func (ts Timestamp) IsZero() bool { return ts.kind == KindNone }

// TickValue returns the tick count. Only meaningful for KindTick.
func (ts Timestamp) TickValue() int64 { return ts.tick }

// WallValue returns the wall-clock instant. Only meaningful for KindWall.
func (ts Timestamp) WallValue() time.Time { return ts.wall }

// Equal reports whether two timestamps have the same kind and value.
func (ts Timestamp) Equal(o Timestamp) bool {
	if ts.kind != o.kind {
		return false
	}
	switch ts.kind {
	case KindTick:
		return ts.tick == o.tick
	case KindWall:
		return ts.wall.Equal(o.wall)
	default:
		return true
	}
}

// Before reports whether ts orders strictly before o. Both timestamps must
// share the same kind; callers validate kinds before ordering.
func (ts Timestamp) Before(o Timestamp) bool {
	switch ts.kind {
	case KindTick:
		return ts.tick < o.tick
	case KindWall:
		return ts.wall.Before(o.wall)
	default:
		return false
	}
}

// Add advances the timestamp by d. Tick timestamps advance by whole seconds
// of d, mirroring a step size expressed in seconds.
func (ts Timestamp) Add(d time.Duration) Timestamp {
	switch ts.kind {
	case KindTick:
		return Tick(ts.tick + int64(d/time.Second))
	case KindWall:
		return Wall(ts.wall.Add(d))
	default:
		return ts
	}
}

// ElapsedHours returns the hour factor between prev and ts used by energy
// integration. For wall timestamps this is the elapsed calendar time in
// hours; for tick timestamps it is the raw tick difference, which the
// integration treats directly as the hour factor.
func (ts Timestamp) ElapsedHours(prev Timestamp) (float64, error) {
	if ts.kind == KindNone || ts.kind != prev.kind {
		return 0, fmt.Errorf("%w: %s vs %s", ErrKindMismatch, prev.kind, ts.kind)
	}
	switch ts.kind {
	case KindTick:
		return float64(ts.tick - prev.tick), nil
	default:
		return ts.wall.Sub(prev.wall).Hours(), nil
	}
}

type timestampJSON struct {
	Tick *int64     `json:"tick,omitempty"`
	Wall *time.Time `json:"wall,omitempty"`
}

// MarshalJSON encodes the timestamp as {"tick":n} or {"wall":"..."}.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	switch ts.kind {
	case KindTick:
		return json.Marshal(timestampJSON{Tick: &ts.tick})
	case KindWall:
		return json.Marshal(timestampJSON{Wall: &ts.wall})
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes the representation produced by MarshalJSON.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*ts = Timestamp{}
		return nil
	}
	var raw timestampJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Tick != nil:
		*ts = Tick(*raw.Tick)
	case raw.Wall != nil:
		*ts = Wall(*raw.Wall)
	default:
		*ts = Timestamp{}
	}
	return nil
}

// String formats the timestamp for logs.
func (ts Timestamp) String() string {
	switch ts.kind {
	case KindTick:
		return fmt.Sprintf("tick(%d)", ts.tick)
	case KindWall:
		return ts.wall.Format(time.RFC3339)
	default:
		return "unset"
	}
}
