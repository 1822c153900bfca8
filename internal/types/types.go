package types

import (
	"fmt"
	"math"
	"time"
)

const (
	OUT Position = iota
	LONG
	SHORT
	HOLD
)

const (
	Training Phase = "training"
	Testing  Phase = "testing"
)

// Position is the stance decided for a single entry. HOLD means "keep whatever
// is open" and is not a market state of its own.
type Position int

type Phase string

// Entry is one minute of market data.
type Entry struct {
	Timestamp time.Time
	Price     float64
	Volume    int64
}

type Series []Entry

func (p Position) String() string {
	switch p {
	case OUT:
		return "OUT"
	case LONG:
		return "LONG"
	case SHORT:
		return "SHORT"
	case HOLD:
		return "HOLD"
	default:
		return fmt.Sprintf("Position(%d)", int(p))
	}
}

// IsAction returns true for positions that change market exposure.
func (p Position) IsAction() bool {
	return p == LONG || p == SHORT
}

func (p Phase) String() string {
	return string(p)
}

func (e Entry) String() string {
	return fmt.Sprintf("(%s, %v, %d)", e.Timestamp.Format("01/02/2006, 1504"), e.Price, e.Volume)
}

func (s Series) Len() int {
	return len(s)
}

func (s Series) At(index int) (Entry, bool) {
	if index < 0 || index >= len(s) {
		return Entry{}, false
	}
	return s[index], true
}

// Validate checks every entry for a finite positive price, a non-negative
// volume and non-decreasing timestamps. It returns the index of the first bad
// row.
func (s Series) Validate() (int, error) {
	for i, e := range s {
		if math.IsNaN(e.Price) || math.IsInf(e.Price, 0) || e.Price <= 0 {
			return i, fmt.Errorf("price must be positive, got %v", e.Price)
		}
		if e.Volume < 0 {
			return i, fmt.Errorf("volume must be non-negative, got %d", e.Volume)
		}
		if i > 0 && e.Timestamp.Before(s[i-1].Timestamp) {
			return i, fmt.Errorf("timestamp %s is before previous entry %s", e.Timestamp.Format(time.RFC3339), s[i-1].Timestamp.Format(time.RFC3339))
		}
	}
	return -1, nil
}
