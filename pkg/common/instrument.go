package common

import (
	"strings"

	"github.com/robaho/fixed"
	"github.com/shopspring/decimal"
)

// Accuracy is the tolerance used for every ratio and strike comparison
const Accuracy = 1e-5

var ratioAccuracy = fixed.NewF(Accuracy)
var strikeAccuracy = decimal.NewFromFloat(Accuracy)

type InstrumentType byte

const (
	Call       InstrumentType = 'C'
	Future     InstrumentType = 'F'
	Option     InstrumentType = 'O'
	Put        InstrumentType = 'P'
	Underlying InstrumentType = 'U'
	Unknown    InstrumentType = 0
)

func (t InstrumentType) String() string {
	switch t {
	case Call:
		return "call"
	case Future:
		return "future"
	case Option:
		return "option"
	case Put:
		return "put"
	case Underlying:
		return "underlying"
	}
	return "unknown"
}

// ParseInstrumentType maps a single type character to an InstrumentType, returning Unknown
// for anything else
func ParseInstrumentType(c byte) InstrumentType {
	switch t := InstrumentType(c); t {
	case Call, Future, Option, Put, Underlying:
		return t
	}
	return Unknown
}

// IsOption reports whether the type carries a strike
func IsOption(t InstrumentType) bool {
	return t == Option || t == Put || t == Call
}

// Component is a single observed leg of a position
type Component struct {
	Type       InstrumentType
	Ratio      fixed.Fixed
	Strike     decimal.Decimal
	Expiration Date
}

func (c Component) IsLong() bool {
	return c.Ratio.Sign() > 0
}

// Equal compares type, ratio and strike within Accuracy, and the expiration by day
func (c Component) Equal(other Component) bool {
	return c.Type == other.Type &&
		EqualRatio(c.Ratio, other.Ratio) &&
		EqualStrike(c.Strike, other.Strike) &&
		c.Expiration.Equal(other.Expiration)
}

// String renders the component in the same form ParseComponent accepts
func (c Component) String() string {
	var sb strings.Builder
	sb.WriteByte(byte(c.Type))
	sb.WriteByte(' ')
	sb.WriteString(c.Ratio.String())
	if IsOption(c.Type) {
		sb.WriteByte(' ')
		sb.WriteString(c.Strike.String())
	}
	sb.WriteByte(' ')
	sb.WriteString(c.Expiration.String())
	return sb.String()
}

func EqualRatio(r1 fixed.Fixed, r2 fixed.Fixed) bool {
	return r1.Sub(r2).Abs().LessThanOrEqual(ratioAccuracy)
}

func IsZeroRatio(r fixed.Fixed) bool {
	return r.Abs().LessThanOrEqual(ratioAccuracy)
}

func EqualStrike(s1 decimal.Decimal, s2 decimal.Decimal) bool {
	return s1.Sub(s2).Abs().LessThanOrEqual(strikeAccuracy)
}
