package common

import (
	"github.com/pkg/errors"
	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/quickfix"
	"github.com/quickfixgo/tag"
	"github.com/robaho/fixed"
	"github.com/shopspring/decimal"
)

// LegFields is the part of a FIX leg repeating group entry needed to build a Component,
// satisfied by the generated NoLegs group types
type LegFields interface {
	Has(tag quickfix.Tag) bool
	GetString(tag quickfix.Tag) (string, quickfix.MessageRejectError)
}

// MapFromCFICode maps an ISO 10962 CFI code to an instrument type
func MapFromCFICode(cfi string) InstrumentType {
	if cfi == "" {
		return Unknown
	}
	switch cfi[0] {
	case 'O':
		if len(cfi) > 1 {
			switch cfi[1] {
			case 'C':
				return Call
			case 'P':
				return Put
			}
		}
		return Option
	case 'F':
		return Future
	case 'E':
		return Underlying
	}
	return Unknown
}

func MapToCFICode(t InstrumentType) string {
	switch t {
	case Call:
		return "OC"
	case Put:
		return "OP"
	case Option:
		return "O"
	case Future:
		return "F"
	case Underlying:
		return "E"
	}
	panic("unsupported instrument type " + t.String())
}

// RatioSign is -1 for the selling sides and 1 otherwise
func RatioSign(side enum.Side) int {
	switch side {
	case enum.Side_SELL, enum.Side_SELL_SHORT, enum.Side_SELL_SHORT_EXEMPT:
		return -1
	}
	return 1
}

// ComponentFromFIXLeg builds a Component from a multileg order leg. LegRatioQty defaults to 1,
// the sign comes from LegSide.
func ComponentFromFIXLeg(leg LegFields) (Component, error) {
	var c Component

	cfi, err := getString(leg, tag.LegCFICode, "LegCFICode")
	if err != nil {
		return Component{}, err
	}
	c.Type = MapFromCFICode(cfi)
	if c.Type == Unknown {
		return Component{}, errors.Wrapf(UnknownInstrument, "CFI code %q", cfi)
	}

	ratio := decimal.NewFromInt(1)
	if leg.Has(tag.LegRatioQty) {
		s, err := getString(leg, tag.LegRatioQty, "LegRatioQty")
		if err != nil {
			return Component{}, err
		}
		if ratio, err = decimal.NewFromString(s); err != nil {
			return Component{}, errors.Wrapf(InvalidComponent, "bad LegRatioQty %q", s)
		}
	}
	if leg.Has(tag.LegSide) {
		side, err := getString(leg, tag.LegSide, "LegSide")
		if err != nil {
			return Component{}, err
		}
		if RatioSign(enum.Side(side)) < 0 {
			ratio = ratio.Neg()
		}
	}
	if c.Ratio, err = toFixed(ratio); err != nil {
		return Component{}, err
	}

	if IsOption(c.Type) {
		s, err := getString(leg, tag.LegStrikePrice, "LegStrikePrice")
		if err != nil {
			return Component{}, err
		}
		if c.Strike, err = decimal.NewFromString(s); err != nil {
			return Component{}, errors.Wrapf(InvalidComponent, "bad LegStrikePrice %q", s)
		}
	}

	maturity, err := getString(leg, tag.LegMaturityDate, "LegMaturityDate")
	if err != nil {
		return Component{}, err
	}
	if c.Expiration, err = ParseFIXDate(maturity); err != nil {
		return Component{}, errors.Wrap(InvalidComponent, err.Error())
	}
	return c, nil
}

func getString(leg LegFields, t quickfix.Tag, name string) (string, error) {
	s, rej := leg.GetString(t)
	if rej != nil {
		return "", errors.Wrap(rej, name)
	}
	return s, nil
}

func toFixed(d decimal.Decimal) (fixed.Fixed, error) {
	f, err := ParseRatio(d.String())
	if err != nil {
		return f, errors.Wrapf(InvalidComponent, "ratio %s out of range", d)
	}
	return f, nil
}
