package common

import (
	"testing"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/quickfix"
	"github.com/quickfixgo/tag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLeg map[quickfix.Tag]string

func (l testLeg) Has(t quickfix.Tag) bool {
	_, ok := l[t]
	return ok
}

func (l testLeg) GetString(t quickfix.Tag) (string, quickfix.MessageRejectError) {
	v, ok := l[t]
	if !ok {
		return "", quickfix.ConditionallyRequiredFieldMissing(t)
	}
	return v, nil
}

func TestComponentFromFIXLeg(t *testing.T) {
	leg := testLeg{
		tag.LegCFICode:      "OCXXXX",
		tag.LegRatioQty:     "2",
		tag.LegSide:         string(enum.Side_SELL),
		tag.LegStrikePrice:  "105.5",
		tag.LegMaturityDate: "20240119",
	}
	c, err := ComponentFromFIXLeg(leg)
	require.NoError(t, err)

	expected, _ := ParseComponent("C -2 105.5 2024-01-19")
	assert.True(t, expected.Equal(c), c.String())
}

func TestComponentFromFIXLegDefaults(t *testing.T) {
	leg := testLeg{
		tag.LegCFICode:      "FXXXXX",
		tag.LegMaturityDate: "20240315",
	}
	c, err := ComponentFromFIXLeg(leg)
	require.NoError(t, err)
	assert.Equal(t, "F 1 2024-03-15", c.String())
}

func TestComponentFromFIXLegErrors(t *testing.T) {
	_, err := ComponentFromFIXLeg(testLeg{tag.LegCFICode: "DBXXXX", tag.LegMaturityDate: "20240315"})
	assert.ErrorIs(t, err, UnknownInstrument)

	_, err = ComponentFromFIXLeg(testLeg{tag.LegCFICode: "OPXXXX", tag.LegMaturityDate: "20240315"})
	assert.ErrorContains(t, err, "LegStrikePrice")

	_, err = ComponentFromFIXLeg(testLeg{tag.LegCFICode: "OPXXXX", tag.LegStrikePrice: "100"})
	assert.ErrorContains(t, err, "LegMaturityDate")

	_, err = ComponentFromFIXLeg(testLeg{tag.LegCFICode: "EXXXXX", tag.LegMaturityDate: "2024-03-15"})
	assert.ErrorIs(t, err, InvalidComponent)
}

func TestCFICodes(t *testing.T) {
	for _, typ := range []InstrumentType{Call, Put, Option, Future, Underlying} {
		assert.Equal(t, typ, MapFromCFICode(MapToCFICode(typ)))
	}
	assert.Equal(t, Option, MapFromCFICode("OMXXXX"))
	assert.Equal(t, Unknown, MapFromCFICode(""))
	assert.Equal(t, -1, RatioSign(enum.Side_SELL_SHORT))
	assert.Equal(t, 1, RatioSign(enum.Side_BUY))
}
