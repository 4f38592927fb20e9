package connector

import (
	"testing"
	"time"

	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/field"
	"github.com/quickfixgo/fix44/businessmessagereject"
	"github.com/quickfixgo/fix44/executionreport"
	"github.com/quickfixgo/quickfix"
	"github.com/robaho/go-combinations/pkg/common"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegsRoundTrip(t *testing.T) {
	components, err := common.ParseComponents([]string{
		"C -2 100 2024-01-19",
		"P 1 95.5 2024-02-16",
		"F 3 2024-03-15",
		"U -1 2024-01-19",
	})
	require.NoError(t, err)

	legs := newLegs(components)
	require.Equal(t, len(components), legs.Len())
	for i := range components {
		c, err := common.ComponentFromFIXLeg(legs.Get(i))
		require.NoError(t, err)
		assert.True(t, components[i].Equal(c), "%s != %s", components[i], c)
	}

	side, _ := legs.Get(0).GetLegSide()
	assert.Equal(t, string(enum.Side_SELL), string(side))
	side, _ = legs.Get(1).GetLegSide()
	assert.Equal(t, string(enum.Side_BUY), string(side))
}

type replyRecord struct {
	clOrdID  string
	accepted bool
	text     string
}

func TestReplies(t *testing.T) {
	var replies []replyRecord
	c := NewConnector("nosuch", func(clOrdID string, accepted bool, text string) {
		replies = append(replies, replyRecord{clOrdID, accepted, text})
	}, zerolog.Nop())
	app := newApplication(c)

	er := executionreport.New(field.NewOrderID("1"),
		field.NewExecID("1"),
		field.NewExecType(enum.ExecType_NEW),
		field.NewOrdStatus(enum.OrdStatus_NEW),
		field.NewSide(enum.Side_AS_DEFINED),
		field.NewLeavesQty(decimal.Zero, 4),
		field.NewCumQty(decimal.Zero, 4),
		field.NewAvgPx(decimal.Zero, 4))
	er.SetClOrdID("7")
	er.SetText("Straddle")
	assert.Nil(t, app.onExecutionReport(er, c.sessionID))

	rej := businessmessagereject.New(field.NewRefMsgType(string(enum.MsgType_NEW_ORDER_MULTILEG)), field.NewBusinessRejectReason(enum.BusinessRejectReason_OTHER))
	rej.SetBusinessRejectRefID("8")
	rej.SetText("unclassified leg combination")
	assert.Nil(t, app.onBusinessMessageReject(rej, c.sessionID))

	assert.Equal(t, []replyRecord{
		{"7", true, "Straddle"},
		{"8", false, "unclassified leg combination"},
	}, replies)
}

func TestNewOrderMultileg(t *testing.T) {
	_, err := NewOrderMultileg("1", nil)
	assert.ErrorIs(t, err, NoLegs)

	components, err := common.ParseComponents([]string{"C 1 100 2024-01-19", "P 1 100 2024-01-19"})
	require.NoError(t, err)
	msg, err := NewOrderMultileg("7", components)
	require.NoError(t, err)
	id, rej := msg.GetClOrdID()
	require.Nil(t, rej)
	assert.Equal(t, "7", id)
}

func TestNotConnected(t *testing.T) {
	c := NewConnector("nosuch", nil, zerolog.Nop())
	assert.False(t, c.IsConnected())

	_, err := c.Send(nil)
	assert.ErrorIs(t, err, NotConnected)
	assert.ErrorIs(t, c.Disconnect(), NotConnected)
	assert.Error(t, c.Connect(time.Second))
}

func TestGetSession(t *testing.T) {
	_, err := getSession(map[quickfix.SessionID]*quickfix.SessionSettings{})
	assert.Error(t, err)

	id := quickfix.SessionID{BeginString: "FIX.4.4", SenderCompID: "CLIENT", TargetCompID: "COMBOS"}
	s, err := getSession(map[quickfix.SessionID]*quickfix.SessionSettings{id: quickfix.NewSessionSettings()})
	require.NoError(t, err)
	assert.Equal(t, id, s)
}

func TestStatusBool(t *testing.T) {
	var sb statusBool
	assert.False(t, sb.IsTrue())
	assert.False(t, sb.WaitForTrue(10*time.Millisecond))

	go func() {
		time.Sleep(50 * time.Millisecond)
		sb.SetTrue()
	}()
	assert.True(t, sb.WaitForTrue(2*time.Second))
	sb.SetFalse()
	assert.False(t, sb.IsTrue())
}
