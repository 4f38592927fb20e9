// Package connector is a FIX initiator submitting multileg orders to a combos acceptor.
package connector

import (
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/field"
	"github.com/quickfixgo/fix44/newordermultileg"
	"github.com/quickfixgo/quickfix"
	"github.com/robaho/go-combinations/pkg/common"
	"github.com/rs/zerolog"
)

var AlreadyConnected = errors.New("already connected")
var NotConnected = errors.New("not connected")
var ConnectionFailed = errors.New("connection failed")
var NoLegs = errors.New("order has no legs")

// ReplyCallback receives every order reply. An accepted order carries the combination name
// as text, a business reject carries the reason.
type ReplyCallback func(clOrdID string, accepted bool, text string)

type Connector struct {
	connected bool
	settings  string
	sessionID quickfix.SessionID
	initiator *quickfix.Initiator
	loggedIn  statusBool
	nextOrder int64
	onReply   ReplyCallback
	log       zerolog.Logger
}

func NewConnector(settings string, onReply ReplyCallback, log zerolog.Logger) *Connector {
	return &Connector{settings: settings, onReply: onReply, log: log.With().Str("component", "connector").Logger()}
}

func (c *Connector) IsConnected() bool {
	return c.connected
}

// Connect starts the initiator and waits up to timeout for the logon
func (c *Connector) Connect(timeout time.Duration) error {
	if c.connected {
		return AlreadyConnected
	}

	cfg, err := os.Open(c.settings)
	if err != nil {
		return errors.Wrap(err, "unable to open fix settings")
	}
	defer cfg.Close()

	appSettings, err := quickfix.ParseSettings(cfg)
	if err != nil {
		return errors.Wrap(err, "unable to parse fix settings")
	}
	c.sessionID, err = getSession(appSettings.SessionSettings())
	if err != nil {
		return err
	}

	storeFactory := quickfix.NewMemoryStoreFactory()
	useLogging, _ := appSettings.GlobalSettings().BoolSetting("Logging")
	var logFactory quickfix.LogFactory
	if useLogging {
		logFactory = quickfix.NewScreenLogFactory()
	} else {
		logFactory = quickfix.NewNullLogFactory()
	}
	initiator, err := quickfix.NewInitiator(newApplication(c), storeFactory, appSettings, logFactory)
	if err != nil {
		return err
	}
	c.initiator = initiator

	if err = initiator.Start(); err != nil {
		return err
	}
	if !c.loggedIn.WaitForTrue(timeout) {
		initiator.Stop()
		return ConnectionFailed
	}

	c.connected = true
	return nil
}

func getSession(settings map[quickfix.SessionID]*quickfix.SessionSettings) (quickfix.SessionID, error) {
	if len(settings) != 1 {
		return quickfix.SessionID{}, errors.Errorf("expected a single fix session, found %d", len(settings))
	}
	for k := range settings {
		return k, nil
	}
	panic("unreachable")
}

func (c *Connector) Disconnect() error {
	if !c.connected {
		return NotConnected
	}
	c.initiator.Stop()
	c.connected = false
	return nil
}

// Send submits the components as one NewOrderMultileg and returns its ClOrdID
func (c *Connector) Send(components []common.Component) (string, error) {
	if !c.loggedIn.IsTrue() {
		return "", NotConnected
	}
	clOrdID := strconv.FormatInt(atomic.AddInt64(&c.nextOrder, 1), 10)
	msg, err := NewOrderMultileg(clOrdID, components)
	if err != nil {
		return "", err
	}
	return clOrdID, quickfix.SendToTarget(msg, c.sessionID)
}

// NewOrderMultileg builds the order message, the leg side carries the sign of the ratio
func NewOrderMultileg(clOrdID string, components []common.Component) (newordermultileg.NewOrderMultileg, error) {
	msg := newordermultileg.New(field.NewClOrdID(clOrdID), field.NewSide(enum.Side_AS_DEFINED), field.NewTransactTime(time.Now()), field.NewOrdType(enum.OrdType_MARKET))
	if len(components) == 0 {
		return msg, NoLegs
	}
	msg.SetNoLegs(newLegs(components))
	return msg, nil
}

func newLegs(components []common.Component) newordermultileg.NoLegsRepeatingGroup {
	legs := newordermultileg.NewNoLegsRepeatingGroup()
	for i, c := range components {
		leg := legs.Add()
		leg.SetLegSymbol(strconv.Itoa(i + 1))
		leg.SetLegCFICode(common.MapToCFICode(c.Type))
		side := enum.Side_BUY
		if !c.IsLong() {
			side = enum.Side_SELL
		}
		leg.SetLegSide(string(side))
		leg.SetLegRatioQty(common.ToDecimal(c.Ratio).Abs(), 4)
		if common.IsOption(c.Type) {
			leg.SetLegStrikePrice(c.Strike, 4)
		}
		leg.SetLegMaturityDate(c.Expiration.FIXString())
	}
	return legs
}
