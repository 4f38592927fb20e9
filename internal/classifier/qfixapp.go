package classifier

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/field"
	"github.com/quickfixgo/fix44/executionreport"
	"github.com/quickfixgo/fix44/newordermultileg"
	"github.com/quickfixgo/quickfix"
	"github.com/quickfixgo/tag"
	"github.com/robaho/go-combinations/pkg/common"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// BusinessRejectReason (380) Other, the text carries the cause
const rejectOther = 0

// FIXApp is a quickfix acceptor application classifying NewOrderMultileg legs. Classified
// orders are acknowledged with an ExecutionReport whose Text is the combination name.
type FIXApp struct {
	*quickfix.MessageRouter
	service            *Service
	log                zerolog.Logger
	rejectUnclassified bool
	sessionIDs         sync.Map
	nextOrder          int64
	send               func(m quickfix.Messagable, sessionID quickfix.SessionID) error
}

// NewFIXApp creates the application, when rejectUnclassified is set orders whose legs do not
// form a known combination are answered with a business reject
func NewFIXApp(service *Service, rejectUnclassified bool, log zerolog.Logger) *FIXApp {
	app := &FIXApp{
		MessageRouter:      quickfix.NewMessageRouter(),
		service:            service,
		log:                log.With().Str("component", "fix").Logger(),
		rejectUnclassified: rejectUnclassified,
		send:               quickfix.SendToTarget,
	}
	app.AddRoute(newordermultileg.Route(app.onNewOrderMultileg))
	return app
}

func (app *FIXApp) OnCreate(sessionID quickfix.SessionID) {
}

func (app *FIXApp) OnLogon(sessionID quickfix.SessionID) {
	app.sessionIDs.Store(sessionID.String(), sessionID)
	app.log.Info().Str("session", sessionID.String()).Strs("sessions", app.ListSessions()).Msg("logon")
}

func (app *FIXApp) OnLogout(sessionID quickfix.SessionID) {
	app.sessionIDs.Delete(sessionID.String())
	app.log.Info().Str("session", sessionID.String()).Strs("sessions", app.ListSessions()).Msg("logout")
}

func (app *FIXApp) ToAdmin(message *quickfix.Message, sessionID quickfix.SessionID) {
}

func (app *FIXApp) ToApp(message *quickfix.Message, sessionID quickfix.SessionID) error {
	return nil
}

func (app *FIXApp) FromAdmin(message *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	return nil
}

func (app *FIXApp) FromApp(message *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	return app.Route(message, sessionID)
}

func (app *FIXApp) ListSessions() []string {
	var s []string
	app.sessionIDs.Range(func(key, value any) bool {
		s = append(s, key.(string))
		return true
	})
	return s
}

func (app *FIXApp) onNewOrderMultileg(msg newordermultileg.NewOrderMultileg, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	clOrdId, err := msg.GetClOrdID()
	if err != nil {
		return err
	}
	side, err := msg.GetSide()
	if err != nil {
		return err
	}
	group, err := msg.GetNoLegs()
	if err != nil {
		return err
	}
	legs := make([]common.LegFields, 0, group.Len())
	for i := 0; i < group.Len(); i++ {
		legs = append(legs, group.Get(i))
	}

	return app.process(clOrdId, side, legs, sessionID)
}

// process classifies the legs of one order, the returned reject is sent back on the session
func (app *FIXApp) process(clOrdId string, side enum.Side, legs []common.LegFields, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	r, err := app.classifyLegs(legs)
	if err != nil {
		app.log.Warn().Str("session", sessionID.String()).Str("clOrdID", clOrdId).Err(err).Msg("bad legs")
		if app.service.metrics != nil {
			app.service.metrics.Rejects.WithLabelValues("legs").Inc()
		}
		ref := tag.NoLegs
		return quickfix.NewBusinessMessageRejectErrorWithRefID(err.Error(), rejectOther, clOrdId, &ref)
	}

	app.log.Info().
		Str("session", sessionID.String()).
		Str("clOrdID", clOrdId).
		Str("pattern", r.Name).
		Ints("order", r.Order).
		Msg("multileg order")

	if !r.Classified() && app.rejectUnclassified {
		if app.service.metrics != nil {
			app.service.metrics.Rejects.WithLabelValues("unclassified").Inc()
		}
		return quickfix.NewBusinessMessageRejectErrorWithRefID("unclassified leg combination", rejectOther, clOrdId, nil)
	}

	if err := app.send(app.accepted(clOrdId, side, r), sessionID); err != nil {
		app.log.Error().Str("session", sessionID.String()).Str("clOrdID", clOrdId).Err(err).Msg("unable to send execution report")
	}
	return nil
}

// accepted builds the acknowledgement of a classified order
func (app *FIXApp) accepted(clOrdId string, side enum.Side, r Result) executionreport.ExecutionReport {
	id := strconv.FormatInt(atomic.AddInt64(&app.nextOrder, 1), 10)

	msg := executionreport.New(field.NewOrderID(id),
		field.NewExecID(id),
		field.NewExecType(enum.ExecType_NEW),
		field.NewOrdStatus(enum.OrdStatus_NEW),
		field.NewSide(side),
		field.NewLeavesQty(decimal.Zero, 4),
		field.NewCumQty(decimal.Zero, 4),
		field.NewAvgPx(decimal.Zero, 4))
	msg.SetClOrdID(clOrdId)
	msg.SetText(r.Name)
	return msg
}

func (app *FIXApp) classifyLegs(legs []common.LegFields) (Result, error) {
	components := make([]common.Component, 0, len(legs))
	for i, leg := range legs {
		c, err := common.ComponentFromFIXLeg(leg)
		if err != nil {
			return Result{}, errors.Wrapf(err, "leg %d", i+1)
		}
		components = append(components, c)
	}
	return app.service.Classify(components), nil
}
