package connector

import (
	"github.com/quickfixgo/fix44/businessmessagereject"
	"github.com/quickfixgo/fix44/executionreport"
	"github.com/quickfixgo/quickfix"
)

type application struct {
	*quickfix.MessageRouter
	c *Connector
}

func newApplication(c *Connector) *application {
	app := &application{MessageRouter: quickfix.NewMessageRouter(), c: c}
	app.AddRoute(businessmessagereject.Route(app.onBusinessMessageReject))
	app.AddRoute(executionreport.Route(app.onExecutionReport))
	return app
}

func (app *application) OnCreate(sessionID quickfix.SessionID) {
}

func (app *application) OnLogon(sessionID quickfix.SessionID) {
	if sessionID == app.c.sessionID {
		app.c.log.Info().Str("session", sessionID.String()).Msg("logged in")
		app.c.loggedIn.SetTrue()
	}
}

func (app *application) OnLogout(sessionID quickfix.SessionID) {
	if sessionID == app.c.sessionID {
		app.c.log.Info().Str("session", sessionID.String()).Msg("logged out")
		app.c.loggedIn.SetFalse()
	}
}

func (app *application) ToAdmin(message *quickfix.Message, sessionID quickfix.SessionID) {
}

func (app *application) ToApp(message *quickfix.Message, sessionID quickfix.SessionID) error {
	return nil
}

func (app *application) FromAdmin(message *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	return nil
}

func (app *application) FromApp(message *quickfix.Message, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	err := app.Route(message, sessionID)
	if err != nil {
		app.c.log.Warn().Err(err).Msg("error processing message")
	}
	return err
}

func (app *application) onBusinessMessageReject(msg businessmessagereject.BusinessMessageReject, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	// the reference and text are optional
	clOrdID, _ := msg.GetBusinessRejectRefID()
	text, _ := msg.GetText()

	app.c.log.Info().Str("clOrdID", clOrdID).Str("text", text).Msg("order rejected")
	app.reply(clOrdID, false, text)
	return nil
}

func (app *application) onExecutionReport(msg executionreport.ExecutionReport, sessionID quickfix.SessionID) quickfix.MessageRejectError {
	clOrdID, _ := msg.GetClOrdID()
	text, _ := msg.GetText()

	app.c.log.Info().Str("clOrdID", clOrdID).Str("pattern", text).Msg("order accepted")
	app.reply(clOrdID, true, text)
	return nil
}

func (app *application) reply(clOrdID string, accepted bool, text string) {
	if app.c.onReply != nil {
		app.c.onReply(clOrdID, accepted, text)
	}
}
