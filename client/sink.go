package client

import (
	"github.com/benbjohnson/clock"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

// Notifier shows a user-facing message.
type Notifier interface {
	Notify(msg string)
}

// Refresher asks for the board to be redrawn from the current state.
type Refresher interface {
	Refresh()
}

// Env is what every background component shares.
type Env struct {
	Log     *zap.SugaredLogger
	Clock   clock.Clock
	Metrics *Metrics
}

// refreshEvent and noticeEvent are posted to the UI's event queue so that
// only the UI goroutine touches the screen.
type refreshEvent struct{ tcell.EventTime }

type noticeEvent struct {
	tcell.EventTime
	msg string
}

// ScreenSink turns Notify and Refresh calls from any goroutine into screen
// events.
type ScreenSink struct {
	screen tcell.Screen
}

// NewScreenSink returns a sink posting to screen.
func NewScreenSink(screen tcell.Screen) *ScreenSink {
	return &ScreenSink{screen: screen}
}

// Refresh queues a redraw. Dropped if the event queue is full; a later
// refresh will catch up.
func (s *ScreenSink) Refresh() {
	ev := &refreshEvent{}
	ev.SetEventNow()
	_ = s.screen.PostEvent(ev)
}

// Notify queues a message for the notice line.
func (s *ScreenSink) Notify(msg string) {
	ev := &noticeEvent{msg: msg}
	ev.SetEventNow()
	_ = s.screen.PostEvent(ev)
}
