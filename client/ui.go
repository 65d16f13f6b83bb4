package client

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"tileduel/game"
)

const (
	cellWidth  = 3
	panelX     = game.Size*cellWidth + 2
	panelWidth = 40
	noticeY    = game.Size + 1
	helpY      = game.Size + 2
)

const helpText = "arrows/hjkl move  space pick  t tile  c clear  enter submit  r reload  q quit"

// ReloadRequester asks for a full reload.
type ReloadRequester interface {
	RequestReload()
}

// UI draws the board on a tcell screen and turns keys and clicks into
// selector calls. Only the goroutine running Run touches the screen.
type UI struct {
	screen tcell.Screen
	state  *State
	sel    *Selector
	reload ReloadRequester
	env    Env

	curRow, curCol int
	notice         string
	buttons        tcell.ButtonMask
	frame          Frame
}

// NewUI returns a UI drawing state on screen. The screen must already be
// initialised.
func NewUI(screen tcell.Screen, state *State, sel *Selector, reload ReloadRequester, env Env) *UI {
	return &UI{screen: screen, state: state, sel: sel, reload: reload, env: env}
}

// Run handles events until the user quits or ctx is done. Quitting returns
// nil; the caller is expected to cancel everything else.
func (u *UI) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = u.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	u.draw()
	for {
		ev := u.screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventInterrupt:
			if ctx.Err() != nil {
				return nil
			}
		case *tcell.EventResize:
			u.screen.Sync()
			u.draw()
		case *refreshEvent:
			u.draw()
		case *noticeEvent:
			u.notice = ev.msg
			u.draw()
		case *tcell.EventKey:
			if u.handleKey(ctx, ev) {
				u.env.Log.Debug("quit requested")
				return nil
			}
			u.draw()
		case *tcell.EventMouse:
			u.handleMouse(ev)
			u.draw()
		}
	}
}

// handleKey reports true when the user asked to quit.
func (u *UI) handleKey(ctx context.Context, ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		u.moveCursor(-1, 0)
	case tcell.KeyDown:
		u.moveCursor(1, 0)
	case tcell.KeyLeft:
		u.moveCursor(0, -1)
	case tcell.KeyRight:
		u.moveCursor(0, 1)
	case tcell.KeyEnter:
		u.submit(ctx)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'k':
			u.moveCursor(-1, 0)
		case 'j':
			u.moveCursor(1, 0)
		case 'h':
			u.moveCursor(0, -1)
		case 'l':
			u.moveCursor(0, 1)
		case ' ':
			u.click(u.curRow, u.curCol)
		case 't':
			u.sel.CycleTileType()
		case 'p':
			u.sel.SetTileType(game.TilePath)
		case 'b':
			u.sel.SetTileType(game.TileBlock)
		case 'c':
			u.sel.Clear()
		case 'r':
			u.notice = "Reloading..."
			u.reload.RequestReload()
		}
	}
	return false
}

func (u *UI) handleMouse(ev *tcell.EventMouse) {
	buttons := ev.Buttons()
	pressed := buttons&tcell.Button1 != 0 && u.buttons&tcell.Button1 == 0
	u.buttons = buttons
	if !pressed {
		return
	}
	x, y := ev.Position()
	row, col := y, x/cellWidth
	if !game.InBounds(row, col) {
		return
	}
	u.curRow, u.curCol = row, col
	u.click(row, col)
}

func (u *UI) moveCursor(dr, dc int) {
	if game.InBounds(u.curRow+dr, u.curCol+dc) {
		u.curRow += dr
		u.curCol += dc
	}
}

// click fires the cell's handler from the last frame, if it has one.
func (u *UI) click(row, col int) {
	u.notice = ""
	if h := u.frame.Cells[row][col].OnClick; h != nil {
		h()
	}
}

func (u *UI) submit(ctx context.Context) {
	if !u.frame.Interactive || !u.frame.SubmitEnabled {
		return
	}
	u.notice = "Submitting..."
	go func() {
		if u.sel.Submit(ctx) {
			NewScreenSink(u.screen).Notify("")
		}
	}()
}

func (u *UI) draw() {
	u.frame = Render(u.state.View(), u.sel.Toggle)
	s := u.screen
	s.Clear()

	for r := 0; r < game.Size; r++ {
		for c := 0; c < game.Size; c++ {
			cv := u.frame.Cells[r][c]
			style := tcell.StyleDefault.Background(cv.Color).Foreground(tcell.ColorWhite)
			left, mid, right := ' ', ' ', ' '
			if cv.Selected {
				left, right = '[', ']'
			}
			if r == u.curRow && c == u.curCol {
				mid = '+'
			}
			x := c * cellWidth
			s.SetContent(x, r, left, nil, style)
			s.SetContent(x+1, r, mid, nil, style)
			s.SetContent(x+2, r, right, nil, style)
		}
	}

	plain := tcell.StyleDefault
	for i, line := range u.panel() {
		drawText(s, panelX, i, panelWidth, plain, line)
	}
	if u.notice != "" {
		drawText(s, 0, noticeY, panelX+panelWidth, plain.Foreground(tcell.ColorYellow), u.notice)
	}
	drawText(s, 0, helpY, panelX+panelWidth, plain.Dim(true), helpText)
	s.Show()
}

func (u *UI) panel() []string {
	f := u.frame
	id := f.Identity
	lines := []string{
		fmt.Sprintf("Game #%d", id.GameID),
		fmt.Sprintf("Status: %s", f.Status),
		fmt.Sprintf("P1: %s (user %d)", id.Player1Color, id.Player1ID),
	}
	if id.Player2ID != 0 {
		lines = append(lines, fmt.Sprintf("P2: %s (user %d)", id.Player2Color, id.Player2ID))
	} else {
		lines = append(lines, "P2: waiting for opponent")
	}

	switch f.Status {
	case game.StatusActive:
		turn := fmt.Sprintf("Turn: Player %d", f.Turn)
		if f.MyTurn {
			turn += " (you)"
		}
		lines = append(lines, turn)
	case game.StatusCompleted:
		switch {
		case id.WinnerID == 0:
			lines = append(lines, "Game over")
		case id.WinnerID == id.UserID:
			lines = append(lines, "You won!")
		default:
			lines = append(lines, fmt.Sprintf("Winner: user %d", id.WinnerID))
		}
	}

	lines = append(lines,
		"",
		fmt.Sprintf("Tile: %s", f.TileType),
		fmt.Sprintf("Placed: %d/%d", f.Placed, MaxSelection),
	)
	if f.Interactive && f.SubmitEnabled {
		lines = append(lines, "Submit: ready (enter)")
	} else {
		lines = append(lines, "Submit: -")
	}
	return lines
}

func drawText(s tcell.Screen, x, y, width int, style tcell.Style, text string) {
	text = runewidth.Truncate(text, width, "…")
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}
