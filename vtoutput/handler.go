// Package vtoutput implements the terminal's output-mode VT100 parser:
// it wraps github.com/danielgatis/go-ansicode's byte-level decoder and
// satisfies its Handler interface, translating CSI/ESC/OSC sequences
// into mutations of a screen.Buffer.
package vtoutput

import (
	"encoding/base64"
	"fmt"
	"image/color"
	"io"

	"github.com/danielgatis/go-ansicode"
	"github.com/kagenti/tuicore/screen"
)

var _ ansicode.Handler = (*Handler)(nil)

// Hyperlink is the active OSC 8 hyperlink applied to subsequently
// written cells.
type Hyperlink struct {
	ID  string
	URI string
}

// Option configures a Handler at construction time.
type Option func(*Handler)

// WithBell installs a BellProvider.
func WithBell(p BellProvider) Option { return func(h *Handler) { h.bell = p } }

// WithTitle installs a TitleProvider.
func WithTitle(p TitleProvider) Option { return func(h *Handler) { h.title = p } }

// WithClipboard installs a ClipboardProvider.
func WithClipboard(p ClipboardProvider) Option { return func(h *Handler) { h.clipboard = p } }

// WithScrollback installs a ScrollbackProvider, consulted whenever a
// line feed scrolls a line off the top of the primary screen (CSI S
// scrolling does not push to it).
func WithScrollback(p ScrollbackProvider) Option { return func(h *Handler) { h.scrollback = p } }

// WithRecording installs a RecordingProvider that observes every byte
// fed to Write.
func WithRecording(p RecordingProvider) Option { return func(h *Handler) { h.recording = p } }

// WithResponseWriter sets where DSR/OSC query responses are written.
// Typically the write side of the PTY.
func WithResponseWriter(w io.Writer) Option { return func(h *Handler) { h.response = w } }

// Handler holds the state a VT100 byte stream mutates: two screen
// buffers (primary and alternate), the active one's cursor and mode
// bits live inside it, plus the session-level state
// (title, clipboard, keyboard protocol stack) that doesn't belong to
// the grid itself.
type Handler struct {
	primary   *screen.Buffer
	alternate *screen.Buffer
	active    *screen.Buffer

	modes Modes

	scrollTop    int
	scrollBottom int

	charsets      [4]ansicode.Charset
	activeCharset int

	savedOriginMode bool
	savedCharset    int
	savedCharsets   [4]ansicode.Charset

	colors          map[int]color.Color
	keyboardModes   []ansicode.KeyboardMode
	modifyOtherKeys ansicode.ModifyOtherKeys

	titleText  string
	titleStack []string

	currentHyperlink *Hyperlink

	bell       BellProvider
	title      TitleProvider
	clipboard  ClipboardProvider
	scrollback ScrollbackProvider
	recording  RecordingProvider
	response   io.Writer

	decoder *ansicode.Decoder
}

// New creates a Handler driving a rows x cols screen, applies opts, and
// wires an ansicode.Decoder to dispatch onto it. Unconfigured providers
// default to no-ops, matching the teacher's NoopX convention.
func New(rows, cols int, opts ...Option) *Handler {
	h := &Handler{
		primary:   screen.New(screen.Size{Rows: rows, Cols: cols}),
		alternate: screen.New(screen.Size{Rows: rows, Cols: cols}),

		scrollTop:    0,
		scrollBottom: rows,

		colors: make(map[int]color.Color),

		bell:       NoopBell{},
		title:      NoopTitle{},
		clipboard:  NoopClipboard{},
		scrollback: NoopScrollback{},
		recording:  NoopRecording{},
	}
	h.active = h.primary

	for _, opt := range opts {
		opt(h)
	}

	h.decoder = ansicode.NewDecoder(h)
	return h
}

// Write feeds bytes from the PTY's stdout into the decoder, applying
// their effect to the active buffer.
func (h *Handler) Write(p []byte) (int, error) {
	h.recording.Record(p)
	return h.decoder.Write(p)
}

// Buffer returns the currently active screen buffer (primary, or
// alternate if the alternate screen is in use).
func (h *Handler) Buffer() *screen.Buffer { return h.active }

// IsAlternateScreen reports whether the alternate screen is active.
func (h *Handler) IsAlternateScreen() bool { return h.active == h.alternate }

// Resize changes both buffers' size and clamps the scroll region.
func (h *Handler) Resize(rows, cols int) {
	h.primary.Resize(screen.Size{Rows: rows, Cols: cols})
	h.alternate.Resize(screen.Size{Rows: rows, Cols: cols})
	h.scrollBottom = rows
}

func (h *Handler) writeResponse(s string) {
	if h.response != nil {
		io.WriteString(h.response, s)
	}
}

func (h *Handler) effectiveRow(row int) int {
	if h.active.HasMode(screen.ModeOrigin) {
		return row + h.scrollTop
	}
	return row
}

// --- ansicode.Handler: character input -------------------------------

// Input writes r at the cursor, handling auto-wrap, insert mode, and
// wide-character spacing. Zero-width combining marks are dropped: a
// single-rune-per-cell grid has nowhere to attach them.
func (h *Handler) Input(r rune) {
	buf := h.active
	cur := buf.Cursor()

	if h.activeCharset >= 0 && h.activeCharset < 4 && h.charsets[h.activeCharset] != 0 {
		r = translateLineDrawing(r)
	}

	width := screen.RuneWidth(r)
	if width == 0 {
		return
	}

	size := buf.Size()
	if cur.Col+width > size.Cols {
		if buf.HasMode(screen.ModeAutoWrap) {
			buf.SetPendingWrap(false)
			h.lineFeedInternal()
			buf.SetCursor(screen.Position{Row: buf.Cursor().Row, Col: 0})
			cur = buf.Cursor()
		} else if width == 2 {
			return
		} else {
			cur.Col = size.Cols - 1
			buf.SetCursor(cur)
		}
	}

	if h.active.HasMode(screen.ModeInsert) {
		buf.InsertBlanks(cur.Row, cur.Col, width)
	}

	style := buf.CurrentStyle()
	buf.SetCursor(screen.Position{Row: cur.Row, Col: cur.Col})
	w := buf.WriteRune(r, style)
	if w == 0 {
		w = width
	}

	next := screen.Position{Row: cur.Row, Col: cur.Col + w}
	if next.Col >= size.Cols {
		if buf.HasMode(screen.ModeAutoWrap) {
			next.Col = size.Cols
			buf.SetCursor(next)
			buf.SetPendingWrap(true)
			return
		}
		next.Col = size.Cols - 1
	}
	buf.SetCursor(next)
}

func translateLineDrawing(r rune) rune {
	switch r {
	case 'j':
		return '┘'
	case 'k':
		return '┐'
	case 'l':
		return '┌'
	case 'm':
		return '└'
	case 'n':
		return '┼'
	case 'q':
		return '─'
	case 't':
		return '├'
	case 'u':
		return '┤'
	case 'v':
		return '┴'
	case 'w':
		return '┬'
	case 'x':
		return '│'
	default:
		return r
	}
}

// Backspace moves the cursor one column left, stopping at column 0.
func (h *Handler) Backspace() {
	cur := h.active.Cursor()
	if cur.Col > 0 {
		cur.Col--
		h.active.SetCursor(cur)
	}
	h.active.SetPendingWrap(false)
}

// CarriageReturn moves the cursor to column 0.
func (h *Handler) CarriageReturn() {
	cur := h.active.Cursor()
	cur.Col = 0
	h.active.SetCursor(cur)
	h.active.SetPendingWrap(false)
}

// LineFeed moves the cursor down a row, scrolling within the scroll
// region if already at its bottom. When the primary screen scrolls with
// the region starting at row 0, the line scrolled off the top is pushed
// to the scrollback provider.
func (h *Handler) LineFeed() { h.lineFeedInternal() }

func (h *Handler) lineFeedInternal() {
	cur := h.active.Cursor()
	if cur.Row == h.scrollBottom-1 {
		if h.active == h.primary && h.scrollTop == 0 {
			h.scrollback.Push(h.active.LineText(h.scrollTop))
		}
		h.active.SetScrollRegion(screen.Region{Top: h.scrollTop, Bottom: h.scrollBottom - 1})
		h.active.ScrollUp(1)
	} else if cur.Row < h.active.Size().Rows-1 {
		cur.Row++
		h.active.SetCursor(cur)
	}
	h.active.SetPendingWrap(false)
}

// Bell rings the configured BellProvider.
func (h *Handler) Bell() { h.bell.Ring() }

// Substitute replaces the cell at the cursor with '?'.
func (h *Handler) Substitute() {
	cur := h.active.Cursor()
	h.active.SetCursor(cur)
	h.active.WriteRune('?', h.active.CurrentStyle())
}

// --- ansicode.Handler: cursor motion ----------------------------------

func (h *Handler) Goto(row, col int) {
	h.active.SetCursor(screen.Position{Row: h.effectiveRow(row), Col: col})
	h.active.SetPendingWrap(false)
}

func (h *Handler) GotoCol(col int) {
	cur := h.active.Cursor()
	cur.Col = col
	h.active.SetCursor(cur)
	h.active.SetPendingWrap(false)
}

func (h *Handler) GotoLine(row int) {
	cur := h.active.Cursor()
	cur.Row = h.effectiveRow(row)
	h.active.SetCursor(cur)
	h.active.SetPendingWrap(false)
}

func (h *Handler) MoveForward(n int)  { h.moveCol(n) }
func (h *Handler) MoveBackward(n int) { h.moveCol(-n) }

func (h *Handler) moveCol(delta int) {
	cur := h.active.Cursor()
	cur.Col += delta
	h.active.SetCursor(cur)
	h.active.SetPendingWrap(false)
}

func (h *Handler) MoveUp(n int)   { h.moveRow(-n, false) }
func (h *Handler) MoveDown(n int) { h.moveRow(n, false) }

func (h *Handler) MoveUpCr(n int)   { h.moveRow(-n, true) }
func (h *Handler) MoveDownCr(n int) { h.moveRow(n, true) }

func (h *Handler) moveRow(delta int, cr bool) {
	cur := h.active.Cursor()
	inRegion := cur.Row >= h.scrollTop && cur.Row < h.scrollBottom
	cur.Row += delta
	if inRegion {
		if cur.Row < h.scrollTop {
			cur.Row = h.scrollTop
		}
		if cur.Row > h.scrollBottom-1 {
			cur.Row = h.scrollBottom - 1
		}
	}
	if cr {
		cur.Col = 0
	}
	h.active.SetCursor(cur)
	h.active.SetPendingWrap(false)
}

func (h *Handler) MoveForwardTabs(n int) {
	cur := h.active.Cursor()
	for i := 0; i < n; i++ {
		cur.Col = h.active.NextTabStop(cur.Col)
	}
	h.active.SetCursor(cur)
}

func (h *Handler) MoveBackwardTabs(n int) {
	cur := h.active.Cursor()
	for i := 0; i < n; i++ {
		cur.Col = h.active.PrevTabStop(cur.Col)
	}
	h.active.SetCursor(cur)
}

func (h *Handler) Tab(n int) { h.MoveForwardTabs(n) }

func (h *Handler) HorizontalTabSet() {
	h.active.SetTabStop(h.active.Cursor().Col)
}

func (h *Handler) ClearTabs(mode ansicode.TabulationClearMode) {
	switch mode {
	case ansicode.TabulationClearModeCurrent:
		h.active.ClearTabStop(h.active.Cursor().Col)
	case ansicode.TabulationClearModeAll:
		h.active.ClearAllTabStops()
	}
}

// --- ansicode.Handler: erasing -----------------------------------------

func (h *Handler) ClearLine(mode ansicode.LineClearMode) {
	cur := h.active.Cursor()
	size := h.active.Size()
	switch mode {
	case ansicode.LineClearModeRight:
		h.active.ClearRegion(cur.Row, cur.Col, size.Cols)
	case ansicode.LineClearModeLeft:
		h.active.ClearRegion(cur.Row, 0, cur.Col+1)
	case ansicode.LineClearModeAll:
		h.active.ClearRow(cur.Row)
	}
}

func (h *Handler) ClearScreen(mode ansicode.ClearMode) {
	cur := h.active.Cursor()
	size := h.active.Size()
	switch mode {
	case ansicode.ClearModeBelow:
		h.active.ClearRegion(cur.Row, cur.Col, size.Cols)
		for r := cur.Row + 1; r < size.Rows; r++ {
			h.active.ClearRow(r)
		}
	case ansicode.ClearModeAbove:
		for r := 0; r < cur.Row; r++ {
			h.active.ClearRow(r)
		}
		h.active.ClearRegion(cur.Row, 0, cur.Col+1)
	case ansicode.ClearModeAll, ansicode.ClearModeSaved:
		h.active.Clear()
	}
}

func (h *Handler) EraseChars(n int) {
	cur := h.active.Cursor()
	h.active.EraseChars(cur.Row, cur.Col, n)
}

func (h *Handler) DeleteChars(n int) {
	cur := h.active.Cursor()
	h.active.DeleteChars(cur.Row, cur.Col, n)
}

func (h *Handler) InsertBlank(n int) {
	cur := h.active.Cursor()
	h.active.InsertBlanks(cur.Row, cur.Col, n)
}

func (h *Handler) Decaln() { h.active.FillWithE() }

// --- ansicode.Handler: line/region operations --------------------------

func (h *Handler) InsertBlankLines(n int) {
	cur := h.active.Cursor()
	if cur.Row >= h.scrollTop && cur.Row < h.scrollBottom {
		h.active.InsertLines(cur.Row, n, h.scrollBottom-1)
	}
}

func (h *Handler) DeleteLines(n int) {
	cur := h.active.Cursor()
	if cur.Row >= h.scrollTop && cur.Row < h.scrollBottom {
		h.active.DeleteLines(cur.Row, n, h.scrollBottom-1)
	}
}

func (h *Handler) ScrollUp(n int) {
	h.active.SetScrollRegion(screen.Region{Top: h.scrollTop, Bottom: h.scrollBottom - 1})
	h.active.ScrollUp(n)
}

func (h *Handler) ScrollDown(n int) {
	h.active.SetScrollRegion(screen.Region{Top: h.scrollTop, Bottom: h.scrollBottom - 1})
	h.active.ScrollDown(n)
}

func (h *Handler) ReverseIndex() {
	cur := h.active.Cursor()
	if cur.Row == h.scrollTop {
		h.active.SetScrollRegion(screen.Region{Top: h.scrollTop, Bottom: h.scrollBottom - 1})
		h.active.ScrollDown(1)
	} else if cur.Row > 0 {
		cur.Row--
		h.active.SetCursor(cur)
	}
}

// SetScrollingRegion sets the DECSTBM scroll region (1-based inclusive
// on the wire, stored 0-based half-open) and homes the cursor.
func (h *Handler) SetScrollingRegion(top, bottom int) {
	top--
	rows := h.active.Size().Rows
	if top < 0 {
		top = 0
	}
	if bottom <= 0 || bottom > rows {
		bottom = rows
	}
	if top >= bottom {
		return
	}
	h.scrollTop = top
	h.scrollBottom = bottom

	var cur screen.Position
	if h.active.HasMode(screen.ModeOrigin) {
		cur.Row = h.scrollTop
	}
	h.active.SetCursor(cur)
}

// --- ansicode.Handler: cursor save/restore ------------------------------

func (h *Handler) SaveCursorPosition() {
	h.active.SaveCursor()
	h.savedOriginMode = h.active.HasMode(screen.ModeOrigin)
	h.savedCharset = h.activeCharset
	h.savedCharsets = h.charsets
}

func (h *Handler) RestoreCursorPosition() {
	h.active.RestoreCursor()
	h.active.SetMode(screen.ModeOrigin, h.savedOriginMode)
	h.activeCharset = h.savedCharset
	h.charsets = h.savedCharsets
}

// --- ansicode.Handler: charset -------------------------------------------

func (h *Handler) ConfigureCharset(index ansicode.CharsetIndex, charset ansicode.Charset) {
	i := int(index)
	if i >= 0 && i < 4 {
		h.charsets[i] = charset
	}
}

func (h *Handler) SetActiveCharset(n int) {
	if n >= 0 && n < 4 {
		h.activeCharset = n
	}
}

// --- ansicode.Handler: modes ----------------------------------------------

func (h *Handler) SetMode(mode ansicode.TerminalMode)   { h.setMode(mode, true) }
func (h *Handler) UnsetMode(mode ansicode.TerminalMode) { h.setMode(mode, false) }

func (h *Handler) setMode(mode ansicode.TerminalMode, set bool) {
	switch mode {
	case ansicode.TerminalModeCursorKeys:
		h.setBit(ModeCursorKeys, set)
	case ansicode.TerminalModeColumnMode:
		h.setBit(ModeColumnMode, set)
	case ansicode.TerminalModeInsert:
		h.active.SetMode(screen.ModeInsert, set)
	case ansicode.TerminalModeOrigin:
		h.active.SetMode(screen.ModeOrigin, set)
		if set {
			h.active.SetCursor(screen.Position{Row: h.scrollTop, Col: 0})
		}
	case ansicode.TerminalModeLineWrap:
		h.active.SetMode(screen.ModeAutoWrap, set)
	case ansicode.TerminalModeBlinkingCursor:
		h.setBit(ModeBlinkingCursor, set)
	case ansicode.TerminalModeLineFeedNewLine:
		h.setBit(ModeLineFeedNewLine, set)
	case ansicode.TerminalModeShowCursor:
		h.active.SetMode(screen.ModeCursorVisible, set)
	case ansicode.TerminalModeReportMouseClicks:
		h.setBit(ModeReportMouseClicks, set)
		h.active.SetMode(screen.ModeMouseTracking, set)
	case ansicode.TerminalModeReportCellMouseMotion:
		h.setBit(ModeReportCellMouseMotion, set)
	case ansicode.TerminalModeReportAllMouseMotion:
		h.setBit(ModeReportAllMouseMotion, set)
	case ansicode.TerminalModeReportFocusInOut:
		h.setBit(ModeReportFocusInOut, set)
		h.active.SetMode(screen.ModeFocusReporting, set)
	case ansicode.TerminalModeUTF8Mouse:
		h.setBit(ModeUTF8Mouse, set)
	case ansicode.TerminalModeSGRMouse:
		h.setBit(ModeSGRMouse, set)
	case ansicode.TerminalModeAlternateScroll:
		h.setBit(ModeAlternateScroll, set)
	case ansicode.TerminalModeUrgencyHints:
		h.setBit(ModeUrgencyHints, set)
	case ansicode.TerminalModeSwapScreenAndSetRestoreCursor:
		h.setBit(ModeSwapScreenAndSetRestoreCursor, set)
		if set {
			h.SaveCursorPosition()
			h.active = h.alternate
			h.active.Clear()
		} else {
			h.active = h.primary
			h.RestoreCursorPosition()
		}
	case ansicode.TerminalModeBracketedPaste:
		h.setBit(ModeBracketedPaste, set)
		h.active.SetMode(screen.ModeBracketedPaste, set)
	}
}

func (h *Handler) setBit(mask Modes, set bool) {
	if set {
		h.modes |= mask
	} else {
		h.modes &^= mask
	}
}

func (h *Handler) SetKeypadApplicationMode()   { h.setBit(ModeKeypadApplication, true) }
func (h *Handler) UnsetKeypadApplicationMode() { h.setBit(ModeKeypadApplication, false) }

// --- ansicode.Handler: SGR -------------------------------------------------

func (h *Handler) SetTerminalCharAttribute(attr ansicode.TerminalCharAttribute) {
	style := h.active.CurrentStyle()

	switch attr.Attr {
	case ansicode.CharAttributeReset:
		style = screen.Style{}
	case ansicode.CharAttributeBold:
		style.Attrs |= screen.AttrBold
	case ansicode.CharAttributeDim:
		style.Attrs |= screen.AttrDim
	case ansicode.CharAttributeItalic:
		style.Attrs |= screen.AttrItalic
	case ansicode.CharAttributeUnderline:
		style.Attrs |= screen.AttrUnderline
	case ansicode.CharAttributeBlinkSlow:
		style.Attrs |= screen.AttrBlinkSlow
	case ansicode.CharAttributeBlinkFast:
		style.Attrs |= screen.AttrBlinkRapid
	case ansicode.CharAttributeReverse:
		style.Attrs |= screen.AttrReverse
	case ansicode.CharAttributeHidden:
		style.Attrs |= screen.AttrHidden
	case ansicode.CharAttributeStrike:
		style.Attrs |= screen.AttrStrikethrough
	case ansicode.CharAttributeCancelBold:
		style.Attrs &^= screen.AttrBold
	case ansicode.CharAttributeCancelBoldDim:
		style.Attrs &^= screen.AttrBold | screen.AttrDim
	case ansicode.CharAttributeCancelItalic:
		style.Attrs &^= screen.AttrItalic
	case ansicode.CharAttributeCancelUnderline:
		style.Attrs &^= screen.AttrUnderline
	case ansicode.CharAttributeCancelBlink:
		style.Attrs &^= screen.AttrBlinkSlow | screen.AttrBlinkRapid
	case ansicode.CharAttributeCancelReverse:
		style.Attrs &^= screen.AttrReverse
	case ansicode.CharAttributeCancelHidden:
		style.Attrs &^= screen.AttrHidden
	case ansicode.CharAttributeCancelStrike:
		style.Attrs &^= screen.AttrStrikethrough
	case ansicode.CharAttributeForeground:
		style.Fg = h.resolveColor(attr, true)
	case ansicode.CharAttributeBackground:
		style.Bg = h.resolveColor(attr, false)
	}

	h.active.SetCurrentStyle(style)
}

func (h *Handler) resolveColor(attr ansicode.TerminalCharAttribute, fg bool) color.Color {
	if attr.RGBColor != nil {
		return color.RGBA{R: attr.RGBColor.R, G: attr.RGBColor.G, B: attr.RGBColor.B, A: 255}
	}
	if attr.IndexedColor != nil {
		return &screen.IndexedColor{Index: int(attr.IndexedColor.Index)}
	}
	if attr.NamedColor != nil {
		return &screen.NamedColor{Name: int(*attr.NamedColor)}
	}
	if fg {
		return &screen.NamedColor{Name: screen.NamedForeground}
	}
	return &screen.NamedColor{Name: screen.NamedBackground}
}

func (h *Handler) ResetState() {
	h.active.Clear()
	h.active.SetMode(screen.ModeAutoWrap, true)
	h.active.SetMode(screen.ModeCursorVisible, true)
	h.active.SetCurrentStyle(screen.Style{})
	h.scrollTop = 0
	h.scrollBottom = h.active.Size().Rows
	h.charsets = [4]ansicode.Charset{}
	h.activeCharset = 0
	h.colors = make(map[int]color.Color)
	h.keyboardModes = nil
	h.currentHyperlink = nil
}

func (h *Handler) SetCursorStyle(style ansicode.CursorStyle) {
	// Cursor rendering style is a display concern the buffer doesn't
	// model; the sequence is accepted and the style is discarded.
	_ = style
}

// --- ansicode.Handler: color management ------------------------------------

func (h *Handler) SetColor(index int, c color.Color) { h.colors[index] = c }
func (h *Handler) ResetColor(index int)              { delete(h.colors, index) }

func (h *Handler) SetDynamicColor(prefix string, index int, terminator string) {
	if c, ok := h.colors[index]; ok {
		rgba := screen.ResolveRGBA(c, true)
		h.writeResponse(fmt.Sprintf("\x1b]%s;rgb:%02x/%02x/%02x%s", prefix, rgba.R, rgba.G, rgba.B, terminator))
		return
	}
	if index >= 0 && index < 256 {
		rgba := screen.DefaultPalette[index]
		h.writeResponse(fmt.Sprintf("\x1b]%s;rgb:%02x/%02x/%02x%s", prefix, rgba.R, rgba.G, rgba.B, terminator))
	}
}

// --- ansicode.Handler: hyperlinks, title, clipboard ------------------------

func (h *Handler) SetHyperlink(link *ansicode.Hyperlink) {
	if link == nil {
		h.currentHyperlink = nil
		return
	}
	h.currentHyperlink = &Hyperlink{ID: link.ID, URI: link.URI}
}

func (h *Handler) SetTitle(t string) {
	h.titleText = t
	h.title.SetTitle(t)
}

func (h *Handler) PushTitle() {
	h.titleStack = append(h.titleStack, h.titleText)
	h.title.PushTitle()
}

func (h *Handler) PopTitle() {
	if len(h.titleStack) > 0 {
		h.titleText = h.titleStack[len(h.titleStack)-1]
		h.titleStack = h.titleStack[:len(h.titleStack)-1]
	}
	h.title.PopTitle()
}

func (h *Handler) ClipboardLoad(clipboard byte, terminator string) {
	content := h.clipboard.Read(clipboard)
	if content == "" {
		return
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(content))
	h.writeResponse("\x1b]52;" + string(clipboard) + ";" + encoded + terminator)
}

func (h *Handler) ClipboardStore(clipboard byte, data []byte) {
	h.clipboard.Write(clipboard, data)
}

// --- ansicode.Handler: keyboard protocol ------------------------------------

func (h *Handler) PushKeyboardMode(mode ansicode.KeyboardMode) {
	h.keyboardModes = append(h.keyboardModes, mode)
}

func (h *Handler) PopKeyboardMode(n int) {
	for i := 0; i < n && len(h.keyboardModes) > 0; i++ {
		h.keyboardModes = h.keyboardModes[:len(h.keyboardModes)-1]
	}
}

func (h *Handler) SetKeyboardMode(mode ansicode.KeyboardMode, behavior ansicode.KeyboardModeBehavior) {
	current := ansicode.KeyboardModeNoMode
	if len(h.keyboardModes) > 0 {
		current = h.keyboardModes[len(h.keyboardModes)-1]
	}
	var next ansicode.KeyboardMode
	switch behavior {
	case ansicode.KeyboardModeBehaviorReplace:
		next = mode
	case ansicode.KeyboardModeBehaviorUnion:
		next = current | mode
	case ansicode.KeyboardModeBehaviorDifference:
		next = current &^ mode
	}
	if len(h.keyboardModes) > 0 {
		h.keyboardModes[len(h.keyboardModes)-1] = next
	} else {
		h.keyboardModes = append(h.keyboardModes, next)
	}
}

func (h *Handler) ReportKeyboardMode() {
	var mode ansicode.KeyboardMode
	if len(h.keyboardModes) > 0 {
		mode = h.keyboardModes[len(h.keyboardModes)-1]
	}
	h.writeResponse(fmt.Sprintf("\x1b[?%du", mode))
}

func (h *Handler) SetModifyOtherKeys(modify ansicode.ModifyOtherKeys) { h.modifyOtherKeys = modify }

func (h *Handler) ReportModifyOtherKeys() {
	h.writeResponse(fmt.Sprintf("\x1b[>4;%dm", h.modifyOtherKeys))
}

// --- ansicode.Handler: device/status reports --------------------------------

func (h *Handler) DeviceStatus(n int) {
	switch n {
	case 5:
		h.writeResponse("\x1b[0n")
	case 6:
		cur := h.active.Cursor()
		h.writeResponse(fmt.Sprintf("\x1b[%d;%dR", cur.Row+1, cur.Col+1))
	}
}

func (h *Handler) IdentifyTerminal(b byte) {
	_ = b
	h.writeResponse("\x1b[?62;c")
}

func (h *Handler) TextAreaSizeChars() {
	size := h.active.Size()
	h.writeResponse(fmt.Sprintf("\x1b[8;%d;%dt", size.Rows, size.Cols))
}

func (h *Handler) TextAreaSizePixels() {
	size := h.active.Size()
	h.writeResponse(fmt.Sprintf("\x1b[4;%d;%dt", size.Rows*20, size.Cols*10))
}

func (h *Handler) CellSizePixels() {
	h.writeResponse("\x1b[6;20;10t")
}

// --- ansicode.Handler: sequences this runtime does not model ----------------
//
// Kitty/Sixel graphics, shell-integration (OSC 133), and semantic-prompt
// tracking have no owning component in this terminal core (see the
// domain stack's dependency table); these handlers accept and discard
// their input rather than leaving the Handler interface unsatisfied.

func (h *Handler) ApplicationCommandReceived(data []byte)  {}
func (h *Handler) PrivacyMessageReceived(data []byte)      {}
func (h *Handler) StartOfStringReceived(data []byte)       {}
func (h *Handler) SixelReceived(params [][]uint16, data []byte) {}
func (h *Handler) SetWorkingDirectory(uri string)          {}
