package vtinput

import (
	"bytes"
	"strconv"
)

const (
	pasteStartSeq = "\x1b[200~"
	pasteEndSeq   = "\x1b[201~"
)

// Parser turns a stream of stdin bytes into InputEvents. It is not safe
// for concurrent use; a single goroutine (the host-stdin reader) owns it.
type Parser struct {
	buf []byte

	pasting bool
	paste   bytes.Buffer
}

// NewParser returns an empty Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Feed appends data to the parser's buffer and extracts every complete
// event it can find. pending reports whether unconsumed bytes remain
// buffered (a CSI sequence cut off mid-stream, or a bare trailing ESC
// that might be the start of one) — the caller should keep reading and
// call Feed again, or after a short quiet period call Flush to resolve a
// pending solitary ESC as the Escape key itself.
func (p *Parser) Feed(data []byte) (events []InputEvent, pending bool) {
	p.buf = append(p.buf, data...)

	for len(p.buf) > 0 {
		if p.pasting {
			if idx := bytes.Index(p.buf, []byte(pasteEndSeq)); idx >= 0 {
				p.paste.Write(p.buf[:idx])
				events = append(events, InputEvent{Kind: EventPaste, Paste: PasteEvent{Text: p.paste.String()}})
				p.paste.Reset()
				p.pasting = false
				p.buf = p.buf[idx+len(pasteEndSeq):]
				continue
			}
			// No end marker yet: buffer everything except a possible
			// partial end-marker prefix at the tail, so it isn't
			// swallowed into the paste text.
			keep := longestPrefixOverlap(p.buf, pasteEndSeq)
			p.paste.Write(p.buf[:len(p.buf)-keep])
			p.buf = p.buf[len(p.buf)-keep:]
			return events, true
		}

		if bytes.HasPrefix(p.buf, []byte(pasteStartSeq)) {
			p.pasting = true
			p.buf = p.buf[len(pasteStartSeq):]
			continue
		}

		ev, consumed, ok, incomplete := decodeOne(p.buf)
		if incomplete {
			return events, true
		}
		if !ok {
			// Unrecognized byte: drop it and continue, matching the
			// general terminal-input convention of never hard-failing
			// on a malformed sequence.
			p.buf = p.buf[1:]
			continue
		}
		events = append(events, ev)
		p.buf = p.buf[consumed:]
	}

	return events, false
}

// Flush resolves any buffered bytes that Feed left pending, used when
// the caller has waited past its ESC-disambiguation timeout with no
// further bytes arriving. A lone buffered ESC becomes the Escape key; a
// truncated CSI sequence is discarded.
func (p *Parser) Flush() []InputEvent {
	if len(p.buf) == 0 {
		return nil
	}
	defer func() { p.buf = nil }()

	if len(p.buf) == 1 && p.buf[0] == 0x1b {
		return []InputEvent{{Kind: EventKey, Key: KeyEvent{Key: KeyEscape}}}
	}
	return nil
}

// longestPrefixOverlap returns the length of the longest prefix of sep
// that occurs as a suffix of buf, used to avoid splitting a
// cross-chunk-boundary marker.
func longestPrefixOverlap(buf []byte, sep string) int {
	max := len(sep) - 1
	if max > len(buf) {
		max = len(buf)
	}
	for n := max; n > 0; n-- {
		if bytes.HasSuffix(buf, []byte(sep[:n])) {
			return n
		}
	}
	return 0
}

// decodeOne attempts to decode a single event from the front of buf.
// incomplete means buf might be a valid sequence's unfinished prefix;
// the caller should wait for more bytes rather than discard anything.
func decodeOne(buf []byte) (ev InputEvent, consumed int, ok bool, incomplete bool) {
	b := buf[0]

	switch {
	case b == 0x1b:
		return decodeEscape(buf)
	case b == 0x7f || b == 0x08:
		return InputEvent{Kind: EventKey, Key: KeyEvent{Key: KeyBackspace}}, 1, true, false
	case b == '\r':
		return InputEvent{Kind: EventKey, Key: KeyEvent{Key: KeyEnter}}, 1, true, false
	case b == '\t':
		return InputEvent{Kind: EventKey, Key: KeyEvent{Key: KeyTab}}, 1, true, false
	case b < 0x20:
		// C0 control: Ctrl+letter, where letter = b + 0x60.
		r := rune(b + 0x60)
		return InputEvent{Kind: EventKey, Key: KeyEvent{Rune: r, Modifiers: ModCtrl}}, 1, true, false
	default:
		r, size := decodeRune(buf)
		if size == 0 {
			return InputEvent{}, 0, false, true
		}
		return InputEvent{Kind: EventKey, Key: KeyEvent{Rune: r}}, size, true, false
	}
}

// decodeRune decodes one UTF-8 rune from the front of buf. It reports
// size 0 (incomplete) if buf holds fewer bytes than the lead byte
// promises, so the caller waits for the rest rather than corrupting a
// multi-byte character split across two reads.
func decodeRune(buf []byte) (rune, int) {
	b0 := buf[0]
	var need int
	switch {
	case b0&0x80 == 0:
		return rune(b0), 1
	case b0&0xE0 == 0xC0:
		need = 2
	case b0&0xF0 == 0xE0:
		need = 3
	case b0&0xF8 == 0xF0:
		need = 4
	default:
		return 0xFFFD, 1
	}
	if len(buf) < need {
		return 0, 0
	}
	r := rune(b0 & (0xFF >> uint(need+1)))
	for i := 1; i < need; i++ {
		r = r<<6 | rune(buf[i]&0x3F)
	}
	return r, need
}

// decodeEscape dispatches on the byte(s) following a leading ESC: a bare
// ESC, Alt+key (ESC followed by a printable), CSI (ESC '['), or SS3
// (ESC 'O').
func decodeEscape(buf []byte) (ev InputEvent, consumed int, ok bool, incomplete bool) {
	if len(buf) == 1 {
		return InputEvent{}, 0, false, true
	}

	switch buf[1] {
	case '[':
		return decodeCSI(buf)
	case 'O':
		return decodeSS3(buf)
	case 0x1b:
		// ESC ESC: treat the first as a standalone Escape key.
		return InputEvent{Kind: EventKey, Key: KeyEvent{Key: KeyEscape}}, 1, true, false
	default:
		r, size := decodeRune(buf[1:])
		if size == 0 {
			return InputEvent{}, 0, false, true
		}
		return InputEvent{Kind: EventKey, Key: KeyEvent{Rune: r, Modifiers: ModAlt}}, 1 + size, true, false
	}
}

func decodeSS3(buf []byte) (ev InputEvent, consumed int, ok bool, incomplete bool) {
	if len(buf) < 3 {
		return InputEvent{}, 0, false, true
	}
	key, found := ss3Key(buf[2])
	if !found {
		return InputEvent{}, 0, false, false
	}
	return InputEvent{Kind: EventKey, Key: KeyEvent{Key: key}}, 3, true, false
}

func ss3Key(final byte) (Key, bool) {
	switch final {
	case 'A':
		return KeyUp, true
	case 'B':
		return KeyDown, true
	case 'C':
		return KeyRight, true
	case 'D':
		return KeyLeft, true
	case 'H':
		return KeyHome, true
	case 'F':
		return KeyEnd, true
	case 'P':
		return KeyF1, true
	case 'Q':
		return KeyF2, true
	case 'R':
		return KeyF3, true
	case 'S':
		return KeyF4, true
	}
	return KeyUnknown, false
}

// isCSIFinal reports whether b is a terminator byte that ends a CSI
// sequence: any byte in 0x40-0x7E.
func isCSIFinal(b byte) bool { return b >= 0x40 && b <= 0x7e }

// decodeCSI decodes an ESC '[' ... sequence: cursor keys, modified
// cursor keys (ESC[1;5C), SGR mouse reports (ESC[<...M/m), and focus
// events (ESC[I / ESC[O).
func decodeCSI(buf []byte) (ev InputEvent, consumed int, ok bool, incomplete bool) {
	if len(buf) < 3 {
		return InputEvent{}, 0, false, true
	}

	body := buf[2:]
	if body[0] == '<' {
		return decodeSGRMouse(buf)
	}

	// Scan for the final byte.
	end := -1
	for i, c := range body {
		if isCSIFinal(c) {
			end = i
			break
		}
	}
	if end == -1 {
		return InputEvent{}, 0, false, true
	}

	params := string(body[:end])
	final := body[end]
	consumed = 2 + end + 1

	switch final {
	case 'I':
		return InputEvent{Kind: EventFocus, Focus: FocusEvent{Focused: true}}, consumed, true, false
	case 'O':
		return InputEvent{Kind: EventFocus, Focus: FocusEvent{Focused: false}}, consumed, true, false
	}

	firstParam := params
	mods := Modifiers(0)
	if semi := bytes.IndexByte([]byte(params), ';'); semi >= 0 {
		firstParam = params[:semi]
		if n, err := strconv.Atoi(params[semi+1:]); err == nil {
			mods = xtermModifier(n)
		}
	}

	var key Key
	var found bool
	if final == '~' {
		n, _ := strconv.Atoi(firstParam)
		key, found = tildeKey(n)
	} else {
		key, found = csiFinalKey(final)
	}
	if !found {
		return InputEvent{}, 0, false, false
	}

	return InputEvent{Kind: EventKey, Key: KeyEvent{Key: key, Modifiers: mods}}, consumed, true, false
}

func csiFinalKey(final byte) (Key, bool) {
	switch final {
	case 'A':
		return KeyUp, true
	case 'B':
		return KeyDown, true
	case 'C':
		return KeyRight, true
	case 'D':
		return KeyLeft, true
	case 'H':
		return KeyHome, true
	case 'F':
		return KeyEnd, true
	}
	return KeyUnknown, false
}

// tildeKey maps the numeric parameter of an ESC[<n>~ sequence to a Key.
func tildeKey(n int) (Key, bool) {
	switch n {
	case 1:
		return KeyHome, true
	case 2:
		return KeyInsert, true
	case 3:
		return KeyDelete, true
	case 4:
		return KeyEnd, true
	case 5:
		return KeyPageUp, true
	case 6:
		return KeyPageDown, true
	case 15:
		return KeyF5, true
	case 17:
		return KeyF6, true
	case 18:
		return KeyF7, true
	case 19:
		return KeyF8, true
	case 20:
		return KeyF9, true
	case 21:
		return KeyF10, true
	case 23:
		return KeyF11, true
	case 24:
		return KeyF12, true
	}
	return KeyUnknown, false
}

// xtermModifier converts xterm's 1-based modifier parameter (as found
// after the ';' in CSI 1;<mod><final>) to a Modifiers bitmask.
func xtermModifier(n int) Modifiers {
	n--
	var m Modifiers
	if n&1 != 0 {
		m |= ModShift
	}
	if n&2 != 0 {
		m |= ModAlt
	}
	if n&4 != 0 {
		m |= ModCtrl
	}
	return m
}

// decodeSGRMouse decodes ESC[<Cb;Cx;Cy(M|m), the SGR mouse reporting
// format, by hand-scanning the numeric fields rather than using a
// library: no dependency in this module's tree tokenizes terminal
// *input*. Modeled on the inline byte-scanning FSM gdamore/tcell uses
// for the same sequence.
func decodeSGRMouse(buf []byte) (ev InputEvent, consumed int, ok bool, incomplete bool) {
	// buf[0:2] == ESC '[', buf[2] == '<'
	i := 3
	var fields [3]int
	fieldIdx := 0
	val := 0
	haveDigit := false

	for ; i < len(buf); i++ {
		c := buf[i]
		switch {
		case c >= '0' && c <= '9':
			val = val*10 + int(c-'0')
			haveDigit = true
		case c == ';':
			if fieldIdx >= len(fields) {
				return InputEvent{}, 0, false, false
			}
			fields[fieldIdx] = val
			fieldIdx++
			val = 0
			haveDigit = false
		case c == 'M' || c == 'm':
			if haveDigit && fieldIdx < len(fields) {
				fields[fieldIdx] = val
				fieldIdx++
			}
			if fieldIdx != 3 {
				return InputEvent{}, 0, false, false
			}
			return sgrMouseEvent(fields[0], fields[1], fields[2], c == 'm'), i + 1, true, false
		default:
			return InputEvent{}, 0, false, false
		}
	}
	return InputEvent{}, 0, false, true
}

func sgrMouseEvent(cb, cx, cy int, release bool) InputEvent {
	mods := Modifiers(0)
	if cb&4 != 0 {
		mods |= ModShift
	}
	if cb&8 != 0 {
		mods |= ModAlt
	}
	if cb&16 != 0 {
		mods |= ModCtrl
	}

	button := MouseButtonNone
	action := MousePress
	switch {
	case cb&64 != 0:
		if cb&1 != 0 {
			button = MouseWheelDown
		} else {
			button = MouseWheelUp
		}
	case cb&32 != 0:
		action = MouseMotion
		button = mouseButtonFromCb(cb)
	default:
		button = mouseButtonFromCb(cb)
		if release {
			action = MouseRelease
		}
	}

	return InputEvent{
		Kind: EventMouse,
		Mouse: MouseEvent{
			Button:    button,
			Action:    action,
			Row:       cy - 1,
			Col:       cx - 1,
			Modifiers: mods,
		},
	}
}

func mouseButtonFromCb(cb int) MouseButton {
	switch cb & 3 {
	case 0:
		return MouseButtonLeft
	case 1:
		return MouseButtonMiddle
	case 2:
		return MouseButtonRight
	default:
		return MouseButtonNone
	}
}
