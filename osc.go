package vtcore

import (
	"encoding/base64"
	"image/color"
	"log/slog"
	"strconv"
	"strings"
)

// handleOsc splits the OSC payload at the first ';' into a numeric code
// and a data string, resolves the code through the registry, and applies
// it. Query forms (data ending in "?") reply through the reply provider,
// terminated the same way the request arrived (BEL or ST).
func (q *Sequencer) handleOsc(data []byte, bellTerminated bool) {
	payload := string(data)
	code, rest := splitOscPayload(payload)
	if code < 0 {
		q.screen.logger.Debug("malformed OSC payload", slog.String("data", payload))
		return
	}

	terminator := "\x1b\\"
	if bellTerminated {
		terminator = "\a"
	}

	def := q.registry.SelectOsc(code)
	if def == nil {
		q.screen.logger.Debug("unknown OSC code", slog.Int("code", code))
		return
	}

	s := q.screen
	switch def.ID {
	case FuncSETTITLEICON, FuncSETWINTITLE:
		s.title = rest
		s.titleProv.SetTitle(rest)

	case FuncSETICON:
		// Icon-only titles are silently accepted.

	case FuncSETCOLPAL:
		q.oscColorPalette(rest, terminator)

	case FuncRCOLPAL:
		if rest == "" {
			s.palette.Reset()
			return
		}
		for _, field := range splitSemi(rest) {
			if i, err := strconv.Atoi(field); err == nil {
				s.palette.ResetIndex(i)
			}
		}

	case FuncSETCWD:
		s.workingDir = rest
		s.wdProv.SetWorkingDirectory(rest)

	case FuncHYPERLINK:
		q.oscHyperlink(rest)

	case FuncCOLORFG:
		q.oscDynamicColor(10, &s.palette.Foreground, rest, terminator)
	case FuncCOLORBG:
		q.oscDynamicColor(11, &s.palette.Background, rest, terminator)
	case FuncCOLORCURSOR:
		q.oscDynamicColor(12, &s.palette.Cursor, rest, terminator)

	case FuncRCOLORFG:
		s.palette.Foreground = DefaultForeground
	case FuncRCOLORBG:
		s.palette.Background = DefaultBackground
	case FuncRCOLORCURSOR:
		s.palette.Cursor = DefaultCursorColor

	case FuncSETFONT:
		if rest == "?" {
			s.replyf("\x1b]50;%s%s", s.font.Font(), terminator)
			return
		}
		s.font.SetFont(rest)

	case FuncSETFONTALL:
		s.replyf("\x1b]60;%s%s", s.font.Font(), terminator)

	case FuncCLIPBOARD:
		q.oscClipboard(rest, terminator)

	case FuncNOTIFY:
		// OSC 777;notify;title;body
		fields := strings.SplitN(rest, ";", 3)
		if len(fields) == 3 && fields[0] == "notify" {
			s.notify.Notify(fields[1], fields[2])
		}

	case FuncCAPTURE:
		// OSC 314;<mode>;<count>: ask the host to capture buffer lines.
		fields := splitSemi(rest)
		logical := len(fields) > 0 && fields[0] == "1"
		count := s.rows
		if len(fields) > 1 {
			if n, err := strconv.Atoi(fields[1]); err == nil && n > 0 {
				count = n
			}
		}
		s.capture.CaptureBuffer(count, logical)

	case FuncDUMPSTATE:
		s.inspectState()

	default:
		q.screen.logger.Debug("unsupported OSC", slog.Int("code", code))
	}
}

// splitOscPayload splits "code;rest". A payload without ';' is a bare
// code. Returns code -1 when the code is not numeric.
func splitOscPayload(payload string) (int, string) {
	code := payload
	rest := ""
	if i := strings.IndexByte(payload, ';'); i >= 0 {
		code = payload[:i]
		rest = payload[i+1:]
	}
	n, err := strconv.Atoi(code)
	if err != nil || n < 0 {
		return -1, ""
	}
	return n, rest
}

// oscColorPalette handles OSC 4: pairs of <index>;<spec>, where spec "?"
// queries and anything else sets.
func (q *Sequencer) oscColorPalette(rest, terminator string) {
	s := q.screen
	fields := splitSemi(rest)
	for i := 0; i+1 < len(fields); i += 2 {
		index, err := strconv.Atoi(fields[i])
		if err != nil || index < 0 || index > 255 {
			continue
		}
		spec := fields[i+1]
		if spec == "?" {
			s.replyf("\x1b]4;%d;%s%s", index, formatColorSpec(s.palette.Indexed[index]), terminator)
			continue
		}
		if c, ok := parseColorSpec(spec); ok {
			s.palette.Indexed[index] = c
		}
	}
}

// oscDynamicColor handles OSC 10/11/12: "?" queries, a color spec sets.
func (q *Sequencer) oscDynamicColor(code int, target *color.RGBA, rest, terminator string) {
	s := q.screen
	if rest == "?" {
		s.replyf("\x1b]%d;%s%s", code, formatColorSpec(*target), terminator)
		return
	}
	if c, ok := parseColorSpec(rest); ok {
		*target = c
	}
}

// oscHyperlink handles OSC 8: "params;uri" starts a hyperlink, an empty
// URI ends it. The id= parameter scopes equal links to one registry entry.
func (q *Sequencer) oscHyperlink(rest string) {
	s := q.screen
	i := strings.IndexByte(rest, ';')
	if i < 0 {
		return
	}
	params, uri := rest[:i], rest[i+1:]

	if uri == "" {
		s.currentLink = 0
		return
	}

	id := ""
	for _, kv := range strings.Split(params, ":") {
		if strings.HasPrefix(kv, "id=") {
			id = kv[3:]
		}
	}
	s.currentLink = s.hyperlinks.Intern(id, uri)
}

// oscClipboard handles OSC 52: "<target>;<base64|?>".
func (q *Sequencer) oscClipboard(rest, terminator string) {
	s := q.screen
	i := strings.IndexByte(rest, ';')
	if i < 0 {
		return
	}
	targets, data := rest[:i], rest[i+1:]
	target := byte('c')
	if targets != "" {
		target = targets[0]
	}

	if data == "?" {
		content := s.clipboard.Read(target)
		encoded := base64.StdEncoding.EncodeToString([]byte(content))
		s.replyf("\x1b]52;%c;%s%s", target, encoded, terminator)
		return
	}

	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return
	}
	s.clipboard.Write(target, decoded)
}
