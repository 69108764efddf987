package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-chip8/chip8/audio"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/terminal/render"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/disasm"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

const (
	width  = video.Width
	height = video.Height

	gameAreaHeight = height / 2 // two pixels per cell
	registerHeight = 10
	disasmHeight   = 9
	minTermWidth   = 80
	minTermHeight  = 24
	logCapacity    = 200
)

// Key expiry timeout: terminals only report presses, so a key counts as held
// while it keeps auto-repeating within this window.
const keyTimeout = 150 * time.Millisecond

// Backend implements the Backend interface using tcell for terminal rendering
type Backend struct {
	screen     tcell.Screen
	running    bool
	logBuffer  *render.LogBuffer
	logLevel   slog.Level
	config     backend.BackendConfig
	eventQueue []backend.InputEvent
	signals    chan os.Signal

	keyStates  map[action.Action]time.Time // Last time each keypad key was seen
	activeKeys map[action.Action]bool      // Keypad keys active in previous frame

	debugProvider backend.DebugDataProvider
	currentFrame  *video.FrameBuffer
}

// New creates a new terminal backend
func New() *Backend {
	return &Backend{
		logLevel: slog.LevelInfo,
	}
}

// NewWithScreen creates a terminal backend drawing to the given screen
// instead of the controlling terminal.
func NewWithScreen(screen tcell.Screen) *Backend {
	t := New()
	t.screen = screen
	return t
}

// Init initializes the terminal backend
func (t *Backend) Init(config backend.BackendConfig) error {
	t.config = config
	t.debugProvider = config.DebugProvider
	t.keyStates = make(map[action.Action]time.Time)
	t.activeKeys = make(map[action.Action]bool)

	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to initialize terminal: %w", err)
		}
		t.screen = screen
	}

	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	t.running = true

	// Logs go to a ring buffer rendered in the side panel, writing to
	// stderr would corrupt the screen.
	t.logBuffer = render.NewLogBuffer(logCapacity)
	slog.SetDefault(slog.New(render.NewLogBufferHandler(t.logBuffer, slog.LevelDebug)))

	slog.Info("Terminal backend initialized", "title", config.Title)
	if config.ShowDebug {
		slog.Debug("Debug mode enabled")
	}

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	t.signals = make(chan os.Signal, 1)
	signal.Notify(t.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	return nil
}

// Update renders a frame and processes events
func (t *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	var events []backend.InputEvent
	now := time.Now()

	select {
	case sig := <-t.signals:
		slog.Info("Received signal, shutting down", "signal", sig)
		t.running = false
		t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})
	default:
	}

	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev, now)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	events = append(events, t.keypadEvents(now)...)

	if len(t.eventQueue) > 0 {
		for _, evt := range t.eventQueue {
			slog.Debug("UI event", "action", action.GetInfo(evt.Action).Description, "type", evt.Type)
		}
		events = append(events, t.eventQueue...)
	}
	t.eventQueue = nil

	if !t.running {
		return events, nil
	}

	if frame != nil {
		t.currentFrame = frame
		t.render(frame)
		t.screen.Show()
	}

	return events, nil
}

// keypadEvents turns the timestamps of recently seen keypad keys into
// press, hold and release events.
func (t *Backend) keypadEvents(now time.Time) []backend.InputEvent {
	var events []backend.InputEvent
	currentlyActive := make(map[action.Action]bool)

	for act, lastPressed := range t.keyStates {
		if now.Sub(lastPressed) >= keyTimeout {
			delete(t.keyStates, act)
			continue
		}

		currentlyActive[act] = true
		if !t.activeKeys[act] {
			slog.Debug("Key press", "action", action.GetInfo(act).Description)
			events = append(events, backend.InputEvent{Action: act, Type: event.Press})
		} else {
			events = append(events, backend.InputEvent{Action: act, Type: event.Hold})
		}
	}

	for act := range t.activeKeys {
		if !currentlyActive[act] {
			slog.Debug("Key release", "action", action.GetInfo(act).Description)
			events = append(events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}

	t.activeKeys = currentlyActive
	return events
}

// Cleanup cleans up terminal resources
func (t *Backend) Cleanup() error {
	if t.signals != nil {
		signal.Stop(t.signals)
	}
	if t.screen != nil {
		slog.Info("Cleaning up terminal backend")
		t.screen.Fini()
	}
	return nil
}

// Beeper returns a beeper ringing the terminal bell when the tone starts.
func (t *Backend) Beeper() audio.Beeper {
	return bell{backend: t}
}

type bell struct {
	backend *Backend
}

func (b bell) Start() {
	if b.backend.screen == nil {
		return
	}
	if err := b.backend.screen.Beep(); err != nil {
		slog.Debug("Terminal bell failed", "error", err)
	}
}

// Stop is a no-op, the bell can't be held.
func (b bell) Stop() {}

// HandleAction processes backend-specific actions
func (t *Backend) HandleAction(act action.Action) {
	switch act {
	case action.EmulatorSnapshot:
		debug.TakeSnapshot(t.currentFrame, "chip8_snapshot")
	case action.EmulatorDebugToggle:
		t.config.ShowDebug = !t.config.ShowDebug
		if t.config.ShowDebug {
			slog.Info("Debug display enabled")
		} else {
			slog.Info("Debug display disabled")
		}
	case action.DebugLogLevelIncrease:
		t.changeLogLevel(1)
	case action.DebugLogLevelDecrease:
		t.changeLogLevel(-1)
	}
}

// tcellKeyNameMap converts tcell keys to key names used in default mappings
var tcellKeyNameMap = map[tcell.Key]string{
	tcell.KeyEscape: "Escape",
	tcell.KeyF5:     "F5",
	tcell.KeyF9:     "F9",
	tcell.KeyF10:    "F10",
}

// buildKeyMapping creates the key mapping from default mappings
func buildKeyMapping() map[tcell.Key]action.Action {
	mapping := make(map[tcell.Key]action.Action)

	for key, keyName := range tcellKeyNameMap {
		if act, ok := input.GetDefaultMapping(keyName); ok {
			mapping[key] = act
		}
	}

	mapping[tcell.KeyCtrlC] = action.EmulatorQuit

	return mapping
}

// buildRuneMapping creates the rune mapping from default mappings. Upper
// case runes map like their lower case counterparts.
func buildRuneMapping() map[rune]action.Action {
	mapping := make(map[rune]action.Action)

	for keyName, act := range input.DefaultKeyMap {
		runes := []rune(keyName)
		if len(runes) != 1 {
			continue
		}
		mapping[runes[0]] = act
		if upper := []rune(strings.ToUpper(keyName))[0]; upper != runes[0] {
			mapping[upper] = act
		}
	}
	if act, ok := input.GetDefaultMapping("Space"); ok {
		mapping[' '] = act
	}

	return mapping
}

var (
	keyMapping  = buildKeyMapping()
	runeMapping = buildRuneMapping()
)

func (t *Backend) processKeyEvent(ev *tcell.EventKey, now time.Time) {
	act, exists := keyMapping[ev.Key()]
	if !exists && ev.Key() == tcell.KeyRune {
		act, exists = runeMapping[ev.Rune()]
	}
	if !exists {
		return
	}

	if act == action.EmulatorQuit {
		t.running = false
	}

	if action.GetInfo(act).Category == action.CategoryKeypad {
		t.keyStates[act] = now
		return
	}
	t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: act, Type: event.Press})
}

func (t *Backend) changeLogLevel(direction int) {
	oldLevel := t.logLevel
	switch direction {
	case -1:
		switch t.logLevel {
		case slog.LevelDebug:
			t.logLevel = slog.LevelInfo
		case slog.LevelInfo:
			t.logLevel = slog.LevelWarn
		case slog.LevelWarn:
			t.logLevel = slog.LevelError
		}
	case 1:
		switch t.logLevel {
		case slog.LevelError:
			t.logLevel = slog.LevelWarn
		case slog.LevelWarn:
			t.logLevel = slog.LevelInfo
		case slog.LevelInfo:
			t.logLevel = slog.LevelDebug
		}
	}
	if oldLevel != t.logLevel {
		slog.Info("Log filter changed", "from", oldLevel, "to", t.logLevel)
	}
}

func (t *Backend) render(frame *video.FrameBuffer) {
	termWidth, termHeight := t.screen.Size()
	t.screen.Clear()

	if termWidth < minTermWidth || termHeight < minTermHeight {
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		t.drawText(0, termHeight/2, termWidth, msg, tcell.StyleDefault.Foreground(tcell.ColorRed))
		return
	}

	dividerX := width + 1
	rightPanelX := dividerX + 2
	rightPanelWidth := termWidth - rightPanelX

	t.drawBorders(termWidth, termHeight, dividerX)
	t.drawScreen(frame)

	logsY := 0
	if t.config.ShowDebug && t.debugProvider != nil {
		if data := t.debugProvider.ExtractDebugData(); data != nil && data.CPU != nil {
			t.drawRegisters(data, rightPanelX, 1, rightPanelWidth)
			t.drawDisassembly(data, rightPanelX, registerHeight+2, rightPanelWidth)
		}
	}
	if t.config.ShowDebug {
		logsY = registerHeight + disasmHeight + 2
	}
	t.drawLogs(rightPanelX, logsY, rightPanelWidth, termHeight)
}

func (t *Backend) drawText(x, y, maxWidth int, text string, style tcell.Style) {
	for i, ch := range []rune(render.FitText(text, maxWidth)) {
		t.screen.SetContent(x+i, y, ch, nil, style)
	}
}

func (t *Backend) drawBorders(termWidth, termHeight, dividerX int) {
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	for y := 0; y < termHeight-1; y++ {
		t.screen.SetContent(dividerX, y, '│', nil, borderStyle)
	}
	for x := 0; x < dividerX; x++ {
		t.screen.SetContent(x, gameAreaHeight+1, '─', nil, borderStyle)
	}
	t.screen.SetContent(dividerX, gameAreaHeight+1, '┤', nil, borderStyle)

	title := " CHIP-8 "
	if t.config.Title != "" {
		title = fmt.Sprintf(" CHIP-8: %s ", t.config.Title)
	}
	t.drawText(1, 0, dividerX-1, title, titleStyle)

	panelX := dividerX + 2
	panelWidth := termWidth - panelX
	if t.config.ShowDebug {
		t.drawText(panelX, 0, panelWidth, " Registers ", titleStyle)
		t.drawText(panelX, registerHeight+1, panelWidth, " Disassembly ", titleStyle)
		t.drawLogTitle(panelX, registerHeight+disasmHeight+2, panelWidth, titleStyle)
	} else {
		t.drawLogTitle(panelX, 0, panelWidth, titleStyle)
	}

	help := " 1234/QWER/ASDF/ZXCV=keypad SPACE=pause N=step O=frame F5=reset F9=snapshot F10=debug ESC=quit "
	t.drawText(0, termHeight-1, termWidth, help, borderStyle)
}

func (t *Backend) drawLogTitle(x, y, maxWidth int, style tcell.Style) {
	levelStr := "INFO"
	switch t.logLevel {
	case slog.LevelDebug:
		levelStr = "DEBUG"
	case slog.LevelWarn:
		levelStr = "WARN"
	case slog.LevelError:
		levelStr = "ERROR"
	}
	t.drawText(x, y, maxWidth, fmt.Sprintf(" Logs [%s] (-/+ filter) ", levelStr), style)
}

// drawScreen renders the 64x32 display as 64x16 cells, two pixels per cell.
func (t *Backend) drawScreen(frame *video.FrameBuffer) {
	frameData := frame.ToSlice()
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)

	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			top := render.IsLit(frameData[y*width+x])
			bottom := y+1 < height && render.IsLit(frameData[(y+1)*width+x])
			t.screen.SetContent(x, y/2+1, render.HalfBlock(top, bottom), nil, style)
		}
	}
}

func (t *Backend) drawRegisters(data *debug.CompleteDebugData, startX, startY, maxWidth int) {
	cpu := data.CPU

	state := "running"
	if cpu.WaitingForKey {
		state = fmt.Sprintf("waiting key -> V%X", cpu.WaitRegister)
	}

	lines := []string{
		fmt.Sprintf("Status: %s  %s", data.DebuggerState, state),
	}
	for row := 0; row < 4; row++ {
		r := row * 4
		lines = append(lines, fmt.Sprintf("V%X:%02X V%X:%02X V%X:%02X V%X:%02X",
			r, cpu.V[r], r+1, cpu.V[r+1], r+2, cpu.V[r+2], r+3, cpu.V[r+3]))
	}
	lines = append(lines,
		fmt.Sprintf("I: 0x%03X  PC: 0x%03X  SP: %d", cpu.I, cpu.PC, cpu.SP),
		fmt.Sprintf("DT: %3d  ST: %3d", cpu.DelayTimer, cpu.SoundTimer),
		fmt.Sprintf("Keys: %s", keyString(data.Keys)),
		fmt.Sprintf("Cycles: %d", cpu.Cycles),
	)
	if data.Fault != nil {
		lines = append(lines, fmt.Sprintf("Fault: %v", data.Fault))
	}

	style := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	faultStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	for i, line := range lines {
		if i >= registerHeight {
			break
		}
		useStyle := style
		if strings.HasPrefix(line, "Fault") {
			useStyle = faultStyle
		}
		t.drawText(startX, startY+i, maxWidth, line, useStyle)
	}
}

// keyString shows pressed keys by their hex digit and released ones as dots.
func keyString(keys [16]bool) string {
	var sb strings.Builder
	for k, pressed := range keys {
		if pressed {
			fmt.Fprintf(&sb, "%X", k)
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

func (t *Backend) drawDisassembly(data *debug.CompleteDebugData, startX, startY, maxWidth int) {
	if data.Memory == nil {
		return
	}

	pc := data.CPU.PC
	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	currentStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)

	lines := disasm.DisassembleRange(data.Memory.Bytes, data.Memory.StartAddr, disasmHeight)
	for i, line := range lines {
		useStyle := style
		if line.Address == pc {
			useStyle = currentStyle
		}
		t.drawText(startX, startY+i, maxWidth, disasm.FormatDisassemblyLine(line, line.Address == pc), useStyle)
	}
}

// drawLogs draws the newest log entries below the title row at startY.
func (t *Backend) drawLogs(startX, startY, maxWidth, termHeight int) {
	availableHeight := termHeight - startY - 2
	if maxWidth <= 0 || availableHeight <= 0 {
		return
	}

	var logs []render.LogEntry
	for _, entry := range t.logBuffer.GetRecent(0) {
		if entry.Level >= t.logLevel {
			logs = append(logs, entry)
			if len(logs) >= availableHeight {
				break
			}
		}
	}

	debugStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	infoStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	for i, entry := range logs {
		style := infoStyle
		switch {
		case entry.Level >= slog.LevelError:
			style = errStyle
		case entry.Level >= slog.LevelWarn:
			style = warnStyle
		case entry.Level < slog.LevelInfo:
			style = debugStyle
		}
		t.drawText(startX, startY+1+i, maxWidth, render.FormatLogEntry(entry), style)
	}
}

var (
	_ backend.Backend       = (*Backend)(nil)
	_ backend.ActionHandler = (*Backend)(nil)
	_ backend.AudioBackend  = (*Backend)(nil)
)
