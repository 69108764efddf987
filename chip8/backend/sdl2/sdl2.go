//go:build sdl2

package sdl2

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/valerio/go-chip8/chip8/audio"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/display"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	toneFrequency = 440
	sampleRate    = 44100
	toneAmplitude = 32
)

// Backend implements the Backend interface using SDL2 bindings
// Note: building this requires SDL2 development libraries installed.
// Default builds skip this and use a stubbed backend, see build tags (sdl2)
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	audioDev sdl.AudioDeviceID
	running  bool
	config   backend.BackendConfig
	events   []backend.InputEvent
	pixels   []byte

	currentFrame *video.FrameBuffer
}

// New creates a new SDL2 backend
func New() *Backend {
	return &Backend{
		pixels: make([]byte, video.Width*video.Height*display.RGBABytesPerPixel),
	}
}

// Init initializes the SDL2 backend
func (s *Backend) Init(config backend.BackendConfig) error {
	s.config = config

	scale := config.Scale
	if scale <= 0 {
		scale = display.DefaultPixelScale
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS | sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %w", err)
	}

	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(video.Width*scale),
		int32(video.Height*scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_RGBA8888,
		sdl.TEXTUREACCESS_STREAMING,
		video.Width,
		video.Height,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create texture: %w", err)
	}
	s.texture = texture

	if err := s.openAudio(); err != nil {
		slog.Warn("Audio unavailable, tone disabled", "error", err)
	}

	s.running = true
	slog.Info("SDL2 backend initialized", "scale", scale)

	return nil
}

func (s *Backend) openAudio() error {
	spec := sdl.AudioSpec{
		Freq:     sampleRate,
		Format:   sdl.AUDIO_S8,
		Channels: 1,
		Samples:  512,
	}
	dev, err := sdl.OpenAudioDevice("", false, &spec, nil, 0)
	if err != nil {
		return err
	}
	s.audioDev = dev
	return nil
}

// Update renders a frame and processes events
func (s *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		s.handleEvent(ev)
	}

	events := s.events
	s.events = nil

	if !s.running {
		return events, nil
	}

	if frame != nil {
		s.currentFrame = frame
		if err := s.renderFrame(frame); err != nil {
			return events, err
		}
	}

	return events, nil
}

// Cleanup cleans up SDL2 resources
func (s *Backend) Cleanup() error {
	slog.Info("Cleaning up SDL2 backend")

	if s.audioDev != 0 {
		sdl.CloseAudioDevice(s.audioDev)
	}
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()

	return nil
}

// HandleAction processes backend-specific actions
func (s *Backend) HandleAction(act action.Action) {
	switch act {
	case action.EmulatorSnapshot:
		debug.TakeSnapshot(s.currentFrame, "chip8_snapshot")
	case action.EmulatorDebugToggle:
		s.config.ShowDebug = !s.config.ShowDebug
		s.updateTitle()
	}
}

// Beeper returns a square wave beeper on the default audio device.
func (s *Backend) Beeper() audio.Beeper {
	if s.audioDev == 0 {
		return audio.LogBeeper{}
	}
	return &squareWave{dev: s.audioDev, samples: squareWaveSamples(sampleRate / 2)}
}

type squareWave struct {
	dev     sdl.AudioDeviceID
	samples []byte
}

func (w *squareWave) Start() {
	if err := sdl.QueueAudio(w.dev, w.samples); err != nil {
		slog.Debug("Failed to queue tone", "error", err)
		return
	}
	sdl.PauseAudioDevice(w.dev, false)
}

func (w *squareWave) Stop() {
	sdl.PauseAudioDevice(w.dev, true)
	sdl.ClearQueuedAudio(w.dev)
}

func squareWaveSamples(n int) []byte {
	period := sampleRate / toneFrequency
	samples := make([]byte, n)
	for i := range samples {
		v := int8(toneAmplitude)
		if (i/(period/2))%2 == 1 {
			v = -toneAmplitude
		}
		samples[i] = byte(v)
	}
	return samples
}

// updateTitle shows the machine state in the window title when debug is on,
// SDL has no text rendering without extra libraries.
func (s *Backend) updateTitle() {
	title := s.config.Title
	if s.config.ShowDebug && s.config.DebugProvider != nil {
		if data := s.config.DebugProvider.ExtractDebugData(); data != nil && data.CPU != nil {
			title = fmt.Sprintf("%s [%s] PC=0x%03X I=0x%03X", title, data.DebuggerState, data.CPU.PC, data.CPU.I)
		}
	}
	s.window.SetTitle(title)
}

func (s *Backend) handleEvent(ev sdl.Event) {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		s.running = false
		s.events = append(s.events, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})

	case *sdl.KeyboardEvent:
		act, ok := keyMapping[e.Keysym.Sym]
		if !ok {
			return
		}
		if e.Type == sdl.KEYDOWN {
			s.handleKeyDown(act, e.Repeat)
		} else if e.Type == sdl.KEYUP {
			s.handleKeyUp(act)
		}
	}
}

// sdlKeyNames maps SDL keycodes to key names used in default mappings
var sdlKeyNames = map[sdl.Keycode]string{
	sdl.K_1: "1", sdl.K_2: "2", sdl.K_3: "3", sdl.K_4: "4",
	sdl.K_q: "q", sdl.K_w: "w", sdl.K_e: "e", sdl.K_r: "r",
	sdl.K_a: "a", sdl.K_s: "s", sdl.K_d: "d", sdl.K_f: "f",
	sdl.K_z: "z", sdl.K_x: "x", sdl.K_c: "c", sdl.K_v: "v",

	sdl.K_SPACE:  "Space",
	sdl.K_p:      "p",
	sdl.K_o:      "o",
	sdl.K_n:      "n",
	sdl.K_F5:     "F5",
	sdl.K_F9:     "F9",
	sdl.K_F10:    "F10",
	sdl.K_ESCAPE: "Escape",
	sdl.K_EQUALS: "=",
	sdl.K_MINUS:  "-",
}

func buildKeyMapping() map[sdl.Keycode]action.Action {
	mapping := make(map[sdl.Keycode]action.Action)
	for key, name := range sdlKeyNames {
		if act, ok := input.GetDefaultMapping(name); ok {
			mapping[key] = act
		}
	}
	return mapping
}

var keyMapping = buildKeyMapping()

func (s *Backend) handleKeyDown(act action.Action, repeat uint8) {
	isKeypad := action.GetInfo(act).Category == action.CategoryKeypad

	if repeat != 0 {
		if isKeypad {
			s.events = append(s.events, backend.InputEvent{Action: act, Type: event.Hold})
		}
		return
	}

	if act == action.EmulatorQuit {
		s.running = false
	}
	s.events = append(s.events, backend.InputEvent{Action: act, Type: event.Press})
}

func (s *Backend) handleKeyUp(act action.Action) {
	// Only keypad keys have a release, UI actions fire on press
	if action.GetInfo(act).Category == action.CategoryKeypad {
		s.events = append(s.events, backend.InputEvent{Action: act, Type: event.Release})
	}
}

func (s *Backend) renderFrame(frame *video.FrameBuffer) error {
	// RGBA8888 is a packed format, on little-endian hosts the bytes are ABGR
	for i, pixel := range frame.ToSlice() {
		idx := i * display.RGBABytesPerPixel
		s.pixels[idx] = byte(pixel & display.RGBAColorMask)
		s.pixels[idx+1] = byte(pixel >> display.RGBABShift & display.RGBAColorMask)
		s.pixels[idx+2] = byte(pixel >> display.RGBAGShift & display.RGBAColorMask)
		s.pixels[idx+3] = byte(pixel >> display.RGBARShift & display.RGBAColorMask)
	}

	if err := s.texture.Update(nil, unsafe.Pointer(&s.pixels[0]), video.Width*display.RGBABytesPerPixel); err != nil {
		return fmt.Errorf("failed to update texture: %w", err)
	}

	s.renderer.SetDrawColor(0, 0, 0, 0xFF)
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()

	if s.config.ShowDebug {
		s.updateTitle()
	}
	return nil
}

var (
	_ backend.Backend       = (*Backend)(nil)
	_ backend.ActionHandler = (*Backend)(nil)
	_ backend.AudioBackend  = (*Backend)(nil)
)
