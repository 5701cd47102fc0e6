// Command corehost loads an emulator core and a game and drives the host
// runtime either in a desktop window or against an offscreen EGL surface,
// optionally recording the run to a video file.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"

	"github.com/retrocore/hostruntime/audio"
	"github.com/retrocore/hostruntime/devsurface"
	"github.com/retrocore/hostruntime/environment"
	"github.com/retrocore/hostruntime/graphics"
	"github.com/retrocore/hostruntime/headless"
	"github.com/retrocore/hostruntime/input"
	host "github.com/retrocore/hostruntime/runtime"
	"github.com/retrocore/hostruntime/video"
)

func init() {
	// GLFW and EGL both require the GL context's thread to stay fixed.
	runtime.LockOSThread()
}

// varFlags collects repeated -var key=value overrides.
type varFlags []environment.Variable

func (v *varFlags) String() string {
	parts := make([]string, len(*v))
	for i, kv := range *v {
		parts[i] = kv.Key + "=" + kv.Value
	}
	return strings.Join(parts, ",")
}

func (v *varFlags) Set(s string) error {
	key, value, ok := strings.Cut(s, "=")
	if !ok {
		return fmt.Errorf("want key=value, got %q", s)
	}
	*v = append(*v, environment.Variable{Key: key, Value: value})
	return nil
}

func main() {
	corePath := flag.String("core", "", "path to the core shared object")
	gamePath := flag.String("game", "", "path to the game image")
	systemDir := flag.String("system", "", "system (BIOS) directory handed to the core")
	savesDir := flag.String("saves", "", "save directory handed to the core")
	shader := flag.String("shader", "default", "shader preset: default, crt, lcd, sharp")
	width := flag.Int("width", 1280, "surface width")
	height := flag.Int("height", 720, "surface height")
	refresh := flag.Float64("refresh", 60.0, "screen refresh rate in Hz")
	speed := flag.Int("speed", 1, "fast-forward multiplier")
	language := flag.String("lang", "en", "core language hint")
	ambient := flag.Bool("ambient", false, "blurred ambient backdrop behind the content")
	skipDup := flag.Bool("skip-dup", false, "skip uploading byte-identical frames")
	lowLatency := flag.Bool("low-latency", false, "request a low-latency audio stream")
	enableVFS := flag.Bool("vfs", false, "offer the host VFS interface to the core")
	enableMic := flag.Bool("mic", false, "offer the host microphone interface to the core")
	offscreen := flag.Bool("offscreen", false, "render to an EGL pbuffer instead of a window")
	record := flag.String("record", "", "record the run to this video file (implies -offscreen)")
	duration := flag.Float64("duration", 10.0, "seconds to run when recording")
	ffmpegPath := flag.String("ffmpeg", "", "ffmpeg binary override for -record")

	var vars varFlags
	flag.Var(&vars, "var", "core variable override key=value (repeatable)")
	flag.Parse()

	if *corePath == "" || *gamePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	headlessRun := *offscreen || *record != ""

	var surf graphics.Context
	if headlessRun {
		s, err := headless.New(*width, *height)
		if err != nil {
			log.Fatalf("corehost: %v", err)
		}
		surf = s
	} else {
		s, err := devsurface.New(*width, *height, "corehost")
		if err != nil {
			log.Fatalf("corehost: %v", err)
		}
		surf = s
	}
	defer surf.Shutdown()

	var outputDevice audio.OutputDevice
	if headlessRun {
		outputDevice = audio.NullOutputDevice{}
	} else {
		outputDevice = audio.NewPortaudioDevice(*lowLatency)
	}

	glVersion := host.GLDesktop
	if headlessRun {
		glVersion = host.GLES3
	}

	rt := host.New()
	cfg := host.Config{
		GLESVersion:     glVersion,
		CorePath:        *corePath,
		SystemDir:       *systemDir,
		SavesDir:        *savesDir,
		Variables:       vars,
		ShaderConfig:    *shader,
		RefreshRate:     *refresh,
		LowLatencyAudio: *lowLatency,
		EnableVFS:       *enableVFS,
		EnableMic:       *enableMic,
		SkipDupFrames:   *skipDup,
		Ambient:         *ambient,
		Language:        *language,
		GLProcAddress:   surf.ProcAddress,
		AudioDevice:     outputDevice,
		OnRefreshAspectRatio: func() {
			log.Printf("corehost: content aspect changed")
		},
		OnRumbleEvent: func(port int, weak, strong float32) {
			log.Printf("corehost: rumble port=%d weak=%.2f strong=%.2f", port, weak, strong)
		},
	}
	if err := rt.Create(cfg); err != nil {
		log.Fatalf("corehost: create: %v", err)
	}
	defer rt.Destroy()

	if err := rt.LoadGameFromPath(*gamePath); err != nil {
		log.Fatalf("corehost: load game: %v", err)
	}

	w, h := surf.FramebufferSize()
	if err := rt.OnSurfaceCreated(w, h); err != nil {
		log.Fatalf("corehost: surface: %v", err)
	}

	if win, ok := surf.(*devsurface.Surface); ok {
		win.SetKeyCallback(func(code int, pressed bool) {
			rt.OnKeyEvent(0, input.KeyCode(code), pressed)
		})
	}

	if err := rt.Resume(); err != nil {
		log.Fatalf("corehost: resume: %v", err)
	}
	if *speed > 1 {
		rt.SetFrameSpeed(*speed)
	}

	var recorder *video.FrameRecorder
	maxFrames := -1
	if *record != "" {
		var err error
		recorder, err = video.NewFrameRecorder(w, h, int(*refresh), *record, *ffmpegPath)
		if err != nil {
			log.Fatalf("corehost: recorder: %v", err)
		}
		maxFrames = int(*duration * *refresh)
	}

	for frame := 0; !surf.ShouldClose() && (maxFrames < 0 || frame < maxFrames); frame++ {
		if err := rt.Step(); err != nil {
			log.Printf("corehost: step: %v", err)
			break
		}
		if recorder != nil {
			pixels, _, _ := rt.CaptureRGBA()
			if err := recorder.WriteFrame(pixels); err != nil {
				log.Printf("corehost: record: %v", err)
				break
			}
		}
		surf.EndFrame()
		if nw, nh := surf.FramebufferSize(); nw != w || nh != h {
			w, h = nw, nh
			rt.OnSurfaceChanged(w, h)
		}
	}

	if rt.State() == host.StateRunning {
		if err := rt.Pause(); err != nil {
			log.Printf("corehost: pause: %v", err)
		}
	}
	if recorder != nil {
		if err := recorder.Close(); err != nil {
			log.Printf("corehost: recorder close: %v", err)
		} else {
			log.Printf("corehost: wrote %s", *record)
		}
	}
}
