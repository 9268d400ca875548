package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"reel-frame/pkg/config"
	"reel-frame/pkg/settings"
	"reel-frame/screens/gallery"
)

const (
	targetFPS      = 60
	fallbackWidth  = 1920
	fallbackHeight = 1080

	// libraryTimeout bounds listing and downloading the videos at startup
	libraryTimeout = 5 * time.Minute
)

func main() {
	// SDL must stay on the main thread
	runtime.LockOSThread()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	userSettings := settings.Load(cfg.SettingsPath)

	if err := initializeSDL2(); err != nil {
		log.Fatalf("Failed to initialize SDL2: %v", err)
	}
	defer func() {
		log.Println("Shutting down SDL2...")
		sdl.Quit()
	}()

	screenWidth, screenHeight := getDisplayDimensions()
	fullscreen := !cfg.Windowed
	if cfg.Windowed {
		screenWidth, screenHeight = screenWidth*3/4, screenHeight*3/4
	}
	log.Printf("Starting %s | Resolution: %dx%d", cfg.WindowTitle, screenWidth, screenHeight)

	logDisplayInfo()

	window, err := createWindow(cfg.WindowTitle, screenWidth, screenHeight, fullscreen)
	if err != nil {
		log.Fatalf("Failed to create window: %v", err)
	}
	defer window.Destroy()

	renderer, err := createRenderer(window)
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}
	defer renderer.Destroy()

	ctx, cancel := context.WithTimeout(context.Background(), libraryTimeout)
	pages, manifest, err := gallery.LoadPages(ctx, cfg, renderer, userSettings.PlaybackSpeed)
	cancel()
	if err != nil {
		log.Fatalf("Failed to load videos: %v", err)
	}

	screen, err := gallery.NewScreen(window, renderer, cfg, pages, manifest, userSettings)
	if err != nil {
		for _, p := range pages {
			p.Close()
		}
		log.Fatalf("Failed to create carousel: %v", err)
	}
	defer screen.Close()

	runLoop(screen)

	log.Printf("%s shutting down...", cfg.WindowTitle)
}

// initializeSDL2 initializes SDL2 with fallback video drivers
func initializeSDL2() error {
	// Respect environment variable first, then fallback
	envDriver := os.Getenv("SDL_VIDEODRIVER")
	var videoDrivers []string

	if envDriver != "" {
		log.Printf("Using environment SDL_VIDEODRIVER: %s", envDriver)
		// Use environment driver first, then fallbacks including fbcon for Pi
		videoDrivers = []string{envDriver, "fbcon", "software", "dummy"}
	} else {
		// Platform-specific video driver fallbacks
		if runtime.GOOS == "darwin" {
			// macOS-specific drivers
			videoDrivers = []string{
				"cocoa",    // Native macOS driver
				"software", // Software rendering fallback
				"dummy",    // Last resort for testing
			}
		} else {
			// Linux/Raspberry Pi drivers
			videoDrivers = []string{
				"kmsdrm",   // Kernel Mode Setting + DRM - best for Pi 4/5 GPU
				"drm",      // Direct Rendering Manager fallback
				"fbcon",    // Direct framebuffer console - good for headless Pi
				"wayland",  // Wayland (requires compositor)
				"x11",      // X11 fallback
				"software", // Software rendering (needs display server)
				"dummy",    // Last resort for testing
			}
		}
	}

	// Log system information for debugging
	log.Printf("=== System Information ===")
	log.Printf("OS: %s", runtime.GOOS)
	log.Printf("DISPLAY: %s", os.Getenv("DISPLAY"))

	// Check for Raspberry Pi specific information
	if _, err := os.Stat("/proc/device-tree/model"); err == nil {
		if model, err := os.ReadFile("/proc/device-tree/model"); err == nil {
			log.Printf("Device: %s", string(model))
		}
	}

	// Check framebuffer availability
	if _, err := os.Stat("/dev/fb0"); err == nil {
		log.Printf("Framebuffer /dev/fb0: available")
	} else {
		log.Printf("Framebuffer /dev/fb0: not available (%v)", err)
	}

	// Check DRI/KMS availability
	if _, err := os.Stat("/dev/dri"); err == nil {
		log.Printf("DRI directory: available")
	} else {
		log.Printf("DRI directory: not available")
	}

	log.Printf("=== End System Information ===")

	// Try each fallback driver
	for _, driver := range videoDrivers {
		log.Printf("Attempting SDL2 initialization with %s driver", driver)

		// Set the video driver
		os.Setenv("SDL_VIDEODRIVER", driver)

		// Try to initialize SDL2 with this driver
		if err := trySDLInitialization(driver); err != nil {
			log.Printf("SDL2 initialization failed with %s driver: %v", driver, err)
			continue
		}

		log.Printf("SDL2 successfully initialized with %s driver", driver)
		return nil
	}

	return fmt.Errorf("all SDL2 video drivers failed")
}

// trySDLInitialization attempts to initialize SDL2 with safer error handling
func trySDLInitialization(driver string) error {
	// Clean up any previous SDL2 state
	sdl.Quit()

	// Set driver-specific hints for better compatibility
	switch driver {
	case "cocoa":
		sdl.SetHint(sdl.HINT_VIDEODRIVER, "cocoa")
		// macOS-specific hints for better compatibility
		sdl.SetHint("SDL_VIDEO_COCOA_ALLOW_SCREENSAVER", "1")
		sdl.SetHint("SDL_VIDEO_COCOA_SCALE_FACTOR", "1")
		sdl.SetHint("SDL_RENDER_DRIVER", "opengl") // Use OpenGL for hardware acceleration
	case "kmsdrm":
		// Specific hints for KMS/DRM on Raspberry Pi
		sdl.SetHint(sdl.HINT_VIDEODRIVER, "kmsdrm")
		sdl.SetHint("SDL_KMSDRM_REQUIRE_DRM_MASTER", "1")
		sdl.SetHint("SDL_VIDEO_KMSDRM_DEVINDEX", "0")
		// Prevent async flips that cause VC4 errors
		sdl.SetHint("SDL_RENDER_VSYNC", "1")
		sdl.SetHint("SDL_VIDEO_ALLOW_SCREENSAVER", "0")
		// Force synchronous operations
		sdl.SetHint("SDL_HINT_RENDER_BATCHING", "0")
	case "fbcon":
		// Framebuffer console driver
		sdl.SetHint(sdl.HINT_VIDEODRIVER, "fbcon")
		sdl.SetHint("SDL_FBDEV", "/dev/fb0")
	case "drm":
		sdl.SetHint(sdl.HINT_VIDEODRIVER, "drm")
		// Basic DRM hints
		sdl.SetHint("SDL_VIDEODRIVER", "drm")
	case "wayland":
		sdl.SetHint(sdl.HINT_VIDEODRIVER, "wayland")
		// Set basic Wayland-specific hints
		sdl.SetHint("SDL_VIDEO_WAYLAND_WMCLASS", "reel-frame")
	case "x11":
		sdl.SetHint(sdl.HINT_VIDEODRIVER, "x11")
		sdl.SetHint("SDL_VIDEO_X11_NET_WM_BYPASS_COMPOSITOR", "0")
	case "software":
		sdl.SetHint(sdl.HINT_VIDEODRIVER, "software")
		sdl.SetHint("SDL_FRAMEBUFFER_ACCELERATION", "0")
	case "dummy":
		sdl.SetHint(sdl.HINT_VIDEODRIVER, "dummy")
	}

	// Set common hints for better performance and stability
	sdl.SetHint(sdl.HINT_RENDER_BATCHING, "1")
	// Allow hardware acceleration for GPU drivers, fallback to software for others
	if driver == "kmsdrm" || driver == "drm" {
		sdl.SetHint(sdl.HINT_RENDER_DRIVER, "opengles2") // Use OpenGL ES 2.0 for hardware acceleration
	} else if driver == "cocoa" {
		sdl.SetHint(sdl.HINT_RENDER_DRIVER, "opengl") // Use OpenGL for macOS hardware acceleration
	} else {
		sdl.SetHint(sdl.HINT_RENDER_DRIVER, "software") // Use software renderer for fbcon and other non-GPU drivers
	}
	sdl.SetHint(sdl.HINT_VIDEO_MINIMIZE_ON_FOCUS_LOSS, "0")

	// Initialize SDL2 directly on main thread (required for macOS Cocoa)
	// Try to initialize video subsystem only first
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("SDL_INIT_VIDEO failed: %v", err)
	}

	// Check if we can get video driver info
	driverName, err := sdl.GetCurrentVideoDriver()
	if err != nil {
		return fmt.Errorf("failed to get video driver: %v", err)
	}
	log.Printf("Video driver initialized: %s", driverName)

	return nil
}

// getDisplayDimensions returns the screen dimensions or fallback values
func getDisplayDimensions() (int32, int32) {
	displayMode, err := sdl.GetCurrentDisplayMode(0)
	if err != nil {
		log.Printf("Warning: Failed to get display mode, using fallback: %v", err)
		return fallbackWidth, fallbackHeight
	}

	// Use full display dimensions for all platforms
	return displayMode.W, displayMode.H
}

// logDisplayInfo outputs debugging information about the display setup
func logDisplayInfo() {
	log.Printf("=== Display Configuration Debug ===")

	// Get current video driver
	if driver, err := sdl.GetCurrentVideoDriver(); err == nil {
		log.Printf("SDL2 Video Driver: %s", driver)
	} else {
		log.Printf("SDL2 Video Driver: unknown (%v)", err)
	}

	// Get number of displays
	numDisplays, err := sdl.GetNumVideoDisplays()
	if err != nil {
		log.Printf("Failed to get number of displays: %v", err)
		return
	}
	log.Printf("Number of displays: %d", numDisplays)

	// Get display information for each display
	for i := 0; i < numDisplays; i++ {
		if mode, err := sdl.GetCurrentDisplayMode(i); err == nil {
			log.Printf("Display %d: %dx%d @ %dHz", i, mode.W, mode.H, mode.RefreshRate)
		} else {
			log.Printf("Display %d: failed to get mode (%v)", i, err)
		}

		if name, err := sdl.GetDisplayName(i); err == nil {
			log.Printf("Display %d name: %s", i, name)
		}
	}

	log.Printf("=== End Display Configuration ===")
}

// createWindow creates an SDL2 window with optimal settings
func createWindow(title string, width, height int32, fullscreen bool) (*sdl.Window, error) {
	// Kiosk frames run fullscreen; a windowed run is resizable for development
	var windowFlags uint32 = sdl.WINDOW_SHOWN
	if fullscreen {
		windowFlags |= sdl.WINDOW_FULLSCREEN
	} else {
		windowFlags |= sdl.WINDOW_RESIZABLE
	}

	return sdl.CreateWindow(title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED, width, height, windowFlags)
}

// createRenderer creates an SDL2 renderer with hardware acceleration and VSync
func createRenderer(window *sdl.Window) (*sdl.Renderer, error) {
	// Get current video driver to determine best renderer type
	currentDriver, err := sdl.GetCurrentVideoDriver()
	if err != nil {
		currentDriver = "unknown"
	}

	var renderer *sdl.Renderer

	// Try hardware acceleration first if using GPU drivers
	if currentDriver == "kmsdrm" || currentDriver == "drm" || currentDriver == "cocoa" {
		log.Printf("Attempting hardware acceleration for %s driver", currentDriver)

		// For kmsdrm on Raspberry Pi, avoid VSync to prevent async flip errors
		var rendererFlags uint32 = sdl.RENDERER_ACCELERATED
		if currentDriver != "kmsdrm" {
			rendererFlags |= sdl.RENDERER_PRESENTVSYNC
		} else {
			log.Printf("Skipping VSync for kmsdrm to avoid VC4 async flip errors")
		}

		renderer, err = sdl.CreateRenderer(
			window,
			-1,
			rendererFlags,
		)
		if err != nil {
			log.Printf("Hardware acceleration failed, trying software: %v", err)
		} else {
			log.Printf("Hardware acceleration successful for %s driver", currentDriver)
		}
	}

	// Fallback to software renderer if hardware failed or for other drivers
	if renderer == nil {
		log.Printf("Using software renderer for %s driver", currentDriver)
		renderer, err = sdl.CreateRenderer(
			window,
			-1,
			sdl.RENDERER_SOFTWARE,
		)
		if err != nil {
			return nil, err
		}
	}

	// Enable alpha blending for UI overlays
	renderer.SetDrawBlendMode(sdl.BLENDMODE_BLEND)

	return renderer, nil
}

// runLoop executes the main SDL2 loop until quit
func runLoop(screen *gallery.Screen) {
	frameTime := time.Second / targetFPS

	for {
		frameStart := time.Now()

		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			if _, ok := event.(*sdl.QuitEvent); ok {
				return
			}
		}

		if err := screen.Update(); err != nil {
			if !errors.Is(err, gallery.ErrQuit) {
				log.Printf("Screen update error: %v", err)
			}
			return
		}

		if err := screen.Draw(); err != nil {
			log.Printf("Screen draw error: %v", err)
			return
		}

		// Frame rate limiting
		if elapsed := time.Since(frameStart); elapsed < frameTime {
			time.Sleep(frameTime - elapsed)
		}
	}
}
