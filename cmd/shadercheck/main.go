// Command shadercheck compiles and links every registered program in a
// hidden GL 4.1 context and reports the driver's log for failures.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"contours/internal/graphics"
	"contours/internal/shaders"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	only := flag.String("program", "", "Check a single program by name")
	flag.Parse()

	if err := glfw.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.False)

	window, err := glfw.CreateWindow(64, 64, "shadercheck", nil, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("OpenGL %s, GLSL %s\n",
		gl.GoStr(gl.GetString(gl.VERSION)),
		gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)))

	registry := shaders.NewRegistry()
	if err := shaders.RegisterContours(registry); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := shaders.RegisterHost(registry); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	names := registry.Names()
	if *only != "" {
		names = []string{*only}
	}

	failed := 0
	for _, name := range names {
		p, err := registry.Lookup(name)
		if err != nil {
			fmt.Printf("FAIL %-16s %v\n", name, err)
			failed++
			continue
		}

		start := time.Now()
		sh, err := graphics.NewShader(p)
		if err != nil {
			fmt.Printf("FAIL %-16s %v\n", name, err)
			failed++
			continue
		}
		sh.Delete()
		fmt.Printf("ok   %-16s %s\n", name, time.Since(start).Round(time.Microsecond))
	}

	if failed > 0 {
		fmt.Printf("%d of %d programs failed\n", failed, len(names))
		glfw.Terminate()
		os.Exit(1)
	}
}
