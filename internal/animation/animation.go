// Package animation is the per-frame update of the demo scene.
//
// Update is a pure function of elapsed time, the keyboard snapshot and a
// small persistent State. The host applies the returned delta to the scene
// and performs the requested captures.
package animation

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"contours/internal/input"
	"contours/internal/scene"
	"contours/internal/shaders"
)

// Status tells the host whether to keep looping.
type Status int

const (
	// Continue keeps the loop running.
	Continue Status = iota
	// Finish asks the host to exit.
	Finish
)

func (s Status) String() string {
	if s == Finish {
		return "Finish"
	}
	return "Continue"
}

const (
	orbitRadius = 5
	tiltAmount  = math.Pi / 16

	blurRadiusDefault = 6
	blurRadiusFocused = 3
	scanlineDefault   = 0.04
	scanlineOff       = 0

	heightAmplitude = 2
	waveLength      = 5
)

// OrbitCentre is the point the camera circles around in the XZ-plane.
var OrbitCentre = mgl32.Vec3{20, 10, 25}

// State is carried from one frame to the next.
type State struct {
	Debug bool
	// HideMouse only changes while LShift is held, so it latches too.
	HideMouse bool
}

// InitialState is the state before the first frame.
func InitialState() State {
	return State{HideMouse: true}
}

// Options tune the update.
type Options struct {
	// ZScaleLimit bounds |tan(t)| in the z-scale when > 0. The default of 0
	// keeps the raw value, which grows without bound near t = π/2 + kπ.
	ZScaleLimit float32
}

// Frame is the input of one update.
type Frame struct {
	Time  float64
	Input input.Snapshot
	// Instances are read for their x/y grid position and rotation only.
	Instances []scene.Transform
}

// Result is everything one update produces.
type Result struct {
	scene.Delta
	CaptureGIF bool
	Screenshot bool
	Status     Status
}

// Update computes one frame.
func Update(f Frame, st State, opts Options) (Result, State) {
	t := f.Time
	in := f.Input

	var res Result
	res.Camera = CameraAt(t)

	mx, my := ScaleMultipliers(in)
	res.ShaderName = ShaderName(in)

	res.BlurRadius = blurRadiusDefault
	if in.Held(input.KeyE) {
		res.BlurRadius = blurRadiusFocused
	}
	res.Scanline = scanlineDefault
	if in.Held(input.KeyQ) {
		res.Scanline = scanlineOff
	}

	res.Instances = make([]scene.Transform, len(f.Instances))
	zTerm := zScale(t, opts.ZScaleLimit)
	for i, tr := range f.Instances {
		res.Instances[i] = animateInstance(tr, t, mx, my, zTerm)
	}

	res.CaptureGIF = in.Pressed(input.KeyO)
	res.Screenshot = in.Pressed(input.KeyP)

	// K is checked after L so it wins when both are down.
	if in.Held(input.KeyLShift) {
		if in.Held(input.KeyL) {
			st.Debug = true
		}
		if in.Held(input.KeyK) {
			st.Debug = false
		}
		st.HideMouse = !in.Held(input.KeyM)
	}
	res.ShowEditor = st.Debug
	res.HideMouse = st.HideMouse

	res.Status = Continue
	if in.Held(input.KeyEscape) {
		res.Status = Finish
	}

	return res, st
}

// CameraAt is the orbit pose at time t.
func CameraAt(t float64) scene.Camera {
	sin, cos := math.Sincos(t)
	return scene.Camera{
		Pos: mgl32.Vec3{
			OrbitCentre[0] + float32(sin)*orbitRadius,
			OrbitCentre[1],
			OrbitCentre[2] + float32(cos)*orbitRadius,
		},
		Rot: scene.Euler{Pitch: float32(tiltAmount * sin)},
	}
}

// ScaleMultipliers picks the x/y scale multipliers. S beats A, A beats D.
func ScaleMultipliers(in input.Snapshot) (float32, float32) {
	switch {
	case in.Held(input.KeyS):
		return 5, 5
	case in.Held(input.KeyA):
		return 5, 1
	case in.Held(input.KeyD):
		return 1, 5
	default:
		return 1, 1
	}
}

// ShaderName is the material shader for this frame.
func ShaderName(in input.Snapshot) string {
	if in.Held(input.KeyW) {
		return shaders.ContoursColor
	}
	return shaders.Contours
}

// Height is the wave height of an instance at grid position (x, y).
func Height(x, y float32, t float64) float32 {
	return math32.Sin(x/waveLength) * math32.Cos(y/waveLength) * float32(math.Sin(t)) * heightAmplitude
}

// Pulse is the shared scale factor of an instance at (x, y).
func Pulse(x, y float32, t float64) float32 {
	return math32.Abs(math32.Sin(float32(t) + (x+y)/waveLength))
}

func zScale(t float64, limit float32) float32 {
	z := float32(math.Tan(t))
	if limit > 0 {
		z = mgl32.Clamp(z, -limit, limit)
	}
	return z
}

func animateInstance(tr scene.Transform, t float64, mx, my, zTerm float32) scene.Transform {
	x, y := tr.Pos[0], tr.Pos[1]
	s := Pulse(x, y, t)
	return scene.Transform{
		Pos:   mgl32.Vec3{x, y, Height(x, y, t)},
		Rot:   tr.Rot,
		Scale: mgl32.Vec3{s * mx, s * my, s * zTerm},
	}
}

// Animator threads State through successive updates for the host loop.
type Animator struct {
	state State
	opts  Options
}

// NewAnimator starts from InitialState.
func NewAnimator(opts Options) *Animator {
	return &Animator{state: InitialState(), opts: opts}
}

// Step runs Update with the carried state and keeps the new one.
func (a *Animator) Step(f Frame) Result {
	res, next := Update(f, a.state, a.opts)
	a.state = next
	return res
}

// State returns the carried state.
func (a *Animator) State() State {
	return a.state
}
