package animation

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contours/internal/config"
	"contours/internal/input"
	"contours/internal/scene"
	"contours/internal/shaders"
)

func gridInstances(t *testing.T) []scene.Transform {
	t.Helper()
	ts, err := scene.InstanceTransforms(scene.InstanceCount)
	require.NoError(t, err)
	return ts
}

func frame(t float64, held []input.Key, pressed []input.Key, instances []scene.Transform) Frame {
	return Frame{Time: t, Input: input.NewSnapshot(held, pressed), Instances: instances}
}

func TestCameraOrbit(t *testing.T) {
	for _, tm := range []float64{0, 0.3, 1, math.Pi / 2, 2.5, math.Pi, 10, 1234.5678} {
		c := CameraAt(tm)
		dx := float64(c.Pos[0] - 20)
		dz := float64(c.Pos[2] - 25)
		assert.InDelta(t, 25.0, dx*dx+dz*dz, 1e-3, "camera off the orbit at t=%v", tm)
		assert.Equal(t, float32(10), c.Pos[1])

		assert.InDelta(t, (math.Pi/16)*math.Sin(tm), float64(c.Rot.Pitch), 1e-6)
		assert.Zero(t, c.Rot.Yaw)
		assert.Zero(t, c.Rot.Roll)
	}

	c := CameraAt(0)
	assert.InDelta(t, 20, c.Pos[0], 1e-6)
	assert.InDelta(t, 30, c.Pos[2], 1e-6)
}

func TestScaleMultipliers_Priority(t *testing.T) {
	tests := []struct {
		name   string
		held   []input.Key
		mx, my float32
	}{
		{"none", nil, 1, 1},
		{"S", []input.Key{input.KeyS}, 5, 5},
		{"A", []input.Key{input.KeyA}, 5, 1},
		{"D", []input.Key{input.KeyD}, 1, 5},
		{"S beats A and D", []input.Key{input.KeyD, input.KeyA, input.KeyS}, 5, 5},
		{"A beats D", []input.Key{input.KeyA, input.KeyD}, 5, 1},
		{"S beats D", []input.Key{input.KeyS, input.KeyD}, 5, 5},
		{"unrelated keys", []input.Key{input.KeyW, input.KeyQ}, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mx, my := ScaleMultipliers(input.NewSnapshot(tt.held, nil))
			assert.Equal(t, tt.mx, mx)
			assert.Equal(t, tt.my, my)
		})
	}
}

func TestShaderName(t *testing.T) {
	assert.Equal(t, shaders.Contours, ShaderName(input.NewSnapshot(nil, nil)))
	assert.Equal(t, shaders.ContoursColor, ShaderName(input.NewSnapshot([]input.Key{input.KeyW}, nil)))
	assert.Equal(t, shaders.Contours, ShaderName(input.NewSnapshot([]input.Key{input.KeyS, input.KeyE}, nil)))
}

func TestPostTweaks_RandomInput(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	instances := gridInstances(t)
	st := InitialState()

	for i := 0; i < 1000; i++ {
		var held []input.Key
		for k := range input.KeyCount {
			if rng.Intn(2) == 0 {
				held = append(held, k)
			}
		}
		in := input.NewSnapshot(held, nil)
		var res Result
		res, st = Update(Frame{Time: rng.Float64() * 100, Input: in, Instances: instances}, st, Options{})

		if in.Held(input.KeyE) {
			require.Equal(t, float32(3), res.BlurRadius)
		} else {
			require.Equal(t, float32(6), res.BlurRadius)
		}
		if in.Held(input.KeyQ) {
			require.Equal(t, float32(0), res.Scanline)
		} else {
			require.Equal(t, float32(0.04), res.Scanline)
		}
		require.Equal(t, in.Held(input.KeyW), res.ShaderName == shaders.ContoursColor)
	}
}

func TestPostTweaks_LeaveOtherFieldsAlone(t *testing.T) {
	reg := shaders.NewRegistry()
	s, err := scene.New(config.DefaultConfig(), reg)
	require.NoError(t, err)
	startup := s.Post

	rng := rand.New(rand.NewSource(11))
	a := NewAnimator(Options{})
	for i := 0; i < 1000; i++ {
		var held []input.Key
		for _, k := range []input.Key{input.KeyE, input.KeyQ, input.KeyW, input.KeyS} {
			if rng.Intn(2) == 0 {
				held = append(held, k)
			}
		}
		res := a.Step(frame(float64(i)/60, held, nil, s.Item.Instances))
		require.NoError(t, s.Apply(res.Delta))

		got := s.Post
		got.BlurRadius, got.Scanline = startup.BlurRadius, startup.Scanline
		require.Equal(t, startup, got, "frame %d changed a post field it does not own", i)
	}
}

func TestInstances_ZeroHeightAtStart(t *testing.T) {
	res, _ := Update(frame(0, nil, nil, gridInstances(t)), InitialState(), Options{})
	require.Len(t, res.Instances, scene.InstanceCount)
	for i, tr := range res.Instances {
		assert.Zero(t, tr.Pos[2], "instance %d", i)
	}
}

func TestInstances_Animation(t *testing.T) {
	instances := gridInstances(t)
	tm := 1.1
	held := []input.Key{input.KeyA}
	res, _ := Update(frame(tm, held, nil, instances), InitialState(), Options{})

	for i, tr := range res.Instances {
		x, y := instances[i].Pos[0], instances[i].Pos[1]
		assert.Equal(t, x, tr.Pos[0], "x never changes")
		assert.Equal(t, y, tr.Pos[1], "y never changes")

		wantZ := math.Sin(float64(x)/5) * math.Cos(float64(y)/5) * math.Sin(tm) * 2
		assert.InDelta(t, wantZ, tr.Pos[2], 1e-4)

		s := math.Abs(math.Sin(tm + float64(x+y)/5))
		assert.InDelta(t, s*5, tr.Scale[0], 1e-4)
		assert.InDelta(t, s*1, tr.Scale[1], 1e-4)
		assert.InDelta(t, s*math.Tan(tm), tr.Scale[2], 1e-3)
		assert.Equal(t, instances[i].Rot, tr.Rot)
	}

	// input is not mutated
	assert.Equal(t, gridInstances(t), instances)
}

func TestInstances_HeightDependsOnlyOnOwnPosition(t *testing.T) {
	one := []scene.Transform{{Pos: mgl32.Vec3{4.2, 6, 99}, Rot: mgl32.QuatIdent()}}
	res, _ := Update(frame(0.7, nil, nil, one), InitialState(), Options{})
	assert.InDelta(t, Height(4.2, 6, 0.7), res.Instances[0].Pos[2], 1e-6)
}

func TestZScale_UnboundedByDefault(t *testing.T) {
	near := math.Pi/2 - 1e-4
	ts := []scene.Transform{{Pos: mgl32.Vec3{0, 0, 0}, Rot: mgl32.QuatIdent()}}

	res, _ := Update(frame(near, nil, nil, ts), InitialState(), Options{})
	s := Pulse(0, 0, near)
	assert.Greater(t, float64(res.Instances[0].Scale[2]), 1000*float64(s))

	res, _ = Update(frame(near, nil, nil, ts), InitialState(), Options{ZScaleLimit: 3})
	assert.InDelta(t, 3*s, res.Instances[0].Scale[2], 1e-5)

	res, _ = Update(frame(-near, nil, nil, ts), InitialState(), Options{ZScaleLimit: 3})
	assert.InDelta(t, -3*Pulse(0, 0, -near), res.Instances[0].Scale[2], 1e-5)
}

func TestCaptureEdges(t *testing.T) {
	res, _ := Update(frame(1, []input.Key{input.KeyO, input.KeyP}, nil, nil), InitialState(), Options{})
	assert.False(t, res.CaptureGIF, "holding O is not a press")
	assert.False(t, res.Screenshot)

	res, _ = Update(frame(1, nil, []input.Key{input.KeyO}, nil), InitialState(), Options{})
	assert.True(t, res.CaptureGIF)
	assert.False(t, res.Screenshot)

	res, _ = Update(frame(1, nil, []input.Key{input.KeyP}, nil), InitialState(), Options{})
	assert.False(t, res.CaptureGIF)
	assert.True(t, res.Screenshot)
}

func TestDebugLatch(t *testing.T) {
	a := NewAnimator(Options{})
	step := func(held ...input.Key) Result {
		return a.Step(frame(0.5, held, nil, nil))
	}

	res := step(input.KeyLShift, input.KeyL)
	assert.True(t, res.ShowEditor)
	assert.True(t, a.State().Debug)

	res = step()
	assert.True(t, res.ShowEditor, "editor mirrors the latched flag with LShift up")

	res = step(input.KeyL)
	assert.True(t, res.ShowEditor)

	res = step(input.KeyLShift, input.KeyK)
	assert.False(t, res.ShowEditor)

	res = step(input.KeyK, input.KeyL)
	assert.False(t, res.ShowEditor, "L without LShift does nothing")

	res = step(input.KeyLShift, input.KeyL, input.KeyK)
	assert.False(t, res.ShowEditor, "K wins over L")
	assert.False(t, a.State().Debug)
}

func TestMouseHide(t *testing.T) {
	a := NewAnimator(Options{})
	assert.True(t, a.Step(frame(0, nil, nil, nil)).HideMouse)

	res := a.Step(frame(0, []input.Key{input.KeyLShift, input.KeyM}, nil, nil))
	assert.False(t, res.HideMouse)

	res = a.Step(frame(0, nil, nil, nil))
	assert.False(t, res.HideMouse, "mouse visibility only changes while LShift is held")

	res = a.Step(frame(0, []input.Key{input.KeyM}, nil, nil))
	assert.False(t, res.HideMouse)

	res = a.Step(frame(0, []input.Key{input.KeyLShift}, nil, nil))
	assert.True(t, res.HideMouse)
}

func TestExit(t *testing.T) {
	res, _ := Update(frame(3, []input.Key{input.KeyEscape}, nil, nil), InitialState(), Options{})
	assert.Equal(t, Finish, res.Status)

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		res, _ = Update(frame(rng.Float64()*1e4-5e3, nil, nil, nil), InitialState(), Options{})
		require.Equal(t, Continue, res.Status)
	}
	assert.Equal(t, "Finish", Finish.String())
	assert.Equal(t, "Continue", Continue.String())
}

func TestUpdateIsDeterministic(t *testing.T) {
	instances := gridInstances(t)
	f := frame(42.25, []input.Key{input.KeyD, input.KeyW, input.KeyLShift, input.KeyL}, []input.Key{input.KeyO}, instances)

	r1, s1 := Update(f, InitialState(), Options{})
	r2, s2 := Update(f, InitialState(), Options{})
	assert.Equal(t, r1, r2)
	assert.Equal(t, s1, s2)
}
