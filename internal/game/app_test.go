package game

import (
	"bytes"
	"testing"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contours/internal/animation"
	"contours/internal/config"
	"contours/internal/input"
	"contours/internal/logging"
	"contours/internal/scene"
	"contours/internal/shaders"
)

func newScene(t *testing.T) *scene.Scene {
	t.Helper()
	s, err := scene.New(config.DefaultConfig(), shaders.NewRegistry())
	require.NoError(t, err)
	return s
}

func TestApplyResult_FollowsUpdate(t *testing.T) {
	s := newScene(t)
	var out bytes.Buffer
	log := logging.NewWithWriters("test", false, &out, &out)

	a := animation.NewAnimator(animation.Options{})
	held := []input.Key{input.KeyW, input.KeyE, input.KeyLShift, input.KeyL}
	res := a.Step(animation.Frame{Time: 1, Input: input.NewSnapshot(held, nil), Instances: s.Item.Instances})
	applyResult(s, res, log)

	assert.Equal(t, shaders.ContoursColor, s.Item.Material.ShaderName)
	assert.Equal(t, float32(3), s.Post.BlurRadius)
	assert.True(t, s.ShowEditor)
	assert.Equal(t, res.Instances, s.Item.Instances)
	assert.Empty(t, out.String())

	// release everything, the debug flag stays latched
	res = a.Step(animation.Frame{Time: 2, Instances: s.Item.Instances})
	applyResult(s, res, log)
	assert.True(t, s.ShowEditor)
	assert.Equal(t, shaders.Contours, s.Item.Material.ShaderName)
}

func TestApplyResult_LogsErrors(t *testing.T) {
	s := newScene(t)
	var out bytes.Buffer
	log := logging.NewWithWriters("test", false, &out, &out)

	res := animation.Result{}
	res.ShaderName = "missing"
	res.Instances = s.Item.Instances[:1]
	applyResult(s, res, log)

	assert.Contains(t, out.String(), "apply frame")
	assert.Equal(t, shaders.Contours, s.Item.Material.ShaderName)
	assert.Len(t, s.Item.Instances, scene.InstanceCount)
}

func TestSyncEditor(t *testing.T) {
	s := newScene(t)
	var out bytes.Buffer
	log := logging.NewWithWriters("test", true, &out, &out)
	app := &App{scene: s, log: log}

	// configured debug level survives until the editor is toggled
	app.syncEditor()
	assert.True(t, log.DebugEnabled())
	assert.Empty(t, out.String())

	s.ShowEditor = true
	app.syncEditor()
	assert.True(t, log.DebugEnabled())
	assert.Contains(t, out.String(), "editor shown")

	s.ShowEditor = false
	app.syncEditor()
	assert.False(t, log.DebugEnabled())
}

func TestCursorMode(t *testing.T) {
	assert.Equal(t, glfw.CursorHidden, cursorMode(true))
	assert.Equal(t, glfw.CursorNormal, cursorMode(false))
}

func TestFPSCounter(t *testing.T) {
	var c fpsCounter
	base := time.Unix(100, 0)

	for i := 0; i < 30; i++ {
		_, ok := c.Tick(base.Add(time.Duration(i) * 10 * time.Millisecond))
		assert.False(t, ok)
	}
	assert.Zero(t, c.Current())

	fps, ok := c.Tick(base.Add(time.Second))
	assert.True(t, ok)
	assert.Equal(t, 31, fps)
	assert.Equal(t, 31, c.Current())

	_, ok = c.Tick(base.Add(1500 * time.Millisecond))
	assert.False(t, ok)
}

func TestFPSLimiter_Uncapped(t *testing.T) {
	prev := config.GetFPSLimit()
	defer config.SetFPSLimit(prev)

	config.SetFPSLimit(0)
	f := NewFPSLimiter()
	start := time.Now()
	for i := 0; i < 100; i++ {
		f.Wait(false)
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.True(t, f.next.IsZero())
}

func TestFPSLimiter_Paces(t *testing.T) {
	prev := config.GetFPSLimit()
	defer config.SetFPSLimit(prev)

	config.SetFPSLimit(100)
	f := NewFPSLimiter()
	start := time.Now()
	for i := 0; i < 5; i++ {
		f.Wait(false)
	}
	assert.GreaterOrEqual(t, time.Since(start), 45*time.Millisecond)
}

func TestFPSLimiter_IdleIgnoresUncapped(t *testing.T) {
	prev := config.GetFPSLimit()
	defer config.SetFPSLimit(prev)

	config.SetFPSLimit(0)
	f := NewFPSLimiter()
	start := time.Now()
	for i := 0; i < 3; i++ {
		f.Wait(true)
	}
	// three frames at idleFPS
	assert.GreaterOrEqual(t, time.Since(start), 190*time.Millisecond)
	assert.False(t, f.next.IsZero())
}
