package capture

import (
	"context"
	"image"
	"sync"
	"time"

	"contours/internal/config"
	"contours/internal/logging"
	"contours/internal/profiling"
)

// Kind selects what a captured frame is used for.
type Kind int

const (
	KindGIFFrame Kind = iota
	KindScreenshot
)

func (k Kind) String() string {
	switch k {
	case KindGIFFrame:
		return "gif frame"
	case KindScreenshot:
		return "screenshot"
	}
	return "unknown"
}

type job struct {
	kind Kind
	img  image.Image
	at   time.Time
}

// Service writes captured frames on a single background worker so the
// render loop never waits on encoding or disk.
type Service struct {
	cfg config.CaptureConfig
	log logging.Logger

	gif *GIF

	jobs   chan job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool

	// called after each job, for tests
	onDone func(Kind, string, error)
}

// NewService opens the GIF target and starts the worker.
func NewService(cfg config.CaptureConfig, log logging.Logger) (*Service, error) {
	g, err := OpenGIF(cfg.GIFPath, cfg.GIFScale, cfg.GIFDelay, log)
	if err != nil {
		return nil, err
	}
	if g.Len() > 0 {
		log.Infof("appending to %s (%d existing frames)", g.Path(), g.Len())
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		cfg:    cfg,
		log:    log,
		gif:    g,
		jobs:   make(chan job, max(cfg.QueueSize, 1)),
		ctx:    ctx,
		cancel: cancel,
	}

	s.wg.Add(1)
	go s.worker()
	return s, nil
}

// RequestGIFFrame queues img for the GIF. It reports false if the request
// was dropped.
func (s *Service) RequestGIFFrame(img image.Image) bool {
	return s.submit(job{kind: KindGIFFrame, img: img, at: time.Now()})
}

// RequestScreenshot queues img to be written as a PNG. It reports false if
// the request was dropped.
func (s *Service) RequestScreenshot(img image.Image) bool {
	return s.submit(job{kind: KindScreenshot, img: img, at: time.Now()})
}

func (s *Service) submit(j job) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.log.Warnf("capture service stopped, dropping %s", j.kind)
		return false
	}

	select {
	case s.jobs <- j:
		return true
	default:
		s.log.Warnf("capture queue full, dropping %s", j.kind)
		return false
	}
}

// Pending returns the number of queued requests.
func (s *Service) Pending() int {
	return len(s.jobs)
}

func (s *Service) worker() {
	defer s.wg.Done()

	for {
		select {
		case j, ok := <-s.jobs:
			if !ok {
				return
			}
			s.process(j)
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Service) process(j job) {
	defer profiling.Track("capture." + j.kind.String())()

	var (
		path string
		err  error
	)
	switch j.kind {
	case KindGIFFrame:
		path = s.gif.Path()
		err = s.gif.Append(j.img)
		if err == nil {
			s.log.Infof("added frame %d to %s", s.gif.Len(), path)
		}
	case KindScreenshot:
		path, err = WriteScreenshot(s.cfg.ScreenshotDir, j.img, j.at)
		if err == nil {
			s.log.Infof("saved screenshot %s", path)
		}
	}
	if err != nil {
		s.log.Errorf("%s failed: %v", j.kind, err)
	}

	if s.onDone != nil {
		s.onDone(j.kind, path, err)
	}
}

// Shutdown stops accepting requests and waits for the queued ones to be
// written.
func (s *Service) Shutdown() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.jobs)
	s.mu.Unlock()

	s.wg.Wait()
	s.cancel()
}

// Abort stops the worker without writing the queued requests.
func (s *Service) Abort() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}
