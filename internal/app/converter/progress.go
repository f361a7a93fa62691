package converter

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// ProgressConfig enables terminal progress output on Writer (stderr when nil)
type ProgressConfig struct {
	Enabled bool
	Writer  io.Writer
}

// ProgressManager owns the mpb container shared by import bars and job spinners.
// A disabled manager hands out inert bars, so callers never branch on it.
type ProgressManager struct {
	mu        sync.Mutex
	container *mpb.Progress
}

// ProgressBar counts imported files
type ProgressBar struct {
	bar *mpb.Bar
}

// Spinner shows a job in flight with a status line that follows SetStatus
type Spinner struct {
	bar    *mpb.Bar
	status atomic.Value
}

func NewProgressManager(cfg ProgressConfig) *ProgressManager {
	if !cfg.Enabled {
		return &ProgressManager{}
	}
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	return &ProgressManager{
		container: mpb.New(
			mpb.WithOutput(w),
			mpb.WithRefreshRate(150*time.Millisecond),
			mpb.WithWaitGroup(&sync.WaitGroup{}),
		),
	}
}

// CreateBar adds a counter bar of total files; total may be fixed later with SetTotal
func (pm *ProgressManager) CreateBar(total int, description string) *ProgressBar {
	if pm.container == nil {
		return &ProgressBar{}
	}
	pm.mu.Lock()
	defer pm.mu.Unlock()

	return &ProgressBar{bar: pm.container.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name(description, decor.WC{C: decor.DindentRight | decor.DextraSpace}),
			decor.CountersNoUnit("%d/%d files", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.OnComplete(decor.EwmaETA(decor.ET_STYLE_GO, 30, decor.WCSyncWidth), "done"),
		),
	)}
}

// CreateSpinner adds a spinner labelled description
func (pm *ProgressManager) CreateSpinner(description string) *Spinner {
	s := &Spinner{}
	s.status.Store("")
	if pm.container == nil {
		return s
	}
	pm.mu.Lock()
	defer pm.mu.Unlock()

	s.bar = pm.container.New(0, mpb.SpinnerStyle(),
		mpb.PrependDecorators(
			decor.Name(description, decor.WC{C: decor.DindentRight | decor.DextraSpace}),
			decor.Any(func(decor.Statistics) string { return s.status.Load().(string) }),
		),
		mpb.AppendDecorators(decor.Elapsed(decor.ET_STYLE_GO, decor.WCSyncSpace)),
	)
	return s
}

// SetStatus replaces the text shown next to the spinner
func (s *Spinner) SetStatus(status string) {
	s.status.Store(status)
}

// Stop completes the spinner
func (s *Spinner) Stop() {
	if s.bar != nil {
		s.bar.SetTotal(-1, true)
	}
}

func (pb *ProgressBar) Increment() {
	if pb.bar != nil {
		pb.bar.Increment()
	}
}

func (pb *ProgressBar) SetTotal(total int64) {
	if pb.bar != nil {
		pb.bar.SetTotal(total, false)
	}
}

// Complete marks the bar done at its current count
func (pb *ProgressBar) Complete() {
	if pb.bar != nil {
		pb.bar.SetTotal(-1, true)
	}
}

// Wait blocks until every bar has completed
func (pm *ProgressManager) Wait() {
	if pm.container != nil {
		pm.container.Wait()
	}
}

// Shutdown aborts rendering without waiting for bars
func (pm *ProgressManager) Shutdown() {
	if pm.container != nil {
		pm.container.Shutdown()
	}
}

// IsTTY reports whether w is a terminal
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ShouldShowProgress reports whether progress output belongs on this terminal
func ShouldShowProgress(forced bool) bool {
	return forced || IsTTY(os.Stderr)
}
