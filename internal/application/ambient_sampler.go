package application

import (
	"image"
	"sync"
	"time"
)

// Downsample raster the video frame is reduced to before band averaging.
const (
	sampleWidth  = 16
	sampleHeight = 9
	bandCount    = 3
)

// defaultFrameInterval approximates a 60 Hz display refresh.
const defaultFrameInterval = time.Second / 60

// RGB is one averaged color channel triple.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// AmbientColors are the three representative colors derived from the top,
// middle and bottom bands of a frame.
type AmbientColors struct {
	Dominant  RGB `json:"dominant"`
	Secondary RGB `json:"secondary"`
	Accent    RGB `json:"accent"`
}

// FrameSource supplies video frames to sample. Frame may fail (e.g. the
// source forbids reads); the sampler skips that tick and keeps the previous
// colors.
type FrameSource interface {
	Playing() bool
	Frame() (image.Image, error)
}

// ScheduleFunc schedules fn to run once after roughly one display frame and
// returns a cancel function. The sampler chains ticks through it so the
// cadence tracks the scheduler, not a fixed interval.
type ScheduleFunc func(fn func()) (cancel func())

// AmbientSampler derives background theming colors from the playing video.
// While enabled it samples one frame per scheduled tick; disabling clears
// the published colors and halts the loop.
type AmbientSampler struct {
	source   FrameSource
	schedule ScheduleFunc

	mu      sync.Mutex
	enabled bool
	cancel  func()
	colors  *AmbientColors
}

// NewAmbientSampler creates a sampler driven by a 60 Hz frame scheduler.
func NewAmbientSampler(source FrameSource) *AmbientSampler {
	return &AmbientSampler{
		source: source,
		schedule: func(fn func()) func() {
			t := time.AfterFunc(defaultFrameInterval, fn)
			return func() { t.Stop() }
		},
	}
}

// Enable starts the per-frame sampling loop. Enabling an enabled sampler is
// a no-op.
func (s *AmbientSampler) Enable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enabled {
		return
	}
	s.enabled = true
	s.cancel = s.schedule(s.tick)
}

// Disable clears the published colors and halts the loop. Idempotent; always
// called on teardown so no scheduled callback leaks.
func (s *AmbientSampler) Disable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.colors = nil
}

// Colors returns the last published sample, if any.
func (s *AmbientSampler) Colors() (AmbientColors, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.colors == nil {
		return AmbientColors{}, false
	}
	return *s.colors, true
}

// tick samples one frame and chains the next tick while enabled.
func (s *AmbientSampler) tick() {
	s.sampleOnce()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enabled {
		s.cancel = s.schedule(s.tick)
	}
}

// sampleOnce reads the current frame and publishes the band colors. A frame
// read error or a paused source skips the update.
func (s *AmbientSampler) sampleOnce() {
	if !s.source.Playing() {
		return
	}
	frame, err := s.source.Frame()
	if err != nil || frame == nil {
		return
	}

	colors := sampleBands(frame)

	s.mu.Lock()
	if s.enabled {
		s.colors = &colors
	}
	s.mu.Unlock()
}

// sampleBands downsamples the frame to a 16x9 raster, splits it into three
// equal horizontal bands and averages each band's channels.
func sampleBands(frame image.Image) AmbientColors {
	bounds := frame.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	var sums [bandCount][3]uint64
	var counts [bandCount]uint64

	for y := 0; y < sampleHeight; y++ {
		band := y * bandCount / sampleHeight
		srcY := bounds.Min.Y + (y*h+h/2)/sampleHeight
		for x := 0; x < sampleWidth; x++ {
			srcX := bounds.Min.X + (x*w+w/2)/sampleWidth
			r, g, b, _ := frame.At(srcX, srcY).RGBA()
			sums[band][0] += uint64(r >> 8)
			sums[band][1] += uint64(g >> 8)
			sums[band][2] += uint64(b >> 8)
			counts[band]++
		}
	}

	var bands [bandCount]RGB
	for i := range bands {
		if counts[i] == 0 {
			continue
		}
		bands[i] = RGB{
			R: uint8(sums[i][0] / counts[i]),
			G: uint8(sums[i][1] / counts[i]),
			B: uint8(sums[i][2] / counts[i]),
		}
	}

	return AmbientColors{Dominant: bands[0], Secondary: bands[1], Accent: bands[2]}
}
