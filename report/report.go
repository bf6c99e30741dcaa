package report

import (
	"fmt"
	"io"
	"time"

	particle "github.com/esimov/ascii-seasons/particle-system"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"go.uber.org/zap"
)

// Sample is the state of one pool after a tick.
type Sample struct {
	Tick      uint64
	Time      float64
	Count     int
	MeanAlpha float64
	MeanSize  float64
	// Resets is the number of particles recycled during the tick.
	Resets uint64
	// Impulse reports whether the impulse field was pushing.
	Impulse bool
}

// Recorder collects per pool statistics from driver frames.
type Recorder struct {
	order   []string
	samples map[string][]Sample
	resets  map[string]uint64
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		samples: make(map[string][]Sample),
		resets:  make(map[string]uint64),
	}
}

// Record samples every pool of f. It is meant to be a Driver frame callback.
func (r *Recorder) Record(f particle.Frame) {
	for _, pl := range f.Pools {
		name := pl.Species().Name
		if _, ok := r.samples[name]; !ok {
			r.order = append(r.order, name)
		}
		s := Sample{
			Tick:    f.Tick,
			Time:    f.Time,
			Count:   pl.Len(),
			Resets:  pl.Resets() - r.resets[name],
			Impulse: f.Impulse.Active(),
		}
		r.resets[name] = pl.Resets()

		for i := 0; i < pl.Len(); i++ {
			p := pl.At(i)
			s.MeanAlpha += p.Alpha()
			s.MeanSize += p.Size()
		}
		if s.Count > 0 {
			s.MeanAlpha /= float64(s.Count)
			s.MeanSize /= float64(s.Count)
		}
		r.samples[name] = append(r.samples[name], s)
	}
}

// Species lists the recorded pools in registration order.
func (r *Recorder) Species() []string {
	return r.order
}

// Samples returns the samples of one pool.
func (r *Recorder) Samples(species string) []Sample {
	return r.samples[species]
}

// Options controls a headless run.
type Options struct {
	Bounds particle.Bounds
	Ticks  int
	FPS    int
	// ClickAt triggers an impulse in the middle of the surface at the given tick, 0 for none.
	ClickAt int
	Rand    particle.Rand
	Log     *zap.SugaredLogger
}

// Run animates profile without a display: time advances by exactly 1/FPS per tick.
func Run(profile particle.Profile, o Options) (*Recorder, error) {
	if o.Ticks <= 0 {
		return nil, fmt.Errorf("tick count %d must be positive", o.Ticks)
	}
	if o.FPS <= 0 {
		o.FPS = 60
	}
	pools, err := profile.Pools(o.Bounds, o.Rand)
	if err != nil {
		return nil, err
	}

	sched := particle.NewManualScheduler()
	clock := particle.NewManualTimeProvider(time.Unix(0, 0))
	d := particle.NewDriver(sched,
		particle.WithTimeProvider(clock),
		particle.WithImpulse(profile.NewImpulse()),
		particle.WithLogger(o.Log),
	)
	d.Register(pools...)

	rec := NewRecorder()
	d.OnFrame(rec.Record)

	step := time.Second / time.Duration(o.FPS)
	d.Start()
	for tick := 1; tick <= o.Ticks; tick++ {
		if tick == o.ClickAt {
			d.Trigger(o.Bounds.Width/2, o.Bounds.Height/2)
		}
		sched.Fire()
		clock.Advance(step)
	}
	d.Stop()
	return rec, nil
}

// Render writes one line chart per recorded pool as a standalone HTML page.
func (r *Recorder) Render(w io.Writer, title string) error {
	page := components.NewPage().SetPageTitle(title)

	for _, name := range r.order {
		samples := r.samples[name]
		ticks := make([]uint64, len(samples))
		alpha := make([]opts.LineData, len(samples))
		size := make([]opts.LineData, len(samples))
		resets := make([]opts.LineData, len(samples))
		for i, s := range samples {
			ticks[i] = s.Tick
			alpha[i] = opts.LineData{Value: s.MeanAlpha}
			size[i] = opts.LineData{Value: s.MeanSize}
			resets[i] = opts.LineData{Value: s.Resets}
		}

		line := charts.NewLine()
		line.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{
				Title:    name,
				Subtitle: fmt.Sprintf("%d particles", samples[0].Count),
			}),
			charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
			charts.WithXAxisOpts(opts.XAxis{Name: "tick"}),
		)
		line.SetXAxis(ticks).
			AddSeries("mean alpha", alpha).
			AddSeries("mean size", size).
			AddSeries("resets", resets)
		page.AddCharts(line)
	}
	return page.Render(w)
}
