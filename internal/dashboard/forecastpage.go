package dashboard

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hcmaqi/aqidash/internal/airquality"
	"github.com/hcmaqi/aqidash/internal/forecast"
)

// FailedToLoadMessage is shown whenever a forecast fetch fails, regardless of cause.
const FailedToLoadMessage = "Failed to load data"

// DefaultStation is selected when the forecast page mounts.
const DefaultStation = 3

// Status is the forecast page's data state.
type Status string

const (
	StatusLoading Status = "loading"
	StatusError   Status = "error"
	StatusReady   Status = "ready"
)

// Source fetches forecast records for a station.
type Source interface {
	FetchForecast(ctx context.Context, stationID int) ([]forecast.Record, error)
}

// ChartPoint is one point of the AQI chart series.
type ChartPoint struct {
	Hour         int     `json:"hour"`
	AQI          float64 `json:"AQI"`
	MaxPollutant float64 `json:"maxPollutant"`
}

// HourBlock is one entry of the hourly forecast strip.
type HourBlock struct {
	Time      string `json:"time"`
	Value     string `json:"value"`
	Pollutant string `json:"pollutant"`
	Class     string `json:"class"`
}

// ForecastView is the rendered content of a ready forecast page.
type ForecastView struct {
	CurrentTime       string       `json:"currentTime"`
	TrendingPollutant string       `json:"trendingPollutant"`
	Chart             []ChartPoint `json:"chart"`
	Hours             []HourBlock  `json:"hours"`
}

// ForecastState is a point-in-time copy of the forecast page.
type ForecastState struct {
	Status     Status        `json:"status"`
	Station    int           `json:"station"`
	Stations   []int         `json:"stations"`
	Error      string        `json:"error,omitempty"`
	ChartWidth int           `json:"chartWidth"`
	View       *ForecastView `json:"view,omitempty"`
}

// BuildForecastView normalizes records into the chart series and the hourly strip.
// Both have exactly len(records) entries, index-aligned, and entry 0 is labeled "Now".
func BuildForecastView(records []forecast.Record, n *airquality.Normalizer, f *TimeFormatter, now time.Time) ForecastView {
	normalized := n.Normalize(records)
	labels := f.HourLabels(now, len(normalized))

	view := ForecastView{
		CurrentTime:       f.Format(now),
		TrendingPollutant: airquality.TrendingPollutant(records),
		Chart:             make([]ChartPoint, len(normalized)),
		Hours:             make([]HourBlock, len(normalized)),
	}

	for i, entry := range normalized {
		view.Chart[i] = ChartPoint{
			Hour:         entry.Hour,
			AQI:          entry.AQI,
			MaxPollutant: entry.PollutantLevel,
		}

		// The block is classified on the value as displayed, rounded to one decimal.
		value := strconv.FormatFloat(entry.AQI, 'f', 1, 64)
		shown, _ := strconv.ParseFloat(value, 64)
		view.Hours[i] = HourBlock{
			Time:      labels[i],
			Value:     value,
			Pollutant: entry.Pollutant,
			Class:     "hour-block " + airquality.StyleClass(shown, "forecast"),
		}
	}

	return view
}

// ForecastPageConfig configures a ForecastPage.
type ForecastPageConfig struct {
	Source     Source
	Normalizer *airquality.Normalizer
	Formatter  *TimeFormatter

	// Stations are the selectable station ids (default 1-4).
	Stations []int

	// DefaultStation is selected on Mount (default 3).
	DefaultStation int

	// Viewport, when set, drives the chart width while the page is mounted.
	Viewport *Viewport

	// Clock returns the rendering time (default time.Now).
	Clock func() time.Time

	Logger zerolog.Logger
}

// ForecastPage is the forecast page's state machine. Every station selection
// enters loading and starts one fetch tagged with a generation number; a result
// is applied only if no later selection has been made since.
type ForecastPage struct {
	source     Source
	normalizer *airquality.Normalizer
	formatter  *TimeFormatter
	stations   []int
	defaultID  int
	viewport   *Viewport
	clock      func() time.Time
	logger     zerolog.Logger

	mu          sync.Mutex
	status      Status
	station     int
	errMsg      string
	records     []forecast.Record
	generation  uint64
	inflight    map[uint64]context.CancelFunc
	chartWidth  int
	unsubscribe func()
	closed      bool
	wg          sync.WaitGroup
}

// NewForecastPage creates an unmounted forecast page in the loading state.
func NewForecastPage(cfg ForecastPageConfig) *ForecastPage {
	stations := cfg.Stations
	if len(stations) == 0 {
		stations = []int{1, 2, 3, 4}
	}
	defaultID := cfg.DefaultStation
	if defaultID == 0 {
		defaultID = DefaultStation
	}
	normalizer := cfg.Normalizer
	if normalizer == nil {
		normalizer = airquality.NewNormalizer(nil, nil)
	}
	formatter := cfg.Formatter
	if formatter == nil {
		formatter = NewTimeFormatter(nil)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	return &ForecastPage{
		source:     cfg.Source,
		normalizer: normalizer,
		formatter:  formatter,
		stations:   append([]int(nil), stations...),
		defaultID:  defaultID,
		viewport:   cfg.Viewport,
		clock:      clock,
		logger:     cfg.Logger,
		status:     StatusLoading,
		station:    defaultID,
		inflight:   make(map[uint64]context.CancelFunc),
		chartWidth: MaxChartWidth,
	}
}

// Mount subscribes to viewport resizes and selects the default station.
// The returned channel is closed once that first fetch has settled.
func (p *ForecastPage) Mount(ctx context.Context) <-chan struct{} {
	if p.viewport != nil {
		p.mu.Lock()
		if !p.closed && p.unsubscribe == nil {
			if w := p.viewport.Width(); w > 0 {
				p.chartWidth = ChartWidth(w)
			}
			p.unsubscribe = p.viewport.Subscribe(p.resize)
		}
		p.mu.Unlock()
	}
	return p.Select(ctx, p.defaultID)
}

// Select switches to stationID: the page enters loading, clears any error, and
// fetches. The returned channel is closed when the fetch has been applied or discarded.
func (p *ForecastPage) Select(ctx context.Context, stationID int) <-chan struct{} {
	done := make(chan struct{})

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		close(done)
		return done
	}
	p.generation++
	gen := p.generation
	p.station = stationID
	p.status = StatusLoading
	p.errMsg = ""
	fetchCtx, cancel := context.WithCancel(ctx)
	p.inflight[gen] = cancel
	p.wg.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.wg.Done()
		defer close(done)
		defer cancel()

		records, err := p.source.FetchForecast(fetchCtx, stationID)
		p.apply(gen, stationID, records, err)
	}()

	return done
}

func (p *ForecastPage) apply(gen uint64, stationID int, records []forecast.Record, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.inflight, gen)
	if p.closed {
		return
	}
	if gen != p.generation {
		p.logger.Debug().
			Int("station", stationID).
			Int("selected_station", p.station).
			Msg("discarding superseded forecast response")
		return
	}

	if err != nil {
		p.status = StatusError
		p.errMsg = FailedToLoadMessage
		p.records = nil
		return
	}

	p.status = StatusReady
	p.records = records
}

func (p *ForecastPage) resize(containerWidth int) {
	if containerWidth <= 0 {
		return
	}
	p.mu.Lock()
	p.chartWidth = ChartWidth(containerWidth)
	p.mu.Unlock()
}

// Stations returns the selectable station ids.
func (p *ForecastPage) Stations() []int {
	return append([]int(nil), p.stations...)
}

// HasStation reports whether stationID is selectable.
func (p *ForecastPage) HasStation(stationID int) bool {
	for _, id := range p.stations {
		if id == stationID {
			return true
		}
	}
	return false
}

// Snapshot returns the current state; View is set only when the status is ready.
func (p *ForecastPage) Snapshot() ForecastState {
	p.mu.Lock()
	defer p.mu.Unlock()

	state := ForecastState{
		Status:     p.status,
		Station:    p.station,
		Stations:   append([]int(nil), p.stations...),
		Error:      p.errMsg,
		ChartWidth: p.chartWidth,
	}
	if p.status == StatusReady {
		view := BuildForecastView(p.records, p.normalizer, p.formatter, p.clock())
		state.View = &view
	}
	return state
}

// Close releases the viewport subscription, cancels in-flight fetches, and
// waits for them to return. Results arriving after Close are dropped.
func (p *ForecastPage) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	for _, cancel := range p.inflight {
		cancel()
	}
	unsubscribe := p.unsubscribe
	p.unsubscribe = nil
	p.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	p.wg.Wait()
}
