package reschedule

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/unavailability"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/observability/metrics"
)

// Options tune a suggestion run. Zero fields take the generator defaults,
// so HorizonDays 0 means the default horizon, never "today only"; pass 1 for
// today and tomorrow.
type Options struct {
	HorizonDays     int
	MaxSlotsPerDay  int
	SlotStepMinutes int

	// MaxHorizonDays caps HorizonDays. Only the generator defaults set it.
	MaxHorizonDays int

	// Avoid drops candidates whose interval touches one of these windows,
	// typically a window that is not persisted yet.
	Avoid []unavailability.Window
}

func DefaultOptions() Options {
	return Options{
		HorizonDays:     30,
		MaxSlotsPerDay:  8,
		SlotStepMinutes: 15,
		MaxHorizonDays:  90,
	}
}

// withDefaults fills zero fields from def.
func (o Options) withDefaults(def Options) Options {
	if o.HorizonDays == 0 {
		o.HorizonDays = def.HorizonDays
	}
	if o.MaxSlotsPerDay == 0 {
		o.MaxSlotsPerDay = def.MaxSlotsPerDay
	}
	if o.SlotStepMinutes <= 0 {
		o.SlotStepMinutes = def.SlotStepMinutes
	}
	if o.MaxHorizonDays <= 0 {
		o.MaxHorizonDays = def.MaxHorizonDays
	}
	return o
}

type Candidate struct {
	Date  schedule.Date        `json:"date"`
	Times []schedule.LocalTime `json:"times"`
}

type Suggestion struct {
	AppointmentID uint        `json:"appointment_id"`
	Candidates    []Candidate `json:"candidates"`
}

// Generator proposes free slots for appointments that must move.
type Generator struct {
	detector *availability.Detector
	defaults Options
	metrics  *metrics.EngineMetrics
}

func NewGenerator(
	detector *availability.Detector,
	defaults Options,
	m *metrics.EngineMetrics,
) *Generator {
	return &Generator{
		detector: detector,
		defaults: defaults.withDefaults(DefaultOptions()),
		metrics:  m,
	}
}

// Suggest scans from today through today+HorizonDays, at most
// MaxHorizonDays ahead. An empty candidate
// list means no automatic suggestion exists.
func (g *Generator) Suggest(
	ctx context.Context,
	ap appointment.Appointment,
	opts Options,
) (Suggestion, error) {

	started := time.Now()
	defer func() {
		g.metrics.ObserveSuggestions(time.Since(started).Seconds())
	}()

	opts = opts.withDefaults(g.defaults)
	if opts.HorizonDays < 0 || opts.HorizonDays > g.defaults.MaxHorizonDays {
		return Suggestion{}, httperr.ErrBusiness("invalid_horizon")
	}
	if opts.MaxSlotsPerDay < 0 {
		return Suggestion{}, httperr.ErrBusiness("invalid_max_slots")
	}
	if ap.DurationMinutes <= 0 {
		return Suggestion{}, httperr.ErrBusiness("invalid_duration")
	}

	now := g.detector.Now()
	today := schedule.DateOf(now)

	days, err := g.detector.LoadDays(ctx, ap.DoctorID, today, today.AddDays(opts.HorizonDays))
	if err != nil {
		return Suggestion{}, err
	}

	check := availability.CheckOptions{ExcludeAppointmentID: ap.ID}

	out := Suggestion{
		AppointmentID: ap.ID,
		Candidates:    []Candidate{},
	}
	for _, day := range days {
		times := g.collect(now, day, ap.DurationMinutes, opts, check)
		if len(times) == 0 {
			continue
		}
		out.Candidates = append(out.Candidates, Candidate{Date: day.Date, Times: times})
	}

	return out, nil
}

// SlotsForDay lists every valid start on date. MaxSlotsPerDay < 0 means
// no limit.
func (g *Generator) SlotsForDay(
	ctx context.Context,
	doctorID uint,
	date schedule.Date,
	durationMinutes int,
	opts Options,
	check availability.CheckOptions,
) ([]schedule.LocalTime, error) {

	if durationMinutes <= 0 {
		return nil, httperr.ErrBusiness("invalid_duration")
	}
	opts = opts.withDefaults(g.defaults)

	day, err := g.detector.LoadDay(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}

	return g.collect(g.detector.Now(), day, durationMinutes, opts, check), nil
}

func (g *Generator) collect(
	now time.Time,
	day *availability.Day,
	durationMinutes int,
	opts Options,
	check availability.CheckOptions,
) []schedule.LocalTime {

	times := []schedule.LocalTime{}
	if day.Schedule == nil {
		return times
	}

	rules := g.detector.Rules()
	duration := time.Duration(durationMinutes) * time.Minute
	last := day.Schedule.End.Add(-durationMinutes)

	for t := day.Schedule.Start; t <= last; t = t.Add(opts.SlotStepMinutes) {
		start := t.On(day.Date, rules.Location)

		if avoided(opts.Avoid, start, start.Add(duration)) {
			continue
		}

		if v := availability.Evaluate(rules, now, day, start, durationMinutes, check); !v.Valid {
			continue
		}

		times = append(times, t)
		if opts.MaxSlotsPerDay > 0 && len(times) >= opts.MaxSlotsPerDay {
			break
		}
	}

	return times
}

func avoided(windows []unavailability.Window, start, end time.Time) bool {
	for _, w := range windows {
		if w.Intersects(start, end) {
			return true
		}
	}
	return false
}
