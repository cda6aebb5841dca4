package source

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/ShayCichocki/daneel/internal/state"
	"github.com/ShayCichocki/daneel/pkg/models"
)

// Simulator defaults.
const (
	DefaultThoughtInterval = 250 * time.Millisecond
	DefaultPersistInterval = 10 * time.Second
	DefaultAgentName       = "Timmy"

	// recentThoughts bounds the thoughts carried in each snapshot.
	recentThoughts = 64
	// retainedVetoes bounds the veto history carried in each snapshot.
	retainedVetoes = 200
	vetoChance     = 0.05
)

var coreValues = []string{"honesty", "care", "autonomy", "fairness", "privacy"}

var thoughtFragments = []string{
	"noticing a pattern in recent inputs",
	"revisiting an earlier conclusion",
	"linking two unrelated memories",
	"estimating how long the current task will take",
	"checking a plan against stated values",
	"wondering whether the last answer was clear",
	"consolidating a frequently used association",
	"letting a low-salience idea fade",
	"rehearsing a response before expressing it",
	"comparing this session with the previous one",
}

var vetoReasons = []string{
	"candidate response overstated certainty",
	"thought would disclose private context",
	"plan bypassed the user's stated preference",
	"framing favoured one party without cause",
	"impulse to act without being asked",
}

// Store is the persistence the simulator needs. Nil disables persistence.
type Store interface {
	state.CounterStore
	state.SessionStore
}

// SimulatorConfig configures a Simulator.
type SimulatorConfig struct {
	AgentName       string
	Interval        time.Duration
	PersistInterval time.Duration
	Store           Store
	Logger          Logger
	// Seed makes the generated stream reproducible when non-zero.
	Seed uint64
}

// Simulator is a stand-in cognitive pipeline that produces plausible
// thoughts, memories and vetoes for the dashboard to observe.
type Simulator struct {
	cfg    SimulatorConfig
	out    *Latest
	rng    *rand.Rand
	logger Logger

	session  state.Session
	started  time.Time
	baseline state.Counters

	seq         uint64
	thoughts    uint64
	vetoCount   uint64
	memories    uint64
	unconscious uint64
	windows     [models.MemoryWindowCount]bool
	recent      []models.Thought
	vetoes      []models.VetoRecord
}

// NewSimulator creates a simulator publishing into out.
func NewSimulator(cfg SimulatorConfig, out *Latest) *Simulator {
	if cfg.AgentName == "" {
		cfg.AgentName = DefaultAgentName
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultThoughtInterval
	}
	if cfg.PersistInterval <= 0 {
		cfg.PersistInterval = DefaultPersistInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = nopLogger{}
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Simulator{
		cfg:    cfg,
		out:    out,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		logger: logger,
	}
}

// Start loads the lifetime baseline, records the session and publishes the
// first snapshot.
func (s *Simulator) Start(ctx context.Context, now time.Time) error {
	s.started = now
	s.session = state.Session{
		ID:        uuid.NewString(),
		AgentName: s.cfg.AgentName,
		StartedAt: now,
	}
	for i := 0; i < 4; i++ {
		s.windows[i] = true
	}

	if s.cfg.Store != nil {
		c, err := s.cfg.Store.LoadCounters(ctx)
		if err != nil {
			return fmt.Errorf("load lifetime counters: %w", err)
		}
		s.baseline = c
		if err := s.cfg.Store.CreateSession(ctx, &s.session); err != nil {
			return fmt.Errorf("record session: %w", err)
		}
	}
	s.logger.Log("simulator session %s started (lifetime thoughts %d)", s.session.ID, s.baseline.Thoughts)
	s.out.Publish(s.snapshot(now))
	return nil
}

// Run steps the simulation until ctx is cancelled, persisting counters
// periodically and once more on the way out. Run calls Start if the caller
// has not.
func (s *Simulator) Run(ctx context.Context) error {
	if s.session.ID == "" {
		if err := s.Start(ctx, time.Now()); err != nil {
			return err
		}
	}

	step := time.NewTicker(s.cfg.Interval)
	defer step.Stop()
	persist := time.NewTicker(s.cfg.PersistInterval)
	defer persist.Stop()

	for {
		select {
		case <-ctx.Done():
			end := time.Now()
			s.session.EndedAt = &end
			// The run context is gone; the final save gets its own deadline.
			saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
			defer cancel()
			return s.persist(saveCtx)
		case now := <-step.C:
			s.Step(now)
		case <-persist.C:
			if err := s.persist(ctx); err != nil {
				s.logger.Log("persist counters: %v", err)
			}
		}
	}
}

// Step advances the simulation by one candidate thought and publishes.
func (s *Simulator) Step(now time.Time) {
	salience := s.salience()
	s.seq++

	if s.rng.Float64() < vetoChance {
		s.veto(now)
	} else {
		s.thoughts++
		s.recent = append(s.recent, models.Thought{
			Seq:       s.seq,
			ID:        uuid.NewString(),
			Timestamp: now,
			Salience:  salience,
			Text:      thoughtFragments[s.rng.IntN(len(thoughtFragments))],
		})
		if len(s.recent) > recentThoughts {
			s.recent = s.recent[len(s.recent)-recentThoughts:]
		}
		if salience >= 0.7 {
			s.memories++
		}
	}

	if s.memories > 0 && s.rng.Float64() < 0.02 {
		s.memories--
		s.unconscious++
	}
	if s.rng.Float64() < 0.3 {
		i := s.rng.IntN(len(s.windows))
		s.windows[i] = !s.windows[i]
	}

	s.out.Publish(s.snapshot(now))
}

func (s *Simulator) veto(now time.Time) {
	s.vetoCount++
	rec := models.VetoRecord{
		ID:        uuid.NewString(),
		Timestamp: now,
		Reason:    vetoReasons[s.rng.IntN(len(vetoReasons))],
	}
	// Some vetoes carry no value label.
	if s.rng.IntN(5) > 0 {
		v := coreValues[s.rng.IntN(len(coreValues))]
		rec.ViolatedValue = &v
	}
	s.vetoes = append(s.vetoes, rec)
	if len(s.vetoes) > retainedVetoes {
		s.vetoes = s.vetoes[len(s.vetoes)-retainedVetoes:]
	}
}

// salience skews towards the middle of [0,1] with an occasional spike.
func (s *Simulator) salience() float32 {
	v := (s.rng.Float32() + s.rng.Float32()) / 2
	if s.rng.IntN(20) == 0 {
		v = 0.9 + s.rng.Float32()*0.1
	}
	return v
}

func (s *Simulator) lifetime() state.Counters {
	return s.baseline.Add(state.Counters{Thoughts: s.thoughts, Vetoes: s.vetoCount})
}

func (s *Simulator) persist(ctx context.Context) error {
	if s.cfg.Store == nil {
		return nil
	}
	if err := s.cfg.Store.SaveCounters(ctx, s.lifetime()); err != nil {
		return err
	}
	s.session.Thoughts = s.thoughts
	s.session.Vetoes = s.vetoCount
	return s.cfg.Store.UpdateSession(ctx, &s.session)
}

// snapshot builds an immutable copy of the current state.
func (s *Simulator) snapshot(now time.Time) *models.Snapshot {
	uptime := now.Sub(s.started)
	if uptime < 0 {
		uptime = 0
	}
	var rate float64
	if hours := uptime.Hours(); hours > 0 {
		rate = float64(s.thoughts) / hours
	}

	windows := make([]models.MemoryWindow, len(s.windows))
	for i, active := range s.windows {
		windows[i].Active = active
	}

	return &models.Snapshot{
		SessionID:            s.session.ID,
		AgentName:            s.cfg.AgentName,
		Uptime:               uptime,
		ThoughtCount:         s.thoughts,
		LifetimeThoughtCount: s.lifetime().Thoughts,
		ThoughtsPerHour:      rate,
		MemoryCount:          s.memories,
		UnconsciousCount:     s.unconscious,
		MemoryWindows:        windows,
		Vetoes:               append([]models.VetoRecord(nil), s.vetoes...),
		VetoCount:            s.lifetime().Vetoes,
		RecentThoughts:       append([]models.Thought(nil), s.recent...),
	}
}
