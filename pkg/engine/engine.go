// Package engine orchestrates pack initialization, the tick loop, metric
// sampling, checkpointing, probe evaluation, assertion validation, and
// artifact emission — the sequencing named in the component design,
// implemented as an explicit state machine the way the teacher's chaos
// orchestrator sequences PARSE -> DISCOVER -> ... -> REPORT, with
// deferred cleanup and panic recovery around the run.
package engine

import (
	"fmt"
	"sort"

	"github.com/jihwankim/agentforge/internal/clock"
	"github.com/jihwankim/agentforge/pkg/agent"
	"github.com/jihwankim/agentforge/pkg/artifact"
	"github.com/jihwankim/agentforge/pkg/checkpoint"
	"github.com/jihwankim/agentforge/pkg/metrics"
	"github.com/jihwankim/agentforge/pkg/pack"
	"github.com/jihwankim/agentforge/pkg/rflog"
	"github.com/jihwankim/agentforge/pkg/rng"
	"github.com/jihwankim/agentforge/pkg/scenario"
	"github.com/jihwankim/agentforge/pkg/scheduler"
)

// runState names the engine's sequential phases, mirroring the
// teacher's explicit TestState enum.
type runState int

const (
	stateInit runState = iota
	stateTick
	stateFinalize
	stateReport
	stateDone
	stateFailed
)

func (s runState) String() string {
	switch s {
	case stateInit:
		return "init"
	case stateTick:
		return "tick"
	case stateFinalize:
		return "finalize"
	case stateReport:
		return "report"
	case stateDone:
		return "done"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// canonicalInitialTimestamp is the load-bearing formula from §9.2(a):
// permanent once chosen, never changed without breaking every existing
// artifact's bytes.
func canonicalInitialTimestamp(seed int64) int64 {
	mod := seed % 1_000_000
	if mod < 0 {
		mod += 1_000_000
	}
	return 1_700_000_000 + mod
}

// Engine runs one scenario against one pack instance and a set of
// agents built from a Registry.
type Engine struct {
	logger *rflog.Logger
	wall   clock.Clock
	state  runState
}

// New builds an Engine. logger may be nil (falls back to rflog.Global());
// wallClock may be nil (falls back to clock.Real{}).
func New(logger *rflog.Logger, wallClock clock.Clock) *Engine {
	if logger == nil {
		logger = rflog.Global()
	}
	if wallClock == nil {
		wallClock = clock.Real{}
	}
	return &Engine{logger: logger, wall: wallClock, state: stateInit}
}

// Run executes sc against p, constructing agents from reg, and returns a
// RunResult. Only infrastructure errors (configuration, pack-init,
// artifact-write) are returned as errors; assertion failures are
// reflected in RunResult.Success.
func (e *Engine) Run(sc *scenario.Scenario, p pack.Pack, reg Registry, opts Options) (result *RunResult, err error) {
	start := e.wall.Now()

	defer func() {
		if r := recover(); r != nil {
			e.state = stateFailed
			err = &ConfigurationError{Msg: fmt.Sprintf("panic during run: %v", r)}
		}
	}()

	seed := sc.Seed
	if opts.Seed != nil {
		seed = *opts.Seed
	}
	ticks := sc.Ticks
	if opts.Ticks != nil {
		ticks = *opts.Ticks
	}
	tickSeconds := sc.TickSeconds
	if opts.TickSeconds != nil {
		tickSeconds = *opts.TickSeconds
	}
	strategy := opts.Strategy
	if strategy == nil {
		strategy = scheduler.Shuffle{}
	}

	runID := artifact.RunID(sc.Name, opts.CI, clock.ISO8601(start))

	writer, werr := artifact.NewWriter(opts.OutDir, runID)
	if werr != nil {
		e.state = stateFailed
		return nil, &ArtifactWriteError{Err: werr}
	}

	if ierr := p.Initialize(); ierr != nil {
		e.state = stateFailed
		return nil, &PackInitError{Err: ierr}
	}

	agents, cerr := buildAgents(sc.Agents, reg)
	if cerr != nil {
		e.state = stateFailed
		return nil, cerr
	}

	top := rng.NewSource(uint64(seed))
	timestamp := canonicalInitialTimestamp(seed)

	collector := metrics.NewCollector(metrics.Config{
		SampleEveryTicks: sc.Metrics.SampleEveryTicks,
		AllowList:        sc.Metrics.AllowList,
	})
	actionLog := artifact.NewActionLogWriter()

	var cpWriter *checkpoint.Writer
	cpCfg := opts.Checkpoints
	if cpCfg == nil && sc.Checkpoints != nil {
		cpCfg = &checkpoint.Config{
			EveryTicks:         sc.Checkpoints.EveryTicks,
			IncludeAgentMemory: sc.Checkpoints.IncludeAgentMemory,
			IncludeProbes:      sc.Checkpoints.IncludeProbes,
		}
	}
	if cpCfg != nil {
		cpWriter = checkpoint.NewWriter(*cpCfg, writer.RunDir(), func() string { return clock.ISO8601(e.wall.Now()) })
	}

	// Scenario-declared probe kinds (computed/call/balance) carry Go
	// closures (ComputedFunc) that aren't YAML-serializable, so a
	// file-loaded scenario's probes are resolved by the caller into
	// opts.Probes before Run is invoked; sc.Probes itself is descriptive
	// metadata only at this layer.
	var probeSampler *checkpoint.Sampler
	probeEveryTicks := sc.ProbeEveryTicks
	if opts.Probes != nil {
		probeEveryTicks = opts.Probes.EveryTicks
		if len(opts.Probes.Probes) > 0 {
			probeSampler = checkpoint.NewSampler(opts.Probes.Probes, func(msg string) { e.logger.Warn(msg) })
		}
	}
	if probeEveryTicks == 0 {
		probeEveryTicks = 1
	}

	ctx0 := agent.Context{Tick: 0, Timestamp: timestamp, Rng: top.Derive(0, ""), Pack: p, World: p.WorldState()}
	for _, a := range agents {
		if ierr := a.Initialize(ctx0); ierr != nil {
			e.logger.Warn(fmt.Sprintf("agent %s initialize error: %v", a.ID(), ierr))
		}
	}

	e.state = stateTick
	var lastProbeValues map[string]interface{}

	for tick := uint64(0); tick < ticks; tick++ {
		if terr := p.OnTick(tick, timestamp); terr != nil {
			e.logger.Warn(fmt.Sprintf("pack OnTick error at tick %d: %v", tick, terr))
		}

		rt := top.Derive(tick, "")

		agentIDs := make([]string, len(agents))
		byID := make(map[string]agent.Agent, len(agents))
		for i, a := range agents {
			agentIDs[i] = a.ID()
			byID[a.ID()] = a
		}
		order := strategy.Order(tick, agentIDs, rt)

		for _, id := range order {
			a := byID[id]
			rta := rt.Derive(tick, id)
			p.SetCurrentAgent(id)
			actionStart := e.wall.Now()
			actionCtx := agent.Context{Tick: tick, Timestamp: timestamp, Rng: rta, Pack: p, World: p.WorldState()}

			act, result := stepAgent(a, actionCtx)
			rec := artifact.ActionRecord{
				Tick:       tick,
				Timestamp:  timestamp,
				AgentID:    a.ID(),
				AgentType:  a.TypeTag(),
				DurationMs: e.wall.Now().Sub(actionStart).Milliseconds(),
			}
			if act == nil {
				a.RecordSkip()
			} else {
				rec.Action = &artifact.ActionRef{ID: act.ID, Name: act.Name, Params: act.Params}
				if result.Ok {
					a.RecordSuccess()
				} else {
					a.RecordFailure()
				}
				rec.Result = &artifact.ResultRef{Ok: result.Ok, Error: result.Error, TxHash: result.TxHash}
				if result.GasUsed != nil {
					s := fmt.Sprintf("%d", *result.GasUsed)
					rec.Result.GasUsed = &s
				}
			}
			actionLog.Append(rec)
		}

		collector.Sample(tick, timestamp, p)

		if probeSampler != nil && tick%probeEveryTicks == 0 {
			lastProbeValues = probeSampler.Sample(p)
		}

		if cpWriter != nil && cpWriter.ShouldCheckpoint(tick) {
			cp := checkpoint.Checkpoint{
				Tick:      tick,
				Timestamp: timestamp,
				WorldSummary: checkpoint.WorldSummary{
					Timestamp: timestamp,
					Metrics:   metricsToInterfaceMap(collector.FinalMetrics()),
				},
			}
			if cpCfg.IncludeAgentMemory {
				cp.AgentStates = snapshotAgentMemory(agents)
			}
			if cpCfg.IncludeProbes {
				cp.ProbeValues = lastProbeValues
			}
			if werr := cpWriter.Write(cp); werr != nil {
				e.logger.Error("checkpoint write failed", werr)
			}
		}

		timestamp += int64(tickSeconds)
	}

	e.state = stateFinalize
	if ticks > 0 {
		collector.ForceSample(ticks-1, timestamp-int64(tickSeconds), p)
	}

	for _, a := range agents {
		if cerr := a.Cleanup(); cerr != nil {
			e.logger.Warn(fmt.Sprintf("agent %s cleanup error: %v", a.ID(), cerr))
		}
	}

	final := collector.FinalMetrics()
	verdicts, success := EvaluateAssertions(sc.Assertions, final)
	var failed []AssertionVerdict
	for _, v := range verdicts {
		if !v.Passed {
			failed = append(failed, v)
		}
	}

	statsOut := make([]AgentStat, 0, len(agents))
	for _, a := range agents {
		st := a.Stats()
		statsOut = append(statsOut, AgentStat{
			AgentID: a.ID(), TypeTag: a.TypeTag(),
			Attempted: st.Attempted, Succeeded: st.Succeeded, Failed: st.Failed,
		})
	}
	sort.Slice(statsOut, func(i, j int) bool { return statsOut[i].AgentID < statsOut[j].AgentID })

	e.state = stateReport
	result = &RunResult{
		RunID:            runID,
		ScenarioName:     sc.Name,
		Seed:             seed,
		Ticks:            ticks,
		DurationMs:       e.wall.Now().Sub(start).Milliseconds(),
		Success:          success,
		FailedAssertions: failed,
		FinalMetrics:     final,
		AgentStats:       statsOut,
		OutputDir:        writer.RunDir(),
	}

	if werr := e.writeArtifacts(writer, result, collector, actionLog, sc, opts); werr != nil {
		e.state = stateFailed
		_ = p.Cleanup()
		return nil, werr
	}

	if cerr := p.Cleanup(); cerr != nil {
		e.logger.Warn(fmt.Sprintf("pack cleanup error: %v", cerr))
	}

	e.state = stateDone
	return result, nil
}

// stepAgent calls a.Step, converting a panic into a recorded failure so
// one misbehaving agent never aborts the run.
func stepAgent(a agent.Agent, ctx agent.Context) (act *pack.Action, result pack.Result) {
	defer func() {
		if r := recover(); r != nil {
			result = pack.Result{Ok: false, Error: fmt.Sprintf("agent panic: %v", r)}
			act = &pack.Action{ID: fmt.Sprintf("%s-panic-%d-0", a.ID(), ctx.Tick), Name: "panic"}
		}
	}()

	got, err := a.Step(ctx)
	if err != nil {
		return &pack.Action{ID: fmt.Sprintf("%s-error-%d-0", a.ID(), ctx.Tick), Name: "error"},
			pack.Result{Ok: false, Error: err.Error()}
	}
	if got == nil {
		return nil, pack.Result{}
	}
	return got, ctx.Pack.ExecuteAction(*got, a.ID())
}

func buildAgents(configs []scenario.AgentConfig, reg Registry) ([]agent.Agent, error) {
	var agents []agent.Agent
	globalIndex := 0
	for _, cfg := range configs {
		factory, ok := reg[cfg.TypeTag]
		if !ok {
			return nil, &ConfigurationError{Msg: fmt.Sprintf("no agent factory registered for type %q", cfg.TypeTag)}
		}
		for i := 0; i < cfg.Count; i++ {
			id := fmt.Sprintf("%s-%d", cfg.TypeTag, globalIndex)
			globalIndex++
			agents = append(agents, factory(id, cfg.Params))
		}
	}
	if len(agents) == 0 {
		return nil, &ConfigurationError{Msg: "scenario produced zero agent instances"}
	}
	return agents, nil
}

func metricsToInterfaceMap(m map[string]metrics.Value) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, _ := m[k].JSON()
		out[k] = v
	}
	return out
}

func snapshotAgentMemory(agents []agent.Agent) map[string]checkpoint.AgentMemorySnapshot {
	out := make(map[string]checkpoint.AgentMemorySnapshot, len(agents))
	for _, a := range agents {
		memOwner, ok := a.(interface {
			MemorySnapshot() map[string]interface{}
			CooldownSnapshot() map[string]uint64
		})
		if !ok {
			continue
		}
		out[a.ID()] = checkpoint.AgentMemorySnapshot{
			Memory:          memOwner.MemorySnapshot(),
			ActiveCooldowns: memOwner.CooldownSnapshot(),
		}
	}
	return out
}
