// Package orchestrator implements the Round Orchestrator (C8): the
// single-threaded cooperative loop driving ingest → horizon_view →
// optimize → validate → submit → record per hour, generalized from
// the teacher's server lifecycle (goroutine loop + signal-driven
// graceful shutdown) into a game-round loop (spec.md §4.8, §5).
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"iaros/kitlogistics/internal/cache"
	"iaros/kitlogistics/internal/catalog"
	"iaros/kitlogistics/internal/config"
	"iaros/kitlogistics/internal/costmodel"
	"iaros/kitlogistics/internal/errs"
	"iaros/kitlogistics/internal/events"
	"iaros/kitlogistics/internal/horizon"
	"iaros/kitlogistics/internal/kit"
	"iaros/kitlogistics/internal/logging"
	"iaros/kitlogistics/internal/metrics"
	"iaros/kitlogistics/internal/mirror"
	"iaros/kitlogistics/internal/optimizer"
	"iaros/kitlogistics/internal/persistence"
	"iaros/kitlogistics/internal/transport"
	"iaros/kitlogistics/internal/validator"
)

// historyLimit bounds the in-memory round ledger the monitoring
// surface's GET history?limit=N endpoint reads from.
const historyLimit = 200

// Orchestrator owns the mirror, drives the round loop, and publishes a
// lock-free Snapshot after every tick.
type Orchestrator struct {
	cat         *catalog.Catalog
	mirror      *mirror.MirrorState
	transport   *transport.Client
	logger      *logging.Logger
	horizonCfg  horizon.Config
	optimizerCfg optimizer.Config
	roundBudget time.Duration
	maxPerOrder int

	promReg *prometheus.Registry
	metrics *metrics.Registry
	cache   *cache.Client
	store   *persistence.Store

	state    State
	round    int
	history  []RoundResult
	snapshot atomic.Pointer[Snapshot]
}

// New wires C1, C3 (a freshly-seeded mirror) and C6's static config
// together with the transport client built from cfg.Evaluation.
func New(cat *catalog.Catalog, cfg config.Config, logger *logging.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.Nop()
	}
	promReg := prometheus.NewRegistry()
	o := &Orchestrator{
		cat:     cat,
		mirror:  mirror.New(cat, logger),
		logger:  logger,
		promReg: promReg,
		metrics: metrics.NewRegistry(promReg),
		transport: transport.New(transport.Config{
			BaseURL:        cfg.Evaluation.BaseURL,
			APIKey:         cfg.Evaluation.APIKey,
			RequestTimeout: cfg.Evaluation.RequestTimeout,
			MaxRetries:     cfg.Evaluation.MaxRetries,
			BackoffBase:    cfg.Evaluation.BackoffBase,
			BackoffFactor:  cfg.Evaluation.BackoffFactor,
			BackoffJitter:  cfg.Evaluation.BackoffJitter,
		}, logger),
		horizonCfg: horizon.Config{
			LoadHorizonHours:     cfg.Optimizer.LoadHorizonHours,
			PurchaseHorizonHours: cfg.Optimizer.PurchaseHorizonHours,
		},
		optimizerCfg: optimizer.Config{
			Deadline:             cfg.Optimizer.RoundDeadline,
			PopulationSize:       cfg.Optimizer.PopulationSize,
			NoImprovementLimit:   cfg.Optimizer.NoImprovementLimit,
			MutationRate:         cfg.Optimizer.MutationRate,
			Seed:                 cfg.Optimizer.Seed,
			PurchaseHorizonHours: cfg.Optimizer.PurchaseHorizonHours,
		},
		roundBudget: cfg.Orchestrator.RoundBudget,
		maxPerOrder: cfg.Evaluation.MaxPerOrder,
		state:       Idle,
	}
	o.publishSnapshot()
	return o
}

// Snapshot returns the current lock-free summary for the monitoring
// surface to serve.
func (o *Orchestrator) Snapshot() *Snapshot {
	return o.snapshot.Load()
}

// PrometheusRegistry exposes the collectors registered in New, for
// internal/monitoring to mount behind promhttp.Handler.
func (o *Orchestrator) PrometheusRegistry() *prometheus.Registry {
	return o.promReg
}

// SetCache attaches the Redis-backed idempotency/snapshot cache. A nil
// or never-called cache leaves every cache.Client method a no-op, so
// this is optional per cfg.Cache.Enabled.
func (o *Orchestrator) SetCache(c *cache.Client) {
	o.cache = c
}

// SetPersistence attaches the durable round/anomaly ledger. A nil or
// never-called store leaves every persistence.Store method a no-op,
// so this is optional per cfg.Persistence.Enabled.
func (o *Orchestrator) SetPersistence(s *persistence.Store) {
	o.store = s
}

// Run drives the state machine to completion: STARTING, then RUNNING
// one tick per hour until hour 720 or ctx is cancelled (an external
// stop), then STOPPING → DONE. Any fatal error transitions to FAILED
// after still attempting the final /session/end call (spec.md §7:
// "fatals terminate the session after one last /session/end call to
// avoid the early-stop multiplier").
func (o *Orchestrator) Run(ctx context.Context) error {
	o.setState(Starting)
	sessionID, err := o.transport.StartSession(ctx)
	if err != nil {
		o.setState(Failed)
		o.publishSnapshot()
		return fmt.Errorf("orchestrator: session start failed: %w", err)
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
		o.transport.SessionID = sessionID
		o.logger.Warn("evaluation server returned no session id, generated a local one", zap.String("session_id", sessionID))
	}
	o.logger = o.logger.WithSession(sessionID)
	o.setState(Running)
	o.publishSnapshot()

	for {
		if ctx.Err() != nil {
			return o.shutdown(nil)
		}
		if o.mirror.CurrentHour >= kit.GameEndHour {
			return o.shutdown(nil)
		}

		if err := o.tick(ctx); err != nil {
			var sessErr *errs.Error
			if errors.As(err, &sessErr) && sessErr.Fatal() {
				return o.shutdown(err)
			}
			o.logger.Warn("round tick absorbed a non-fatal error", zap.Error(err))
			continue
		}
		o.round++
	}
}

// shutdown transitions through STOPPING to DONE (or FAILED, if cause
// is non-nil or the final end-session call itself fails), issuing
// exactly one /session/end call per spec.md B3.
func (o *Orchestrator) shutdown(cause error) error {
	o.setState(Stopping)
	o.publishSnapshot()

	endCtx, cancel := context.WithTimeout(context.Background(), o.roundBudget)
	defer cancel()
	resp, err := o.transport.EndSession(endCtx)
	if err != nil {
		o.setState(Failed)
		o.publishSnapshot()
		if cause != nil {
			return fmt.Errorf("orchestrator: %w (session end also failed: %v)", cause, err)
		}
		return fmt.Errorf("orchestrator: session end failed: %w", err)
	}
	if _, ierr := events.Ingest(o.mirror, resp); ierr != nil {
		o.logger.Warn("failed to ingest final session/end response", zap.Error(ierr))
	}

	if cause != nil {
		o.setState(Failed)
		o.publishSnapshot()
		return cause
	}

	// Terminal accounting (spec.md §4.2, §9 scenario S5): informational
	// only — the server's own totalCost already settled the session —
	// but surfaced so a postmortem can see how much the final mirror
	// state still had on hand or in transit/processing at hour 720.
	if o.mirror.CurrentHour >= kit.GameEndHour {
		_, remaining := o.mirror.ConservationBalance()
		penalty, _ := costmodel.EndOfGamePenalty(remaining, o.cat.AllKitMeta()).Float64()
		o.logger.Info("end-of-game inventory penalty", zap.Float64("penalty", penalty), zap.Any("remaining_inventory", remaining.ToWire()))
	}

	o.setState(Done)
	o.publishSnapshot()
	return nil
}

// tick runs one hour of the round loop: build the horizon view,
// optimize, validate, submit, then ingest the server's response
// (spec.md §4.8). The tick runs against roundBudget; exceeding it logs
// a warning but the round still submits whatever C6 produced, since the
// submission itself is not cut off by the budget (spec.md §5).
func (o *Orchestrator) tick(ctx context.Context) error {
	start := time.Now()
	roundCtx, cancel := context.WithTimeout(ctx, o.roundBudget)
	defer cancel()

	traceLogger := o.logger.WithRound(o.round)
	traceID := uuid.NewString()
	traceLogger = traceLogger.With(zap.String("trace_id", traceID))

	anomaliesBefore := len(o.mirror.Anomalies)

	var decision optimizer.Decision
	if cached, cerr := o.cache.GetRoundDecision(roundCtx, o.round, &decision); cerr != nil {
		traceLogger.Warn("round decision cache lookup failed", zap.Error(cerr))
	} else if cached {
		traceLogger.Info("reusing cached decision for a re-entered round, avoiding a second, possibly different, optimize pass")
	} else {
		view := horizon.Build(o.mirror, o.cat, o.horizonCfg)
		optStart := time.Now()
		decision = optimizer.Optimize(o.mirror, o.cat, view, o.optimizerCfg)
		if time.Since(optStart) >= o.optimizerCfg.Deadline {
			o.metrics.OptimizerDeadlineHits.Inc()
		}
	}
	if elapsed := time.Since(start); elapsed > o.roundBudget {
		traceLogger.Warn("round budget exceeded before submission", zap.Duration("elapsed", elapsed), zap.Duration("budget", o.roundBudget))
	}

	report := validator.Validate(o.mirror, o.cat, decision, o.maxPerOrder)
	for _, w := range report.Warnings {
		traceLogger.Warn("validation warning", zap.String("detail", w))
	}
	if penalty, _ := report.IncorrectLoadPenalty.Float64(); penalty > 0 {
		o.metrics.PenaltyTotal.WithLabelValues("INCORRECT_LOAD").Add(penalty)
		traceLogger.Warn("incorrect load references penalized", zap.Float64("penalty", penalty))
	}
	if !report.OK() {
		for _, e := range report.Errors {
			traceLogger.Error("validation error", zap.String("detail", e))
		}
		return errs.Validation("orchestrator.tick", "decision failed validation and was not submitted")
	}

	if cerr := o.cache.SaveRoundDecision(roundCtx, o.round, report.RepairedDecisions); cerr != nil {
		traceLogger.Warn("failed to cache round decision before submission", zap.Error(cerr))
	}

	req := buildRequest(o.mirror.CurrentHour, report.RepairedDecisions)
	resp, err := o.transport.PlayRound(ctx, req)
	if err != nil {
		return err
	}

	for flightID, k := range report.RepairedDecisions.Loads {
		if cerr := o.mirror.CommitLoad(flightID, k); cerr != nil {
			traceLogger.Warn("commit load failed for submitted decision", zap.String("flight_id", flightID), zap.Error(cerr))
		}
	}
	if !report.RepairedDecisions.Purchases.IsZero() {
		if cerr := o.mirror.CommitPurchase(o.cat, report.RepairedDecisions.Purchases); cerr != nil {
			traceLogger.Warn("commit purchase failed for submitted decision", zap.Error(cerr))
		}
	}

	obs, err := events.Ingest(o.mirror, resp)
	if err != nil {
		return errs.Protocol("orchestrator.tick", "failed to ingest round response", err)
	}

	for _, p := range obs.Penalties {
		o.metrics.PenaltyTotal.WithLabelValues(p.Code).Add(p.Penalty)
	}
	if newAnomalies := o.mirror.Anomalies[anomaliesBefore:]; len(newAnomalies) > 0 {
		o.metrics.MirrorAnomalies.Add(float64(len(newAnomalies)))
		for _, a := range newAnomalies {
			if perr := o.store.SaveAnomaly(roundCtx, int(a.Hour), a.Kind.String(), a.Detail); perr != nil {
				traceLogger.Warn("failed to persist anomaly record", zap.Error(perr))
			}
		}
	}
	o.metrics.RoundDuration.Observe(time.Since(start).Seconds())
	o.metrics.RoundsCompleted.Inc()

	result := RoundResult{
		Round:              o.round,
		Day:                obs.Day,
		Hour:               obs.Hour,
		SubmittedAt:        start,
		RoundTotalCost:     obs.CumulativeCost,
		Penalties:          obs.Penalties,
		LoadsSubmitted:     report.RepairedDecisions.Loads,
		PurchasesSubmitted: report.RepairedDecisions.Purchases,
	}
	o.recordHistory(result)
	if perr := o.store.SaveRound(roundCtx, persistence.RoundResult(result)); perr != nil {
		traceLogger.Warn("failed to persist round record", zap.Error(perr))
	}
	traceLogger.RoundSummary(o.round, obs.CumulativeCost, len(obs.Penalties), time.Since(start))
	o.publishSnapshot()
	return nil
}

func buildRequest(h kit.Hour, decision optimizer.Decision) transport.PlayRoundRequest {
	loads := make([]transport.FlightLoad, 0, len(decision.Loads))
	for flightID, k := range decision.Loads {
		loads = append(loads, transport.FlightLoad{FlightID: flightID, LoadedKits: k.ToWire()})
	}
	return transport.PlayRoundRequest{
		Day:                 h.Day(),
		Hour:                h.HourOfDay(),
		FlightLoads:         loads,
		KitPurchasingOrders: decision.Purchases.ToWire(),
	}
}

func (o *Orchestrator) setState(s State) {
	o.state = s
}

func (o *Orchestrator) recordHistory(r RoundResult) {
	o.history = append(o.history, r)
	if len(o.history) > historyLimit {
		o.history = o.history[len(o.history)-historyLimit:]
	}
}

func (o *Orchestrator) publishSnapshot() {
	inventory := make(map[string]kit.Vector, len(o.cat.AllAirports()))
	for _, a := range o.cat.AllAirports() {
		inventory[a.Code] = o.mirror.InventoryAt(a.Code)
	}

	var cumulativePurchases kit.Vector
	var recentPenalties []events.Penalty
	for _, r := range o.history {
		cumulativePurchases = cumulativePurchases.Add(r.PurchasesSubmitted)
		recentPenalties = append(recentPenalties, r.Penalties...)
	}
	if n := len(recentPenalties); n > 20 {
		recentPenalties = recentPenalties[n-20:]
	}

	history := make([]RoundResult, len(o.history))
	copy(history, o.history)

	snap := &Snapshot{
		State:               o.state,
		Round:               o.round,
		Day:                 o.mirror.CurrentHour.Day(),
		Hour:                o.mirror.CurrentHour.HourOfDay(),
		CumulativeDecisions: len(o.history),
		CumulativePurchases: cumulativePurchases,
		RecentPenalties:     recentPenalties,
		InventoryByAirport:  inventory,
		History:             history,
	}
	if len(o.history) > 0 {
		snap.TotalCost = o.history[len(o.history)-1].RoundTotalCost
	}
	o.snapshot.Store(snap)

	if err := o.cache.SaveSnapshot(context.Background(), snap); err != nil {
		o.logger.Warn("failed to cache monitoring snapshot", zap.Error(err))
	}
}
