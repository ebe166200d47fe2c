package monitoring

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"iaros/kitlogistics/internal/events"
	"iaros/kitlogistics/internal/kit"
	"iaros/kitlogistics/internal/logging"
)

const defaultHistoryLimit = 20

// handleStatus serves GET /status (spec.md §6.3).
func (s *Server) handleStatus(c *gin.Context) {
	snap := s.src.Snapshot()
	c.JSON(http.StatusOK, StatusResponse{
		State:               snap.State.String(),
		Round:               snap.Round,
		Day:                 snap.Day,
		Hour:                snap.Hour,
		TotalCost:           snap.TotalCost,
		CumulativeDecisions: snap.CumulativeDecisions,
		CumulativePurchases: snap.CumulativePurchases.ToWire(),
		RecentPenalties:     snap.RecentPenalties,
	})
}

// handleInventory serves GET /inventory (spec.md §6.3).
func (s *Server) handleInventory(c *gin.Context) {
	snap := s.src.Snapshot()
	byAirport := make(map[string]kit.WireVector, len(snap.InventoryByAirport))
	for code, v := range snap.InventoryByAirport {
		byAirport[code] = v.ToWire()
	}
	c.JSON(http.StatusOK, InventoryResponse{ByAirport: byAirport})
}

// handleHistory serves GET /history?limit=N (spec.md §6.3), returning
// the last N rounds, most recent last, same order C8's ring keeps them.
func (s *Server) handleHistory(c *gin.Context) {
	limit := defaultHistoryLimit
	if q := c.Query("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 {
			limit = n
		}
	}

	snap := s.src.Snapshot()
	rounds := snap.History
	if len(rounds) > limit {
		rounds = rounds[len(rounds)-limit:]
	}

	entries := make([]HistoryEntry, 0, len(rounds))
	for _, r := range rounds {
		loads := make(map[string]kit.WireVector, len(r.LoadsSubmitted))
		for flightID, k := range r.LoadsSubmitted {
			loads[flightID] = k.ToWire()
		}
		entries = append(entries, HistoryEntry{
			Round:              r.Round,
			Time:               r.SubmittedAt.UTC().Format(time.RFC3339),
			LoadsSubmitted:     loads,
			PurchasesSubmitted: r.PurchasesSubmitted.ToWire(),
			RoundTotalCost:     r.RoundTotalCost,
			Penalties:          r.Penalties,
		})
	}

	if len(entries) < limit && s.store != nil {
		if fallback, err := s.historyFromStore(c, limit); err != nil {
			s.logger.Warn("failed to read round history from persistence", zap.Error(err))
		} else {
			entries = fallback
		}
	}

	c.JSON(http.StatusOK, entries)
}

// historyFromStore rebuilds HistoryEntry rows from the durable ledger,
// used once C8's in-memory ring has rolled older rounds out.
func (s *Server) historyFromStore(c *gin.Context, limit int) ([]HistoryEntry, error) {
	records, err := s.store.RecentRounds(c.Request.Context(), limit)
	if err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(records))
	for _, r := range records {
		var loadsWire map[string]kit.WireVector
		if err := json.Unmarshal(r.LoadsSubmitted, &loadsWire); err != nil {
			return nil, err
		}
		var purchasesWire kit.WireVector
		if err := json.Unmarshal(r.PurchasesSubmitted, &purchasesWire); err != nil {
			return nil, err
		}
		var penalties []events.Penalty
		if err := json.Unmarshal(r.Penalties, &penalties); err != nil {
			return nil, err
		}
		entries = append(entries, HistoryEntry{
			Round:              r.Round,
			Time:               r.SubmittedAt.UTC().Format(time.RFC3339),
			LoadsSubmitted:     loadsWire,
			PurchasesSubmitted: purchasesWire,
			RoundTotalCost:     r.RoundTotalCost,
			Penalties:          penalties,
		})
	}
	return entries, nil
}

// loggingMiddleware mirrors order_service/main.go's loggingMiddleware:
// one structured log line per request, response-time header attached.
func loggingMiddleware(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		logger.Debug("monitoring request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", duration),
		)
		c.Header("X-Response-Time", duration.String())
	}
}
