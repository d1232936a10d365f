package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/vitos/xau_money_management/internal/domain"
	"go.uber.org/zap"
)

const defaultHistoryLimit = 100

type tierResponse struct {
	Tier     domain.Tier  `json:"tier"`
	NextTier *domain.Tier `json:"next_tier"`
}

type progressResponse struct {
	Level                 int     `json:"level"`
	ProgressToNextLevel   float64 `json:"progress_to_next_level"`
	DailyTargetProgress   float64 `json:"daily_target_progress"`
	WeeklyTargetProgress  float64 `json:"weekly_target_progress"`
	MonthlyTargetProgress float64 `json:"monthly_target_progress"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// floatParam parses an optional query value; absent means 0.
func floatParam(r *http.Request, name string, required bool) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		if required {
			return 0, fmt.Errorf("%s is required", name)
		}
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	return v, nil
}

func limitParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultHistoryLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, errors.New("limit must be a positive integer")
	}
	return n, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLevels(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.manager.Table().Tiers())
}

func (s *Server) handleTier(w http.ResponseWriter, r *http.Request) {
	balance, err := floatParam(r, "balance", true)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := tierResponse{Tier: s.manager.CurrentTier(balance)}
	if next, ok := s.manager.NextTier(balance); ok {
		resp.NextTier = &next
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	balance, err := floatParam(r, "balance", true)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var profits [3]float64
	for i, name := range []string{"daily_profit", "weekly_profit", "monthly_profit"} {
		if profits[i], err = floatParam(r, name, false); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	s.writeJSON(w, http.StatusOK, progressResponse{
		Level:                 s.manager.CurrentTier(balance).Level,
		ProgressToNextLevel:   s.manager.ProgressToNextLevel(balance),
		DailyTargetProgress:   s.manager.DailyTargetProgress(balance, profits[0]),
		WeeklyTargetProgress:  s.manager.WeeklyTargetProgress(balance, profits[1]),
		MonthlyTargetProgress: s.manager.MonthlyTargetProgress(balance, profits[2]),
	})
}

func (s *Server) handleGate(w http.ResponseWriter, r *http.Request) {
	balance, err := floatParam(r, "balance", true)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	profit, err := floatParam(r, "daily_profit", true)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, s.manager.ShouldStopTrading(balance, profit))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.status.Latest()
	if errors.Is(err, domain.ErrNoStatus) {
		s.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("Failed to read status", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to read status")
		return
	}
	s.writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleTradingGate(w http.ResponseWriter, r *http.Request) {
	state, err := s.gate.Check(r.Context())
	if err != nil {
		s.logger.Error("Trading gate check failed", zap.Error(err))
		s.writeError(w, http.StatusBadGateway, "trading backend unavailable")
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	snaps, err := s.repo.ListSnapshots(r.Context(), limit)
	if err != nil {
		s.logger.Error("Failed to list snapshots", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to list snapshots")
		return
	}
	s.writeJSON(w, http.StatusOK, snaps)
}

func (s *Server) handleTierChanges(w http.ResponseWriter, r *http.Request) {
	limit, err := limitParam(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	changes, err := s.repo.ListTierChanges(r.Context(), limit)
	if err != nil {
		s.logger.Error("Failed to list tier changes", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "failed to list tier changes")
		return
	}
	s.writeJSON(w, http.StatusOK, changes)
}
