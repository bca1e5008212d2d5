package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/yuuuno/sweeper/internal/middleware"
	"github.com/yuuuno/sweeper/internal/repository"
	"github.com/yuuuno/sweeper/internal/snapshot"
	"github.com/yuuuno/sweeper/internal/sweep"
)

// ConclusionsDTO is the engine's answer for one snapshot. Both lists
// are ordered by row, then col.
type ConclusionsDTO struct {
	Safe  []sweep.Position `json:"safe"`
	Mines []sweep.Position `json:"mines"`
}

func NewConclusionsDTO(c sweep.Conclusions) ConclusionsDTO {
	return ConclusionsDTO{
		Safe:  c.Safe.Positions(),
		Mines: c.Mines.Positions(),
	}
}

type SolveHandler struct {
	logger *slog.Logger
	repo   *repository.Queries
}

// NewSolveHandler builds the handler; repo may be nil, in which case
// runs are served fresh and nothing is recorded.
func NewSolveHandler(logger *slog.Logger, repo *repository.Queries) *SolveHandler {
	return &SolveHandler{logger: logger, repo: repo}
}

func (h *SolveHandler) solve(r *http.Request, doc snapshot.Document) (ConclusionsDTO, error) {
	board, err := doc.Board()
	if err != nil {
		return ConclusionsDTO{}, err
	}

	start := time.Now()
	conclusions := sweep.Infer(board)
	took := time.Since(start)

	if h.repo != nil {
		h.record(r, board, conclusions, took)
	}
	return NewConclusionsDTO(conclusions), nil
}

func (h *SolveHandler) record(
	r *http.Request,
	board sweep.Board,
	conclusions sweep.Conclusions,
	took time.Duration,
) {
	revealed := 0
	for _, s := range board.Grid {
		if s.Revealed() {
			revealed++
		}
	}
	params := repository.CreateInferenceRunParams{
		Width:      board.Width,
		Height:     board.Height,
		Revealed:   revealed,
		SafeCount:  conclusions.Safe.Len(),
		MineCount:  conclusions.Mines.Len(),
		DurationUs: took.Microseconds(),
	}
	if claims, ok := middleware.AccountClaims(r); ok {
		params.AccountId = &claims.AccountId
	}
	if _, err := h.repo.CreateInferenceRun(r.Context(), params); err != nil {
		h.logger.Error("failed to record inference run", slog.Any("error", err))
	}
}

func (h *SolveHandler) HandleSolve(w http.ResponseWriter, r *http.Request) {
	var doc snapshot.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		SendErrorOrLog(w, h.logger, err)
		return
	}

	dto, err := h.solve(r, doc)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		SendErrorOrLog(w, h.logger, err)
		return
	}

	SendJSONOrLog(w, h.logger, dto)
}
