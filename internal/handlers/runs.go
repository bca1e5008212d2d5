package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/schema"

	"github.com/yuuuno/sweeper/internal/middleware"
)

type ListRunsDTO struct {
	Limit int `schema:"limit"`
}

func ParseListRunsDTO(src map[string][]string) (ListRunsDTO, error) {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	dto := ListRunsDTO{Limit: 20}
	err := dec.Decode(&dto, src)
	return dto, err
}

type RunDTO struct {
	RunId      int64 `json:"run_id"`
	Width      int   `json:"width"`
	Height     int   `json:"height"`
	Revealed   int   `json:"revealed"`
	SafeCount  int   `json:"safe_count"`
	MineCount  int   `json:"mine_count"`
	DurationUs int64 `json:"duration_us"`
	CreatedAt  int64 `json:"created_at"`
}

func (h *SolveHandler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.AccountClaims(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if h.repo == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	dto, err := ParseListRunsDTO(r.URL.Query())
	if err != nil || dto.Limit < 1 || dto.Limit > 1000 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	runs, err := h.repo.ListInferenceRuns(r.Context(), claims.AccountId, dto.Limit)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("could not list inference runs", slog.Any("error", err))
		return
	}

	payload := make([]RunDTO, 0, len(runs))
	for _, run := range runs {
		payload = append(payload, RunDTO{
			RunId:      run.RunId,
			Width:      run.Width,
			Height:     run.Height,
			Revealed:   run.Revealed,
			SafeCount:  run.SafeCount,
			MineCount:  run.MineCount,
			DurationUs: run.DurationUs,
			CreatedAt:  run.CreatedAt.Time.UnixMilli(),
		})
	}
	SendJSONOrLog(w, h.logger, payload)
}
