package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/umphart/musabaha-ltd-backend/internal/app"
	"github.com/umphart/musabaha-ltd-backend/internal/domain"
)

// PlotService is the minimal interface for the plot catalog.
type PlotService interface {
	CreatePlot(ctx context.Context, in app.CreatePlotInput) (domain.Plot, error)
	GetPlotByNumber(ctx context.Context, number string) (domain.Plot, error)
	ListPlots(ctx context.Context) ([]domain.Plot, error)
}

type createPlotRequest struct {
	Number   string          `json:"number"`
	Size     string          `json:"size,omitempty"`
	Location string          `json:"location,omitempty"`
	Price    decimal.Decimal `json:"price"`
}

type plotResponse struct {
	ID         string          `json:"id"`
	Number     string          `json:"number"`
	Size       string          `json:"size,omitempty"`
	Location   string          `json:"location,omitempty"`
	Price      decimal.Decimal `json:"price"`
	Status     string          `json:"status"`
	Owner      string          `json:"owner,omitempty"`
	ReservedBy string          `json:"reserved_by,omitempty"`
	ReservedAt *time.Time      `json:"reserved_at,omitempty"`
	SoldAt     *time.Time      `json:"sold_at,omitempty"`
}

// HandleCreatePlot adds a plot to the catalog.
func HandleCreatePlot(svc PlotService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPlotRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		plot, err := svc.CreatePlot(r.Context(), app.CreatePlotInput{
			Number:   req.Number,
			Size:     req.Size,
			Location: req.Location,
			Price:    req.Price,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeSuccess(w, http.StatusCreated, toPlotResponse(plot))
	}
}

// HandleListPlots returns the catalog with availability.
func HandleListPlots(svc PlotService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plots, err := svc.ListPlots(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		resp := make([]plotResponse, 0, len(plots))
		for _, p := range plots {
			resp = append(resp, toPlotResponse(p))
		}
		writeSuccess(w, http.StatusOK, resp)
	}
}

// HandleGetPlot returns one plot by its number.
func HandleGetPlot(svc PlotService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		plot, err := svc.GetPlotByNumber(r.Context(), r.PathValue("number"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, toPlotResponse(plot))
	}
}

func toPlotResponse(p domain.Plot) plotResponse {
	return plotResponse{
		ID:         p.ID,
		Number:     p.Number,
		Size:       p.Size,
		Location:   p.Location,
		Price:      p.Price,
		Status:     string(p.Status),
		Owner:      p.Owner,
		ReservedBy: p.ReservedBy,
		ReservedAt: p.ReservedAt,
		SoldAt:     p.SoldAt,
	}
}
