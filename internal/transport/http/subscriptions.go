package http

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/umphart/musabaha-ltd-backend/internal/app"
	"github.com/umphart/musabaha-ltd-backend/internal/blob"
	"github.com/umphart/musabaha-ltd-backend/internal/domain"
)

// SubscriptionService is the minimal interface for the reservation workflow.
type SubscriptionService interface {
	Submit(ctx context.Context, in app.SubmitSubscriptionInput) (domain.Subscription, error)
	Approve(ctx context.Context, subscriptionID string) (domain.Subscription, error)
	Reject(ctx context.Context, subscriptionID string) (domain.Subscription, error)
	Get(ctx context.Context, id string) (domain.Subscription, error)
	List(ctx context.Context) ([]domain.Subscription, error)
	FindByEmail(ctx context.Context, email string) ([]domain.Subscription, error)
}

type subscriptionResponse struct {
	ID             string `json:"id"`
	Title          string `json:"title,omitempty"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	Address        string `json:"address,omitempty"`
	Occupation     string `json:"occupation,omitempty"`
	Nationality    string `json:"nationality,omitempty"`
	NextOfKinName  string `json:"next_of_kin_name,omitempty"`
	NextOfKinPhone string `json:"next_of_kin_phone,omitempty"`

	PlotNumbers  []string          `json:"plot_ids"`
	Price        decimal.Decimal   `json:"price"`
	PricePerPlot []decimal.Decimal `json:"price_per_plot"`
	Status       string            `json:"status"`

	PassportPhotoRef  string `json:"passport_photo_ref,omitempty"`
	IdentificationRef string `json:"identification_ref,omitempty"`
	SignatureRef      string `json:"signature_ref,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// HandleSubmitSubscription accepts a plot application, either as JSON or as
// a multipart form carrying the applicant documents.
func HandleSubmitSubscription(svc SubscriptionService, files blob.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, ok := decodeSubmitSubscription(w, r, files)
		if !ok {
			return
		}

		subscription, err := svc.Submit(r.Context(), in)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeSuccess(w, http.StatusCreated, toSubscriptionResponse(subscription))
	}
}

func decodeSubmitSubscription(w http.ResponseWriter, r *http.Request, files blob.Store) (app.SubmitSubscriptionInput, bool) {
	var in app.SubmitSubscriptionInput

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var req struct {
			Title          string   `json:"title,omitempty"`
			Name           string   `json:"name"`
			Email          string   `json:"email"`
			Phone          string   `json:"phone,omitempty"`
			Address        string   `json:"address,omitempty"`
			Occupation     string   `json:"occupation,omitempty"`
			Nationality    string   `json:"nationality,omitempty"`
			NextOfKinName  string   `json:"next_of_kin_name,omitempty"`
			NextOfKinPhone string   `json:"next_of_kin_phone,omitempty"`
			PlotNumbers    []string `json:"plot_ids"`
			PricePerPlot   []string `json:"price_per_plot,omitempty"`
		}
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return in, false
		}
		prices, err := parsePriceList(req.PricePerPlot)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidPrice, "invalid price_per_plot")
			return in, false
		}
		in = app.SubmitSubscriptionInput{
			Title:          req.Title,
			Name:           req.Name,
			Email:          req.Email,
			Phone:          req.Phone,
			Address:        req.Address,
			Occupation:     req.Occupation,
			Nationality:    req.Nationality,
			NextOfKinName:  req.NextOfKinName,
			NextOfKinPhone: req.NextOfKinPhone,
			PlotNumbers:    req.PlotNumbers,
			PricePerPlot:   prices,
		}
		return in, true
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid multipart form")
		return in, false
	}

	prices, err := parsePriceList(splitCSV(r.FormValue("price_per_plot")))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidPrice, "invalid price_per_plot")
		return in, false
	}

	in = app.SubmitSubscriptionInput{
		Title:          r.FormValue("title"),
		Name:           r.FormValue("name"),
		Email:          r.FormValue("email"),
		Phone:          r.FormValue("phone"),
		Address:        r.FormValue("address"),
		Occupation:     r.FormValue("occupation"),
		Nationality:    r.FormValue("nationality"),
		NextOfKinName:  r.FormValue("next_of_kin_name"),
		NextOfKinPhone: r.FormValue("next_of_kin_phone"),
		PlotNumbers:    splitCSV(r.FormValue("plot_ids")),
		PricePerPlot:   prices,
	}

	for _, upload := range []struct {
		field string
		dst   *string
	}{
		{"passport_photo", &in.PassportPhotoRef},
		{"identification", &in.IdentificationRef},
		{"signature", &in.SignatureRef},
	} {
		ref, ok := saveUpload(w, r, files, upload.field)
		if !ok {
			return in, false
		}
		*upload.dst = ref
	}
	return in, true
}

// HandleListSubscriptions returns all applications, newest first.
func HandleListSubscriptions(svc SubscriptionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if email := r.URL.Query().Get("email"); email != "" {
			subscriptions, err := svc.FindByEmail(r.Context(), email)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeSuccess(w, http.StatusOK, toSubscriptionResponses(subscriptions))
			return
		}

		subscriptions, err := svc.List(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, toSubscriptionResponses(subscriptions))
	}
}

// HandleGetSubscription returns one application by id.
func HandleGetSubscription(svc SubscriptionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subscription, err := svc.Get(r.Context(), r.PathValue("id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, toSubscriptionResponse(subscription))
	}
}

// HandleApproveSubscription sells every plot on a pending application.
func HandleApproveSubscription(svc SubscriptionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subscription, err := svc.Approve(r.Context(), r.PathValue("id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, toSubscriptionResponse(subscription))
	}
}

// HandleRejectSubscription releases every plot on a pending application.
func HandleRejectSubscription(svc SubscriptionService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subscription, err := svc.Reject(r.Context(), r.PathValue("id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeSuccess(w, http.StatusOK, toSubscriptionResponse(subscription))
	}
}

func parsePriceList(raw []string) ([]decimal.Decimal, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	prices := make([]decimal.Decimal, 0, len(raw))
	for _, s := range raw {
		d, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		prices = append(prices, d)
	}
	return prices, nil
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func toSubscriptionResponse(s domain.Subscription) subscriptionResponse {
	plots := s.PlotNumbers
	if plots == nil {
		plots = []string{}
	}
	prices := s.PricePerPlot
	if prices == nil {
		prices = []decimal.Decimal{}
	}
	return subscriptionResponse{
		ID:                s.ID,
		Title:             s.Title,
		Name:              s.Name,
		Email:             s.Email,
		Phone:             s.Phone,
		Address:           s.Address,
		Occupation:        s.Occupation,
		Nationality:       s.Nationality,
		NextOfKinName:     s.NextOfKinName,
		NextOfKinPhone:    s.NextOfKinPhone,
		PlotNumbers:       plots,
		Price:             s.Price,
		PricePerPlot:      prices,
		Status:            string(s.Status),
		PassportPhotoRef:  s.PassportPhotoRef,
		IdentificationRef: s.IdentificationRef,
		SignatureRef:      s.SignatureRef,
		CreatedAt:         s.CreatedAt,
	}
}

func toSubscriptionResponses(subscriptions []domain.Subscription) []subscriptionResponse {
	resp := make([]subscriptionResponse, 0, len(subscriptions))
	for _, s := range subscriptions {
		resp = append(resp, toSubscriptionResponse(s))
	}
	return resp
}
