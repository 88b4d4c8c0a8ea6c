package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/casona/innrate/internal/app"
	"github.com/casona/innrate/internal/domain"
)

func TestHandleAdminUnits_Create(t *testing.T) {
	t.Parallel()

	created := domain.PricingUnit{
		ID:               "unit-1",
		RoomType:         "double",
		Period:           domain.PeriodNight,
		MorningBasePrice: 70,
		NightBasePrice:   86,
		CurrentPrice:     86,
		AvailableCount:   4,
		TotalCount:       4,
		Active:           true,
	}

	tests := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "success",
			body:           `{"room_type":"double","period":"night","morning_base_price":70,"night_base_price":86,"total_count":4}`,
			expectedStatus: http.StatusCreated,
			expectedSubstr: `"id":"unit-1"`,
		},
		{
			name:           "invalid json",
			body:           `{"room_type":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing room type",
			body:           `{"period":"night","morning_base_price":70,"night_base_price":86,"total_count":4}`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"room_type_required"`,
		},
		{
			name:           "unknown period",
			body:           `{"room_type":"double","period":"afternoon","morning_base_price":70,"night_base_price":86,"total_count":4}`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"invalid_period"`,
		},
		{
			name:           "zero base price",
			body:           `{"room_type":"double","period":"night","morning_base_price":0,"night_base_price":86,"total_count":4}`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"invalid_base_price"`,
		},
		{
			name:           "zero capacity",
			body:           `{"room_type":"double","period":"night","morning_base_price":70,"night_base_price":86,"total_count":0}`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"invalid_capacity"`,
		},
		{
			name:           "internal error",
			body:           `{"room_type":"double","period":"night","morning_base_price":70,"night_base_price":86,"total_count":4}`,
			serviceErr:     errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubAdminService{unit: created, err: tt.serviceErr}
			req := httptest.NewRequest(http.MethodPost, "/admin/units", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			HandleAdminUnits(svc).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}

func TestHandleAdminUnits_List(t *testing.T) {
	t.Parallel()

	svc := &stubAdminService{units: []domain.PricingUnit{
		{ID: "unit-1", RoomType: "double", Period: domain.PeriodNight},
		{ID: "unit-2", RoomType: "suite", Period: domain.PeriodMorning},
	}}
	req := httptest.NewRequest(http.MethodGet, "/admin/units", nil)
	rec := httptest.NewRecorder()

	HandleAdminUnits(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"id":"unit-1"`) || !strings.Contains(body, `"id":"unit-2"`) {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestHandleOverridePrice(t *testing.T) {
	t.Parallel()

	updated := domain.PricingUnit{
		ID:           "unit-1",
		RoomType:     "double",
		Period:       domain.PeriodNight,
		CurrentPrice: 78,
		Active:       true,
	}

	tests := []struct {
		name           string
		method         string
		target         string
		body           string
		serviceErr     error
		expectedStatus int
		expectedSubstr string
	}{
		{
			name:           "success",
			method:         http.MethodPut,
			target:         "/admin/units/unit-1/price",
			body:           `{"price":78,"reason":"walk-in discount"}`,
			expectedStatus: http.StatusOK,
			expectedSubstr: `"current_price":78`,
		},
		{
			name:           "missing reason",
			method:         http.MethodPut,
			target:         "/admin/units/unit-1/price",
			body:           `{"price":78}`,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"reason_required"`,
		},
		{
			name:           "out of bounds",
			method:         http.MethodPut,
			target:         "/admin/units/unit-1/price",
			body:           `{"price":60,"reason":"peak event"}`,
			serviceErr:     domain.ErrPriceOutOfRange,
			expectedStatus: http.StatusBadRequest,
			expectedSubstr: `"code":"price_out_of_range"`,
		},
		{
			name:           "unit not found",
			method:         http.MethodPut,
			target:         "/admin/units/unit-9/price",
			body:           `{"price":78,"reason":"walk-in discount"}`,
			serviceErr:     domain.ErrUnitNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "bad path",
			method:         http.MethodPut,
			target:         "/admin/units/unit-1/rate",
			body:           `{"price":78,"reason":"walk-in discount"}`,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "method not allowed",
			method:         http.MethodPost,
			target:         "/admin/units/unit-1/price",
			body:           `{"price":78,"reason":"walk-in discount"}`,
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := &stubOverrideService{unit: updated, err: tt.serviceErr}
			req := httptest.NewRequest(tt.method, tt.target, bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			HandleOverridePrice(svc).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.expectedStatus, rec.Code, rec.Body.String())
			}
			if tt.expectedSubstr != "" && !strings.Contains(rec.Body.String(), tt.expectedSubstr) {
				t.Fatalf("expected response to contain %q, got %q", tt.expectedSubstr, rec.Body.String())
			}
		})
	}
}

type stubAdminService struct {
	unit  domain.PricingUnit
	units []domain.PricingUnit
	err   error
}

func (s *stubAdminService) CreateUnit(_ context.Context, _ app.CreateUnitInput) (domain.PricingUnit, error) {
	if s.err != nil {
		return domain.PricingUnit{}, s.err
	}
	return s.unit, nil
}

func (s *stubAdminService) ListUnits(_ context.Context) ([]domain.PricingUnit, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.units, nil
}

type stubOverrideService struct {
	unit domain.PricingUnit
	err  error
}

func (s *stubOverrideService) OverridePrice(_ context.Context, _ app.OverridePriceInput) (domain.PricingUnit, error) {
	if s.err != nil {
		return domain.PricingUnit{}, s.err
	}
	return s.unit, nil
}
