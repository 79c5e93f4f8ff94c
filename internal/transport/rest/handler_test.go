package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medbook/config"
	"medbook/internal/domain"
	"medbook/internal/repository/memory"
	"medbook/internal/service"
	"medbook/internal/transport/websocket"
	"medbook/pkg/auth"
)

const signingKey = "test-key"

// Sunday noon; the seeded rule runs on Mondays 09:00-12:00 in 30 minute slots.
var sunday = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const monday = "2026-03-02"

type testServer struct {
	t        *testing.T
	router   *gin.Engine
	store    *memory.Store
	services *service.Services

	doctorID     int64
	doctorUserID int64
	clinicID     int64
	patientID    int64
	otherPatient int64
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Name:    "medbook",
		Version: "test",
		JWT:     config.JWTConfig{SigningKey: signingKey},
		Booking: config.BookingConfig{
			ClaimTimeout: time.Second,
			ClaimRetries: 3,
			ClaimBackoff: time.Millisecond,
			MaxRangeDays: 62,
		},
	}

	logger := zap.NewNop()
	store := memory.NewStore()
	hub := websocket.NewSlotHub(logger)
	services := service.NewServices(service.Deps{
		Repos:  store.Repositories(),
		Logger: logger,
		Config: cfg,
		Events: hub,
		Clock:  func() time.Time { return sunday },
	})

	s := &testServer{t: t, router: gin.New(), store: store, services: services}
	NewHandler(services, logger, cfg, hub).InitRoutes(s.router)

	s.doctorUserID = store.AddUser(domain.User{FirstName: "Ada", Role: domain.UserRoleDoctor, IsActive: true})
	s.doctorID = store.AddDoctor(domain.Doctor{UserID: s.doctorUserID, FullName: "Ada Lovelace", Specialty: "Cardiology"})
	s.patientID = store.AddUser(domain.User{FirstName: "Pat", Role: domain.UserRolePatient, IsActive: true})
	s.otherPatient = store.AddUser(domain.User{FirstName: "Sam", Role: domain.UserRolePatient, IsActive: true})

	ctx := context.Background()
	clinic, err := services.Clinic.Create(ctx, s.doctorID, domain.CreateClinicDTO{Name: "North Clinic", Timezone: "UTC", PriceInPerson: 80})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.clinicID = clinic.ID

	if _, err := services.Schedule.CreateRule(ctx, s.doctorID, domain.CreateRuleDTO{
		ClinicID: s.clinicID, DayOfWeek: "MONDAY", StartTime: "09:00", EndTime: "12:00", SlotDurationMinutes: 30,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return s
}

func (s *testServer) token(userID int64, role domain.UserRole) string {
	s.t.Helper()
	token, err := auth.NewTokenManager(signingKey).Generate(userID, string(role), time.Hour, time.Now())
	if err != nil {
		s.t.Fatalf("unexpected error: %v", err)
	}
	return token
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("unexpected error: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

type envelope[T any] struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Code      int    `json:"code"`
	ErrorCode string `json:"error_code"`
	Data      T      `json:"data"`
}

func (s *testServer) availability() []domain.TimeSlot {
	s.t.Helper()
	w := s.do(http.MethodGet, fmt.Sprintf("/api/v1/doctors/%d/availability?clinic_id=%d&date=%s", s.doctorID, s.clinicID, monday), "", nil)
	if w.Code != http.StatusOK {
		s.t.Fatalf("availability: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	return decode[envelope[domain.DaySlots]](s.t, w).Data.Slots
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get(requestIDHeader) == "" {
		t.Error("expected a request id header")
	}
}

func TestBookingFlow(t *testing.T) {
	s := newTestServer(t)
	patient := s.token(s.patientID, domain.UserRolePatient)
	other := s.token(s.otherPatient, domain.UserRolePatient)

	slots := s.availability()
	if len(slots) != 6 {
		t.Fatalf("expected 6 free slots, got %d", len(slots))
	}

	w := s.do(http.MethodPost, "/api/v1/bookings", patient, domain.CreateBookingDTO{SlotID: slots[0].ID, Type: domain.BookingTypeInPerson})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	booking := decode[envelope[domain.Booking]](t, w).Data
	if booking.Status != domain.BookingStatusPending || booking.Price != 80 {
		t.Errorf("unexpected booking %+v", booking)
	}

	w = s.do(http.MethodPost, "/api/v1/bookings", other, domain.CreateBookingDTO{SlotID: slots[0].ID, Type: domain.BookingTypeInPerson})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
	if got := decode[envelope[any]](t, w).ErrorCode; got != string(domain.OutcomeSlotAlreadyBooked) {
		t.Errorf("expected SLOT_ALREADY_BOOKED, got %q", got)
	}

	if n := len(s.availability()); n != 5 {
		t.Fatalf("expected 5 free slots after booking, got %d", n)
	}

	w = s.do(http.MethodGet, fmt.Sprintf("/api/v1/bookings/%d", booking.ID), other, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("another patient must not read the booking, got %d", w.Code)
	}
	w = s.do(http.MethodGet, fmt.Sprintf("/api/v1/bookings/%d", booking.ID), s.token(s.doctorUserID, domain.UserRoleDoctor), nil)
	if w.Code != http.StatusOK {
		t.Errorf("the booking's doctor must read it, got %d", w.Code)
	}

	w = s.do(http.MethodGet, "/api/v1/bookings", patient, nil)
	if page := decode[paginatedResponse](t, w); page.TotalCount != 1 {
		t.Errorf("expected 1 own booking, got %d", page.TotalCount)
	}
	w = s.do(http.MethodGet, "/api/v1/bookings", other, nil)
	if page := decode[paginatedResponse](t, w); page.TotalCount != 0 {
		t.Errorf("expected no bookings for the other patient, got %d", page.TotalCount)
	}

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/bookings/%d", booking.ID), patient, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := decode[envelope[cancelResponse]](t, w).Data.Result; got != domain.CancelResultCanceled {
		t.Errorf("expected CANCELED, got %s", got)
	}

	w = s.do(http.MethodDelete, fmt.Sprintf("/api/v1/bookings/%d", booking.ID), patient, nil)
	if got := decode[envelope[cancelResponse]](t, w).Data.Result; got != domain.CancelResultAlreadyCanceled {
		t.Errorf("expected ALREADY_CANCELED, got %s", got)
	}

	if n := len(s.availability()); n != 6 {
		t.Fatalf("canceled slot must be free again, got %d free", n)
	}
}

func TestCreateBooking_Rejections(t *testing.T) {
	s := newTestServer(t)
	patient := s.token(s.patientID, domain.UserRolePatient)
	doctor := s.token(s.doctorUserID, domain.UserRoleDoctor)
	slots := s.availability()

	w := s.do(http.MethodPost, fmt.Sprintf("/api/v1/schedule/slots/%d/block", slots[1].ID), doctor, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("block: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	tests := []struct {
		name       string
		token      string
		body       interface{}
		wantStatus int
		wantCode   string
	}{
		{"no token", "", domain.CreateBookingDTO{SlotID: slots[0].ID, Type: domain.BookingTypeOnline}, http.StatusUnauthorized, ""},
		{"doctor cannot book", doctor, domain.CreateBookingDTO{SlotID: slots[0].ID, Type: domain.BookingTypeOnline}, http.StatusForbidden, errorCodeForbidden},
		{"bad type", patient, map[string]interface{}{"slot_id": slots[0].ID, "type": "HOME_VISIT"}, http.StatusBadRequest, errorCodeValidation},
		{"unknown slot", patient, domain.CreateBookingDTO{SlotID: 99999, Type: domain.BookingTypeOnline}, http.StatusNotFound, string(domain.OutcomeSlotNotFound)},
		{"blocked slot", patient, domain.CreateBookingDTO{SlotID: slots[1].ID, Type: domain.BookingTypeOnline}, http.StatusConflict, string(domain.OutcomeSlotBlocked)},
		{"inactive patient", s.token(99999, domain.UserRolePatient), domain.CreateBookingDTO{SlotID: slots[0].ID, Type: domain.BookingTypeOnline}, http.StatusUnprocessableEntity, string(domain.OutcomeInvalidPatient)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/api/v1/bookings", tt.token, tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if got := decode[envelope[any]](t, w).ErrorCode; got != tt.wantCode {
				t.Errorf("expected error code %q, got %q", tt.wantCode, got)
			}
		})
	}
}

func TestServiceErrorResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handler{logger: zap.NewNop()}

	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{fmt.Errorf("claim: %w", domain.ErrSlotAlreadyBooked), http.StatusConflict, "SLOT_ALREADY_BOOKED"},
		{fmt.Errorf("%w: %w", domain.ErrSlotBlocked, domain.ErrClinicInactive), http.StatusConflict, "SLOT_BLOCKED"},
		{domain.ErrSlotExpired, http.StatusGone, "SLOT_EXPIRED"},
		{domain.ErrInvalidPatient, http.StatusUnprocessableEntity, "INVALID_PATIENT"},
		{fmt.Errorf("gave up after 3 attempts: %w", domain.ErrTransientConflict), http.StatusServiceUnavailable, "TRANSIENT_CONFLICT"},
		{domain.ErrBookingNotFound, http.StatusNotFound, errorCodeNotFound},
		{fmt.Errorf("%w: CANCELED -> CONFIRMED", domain.ErrInvalidStateTransition), http.StatusConflict, errorCodeInvalidState},
		{domain.ErrRangeTooLarge, http.StatusBadRequest, errorCodeRangeTooLarge},
		{domain.ErrForbidden, http.StatusForbidden, errorCodeForbidden},
		{domain.ErrDoubleBooking, http.StatusInternalServerError, ""},
		{errors.New("connection reset"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			h.serviceErrorResponse(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, w.Code)
			}
			body := decode[envelope[any]](t, w)
			if body.ErrorCode != tt.wantCode {
				t.Errorf("expected error code %q, got %q", tt.wantCode, body.ErrorCode)
			}
			if tt.wantStatus == http.StatusInternalServerError && body.Message != "internal server error" {
				t.Errorf("internal errors must not leak, got %q", body.Message)
			}
			if retry := w.Header().Get("Retry-After"); (tt.wantStatus == http.StatusServiceUnavailable) != (retry != "") {
				t.Errorf("unexpected Retry-After %q for status %d", retry, tt.wantStatus)
			}
		})
	}
}

func TestDoctorScheduleRoutes(t *testing.T) {
	s := newTestServer(t)
	doctor := s.token(s.doctorUserID, domain.UserRoleDoctor)

	w := s.do(http.MethodGet, "/api/v1/schedule/rules", s.token(s.patientID, domain.UserRolePatient), nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("patients must not manage schedules, got %d", w.Code)
	}

	w = s.do(http.MethodPost, "/api/v1/schedule/rules", doctor, domain.CreateRuleDTO{
		ClinicID: s.clinicID, DayOfWeek: "TUESDAY", StartTime: "09:00", EndTime: "10:00", SlotDurationMinutes: 40,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	rule := decode[envelope[domain.WeeklyScheduleRule]](t, w).Data

	w = s.do(http.MethodGet, fmt.Sprintf("/api/v1/doctors/%d/availability?clinic_id=%d&date=2026-03-03", s.doctorID, s.clinicID), "", nil)
	if got := decode[envelope[domain.DaySlots]](t, w).Data.Slots; len(got) != 1 {
		t.Fatalf("09:00-10:00 in 40 minute slots must yield 1 slot, got %d", len(got))
	}

	w = s.do(http.MethodPost, fmt.Sprintf("/api/v1/schedule/rules/%d/deactivate", rule.ID), doctor, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = s.do(http.MethodGet, "/api/v1/schedule/rules", doctor, nil)
	if rules := decode[envelope[[]domain.WeeklyScheduleRule]](t, w).Data; len(rules) != 1 {
		t.Errorf("expected only the active rule, got %d", len(rules))
	}

	w = s.do(http.MethodPost, "/api/v1/schedule/rules", doctor, domain.CreateRuleDTO{
		ClinicID: s.clinicID, DayOfWeek: "Funday", StartTime: "09:00", EndTime: "10:00", SlotDurationMinutes: 30,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for an unknown day, got %d", w.Code)
	}

	w = s.do(http.MethodGet, fmt.Sprintf("/api/v1/schedule/slots?clinic_id=%d&date=%s", s.clinicID, monday), doctor, nil)
	if views := decode[envelope[[]domain.SlotView]](t, w).Data; len(views) != 6 || views[0].State != domain.SlotStateFree {
		t.Errorf("unexpected day calendar %+v", views)
	}
}

func TestAvailability_BadRequests(t *testing.T) {
	s := newTestServer(t)

	paths := []string{
		"/api/v1/doctors/abc/availability?clinic_id=1&date=2026-03-02",
		fmt.Sprintf("/api/v1/doctors/%d/availability?date=2026-03-02", s.doctorID),
		fmt.Sprintf("/api/v1/doctors/%d/availability?clinic_id=%d&date=03/02/2026", s.doctorID, s.clinicID),
		fmt.Sprintf("/api/v1/doctors/%d/available-days?clinic_id=%d&from=2026-03-02&days=-1", s.doctorID, s.clinicID),
	}
	for _, path := range paths {
		if w := s.do(http.MethodGet, path, "", nil); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, w.Code)
		}
	}

	w := s.do(http.MethodGet, fmt.Sprintf("/api/v1/doctors/%d/available-days?clinic_id=%d&from=2026-03-01&days=14", s.doctorID, s.clinicID), "", nil)
	if days := decode[envelope[[]domain.AvailableDay]](t, w).Data; len(days) != 2 {
		t.Errorf("expected two Mondays in two weeks, got %+v", days)
	}
}

func TestExportWithoutStorage(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/analytics/export", s.token(s.doctorUserID, domain.UserRoleDoctor), domain.ExportRequestDTO{From: "2026-03-01", To: "2026-03-31"})
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestServer(t)

	expired, err := auth.NewTokenManager(signingKey).Generate(s.patientID, "patient", time.Minute, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	badRole, err := auth.NewTokenManager(signingKey).Generate(s.patientID, "superuser", time.Hour, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for name, header := range map[string]string{
		"basic scheme": "Basic abc",
		"expired":      "Bearer " + expired,
		"unknown role": "Bearer " + badRole,
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
		req.Header.Set("Authorization", header)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", name, w.Code)
		}
	}
}
