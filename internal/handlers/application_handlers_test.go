package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mal_vip_backend/internal/models"
	"mal_vip_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// stubApplicationService delegates to optional function fields.
type stubApplicationService struct {
	submitFn     func(customerID int64, req services.SubmitApplicationRequest) (*models.Application, error)
	statusFn     func(customerID int64) (*models.Application, error)
	transitionFn func(applicationID int64, req services.TransitionApplicationRequest) (*models.Application, error)
}

func (s *stubApplicationService) SubmitApplication(customerID int64, req services.SubmitApplicationRequest) (*models.Application, error) {
	return s.submitFn(customerID, req)
}

func (s *stubApplicationService) Transition(applicationID int64, req services.TransitionApplicationRequest) (*models.Application, error) {
	return s.transitionFn(applicationID, req)
}

func (s *stubApplicationService) ApproveApplications(applicationIDs []int64, reviewerID *int64) (*services.BatchTransitionResult, error) {
	return nil, nil
}

func (s *stubApplicationService) RejectApplications(applicationIDs []int64, reviewerID *int64, rejectionReason *string) (*services.BatchTransitionResult, error) {
	return nil, nil
}

func (s *stubApplicationService) AssignReviewer(applicationID, reviewerID int64) (*models.Application, error) {
	return nil, nil
}

func (s *stubApplicationService) GetApplicationByID(applicationID int64) (*models.Application, error) {
	return nil, nil
}

func (s *stubApplicationService) GetApplicationStatus(customerID int64) (*models.Application, error) {
	return s.statusFn(customerID)
}

func (s *stubApplicationService) GetApplications(page, pageSize int, statusFilter *string) ([]models.Application, int, error) {
	return nil, 0, nil
}

func newApplicationTestRouter(svc services.ApplicationService, customerID int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set("userID", customerID)
	})
	handler := NewApplicationHandler(svc, nil)
	engine.POST("/applications", handler.SubmitApplication)
	engine.GET("/applications/status", handler.GetApplicationStatus)
	engine.POST("/admin/applications/:id/transition", handler.TransitionApplication)
	return engine
}

func TestSubmitApplicationEndpoint(t *testing.T) {
	svc := &stubApplicationService{
		submitFn: func(customerID int64, req services.SubmitApplicationRequest) (*models.Application, error) {
			if customerID != 42 {
				t.Errorf("expected customer 42, got %d", customerID)
			}
			return &models.Application{ID: 11, CustomerID: customerID, Status: models.ApplicationStatusPending, RequestedTier: req.RequestedTier}, nil
		},
	}
	engine := newApplicationTestRouter(svc, 42)

	body, _ := json.Marshal(map[string]interface{}{
		"requested_tier":              "gold",
		"reason_for_application":      "I would like priority access to curated investment products and support.",
		"investment_experience":       "Ten years of trading equities and fixed income.",
		"expected_monthly_investment": 500.00,
		"net_worth_range":             "$100,000 - $250,000",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/applications", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var app models.Application
	if err := json.Unmarshal(w.Body.Bytes(), &app); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if app.ID != 11 || app.Status != models.ApplicationStatusPending {
		t.Errorf("unexpected application in response: %+v", app)
	}
}

func TestSubmitApplicationOpenConflict(t *testing.T) {
	svc := &stubApplicationService{
		submitFn: func(customerID int64, req services.SubmitApplicationRequest) (*models.Application, error) {
			return nil, services.ErrOpenApplicationExists
		},
	}
	engine := newApplicationTestRouter(svc, 42)

	body, _ := json.Marshal(map[string]interface{}{
		"requested_tier":              "gold",
		"reason_for_application":      "I would like priority access to curated investment products and support.",
		"investment_experience":       "Ten years of trading equities and fixed income.",
		"expected_monthly_investment": 500.00,
		"net_worth_range":             "$100,000 - $250,000",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/applications", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSubmitApplicationRejectsMissingFields(t *testing.T) {
	svc := &stubApplicationService{
		submitFn: func(customerID int64, req services.SubmitApplicationRequest) (*models.Application, error) {
			t.Fatal("service must not be called for an invalid payload")
			return nil, nil
		},
	}
	engine := newApplicationTestRouter(svc, 42)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/applications", bytes.NewReader([]byte(`{"requested_tier":"gold"}`)))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetApplicationStatusNotFound(t *testing.T) {
	svc := &stubApplicationService{
		statusFn: func(customerID int64) (*models.Application, error) {
			return nil, services.ErrApplicationNotFound
		},
	}
	engine := newApplicationTestRouter(svc, 42)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/applications/status", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestTransitionApplicationConflict(t *testing.T) {
	svc := &stubApplicationService{
		transitionFn: func(applicationID int64, req services.TransitionApplicationRequest) (*models.Application, error) {
			return nil, services.ErrInvalidStatusTransition
		},
	}
	engine := newApplicationTestRouter(svc, 42)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/admin/applications/1/transition", bytes.NewReader([]byte(`{"new_status":"approved"}`)))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}
