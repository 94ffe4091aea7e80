package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cottontrade/marketplace-api/internal/api/middleware"
	"github.com/cottontrade/marketplace-api/internal/core/domain"
	"github.com/cottontrade/marketplace-api/internal/core/ports"
)

type stubProfileService struct {
	profiles []*domain.Profile
}

func (s *stubProfileService) LoadOrProvision(context.Context, string) (*domain.Profile, error) {
	return nil, domain.ErrProfileNotFound
}

func (s *stubProfileService) Update(context.Context, string, ports.ProfileUpdateInput) (*domain.Profile, error) {
	return nil, domain.ErrProfileNotFound
}

func (s *stubProfileService) List(context.Context) ([]*domain.Profile, error) {
	return s.profiles, nil
}

func (s *stubProfileService) SetRole(context.Context, string, domain.Role, string) error {
	return nil
}

type stubInventoryService struct {
	own    []*domain.InventoryItem
	market []*domain.InventoryItem
}

func (s *stubInventoryService) Create(context.Context, string, ports.CreateItemInput) (*domain.InventoryItem, error) {
	return nil, domain.ErrItemNotFound
}

func (s *stubInventoryService) Get(context.Context, string, string, domain.Role) (*domain.InventoryItem, error) {
	return nil, domain.ErrItemNotFound
}

func (s *stubInventoryService) ListOwn(context.Context, string) ([]*domain.InventoryItem, error) {
	return s.own, nil
}

func (s *stubInventoryService) ListMarket(context.Context) ([]*domain.InventoryItem, error) {
	return s.market, nil
}

func (s *stubInventoryService) Update(context.Context, string, string, ports.UpdateItemInput) (*domain.InventoryItem, error) {
	return nil, domain.ErrItemNotFound
}

func (s *stubInventoryService) Delete(context.Context, string, string) error {
	return domain.ErrItemNotFound
}

func newDashboardContext(t *testing.T, role domain.Role) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set(middleware.CtxProfile, &domain.Profile{SubjectID: "subj_1", Role: role})
		c.Set(middleware.CtxRole, role)
	}
	return c, rec
}

func TestDashboardHandler_Dispatch_RoutesByRole(t *testing.T) {
	handler := NewDashboardHandler(&stubProfileService{}, &stubInventoryService{}, zerolog.Nop())

	cases := []struct {
		role domain.Role
		home string
	}{
		{domain.RoleAdmin, "/admin"},
		{domain.RoleSeller, "/seller"},
		{domain.RoleBuyer, "/buyer"},
		{domain.RoleTransporter, "/transporter"},
	}
	for _, tc := range cases {
		c, rec := newDashboardContext(t, tc.role)
		if err := handler.Dispatch(c); err != nil {
			t.Fatalf("%s: handler error: %v", tc.role, err)
		}
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("%s: expected 303, got %d", tc.role, rec.Code)
		}
		if location := rec.Header().Get(echo.HeaderLocation); location != tc.home {
			t.Fatalf("%s: expected %s, got %q", tc.role, tc.home, location)
		}
	}
}

func TestDashboardHandler_Dispatch_UnknownRole(t *testing.T) {
	handler := NewDashboardHandler(&stubProfileService{}, &stubInventoryService{}, zerolog.Nop())

	c, rec := newDashboardContext(t, "intruder")
	if err := handler.Dispatch(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("unknown role must render nothing, got %d", rec.Code)
	}
}

func TestDashboardHandler_Dispatch_MissingGateContext(t *testing.T) {
	handler := NewDashboardHandler(&stubProfileService{}, &stubInventoryService{}, zerolog.Nop())

	c, _ := newDashboardContext(t, "")
	err := handler.Dispatch(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestDashboardHandler_Seller_CountsOwnItems(t *testing.T) {
	inventory := &stubInventoryService{
		own: []*domain.InventoryItem{{ID: "item_1"}, {ID: "item_2"}},
	}
	handler := NewDashboardHandler(&stubProfileService{}, inventory, zerolog.Nop())

	c, rec := newDashboardContext(t, domain.RoleSeller)
	if err := handler.Seller(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, `"item_count":2`) {
		t.Fatalf("expected item_count 2 in body: %s", body)
	}
}

func TestDashboardHandler_Unauthorized(t *testing.T) {
	handler := NewDashboardHandler(&stubProfileService{}, &stubInventoryService{}, zerolog.Nop())

	c, rec := newDashboardContext(t, "")
	if err := handler.Unauthorized(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
