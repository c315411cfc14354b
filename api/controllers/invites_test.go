package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lsoria/qrsec-backend/api/middleware"
	"github.com/lsoria/qrsec-backend/internal/identity"
	"github.com/lsoria/qrsec-backend/internal/invites"
	"github.com/lsoria/qrsec-backend/pkg/enums"
	pkgerrors "github.com/lsoria/qrsec-backend/pkg/errors"
)

type stubInviteService struct {
	dto     *invites.InviteDTO
	list    []invites.InviteDTO
	delete  *invites.DeleteResult
	verdict invites.Verdict
	err     error

	gotAction enums.InviteAction
	gotAt     time.Time
}

func (s *stubInviteService) Create(ctx context.Context, caller identity.Caller, input invites.InviteInput) (*invites.InviteDTO, error) {
	return s.dto, s.err
}

func (s *stubInviteService) Get(ctx context.Context, caller identity.Caller, id uuid.UUID) (*invites.InviteDTO, error) {
	return s.dto, s.err
}

func (s *stubInviteService) ListAll(ctx context.Context, caller identity.Caller) ([]invites.InviteDTO, error) {
	return s.list, s.err
}

func (s *stubInviteService) ListMine(ctx context.Context, caller identity.Caller) ([]invites.InviteDTO, error) {
	return s.list, s.err
}

func (s *stubInviteService) Update(ctx context.Context, caller identity.Caller, id uuid.UUID, input invites.InviteInput) (*invites.InviteDTO, error) {
	return s.dto, s.err
}

func (s *stubInviteService) Delete(ctx context.Context, caller identity.Caller, id uuid.UUID) (*invites.DeleteResult, error) {
	return s.delete, s.err
}

func (s *stubInviteService) Apply(ctx context.Context, caller identity.Caller, id uuid.UUID, action enums.InviteAction, at time.Time) (*invites.InviteDTO, error) {
	s.gotAction = action
	s.gotAt = at
	return s.dto, s.err
}

func (s *stubInviteService) Validate(ctx context.Context, caller identity.Caller, id uuid.UUID, at time.Time) (invites.Verdict, error) {
	s.gotAt = at
	return s.verdict, s.err
}

func inviteRequest(method, target string, body []byte, params map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	routeCtx := chi.NewRouteContext()
	for k, v := range params {
		routeCtx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	ctx = middleware.WithCaller(ctx, identity.New("owner@x.com", []enums.Role{enums.RoleOwner}))
	return req.WithContext(ctx)
}

func TestInviteCreateSuccess(t *testing.T) {
	dto := &invites.InviteDTO{ID: uuid.New(), OwnerEmail: "owner@x.com", Enabled: true}
	handler := InviteCreate(&stubInviteService{dto: dto}, nil)

	body := []byte(`{"days":["1","2"],"hours":[["08:00","18:00"]]}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, inviteRequest(http.MethodPost, "/api/v1/invites", body, nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	var envelope struct {
		Data invites.InviteDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != dto.ID {
		t.Fatalf("expected id %s got %s", dto.ID, envelope.Data.ID)
	}
}

func TestInviteCreateRejectsUnknownField(t *testing.T) {
	handler := InviteCreate(&stubInviteService{}, nil)

	body := []byte(`{"owner_email":"sneaky@x.com"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, inviteRequest(http.MethodPost, "/api/v1/invites", body, nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestInviteGetNotFound(t *testing.T) {
	handler := InviteGet(&stubInviteService{err: pkgerrors.New(pkgerrors.CodeNotFound, "invite not found")}, nil)

	rec := httptest.NewRecorder()
	req := inviteRequest(http.MethodGet, "/api/v1/invites/"+uuid.NewString(), nil, map[string]string{"id": uuid.NewString()})
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestInviteGetRejectsBadID(t *testing.T) {
	handler := InviteGet(&stubInviteService{}, nil)

	rec := httptest.NewRecorder()
	req := inviteRequest(http.MethodGet, "/api/v1/invites/nope", nil, map[string]string{"id": "nope"})
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestInviteDeletePurgedAnswersNoContent(t *testing.T) {
	handler := InviteDelete(&stubInviteService{delete: &invites.DeleteResult{Purged: true}}, nil)

	rec := httptest.NewRecorder()
	req := inviteRequest(http.MethodDelete, "/api/v1/invites/x", nil, map[string]string{"id": uuid.NewString()})
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
}

func TestInviteDeleteDisabledReturnsInvite(t *testing.T) {
	dto := &invites.InviteDTO{ID: uuid.New(), Enabled: false}
	handler := InviteDelete(&stubInviteService{delete: &invites.DeleteResult{Invite: dto}}, nil)

	rec := httptest.NewRecorder()
	req := inviteRequest(http.MethodDelete, "/api/v1/invites/x", nil, map[string]string{"id": uuid.NewString()})
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data invites.InviteDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Enabled {
		t.Fatal("expected disabled invite in response")
	}
}

func TestInviteValidatePassesTimestamp(t *testing.T) {
	svc := &stubInviteService{verdict: invites.Verdict{Valid: true}}
	handler := InviteValidate(svc, nil)

	rec := httptest.NewRecorder()
	req := inviteRequest(http.MethodGet, "/api/v1/invites/x/validate?timestamp=2024-03-04T09:30:00Z", nil, map[string]string{"id": uuid.NewString()})
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	want := time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)
	if !svc.gotAt.Equal(want) {
		t.Fatalf("expected timestamp %s, got %s", want, svc.gotAt)
	}
	var envelope struct {
		Data invites.Verdict `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.Valid {
		t.Fatal("expected valid verdict")
	}
}

func TestInviteValidateRejectsMalformedTimestamp(t *testing.T) {
	handler := InviteValidate(&stubInviteService{}, nil)

	rec := httptest.NewRecorder()
	req := inviteRequest(http.MethodGet, "/api/v1/invites/x/validate?timestamp=yesterday", nil, map[string]string{"id": uuid.NewString()})
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestInviteActionParsesAction(t *testing.T) {
	svc := &stubInviteService{dto: &invites.InviteDTO{ID: uuid.New()}}
	handler := InviteAction(svc, nil)

	rec := httptest.NewRecorder()
	req := inviteRequest(http.MethodPost, "/api/v1/invites/x/actions/arrival", nil, map[string]string{
		"id":     uuid.NewString(),
		"action": "arrival",
	})
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.gotAction != enums.InviteActionArrival {
		t.Fatalf("expected arrival action, got %q", svc.gotAction)
	}
}

func TestInviteActionPassesTimestamp(t *testing.T) {
	svc := &stubInviteService{dto: &invites.InviteDTO{ID: uuid.New()}}
	handler := InviteAction(svc, nil)

	rec := httptest.NewRecorder()
	req := inviteRequest(http.MethodPost, "/api/v1/invites/x/actions/arrival?timestamp=2024-03-04T09:30:00-03:00", nil, map[string]string{
		"id":     uuid.NewString(),
		"action": "arrival",
	})
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	want := time.Date(2024, 3, 4, 12, 30, 0, 0, time.UTC)
	if !svc.gotAt.Equal(want) {
		t.Fatalf("expected action instant %s, got %s", want, svc.gotAt)
	}
}

func TestInviteActionRejectsMalformedTimestamp(t *testing.T) {
	handler := InviteAction(&stubInviteService{}, nil)

	rec := httptest.NewRecorder()
	req := inviteRequest(http.MethodPost, "/api/v1/invites/x/actions/arrival?timestamp=03%2F04%2F2024", nil, map[string]string{
		"id":     uuid.NewString(),
		"action": "arrival",
	})
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestInviteActionRejectsUnknownAction(t *testing.T) {
	handler := InviteAction(&stubInviteService{}, nil)

	rec := httptest.NewRecorder()
	req := inviteRequest(http.MethodPost, "/api/v1/invites/x/actions/teleport", nil, map[string]string{
		"id":     uuid.NewString(),
		"action": "teleport",
	})
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestInviteActionStateConflict(t *testing.T) {
	handler := InviteAction(&stubInviteService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "guest already departed")}, nil)

	rec := httptest.NewRecorder()
	req := inviteRequest(http.MethodPost, "/api/v1/invites/x/actions/arrival", nil, map[string]string{
		"id":     uuid.NewString(),
		"action": "arrival",
	})
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
}

func TestInviteCreateNilService(t *testing.T) {
	rec := httptest.NewRecorder()
	InviteCreate(nil, nil).ServeHTTP(rec, inviteRequest(http.MethodPost, "/api/v1/invites", []byte(`{}`), nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
}
