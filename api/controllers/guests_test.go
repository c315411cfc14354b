package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lsoria/qrsec-backend/api/middleware"
	"github.com/lsoria/qrsec-backend/internal/guests"
	"github.com/lsoria/qrsec-backend/internal/identity"
	"github.com/lsoria/qrsec-backend/pkg/enums"
	pkgerrors "github.com/lsoria/qrsec-backend/pkg/errors"
)

type stubGuestService struct {
	dto  *guests.GuestDTO
	list []guests.GuestDTO
	err  error

	removed uuid.UUID
}

func (s *stubGuestService) Register(ctx context.Context, caller identity.Caller, input guests.RegisterInput) (*guests.GuestDTO, error) {
	return s.dto, s.err
}

func (s *stubGuestService) Get(ctx context.Context, caller identity.Caller, id uuid.UUID) (*guests.GuestDTO, error) {
	return s.dto, s.err
}

func (s *stubGuestService) ListAll(ctx context.Context, caller identity.Caller) ([]guests.GuestDTO, error) {
	return s.list, s.err
}

func (s *stubGuestService) ListMine(ctx context.Context, caller identity.Caller) ([]guests.GuestDTO, error) {
	return s.list, s.err
}

func (s *stubGuestService) Remove(ctx context.Context, caller identity.Caller, id uuid.UUID) error {
	s.removed = id
	return s.err
}

func guestRequest(method, target string, body []byte, id string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	routeCtx := chi.NewRouteContext()
	if id != "" {
		routeCtx.URLParams.Add("id", id)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	ctx = middleware.WithCaller(ctx, identity.New("owner@x.com", []enums.Role{enums.RoleOwner}))
	return req.WithContext(ctx)
}

func TestGuestCreateSuccess(t *testing.T) {
	dto := &guests.GuestDTO{ID: uuid.New(), DNI: "30123456"}
	handler := GuestCreate(&stubGuestService{dto: dto}, nil)

	body := []byte(`{"first_name":"Juan","last_name":"Perez","dni":"30123456"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, guestRequest(http.MethodPost, "/api/v1/guests", body, ""))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	var envelope struct {
		Data guests.GuestDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.DNI != "30123456" {
		t.Fatalf("unexpected dni %q", envelope.Data.DNI)
	}
}

func TestGuestCreateRequiresDNI(t *testing.T) {
	handler := GuestCreate(&stubGuestService{}, nil)

	body := []byte(`{"first_name":"Juan","last_name":"Perez"}`)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, guestRequest(http.MethodPost, "/api/v1/guests", body, ""))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestGuestDeleteAnswersNoContent(t *testing.T) {
	svc := &stubGuestService{}
	handler := GuestDelete(svc, nil)

	id := uuid.New()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, guestRequest(http.MethodDelete, "/api/v1/guests/"+id.String(), nil, id.String()))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", rec.Code)
	}
	if svc.removed != id {
		t.Fatalf("expected removal of %s, got %s", id, svc.removed)
	}
}

func TestGuestDeleteForbidden(t *testing.T) {
	handler := GuestDelete(&stubGuestService{err: pkgerrors.New(pkgerrors.CodeForbidden, "guest is not yours")}, nil)

	id := uuid.NewString()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, guestRequest(http.MethodDelete, "/api/v1/guests/"+id, nil, id))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}

func TestGuestListMine(t *testing.T) {
	list := []guests.GuestDTO{{ID: uuid.New()}, {ID: uuid.New()}}
	handler := GuestListMine(&stubGuestService{list: list}, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, guestRequest(http.MethodGet, "/api/v1/guests/mine", nil, ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data []guests.GuestDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 2 {
		t.Fatalf("expected 2 guests, got %d", len(envelope.Data))
	}
}
