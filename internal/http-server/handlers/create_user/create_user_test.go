package createuser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	resp "restaurante/internal/lib/api/response"
	"restaurante/internal/models"
	"restaurante/internal/services/users"
)

type fakeRegistrar struct {
	err error
}

func (f fakeRegistrar) Register(_ context.Context, req models.CreateUserRequest) (models.User, error) {
	if f.err != nil {
		return models.User{}, f.err
	}
	return models.User{
		ID:       5,
		Name:     req.Name,
		Email:    req.Email,
		PassHash: []byte("hash"),
		Group:    models.UserGroup{ID: 1, Name: users.DefaultGroup},
	}, nil
}

func serve(t *testing.T, reg UserRegistrar, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/usuarios", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	New(slog.New(slog.NewTextHandler(io.Discard, nil)), reg).ServeHTTP(rec, req)

	return rec
}

func TestCreated(t *testing.T) {
	rec := serve(t, fakeRegistrar{}, `{"nome":"Ana","email":"ana@example.com","senha":"segredo"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}

	body := rec.Body.String()
	if strings.Contains(body, "senha") || strings.Contains(body, "segredo") {
		t.Errorf("password leaked in response: %s", body)
	}

	var got models.User
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.ID != 5 || got.Name != "Ana" || got.Group.Name != users.DefaultGroup {
		t.Errorf("user = %+v", got)
	}
}

func TestDuplicateEmail(t *testing.T) {
	rec := serve(t,
		fakeRegistrar{err: fmt.Errorf("Users.Register: %w", users.ErrUserExists)},
		`{"nome":"Ana","email":"ana@example.com","senha":"segredo"}`,
	)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusConflict)
	}

	var got resp.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.Code != "user_exists" || got.Error != "Email já cadastrado." {
		t.Errorf("body = %+v", got)
	}
}

func TestInvalidEmail(t *testing.T) {
	rec := serve(t, fakeRegistrar{}, `{"nome":"Ana","email":"not-an-email","senha":"segredo"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	var got resp.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.Code != resp.CodeValidationFailed || got.Error != "field email is not a valid email" {
		t.Errorf("body = %+v", got)
	}
}
