package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dkurmanbek/pet-adoption-api/internal/domain"
	"github.com/dkurmanbek/pet-adoption-api/internal/transport/http/handler"
	"github.com/gin-gonic/gin"
	"log/slog"
	"os"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeUserUsecase implements the unexported userUsecaser interface via method matching.
type fakeUserUsecase struct {
	register      func(ctx context.Context, username, password string) (*domain.User, *domain.TokenPair, error)
	authenticate  func(ctx context.Context, username, password string) (*domain.TokenPair, error)
	refresh       func(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	currentUser   func(ctx context.Context, accessToken string) (*domain.User, error)
	adoptAnimal   func(ctx context.Context, userID, animalID int64) (*domain.User, []*domain.Animal, error)
	releaseAnimal func(ctx context.Context, userID, animalID int64) (*domain.User, []*domain.Animal, error)
}

func (f *fakeUserUsecase) Register(ctx context.Context, username, password string) (*domain.User, *domain.TokenPair, error) {
	return f.register(ctx, username, password)
}

func (f *fakeUserUsecase) Authenticate(ctx context.Context, username, password string) (*domain.TokenPair, error) {
	return f.authenticate(ctx, username, password)
}

func (f *fakeUserUsecase) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	return f.refresh(ctx, refreshToken)
}

func (f *fakeUserUsecase) CurrentUser(ctx context.Context, accessToken string) (*domain.User, error) {
	return f.currentUser(ctx, accessToken)
}

func (f *fakeUserUsecase) AdoptAnimal(ctx context.Context, userID, animalID int64) (*domain.User, []*domain.Animal, error) {
	return f.adoptAnimal(ctx, userID, animalID)
}

func (f *fakeUserUsecase) ReleaseAnimal(ctx context.Context, userID, animalID int64) (*domain.User, []*domain.Animal, error) {
	return f.releaseAnimal(ctx, userID, animalID)
}

var testPair = &domain.TokenPair{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"}

func newAuthEngine(uc *fakeUserUsecase) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	h := handler.NewAuthHandler(uc, logger)

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.Refresh)
	r.GET("/auth/me", h.Me)
	r.POST("/auth/adopt_animal/:user_id/:animal_id", h.AdoptAnimal)
	r.POST("/auth/release_animal/:user_id/:animal_id", h.ReleaseAnimal)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

// ---- Register ----

func TestRegister_InvalidJSON_Returns400(t *testing.T) {
	w := postJSON(t, newAuthEngine(&fakeUserUsecase{}), "/auth/register", `{bad json}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRegister_ShortUsername_Returns400(t *testing.T) {
	w := postJSON(t, newAuthEngine(&fakeUserUsecase{}), "/auth/register",
		`{"username":"ab","password":"secret123"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRegister_Success_Returns201WithTokens(t *testing.T) {
	uc := &fakeUserUsecase{
		register: func(_ context.Context, username, _ string) (*domain.User, *domain.TokenPair, error) {
			return &domain.User{ID: 1, Username: username}, testPair, nil
		},
	}
	w := postJSON(t, newAuthEngine(uc), "/auth/register",
		`{"username":"keeper","password":"secret123"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		TokenType    string `json:"token_type"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.AccessToken != "access" || resp.RefreshToken != "refresh" || resp.TokenType != "Bearer" {
		t.Errorf("unexpected token response: %+v", resp)
	}
}

func TestRegister_TakenUsername_Returns409(t *testing.T) {
	uc := &fakeUserUsecase{
		register: func(_ context.Context, _, _ string) (*domain.User, *domain.TokenPair, error) {
			return nil, nil, domain.ErrUsernameTaken
		},
	}
	w := postJSON(t, newAuthEngine(uc), "/auth/register",
		`{"username":"keeper","password":"secret123"}`)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestRegister_InternalError_Returns500WithoutDetails(t *testing.T) {
	uc := &fakeUserUsecase{
		register: func(_ context.Context, _, _ string) (*domain.User, *domain.TokenPair, error) {
			return nil, nil, errors.New("db down: connection to 10.0.0.5 refused")
		},
	}
	w := postJSON(t, newAuthEngine(uc), "/auth/register",
		`{"username":"keeper","password":"secret123"}`)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if strings.Contains(w.Body.String(), "10.0.0.5") {
		t.Error("response leaks internal error details")
	}
}

// ---- Login ----

func TestLogin_Success_Returns200(t *testing.T) {
	uc := &fakeUserUsecase{
		authenticate: func(_ context.Context, _, _ string) (*domain.TokenPair, error) {
			return testPair, nil
		},
	}
	w := postJSON(t, newAuthEngine(uc), "/auth/login",
		`{"username":"keeper","password":"secret123"}`)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestLogin_InvalidCredentials_Returns401(t *testing.T) {
	uc := &fakeUserUsecase{
		authenticate: func(_ context.Context, _, _ string) (*domain.TokenPair, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	w := postJSON(t, newAuthEngine(uc), "/auth/login",
		`{"username":"keeper","password":"wrong"}`)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

// ---- Refresh ----

func TestRefresh_InvalidToken_Returns401(t *testing.T) {
	uc := &fakeUserUsecase{
		refresh: func(_ context.Context, _ string) (*domain.TokenPair, error) {
			return nil, domain.ErrTokenInvalid
		},
	}
	w := postJSON(t, newAuthEngine(uc), "/auth/refresh", `{"refresh_token":"stale"}`)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRefresh_MissingToken_Returns400(t *testing.T) {
	w := postJSON(t, newAuthEngine(&fakeUserUsecase{}), "/auth/refresh", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRefresh_Success_Returns200(t *testing.T) {
	uc := &fakeUserUsecase{
		refresh: func(_ context.Context, _ string) (*domain.TokenPair, error) {
			return testPair, nil
		},
	}
	w := postJSON(t, newAuthEngine(uc), "/auth/refresh", `{"refresh_token":"valid"}`)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

// ---- Me ----

func TestMe_Unauthorized_Returns401(t *testing.T) {
	uc := &fakeUserUsecase{
		currentUser: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrUnauthorized
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	newAuthEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestMe_Success_ReturnsUser(t *testing.T) {
	uc := &fakeUserUsecase{
		currentUser: func(_ context.Context, _ string) (*domain.User, error) {
			return &domain.User{ID: 7, Username: "keeper"}, nil
		},
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	newAuthEngine(uc).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.ID != 7 || resp.Username != "keeper" {
		t.Errorf("unexpected user response: %+v", resp)
	}
}

// ---- AdoptAnimal / ReleaseAnimal ----

func TestAdoptAnimal_Success_ReturnsOwnerAndAnimals(t *testing.T) {
	uc := &fakeUserUsecase{
		adoptAnimal: func(_ context.Context, userID, animalID int64) (*domain.User, []*domain.Animal, error) {
			if userID != 1 || animalID != 5 {
				t.Errorf("adopt called with (%d, %d), want (1, 5)", userID, animalID)
			}
			return &domain.User{ID: 1, Username: "keeper"},
				[]*domain.Animal{{ID: 5, Species: "cat", Age: 2}}, nil
		},
	}
	w := postJSON(t, newAuthEngine(uc), "/auth/adopt_animal/1/5", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp struct {
		Master struct {
			ID int64 `json:"id"`
		} `json:"master"`
		Animals []struct {
			ID int64 `json:"id"`
		} `json:"animals"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Master.ID != 1 {
		t.Errorf("master id = %d, want 1", resp.Master.ID)
	}
	if len(resp.Animals) != 1 || resp.Animals[0].ID != 5 {
		t.Errorf("unexpected animal set: %+v", resp.Animals)
	}
}

func TestAdoptAnimal_NonNumericID_Returns400(t *testing.T) {
	w := postJSON(t, newAuthEngine(&fakeUserUsecase{}), "/auth/adopt_animal/abc/5", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAdoptAnimal_AlreadyAdopted_Returns409(t *testing.T) {
	uc := &fakeUserUsecase{
		adoptAnimal: func(_ context.Context, _, _ int64) (*domain.User, []*domain.Animal, error) {
			return nil, nil, domain.ErrAlreadyAdopted
		},
	}
	w := postJSON(t, newAuthEngine(uc), "/auth/adopt_animal/1/5", "")

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestAdoptAnimal_MissingAnimal_Returns404(t *testing.T) {
	uc := &fakeUserUsecase{
		adoptAnimal: func(_ context.Context, _, _ int64) (*domain.User, []*domain.Animal, error) {
			return nil, nil, domain.ErrAnimalNotFound
		},
	}
	w := postJSON(t, newAuthEngine(uc), "/auth/adopt_animal/1/404", "")

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestReleaseAnimal_NotOwned_Returns409(t *testing.T) {
	uc := &fakeUserUsecase{
		releaseAnimal: func(_ context.Context, _, _ int64) (*domain.User, []*domain.Animal, error) {
			return nil, nil, domain.ErrNotOwned
		},
	}
	w := postJSON(t, newAuthEngine(uc), "/auth/release_animal/1/5", "")

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestReleaseAnimal_MissingUser_Returns404(t *testing.T) {
	uc := &fakeUserUsecase{
		releaseAnimal: func(_ context.Context, _, _ int64) (*domain.User, []*domain.Animal, error) {
			return nil, nil, domain.ErrUserNotFound
		},
	}
	w := postJSON(t, newAuthEngine(uc), "/auth/release_animal/42/5", "")

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
