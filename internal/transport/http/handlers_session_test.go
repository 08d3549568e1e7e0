package httptransport

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"dinardap-console/internal/auth"
	"dinardap-console/internal/session"
	"dinardap-console/internal/transport/http/mocks"
	"dinardap-console/internal/transport/http/shared"
	dErrors "dinardap-console/pkg/domain-errors"
	"dinardap-console/pkg/testutil"
)

//go:generate mockgen -source=handlers_session.go -destination=mocks/auth-mocks.go -package=mocks AuthService
type SessionHandlerSuite struct {
	suite.Suite
	ctx context.Context
}

func TestSessionHandlerSuite(t *testing.T) {
	suite.Run(t, new(SessionHandlerSuite))
}

func (s *SessionHandlerSuite) SetupSuite() {
	s.ctx = context.Background()
}

func (s *SessionHandlerSuite) newRouter(t *testing.T, store *session.InMemoryStore) (*mocks.MockAuthService, http.Handler) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockAuth := mocks.NewMockAuthService(ctrl)
	if store == nil {
		store = session.New(nil)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := NewRouter(
		NewSessionHandler(mockAuth, store),
		NewRegistryHandler(mocks.NewMockRegistryService(ctrl)),
		logger,
		time.Second,
	)
	return mockAuth, router
}

func (s *SessionHandlerSuite) TestLogin() {
	s.T().Run("valid credentials - 200 with login result", func(t *testing.T) {
		mockAuth, router := s.newRouter(t, nil)
		mockAuth.EXPECT().Login(gomock.Any(), "op@mdi.gob.ec", "s3cret").
			Return(&auth.LoginResult{
				Token: "tok-1",
				User:  session.Identity{ID: "op@mdi.gob.ec", Email: "op@mdi.gob.ec"},
			}, nil)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/session",
			map[string]string{"email": "op@mdi.gob.ec", "password": "s3cret"})
		rr := testutil.DoRequest(router, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		resp := testutil.UnmarshalResponse[shared.Response](t, rr)
		assert.True(t, resp.Success)
		data := resp.Data.(map[string]any)
		assert.Equal(t, "tok-1", data["token"])
	})

	s.T().Run("rejected credentials - 401 envelope with fixed message", func(t *testing.T) {
		mockAuth, router := s.newRouter(t, nil)
		mockAuth.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeUnauthorized, "Usuario o contraseña incorrectos. Por favor, verifique sus credenciales e intente nuevamente."))

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/session",
			map[string]string{"email": "op", "password": "wrong"})
		rr := testutil.DoRequest(router, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		resp := testutil.UnmarshalResponse[shared.Response](t, rr)
		assert.False(t, resp.Success)
		assert.Equal(t, string(dErrors.CodeUnauthorized), resp.Error)
		assert.Equal(t, "Usuario o contraseña incorrectos. Por favor, verifique sus credenciales e intente nuevamente.", resp.Message)
	})

	s.T().Run("invalid json body - 400 and the service is never called", func(t *testing.T) {
		mockAuth, router := s.newRouter(t, nil)
		mockAuth.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		req := testutil.NewRequestWithBody(t, http.MethodPost, "/api/session", "{bad-json")
		rr := testutil.DoRequest(router, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		resp := testutil.UnmarshalResponse[shared.Response](t, rr)
		assert.Equal(t, string(dErrors.CodeInvalidInput), resp.Error)
	})
}

func (s *SessionHandlerSuite) TestLogout() {
	mockAuth, router := s.newRouter(s.T(), nil)
	mockAuth.EXPECT().Logout(gomock.Any())

	rr := testutil.DoRequest(router, testutil.NewRequest(s.T(), http.MethodDelete, "/api/session"))

	s.Equal(http.StatusOK, rr.Code)
	resp := testutil.UnmarshalResponse[shared.Response](s.T(), rr)
	s.True(resp.Success)
}

func (s *SessionHandlerSuite) TestGetSession() {
	s.Run("snapshot excludes the token", func() {
		store := session.New(nil)
		s.Require().NoError(store.SetAuthenticated(s.ctx, session.Identity{ID: "op", Email: "op@mdi.gob.ec"}, "secret-token", time.Time{}))
		_, router := s.newRouter(s.T(), store)

		rr := testutil.DoRequest(router, testutil.NewRequest(s.T(), http.MethodGet, "/api/session"))

		s.Equal(http.StatusOK, rr.Code)
		body := string(testutil.ReadBody(s.T(), rr))
		s.NotContains(body, "secret-token", "the bearer token must never cross to the view layer")

		resp := testutil.UnmarshalResponse[shared.Response](s.T(), rr)
		data := resp.Data.(map[string]any)
		s.Equal(true, data["authenticated"])
	})

	s.Run("unauthenticated snapshot", func() {
		_, router := s.newRouter(s.T(), nil)
		rr := testutil.DoRequest(router, testutil.NewRequest(s.T(), http.MethodGet, "/api/session"))

		resp := testutil.UnmarshalResponse[shared.Response](s.T(), rr)
		data := resp.Data.(map[string]any)
		s.Equal(false, data["authenticated"])
	})
}

func (s *SessionHandlerSuite) TestRefresh() {
	mockAuth, router := s.newRouter(s.T(), nil)
	mockAuth.EXPECT().Refresh(gomock.Any()).
		Return(&auth.LoginResult{Token: "renewed"}, nil)

	rr := testutil.DoRequest(router, testutil.NewRequest(s.T(), http.MethodPost, "/api/session/refresh"))

	s.Equal(http.StatusOK, rr.Code)
	resp := testutil.UnmarshalResponse[shared.Response](s.T(), rr)
	s.True(resp.Success)
}

func (s *SessionHandlerSuite) TestCurrentUser() {
	s.Run("profile is returned", func() {
		mockAuth, router := s.newRouter(s.T(), nil)
		mockAuth.EXPECT().CurrentUser(gomock.Any()).
			Return(session.Identity{ID: "u-1", Email: "op@mdi.gob.ec", DisplayName: "Operador Uno"}, nil)

		rr := testutil.DoRequest(router, testutil.NewRequest(s.T(), http.MethodGet, "/api/session/user"))

		s.Equal(http.StatusOK, rr.Code)
		resp := testutil.UnmarshalResponse[shared.Response](s.T(), rr)
		data := resp.Data.(map[string]any)
		s.Equal("Operador Uno", data["displayName"])
	})

	s.Run("expired session surfaces as 401", func() {
		mockAuth, router := s.newRouter(s.T(), nil)
		mockAuth.EXPECT().CurrentUser(gomock.Any()).
			Return(session.Identity{}, dErrors.New(dErrors.CodeUnauthorized, "Sesión expirada. Por favor, inicie sesión nuevamente."))

		rr := testutil.DoRequest(router, testutil.NewRequest(s.T(), http.MethodGet, "/api/session/user"))
		s.Equal(http.StatusUnauthorized, rr.Code)
	})
}
