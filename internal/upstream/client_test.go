package upstream

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinardap-console/internal/session"
	dErrors "dinardap-console/pkg/domain-errors"
	"dinardap-console/pkg/requestcontext"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func authedStore(t *testing.T, token string) *session.InMemoryStore {
	t.Helper()
	store := session.New(nil)
	if token != "" {
		require.NoError(t, store.SetAuthenticated(context.Background(), session.Identity{ID: "op"}, token, time.Time{}))
	}
	return store
}

func TestBearerHeaderInjection(t *testing.T) {
	t.Run("token present sends a bearer header", func(t *testing.T) {
		var got string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("Authorization")
			_, _ = w.Write([]byte(`{"success":true,"message":"ok"}`))
		}))
		defer srv.Close()

		client := New(srv.URL, time.Second, authedStore(t, "tok-abc"), discardLogger())
		_, err := client.Get(context.Background(), "test", "/ping", nil)
		require.NoError(t, err)
		assert.Equal(t, "Bearer tok-abc", got)
	})

	t.Run("absent token omits the header entirely", func(t *testing.T) {
		var header string
		var present bool
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header = r.Header.Get("Authorization")
			_, present = r.Header["Authorization"]
			_, _ = w.Write([]byte(`{"success":true}`))
		}))
		defer srv.Close()

		client := New(srv.URL, time.Second, session.New(nil), discardLogger())
		_, err := client.Get(context.Background(), "test", "/ping", nil)
		require.NoError(t, err)
		assert.Empty(t, header)
		assert.False(t, present, "no Authorization header may be sent without a token")
	})
}

func TestRequestIDPropagation(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Request-ID")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, session.New(nil), discardLogger())

	ctx := requestcontext.WithRequestID(context.Background(), "req-42")
	_, err := client.Get(ctx, "test", "/ping", nil)
	require.NoError(t, err)
	assert.Equal(t, "req-42", got)
}

func TestUnauthorizedTearsDownSessionOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	store := authedStore(t, "stale-token")
	var expiries atomic.Int32
	client := New(srv.URL, time.Second, store, discardLogger(),
		WithOnAuthExpired(func() { expiries.Add(1) }))

	_, err := client.Get(context.Background(), "test", "/citizens", nil)
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeUnauthorized, dErrors.CodeOf(err))
	assert.Equal(t, MsgSessionExpired, dErrors.MessageOf(err))
	assert.False(t, store.Get().Authenticated, "session must be cleared on 401")
	assert.Equal(t, int32(1), expiries.Load())
}

func TestUnauthorizedHandlingIsIdempotentPerRequest(t *testing.T) {
	store := authedStore(t, "tok")
	var expiries atomic.Int32
	client := New("http://unused", time.Second, store, discardLogger(),
		WithOnAuthExpired(func() { expiries.Add(1) }))

	a := &attempt{operation: "test"}
	client.expireSession(context.Background(), a)
	client.expireSession(context.Background(), a)

	assert.True(t, a.retried)
	assert.Equal(t, int32(1), expiries.Load(), "a request already marked retried must not tear down twice")
}

func TestForbiddenResponses(t *testing.T) {
	t.Run("IP restriction phrases fold into the fixed message", func(t *testing.T) {
		bodies := []string{
			`{"message":"IP not allowed: 10.1.2.3"}`,
			`{"message":"Su IP no permitida"}`,
			`{"error":"ip no autorizada"}`,
			`{"message":"La dirección IP de origen fue rechazada"}`,
			`IP not allowed: 203.0.113.9`, // text/plain, no JSON wrapper
		}
		for _, body := range bodies {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(body))
			}))

			client := New(srv.URL, time.Second, session.New(nil), discardLogger())
			_, err := client.Get(context.Background(), "test", "/x", nil)
			srv.Close()

			require.Error(t, err, body)
			assert.Equal(t, dErrors.CodeForbidden, dErrors.CodeOf(err))
			assert.Equal(t, MsgIPRestricted, dErrors.MessageOf(err), body)
		}
	})

	t.Run("plain 403 yields access denied", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"message":"no role"}`))
		}))
		defer srv.Close()

		client := New(srv.URL, time.Second, session.New(nil), discardLogger())
		_, err := client.Get(context.Background(), "test", "/x", nil)
		require.Error(t, err)
		assert.Equal(t, MsgAccessDenied, dErrors.MessageOf(err))
	})
}

func TestTimeoutAndConnectivity(t *testing.T) {
	t.Run("slow upstream maps to the timeout message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(300 * time.Millisecond)
			_, _ = w.Write([]byte(`{"success":true}`))
		}))
		defer srv.Close()

		client := New(srv.URL, 50*time.Millisecond, session.New(nil), discardLogger())
		_, err := client.Get(context.Background(), "test", "/slow", nil)
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeTimeout, dErrors.CodeOf(err))
		assert.Equal(t, MsgTimeout, dErrors.MessageOf(err))
	})

	t.Run("refused connection maps to the connectivity message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		srv.Close() // nothing listens anymore

		client := New(srv.URL, time.Second, session.New(nil), discardLogger())
		_, err := client.Get(context.Background(), "test", "/down", nil)
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeUnavailable, dErrors.CodeOf(err))
		assert.Equal(t, MsgConnectivity, dErrors.MessageOf(err))
	})
}

func TestStatusFallbackTable(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		code    dErrors.Code
		message string
	}{
		{"404 uses the fixed not-found message", http.StatusNotFound, `{"message":"ciudadano no existe"}`, dErrors.CodeNotFound, MsgNotFound},
		{"500 uses the fixed server-error message", http.StatusInternalServerError, `{"message":"stack trace"}`, dErrors.CodeUpstream, MsgServerError},
		{"other statuses surface the server message", http.StatusUnprocessableEntity, `{"message":"cédula mal formada"}`, dErrors.CodeUpstream, "cédula mal formada"},
		{"error key is honored too", http.StatusBadGateway, `{"error":"upstream registry offline"}`, dErrors.CodeUpstream, "upstream registry offline"},
		{"plain-text bodies pass through trimmed", http.StatusUnprocessableEntity, "  Servicio en mantenimiento\n", dErrors.CodeUpstream, "Servicio en mantenimiento"},
		{"empty body falls back to the generic message", http.StatusConflict, ``, dErrors.CodeUpstream, MsgGeneric},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client := New(srv.URL, time.Second, session.New(nil), discardLogger())
			_, err := client.Get(context.Background(), "test", "/x", nil)
			require.Error(t, err)
			assert.Equal(t, tc.code, dErrors.CodeOf(err))
			assert.Equal(t, tc.message, dErrors.MessageOf(err))
		})
	}
}

func TestSuccessEnvelopeDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "cedula=0928239235", r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":{"cedula":"0928239235","valida":true}}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, session.New(nil), discardLogger())

	q := map[string][]string{"cedula": {"0928239235"}}
	env, err := client.Get(context.Background(), "test", "/validate", q)
	require.NoError(t, err)
	assert.True(t, env.Success)

	var payload struct {
		Cedula string `json:"cedula"`
		Valida bool   `json:"valida"`
	}
	require.NoError(t, env.DecodeData(&payload))
	assert.Equal(t, "0928239235", payload.Cedula)
	assert.True(t, payload.Valida)
}

func TestPostMarshalsBody(t *testing.T) {
	var received []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, session.New(nil), discardLogger())
	_, err := client.Post(context.Background(), "test", "/echo", map[string]string{"cedula": "0102030405"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"cedula":"0102030405"}`, string(received))
}

func TestMalformedSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<!doctype html>`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, session.New(nil), discardLogger())
	_, err := client.Get(context.Background(), "test", "/x", nil)
	require.Error(t, err)
	assert.Equal(t, dErrors.CodeUpstream, dErrors.CodeOf(err))
	assert.Equal(t, MsgGeneric, dErrors.MessageOf(err))
}
