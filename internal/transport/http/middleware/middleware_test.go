package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// capHandler — тестовый slog.Handler, который:
//   - аккумулирует базовые attrs, приходящие через Logger.With(...);
//   - собирает attrs из каждой записи в map[string]any;
//   - не создаёт реальных I/O, чтобы не паниковать в тестах.
type capHandler struct {
	base    []slog.Attr
	lastMsg string
	lastLvl slog.Level
	attrs   map[string]any
	count   int
}

func (h *capHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *capHandler) Handle(_ context.Context, r slog.Record) error {
	out := make(map[string]any, len(h.base)+8)

	for _, a := range h.base {
		out[a.Key] = a.Value.Any()
	}

	r.Attrs(func(a slog.Attr) bool {
		out[a.Key] = a.Value.Any()
		return true
	})

	h.count++
	h.lastMsg = r.Message
	h.lastLvl = r.Level
	h.attrs = out

	return nil
}

func (h *capHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) > 0 {
		h.base = append(h.base, attrs...)
	}

	return h
}

func (h *capHandler) WithGroup(string) slog.Handler { return h }

func makeReq(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = (&net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 12345}).String()
	return req
}

type apiError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type errEnvelope struct {
	Error apiError `json:"error"`
}

func TestChain_Order(t *testing.T) {
	order := []string{}

	m1 := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "m1-begin")
			next.ServeHTTP(w, r)
			order = append(order, "m1-end")
		})
	}

	m2 := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "m2-begin")
			next.ServeHTTP(w, r)
			order = append(order, "m2-end")
		})
	}

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
		w.WriteHeader(http.StatusTeapot)
	})

	chain := Chain(final, m1, m2)
	rr := httptest.NewRecorder()
	chain.ServeHTTP(rr, makeReq("/chain"))

	require.Equal(t, []string{"m1-begin", "m2-begin", "handler", "m2-end", "m1-end"}, order)
	require.Equal(t, http.StatusTeapot, rr.Code)
}

func TestRequestID_GenerateAndPropagate(t *testing.T) {
	var seenID string
	var seenCtxID string

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = r.Header.Get("X-Request-Id")
		if v := r.Context().Value(CtxRequestID); v != nil {
			seenCtxID, _ = v.(string)
		}
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	Chain(h, RequestID()).ServeHTTP(rr, makeReq("/rid"))

	require.Len(t, seenID, 32)
	require.Equal(t, seenID, seenCtxID)
	require.Equal(t, seenID, rr.Header().Get("X-Request-Id"))
}

func TestRequestID_RespectsIncomingHeader(t *testing.T) {
	var seenID string

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = r.Header.Get("X-Request-Id")
		w.WriteHeader(http.StatusOK)
	})

	req := makeReq("/rid")
	req.Header.Set("X-Request-Id", "client-supplied")

	rr := httptest.NewRecorder()
	Chain(h, RequestID()).ServeHTTP(rr, req)

	require.Equal(t, "client-supplied", seenID)
	require.Equal(t, "client-supplied", rr.Header().Get("X-Request-Id"))
}

func TestLogging_WritesRecordWithRequestID(t *testing.T) {
	cap := &capHandler{}
	logger := slog.New(cap)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("ok"))
	})

	rr := httptest.NewRecorder()
	Chain(h, RequestID(), Logging(logger)).ServeHTTP(rr, makeReq("/logged"))

	require.Equal(t, 1, cap.count)
	require.Equal(t, "http", cap.lastMsg)
	require.Equal(t, http.MethodGet, cap.attrs["method"])
	require.Equal(t, "/logged", cap.attrs["path"])
	require.EqualValues(t, http.StatusCreated, cap.attrs["status"])
	require.NotEmpty(t, cap.attrs["request_id"])
}

func TestRecover_PanicBecomes500(t *testing.T) {
	h := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	rr := httptest.NewRecorder()
	Chain(h, Recover()).ServeHTTP(rr, makeReq("/panic"))

	require.Equal(t, http.StatusInternalServerError, rr.Code)

	var resp errEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "internal", resp.Error.Code)
	require.NotContains(t, resp.Error.Message, "boom")
}

func TestTimeout_SetsDeadline(t *testing.T) {
	var hadDeadline bool

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadDeadline = r.Context().Deadline()
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	Chain(h, Timeout(50*time.Millisecond)).ServeHTTP(rr, makeReq("/deadline"))

	require.True(t, hadDeadline)
}

func TestTimeout_ZeroIsNoop(t *testing.T) {
	var hadDeadline bool

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadDeadline = r.Context().Deadline()
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	Chain(h, Timeout(0)).ServeHTTP(rr, makeReq("/deadline"))

	require.False(t, hadDeadline)
}
