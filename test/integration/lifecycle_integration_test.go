//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brchinacargo-glitch/BRCcSis/internal/adapters/http/dto"
	"github.com/brchinacargo-glitch/BRCcSis/internal/adapters/notify"
)

func startStack(t *testing.T, opts stackOptions) *stack {
	t.Helper()

	s, err := newStack(opts)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	return s
}

func send(t *testing.T, h http.Handler, actor int64, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if actor != 0 {
		req.Header.Set("X-User-ID", strconv.FormatInt(actor, 10))
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	return w
}

func createRoad(t *testing.T, h http.Handler) dto.QuotationResponse {
	t.Helper()

	w := send(t, h, consultantID, http.MethodPost, "/api/v1/quotations", quotationPayload("road", "Indústria Alfa"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var q dto.QuotationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &q))

	return q
}

func quotationPath(id int64, suffix string) string {
	return "/api/v1/quotations/" + strconv.FormatInt(id, 10) + suffix
}

// TestLifecycle_CompanyRegistry verifies provider companies are resolved through
// the external registry when it is configured.
func TestLifecycle_CompanyRegistry(t *testing.T) {
	var calls atomic.Int32
	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/companies/77":
			_, _ = w.Write([]byte(`{"data":{"id":77,"razao_social":"Frota Norte LTDA","nome_fantasia":"Frota Norte"}}`))
		case "/companies/78":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"no such company"}}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer registry.Close()

	s := startStack(t, stackOptions{registryURL: registry.URL})

	tests := []struct {
		name       string
		companyID  int64
		wantStatus int
	}{
		{name: "known company", companyID: 77, wantStatus: http.StatusOK},
		{name: "unknown company", companyID: 78, wantStatus: http.StatusNotFound},
		{name: "registry failure", companyID: 79, wantStatus: http.StatusServiceUnavailable},
		{name: "store companies are not consulted", companyID: companyID, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := createRoad(t, s.handler)
			w := send(t, s.handler, operatorID, http.MethodPost, quotationPath(q.ID, "/accept"), nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			w = send(t, s.handler, operatorID, http.MethodPost, quotationPath(q.ID, "/response"), map[string]any{
				"empresa_prestadora_id": tt.companyID,
				"valor_frete":           "980.40",
				"prazo_entrega":         4,
			})
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			// A failed lookup leaves the quotation where it was.
			if tt.wantStatus != http.StatusOK {
				var got dto.QuotationResponse
				r := send(t, s.handler, operatorID, http.MethodGet, quotationPath(q.ID, ""), nil)
				require.NoError(t, json.Unmarshal(r.Body.Bytes(), &got))
				assert.Equal(t, "aceita_operador", got.Status)
			}
		})
	}

	assert.Positive(t, calls.Load())
}

// TestLifecycle_ConcurrentAccept verifies exactly one operator wins a race for
// the same quotation and the loser sees a conflict.
func TestLifecycle_ConcurrentAccept(t *testing.T) {
	s := startStack(t, stackOptions{})

	const rounds = 20
	for range rounds {
		q := createRoad(t, s.handler)

		var (
			wg       sync.WaitGroup
			ok       atomic.Int32
			conflict atomic.Int32
		)
		for _, op := range []int64{operatorID, operator2ID, managerID, adminID} {
			wg.Go(func() {
				w := send(t, s.handler, op, http.MethodPost, quotationPath(q.ID, "/accept"), nil)
				switch w.Code {
				case http.StatusOK:
					ok.Add(1)
				case http.StatusConflict:
					conflict.Add(1)
				}
			})
		}
		wg.Wait()

		require.Equal(t, int32(1), ok.Load(), "quotation %d", q.ID)
		require.Equal(t, int32(3), conflict.Load(), "quotation %d", q.ID)

		var history dto.ListResponse[dto.HistoryEntryResponse]
		w := send(t, s.handler, adminID, http.MethodGet, quotationPath(q.ID, "/history"), nil)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
		assert.Equal(t, 2, history.Count, "one creation and one acceptance")
	}
}

// TestLifecycle_ConcurrentCreateNumbers verifies quotation numbers stay unique
// under concurrent creation.
func TestLifecycle_ConcurrentCreateNumbers(t *testing.T) {
	s := startStack(t, stackOptions{})

	const workers = 25
	numbers := make(chan string, workers)

	var wg sync.WaitGroup
	for range workers {
		wg.Go(func() {
			w := send(t, s.handler, consultantID, http.MethodPost, "/api/v1/quotations", quotationPayload("air", "Eletrônicos Gama"))
			if w.Code != http.StatusCreated {
				return
			}
			var q dto.QuotationResponse
			if json.Unmarshal(w.Body.Bytes(), &q) == nil {
				numbers <- q.NumeroCotacao
			}
		})
	}
	wg.Wait()
	close(numbers)

	seen := make(map[string]bool, workers)
	for n := range numbers {
		assert.True(t, strings.HasPrefix(n, "COT-"), n)
		assert.False(t, seen[n], "duplicate number %s", n)
		seen[n] = true
	}
	assert.Len(t, seen, workers)

	unread := send(t, s.handler, operatorID, http.MethodGet, "/api/v1/notifications/unread-count", nil)
	require.Equal(t, http.StatusOK, unread.Code)
	var count dto.UnreadCountResponse
	require.NoError(t, json.Unmarshal(unread.Body.Bytes(), &count))
	assert.Equal(t, workers, count.Count)
}

// TestLifecycle_RealtimePublish verifies stored notifications are fanned out on
// the recipient's Redis channel.
func TestLifecycle_RealtimePublish(t *testing.T) {
	s := startStack(t, stackOptions{})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub := s.client.Subscribe(ctx, s.prefix+strconv.FormatInt(operator2ID, 10))
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	q := createRoad(t, s.handler)

	select {
	case msg := <-sub.Channel():
		var got notify.Message
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, q.ID, got.QuotationID)
		assert.Equal(t, "nova_cotacao", string(got.Category))
		assert.Contains(t, got.Title, q.NumeroCotacao)
	case <-ctx.Done():
		t.Fatal("no realtime notification received")
	}

	w := send(t, s.handler, 0, http.MethodGet, "/-/metrics", nil)
	assert.Contains(t, w.Body.String(), `brccsis_notifications_dispatched_total{category="nova_cotacao"} 2`)
}

// TestLifecycle_RedisOutage verifies a publish failure does not undo the transition.
func TestLifecycle_RedisOutage(t *testing.T) {
	s := startStack(t, stackOptions{})
	s.redis.Close()

	q := createRoad(t, s.handler)

	w := send(t, s.handler, operatorID, http.MethodGet, "/api/v1/notifications", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), q.NumeroCotacao)

	ready := send(t, s.handler, 0, http.MethodGet, "/-/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, ready.Code)
	assert.Contains(t, ready.Body.String(), "redis")
}

// TestLifecycle_MetricsEndpoint verifies transition metrics reach /-/metrics.
func TestLifecycle_MetricsEndpoint(t *testing.T) {
	s := startStack(t, stackOptions{})

	q := createRoad(t, s.handler)
	send(t, s.handler, operatorID, http.MethodPost, quotationPath(q.ID, "/accept"), nil)
	send(t, s.handler, operator2ID, http.MethodPost, quotationPath(q.ID, "/accept"), nil)

	w := send(t, s.handler, 0, http.MethodGet, "/-/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `brccsis_quotation_transitions_total{action="accept_by_operator",outcome="ok"} 1`)
	assert.Contains(t, w.Body.String(), `brccsis_quotation_transitions_total{action="accept_by_operator",outcome="conflicting_state"} 1`)
}
