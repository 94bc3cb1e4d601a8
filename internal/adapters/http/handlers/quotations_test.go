package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brchinacargo-glitch/BRCcSis/internal/adapters/http/dto"
	"github.com/brchinacargo-glitch/BRCcSis/internal/adapters/http/middleware"
	"github.com/brchinacargo-glitch/BRCcSis/internal/adapters/notify"
	"github.com/brchinacargo-glitch/BRCcSis/internal/adapters/persistence/memory"
	"github.com/brchinacargo-glitch/BRCcSis/internal/app"
	"github.com/brchinacargo-glitch/BRCcSis/internal/domain"
)

const (
	managerID     int64 = 2
	operatorID    int64 = 3
	operator2ID   int64 = 4
	consultantID  int64 = 5
	consultant2ID int64 = 6
	companyID     int64 = 10
)

func newAPI(t *testing.T) *gin.Engine {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()
	for _, u := range []domain.User{
		{ID: managerID, Name: "Gil Gerente", Role: domain.RoleManager, Active: true},
		{ID: operatorID, Name: "Olga Operadora", Role: domain.RoleOperator, Active: true},
		{ID: operator2ID, Name: "Otto Operador", Role: domain.RoleOperator, Active: true},
		{ID: consultantID, Name: "Carla Consultora", Role: domain.RoleConsultant, Active: true},
		{ID: consultant2ID, Name: "Caio Consultor", Role: domain.RoleConsultant, Active: true},
	} {
		store.PutUser(u)
	}
	store.PutCompany(domain.Company{ID: companyID, LegalName: "Transportes Rápidos LTDA"})

	svc := app.NewQuotationService(app.QuotationServiceConfig{
		Transactor: store,
		Quotations: store,
		History:    store,
		Users:      store,
		Companies:  store,
		Dispatcher: notify.NewDispatcher(notify.DispatcherConfig{Store: store, Logger: logger}),
		Logger:     logger,
	})
	inbox := app.NewNotificationService(app.NotificationServiceConfig{Store: store, Logger: logger})

	router := gin.New()
	api := router.Group("/api/v1", middleware.Actor(nil))
	NewQuotationHandler(svc).RegisterQuotationRoutes(api)
	NewNotificationHandler(inbox, 0).RegisterNotificationRoutes(api)

	return router
}

// call performs a request as actor and returns the recorder.
func call(t *testing.T, router http.Handler, actor int64, method, path string, body any) *httptest.ResponseRecorder {
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
	router.ServeHTTP(w, req)

	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())

	return v
}

func roadPayload() map[string]any {
	return map[string]any{
		"modalidade":       "brcargo_rodoviario",
		"cliente_nome":     "Indústria Alfa",
		"cliente_cnpj":     "11.222.333/0001-81",
		"origem_cep":       "01001-000",
		"origem_endereco":  "Praça da Sé, 100",
		"origem_cidade":    "São Paulo",
		"origem_estado":    "SP",
		"destino_cep":      "20040-020",
		"destino_endereco": "Av. Rio Branco, 1",
		"destino_cidade":   "Rio de Janeiro",
		"destino_estado":   "RJ",
		"carga_descricao":  "Peças automotivas",
		"carga_peso_kg":    "150.5",
	}
}

func createQuotation(t *testing.T, router http.Handler) dto.QuotationResponse {
	t.Helper()

	w := call(t, router, consultantID, http.MethodPost, "/api/v1/quotations", roadPayload())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	return decode[dto.QuotationResponse](t, w)
}

func TestQuotationHandler_Lifecycle(t *testing.T) {
	router := newAPI(t)

	w := call(t, router, consultantID, http.MethodPost, "/api/v1/quotations", roadPayload())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[dto.QuotationResponse](t, w)
	assert.Equal(t, "/api/v1/quotations/"+strconv.FormatInt(created.ID, 10), w.Header().Get("Location"))
	assert.Equal(t, "solicitada", created.Status)
	assert.Equal(t, "11222333000181", created.ClienteCNPJ)
	assert.Nil(t, created.OperadorID)

	base := "/api/v1/quotations/" + strconv.FormatInt(created.ID, 10)

	available := decode[dto.PageResponse[dto.QuotationResponse]](t,
		call(t, router, operatorID, http.MethodGet, "/api/v1/quotations/available", nil))
	assert.Equal(t, 1, available.Total)

	steps := []struct {
		actor  int64
		path   string
		body   any
		status string
	}{
		{actor: operatorID, path: "/accept", status: "aceita_operador"},
		{
			actor:  operatorID,
			path:   "/response",
			body:   map[string]any{"empresa_prestadora_id": companyID, "valor_frete": "1500.00", "prazo_entrega": 5},
			status: "cotacao_enviada",
		},
		{actor: consultantID, path: "/consultant-accept", body: map[string]any{"observacoes": "ok"}, status: "aceita_consultor"},
		{actor: operatorID, path: "/finalize", body: map[string]any{"observacoes": "coleta agendada"}, status: "finalizada"},
	}
	for _, st := range steps {
		w := call(t, router, st.actor, http.MethodPost, base+st.path, st.body)
		require.Equal(t, http.StatusOK, w.Code, "%s: %s", st.path, w.Body.String())
		assert.Equal(t, st.status, decode[dto.QuotationResponse](t, w).Status, st.path)
	}

	got := decode[dto.QuotationResponse](t, call(t, router, consultantID, http.MethodGet, base, nil))
	require.NotNil(t, got.Resposta)
	assert.Equal(t, "1500", got.Resposta.ValorFrete.String())
	assert.Equal(t, "coleta agendada", got.ObservacoesFinalizacao)

	history := decode[dto.ListResponse[dto.HistoryEntryResponse]](t,
		call(t, router, consultantID, http.MethodGet, base+"/history", nil))
	require.Equal(t, 5, history.Count)
	assert.Equal(t, "finalizada", history.Items[0].StatusNovo)
	require.NotNil(t, history.Items[0].StatusAnterior)
	assert.Equal(t, "aceita_consultor", *history.Items[0].StatusAnterior)
	assert.Nil(t, history.Items[4].StatusAnterior)
	assert.Equal(t, "solicitada", history.Items[4].StatusNovo)

	stats := decode[dto.StatsResponse](t, call(t, router, managerID, http.MethodGet, "/api/v1/quotations/stats", nil))
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.PorStatus["finalizada"])
	assert.Equal(t, 0, stats.PorStatus["solicitada"])
}

func TestQuotationHandler_Errors(t *testing.T) {
	router := newAPI(t)
	q := createQuotation(t, router)
	base := "/api/v1/quotations/" + strconv.FormatInt(q.ID, 10)

	tests := []struct {
		name       string
		actor      int64
		method     string
		path       string
		body       any
		wantStatus int
		wantCode   string
	}{
		{
			name: "missing actor", method: http.MethodGet, path: base,
			wantStatus: http.StatusUnauthorized, wantCode: dto.ErrorCodeUnauthorized,
		},
		{
			name: "invalid id", actor: consultantID, method: http.MethodGet, path: "/api/v1/quotations/abc",
			wantStatus: http.StatusBadRequest, wantCode: dto.ErrorCodeBadRequest,
		},
		{
			name: "unknown quotation", actor: managerID, method: http.MethodGet, path: "/api/v1/quotations/999",
			wantStatus: http.StatusNotFound, wantCode: dto.ErrorCodeNotFound,
		},
		{
			name: "other consultant cannot view", actor: consultant2ID, method: http.MethodGet, path: base,
			wantStatus: http.StatusForbidden, wantCode: dto.ErrorCodeForbidden,
		},
		{
			name: "operator cannot create", actor: operatorID, method: http.MethodPost, path: "/api/v1/quotations", body: roadPayload(),
			wantStatus: http.StatusForbidden, wantCode: dto.ErrorCodeForbidden,
		},
		{
			name: "operator with empty create body is denied", actor: operatorID, method: http.MethodPost, path: "/api/v1/quotations",
			body:       map[string]any{},
			wantStatus: http.StatusForbidden, wantCode: dto.ErrorCodeForbidden,
		},
		{
			name: "finalize before response", actor: managerID, method: http.MethodPost, path: base + "/finalize",
			wantStatus: http.StatusConflict, wantCode: dto.ErrorCodeConflict,
		},
		{
			name: "consultant cannot accept as operator", actor: consultantID, method: http.MethodPost, path: base + "/accept",
			wantStatus: http.StatusForbidden, wantCode: dto.ErrorCodeForbidden,
		},
		{
			name: "operator cannot reassign", actor: operatorID, method: http.MethodPost, path: base + "/reassign",
			body:       map[string]any{"novo_operador_id": operator2ID},
			wantStatus: http.StatusForbidden, wantCode: dto.ErrorCodeForbidden,
		},
		{
			name: "consultant with empty reassign body is denied", actor: consultantID, method: http.MethodPost, path: base + "/reassign",
			body:       map[string]any{},
			wantStatus: http.StatusForbidden, wantCode: dto.ErrorCodeForbidden,
		},
		{
			name: "consultant with empty response body is denied", actor: consultantID, method: http.MethodPost, path: base + "/response",
			body:       map[string]any{},
			wantStatus: http.StatusForbidden, wantCode: dto.ErrorCodeForbidden,
		},
		{
			name: "response terms checked after status", actor: managerID, method: http.MethodPost, path: base + "/response",
			body:       map[string]any{},
			wantStatus: http.StatusConflict, wantCode: dto.ErrorCodeConflict,
		},
		{
			name: "reassign without target", actor: managerID, method: http.MethodPost, path: base + "/reassign",
			body:       map[string]any{},
			wantStatus: http.StatusUnprocessableEntity, wantCode: dto.ErrorCodeValidation,
		},
		{
			name: "unknown status filter", actor: managerID, method: http.MethodGet, path: "/api/v1/quotations?status=perdida",
			wantStatus: http.StatusUnprocessableEntity, wantCode: dto.ErrorCodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(t, router, tt.actor, tt.method, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, tt.wantCode, decode[dto.ErrorResponse](t, w).Error.Code)
		})
	}
}

func TestQuotationHandler_CreateValidation(t *testing.T) {
	router := newAPI(t)

	t.Run("malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/quotations", bytes.NewBufferString("{"))
		req.Header.Set("X-User-ID", strconv.FormatInt(consultantID, 10))
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid cnpj", func(t *testing.T) {
		body := roadPayload()
		body["cliente_cnpj"] = "11.222.333/0001-00"

		w := call(t, router, consultantID, http.MethodPost, "/api/v1/quotations", body)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decode[dto.ErrorResponse](t, w)
		assert.Contains(t, resp.Error.Details, "cliente_cnpj")
	})

	t.Run("maritime without ports", func(t *testing.T) {
		body := roadPayload()
		body["modalidade"] = "brcargo_maritimo"

		w := call(t, router, consultantID, http.MethodPost, "/api/v1/quotations", body)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	})
}

func TestQuotationHandler_Views(t *testing.T) {
	router := newAPI(t)
	first := createQuotation(t, router)
	createQuotation(t, router)

	w := call(t, router, operatorID, http.MethodPost, "/api/v1/quotations/"+strconv.FormatInt(first.ID, 10)+"/accept", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	tests := []struct {
		name      string
		actor     int64
		path      string
		wantTotal int
	}{
		{name: "available excludes claimed", actor: operatorID, path: "/api/v1/quotations/available", wantTotal: 1},
		{name: "my operations", actor: operatorID, path: "/api/v1/quotations/mine/operations", wantTotal: 1},
		{name: "other operator has none", actor: operator2ID, path: "/api/v1/quotations/mine/operations", wantTotal: 0},
		{name: "my requests", actor: consultantID, path: "/api/v1/quotations/mine/requests", wantTotal: 2},
		{name: "other consultant sees nothing", actor: consultant2ID, path: "/api/v1/quotations/mine/requests", wantTotal: 0},
		{name: "status filter", actor: managerID, path: "/api/v1/quotations?status=aceita_operador", wantTotal: 1},
		{name: "comma separated statuses", actor: managerID, path: "/api/v1/quotations?status=solicitada,aceita_operador", wantTotal: 2},
		{name: "city filter", actor: managerID, path: "/api/v1/quotations?origem_cidade=Campinas", wantTotal: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(t, router, tt.actor, http.MethodGet, tt.path, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			page := decode[dto.PageResponse[dto.QuotationResponse]](t, w)
			assert.Equal(t, tt.wantTotal, page.Total)
			assert.Len(t, page.Items, tt.wantTotal)
		})
	}

	t.Run("pagination", func(t *testing.T) {
		page := decode[dto.PageResponse[dto.QuotationResponse]](t,
			call(t, router, managerID, http.MethodGet, "/api/v1/quotations?per_page=1&page=1", nil))

		assert.Equal(t, 2, page.Total)
		assert.Len(t, page.Items, 1)
		assert.Equal(t, 2, page.TotalPages)
		assert.True(t, page.HasNext)
	})
}

func TestQuotationHandler_ReassignAndOperators(t *testing.T) {
	router := newAPI(t)
	q := createQuotation(t, router)
	base := "/api/v1/quotations/" + strconv.FormatInt(q.ID, 10)

	require.Equal(t, http.StatusOK, call(t, router, operatorID, http.MethodPost, base+"/accept", nil).Code)

	w := call(t, router, managerID, http.MethodPost, base+"/reassign", map[string]any{"novo_operador_id": operator2ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[dto.QuotationResponse](t, w)
	require.NotNil(t, got.OperadorID)
	assert.Equal(t, operator2ID, *got.OperadorID)
	assert.Equal(t, "aceita_operador", got.Status)

	ops := decode[dto.ListResponse[dto.OperatorResponse]](t, call(t, router, managerID, http.MethodGet, "/api/v1/operators", nil))
	assert.Positive(t, ops.Count)
	for _, o := range ops.Items {
		assert.NotEqual(t, "consultor", o.Tipo)
	}
}

func TestNotificationHandler_Inbox(t *testing.T) {
	router := newAPI(t)
	createQuotation(t, router)
	createQuotation(t, router)

	count := decode[dto.UnreadCountResponse](t, call(t, router, operatorID, http.MethodGet, "/api/v1/notifications/unread-count", nil))
	assert.Equal(t, 2, count.Count)

	list := decode[dto.ListResponse[dto.NotificationResponse]](t,
		call(t, router, operatorID, http.MethodGet, "/api/v1/notifications?limit=1", nil))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "nova_cotacao", list.Items[0].Tipo)

	readPath := "/api/v1/notifications/" + strconv.FormatInt(list.Items[0].ID, 10) + "/read"
	assert.Equal(t, http.StatusNotFound, call(t, router, consultantID, http.MethodPost, readPath, nil).Code)
	assert.Equal(t, http.StatusNoContent, call(t, router, operatorID, http.MethodPost, readPath, nil).Code)

	marked := decode[dto.MarkedResponse](t, call(t, router, operatorID, http.MethodPost, "/api/v1/notifications/read-all", nil))
	assert.Equal(t, 1, marked.Marked)

	unread := decode[dto.ListResponse[dto.NotificationResponse]](t,
		call(t, router, operatorID, http.MethodGet, "/api/v1/notifications?unread_only=true", nil))
	assert.Zero(t, unread.Count)

	w := call(t, router, operatorID, http.MethodGet, "/api/v1/notifications?limit=1000", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
