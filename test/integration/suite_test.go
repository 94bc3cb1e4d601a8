//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/cucumber/godog"
)

// testContext holds state shared across step definitions within a scenario.
type testContext struct {
	baseURL      string
	client       *http.Client
	response     *http.Response
	responseBody []byte
	err          error

	// quotationID is the last quotation created in the scenario.
	quotationID int64

	// local is the in-process stack used when BASE_URL is unset.
	local  *stack
	server *httptest.Server
}

// newTestContext creates a new test context with sensible defaults.
func newTestContext() *testContext {
	return &testContext{
		baseURL: os.Getenv("BASE_URL"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// start boots a fresh in-process stack unless an external service was given.
func (tc *testContext) start() error {
	if os.Getenv("BASE_URL") != "" {
		return nil
	}

	s, err := newStack(stackOptions{})
	if err != nil {
		return fmt.Errorf("starting in-process service: %w", err)
	}
	tc.local = s
	tc.server = httptest.NewServer(s.handler)
	tc.baseURL = tc.server.URL

	return nil
}

// reset clears response state between scenarios.
func (tc *testContext) reset() {
	if tc.response != nil && tc.response.Body != nil {
		tc.response.Body.Close()
	}
	tc.response = nil
	tc.responseBody = nil
	tc.err = nil
	tc.quotationID = 0

	if tc.server != nil {
		tc.server.Close()
		tc.server = nil
	}
	if tc.local != nil {
		tc.local.Close()
		tc.local = nil
	}
}

// InitializeScenario registers step definitions for each scenario.
func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := newTestContext()

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, tc.start()
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.Step(`^the service is running$`, tc.theServiceIsRunning)
	ctx.Step(`^I request GET "([^"]*)"$`, tc.iRequestGET)
	ctx.Step(`^user (\d+) requests GET "([^"]*)"$`, tc.userRequestsGET)
	ctx.Step(`^user (\d+) requests an? (road|maritime|air) quotation for "([^"]*)"$`, tc.userRequestsQuotation)
	ctx.Step(`^user (\d+) posts "([^"]*)" on the quotation$`, tc.userPosts)
	ctx.Step(`^user (\d+) posts "([^"]*)" on the quotation with:$`, tc.userPostsWith)
	ctx.Step(`^the response status should be (\d+)$`, tc.theResponseStatusShouldBe)
	ctx.Step(`^the response should contain "([^"]*)"$`, tc.theResponseShouldContain)
	ctx.Step(`^the error code should be "([^"]*)"$`, tc.theErrorCodeShouldBe)
	ctx.Step(`^the quotation status should be "([^"]*)"$`, tc.theQuotationStatusShouldBe)
	ctx.Step(`^the quotation history should have (\d+) entries$`, tc.theHistoryShouldHave)
	ctx.Step(`^user (\d+) should have (\d+) unread notifications?$`, tc.userShouldHaveUnread)
}

// theServiceIsRunning verifies the service is reachable.
func (tc *testContext) theServiceIsRunning() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tc.baseURL+"/-/live", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("service is not running at %s: %w", tc.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status %d", resp.StatusCode)
	}

	return nil
}

// do sends a request and keeps the response for later assertions.
// actor zero sends no identity header; "{id}" in path expands to the last quotation.
func (tc *testContext) do(actor int64, method, path string, body []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	path = strings.ReplaceAll(path, "{id}", strconv.FormatInt(tc.quotationID, 10))

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, tc.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if actor != 0 {
		req.Header.Set("X-User-ID", strconv.FormatInt(actor, 10))
	}

	if tc.response != nil {
		tc.response.Body.Close()
	}

	tc.response, tc.err = tc.client.Do(req)
	if tc.err != nil {
		return fmt.Errorf("request failed: %w", tc.err)
	}

	tc.responseBody, tc.err = io.ReadAll(tc.response.Body)
	if tc.err != nil {
		return fmt.Errorf("failed to read response body: %w", tc.err)
	}

	return nil
}

// iRequestGET makes an anonymous GET request to the specified path.
func (tc *testContext) iRequestGET(path string) error {
	return tc.do(0, http.MethodGet, path, nil)
}

func (tc *testContext) userRequestsGET(actor int64, path string) error {
	return tc.do(actor, http.MethodGet, path, nil)
}

func (tc *testContext) userRequestsQuotation(actor int64, modality, client string) error {
	payload := quotationPayload(modality, client)

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if err := tc.do(actor, http.MethodPost, "/api/v1/quotations", raw); err != nil {
		return err
	}

	if tc.response.StatusCode == http.StatusCreated {
		var created struct {
			ID int64 `json:"id"`
		}
		if err := json.Unmarshal(tc.responseBody, &created); err != nil {
			return fmt.Errorf("decoding created quotation: %w", err)
		}
		tc.quotationID = created.ID
	}

	return nil
}

func (tc *testContext) userPosts(actor int64, action string) error {
	return tc.do(actor, http.MethodPost, "/api/v1/quotations/{id}/"+action, []byte(`{}`))
}

func (tc *testContext) userPostsWith(actor int64, action string, body *godog.DocString) error {
	return tc.do(actor, http.MethodPost, "/api/v1/quotations/{id}/"+action, []byte(body.Content))
}

// theResponseStatusShouldBe asserts the response status code.
func (tc *testContext) theResponseStatusShouldBe(expectedCode int) error {
	if tc.response == nil {
		return errors.New("no response received")
	}

	if tc.response.StatusCode != expectedCode {
		return fmt.Errorf("expected status %d, got %d. Body: %s",
			expectedCode, tc.response.StatusCode, string(tc.responseBody))
	}

	return nil
}

// theResponseShouldContain asserts the response body contains the given text.
func (tc *testContext) theResponseShouldContain(text string) error {
	if tc.responseBody == nil {
		return errors.New("no response body")
	}

	if body := string(tc.responseBody); !strings.Contains(body, text) {
		return fmt.Errorf("response body does not contain %q.\nBody: %s", text, body)
	}

	return nil
}

func (tc *testContext) theErrorCodeShouldBe(code string) error {
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(tc.responseBody, &envelope); err != nil {
		return fmt.Errorf("decoding error envelope: %w", err)
	}
	if envelope.Error.Code != code {
		return fmt.Errorf("expected error code %q, got %q. Body: %s", code, envelope.Error.Code, tc.responseBody)
	}

	return nil
}

func (tc *testContext) theQuotationStatusShouldBe(status string) error {
	if tc.response == nil {
		return errors.New("no response received")
	}
	if code := tc.response.StatusCode; code != http.StatusOK && code != http.StatusCreated {
		return fmt.Errorf("expected a quotation, got status %d. Body: %s", code, tc.responseBody)
	}

	var q struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(tc.responseBody, &q); err != nil {
		return fmt.Errorf("decoding quotation: %w", err)
	}
	if q.Status != status {
		return fmt.Errorf("expected status %q, got %q", status, q.Status)
	}

	return nil
}

func (tc *testContext) theHistoryShouldHave(n int) error {
	if err := tc.do(adminID, http.MethodGet, "/api/v1/quotations/{id}/history", nil); err != nil {
		return err
	}
	if err := tc.theResponseStatusShouldBe(http.StatusOK); err != nil {
		return err
	}

	var list struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(tc.responseBody, &list); err != nil {
		return fmt.Errorf("decoding history: %w", err)
	}
	if list.Count != n {
		return fmt.Errorf("expected %d history entries, got %d", n, list.Count)
	}

	return nil
}

func (tc *testContext) userShouldHaveUnread(actor int64, n int) error {
	if err := tc.do(actor, http.MethodGet, "/api/v1/notifications/unread-count", nil); err != nil {
		return err
	}
	if err := tc.theResponseStatusShouldBe(http.StatusOK); err != nil {
		return err
	}

	var got struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(tc.responseBody, &got); err != nil {
		return fmt.Errorf("decoding unread count: %w", err)
	}
	if got.Count != n {
		return fmt.Errorf("expected %d unread notifications for user %d, got %d", n, actor, got.Count)
	}

	return nil
}

// quotationPayload builds a valid creation body for the modality.
func quotationPayload(modality, client string) map[string]any {
	body := map[string]any{
		"cliente_nome":    client,
		"cliente_cnpj":    "11.222.333/0001-81",
		"carga_descricao": "Peças automotivas",
		"carga_peso_kg":   "320.75",
	}

	switch modality {
	case "maritime":
		body["modalidade"] = "brcargo_maritimo"
		body["porto_origem"] = "Santos"
		body["porto_destino"] = "Shanghai"
		body["incoterm"] = "FOB"
		body["tipo_carga_maritima"] = "FCL"
		body["tamanho_container"] = "40HC"
		body["quantidade_containers"] = 2
		return body
	case "air":
		body["modalidade"] = "frete_aereo"
	default:
		body["modalidade"] = "brcargo_rodoviario"
	}

	body["origem_cep"] = "01001-000"
	body["origem_endereco"] = "Praça da Sé, 100"
	body["origem_cidade"] = "São Paulo"
	body["origem_estado"] = "SP"
	body["destino_cep"] = "20040-020"
	body["destino_endereco"] = "Av. Rio Branco, 1"
	body["destino_cidade"] = "Rio de Janeiro"
	body["destino_estado"] = "RJ"

	return body
}

// TestFeatures runs the GoDog BDD test suite.
func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../features"},
			TestingT: t,
			Tags:     os.Getenv("GODOG_TAGS"),
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
