package handler

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"tankfill-service/internal/cargo/dataset"
	"tankfill-service/internal/config"
	"tankfill-service/internal/notify"
)

func testConfig() config.Config {
	return config.Config{MatchStrategy: "fuzzy-single", FuzzyThreshold: 70}
}

func testStore(t *testing.T) *dataset.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cargo.csv")
	table := "UN Number,Cargo Name,TP Code\n" +
		"UN1203,Gasoline,TP1\n" +
		"UN1202,Diesel,TP2\n" +
		"UN8000,Ethanol,\n"
	if err := os.WriteFile(path, []byte(table), 0o644); err != nil {
		t.Fatalf("write table: %v", err)
	}
	store := dataset.NewStore(path, 1, zerolog.Nop())
	if err := store.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	return store
}

func post(t *testing.T, h http.HandlerFunc, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/calculate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return rr, out
}

func TestCalculateSuccess(t *testing.T) {
	h := Calculate(testConfig(), zerolog.Nop(), testStore(t))
	rr, out := post(t, h, `{"density15":0.85,"density50":0.80,"tankCapacity":1000,"cargoInfo":"un1203"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if out["tpCode"] != "TP1" {
		t.Fatalf("tpCode = %v, want TP1", out["tpCode"])
	}
	if fp := out["fillingPercentage"].(float64); math.Abs(fp-91.2941176) > 0.001 {
		t.Fatalf("fillingPercentage = %v, want ~91.294", fp)
	}
	if pm := out["permittedMass"].(float64); math.Abs(pm-776.0) > 0.001 {
		t.Fatalf("permittedMass = %v, want ~776.0", pm)
	}
}

func TestCalculateNumericStrings(t *testing.T) {
	h := Calculate(testConfig(), zerolog.Nop(), testStore(t))
	rr, out := post(t, h, `{"Density15":"0,85","density50":"0.80","tankCapacity":"1 000","cargoInfo":"Gasoline"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if out["tpCode"] != "TP1" {
		t.Fatalf("tpCode = %v, want TP1", out["tpCode"])
	}
}

func TestCalculateZeroDensity50(t *testing.T) {
	h := Calculate(testConfig(), zerolog.Nop(), testStore(t))
	rr, out := post(t, h, `{"density15":0.85,"density50":0,"tankCapacity":1000,"cargoInfo":"un1203"}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if out["errorKind"] != "InvalidInput" {
		t.Fatalf("errorKind = %v, want InvalidInput", out["errorKind"])
	}
}

func TestCalculateNotFound(t *testing.T) {
	h := Calculate(testConfig(), zerolog.Nop(), testStore(t))
	rr, out := post(t, h, `{"density15":0.85,"density50":0.80,"tankCapacity":1000,"cargoInfo":"xylophone"}`)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404, body %s", rr.Code, rr.Body.String())
	}
	if out["errorKind"] != "NotFound" {
		t.Fatalf("errorKind = %v, want NotFound", out["errorKind"])
	}
}

func TestCalculateMismatch(t *testing.T) {
	h := Calculate(testConfig(), zerolog.Nop(), testStore(t))
	rr, out := post(t, h, `{"density15":0.85,"density50":0.80,"tankCapacity":1000,"unNumber":"UN1203","cargoName":"Diesel"}`)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rr.Code)
	}
	if out["errorKind"] != "Mismatch" {
		t.Fatalf("errorKind = %v, want Mismatch", out["errorKind"])
	}
}

func TestCalculateInvalidClassification(t *testing.T) {
	h := Calculate(testConfig(), zerolog.Nop(), testStore(t))
	rr, out := post(t, h, `{"density15":0.85,"density50":0.80,"tankCapacity":1000,"cargoInfo":"Ethanol"}`)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rr.Code)
	}
	if out["errorKind"] != "InvalidClassification" {
		t.Fatalf("errorKind = %v, want InvalidClassification", out["errorKind"])
	}
}

func TestCalculateDatasetUnavailable(t *testing.T) {
	// store pointed at a file that never loads
	store := dataset.NewStore(filepath.Join(t.TempDir(), "absent.csv"), 1, zerolog.Nop())
	h := Calculate(testConfig(), zerolog.Nop(), store)
	rr, out := post(t, h, `{"density15":0.85,"density50":0.80,"tankCapacity":1000,"cargoInfo":"un1203"}`)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
	if out["errorKind"] != "DatasetUnavailable" {
		t.Fatalf("errorKind = %v, want DatasetUnavailable", out["errorKind"])
	}
}

func TestCalculateMalformedBody(t *testing.T) {
	h := Calculate(testConfig(), zerolog.Nop(), testStore(t))
	rr, out := post(t, h, `{"density15":`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if out["errorKind"] != "InvalidInput" {
		t.Fatalf("errorKind = %v, want InvalidInput", out["errorKind"])
	}
}

func TestSendEmailRequiresContactFields(t *testing.T) {
	mailer := notify.NewBrevo(config.Config{}, zerolog.Nop())
	h := SendEmail(testConfig(), zerolog.Nop(), testStore(t), mailer)
	rr, out := post(t, h, `{"density15":0.85,"density50":0.80,"tankCapacity":1000,"cargoInfo":"un1203"}`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if out["errorKind"] != "InvalidInput" {
		t.Fatalf("errorKind = %v, want InvalidInput", out["errorKind"])
	}
}

func TestSendEmailLookupMissIsSoft(t *testing.T) {
	mailer := notify.NewBrevo(config.Config{}, zerolog.Nop()) // dispatch disabled
	h := SendEmail(testConfig(), zerolog.Nop(), testStore(t), mailer)
	rr, out := post(t, h, `{"firstName":"Ada","email":"ada@example.com","density15":0.85,"density50":0.80,"tankCapacity":1000,"cargoInfo":"xylophone"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rr.Code, rr.Body.String())
	}
	msg, _ := out["message"].(string)
	if !strings.Contains(msg, "get back to you") {
		t.Fatalf("expected the follow-up message, got %q", msg)
	}
	if _, ok := out["tpCode"]; ok {
		t.Fatal("a lookup miss must not report a tpCode")
	}
}

func TestSendEmailSuccess(t *testing.T) {
	mailer := notify.NewBrevo(config.Config{}, zerolog.Nop())
	h := SendEmail(testConfig(), zerolog.Nop(), testStore(t), mailer)
	rr, out := post(t, h, `{"firstName":"Ada","email":"ada@example.com","density15":0.85,"density50":0.80,"tankCapacity":1000,"unNumber":"UN1202","cargoName":"Diesel"}`)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	if out["tpCode"] != "TP2" {
		t.Fatalf("tpCode = %v, want TP2", out["tpCode"])
	}
}
