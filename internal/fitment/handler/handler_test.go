package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitment-service/internal/config"
	"fitment-service/internal/fitment/model"
	"fitment-service/internal/fitment/service"
	"fitment-service/internal/store"
)

func testConfig() config.Config {
	return config.Config{MaxUploadMB: 10, ConfidenceThreshold: 80}
}

func TestParseHandlerSingle(t *testing.T) {
	svc := service.New(nil, zerolog.Nop())
	h := Parse(testConfig(), svc, zerolog.Nop())

	body := `{"description": "PIRELLI 205/55R16 91V CINTURATO P7"}`
	req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var rec model.FitmentRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
	require.NotNil(t, rec.Width)
	assert.Equal(t, 205, *rec.Width)
	assert.Equal(t, "205/55R16", rec.SizeString())
	assert.Equal(t, model.MethodPattern, rec.ParseMethod)
}

func TestParseHandlerBatch(t *testing.T) {
	svc := service.New(nil, zerolog.Nop())
	h := Parse(testConfig(), svc, zerolog.Nop())

	body := `{"descriptions": ["205/55R16 91V", "sin medida"]}`
	req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var recs []model.FitmentRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &recs))
	require.Len(t, recs, 2)
	assert.NotNil(t, recs[0].Width)
	assert.Nil(t, recs[1].Width)
}

func TestParseHandlerRejectsEmptyBody(t *testing.T) {
	svc := service.New(nil, zerolog.Nop())
	h := Parse(testConfig(), svc, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/parse", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	h(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func seedCatalog(t *testing.T) *store.Memory {
	t.Helper()
	st := store.NewMemory()
	require.NoError(t, st.BatchInsert(context.Background(), []model.Product{
		{ID: "p1", SKU: "A1", Name: "PIRELLI CINTURATO P7 205/55R16", Brand: "PIRELLI", Price: 100000},
		{ID: "p2", SKU: "A2", Name: "FATE AR-440 175/65R14", Brand: "FATE", Price: 60000},
	}))
	return st
}

func multipartCSV(t *testing.T, csvBody string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "lista.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csvBody))
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestReconcileHandler(t *testing.T) {
	st := seedCatalog(t)
	svc := service.New(nil, zerolog.Nop())
	h := Reconcile(testConfig(), svc, st, zerolog.Nop())

	csvBody := "DESCRIPCION,MARCA,CONTADO\n" +
		"205/55R16 91V CINTURATO P7,PIRELLI,\"123.000,00\"\n" +
		"MICHELIN PRIMACY 4 225/45R17,MICHELIN,\"210.000,00\"\n"
	buf, ctype := multipartCSV(t, csvBody, nil)

	req := httptest.NewRequest(http.MethodPost, "/reconcile", buf)
	req.Header.Set("Content-Type", ctype)
	rr := httptest.NewRecorder()
	h(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var res model.ReconcileResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))

	require.Len(t, res.Rows, 1)
	assert.Equal(t, "p1", res.Rows[0].ProductID)
	assert.Equal(t, 100000.0, res.Rows[0].OldPrice)
	assert.Equal(t, 123000.0, res.Rows[0].NewPrice)
	assert.GreaterOrEqual(t, res.Rows[0].MatchScore, 50)

	require.Len(t, res.Unmatched, 1)
	assert.Contains(t, res.Unmatched[0].Description, "MICHELIN")

	// dry run by default: the catalog price is untouched
	p, err := st.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 100000.0, p.Price)
}

func TestReconcileHandlerApply(t *testing.T) {
	st := seedCatalog(t)
	svc := service.New(nil, zerolog.Nop())
	h := Reconcile(testConfig(), svc, st, zerolog.Nop())

	csvBody := "DESCRIPCION,MARCA,CONTADO\n" +
		"205/55R16 91V CINTURATO P7,PIRELLI,\"123.000,00\"\n"
	buf, ctype := multipartCSV(t, csvBody, map[string]string{"apply": "1"})

	req := httptest.NewRequest(http.MethodPost, "/reconcile", buf)
	req.Header.Set("Content-Type", ctype)
	rr := httptest.NewRecorder()
	h(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	p, err := st.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 123000.0, p.Price)
}

func TestReconcileHandlerMissingFile(t *testing.T) {
	st := store.NewMemory()
	svc := service.New(nil, zerolog.Nop())
	h := Reconcile(testConfig(), svc, st, zerolog.Nop())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("apply", "1"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/reconcile", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	h(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestProductsImportDerivesCategory(t *testing.T) {
	st := store.NewMemory()
	h := Products(st, zerolog.Nop())

	body := `[
		{"id": "p1", "name": "SCORPION VERDE 225/65R17", "brand": "PIRELLI", "price": 1},
		{"id": "p2", "name": "CINTURATO P1 175/65R14", "brand": "PIRELLI", "price": 1, "category": "custom"}
	]`
	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h(rr, req)
	require.Equal(t, http.StatusCreated, rr.Code)

	p1, err := st.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "camioneta", p1.Category)

	p2, err := st.Get(context.Background(), "p2")
	require.NoError(t, err)
	assert.Equal(t, "custom", p2.Category) // explicit category wins

	req = httptest.NewRequest(http.MethodGet, "/products", nil)
	rr = httptest.NewRecorder()
	h(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	var products []model.Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &products))
	assert.Len(t, products, 2)
}
