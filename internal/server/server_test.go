package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ukaji3/deckfill-go/internal/testdeck"
	"github.com/ukaji3/deckfill-go/pkg/deckfill"
	"github.com/ukaji3/deckfill-go/pkg/deckfill/parser"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func summaryFixtures() (excel, ppt []byte) {
	excel = testdeck.Workbook("2025-12-01", [3][5]interface{}{
		{100, 50, 30, 20, 10},
		{1, 2, 3, 4, 5},
		{6, 7, 8, 9, 10},
	})

	var shapes []testdeck.Shape
	for i, target := range deckfill.DefaultMapping().Targets {
		shapes = append(shapes, testdeck.Text(10+i, target.Label, "0"))
	}
	ppt = testdeck.Deck([]testdeck.Shape{testdeck.Text(2, "År")}, shapes)
	return excel, ppt
}

func multipartRequest(t *testing.T, files map[string][]byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for field, data := range files {
		fw, err := w.CreateFormFile(field, field+".bin")
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/update-ppt", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func errorDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp["detail"]
}

func TestHealth(t *testing.T) {
	s := New(DefaultConfig(), zap.NewNop())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestUpdateEndpoint(t *testing.T) {
	excel, ppt := summaryFixtures()
	s := New(DefaultConfig(), zap.NewNop())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, multipartRequest(t, map[string][]byte{"excel": excel, "ppt": ppt}))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, pptxContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="updated.pptx"`, rec.Header().Get("Content-Disposition"))

	deck, err := parser.OpenDeck(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "December 2025", deck.Slides()[0].Shapes()[0].Text())
	assert.Equal(t, "Omsättning\n100", deck.Slides()[1].Shapes()[0].Text())
}

func TestUpdateEndpointAPIKey(t *testing.T) {
	excel, ppt := summaryFixtures()
	cfg := DefaultConfig()
	cfg.APIKey = "s3cret"
	s := New(cfg, zap.NewNop())

	tests := []struct {
		name   string
		key    string
		status int
	}{
		{"missing key", "", http.StatusUnauthorized},
		{"wrong key", "guess", http.StatusUnauthorized},
		{"valid key", "s3cret", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := multipartRequest(t, map[string][]byte{"excel": excel, "ppt": ppt})
			if tt.key != "" {
				req.Header.Set(apiKeyHeader, tt.key)
			}
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestUpdateEndpointBadInput(t *testing.T) {
	excel, ppt := summaryFixtures()
	oneSlide := testdeck.Deck([]testdeck.Shape{testdeck.Text(2, "År")})
	s := New(DefaultConfig(), zap.NewNop())

	tests := []struct {
		name   string
		files  map[string][]byte
		detail string
	}{
		{"missing ppt", map[string][]byte{"excel": excel}, `missing upload field: "ppt"`},
		{"missing excel", map[string][]byte{"ppt": ppt}, `missing upload field: "excel"`},
		{"too few slides", map[string][]byte{"excel": excel, "ppt": oneSlide}, "too few slides"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, multipartRequest(t, tt.files))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, errorDetail(t, rec), tt.detail)
		})
	}
}
