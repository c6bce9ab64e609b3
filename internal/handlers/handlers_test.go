package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/deanrcg/skincheck/internal/usecase"
)

const testMaxUpload = 1 << 20

type stubRunner struct {
	result   *usecase.Result
	err      error
	gotBytes []byte
}

func (s *stubRunner) Assess(ctx context.Context, imageBytes []byte) (*usecase.Result, error) {
	s.gotBytes = imageBytes
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newTestRouter(t *testing.T, runner AssessmentRunner) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.MaxMultipartMemory = testMaxUpload
	RegisterRoutes(router, runner, t.TempDir(), testMaxUpload)
	return router
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}
	return buf.Bytes()
}

func buildMultipartBody(t *testing.T, contentType string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="upload"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to create multipart part: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("failed to write payload: %v", err)
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	return body, writer.FormDataContentType()
}

func postAssess(t *testing.T, router *gin.Engine, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/assess", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decodeResponse(t *testing.T, resp *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %s: %v", resp.Body.String(), err)
	}
	return out
}

func TestAssessReturnsPipelineOutputs(t *testing.T) {
	runner := &stubRunner{result: &usecase.Result{
		RiskLevel:   "Low Risk - Likely Benign",
		Explanation: "regular borders, even color",
		ReportPath:  "reports/Skin_Report_20240315_103045.pdf",
	}}
	router := newTestRouter(t, runner)

	payload := pngBytes(t)
	body, contentType := buildMultipartBody(t, "image/png", payload)
	resp := postAssess(t, router, body, contentType)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	out := decodeResponse(t, resp)
	if out["risk_level"] != "Low Risk - Likely Benign" {
		t.Fatalf("unexpected risk level: %s", out["risk_level"])
	}
	if out["report_path"] != "/reports/Skin_Report_20240315_103045.pdf" {
		t.Fatalf("unexpected report link: %s", out["report_path"])
	}
	if !bytes.Equal(runner.gotBytes, payload) {
		t.Fatal("upload bytes were not passed through to the pipeline")
	}
}

func TestAssessMapsPipelineErrorToSentinel(t *testing.T) {
	runner := &stubRunner{err: errors.New("model unavailable")}
	router := newTestRouter(t, runner)

	body, contentType := buildMultipartBody(t, "image/png", pngBytes(t))
	resp := postAssess(t, router, body, contentType)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	out := decodeResponse(t, resp)
	if out["risk_level"] != ErrorLabel {
		t.Fatalf("expected sentinel label, got %s", out["risk_level"])
	}
	if !strings.HasPrefix(out["explanation"], "An error occurred during analysis:") {
		t.Fatalf("unexpected explanation: %s", out["explanation"])
	}
	if out["report_path"] != "" {
		t.Fatalf("expected empty report path, got %s", out["report_path"])
	}
}

func TestAssessOmitsReportLinkWhenRenderingFailed(t *testing.T) {
	runner := &stubRunner{result: &usecase.Result{
		RiskLevel:   "Medium Risk - Monitor",
		Explanation: "monitor this mole",
	}}
	router := newTestRouter(t, runner)

	body, contentType := buildMultipartBody(t, "image/png", pngBytes(t))
	out := decodeResponse(t, postAssess(t, router, body, contentType))

	if out["report_path"] != "" {
		t.Fatalf("expected empty report path, got %s", out["report_path"])
	}
	if out["risk_level"] != "Medium Risk - Monitor" {
		t.Fatalf("unexpected risk level: %s", out["risk_level"])
	}
}

func TestAssessRequiresImageField(t *testing.T) {
	router := newTestRouter(t, &stubRunner{})

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	resp := postAssess(t, router, body, writer.FormDataContentType())
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestAssessRejectsLargeUpload(t *testing.T) {
	router := newTestRouter(t, &stubRunner{})

	body, contentType := buildMultipartBody(t, "image/png", bytes.Repeat([]byte("a"), testMaxUpload+1))
	resp := postAssess(t, router, body, contentType)

	if resp.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status %d, got %d", http.StatusRequestEntityTooLarge, resp.Code)
	}
}

func TestAssessRejectsUnsupportedContentType(t *testing.T) {
	router := newTestRouter(t, &stubRunner{})

	body, contentType := buildMultipartBody(t, "text/plain", []byte("hello"))
	resp := postAssess(t, router, body, contentType)

	if resp.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected status %d, got %d", http.StatusUnsupportedMediaType, resp.Code)
	}
}

func TestIndexServesForm(t *testing.T) {
	router := newTestRouter(t, &stubRunner{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "SkinCheck") {
		t.Fatal("index page missing title")
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, &stubRunner{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}
