package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openbill/invoicecraft/internal/config"
	invoicedomain "github.com/openbill/invoicecraft/internal/invoice/domain"
	"github.com/openbill/invoicecraft/internal/logo"
)

type fakeInvoiceService struct {
	createErr  error
	getErr     error
	sendCalled bool
	lastSend   invoicedomain.SendEmailRequest
	lastList   invoicedomain.ListInvoicesRequest
}

func (f *fakeInvoiceService) Create(ctx context.Context, req invoicedomain.CreateInvoiceRequest) (invoicedomain.Invoice, error) {
	_ = ctx
	if f.createErr != nil {
		return invoicedomain.Invoice{}, f.createErr
	}
	return invoicedomain.Invoice{
		ID:            snowflake.ID(200),
		InvoiceNumber: req.InvoiceNumber,
		Status:        invoicedomain.InvoiceStatusDraft,
	}, nil
}

func (f *fakeInvoiceService) Get(ctx context.Context, id string) (invoicedomain.Invoice, error) {
	_ = ctx
	if f.getErr != nil {
		return invoicedomain.Invoice{}, f.getErr
	}
	return invoicedomain.Invoice{ID: snowflake.ID(200), InvoiceNumber: "INV-001"}, nil
}

func (f *fakeInvoiceService) List(ctx context.Context, req invoicedomain.ListInvoicesRequest) ([]invoicedomain.Invoice, error) {
	_ = ctx
	f.lastList = req
	return []invoicedomain.Invoice{{ID: snowflake.ID(200), InvoiceNumber: "INV-001"}}, nil
}

func (f *fakeInvoiceService) Update(ctx context.Context, id string, req invoicedomain.UpdateInvoiceRequest) (invoicedomain.Invoice, error) {
	_ = ctx
	_ = req
	if f.getErr != nil {
		return invoicedomain.Invoice{}, f.getErr
	}
	return invoicedomain.Invoice{ID: snowflake.ID(200)}, nil
}

func (f *fakeInvoiceService) Delete(ctx context.Context, id string) error {
	_ = ctx
	return f.getErr
}

func (f *fakeInvoiceService) RenderPDF(ctx context.Context, id string) (invoicedomain.RenderResult, error) {
	_ = ctx
	if f.getErr != nil {
		return invoicedomain.RenderResult{}, f.getErr
	}
	return invoicedomain.RenderResult{Filename: "Invoice_INV-001.pdf", PDF: []byte("%PDF-fake")}, nil
}

func (f *fakeInvoiceService) SendEmail(ctx context.Context, id string, req invoicedomain.SendEmailRequest) error {
	_ = ctx
	f.sendCalled = true
	f.lastSend = req
	return f.getErr
}

func newTestServer(t *testing.T, svc invoicedomain.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logos, err := logo.NewStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	engine := NewEngine(config.Config{}, zap.NewNop())
	NewServer(ServerParams{
		Gin:        engine,
		Cfg:        config.Config{},
		Log:        zap.NewNop(),
		InvoiceSvc: svc,
		Logos:      logos,
	})
	return engine
}

func TestListInvoicesRoute(t *testing.T) {
	engine := newTestServer(t, &fakeInvoiceService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/invoices", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "INV-001")
}

func TestListInvoicesLimitParam(t *testing.T) {
	svc := &fakeInvoiceService{}
	engine := newTestServer(t, svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/invoices?limit=5", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, svc.lastList.Limit)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/invoices?limit=-1", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_limit")
}

func TestGetInvoiceRejectsBadID(t *testing.T) {
	engine := newTestServer(t, &fakeInvoiceService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/invoices/not-an-id", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_id")
}

func TestGetInvoiceNotFound(t *testing.T) {
	engine := newTestServer(t, &fakeInvoiceService{getErr: invoicedomain.ErrInvoiceNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/invoices/200", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateInvoiceRoute(t *testing.T) {
	engine := newTestServer(t, &fakeInvoiceService{})

	body, err := json.Marshal(invoicedomain.CreateInvoiceRequest{InvoiceNumber: "INV-042"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/invoices", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "INV-042")
}

func TestCreateInvoiceConflict(t *testing.T) {
	engine := newTestServer(t, &fakeInvoiceService{createErr: invoicedomain.ErrDuplicateInvoiceNumber})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/invoices", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDownloadInvoicePDFRoute(t *testing.T) {
	engine := newTestServer(t, &fakeInvoiceService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/invoices/200/pdf", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Invoice_INV-001.pdf")
	assert.Equal(t, "%PDF-fake", w.Body.String())
}

func TestSendInvoiceEmailValidatesRecipient(t *testing.T) {
	svc := &fakeInvoiceService{}
	engine := newTestServer(t, svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/invoices/200/send-email",
		bytes.NewReader([]byte(`{"to":"not-an-email"}`)))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, svc.sendCalled)
}

func TestSendInvoiceEmailRoute(t *testing.T) {
	svc := &fakeInvoiceService{}
	engine := newTestServer(t, svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/invoices/200/send-email",
		bytes.NewReader([]byte(`{"to":"client@example.com","subject":"March invoice"}`)))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.sendCalled)
	assert.Equal(t, "March invoice", svc.lastSend.Subject)
}

func TestUploadLogoRoute(t *testing.T) {
	engine := newTestServer(t, &fakeInvoiceService{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("logo", "brand.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/upload-logo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "/uploads/logo-")
}

func TestUploadLogoRejectsUnsupportedType(t *testing.T) {
	engine := newTestServer(t, &fakeInvoiceService{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("logo", "brand.svg")
	require.NoError(t, err)
	_, err = part.Write([]byte("<svg/>"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/upload-logo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "logo_unsupported_format")
}
