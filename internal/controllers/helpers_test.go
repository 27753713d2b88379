package controllers

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"games_storefront/internal/catalog"
	"games_storefront/internal/clients/gameapi"
	"games_storefront/internal/middleware"
	"games_storefront/internal/models"
	"games_storefront/internal/services"
	"games_storefront/internal/session"
	"games_storefront/internal/validation"
	"games_storefront/web"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testNamespace = "3f0e1c2a-9a63-4b55-8f08-6f1f2b7f6df0"

var (
	signedIn = &session.Session{UserID: 7, Token: "tok"}

	testRef = catalog.Reference{
		Genres:    []models.Genre{{GenreID: 1, Name: "Action"}, {GenreID: 2, Name: "Puzzle"}},
		Platforms: []models.Platform{{PlatformID: 1, Name: "PC"}, {PlatformID: 2, Name: "Xbox"}},
	}
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	rr, err := NewRenderer(web.Templates, discardLogger())
	require.NoError(t, err)
	return rr
}

// withVisitor attaches what the middleware chain would have resolved.
func withVisitor(r *http.Request, sess *session.Session, params map[string]string) *http.Request {
	ctx := r.Context()
	ctx = context.WithValue(ctx, middleware.NamespaceKey, testNamespace)
	ctx = context.WithValue(ctx, middleware.CSRFTokenKey, "csrf")
	ctx = middleware.WithSession(ctx, sess)

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)

	return r.WithContext(ctx)
}

func getRequest(target string, sess *session.Session, params map[string]string) *http.Request {
	return withVisitor(httptest.NewRequest(http.MethodGet, target, nil), sess, params)
}

func postForm(target string, form url.Values, sess *session.Session, params map[string]string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return withVisitor(r, sess, params)
}

func postMultipart(t *testing.T, target string, fields map[string][]string, file []byte, sess *session.Session, params map[string]string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, vs := range fields {
		for _, v := range vs {
			require.NoError(t, mw.WriteField(k, v))
		}
	}
	if file != nil {
		fw, err := mw.CreateFormFile("image", "image.png")
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, target, body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return withVisitor(r, sess, params)
}

func parseHTML(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	return doc
}

func formErr(status int, field, msg string) error {
	var cause error
	if status != 0 {
		cause = &gameapi.APIError{Op: "test", Status: status, Message: http.StatusText(status)}
	}
	return &services.FormError{Op: "test", Fields: validation.Errors{field: msg}, Err: cause}
}

type MockReferenceLoader struct {
	mock.Mock
}

func (m *MockReferenceLoader) Load(ctx context.Context) (catalog.Reference, error) {
	args := m.Called()
	return args.Get(0).(catalog.Reference), args.Error(1)
}

func reference() *MockReferenceLoader {
	ref := &MockReferenceLoader{}
	ref.On("Load").Return(testRef, nil)
	return ref
}
