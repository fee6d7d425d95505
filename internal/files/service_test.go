package files

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/events"
	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/gemini"
)

type fakeModel struct {
	prompt string
	opts   gemini.Options
}

func (f *fakeModel) Generate(_ context.Context, msgs []gemini.Message, opts gemini.Options) (*gemini.Completion, error) {
	f.prompt = msgs[len(msgs)-1].Content
	f.opts = opts
	return &gemini.Completion{Content: "a short summary"}, nil
}

type fakeRepo struct {
	created *Analysis
}

func (f *fakeRepo) Create(_ context.Context, a *Analysis) error {
	f.created = a
	return nil
}

type fakeEvents struct {
	published []events.FileEvent
}

func (f *fakeEvents) PublishFile(_ context.Context, e events.FileEvent) error {
	f.published = append(f.published, e)
	return nil
}

func TestAnalyze_SummarizesAndPersists(t *testing.T) {
	model := &fakeModel{}
	repo := &fakeRepo{}
	pub := &fakeEvents{}
	svc := NewService(repo, model, pub)

	analysis, err := svc.Analyze(context.Background(), "notes.txt", "text/plain", 11, []byte("hello world"))
	require.NoError(t, err)

	assert.Equal(t, "Summarize:\n\nhello world", model.prompt)
	require.NotNil(t, model.opts.Temperature)
	assert.Equal(t, 0.4, *model.opts.Temperature)
	require.NotNil(t, model.opts.MaxTokens)
	assert.Equal(t, 250, *model.opts.MaxTokens)

	assert.Equal(t, "a short summary", analysis.Summary)
	assert.Equal(t, "notes.txt", analysis.Filename)
	require.NotNil(t, repo.created)
	assert.Equal(t, analysis.ID, repo.created.ID)

	require.Len(t, pub.published, 1)
	assert.Equal(t, analysis.ID.String(), pub.published[0].AnalysisID)
}

func TestAnalyze_TruncatesLongContent(t *testing.T) {
	model := &fakeModel{}
	svc := NewService(&fakeRepo{}, model, nil)

	content := bytes.Repeat([]byte("x"), maxContentBytes+500)
	_, err := svc.Analyze(context.Background(), "big.txt", "text/plain", int64(len(content)), content)
	require.NoError(t, err)

	assert.Len(t, model.prompt, len("Summarize:\n\n")+maxContentBytes)
}

func TestHandler_AnalyzeMultipart(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeModel{}, nil)
	h := NewHandler(svc)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "doc.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("file body"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/files/analyze", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "doc.txt", got.Filename)
	assert.Equal(t, "a short summary", got.Summary)
}

func TestHandler_MissingFile(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeModel{}, nil)
	h := NewHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/files/analyze", strings.NewReader("not a form"))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	rec := httptest.NewRecorder()
	h.Analyze(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "File is required")
}
