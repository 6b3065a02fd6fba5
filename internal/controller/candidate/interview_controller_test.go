package candidate

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Meerkats/internal/dto"
	"github.com/lshigami/Meerkats/internal/model"
	"github.com/lshigami/Meerkats/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubInterviewService struct {
	submitAnswerErr error
	lastAnswer      dto.SubmitAnswerRequest
}

func (s *stubInterviewService) Start(ctx context.Context, req dto.StartInterviewRequest) (*dto.StartInterviewResponse, error) {
	return &dto.StartInterviewResponse{
		Interview:    &model.Interview{ID: "interview-1", Status: model.InterviewStatusInProgress},
		Introduction: dto.IntroductionDTO{Greeting: "Hello", IntroductionRequest: "Introduce yourself"},
	}, nil
}

func (s *stubInterviewService) SubmitIntroduction(ctx context.Context, interviewID, introduction string) (*dto.SubmitIntroductionResponse, error) {
	return &dto.SubmitIntroductionResponse{FirstQuestion: model.InterviewQuestion{ID: "q-1", Question: "First question"}}, nil
}

func (s *stubInterviewService) SubmitAnswer(ctx context.Context, interviewID string, req dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error) {
	if s.submitAnswerErr != nil {
		return nil, s.submitAnswerErr
	}
	s.lastAnswer = req
	return &dto.SubmitAnswerResponse{
		Interview:   &model.Interview{ID: interviewID},
		IsCompleted: false,
		Progress:    dto.ProgressDTO{Current: 1, Total: 10},
	}, nil
}

func (s *stubInterviewService) Complete(ctx context.Context, interviewID string) (*dto.CompleteInterviewResponse, error) {
	return &dto.CompleteInterviewResponse{
		Interview:  &model.Interview{ID: interviewID, Status: model.InterviewStatusCompleted},
		Evaluation: &model.InterviewEvaluation{OverallScore: 8},
	}, nil
}

func (s *stubInterviewService) Get(interviewID string) (*model.Interview, error) {
	if interviewID == "missing" {
		return nil, service.ErrInterviewNotFound
	}
	return &model.Interview{ID: interviewID}, nil
}

type stubTranscriber struct {
	service.LLMService
	text string
}

func (s *stubTranscriber) Transcribe(ctx context.Context, audio []byte, filename string) string {
	return s.text
}

func newTestRouter(svc service.InterviewService, llm service.LLMService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ctrl := NewInterviewController(svc, llm)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/interviews/start", ctrl.StartInterview)
	api.GET("/interviews/:id", ctrl.GetInterview)
	api.POST("/interviews/:id/introduction", ctrl.SubmitIntroduction)
	api.POST("/interviews/:id/answer", ctrl.SubmitAnswer)
	api.POST("/interviews/:id/complete", ctrl.CompleteInterview)
	api.POST("/transcribe", ctrl.Transcribe)
	return r
}

func performJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStartInterviewEndpoint(t *testing.T) {
	r := newTestRouter(&stubInterviewService{}, &stubTranscriber{})

	w := performJSON(r, http.MethodPost, "/api/interviews/start", `{"candidateName":"Alice"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.StartInterviewResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "interview-1", resp.Interview.ID)
	assert.Equal(t, "Hello", resp.Introduction.Greeting)

	// An empty body is fine; candidate details are optional.
	w = performJSON(r, http.MethodPost, "/api/interviews/start", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSubmitAnswerValidation(t *testing.T) {
	svc := &stubInterviewService{}
	r := newTestRouter(svc, &stubTranscriber{})

	// Missing required fields fail binding before the service is reached.
	w := performJSON(r, http.MethodPost, "/api/interviews/abc/answer", `{"answer":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performJSON(r, http.MethodPost, "/api/interviews/abc/answer", `{"questionId":"q-1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performJSON(r, http.MethodPost, "/api/interviews/abc/answer", `{"questionId":"q-1","answer":"VLOOKUP searches vertically"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "q-1", svc.lastAnswer.QuestionID)
}

func TestSubmitAnswerErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{service.ErrInterviewNotFound, http.StatusNotFound},
		{service.ErrInterviewNotActive, http.StatusBadRequest},
		{service.ErrQuestionNotFound, http.StatusBadRequest},
		{service.ErrEmptyAnswer, http.StatusBadRequest},
	}
	for _, tc := range cases {
		r := newTestRouter(&stubInterviewService{submitAnswerErr: tc.err}, &stubTranscriber{})
		w := performJSON(r, http.MethodPost, "/api/interviews/abc/answer", `{"questionId":"q-1","answer":"something"}`)
		assert.Equal(t, tc.status, w.Code, "error %v", tc.err)
	}
}

func TestSubmitIntroductionRequiresText(t *testing.T) {
	r := newTestRouter(&stubInterviewService{}, &stubTranscriber{})

	w := performJSON(r, http.MethodPost, "/api/interviews/abc/introduction", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performJSON(r, http.MethodPost, "/api/interviews/abc/introduction", `{"introduction":"Hi there"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetInterviewNotFound(t *testing.T) {
	r := newTestRouter(&stubInterviewService{}, &stubTranscriber{})

	w := performJSON(r, http.MethodGet, "/api/interviews/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func multipartAudioRequest(t *testing.T, field, filename string, payload []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestTranscribeEndpoint(t *testing.T) {
	r := newTestRouter(&stubInterviewService{}, &stubTranscriber{text: "hello world"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartAudioRequest(t, "audio", "answer.webm", []byte("fake-audio")))
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.TranscriptionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "hello world", resp.Text)
}

func TestTranscribeRequiresAudioFile(t *testing.T) {
	r := newTestRouter(&stubInterviewService{}, &stubTranscriber{})

	// Wrong form field name.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartAudioRequest(t, "file", "answer.webm", []byte("fake-audio")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// No multipart body at all.
	w = performJSON(r, http.MethodPost, "/api/transcribe", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTranscribeEmptyResultIsNotAnError(t *testing.T) {
	// Provider failures surface as an empty transcription with HTTP 200.
	r := newTestRouter(&stubInterviewService{}, &stubTranscriber{text: ""})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartAudioRequest(t, "audio", "answer.webm", []byte("fake-audio")))
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.TranscriptionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "", resp.Text)
}
