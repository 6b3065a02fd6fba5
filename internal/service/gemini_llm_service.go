package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"github.com/lshigami/Meerkats/config"
	"github.com/lshigami/Meerkats/internal/model"
	"github.com/lshigami/Meerkats/internal/repository"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// NeutralFallbackScore is the single score substituted whenever answer
// evaluation fails. Every failure path uses this one value.
const NeutralFallbackScore = 5.0

const defaultMaxScore = 10.0

// KnownCategories is the Excel skill taxonomy used for question generation
// and coverage tracking.
var KnownCategories = []string{
	"formulas",
	"pivot_tables",
	"lookup_functions",
	"macros",
	"data_validation",
	"charts",
	"data_analysis",
}

// AnswerEvaluation is the LLM's judgment of a single answer. All numeric
// fields are clamped to [0,10] before this struct is returned.
type AnswerEvaluation struct {
	Score    float64
	Feedback string
	Details  model.ResponseEvaluation
	Metrics  model.ResponseMetrics
}

// ClosingFeedback is the narrative summary generated at interview completion.
type ClosingFeedback struct {
	Strengths       []string
	Improvements    []string
	OverallFeedback string
}

// LLMService is the sole boundary to the LLM provider. Every call is a
// single round trip with no retry; provider failures are recovered locally
// with a fallback so callers never see an error from this interface.
type LLMService interface {
	GenerateIntroduction(ctx context.Context) (greeting string, introductionRequest string)
	Evaluate(ctx context.Context, question model.InterviewQuestion, answer string, priorResponses []model.InterviewResponse) AnswerEvaluation
	GenerateNextQuestion(ctx context.Context, qc QuestionContext) model.InterviewQuestion
	GenerateClosingFeedback(ctx context.Context, responses []model.InterviewResponse) ClosingFeedback
	Transcribe(ctx context.Context, audio []byte, filename string) string
}

type geminiLLMService struct {
	jsonModel    *genai.GenerativeModel // structured outputs (evaluate, generate, feedback)
	audioModel   *genai.GenerativeModel // plain text transcription
	questionRepo repository.QuestionRepository
	cfg          *config.Config
}

func NewGeminiLLMService(cfg *config.Config, questionRepo repository.QuestionRepository) (LLMService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. LLM calls will use local fallbacks.")
		return &geminiLLMService{cfg: cfg, questionRepo: questionRepo}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	jsonModel := client.GenerativeModel("gemini-1.5-flash")
	jsonModel.GenerationConfig.ResponseMIMEType = "application/json"
	jsonModel.SetTemperature(0.3)

	audioModel := client.GenerativeModel("gemini-1.5-flash")
	audioModel.SetTemperature(0.2)

	return &geminiLLMService{
		jsonModel:    jsonModel,
		audioModel:   audioModel,
		questionRepo: questionRepo,
		cfg:          cfg,
	}, nil
}

// GenerateIntroduction asks the model for an opening message. Generation
// failure is never fatal to interview creation; a canned greeting is used.
func (s *geminiLLMService) GenerateIntroduction(ctx context.Context) (string, string) {
	fallbackGreeting := "Hello! Welcome to your Excel skills interview. I'm your AI interviewer today."
	fallbackRequest := "Before we begin, please tell me a little about yourself and your experience with Excel."

	if s.jsonModel == nil {
		return fallbackGreeting, fallbackRequest
	}

	prompt := `You are a friendly AI interviewer conducting an Excel skills assessment.
Generate an opening message for a new candidate.

Respond with a JSON object containing:
- "greeting": a short, warm welcome (1-2 sentences)
- "introductionRequest": one sentence asking the candidate to introduce themselves and describe their Excel experience`

	raw, err := s.generateText(ctx, s.jsonModel, prompt)
	if err != nil {
		log.Warn().Err(err).Msg("Introduction generation failed, using canned greeting")
		return fallbackGreeting, fallbackRequest
	}

	var parsed struct {
		Greeting            string `json:"greeting"`
		IntroductionRequest string `json:"introductionRequest"`
	}
	if err := json.Unmarshal([]byte(stripJSONFences(raw)), &parsed); err != nil || parsed.Greeting == "" {
		log.Warn().Err(err).Str("raw", raw).Msg("Could not parse generated introduction")
		return fallbackGreeting, fallbackRequest
	}
	if parsed.IntroductionRequest == "" {
		parsed.IntroductionRequest = fallbackRequest
	}
	return parsed.Greeting, parsed.IntroductionRequest
}

// Evaluate scores one answer against its question. Prior responses give the
// model short-range context (last two answers, truncated). On any provider
// or parse failure the neutral fallback evaluation is returned.
func (s *geminiLLMService) Evaluate(ctx context.Context, question model.InterviewQuestion, answer string, priorResponses []model.InterviewResponse) AnswerEvaluation {
	if s.jsonModel == nil {
		return neutralEvaluation()
	}

	var b strings.Builder
	b.WriteString("You are an expert Excel interviewer evaluating a candidate's answer.\n\n")
	b.WriteString(fmt.Sprintf("Question: %s\n", question.Question))
	b.WriteString(fmt.Sprintf("Category: %s\n", question.Category))
	b.WriteString(fmt.Sprintf("Difficulty: %s\n", question.Difficulty))
	if question.ExpectedAnswer != "" {
		b.WriteString(fmt.Sprintf("Expected answer outline: %s\n", question.ExpectedAnswer))
	}
	if len(question.Keywords) > 0 {
		b.WriteString(fmt.Sprintf("Expected key terms: %s\n", strings.Join(question.Keywords, ", ")))
	}
	if prior := priorAnswerContext(priorResponses); prior != "" {
		b.WriteString("\nEarlier in the interview the candidate answered:\n")
		b.WriteString(prior)
	}
	b.WriteString(fmt.Sprintf("\nCandidate's answer:\n%s\n\n", answer))
	b.WriteString(`Respond with a JSON object:
{
  "score": <overall score 0-10>,
  "feedback": "<2-3 sentences of constructive feedback>",
  "details": {"correctness": <0-10>, "clarity": <0-10>, "completeness": <0-10>},
  "metrics": {"technicalAccuracy": <0-10>, "practicalApplication": <0-10>, "communicationClarity": <0-10>, "problemSolvingApproach": <0-10>}
}
Consider technical accuracy, clarity of explanation, completeness, and practical understanding.`)

	raw, err := s.generateText(ctx, s.jsonModel, b.String())
	if err != nil {
		log.Error().Err(err).Str("category", question.Category).Msg("Gemini evaluation failed, substituting neutral score")
		return neutralEvaluation()
	}

	var parsed struct {
		Score    float64 `json:"score"`
		Feedback string  `json:"feedback"`
		Details  struct {
			Correctness  float64 `json:"correctness"`
			Clarity      float64 `json:"clarity"`
			Completeness float64 `json:"completeness"`
		} `json:"details"`
		Metrics struct {
			TechnicalAccuracy      float64 `json:"technicalAccuracy"`
			PracticalApplication   float64 `json:"practicalApplication"`
			CommunicationClarity   float64 `json:"communicationClarity"`
			ProblemSolvingApproach float64 `json:"problemSolvingApproach"`
		} `json:"metrics"`
	}
	if err := json.Unmarshal([]byte(stripJSONFences(raw)), &parsed); err != nil {
		log.Warn().Err(err).Str("raw", raw).Msg("Could not parse evaluation JSON, substituting neutral score")
		return neutralEvaluation()
	}

	feedback := parsed.Feedback
	if feedback == "" {
		feedback = "Answer evaluated."
	}
	return AnswerEvaluation{
		Score:    clampScore(parsed.Score),
		Feedback: feedback,
		Details: model.ResponseEvaluation{
			Correctness:  clampScore(parsed.Details.Correctness),
			Clarity:      clampScore(parsed.Details.Clarity),
			Completeness: clampScore(parsed.Details.Completeness),
		},
		Metrics: model.ResponseMetrics{
			TechnicalAccuracy:      clampScore(parsed.Metrics.TechnicalAccuracy),
			PracticalApplication:   clampScore(parsed.Metrics.PracticalApplication),
			CommunicationClarity:   clampScore(parsed.Metrics.CommunicationClarity),
			ProblemSolvingApproach: clampScore(parsed.Metrics.ProblemSolvingApproach),
		},
	}
}

// GenerateNextQuestion produces the next adaptive question from the prompt
// context. Falls back to a random bank question in an uncovered category,
// and to one hardcoded question when the bank is empty.
func (s *geminiLLMService) GenerateNextQuestion(ctx context.Context, qc QuestionContext) model.InterviewQuestion {
	if s.jsonModel != nil {
		if q, ok := s.generateAdaptiveQuestion(ctx, qc); ok {
			return q
		}
	}
	return s.fallbackQuestion(qc)
}

func (s *geminiLLMService) generateAdaptiveQuestion(ctx context.Context, qc QuestionContext) (model.InterviewQuestion, bool) {
	var b strings.Builder
	b.WriteString("You are an expert Excel interviewer generating the next interview question.\n\n")
	b.WriteString(fmt.Sprintf("This will be question #%d.\n", qc.QuestionNumber))
	if qc.Introduction != "" {
		b.WriteString(fmt.Sprintf("The candidate introduced themselves as: %s\n", truncate(qc.Introduction, 300)))
	}
	if qc.QuestionNumber > 1 {
		b.WriteString(fmt.Sprintf("Average score so far: %.1f/10 - calibrate difficulty accordingly.\n", qc.AverageScore))
	}
	if len(qc.CoveredCategories) > 0 {
		b.WriteString(fmt.Sprintf("Categories already covered: %s. Prefer categories not yet covered.\n", strings.Join(qc.CoveredCategories, ", ")))
	}
	if len(qc.WeakCategories) > 0 {
		b.WriteString(fmt.Sprintf("The candidate is struggling (average below 6.0) in: %s. Reinforce these.\n", strings.Join(qc.WeakCategories, ", ")))
	}
	if len(qc.StrongCategories) > 0 {
		b.WriteString(fmt.Sprintf("The candidate is strong (average above 7.5) in: %s. Probing deeper here is also valuable.\n", strings.Join(qc.StrongCategories, ", ")))
	}
	b.WriteString(fmt.Sprintf("\nAllowed categories: %s\n", strings.Join(KnownCategories, ", ")))
	b.WriteString(`Allowed difficulties: beginner, intermediate, advanced

Respond with a JSON object:
{"question": "<the question text>", "category": "<one allowed category>", "difficulty": "<one allowed difficulty>"}`)

	raw, err := s.generateText(ctx, s.jsonModel, b.String())
	if err != nil {
		log.Warn().Err(err).Msg("Adaptive question generation failed, falling back to question bank")
		return model.InterviewQuestion{}, false
	}

	var parsed struct {
		Question   string `json:"question"`
		Category   string `json:"category"`
		Difficulty string `json:"difficulty"`
	}
	if err := json.Unmarshal([]byte(stripJSONFences(raw)), &parsed); err != nil || parsed.Question == "" {
		log.Warn().Err(err).Str("raw", raw).Msg("Could not parse generated question, falling back to question bank")
		return model.InterviewQuestion{}, false
	}

	return model.InterviewQuestion{
		ID:         uuid.NewString(),
		Question:   parsed.Question,
		Category:   normalizeCategory(parsed.Category),
		Difficulty: normalizeDifficulty(parsed.Difficulty),
		MaxScore:   defaultMaxScore,
	}, true
}

func (s *geminiLLMService) fallbackQuestion(qc QuestionContext) model.InterviewQuestion {
	if s.questionRepo != nil {
		questions, err := s.questionRepo.FindRandomExcludingCategories(qc.CoveredCategories, 1)
		if err != nil {
			log.Error().Err(err).Msg("Question bank lookup failed during fallback")
		} else if len(questions) == 0 {
			// Every category covered already; any active question will do.
			questions, err = s.questionRepo.FindRandomActive(1)
			if err != nil {
				log.Error().Err(err).Msg("Question bank lookup failed during fallback")
			}
		}
		if len(questions) > 0 {
			q := questions[rand.Intn(len(questions))]
			return model.InterviewQuestion{
				ID:             q.ID,
				Question:       q.Question,
				Category:       q.Category,
				Difficulty:     q.Difficulty,
				ExpectedAnswer: q.ExpectedAnswer,
				Keywords:       q.Keywords.Data(),
				MaxScore:       q.MaxScore,
			}
		}
	}
	return hardcodedFallbackQuestion()
}

func hardcodedFallbackQuestion() model.InterviewQuestion {
	return model.InterviewQuestion{
		ID:         uuid.NewString(),
		Question:   "Can you explain the difference between VLOOKUP and HLOOKUP functions in Excel? When would you use each one?",
		Category:   "lookup_functions",
		Difficulty: model.DifficultyBeginner,
		MaxScore:   defaultMaxScore,
	}
}

// GenerateClosingFeedback synthesizes the end-of-interview narrative. The
// statistical fallback never blocks completion.
func (s *geminiLLMService) GenerateClosingFeedback(ctx context.Context, responses []model.InterviewResponse) ClosingFeedback {
	if s.jsonModel == nil {
		return statisticalFallbackFeedback(responses)
	}

	var b strings.Builder
	b.WriteString("Based on the Excel interview responses below, provide comprehensive feedback.\n\n")
	for i, r := range responses {
		b.WriteString(fmt.Sprintf("Q%d (%s, %s): score %.1f/10 - %s\n", i+1, r.Category, r.Difficulty, r.Score, truncate(r.Answer, 100)))
	}
	b.WriteString(`
Respond with a JSON object:
{"strengths": ["<3-4 specific strengths>"], "improvements": ["<2-3 areas for improvement>"], "overallFeedback": "<2-3 sentence summary>"}`)

	raw, err := s.generateText(ctx, s.jsonModel, b.String())
	if err != nil {
		log.Warn().Err(err).Msg("Closing feedback generation failed, using statistical fallback")
		return statisticalFallbackFeedback(responses)
	}

	var parsed struct {
		Strengths       []string `json:"strengths"`
		Improvements    []string `json:"improvements"`
		OverallFeedback string   `json:"overallFeedback"`
	}
	if err := json.Unmarshal([]byte(stripJSONFences(raw)), &parsed); err != nil || len(parsed.Strengths) == 0 {
		log.Warn().Err(err).Str("raw", raw).Msg("Could not parse closing feedback")
		return statisticalFallbackFeedback(responses)
	}
	if len(parsed.Improvements) == 0 {
		parsed.Improvements = []string{"Continue practicing Excel skills"}
	}
	if parsed.OverallFeedback == "" {
		parsed.OverallFeedback = "Thank you for completing the interview."
	}
	return ClosingFeedback{
		Strengths:       parsed.Strengths,
		Improvements:    parsed.Improvements,
		OverallFeedback: parsed.OverallFeedback,
	}
}

// statisticalFallbackFeedback derives a templated summary from the local
// average score: optimistic tone at 6.0 and above, cautionary below.
func statisticalFallbackFeedback(responses []model.InterviewResponse) ClosingFeedback {
	avg := averageScore(responses)
	if avg >= 6.0 {
		return ClosingFeedback{
			Strengths:       []string{"Solid overall Excel knowledge", "Provided thoughtful responses", "Completed the full interview"},
			Improvements:    []string{"Keep deepening advanced topics"},
			OverallFeedback: fmt.Sprintf("You answered %d questions with an average score of %.1f/10. A solid performance overall.", len(responses), avg),
		}
	}
	return ClosingFeedback{
		Strengths:       []string{"Participated in the interview", "Provided responses to every question asked"},
		Improvements:    []string{"Review core Excel concepts", "Practice with hands-on exercises"},
		OverallFeedback: fmt.Sprintf("You answered %d questions with an average score of %.1f/10. Keep practicing to strengthen the fundamentals.", len(responses), avg),
	}
}

// Transcribe converts candidate audio into text. A provider error yields the
// empty string, which the client treats as "no speech detected".
func (s *geminiLLMService) Transcribe(ctx context.Context, audio []byte, filename string) string {
	if s.audioModel == nil {
		log.Warn().Msg("Transcription requested but Gemini client is not configured")
		return ""
	}

	parts := []genai.Part{
		genai.Blob{MIMEType: audioMIMEType(filename), Data: audio},
		genai.Text("This is an Excel interview session. Transcribe the candidate's spoken answer verbatim. Respond with the transcription text only, in English."),
	}

	resp, err := s.audioModel.GenerateContent(ctx, parts...)
	if err != nil {
		log.Error().Err(err).Str("filename", filename).Msg("Gemini transcription failed")
		return ""
	}
	return strings.TrimSpace(responseText(resp))
}

func (s *geminiLLMService) generateText(ctx context.Context, m *genai.GenerativeModel, prompt string) (string, error) {
	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("gemini returned no text content")
	}
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			out.WriteString(string(txt))
		}
	}
	return out.String()
}

// audioMIMEType infers the upload content type from the filename extension.
// Unknown extensions default to webm, matching the browser recorder output.
func audioMIMEType(filename string) string {
	switch strings.ToLower(ext(filename)) {
	case "wav":
		return "audio/wav"
	case "mp4", "m4a":
		return "audio/mp4"
	case "mp3":
		return "audio/mpeg"
	case "ogg":
		return "audio/ogg"
	default:
		return "audio/webm"
	}
}

func ext(filename string) string {
	if i := strings.LastIndex(filename, "."); i >= 0 {
		return filename[i+1:]
	}
	return ""
}

func neutralEvaluation() AnswerEvaluation {
	return AnswerEvaluation{
		Score:    NeutralFallbackScore,
		Feedback: "Unable to evaluate answer at this time. Please continue with the interview.",
		Details: model.ResponseEvaluation{
			Correctness:  NeutralFallbackScore,
			Clarity:      NeutralFallbackScore,
			Completeness: NeutralFallbackScore,
		},
		Metrics: model.ResponseMetrics{
			TechnicalAccuracy:      NeutralFallbackScore,
			PracticalApplication:   NeutralFallbackScore,
			CommunicationClarity:   NeutralFallbackScore,
			ProblemSolvingApproach: NeutralFallbackScore,
		},
	}
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

// priorAnswerContext summarizes the last two answers, truncated, for the
// evaluation prompt.
func priorAnswerContext(responses []model.InterviewResponse) string {
	if len(responses) == 0 {
		return ""
	}
	start := len(responses) - 2
	if start < 0 {
		start = 0
	}
	var b strings.Builder
	for _, r := range responses[start:] {
		b.WriteString(fmt.Sprintf("- (%s, scored %.1f/10) %s\n", r.Category, r.Score, truncate(r.Answer, 200)))
	}
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func normalizeCategory(category string) string {
	c := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(category, " ", "_")))
	for _, known := range KnownCategories {
		if c == known {
			return c
		}
	}
	return "formulas"
}

func normalizeDifficulty(difficulty string) string {
	switch strings.ToLower(strings.TrimSpace(difficulty)) {
	case model.DifficultyBeginner, model.DifficultyIntermediate, model.DifficultyAdvanced:
		return strings.ToLower(strings.TrimSpace(difficulty))
	default:
		return model.DifficultyIntermediate
	}
}

// stripJSONFences removes markdown code fences some models wrap around JSON.
func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
