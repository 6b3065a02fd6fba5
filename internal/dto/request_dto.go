package dto

// StartInterviewRequest carries optional candidate details; anonymous
// interviews are allowed.
type StartInterviewRequest struct {
	CandidateName  string `json:"candidateName"`
	CandidateEmail string `json:"candidateEmail"`
	Position       string `json:"position"`
	Department     string `json:"department"`
	UserID         string `json:"userId"`
}

type SubmitIntroductionRequest struct {
	Introduction string `json:"introduction" binding:"required"`
}

// CurrentQuestionDTO is the client's snapshot of the question being answered.
// Adaptive questions are not in the bank, so the client echoes the question
// it was shown.
type CurrentQuestionDTO struct {
	ID         string  `json:"id"`
	Question   string  `json:"question"`
	Category   string  `json:"category"`
	Difficulty string  `json:"difficulty"`
	MaxScore   float64 `json:"maxScore"`
}

type SubmitAnswerRequest struct {
	QuestionID      string              `json:"questionId" binding:"required"`
	Answer          string              `json:"answer" binding:"required"`
	IsVoiceAnswer   bool                `json:"isVoiceAnswer"`
	CurrentQuestion *CurrentQuestionDTO `json:"currentQuestion"`
}

type RecommendationRequest struct {
	Recommendation string `json:"recommendation" binding:"required,oneof=hire reject review"`
	Notes          string `json:"notes"`
	HRUserID       string `json:"hrUserId"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=6"`
	Email    string `json:"email" binding:"omitempty,email"`
	Role     string `json:"role" binding:"omitempty,oneof=candidate hr admin"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
