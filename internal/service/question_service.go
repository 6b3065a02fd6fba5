package service

import (
	"fmt"

	"github.com/lshigami/Meerkats/internal/model"
	"github.com/lshigami/Meerkats/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// QuestionService manages the static question bank.
type QuestionService interface {
	SeedDefaultQuestions() ([]model.Question, error)
}

type questionService struct {
	questionRepo repository.QuestionRepository
}

func NewQuestionService(questionRepo repository.QuestionRepository) QuestionService {
	return &questionService{questionRepo: questionRepo}
}

// SeedDefaultQuestions inserts the development sample questions. Intended
// for fresh environments; existing rows are left alone.
func (s *questionService) SeedDefaultQuestions() ([]model.Question, error) {
	samples := []model.Question{
		{
			Question:       "Can you explain the difference between VLOOKUP and HLOOKUP functions in Excel? When would you use each one?",
			Category:       "lookup_functions",
			Difficulty:     model.DifficultyBeginner,
			ExpectedAnswer: "VLOOKUP searches vertically, HLOOKUP searches horizontally",
			Keywords:       datatypes.NewJSONType([]string{"vlookup", "hlookup", "vertical", "horizontal", "lookup"}),
			MaxScore:       10,
			IsActive:       true,
		},
		{
			Question:       "How do you create a pivot table in Excel and what are its main benefits?",
			Category:       "pivot_tables",
			Difficulty:     model.DifficultyIntermediate,
			ExpectedAnswer: "Insert > PivotTable, drag fields to analyze data quickly",
			Keywords:       datatypes.NewJSONType([]string{"pivot", "table", "summarize", "data", "analysis"}),
			MaxScore:       10,
			IsActive:       true,
		},
		{
			Question:       "Explain what a VBA macro is and provide a simple example of when you might use one.",
			Category:       "macros",
			Difficulty:     model.DifficultyAdvanced,
			ExpectedAnswer: "VBA macro automates repetitive tasks using programming",
			Keywords:       datatypes.NewJSONType([]string{"vba", "macro", "automation", "programming", "subroutine"}),
			MaxScore:       10,
			IsActive:       true,
		},
		{
			Question:       "What is data validation in Excel and how would you set up a dropdown list?",
			Category:       "data_validation",
			Difficulty:     model.DifficultyIntermediate,
			ExpectedAnswer: "Data validation restricts input, dropdown created via Data menu",
			Keywords:       datatypes.NewJSONType([]string{"validation", "dropdown", "list", "restrict", "input"}),
			MaxScore:       10,
			IsActive:       true,
		},
		{
			Question:       "How would you use INDEX and MATCH functions together as an alternative to VLOOKUP?",
			Category:       "formulas",
			Difficulty:     model.DifficultyAdvanced,
			ExpectedAnswer: "INDEX returns value at position, MATCH finds position, more flexible than VLOOKUP",
			Keywords:       datatypes.NewJSONType([]string{"index", "match", "lookup", "flexible", "position"}),
			MaxScore:       10,
			IsActive:       true,
		},
	}

	created := make([]model.Question, 0, len(samples))
	for i := range samples {
		if err := s.questionRepo.Create(&samples[i]); err != nil {
			log.Error().Err(err).Str("category", samples[i].Category).Msg("Failed to seed question")
			return created, fmt.Errorf("failed to seed question bank: %w", err)
		}
		created = append(created, samples[i])
	}
	log.Info().Int("count", len(created)).Msg("Question bank seeded")
	return created, nil
}
