package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/povarna/generative-ai-agents/synereval/internal/models"
	"github.com/povarna/generative-ai-agents/synereval/internal/scorer"
	"github.com/povarna/generative-ai-agents/synereval/internal/scorer/mocks"
	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func testRubric() models.RubricSpec {
	return models.RubricSpec{
		Criteria:          "Correctness",
		Score1Description: "wrong",
		Score2Description: "mostly wrong",
		Score3Description: "partial",
		Score4Description: "mostly right",
		Score5Description: "right",
	}
}

func testGrade(score int) models.StructuredGrade {
	criteria := map[string]models.CriterionScore{}
	for _, name := range models.StructuredCriteria {
		criteria[name] = models.CriterionScore{Score: score, Explanation: "x"}
	}
	return models.StructuredGrade{Criteria: criteria, FinalScore: score}
}

func TestDocumentExecutor_Execute_PreservesOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSim := mocks.NewMockSimilarityScorer(ctrl)
	mockJudge := mocks.NewMockAbsoluteGrader(ctrl)
	mockStructured := mocks.NewMockStructuredGrader(ctrl)

	candidates := []string{"c0", "c1", "c2", "c3", "c4"}
	references := []string{"r0", "r1", "r2", "r3", "r4"}

	mockSim.EXPECT().Score(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c []string, r []string) scorer.Result[models.SimilarityScore] {
			if len(c) != 1 || len(r) != 1 {
				t.Errorf("expected batch size one, got %d/%d", len(c), len(r))
			}
			return scorer.Success(models.SimilarityScore{Precision: 0.5, Recall: 0.5, F1: 0.5})
		}).Times(5)
	mockJudge.EXPECT().Grade(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u models.EvaluationUnit) scorer.Result[models.AbsoluteGrade] {
			return scorer.Success(models.AbsoluteGrade{Feedback: "fb " + u.Candidate, Score: 4})
		}).Times(5)
	mockStructured.EXPECT().Grade(gomock.Any(), "instr", gomock.Any(), gomock.Any()).
		Return(scorer.Success(testGrade(7))).Times(5)

	exec := NewDocumentExecutor(mockSim, mockJudge, mockStructured, 2, newTestLogger())
	results, err := exec.Execute(context.Background(), "instr", candidates, references, testRubric())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != len(candidates) {
		t.Fatalf("expected %d results, got %d", len(candidates), len(results))
	}
	for i, r := range results {
		if r.Candidate != candidates[i] {
			t.Errorf("result %d: expected candidate %s, got %s", i, candidates[i], r.Candidate)
		}
		if r.AbsoluteGrade.Feedback != "fb "+candidates[i] {
			t.Errorf("result %d: feedback from another pair: %s", i, r.AbsoluteGrade.Feedback)
		}
		if r.StructuredGrade == nil || r.StructuredGrade.FinalScore != 7 {
			t.Errorf("result %d: expected structured grade 7, got %+v", i, r.StructuredGrade)
		}
		if len(r.Failures) != 0 {
			t.Errorf("result %d: expected no failures, got %+v", i, r.Failures)
		}
	}
}

func TestDocumentExecutor_Execute_EmptyInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	exec := NewDocumentExecutor(
		mocks.NewMockSimilarityScorer(ctrl),
		mocks.NewMockAbsoluteGrader(ctrl),
		mocks.NewMockStructuredGrader(ctrl),
		4, newTestLogger(),
	)

	results, err := exec.Execute(context.Background(), "instr", []string{}, []string{}, testRubric())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}
}

func TestDocumentExecutor_Execute_MalformedInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	exec := NewDocumentExecutor(
		mocks.NewMockSimilarityScorer(ctrl),
		mocks.NewMockAbsoluteGrader(ctrl),
		mocks.NewMockStructuredGrader(ctrl),
		4, newTestLogger(),
	)

	_, err := exec.Execute(context.Background(), "instr", []string{"a", "b"}, []string{"a"}, testRubric())
	if !errors.Is(err, models.ErrMalformedRequest) {
		t.Errorf("expected ErrMalformedRequest, got %v", err)
	}

	rubric := testRubric()
	rubric.Criteria = ""
	_, err = exec.Execute(context.Background(), "instr", []string{"a"}, []string{"a"}, rubric)
	if !errors.Is(err, models.ErrInvalidRubric) {
		t.Errorf("expected ErrInvalidRubric, got %v", err)
	}
}

func TestDocumentExecutor_Execute_ScorerFailuresBecomeSentinels(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSim := mocks.NewMockSimilarityScorer(ctrl)
	mockJudge := mocks.NewMockAbsoluteGrader(ctrl)
	mockStructured := mocks.NewMockStructuredGrader(ctrl)

	mockSim.EXPECT().Score(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(scorer.Failure[models.SimilarityScore]("bertscore", scorer.KindUnavailable, errors.New("embedder down")))
	mockJudge.EXPECT().Grade(gomock.Any(), gomock.Any()).
		Return(scorer.Failure[models.AbsoluteGrade]("rubric-judge", scorer.KindOutOfRange, errors.New("score 9")))
	mockStructured.EXPECT().Grade(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(scorer.Failure[models.StructuredGrade]("structured-grader", scorer.KindMalformedResponse, errors.New("bad json")))

	exec := NewDocumentExecutor(mockSim, mockJudge, mockStructured, 1, newTestLogger())
	results, err := exec.Execute(context.Background(), "instr", []string{"c"}, []string{"r"}, testRubric())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := results[0]
	if r.Similarity != (models.SimilarityScore{}) {
		t.Errorf("expected zero similarity, got %+v", r.Similarity)
	}
	if r.AbsoluteGrade.Feedback != "error" || r.AbsoluteGrade.Score != 0 {
		t.Errorf("expected sentinel absolute grade, got %+v", r.AbsoluteGrade)
	}
	if r.StructuredGrade != nil {
		t.Errorf("expected nil structured grade, got %+v", r.StructuredGrade)
	}
	if len(r.Failures) != 3 {
		t.Fatalf("expected 3 failures, got %+v", r.Failures)
	}
	if r.Failures[1].Kind != string(scorer.KindOutOfRange) {
		t.Errorf("expected out_of_range judge failure, got %+v", r.Failures[1])
	}
}

func TestDocumentExecutor_Execute_StructuredNilOtherScoresKept(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSim := mocks.NewMockSimilarityScorer(ctrl)
	mockJudge := mocks.NewMockAbsoluteGrader(ctrl)
	mockStructured := mocks.NewMockStructuredGrader(ctrl)

	mockSim.EXPECT().Score(gomock.Any(), []string{"c"}, []string{"r"}).
		Return(scorer.Success(models.SimilarityScore{Precision: 1, Recall: 1, F1: 1}))
	mockJudge.EXPECT().Grade(gomock.Any(), gomock.Any()).
		Return(scorer.Success(models.AbsoluteGrade{Feedback: "great", Score: 5}))
	mockStructured.EXPECT().Grade(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(scorer.Failure[models.StructuredGrade]("structured-grader", scorer.KindUnavailable, errors.New("disabled")))

	exec := NewDocumentExecutor(mockSim, mockJudge, mockStructured, 1, newTestLogger())
	results, err := exec.Execute(context.Background(), "instr", []string{"c"}, []string{"r"}, testRubric())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := results[0]
	if r.StructuredGrade != nil {
		t.Error("expected nil structured grade")
	}
	if r.Similarity.F1 != 1 || r.AbsoluteGrade.Score != 5 {
		t.Errorf("expected other scores kept, got %+v %+v", r.Similarity, r.AbsoluteGrade)
	}
	if len(r.Failures) != 1 || r.Failures[0].Scorer != "structured-grader" {
		t.Errorf("unexpected failures %+v", r.Failures)
	}
}
