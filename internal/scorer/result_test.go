package scorer

import (
	"errors"
	"testing"

	"github.com/povarna/generative-ai-agents/synereval/internal/models"
)

func TestResult_ValueOr(t *testing.T) {
	ok := Success(models.AbsoluteGrade{Feedback: "fine", Score: 4})
	if !ok.OK() {
		t.Fatal("expected success result")
	}
	if got := ok.ValueOr(AbsoluteSentinel); got.Score != 4 {
		t.Errorf("expected score 4, got %f", got.Score)
	}

	failed := Failure[models.AbsoluteGrade]("rubric-judge", KindUnavailable, errors.New("connection refused"))
	if failed.OK() {
		t.Fatal("expected failed result")
	}
	got := failed.ValueOr(AbsoluteSentinel)
	if got.Feedback != "error" || got.Score != 0.0 {
		t.Errorf("expected sentinel grade, got %+v", got)
	}
}

func TestError_Failure(t *testing.T) {
	cause := errors.New("score 7 outside [1, 5]")
	res := Failure[models.AbsoluteGrade]("rubric-judge", KindOutOfRange, cause)

	if !errors.Is(res.Err, cause) {
		t.Error("expected error to unwrap to its cause")
	}

	f := res.Err.Failure()
	if f.Scorer != "rubric-judge" || f.Kind != "out_of_range" || f.Message != cause.Error() {
		t.Errorf("unexpected failure record: %+v", f)
	}
}

func TestCollect(t *testing.T) {
	var failures []models.ScorerFailure

	value, failures := Collect(Success(models.AbsoluteGrade{Feedback: "ok", Score: 4}), AbsoluteSentinel, failures)
	if value.Score != 4 || len(failures) != 0 {
		t.Errorf("Expected value kept and no failures, got %+v %v", value, failures)
	}

	value, failures = Collect(Failure[models.AbsoluteGrade]("rubric-judge", KindOutOfRange, errors.New("score 9")), AbsoluteSentinel, failures)
	if value != AbsoluteSentinel {
		t.Errorf("Expected sentinel, got %+v", value)
	}
	if len(failures) != 1 || failures[0].Kind != "out_of_range" || failures[0].Scorer != "rubric-judge" {
		t.Errorf("Unexpected failures %+v", failures)
	}
}
