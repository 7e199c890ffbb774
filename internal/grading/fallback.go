package grading

import (
	"context"

	"github.com/dhabedank/activity-parser/internal/logger"
)

// FallbackGrader uses Primary and switches to Fallback when Primary fails.
type FallbackGrader struct {
	Primary  Grader
	Fallback Grader
	Logger   logger.Logger
}

// Grade implements Grader.
func (f FallbackGrader) Grade(ctx context.Context, in Input) (Grades, error) {
	if f.Primary != nil {
		g, err := f.Primary.Grade(ctx, in)
		if err == nil {
			return g, nil
		}
		if f.Logger != nil {
			f.Logger.Warn("Primary grader failed, using fallback", logger.Error(err))
		}
	}
	return f.Fallback.Grade(ctx, in)
}

// New returns the grader used by the CLI and server: the model when one is
// available, keywords otherwise.
func New(primary Grader, log logger.Logger) Grader {
	if primary == nil {
		return KeywordGrader{}
	}
	return FallbackGrader{Primary: primary, Fallback: KeywordGrader{}, Logger: log}
}
