package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	questionDetailKeyFormat  = "question:%d:detail:v%d"
	questionDetailVersionKey = "questions:detail_version"
	questionListKeyFormat    = "questions:v%d:page:%d"
	questionListVersionKey   = "questions:list_version"
)

const (
	// DetailTTL bounds how stale an anonymous question page can be.
	DetailTTL = 5 * time.Minute
	// ListTTL bounds how stale a cached list page can be.
	ListTTL = 2 * time.Minute
)

// QuestionDetailKey is the key of the anonymous detail view of a question
// under the current detail version.
func QuestionDetailKey(ctx context.Context, questionID uint) string {
	return fmt.Sprintf(questionDetailKeyFormat, questionID, version(ctx, questionDetailVersionKey))
}

// QuestionListKey is the key of one list page under the current list version.
// Bumping the version orphans every cached page at once; they expire via ListTTL.
func QuestionListKey(ctx context.Context, page int) string {
	return fmt.Sprintf(questionListKeyFormat, version(ctx, questionListVersionKey), page)
}

func version(ctx context.Context, key string) int64 {
	if client == nil {
		return 0
	}
	v, err := client.Get(ctx, key).Int64()
	if err != nil {
		return 0
	}
	return v
}

func bump(ctx context.Context, key string) {
	if client == nil {
		return
	}
	client.Incr(ctx, key)
}

// InvalidateQuestionLists drops every cached list page.
func InvalidateQuestionLists(ctx context.Context) {
	bump(ctx, questionListVersionKey)
}

// InvalidateQuestion drops the cached detail of a question and every list page.
func InvalidateQuestion(ctx context.Context, questionID uint) {
	Invalidate(ctx, QuestionDetailKey(ctx, questionID))
	InvalidateQuestionLists(ctx)
}

// InvalidateUserContent drops every cached list and detail page. Pages embed
// author names, so renaming or deleting an account reaches pages of any question.
func InvalidateUserContent(ctx context.Context) {
	bump(ctx, questionDetailVersionKey)
	bump(ctx, questionListVersionKey)
}
