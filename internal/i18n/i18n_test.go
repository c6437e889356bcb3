package i18n

import (
	"context"
	"testing"
)

func TestTranslations(t *testing.T) {
	if err := Init("ko"); err != nil {
		t.Fatalf("Init: %v", err)
	}

	koCtx := WithLocalizer(context.Background(), NewLocalizer("ko"))
	enCtx := WithLocalizer(context.Background(), NewLocalizer("en"))

	if got := T(koCtx, "ErrCountBelowUnits"); got != "문제 개수는 선택한 카테고리 수 이상이어야 합니다" {
		t.Errorf("ko ErrCountBelowUnits = %q", got)
	}
	if got := T(enCtx, "ErrBadCode"); got == "ErrBadCode" || got == "" {
		t.Errorf("en ErrBadCode not translated: %q", got)
	}
}

func TestFallbackToKorean(t *testing.T) {
	if err := Init("ko"); err != nil {
		t.Fatalf("Init: %v", err)
	}

	// A context without a localizer falls back to Korean.
	got := T(context.Background(), "Unauthorized")
	if got != "로그인이 필요합니다." {
		t.Errorf("fallback Unauthorized = %q", got)
	}
}

func TestMissingMessageReturnsID(t *testing.T) {
	if err := Init("ko"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	ctx := WithLocalizer(context.Background(), NewLocalizer("ko"))
	if got := T(ctx, "NoSuchMessage"); got != "NoSuchMessage" {
		t.Errorf("missing message = %q, want the ID back", got)
	}
}

func TestAllMessageIDsInBothLocales(t *testing.T) {
	if err := Init("ko"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	ids := []string{
		"ErrNoUnits", "ErrBadQuestionCount", "ErrCountBelowUnits", "ErrBadTimer",
		"ErrBadCode", "ErrNoAnswers", "ErrNoAPIKey", "ErrGenerationFailed",
		"ErrInsufficientQuestions", "ErrCodeExhausted", "ErrExamNotFound",
		"ErrSolveNotFound", "ErrNotOwner", "AlreadyAttempted", "LoginError",
		"Unauthorized", "Forbidden", "BadRequest", "NotFound", "InternalError",
	}
	for _, lang := range []string{"ko", "en"} {
		ctx := WithLocalizer(context.Background(), NewLocalizer(lang))
		for _, id := range ids {
			if got := T(ctx, id); got == id || got == "" {
				t.Errorf("locale %s missing message %s", lang, id)
			}
		}
	}
}
