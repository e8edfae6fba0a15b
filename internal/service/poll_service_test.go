package service

import (
	"errors"
	"testing"
	"time"

	"github.com/palmapernia/tp-django/internal/models"
	"github.com/palmapernia/tp-django/internal/repository"

	"gorm.io/gorm"
)

func newTestPollService(t *testing.T) (*PollService, *countingObserver, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t)
	observer := newCountingObserver()
	svc := NewPollService(repository.NewQuestionRepository(db), repository.NewChoiceRepository(db), observer)
	return svc, observer, db
}

func strPtr(value string) *string { return &value }

func TestPollServiceCreateIgnoresBlankChoices(t *testing.T) {
	svc, _, db := newTestPollService(t)
	author := createServiceTestUser(t, db, "author")

	question, err := svc.Create(author.ID, QuestionInput{
		QuestionText: strPtr("  What's up?  "),
		Choices:      []string{"Not much", "  ", "The sky"},
	})
	if err != nil {
		t.Fatalf("create question failed: %v", err)
	}
	if question.QuestionText != "What's up?" {
		t.Fatalf("question text want trimmed got %q", question.QuestionText)
	}
	if !question.IsActive {
		t.Fatalf("new question should be active")
	}
	if len(question.Choices) != 2 {
		t.Fatalf("choices want 2 got %d", len(question.Choices))
	}

	if _, err := svc.Create(author.ID, QuestionInput{QuestionText: strPtr("   ")}); !errors.Is(err, ErrQuestionRequired) {
		t.Fatalf("blank question want ErrQuestionRequired got %v", err)
	}
}

func TestPollServiceVoteAndResults(t *testing.T) {
	svc, observer, db := newTestPollService(t)
	author := createServiceTestUser(t, db, "author")
	question, err := svc.Create(author.ID, QuestionInput{
		QuestionText: strPtr("Best editor?"),
		Choices:      []string{"vim", "emacs", "nano"},
	})
	if err != nil {
		t.Fatalf("create question failed: %v", err)
	}
	first := question.Choices[0].ID
	second := question.Choices[1].ID

	for _, choiceID := range []uint{first, first, second} {
		if _, err := svc.Vote(question.ID, choiceID); err != nil {
			t.Fatalf("vote failed: %v", err)
		}
	}
	if observer.votes != 3 {
		t.Fatalf("observer votes want 3 got %d", observer.votes)
	}

	result, err := svc.Results(question.ID)
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if result.TotalVotes != 3 {
		t.Fatalf("total votes want 3 got %d", result.TotalVotes)
	}
	want := map[uint]string{first: "66.67", second: "33.33", question.Choices[2].ID: "0.00"}
	for _, choice := range result.Choices {
		if got := choice.Percentage.StringFixed(2); got != want[choice.ID] {
			t.Fatalf("choice %d percentage want %s got %s", choice.ID, want[choice.ID], got)
		}
	}
}

func TestPollServiceVoteErrors(t *testing.T) {
	svc, _, db := newTestPollService(t)
	author := createServiceTestUser(t, db, "author")
	a, _ := svc.Create(author.ID, QuestionInput{QuestionText: strPtr("A?"), Choices: []string{"a1"}})
	b, _ := svc.Create(author.ID, QuestionInput{QuestionText: strPtr("B?"), Choices: []string{"b1"}})

	if _, err := svc.Vote(a.ID, 0); !errors.Is(err, ErrChoiceRequired) {
		t.Fatalf("missing choice want ErrChoiceRequired got %v", err)
	}
	if _, err := svc.Vote(a.ID, b.Choices[0].ID); !errors.Is(err, ErrChoiceMismatch) {
		t.Fatalf("foreign choice want ErrChoiceMismatch got %v", err)
	}
	if _, err := svc.Vote(9999, a.Choices[0].ID); !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("missing question want ErrQuestionNotFound got %v", err)
	}

	if _, err := svc.ToggleStatus(author.ID, a.ID); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if _, err := svc.Vote(a.ID, a.Choices[0].ID); !errors.Is(err, ErrPollClosed) {
		t.Fatalf("closed poll want ErrPollClosed got %v", err)
	}
	var choice models.Choice
	db.First(&choice, a.Choices[0].ID)
	if choice.Votes != 0 {
		t.Fatalf("rejected votes must not count, got %d", choice.Votes)
	}
}

func TestPollServiceOnlyAuthorMayModify(t *testing.T) {
	svc, _, db := newTestPollService(t)
	author := createServiceTestUser(t, db, "author")
	other := createServiceTestUser(t, db, "other")
	question, _ := svc.Create(author.ID, QuestionInput{QuestionText: strPtr("Mine?"), Choices: []string{"yes"}})

	if _, err := svc.Update(other.ID, question.ID, QuestionInput{QuestionText: strPtr("Yours?")}); !errors.Is(err, ErrNotAuthor) {
		t.Fatalf("update by other want ErrNotAuthor got %v", err)
	}
	if err := svc.Delete(other.ID, question.ID); !errors.Is(err, ErrNotAuthor) {
		t.Fatalf("delete by other want ErrNotAuthor got %v", err)
	}
	if _, err := svc.ToggleStatus(other.ID, question.ID); !errors.Is(err, ErrNotAuthor) {
		t.Fatalf("toggle by other want ErrNotAuthor got %v", err)
	}
	if _, err := svc.CreateChoice(other.ID, question.ID, "no"); !errors.Is(err, ErrNotAuthor) {
		t.Fatalf("create choice by other want ErrNotAuthor got %v", err)
	}
	if err := svc.Delete(author.ID, question.ID); err != nil {
		t.Fatalf("delete by author failed: %v", err)
	}
	if _, err := svc.Get(question.ID); !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("deleted question want ErrQuestionNotFound got %v", err)
	}
}

func TestPollServicePublishedRecently(t *testing.T) {
	svc, _, _ := newTestPollService(t)
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	cases := []struct {
		pubDate time.Time
		want    bool
	}{
		{now.Add(-23*time.Hour - 59*time.Minute), true},
		{now.Add(-24*time.Hour - time.Second), false},
		{now.Add(time.Hour), false},
	}
	for _, tc := range cases {
		question := &models.Question{PubDate: tc.pubDate}
		if got := svc.PublishedRecently(question); got != tc.want {
			t.Fatalf("pub_date %s want %v got %v", tc.pubDate, tc.want, got)
		}
	}
}
