package annotator

import (
	"context"
	"testing"
)

func newTestBasic(t *testing.T) *Basic {
	t.Helper()

	rules, err := DefaultRules()
	if err != nil {
		t.Fatalf("Failed to load default rules: %v", err)
	}
	return NewBasic(rules)
}

func TestBasic_ExtractsHashtagsAndMentions(t *testing.T) {
	b := newTestBasic(t)

	ann, err := b.Annotate(context.Background(), "Loving the vibes at #brighton beach with @alice today")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(ann.Hashtags) != 1 || ann.Hashtags[0] != "#brighton" {
		t.Errorf("Expected hashtag '#brighton', got %v", ann.Hashtags)
	}
	if len(ann.Mentions) != 1 || ann.Mentions[0] != "@alice" {
		t.Errorf("Expected mention '@alice', got %v", ann.Mentions)
	}
}

func TestBasic_ExtractsWords(t *testing.T) {
	b := newTestBasic(t)

	ann, err := b.Annotate(context.Background(), "The trains are broken again")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := map[string]bool{"trains": true, "broken": true, "again": true}
	if len(ann.Words) != len(expected) {
		t.Fatalf("Expected %d words, got %v", len(expected), ann.Words)
	}
	for _, w := range ann.Words {
		if !expected[w] {
			t.Errorf("Unexpected word %q", w)
		}
	}
}

func TestBasic_StripsURLs(t *testing.T) {
	b := newTestBasic(t)

	ann, err := b.Annotate(context.Background(), "check https://example.com/article-words out")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for _, w := range ann.Words {
		if w == "example" || w == "article-words" || w == "com" {
			t.Errorf("Expected URL tokens to be stripped, got word %q", w)
		}
	}
}

func TestBasic_ExtractsEmoji(t *testing.T) {
	b := newTestBasic(t)

	ann, err := b.Annotate(context.Background(), "match day \U0001F600⚽")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(ann.Emoji) != 2 {
		t.Fatalf("Expected 2 emoji, got %v", ann.Emoji)
	}
}

func TestBasic_Sentiment(t *testing.T) {
	b := newTestBasic(t)

	ann, err := b.Annotate(context.Background(), "great great day")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ann.Sentiment != 1.0 {
		t.Errorf("Expected sentiment 1.0 for two positive tokens, got %g", ann.Sentiment)
	}

	ann, err = b.Annotate(context.Background(), "awful service")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ann.Sentiment != -0.5 {
		t.Errorf("Expected sentiment -0.5, got %g", ann.Sentiment)
	}

	ann, err = b.Annotate(context.Background(), "good and bad")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ann.Sentiment != 0 {
		t.Errorf("Expected balanced sentiment 0, got %g", ann.Sentiment)
	}
}

func TestBasic_NoEntitiesOrPhrases(t *testing.T) {
	b := newTestBasic(t)

	ann, err := b.Annotate(context.Background(), "Boris Johnson visited London Bridge")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(ann.Entities) != 0 {
		t.Errorf("Expected no entities from the basic annotator, got %v", ann.Entities)
	}
	if len(ann.Phrases) != 0 {
		t.Errorf("Expected no phrases from the basic annotator, got %v", ann.Phrases)
	}
}

func TestBasic_SingleLetterWordsDropped(t *testing.T) {
	b := newTestBasic(t)

	ann, err := b.Annotate(context.Background(), "i x queue")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(ann.Words) != 1 || ann.Words[0] != "queue" {
		t.Errorf("Expected only 'queue', got %v", ann.Words)
	}
}
