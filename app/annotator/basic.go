package annotator

import (
	"context"
	"regexp"
	"strings"

	"github.com/forPelevin/gomoji"
	"golang.org/x/text/unicode/norm"
)

var _ Annotator = (*Basic)(nil)

var (
	urlRe     = regexp.MustCompile(`https?://\S+|http\S+`)
	hashtagRe = regexp.MustCompile(`(?:^|\s)(#[\w-]+)`)
	mentionRe = regexp.MustCompile(`(?:^|\s)(@[\w-]+)`)
	wordRe    = regexp.MustCompile(`[\p{L}][\p{L}\p{N}_'-]*`)
)

// Basic is the built-in annotator: regex extraction of hashtags, mentions
// and plain words, emoji lookup, and a small valence lexicon for sentiment.
// It produces no entities or phrases; those need the remote annotation
// service.
type Basic struct {
	exclude  map[string]struct{}
	positive map[string]struct{}
	negative map[string]struct{}
}

func NewBasic(rules Rules) *Basic {
	return &Basic{
		exclude:  toSet(rules.ExcludeTokens),
		positive: toSet(rules.PositiveTokens),
		negative: toSet(rules.NegativeTokens),
	}
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[strings.ToLower(t)] = struct{}{}
	}
	return set
}

func (b *Basic) Annotate(ctx context.Context, text string) (*Annotation, error) {
	text = norm.NFC.String(text)

	ann := &Annotation{
		Hashtags: captures(hashtagRe, text),
		Mentions: captures(mentionRe, text),
		Emoji:    extractEmoji(text),
	}

	stripped := urlRe.ReplaceAllString(text, " ")
	for _, token := range wordRe.FindAllString(stripped, -1) {
		word := strings.ToLower(token)
		if len([]rune(word)) < 2 {
			continue
		}
		if strings.HasPrefix(word, "#") || strings.HasPrefix(word, "@") {
			continue
		}
		if _, excluded := b.exclude[word]; excluded {
			continue
		}
		ann.Words = append(ann.Words, word)

		if _, ok := b.positive[word]; ok {
			ann.Sentiment += 0.5
		}
		if _, ok := b.negative[word]; ok {
			ann.Sentiment -= 0.5
		}
	}

	return ann, nil
}

func captures(re *regexp.Regexp, text string) []string {
	var out []string
	for _, match := range re.FindAllStringSubmatch(text, -1) {
		out = append(out, match[1])
	}
	return out
}

func extractEmoji(text string) []string {
	var out []string
	for _, e := range gomoji.FindAll(text) {
		out = append(out, e.Character)
	}
	return out
}
