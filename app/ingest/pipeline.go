package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/willfx/sitegeist/app/annotator"
	"github.com/willfx/sitegeist/app/database"
	"github.com/willfx/sitegeist/app/source"
)

// Pipeline is the single consumer of the post stream. Posts are processed
// strictly one at a time: reply-chain resolution assumes the child's row
// exists before the parent is touched, and SQLite wants one writer anyway.
type Pipeline struct {
	source    source.Source
	annotator annotator.Annotator
	users     database.UserRepository
	posts     database.PostRepository
	subjects  database.SubjectRepository
}

func New(src source.Source, ann annotator.Annotator, users database.UserRepository,
	posts database.PostRepository, subjects database.SubjectRepository) *Pipeline {
	return &Pipeline{
		source:    src,
		annotator: ann,
		users:     users,
		posts:     posts,
		subjects:  subjects,
	}
}

// Run consumes the stream until ctx is cancelled or the stream dies. An
// error from one post is logged and the loop moves on; an error from the
// stream itself is fatal and is returned to the caller.
func (p *Pipeline) Run(ctx context.Context) error {
	for {
		raw, err := p.source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("post stream failed: %w", err)
		}

		if err := p.Process(ctx, raw); err != nil {
			slog.Error("Post processing failed", "post_id", raw.ID, "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

// Process runs one post through the pipeline: dedup, annotate, persist,
// record subjects, then resolve a reply/quote parent if there is one.
func (p *Pipeline) Process(ctx context.Context, raw *source.RawPost) error {
	exists, err := p.posts.Exists(raw.ID)
	if err != nil {
		return err
	}
	if exists {
		slog.Debug("Skipping already ingested post", "post_id", raw.ID)
		return nil
	}

	ann, err := p.annotator.Annotate(ctx, raw.Text)
	if err != nil {
		return fmt.Errorf("failed to annotate post %d: %w", raw.ID, err)
	}

	post, err := p.persist(raw, ann)
	if err != nil {
		return err
	}

	if err := p.recordSubjects(post.ID, ann); err != nil {
		return err
	}

	slog.Info("Post ingested", "post_id", post.ID, "user", raw.Author, "sentiment", ann.Sentiment)

	if parentID, ok := raw.ParentID(); ok {
		// A dead or deleted parent never takes the child down with it.
		if err := p.resolveParent(ctx, parentID); err != nil {
			slog.Warn("Parent resolution failed", "post_id", raw.ID, "parent_id", parentID, "error", err)
		}
	}

	return nil
}

func (p *Pipeline) persist(raw *source.RawPost, ann *annotator.Annotation) (*database.Post, error) {
	user, err := p.user(raw.Author)
	if err != nil {
		return nil, err
	}

	sentiment := ann.Sentiment
	post := &database.Post{
		ID:        raw.ID,
		UserID:    user.ID,
		Text:      raw.Text,
		Sentiment: &sentiment,
		CreatedAt: raw.CreatedAt.UTC(),
	}
	if err := p.posts.Create(post); err != nil {
		return nil, err
	}
	return post, nil
}

// user creates the author on first sighting and reuses the row afterwards.
func (p *Pipeline) user(name string) (*database.User, error) {
	exists, err := p.users.Exists(name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return p.users.Create(name)
	}
	return p.users.FindByName(name)
}

// recordSubjects fans one annotation out into occurrence rows. Cross-category
// duplicates are resolved pairwise before anything is written: a word that
// is also an emoji or an entity stays in the higher category, a phrase that
// is also an entity stays an entity.
func (p *Pipeline) recordSubjects(postID int64, ann *annotator.Annotation) error {
	emoji := toSet(ann.Emoji)
	entities := toSet(ann.Entities)

	var words []string
	for _, w := range ann.Words {
		if _, ok := emoji[w]; ok {
			continue
		}
		if _, ok := entities[w]; ok {
			continue
		}
		words = append(words, w)
	}

	var phrases []string
	for _, ph := range ann.Phrases {
		if _, ok := entities[ph]; ok {
			continue
		}
		phrases = append(phrases, ph)
	}

	categories := []struct {
		subjects []string
		kind     database.SubjectType
	}{
		{ann.Entities, database.SubjectEntity},
		{words, database.SubjectWord},
		{ann.Emoji, database.SubjectEmoji},
		{ann.Hashtags, database.SubjectHashtag},
		{ann.Mentions, database.SubjectMention},
		{phrases, database.SubjectPhrase},
	}

	for _, cat := range categories {
		for _, subject := range cat.subjects {
			if err := p.subjects.Create(subject, cat.kind); err != nil {
				return err
			}
			if err := p.subjects.RecordOccurrence(postID, subject); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveParent attributes the parent post's subjects. A parent already in
// storage is re-annotated and re-counted (every reply bumps the parent's
// occurrence counts); an unseen parent is fetched from the source and
// ingested like a new post.
func (p *Pipeline) resolveParent(ctx context.Context, parentID int64) error {
	exists, err := p.posts.Exists(parentID)
	if err != nil {
		return err
	}

	if exists {
		parent, err := p.posts.Find(parentID)
		if err != nil {
			return err
		}
		ann, err := p.annotator.Annotate(ctx, parent.Text)
		if err != nil {
			return fmt.Errorf("failed to annotate parent %d: %w", parentID, err)
		}
		return p.recordSubjects(parent.ID, ann)
	}

	raw, err := p.source.Lookup(ctx, parentID)
	if err != nil {
		return fmt.Errorf("failed to fetch parent %d: %w", parentID, err)
	}

	ann, err := p.annotator.Annotate(ctx, raw.Text)
	if err != nil {
		return fmt.Errorf("failed to annotate parent %d: %w", parentID, err)
	}

	parent, err := p.persist(raw, ann)
	if err != nil {
		return err
	}
	return p.recordSubjects(parent.ID, ann)
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
