package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/foliokit/folio/internal/apperr"
	"github.com/foliokit/folio/internal/fields"
	"github.com/foliokit/folio/internal/markdown"
	"github.com/foliokit/folio/internal/model"
	"github.com/foliokit/folio/internal/repository"
	"github.com/foliokit/folio/internal/storage"
)

const excerptLength = 200

// BlogPostInput carries a create or update request.
type BlogPostInput struct {
	Title     *string
	Content   *string
	Excerpt   *string
	Author    *string
	Published *bool
	Tags      fields.Raw
	Image     *storage.Upload
}

type BlogService struct {
	repo        repository.BlogPostRepository
	attachments *Attachments
	parser      *markdown.Parser
}

func NewBlogService(repo repository.BlogPostRepository, attachments *Attachments) *BlogService {
	return &BlogService{
		repo:        repo,
		attachments: attachments,
		parser:      markdown.NewParser(),
	}
}

// Published lists published posts, newest first, optionally by tag.
func (s *BlogService) Published(tag string) ([]*model.BlogPost, error) {
	posts, err := s.repo.Published()
	if err != nil {
		return nil, apperr.E(apperr.KindPersistenceFailure, "Error fetching blog posts", err)
	}

	if tag == "" {
		return posts, nil
	}

	tagged := []*model.BlogPost{}
	for _, post := range posts {
		for _, t := range post.Tags {
			if sameLabel(t, tag) {
				tagged = append(tagged, post)
				break
			}
		}
	}
	return tagged, nil
}

// All lists every post including drafts.
func (s *BlogService) All() ([]*model.BlogPost, error) {
	posts, err := s.repo.All()
	if err != nil {
		return nil, apperr.E(apperr.KindPersistenceFailure, "Error fetching blog posts", err)
	}
	return posts, nil
}

// Post returns a published post with its rendered HTML. Drafts are
// forbidden on the public read path.
func (s *BlogService) Post(id string) (*model.BlogPost, error) {
	post, err := s.byID(id)
	if err != nil {
		return nil, err
	}

	if !post.Published {
		return nil, apperr.E(apperr.KindForbidden, "Blog post not published", nil)
	}

	html, err := s.parser.Render(post.Content)
	if err != nil {
		slog.Warn("failed to render blog post", "error", err, "id", post.ID)
	} else {
		post.ContentHTML = html
	}

	return post, nil
}

func (s *BlogService) byID(id string) (*model.BlogPost, error) {
	post, err := s.repo.ByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrBlogPostNotFound) {
			return nil, apperr.NotFound("Blog post not found")
		}
		return nil, apperr.E(apperr.KindPersistenceFailure, "Error fetching blog post", err)
	}
	return post, nil
}

func (s *BlogService) Create(ctx context.Context, in BlogPostInput) (*model.BlogPost, error) {
	title, err := requireText(in.Title, "Title is required")
	if err != nil {
		return nil, err
	}
	content, err := requireText(in.Content, "Content is required")
	if err != nil {
		return nil, err
	}

	tags, _, err := normalizeList(in.Tags, "tags")
	if err != nil {
		return nil, err
	}

	now := time.Now()
	post := &model.BlogPost{
		ID:        uuid.New().String(),
		Title:     title,
		Content:   content,
		Tags:      tags,
		Author:    model.DefaultBlogAuthor,
		CreatedAt: now,
		UpdatedAt: now,
	}
	optionalText(&post.Excerpt, in.Excerpt)
	if post.Excerpt == "" {
		post.Excerpt = Excerpt(content)
	}
	if in.Author != nil && strings.TrimSpace(*in.Author) != "" {
		post.Author = strings.TrimSpace(*in.Author)
	}
	if in.Published != nil {
		post.Published = *in.Published
	}

	asset, err := s.attachments.Store(ctx, in.Image)
	if err != nil {
		return nil, err
	}
	if asset != nil {
		post.Image = asset.Ref
	}

	err = s.repo.Create(post)
	if err != nil {
		s.attachments.Rollback(ctx, asset, err)
		return nil, apperr.E(apperr.KindPersistenceFailure, "Error creating blog post", fmt.Errorf("failed to create blog post: %w", err))
	}

	return post, nil
}

func (s *BlogService) Update(ctx context.Context, id string, in BlogPostInput) (*model.BlogPost, error) {
	post, err := s.byID(id)
	if err != nil {
		return nil, err
	}

	err = overwriteText(&post.Title, in.Title, "Title cannot be empty")
	if err != nil {
		return nil, err
	}
	err = overwriteText(&post.Content, in.Content, "Content cannot be empty")
	if err != nil {
		return nil, err
	}
	optionalText(&post.Excerpt, in.Excerpt)
	if in.Author != nil && strings.TrimSpace(*in.Author) != "" {
		post.Author = strings.TrimSpace(*in.Author)
	}
	if in.Published != nil {
		post.Published = *in.Published
	}

	tags, present, err := normalizeList(in.Tags, "tags")
	if err != nil {
		return nil, err
	}
	if present {
		post.Tags = tags
	}

	asset, err := s.attachments.Store(ctx, in.Image)
	if err != nil {
		return nil, err
	}
	oldImage := ""
	if asset != nil {
		oldImage = post.Image
		post.Image = asset.Ref
	}

	post.UpdatedAt = time.Now()
	err = s.repo.Update(post)
	if err != nil {
		s.attachments.Rollback(ctx, asset, err)
		if errors.Is(err, repository.ErrBlogPostNotFound) {
			return nil, apperr.NotFound("Blog post not found")
		}
		return nil, apperr.E(apperr.KindPersistenceFailure, "Error updating blog post", fmt.Errorf("failed to update blog post: %w", err))
	}

	s.attachments.Discard(ctx, oldImage)
	return post, nil
}

func (s *BlogService) Delete(ctx context.Context, id string) error {
	post, err := s.byID(id)
	if err != nil {
		return err
	}

	s.attachments.Discard(ctx, post.Image)

	err = s.repo.Delete(id)
	if err != nil {
		if errors.Is(err, repository.ErrBlogPostNotFound) {
			return apperr.NotFound("Blog post not found")
		}
		return apperr.E(apperr.KindPersistenceFailure, "Error deleting blog post", fmt.Errorf("failed to delete blog post: %w", err))
	}

	return nil
}

// Excerpt returns the first 200 characters of content followed by "...".
func Excerpt(content string) string {
	if utf8.RuneCountInString(content) <= excerptLength {
		return content + "..."
	}
	runes := []rune(content)
	return string(runes[:excerptLength]) + "..."
}
