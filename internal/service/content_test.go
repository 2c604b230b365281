package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliokit/folio/internal/apperr"
	"github.com/foliokit/folio/internal/fields"
	"github.com/foliokit/folio/internal/model"
	"github.com/foliokit/folio/internal/repository"
)

func TestBlogDraftsAreHiddenFromPublicReads(t *testing.T) {
	svc := NewBlogService(repository.NewBlogPostRepository(openDB(t)), NewAttachments(newLocalBackend(t, 1<<20)))
	ctx := context.Background()

	draft, err := svc.Create(ctx, BlogPostInput{Title: ptr("Draft"), Content: ptr("# Soon"), Tags: fields.Of("go")})
	require.NoError(t, err)
	assert.False(t, draft.Published)
	assert.Equal(t, "Admin", draft.Author)

	_, err = svc.Post(draft.ID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	published, err := svc.Published("")
	require.NoError(t, err)
	assert.Empty(t, published)

	all, err := svc.All()
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = svc.Update(ctx, draft.ID, BlogPostInput{Published: ptr(true)})
	require.NoError(t, err)

	post, err := svc.Post(draft.ID)
	require.NoError(t, err)
	assert.Contains(t, post.ContentHTML, "<h1")

	tagged, err := svc.Published("Go")
	require.NoError(t, err)
	assert.Len(t, tagged, 1)

	untagged, err := svc.Published("rust")
	require.NoError(t, err)
	assert.Empty(t, untagged)

	require.NoError(t, svc.Delete(ctx, draft.ID))
	_, err = svc.Post(draft.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestBlogImageLifecycle(t *testing.T) {
	local := newLocalBackend(t, 1<<20)
	backend := &scriptedBackend{Backend: local, failStores: map[int]bool{2: true}}
	svc := NewBlogService(repository.NewBlogPostRepository(openDB(t)), NewAttachments(backend))
	ctx := context.Background()

	post, err := svc.Create(ctx, BlogPostInput{Title: ptr("Hello"), Content: ptr("body"), Image: pngUpload(t, "hero.png")})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(post.Image, "/uploads/"))
	assert.Equal(t, []string{filepath.Base(post.Image)}, storedFiles(t, local))

	replaced, err := svc.Update(ctx, post.ID, BlogPostInput{Image: pngUpload(t, "hero2.png")})
	require.NoError(t, err)
	assert.NotEqual(t, post.Image, replaced.Image)
	assert.Equal(t, []string{filepath.Base(replaced.Image)}, storedFiles(t, local))
	assert.Contains(t, backend.deletes, post.Image)

	// Third store fails: the post keeps its current image.
	_, err = svc.Update(ctx, post.ID, BlogPostInput{Title: ptr("Renamed"), Image: pngUpload(t, "hero3.png")})
	require.Error(t, err)
	stored, err := svc.byID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", stored.Title)
	assert.Equal(t, replaced.Image, stored.Image)

	retitled, err := svc.Update(ctx, post.ID, BlogPostInput{Title: ptr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, replaced.Image, retitled.Image)

	require.NoError(t, svc.Delete(ctx, post.ID))
	assert.Empty(t, storedFiles(t, local))
	assert.Contains(t, backend.deletes, replaced.Image)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short...", Excerpt("short"))

	long := strings.Repeat("é", 250)
	excerpt := Excerpt(long)
	assert.Equal(t, strings.Repeat("é", 200)+"...", excerpt)
}

func TestSkillRules(t *testing.T) {
	svc := NewSkillService(repository.NewSkillRepository(openDB(t)))

	skill, err := svc.Create(SkillInput{Name: ptr("Go"), Category: ptr("backend")})
	require.NoError(t, err)
	assert.Equal(t, model.SkillCategoryBackend, skill.Category)
	assert.Equal(t, model.DefaultSkillProficiency, skill.Proficiency)

	_, err = svc.Create(SkillInput{Name: ptr("Go")})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = svc.Create(SkillInput{Name: ptr("Rust"), Category: ptr("Systems")})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Update(skill.ID, SkillInput{Proficiency: ptr(101)})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	updated, err := svc.Update(skill.ID, SkillInput{Proficiency: ptr(90)})
	require.NoError(t, err)
	assert.Equal(t, 90, updated.Proficiency)
	assert.Equal(t, "Go", updated.Name)

	backend, err := svc.Skills(model.SkillCategoryBackend)
	require.NoError(t, err)
	assert.Len(t, backend, 1)

	require.NoError(t, svc.Delete(skill.ID))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(svc.Delete(skill.ID)))
}

func TestExperiencePeriod(t *testing.T) {
	svc := NewExperienceService(repository.NewExperienceRepository(openDB(t)))

	in := ExperienceInput{
		Title:       ptr("Engineer"),
		Company:     ptr("Acme"),
		Description: ptr("Built things"),
		StartDate:   ptr("2020-01-01"),
		EndDate:     ptr("2022-06-30"),
		Type:        ptr("work"),
	}
	experience, err := svc.Create(in)
	require.NoError(t, err)
	require.NotNil(t, experience.EndDate)
	assert.Equal(t, model.ExperienceTypeWork, experience.Type)

	current, err := svc.Update(experience.ID, ExperienceInput{Current: ptr(true)})
	require.NoError(t, err)
	assert.True(t, current.Current)
	assert.Nil(t, current.EndDate)

	_, err = svc.Update(experience.ID, ExperienceInput{Current: ptr(false), EndDate: ptr("2019-01-01")})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	ended := in
	ended.EndDate = ptr("2021-01-01")
	past, err := svc.Create(ended)
	require.NoError(t, err)

	_, err = svc.Update(past.ID, ExperienceInput{StartDate: ptr("2023-06-01")})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	stored, err := svc.ByID(past.ID)
	require.NoError(t, err)
	assert.Equal(t, 2020, stored.StartDate.Year())

	moved, err := svc.Update(past.ID, ExperienceInput{StartDate: ptr("2020-06-01")})
	require.NoError(t, err)
	assert.Equal(t, time.June, moved.StartDate.Month())

	_, err = svc.Create(ExperienceInput{Title: ptr("Engineer")})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	bad := in
	bad.StartDate = ptr("January 2020")
	_, err = svc.Create(bad)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

type recordingNotifier struct {
	sent []*model.Contact
	err  error
}

func (n *recordingNotifier) SendContactNotification(_ context.Context, contact *model.Contact) error {
	n.sent = append(n.sent, contact)
	return n.err
}

func TestContactSubmitIsBestEffortNotified(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("provider down")}
	svc := NewContactService(repository.NewContactRepository(openDB(t)), notifier)
	ctx := context.Background()

	contact, err := svc.Submit(ctx, ContactInput{Name: "Grace", Email: "Grace@Example.com", Subject: "Hi", Message: "Hello"})
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", contact.Email)
	assert.Len(t, notifier.sent, 1)

	_, err = svc.Submit(ctx, ContactInput{Name: "Grace", Email: "grace@example.com"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	marked, err := svc.MarkRead(contact.ID, ptr(true))
	require.NoError(t, err)
	assert.True(t, marked.Read)

	unread, err := svc.Contacts(ptr(false))
	require.NoError(t, err)
	assert.Empty(t, unread)

	require.NoError(t, svc.Delete(contact.ID))
	_, err = svc.ByID(contact.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
