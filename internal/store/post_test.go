package store

import (
	"testing"
	"time"

	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/apperr"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/models"
	"github.com/aniketsinghdshgsonic/ai-blog-cms/internal/slug"
)

func newTestPost(author *models.User, title string) *models.Post {
	return &models.Post{
		Title:    title,
		Slug:     slug.Make(title),
		Content:  "test content",
		Status:   models.PostStatusDraft,
		AuthorID: author.ID,
	}
}

func TestPostCreateWithTags(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	author := seedAuthor(t, db, "postcreate_author")
	t.Cleanup(func() {
		cleanPosts(t, db, "post-create-tags")
		cleanTags(t, db, "pct-alpha", "pct-beta")
	})

	p := newTestPost(author, "Post Create Tags")
	created, err := posts.Create(p, []string{"PCT Alpha", "PCT Beta", "PCT Alpha"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if created.AuthorUsername != "postcreate_author" {
		t.Errorf("author username = %q", created.AuthorUsername)
	}
	// Duplicate names in the request collapse to one association.
	if len(created.Tags) != 2 {
		t.Fatalf("tags = %d, want 2", len(created.Tags))
	}
	if created.Tags[0].Slug != "pct-alpha" || created.Tags[1].Slug != "pct-beta" {
		t.Errorf("tag slugs = %q, %q", created.Tags[0].Slug, created.Tags[1].Slug)
	}
	if created.ViewCount != 0 || created.ShareCount != 0 {
		t.Errorf("fresh post counters = %d/%d, want 0/0", created.ViewCount, created.ShareCount)
	}
	if created.PublishedAt != nil {
		t.Error("draft post has published_at set")
	}
}

func TestPostUpdateReplacesTags(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	author := seedAuthor(t, db, "postupd_author")
	t.Cleanup(func() {
		cleanPosts(t, db, "post-update-tags")
		cleanTags(t, db, "put-old", "put-kept", "put-new")
	})

	p := newTestPost(author, "Post Update Tags")
	created, err := posts.Create(p, []string{"PUT Old", "PUT Kept"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := posts.Update(created, []string{"PUT Kept", "PUT New"}, true); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := posts.FindBySlug("post-update-tags")
	if err != nil || got == nil {
		t.Fatalf("refetch: %v, %v", got, err)
	}
	if len(got.Tags) != 2 {
		t.Fatalf("tags after update = %d, want 2", len(got.Tags))
	}
	if got.Tags[0].Slug != "put-kept" || got.Tags[1].Slug != "put-new" {
		t.Errorf("tag slugs = %q, %q", got.Tags[0].Slug, got.Tags[1].Slug)
	}

	// An update that omits tags leaves the associations alone.
	got.Summary = strPtr("edited summary")
	if err := posts.Update(got, nil, false); err != nil {
		t.Fatalf("update without tags: %v", err)
	}
	again, err := posts.FindBySlug("post-update-tags")
	if err != nil || again == nil {
		t.Fatalf("refetch: %v, %v", again, err)
	}
	if len(again.Tags) != 2 {
		t.Errorf("tags after tagless update = %d, want 2", len(again.Tags))
	}
}

func strPtr(s string) *string { return &s }

func TestPostPublishLifecycle(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	author := seedAuthor(t, db, "postpub_author")
	t.Cleanup(func() { cleanPosts(t, db, "post-publish-cycle") })

	p := newTestPost(author, "Post Publish Cycle")
	created, err := posts.Create(p, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	created.Publish(time.Now().UTC())
	if err := posts.Update(created, nil, false); err != nil {
		t.Fatalf("publish update: %v", err)
	}

	got, err := posts.FindBySlug("post-publish-cycle")
	if err != nil || got == nil {
		t.Fatalf("refetch: %v, %v", got, err)
	}
	if got.Status != models.PostStatusPublished {
		t.Errorf("status = %q, want published", got.Status)
	}
	if got.PublishedAt == nil {
		t.Fatal("published_at not set")
	}
	firstPublished := *got.PublishedAt

	// Archive then republish keeps the original timestamp.
	got.Archive()
	if err := posts.Update(got, nil, false); err != nil {
		t.Fatalf("archive update: %v", err)
	}
	got.Publish(time.Now().UTC().Add(time.Hour))
	if err := posts.Update(got, nil, false); err != nil {
		t.Fatalf("republish update: %v", err)
	}

	final, err := posts.FindBySlug("post-publish-cycle")
	if err != nil || final == nil {
		t.Fatalf("refetch: %v, %v", final, err)
	}
	if !final.PublishedAt.Equal(firstPublished) {
		t.Errorf("published_at changed on republish: %v vs %v", final.PublishedAt, firstPublished)
	}
}

func TestPostListFilters(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	cats := NewCategoryStore(db)
	authorA := seedAuthor(t, db, "plf_author_a")
	authorB := seedAuthor(t, db, "plf_author_b")
	t.Cleanup(func() {
		cleanPosts(t, db, "plf-one", "plf-two", "plf-three")
		cleanTags(t, db, "plf-tag")
		cleanCategories(t, db, "plf-cat")
	})

	cat, err := cats.Create(newTestCategory("PLF Cat"))
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	one := newTestPost(authorA, "PLF One")
	one.CategoryID = &cat.ID
	one.Publish(time.Now().UTC())
	if _, err := posts.Create(one, []string{"PLF Tag"}); err != nil {
		t.Fatalf("create one: %v", err)
	}
	two := newTestPost(authorA, "PLF Two")
	if _, err := posts.Create(two, nil); err != nil {
		t.Fatalf("create two: %v", err)
	}
	three := newTestPost(authorB, "PLF Three")
	three.Publish(time.Now().UTC())
	if _, err := posts.Create(three, nil); err != nil {
		t.Fatalf("create three: %v", err)
	}

	countSlugs := func(items []models.Post, want ...string) {
		t.Helper()
		seen := map[string]bool{}
		for _, p := range items {
			seen[p.Slug] = true
		}
		for _, w := range want {
			if !seen[w] {
				t.Errorf("slug %q missing from listing", w)
			}
		}
	}

	// Category filter.
	items, total, err := posts.List(PostListOptions{CategoryID: &cat.ID, Page: 1, PerPage: 100})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if total != 1 {
		t.Errorf("category total = %d, want 1", total)
	}
	countSlugs(items, "plf-one")

	// Author filter.
	items, total, err = posts.List(PostListOptions{AuthorID: &authorB.ID, Page: 1, PerPage: 100})
	if err != nil {
		t.Fatalf("list by author: %v", err)
	}
	if total != 1 {
		t.Errorf("author total = %d, want 1", total)
	}
	countSlugs(items, "plf-three")

	// Status filter.
	published := models.PostStatusPublished
	items, _, err = posts.List(PostListOptions{Status: &published, AuthorID: &authorA.ID, Page: 1, PerPage: 100})
	if err != nil {
		t.Fatalf("list by status: %v", err)
	}
	for _, p := range items {
		if p.Status != models.PostStatusPublished {
			t.Errorf("draft %q leaked into published listing", p.Slug)
		}
	}
	countSlugs(items, "plf-one")

	// Tag filter.
	tags := NewTagStore(db)
	tag, err := tags.FindBySlug("plf-tag")
	if err != nil || tag == nil {
		t.Fatalf("find tag: %v, %v", tag, err)
	}
	items, total, err = posts.List(PostListOptions{TagID: &tag.ID, Page: 1, PerPage: 100})
	if err != nil {
		t.Fatalf("list by tag: %v", err)
	}
	if total != 1 {
		t.Errorf("tag total = %d, want 1", total)
	}
	countSlugs(items, "plf-one")
}

func TestPostCounters(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	author := seedAuthor(t, db, "postcount_author")
	t.Cleanup(func() { cleanPosts(t, db, "post-counters") })

	created, err := posts.Create(newTestPost(author, "Post Counters"), nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := posts.IncrementView(created.ID); err != nil {
			t.Fatalf("increment view: %v", err)
		}
	}
	if err := posts.IncrementShare(created.ID); err != nil {
		t.Fatalf("increment share: %v", err)
	}

	got, err := posts.FindBySlug("post-counters")
	if err != nil || got == nil {
		t.Fatalf("refetch: %v, %v", got, err)
	}
	if got.ViewCount != 3 {
		t.Errorf("view_count = %d, want 3", got.ViewCount)
	}
	if got.ShareCount != 1 {
		t.Errorf("share_count = %d, want 1", got.ShareCount)
	}
}

func TestPostSlugConflict(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	author := seedAuthor(t, db, "postslug_author")
	t.Cleanup(func() { cleanPosts(t, db, "post-slug-clash") })

	if _, err := posts.Create(newTestPost(author, "Post Slug Clash"), nil); err != nil {
		t.Fatalf("create: %v", err)
	}

	// A second title that derives the same slug must be rejected as a
	// conflict, not a bare SQL error.
	dup := newTestPost(author, "Post  Slug  Clash")
	_, err := posts.Create(dup, nil)
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Errorf("duplicate slug: got %v, want conflict", err)
	}
}

func TestPostCountByAuthor(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	author := seedAuthor(t, db, "postcba_author")
	t.Cleanup(func() { cleanPosts(t, db, "post-cba-one", "post-cba-two") })

	for _, title := range []string{"Post CBA One", "Post CBA Two"} {
		if _, err := posts.Create(newTestPost(author, title), nil); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}
	n, err := posts.CountByAuthor(author.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}
