package service

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fanaberia/fanaberia/internal/dbtest"
	"github.com/fanaberia/fanaberia/internal/markdown"
	"github.com/fanaberia/fanaberia/internal/model"
	"github.com/fanaberia/fanaberia/internal/repository"
	"github.com/fanaberia/fanaberia/internal/validation"
)

type contentFixture struct {
	posts      *PostService
	categories *CategoryService
	pages      *PageService
}

func newContentFixture(t *testing.T, perPage int) *contentFixture {
	t.Helper()

	database := dbtest.Open(t)
	categoryRepository := repository.NewCategoryRepository(database)
	parser := markdown.NewParser()
	return &contentFixture{
		posts:      NewPostService(repository.NewPostRepository(database), categoryRepository, parser, perPage),
		categories: NewCategoryService(categoryRepository),
		pages:      NewPageService(repository.NewPageRepository(database), parser),
	}
}

func validCategory(slug, locale string) *model.Category {
	return &model.Category{
		Name:        "Travel",
		Slug:        slug,
		Title:       "Travel notes",
		Keywords:    "travel notes",
		Description: "Notes from the road",
		Heading:     "Travel",
		Locale:      locale,
	}
}

func validPost(slug string, categoryID int64) *model.Post {
	return &model.Post{
		Slug:        slug,
		Title:       "A post title",
		Keywords:    "some keywords",
		Description: "A description",
		Heading:     "A heading",
		Summary:     "A summary",
		Content:     "# Heading\n\n" + strings.Repeat("Body text. ", 10),
		Picture:     "https://example.com/picture.png",
		CategoryID:  categoryID,
	}
}

func TestPostPagination(t *testing.T) {
	f := newContentFixture(t, 9)

	category := validCategory("travel", "en")
	require.NoError(t, f.categories.Create(category))
	for i := range 10 {
		require.NoError(t, f.posts.Create(validPost(fmt.Sprintf("post-%02d", i), category.ID)))
	}

	first, err := f.posts.ByLocale("en", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Page)
	assert.Equal(t, 2, first.TotalPages)
	assert.Equal(t, 10, first.Total)
	assert.Len(t, first.Posts, 9)
	assert.False(t, first.HasPrev())
	assert.True(t, first.HasNext())

	second, err := f.posts.ByLocale("en", 2)
	require.NoError(t, err)
	assert.Len(t, second.Posts, 1)
	assert.True(t, second.HasPrev())
	assert.False(t, second.HasNext())

	beyond, err := f.posts.ByLocale("en", 5)
	require.NoError(t, err)
	assert.Empty(t, beyond.Posts)

	huge, err := f.posts.ByLocale("en", math.MaxInt)
	require.NoError(t, err)
	assert.Empty(t, huge.Posts)
	assert.Equal(t, 2, huge.TotalPages)

	offset, _ := f.posts.paginate(math.MaxInt, 10)
	assert.Equal(t, 10, offset)

	other, err := f.posts.ByLocale("ru", 1)
	require.NoError(t, err)
	assert.Equal(t, 0, other.TotalPages)
	assert.Empty(t, other.Posts)
}

func TestPostsByCategory(t *testing.T) {
	f := newContentFixture(t, 9)

	travel := validCategory("travel", "en")
	require.NoError(t, f.categories.Create(travel))
	food := validCategory("food-notes", "en")
	require.NoError(t, f.categories.Create(food))

	require.NoError(t, f.posts.Create(validPost("trip-one", travel.ID)))
	require.NoError(t, f.posts.Create(validPost("soup-one", food.ID)))

	category, page, err := f.posts.ByCategory("travel", "en", 1)
	require.NoError(t, err)
	assert.Equal(t, travel.ID, category.ID)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "trip-one", page.Posts[0].Slug)

	_, _, err = f.posts.ByCategory("travel", "es", 1)
	assert.ErrorIs(t, err, repository.ErrCategoryNotFound)
}

func TestPostBySlugRendersMarkdown(t *testing.T) {
	f := newContentFixture(t, 9)

	category := validCategory("travel", "es")
	require.NoError(t, f.categories.Create(category))
	require.NoError(t, f.posts.Create(validPost("viaje-uno", category.ID)))

	post, err := f.posts.BySlug("viaje-uno", "es")
	require.NoError(t, err)
	assert.Contains(t, string(post.HTMLContent), "<h1")

	_, err = f.posts.BySlug("viaje-uno", "en")
	assert.ErrorIs(t, err, repository.ErrPostNotFound)
}

func TestPostValidation(t *testing.T) {
	f := newContentFixture(t, 9)

	post := validPost("Bad Slug", 42)
	post.Content = "short"
	err := f.posts.Create(post)

	var errs validation.Errors
	require.True(t, errors.As(err, &errs))
	assert.Equal(t, validation.ErrSlugInvalid.Error(), errs["slug"])
	assert.Equal(t, validation.ErrContentTooShort.Error(), errs["content"])

	err = f.posts.Create(validPost("good-slug", 42))
	require.True(t, errors.As(err, &errs))
	assert.Equal(t, validation.ErrCategoryInvalid.Error(), errs["category_id"])
}

func TestPostSlugTaken(t *testing.T) {
	f := newContentFixture(t, 9)

	category := validCategory("travel", "en")
	require.NoError(t, f.categories.Create(category))
	require.NoError(t, f.posts.Create(validPost("same-slug", category.ID)))

	err := f.posts.Create(validPost("same-slug", category.ID))
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestCategorySlugUniquePerLocale(t *testing.T) {
	f := newContentFixture(t, 9)

	require.NoError(t, f.categories.Create(validCategory("travel", "en")))
	require.NoError(t, f.categories.Create(validCategory("travel", "ru")))
	assert.ErrorIs(t, f.categories.Create(validCategory("travel", "en")), ErrSlugTaken)

	err := f.categories.Create(validCategory("travel", "de"))
	var errs validation.Errors
	require.True(t, errors.As(err, &errs))
	assert.Equal(t, validation.ErrLocaleInvalid.Error(), errs["locale"])
}

func TestPageLifecycle(t *testing.T) {
	f := newContentFixture(t, 9)

	page := &model.Page{
		Name:        "About us",
		Slug:        "abc",
		Title:       "About the blog",
		Keywords:    "about blog",
		Description: "Who writes here",
		Heading:     "About",
		Locale:      "en",
		Content:     strings.Repeat("We write about things. ", 4),
	}
	err := f.pages.Create(page)
	var errs validation.Errors
	require.True(t, errors.As(err, &errs), "slug shorter than five characters")

	page.Slug = "about-us"
	require.NoError(t, f.pages.Create(page))

	page.Heading = "About us"
	require.NoError(t, f.pages.Update(page))

	found, err := f.pages.BySlug("about-us", "en")
	require.NoError(t, err)
	assert.Equal(t, "About us", found.Heading)
	assert.Contains(t, string(found.HTMLContent), "We write about things.")

	_, err = f.pages.BySlug("about-us", "es")
	assert.ErrorIs(t, err, repository.ErrPageNotFound)
}
