package repository_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fanaberia/fanaberia/internal/dbtest"
	"github.com/fanaberia/fanaberia/internal/model"
	"github.com/fanaberia/fanaberia/internal/repository"
)

func newCategory(t *testing.T, repo repository.CategoryRepository, slug, locale string) *model.Category {
	t.Helper()
	now := time.Now().UTC()
	category := &model.Category{
		Name:        "Travel",
		Slug:        slug,
		Title:       "Travel notes",
		Keywords:    "travel, notes",
		Description: "Travel notes",
		Heading:     "Travel",
		Locale:      locale,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, repo.Create(category))
	return category
}

func TestPostsScopedByCategoryLocale(t *testing.T) {
	database := dbtest.Open(t)
	categories := repository.NewCategoryRepository(database)
	posts := repository.NewPostRepository(database)

	en := newCategory(t, categories, "travel", "en")
	es := newCategory(t, categories, "travel", "es")

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 11; i++ {
		category := en
		if i%4 == 0 {
			category = es
		}
		at := base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, posts.Create(&model.Post{
			Slug:       fmt.Sprintf("post-%02d", i),
			Title:      "Title",
			Keywords:   "keywords",
			Heading:    "Heading",
			Summary:    "Summary",
			Content:    "Content",
			Picture:    "https://example.com/p.png",
			CategoryID: category.ID,
			CreatedAt:  at,
			UpdatedAt:  at,
		}))
	}

	total, err := posts.CountByLocale("en")
	require.NoError(t, err)
	assert.Equal(t, 8, total)

	page, err := posts.ByLocale("en", 3, 0)
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, "post-10", page[0].Slug)
	assert.Equal(t, "en", page[0].Locale)
	assert.Equal(t, "travel", page[0].CategorySlug)

	_, err = posts.BySlug("post-00", "en")
	assert.ErrorIs(t, err, repository.ErrPostNotFound)

	post, err := posts.BySlug("post-00", "es")
	require.NoError(t, err)
	assert.Equal(t, es.ID, post.CategoryID)

	n, err := posts.CountByCategory(es.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestCategorySlugUniquePerLocale(t *testing.T) {
	categories := repository.NewCategoryRepository(dbtest.Open(t))
	newCategory(t, categories, "travel", "en")

	err := categories.Create(&model.Category{Slug: "travel", Locale: "en", CreatedAt: time.Now(), UpdatedAt: time.Now()})
	assert.ErrorIs(t, err, repository.ErrDuplicateSlug)

	_, err = categories.BySlug("travel", "ru")
	assert.ErrorIs(t, err, repository.ErrCategoryNotFound)
}

func TestFileMetaUpdateAndDelete(t *testing.T) {
	database := dbtest.Open(t)
	admins := repository.NewAdminRepository(database)
	files := repository.NewFileRepository(database)

	now := time.Now().UTC()
	admin := &model.Admin{Email: "root@test", PasswordHash: "hash", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, admins.Create(admin))

	file := &model.File{Name: "a.png", Path: "files/a.png", MimeType: "image/png", Size: 10, AdminID: admin.ID, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, files.Create(file))

	require.NoError(t, files.UpdateMeta(file.ID, "alt text", "title text", now))
	got, err := files.ByID(file.ID)
	require.NoError(t, err)
	assert.Equal(t, "alt text", got.Alt)
	assert.Equal(t, "title text", got.Title)

	require.NoError(t, files.Delete(file.ID))
	assert.ErrorIs(t, files.Delete(file.ID), repository.ErrFileNotFound)
}
