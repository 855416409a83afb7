package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"github.com/fanaberia/fanaberia/internal/model"
	"github.com/fanaberia/fanaberia/internal/service"
	"github.com/fanaberia/fanaberia/internal/ui"
	c "github.com/fanaberia/fanaberia/internal/ui/components"
	"github.com/fanaberia/fanaberia/internal/ui/pages"
)

// saveFailed renders form again for a failed create or update. Rule
// violations and taken slugs are the editor's to fix; anything else is a
// storage failure shown as a generic message.
func saveFailed(w http.ResponseWriter, r *http.Request, err error, fields map[string]string, form func(pages.FormState) templ.Component) {
	if state, ok := validationState(err, fields); ok {
		ui.RenderStatus(w, r, http.StatusBadRequest, form(state))
		return
	}
	if errors.Is(err, service.ErrSlugTaken) {
		state := pages.FormState{Errors: map[string]string{"slug": "error.slug.taken"}, Fields: fields}
		ui.RenderStatus(w, r, http.StatusBadRequest, form(state))
		return
	}
	slog.Error("failed to save record", "error", err, "path", r.URL.Path)
	ui.RenderStatus(w, r, http.StatusInternalServerError, form(dbErrorState(fields)))
}

func postedFields(r *http.Request, names ...string) map[string]string {
	fields := make(map[string]string, len(names))
	for _, name := range names {
		fields[name] = formValue(r, name)
	}
	return fields
}

// Posts

var postFieldNames = []string{"slug", "title", "keywords", "description", "heading", "summary", "content", "picture", "category_id"}

func postFields(p *model.Post) map[string]string {
	return map[string]string{
		"slug":        p.Slug,
		"title":       p.Title,
		"keywords":    p.Keywords,
		"description": p.Description,
		"heading":     p.Heading,
		"summary":     p.Summary,
		"content":     p.Content,
		"picture":     p.Picture,
		"category_id": strconv.FormatInt(p.CategoryID, 10),
	}
}

func postFromFields(fields map[string]string) *model.Post {
	categoryID, _ := strconv.ParseInt(fields["category_id"], 10, 64)
	return &model.Post{
		Slug:        fields["slug"],
		Title:       fields["title"],
		Keywords:    fields["keywords"],
		Description: fields["description"],
		Heading:     fields["heading"],
		Summary:     fields["summary"],
		Content:     fields["content"],
		Picture:     fields["picture"],
		CategoryID:  categoryID,
	}
}

func (h *WarpHandler) postForm(titleKey, action string) func(pages.FormState) templ.Component {
	categories, err := h.categoryService.All()
	if err != nil {
		slog.Error("failed to list categories", "error", err)
	}
	options := []c.Option{{Value: "", Label: "-"}}
	for _, category := range categories {
		options = append(options, c.Option{
			Value: strconv.FormatInt(category.ID, 10),
			Label: category.Name + " (" + category.Locale + ")",
		})
	}

	return func(state pages.FormState) templ.Component {
		return pages.WarpForm(titleKey, action, false, state, []c.Field{
			{Name: "slug", Label: "field.slug", Value: state.Value("slug"), Error: state.Err("slug"), Required: true},
			{Name: "category_id", Label: "field.category", Type: "select", Options: options, Value: state.Value("category_id"), Error: state.Err("category_id"), Required: true},
			{Name: "title", Label: "field.title", Value: state.Value("title"), Error: state.Err("title"), Required: true},
			{Name: "keywords", Label: "field.keywords", Value: state.Value("keywords"), Error: state.Err("keywords"), Required: true},
			{Name: "description", Label: "field.description", Value: state.Value("description"), Error: state.Err("description"), Required: true},
			{Name: "heading", Label: "field.heading", Value: state.Value("heading"), Error: state.Err("heading"), Required: true},
			{Name: "summary", Label: "field.summary", Value: state.Value("summary"), Error: state.Err("summary"), Required: true},
			{Name: "picture", Label: "field.picture", Type: "url", Value: state.Value("picture"), Error: state.Err("picture"), Required: true},
			{Name: "content", Label: "field.content", Type: "textarea", Value: state.Value("content"), Error: state.Err("content"), Required: true},
		})
	}
}

func (h *WarpHandler) Posts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.All()
	if err != nil {
		slog.Error("failed to list posts", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	rows := make([][]string, 0, len(posts))
	hrefs := make([]string, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, []string{p.Heading, p.Slug, p.CategoryName, p.Locale, formatTime(p.CreatedAt)})
		hrefs = append(hrefs, showPath("posts", p.ID))
	}
	headers := []string{"field.heading", "field.slug", "field.category", "field.locale", "field.created_at"}
	ui.Render(w, r, pages.WarpIndex("warp.posts", "/warp/posts/new", headers, rows, hrefs))
}

func (h *WarpHandler) NewPostPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, h.postForm("warp.posts", "/warp/posts/new")(pages.FormState{}))
}

func (h *WarpHandler) NewPost(w http.ResponseWriter, r *http.Request) {
	fields := postedFields(r, postFieldNames...)
	post := postFromFields(fields)

	err := h.postService.Create(post)
	if err != nil {
		saveFailed(w, r, err, fields, h.postForm("warp.posts", "/warp/posts/new"))
		return
	}
	http.Redirect(w, r, showPath("posts", post.ID), http.StatusSeeOther)
}

func (h *WarpHandler) ShowPost(w http.ResponseWriter, r *http.Request) {
	post, ok := warpRecord(w, r, h.postService.ByID)
	if !ok {
		return
	}

	details := c.Details(
		"field.slug", post.Slug,
		"field.category", post.CategoryName,
		"field.locale", post.Locale,
		"field.title", post.Title,
		"field.keywords", post.Keywords,
		"field.description", post.Description,
		"field.heading", post.Heading,
		"field.summary", post.Summary,
		"field.picture", post.Picture,
		"field.created_at", formatTime(post.CreatedAt),
		"field.updated_at", formatTime(post.UpdatedAt),
	)
	ui.Render(w, r, pages.WarpShow("warp.posts", editPath("posts", post.ID), "", details, c.Article(post.Heading, post.HTMLContent)))
}

func (h *WarpHandler) EditPostPage(w http.ResponseWriter, r *http.Request) {
	post, ok := warpRecord(w, r, h.postService.ByID)
	if !ok {
		return
	}
	ui.Render(w, r, h.postForm("warp.posts", editPath("posts", post.ID))(pages.FormState{Fields: postFields(post)}))
}

func (h *WarpHandler) EditPost(w http.ResponseWriter, r *http.Request) {
	existing, ok := warpRecord(w, r, h.postService.ByID)
	if !ok {
		return
	}

	fields := postedFields(r, postFieldNames...)
	post := postFromFields(fields)
	post.ID = existing.ID
	post.CreatedAt = existing.CreatedAt

	err := h.postService.Update(post)
	if err != nil {
		saveFailed(w, r, err, fields, h.postForm("warp.posts", editPath("posts", post.ID)))
		return
	}
	http.Redirect(w, r, showPath("posts", post.ID), http.StatusSeeOther)
}

// Categories

var categoryFieldNames = []string{"name", "slug", "title", "keywords", "description", "heading", "locale"}

func categoryFields(cat *model.Category) map[string]string {
	return map[string]string{
		"name":        cat.Name,
		"slug":        cat.Slug,
		"title":       cat.Title,
		"keywords":    cat.Keywords,
		"description": cat.Description,
		"heading":     cat.Heading,
		"locale":      cat.Locale,
	}
}

func categoryFromFields(fields map[string]string) *model.Category {
	return &model.Category{
		Name:        fields["name"],
		Slug:        fields["slug"],
		Title:       fields["title"],
		Keywords:    fields["keywords"],
		Description: fields["description"],
		Heading:     fields["heading"],
		Locale:      fields["locale"],
	}
}

func categoryForm(action string) func(pages.FormState) templ.Component {
	return func(state pages.FormState) templ.Component {
		return pages.WarpForm("warp.categories", action, false, state, []c.Field{
			{Name: "name", Label: "field.name", Value: state.Value("name"), Error: state.Err("name"), Required: true},
			{Name: "slug", Label: "field.slug", Value: state.Value("slug"), Error: state.Err("slug"), Required: true},
			{Name: "locale", Label: "field.locale", Type: "select", Options: localeOptions(), Value: state.Value("locale"), Error: state.Err("locale"), Required: true},
			{Name: "title", Label: "field.title", Value: state.Value("title"), Error: state.Err("title"), Required: true},
			{Name: "keywords", Label: "field.keywords", Value: state.Value("keywords"), Error: state.Err("keywords"), Required: true},
			{Name: "description", Label: "field.description", Value: state.Value("description"), Error: state.Err("description"), Required: true},
			{Name: "heading", Label: "field.heading", Value: state.Value("heading"), Error: state.Err("heading"), Required: true},
		})
	}
}

func (h *WarpHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.All()
	if err != nil {
		slog.Error("failed to list categories", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	rows := make([][]string, 0, len(categories))
	hrefs := make([]string, 0, len(categories))
	for _, cat := range categories {
		rows = append(rows, []string{cat.Name, cat.Slug, cat.Locale, formatTime(cat.CreatedAt)})
		hrefs = append(hrefs, showPath("categories", cat.ID))
	}
	headers := []string{"field.name", "field.slug", "field.locale", "field.created_at"}
	ui.Render(w, r, pages.WarpIndex("warp.categories", "/warp/categories/new", headers, rows, hrefs))
}

func (h *WarpHandler) NewCategoryPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, categoryForm("/warp/categories/new")(pages.FormState{}))
}

func (h *WarpHandler) NewCategory(w http.ResponseWriter, r *http.Request) {
	fields := postedFields(r, categoryFieldNames...)
	category := categoryFromFields(fields)

	err := h.categoryService.Create(category)
	if err != nil {
		saveFailed(w, r, err, fields, categoryForm("/warp/categories/new"))
		return
	}
	http.Redirect(w, r, showPath("categories", category.ID), http.StatusSeeOther)
}

func (h *WarpHandler) ShowCategory(w http.ResponseWriter, r *http.Request) {
	category, ok := warpRecord(w, r, h.categoryService.ByID)
	if !ok {
		return
	}

	details := c.Details(
		"field.name", category.Name,
		"field.slug", category.Slug,
		"field.locale", category.Locale,
		"field.title", category.Title,
		"field.keywords", category.Keywords,
		"field.description", category.Description,
		"field.heading", category.Heading,
		"field.created_at", formatTime(category.CreatedAt),
		"field.updated_at", formatTime(category.UpdatedAt),
	)
	ui.Render(w, r, pages.WarpShow("warp.categories", editPath("categories", category.ID), "", details))
}

func (h *WarpHandler) EditCategoryPage(w http.ResponseWriter, r *http.Request) {
	category, ok := warpRecord(w, r, h.categoryService.ByID)
	if !ok {
		return
	}
	ui.Render(w, r, categoryForm(editPath("categories", category.ID))(pages.FormState{Fields: categoryFields(category)}))
}

func (h *WarpHandler) EditCategory(w http.ResponseWriter, r *http.Request) {
	existing, ok := warpRecord(w, r, h.categoryService.ByID)
	if !ok {
		return
	}

	fields := postedFields(r, categoryFieldNames...)
	category := categoryFromFields(fields)
	category.ID = existing.ID
	category.CreatedAt = existing.CreatedAt

	err := h.categoryService.Update(category)
	if err != nil {
		saveFailed(w, r, err, fields, categoryForm(editPath("categories", category.ID)))
		return
	}
	http.Redirect(w, r, showPath("categories", category.ID), http.StatusSeeOther)
}

// Pages

var pageFieldNames = []string{"name", "slug", "title", "keywords", "description", "heading", "locale", "content"}

func pageFields(p *model.Page) map[string]string {
	return map[string]string{
		"name":        p.Name,
		"slug":        p.Slug,
		"title":       p.Title,
		"keywords":    p.Keywords,
		"description": p.Description,
		"heading":     p.Heading,
		"locale":      p.Locale,
		"content":     p.Content,
	}
}

func pageFromFields(fields map[string]string) *model.Page {
	return &model.Page{
		Name:        fields["name"],
		Slug:        fields["slug"],
		Title:       fields["title"],
		Keywords:    fields["keywords"],
		Description: fields["description"],
		Heading:     fields["heading"],
		Locale:      fields["locale"],
		Content:     fields["content"],
	}
}

func pageForm(action string) func(pages.FormState) templ.Component {
	return func(state pages.FormState) templ.Component {
		return pages.WarpForm("warp.pages", action, false, state, []c.Field{
			{Name: "name", Label: "field.name", Value: state.Value("name"), Error: state.Err("name"), Required: true},
			{Name: "slug", Label: "field.slug", Value: state.Value("slug"), Error: state.Err("slug"), Required: true},
			{Name: "locale", Label: "field.locale", Type: "select", Options: localeOptions(), Value: state.Value("locale"), Error: state.Err("locale"), Required: true},
			{Name: "title", Label: "field.title", Value: state.Value("title"), Error: state.Err("title"), Required: true},
			{Name: "keywords", Label: "field.keywords", Value: state.Value("keywords"), Error: state.Err("keywords"), Required: true},
			{Name: "description", Label: "field.description", Value: state.Value("description"), Error: state.Err("description"), Required: true},
			{Name: "heading", Label: "field.heading", Value: state.Value("heading"), Error: state.Err("heading"), Required: true},
			{Name: "content", Label: "field.content", Type: "textarea", Value: state.Value("content"), Error: state.Err("content"), Required: true},
		})
	}
}

func (h *WarpHandler) Pages(w http.ResponseWriter, r *http.Request) {
	list, err := h.pageService.All()
	if err != nil {
		slog.Error("failed to list pages", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	rows := make([][]string, 0, len(list))
	hrefs := make([]string, 0, len(list))
	for _, p := range list {
		rows = append(rows, []string{p.Name, p.Slug, p.Locale, formatTime(p.CreatedAt)})
		hrefs = append(hrefs, showPath("pages", p.ID))
	}
	headers := []string{"field.name", "field.slug", "field.locale", "field.created_at"}
	ui.Render(w, r, pages.WarpIndex("warp.pages", "/warp/pages/new", headers, rows, hrefs))
}

func (h *WarpHandler) NewPagePage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pageForm("/warp/pages/new")(pages.FormState{}))
}

func (h *WarpHandler) NewPage(w http.ResponseWriter, r *http.Request) {
	fields := postedFields(r, pageFieldNames...)
	page := pageFromFields(fields)

	err := h.pageService.Create(page)
	if err != nil {
		saveFailed(w, r, err, fields, pageForm("/warp/pages/new"))
		return
	}
	http.Redirect(w, r, showPath("pages", page.ID), http.StatusSeeOther)
}

func (h *WarpHandler) ShowPage(w http.ResponseWriter, r *http.Request) {
	page, ok := warpRecord(w, r, h.pageService.ByID)
	if !ok {
		return
	}

	details := c.Details(
		"field.name", page.Name,
		"field.slug", page.Slug,
		"field.locale", page.Locale,
		"field.title", page.Title,
		"field.keywords", page.Keywords,
		"field.description", page.Description,
		"field.heading", page.Heading,
		"field.created_at", formatTime(page.CreatedAt),
		"field.updated_at", formatTime(page.UpdatedAt),
	)
	ui.Render(w, r, pages.WarpShow("warp.pages", editPath("pages", page.ID), "", details, c.Article(page.Heading, page.HTMLContent)))
}

func (h *WarpHandler) EditPagePage(w http.ResponseWriter, r *http.Request) {
	page, ok := warpRecord(w, r, h.pageService.ByID)
	if !ok {
		return
	}
	ui.Render(w, r, pageForm(editPath("pages", page.ID))(pages.FormState{Fields: pageFields(page)}))
}

func (h *WarpHandler) EditPage(w http.ResponseWriter, r *http.Request) {
	existing, ok := warpRecord(w, r, h.pageService.ByID)
	if !ok {
		return
	}

	fields := postedFields(r, pageFieldNames...)
	page := pageFromFields(fields)
	page.ID = existing.ID
	page.CreatedAt = existing.CreatedAt

	err := h.pageService.Update(page)
	if err != nil {
		saveFailed(w, r, err, fields, pageForm(editPath("pages", page.ID)))
		return
	}
	http.Redirect(w, r, showPath("pages", page.ID), http.StatusSeeOther)
}
