package handler

import (
    "errors"
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/repository"
)

// BlogHandler serves the club news section: public listing and reading,
// admin authoring.
type BlogHandler struct {
    Blogs *repository.BlogRepo
}

func NewBlogHandler(blogs *repository.BlogRepo) *BlogHandler {
    if blogs == nil {
        panic("nil repository passed to NewBlogHandler")
    }
    return &BlogHandler{Blogs: blogs}
}

func toBlogResp(p repository.BlogPost) echo.Map {
    return echo.Map{
        "id":           p.ID,
        "title":        p.Title,
        "content":      p.Content,
        "author_id":    p.AuthorID,
        "author_name":  p.AuthorName,
        "author_email": p.AuthorEmail,
        "tags":         p.Tags,
        "created_at":   p.CreatedAt,
        "updated_at":   p.UpdatedAt,
    }
}

// List handles GET /api/blogs?page=&limit=&tag=.  The tag filter matches
// tag slugs.
func (h *BlogHandler) List(c echo.Context) error {
    page, _ := strconv.Atoi(c.QueryParam("page"))
    limit, _ := strconv.Atoi(c.QueryParam("limit"))
    if page < 1 {
        page = 1
    }
    if limit < 1 || limit > 50 {
        limit = 10
    }
    posts, total, err := h.Blogs.List(c.Request().Context(), page, limit, c.QueryParam("tag"))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]echo.Map, 0, len(posts))
    for _, p := range posts {
        out = append(out, toBlogResp(p))
    }
    return c.JSON(http.StatusOK, echo.Map{
        "items": out,
        "pagination": echo.Map{
            "page":  page,
            "limit": limit,
            "total": total,
            "pages": (total + limit - 1) / limit,
        },
    })
}

// Get handles GET /api/blogs/:id.
func (h *BlogHandler) Get(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid blog id"})
    }
    p, err := h.Blogs.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrBlogNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "blog not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": toBlogResp(p)})
}

type blogCreateReq struct {
    Title   string   `json:"title"`
    Content string   `json:"content"`
    Tags    []string `json:"tags"`
}

// Create handles POST /api/blogs (admin).  Unknown tag names are created
// on the fly.
func (h *BlogHandler) Create(c echo.Context) error {
    authorID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body blogCreateReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    body.Title = strings.TrimSpace(body.Title)
    if body.Title == "" || strings.TrimSpace(body.Content) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and content are required"})
    }
    ctx := c.Request().Context()
    id, err := h.Blogs.Create(ctx, body.Title, body.Content, authorID, body.Tags)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create blog"})
    }
    p, err := h.Blogs.GetByID(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load blog"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"item": toBlogResp(p)})
}

type blogUpdateReq struct {
    Title   *string  `json:"title"`
    Content *string  `json:"content"`
    Tags    []string `json:"tags"`
}

// Update handles PUT /api/blogs/:id (admin).  A non-null tags array
// replaces the post's tag set entirely.
func (h *BlogHandler) Update(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid blog id"})
    }
    var body blogUpdateReq
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    ctx := c.Request().Context()
    if err := h.Blogs.Update(ctx, id, body.Title, body.Content, body.Tags); err != nil {
        if errors.Is(err, repository.ErrBlogNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "blog not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update blog"})
    }
    p, err := h.Blogs.GetByID(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load blog"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": toBlogResp(p)})
}

// Delete handles DELETE /api/blogs/:id (admin).
func (h *BlogHandler) Delete(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid blog id"})
    }
    if err := h.Blogs.Delete(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrBlogNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "blog not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete blog"})
    }
    return c.NoContent(http.StatusNoContent)
}

// Tags handles GET /api/blogs/tags/all.
func (h *BlogHandler) Tags(c echo.Context) error {
    tags, err := h.Blogs.ListTags(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    out := make([]echo.Map, 0, len(tags))
    for _, t := range tags {
        out = append(out, echo.Map{"id": t.ID, "name": t.Name, "slug": t.Slug})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": out})
}
