package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/model"
    "github.com/TEJASVISJAIN/fcb-hyderabad-backend/internal/utils"
)

// BlogRepo provides data access to blogs, tags and the blog_tags junction
// table.  Tag names are aggregated per post with GROUP_CONCAT; attaching
// tags uses get-or-create so admins can type new tag names freely.
type BlogRepo struct{ DB *sql.DB }

// NewBlogRepo returns a new BlogRepo bound to the provided database.
func NewBlogRepo(db *sql.DB) *BlogRepo { return &BlogRepo{DB: db} }

// BlogPost is a blog row with author info and tag names attached.
type BlogPost struct {
    model.Blog
    AuthorName  *string  `json:"author_name"`
    AuthorEmail *string  `json:"author_email"`
    Tags        []string `json:"tags"`
}

func splitTags(csv sql.NullString) []string {
    if !csv.Valid || csv.String == "" {
        return []string{}
    }
    return strings.Split(csv.String, ",")
}

const blogSelect = `SELECT b.id, b.title, b.content, b.author_id, b.created_at, b.updated_at,
           u.name, u.email,
           GROUP_CONCAT(DISTINCT t.name ORDER BY t.name SEPARATOR ',')
      FROM blogs b
      LEFT JOIN users u ON u.id = b.author_id
      LEFT JOIN blog_tags bt ON bt.blog_id = b.id
      LEFT JOIN tags t ON t.id = bt.tag_id`

func scanBlogPost(row interface{ Scan(...any) error }) (BlogPost, error) {
    var (
        p   BlogPost
        csv sql.NullString
    )
    err := row.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt,
        &p.AuthorName, &p.AuthorEmail, &csv)
    p.Tags = splitTags(csv)
    return p, err
}

// List returns a page of posts, newest first, together with the total post
// count for pagination.  When tagSlug is non-empty only posts carrying
// that tag are returned.
func (r *BlogRepo) List(ctx context.Context, page, limit int, tagSlug string) ([]BlogPost, int, error) {
    if page < 1 {
        page = 1
    }
    if limit < 1 {
        limit = 10
    }
    offset := (page - 1) * limit

    var (
        rows *sql.Rows
        err  error
    )
    if tagSlug != "" {
        rows, err = r.DB.QueryContext(ctx, blogSelect+`
          WHERE b.id IN (SELECT bt2.blog_id FROM blog_tags bt2
                          JOIN tags t2 ON t2.id = bt2.tag_id
                         WHERE t2.slug = ?)
          GROUP BY b.id, u.name, u.email
          ORDER BY b.created_at DESC
          LIMIT ? OFFSET ?`, tagSlug, limit, offset)
    } else {
        rows, err = r.DB.QueryContext(ctx, blogSelect+`
          GROUP BY b.id, u.name, u.email
          ORDER BY b.created_at DESC
          LIMIT ? OFFSET ?`, limit, offset)
    }
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()
    posts := []BlogPost{}
    for rows.Next() {
        p, err := scanBlogPost(rows)
        if err != nil {
            return nil, 0, err
        }
        posts = append(posts, p)
    }
    if err := rows.Err(); err != nil {
        return nil, 0, err
    }

    var total int
    if tagSlug != "" {
        err = r.DB.QueryRowContext(ctx,
            `SELECT COUNT(DISTINCT b.id) FROM blogs b
              JOIN blog_tags bt ON bt.blog_id = b.id
              JOIN tags t ON t.id = bt.tag_id
             WHERE t.slug = ?`, tagSlug).Scan(&total)
    } else {
        err = r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM blogs`).Scan(&total)
    }
    if err != nil {
        return nil, 0, err
    }
    return posts, total, nil
}

// GetByID fetches one post with author and tags.  Returns ErrBlogNotFound
// when absent.
func (r *BlogRepo) GetByID(ctx context.Context, id uint64) (BlogPost, error) {
    p, err := scanBlogPost(r.DB.QueryRowContext(ctx, blogSelect+`
          WHERE b.id = ?
          GROUP BY b.id, u.name, u.email`, id))
    if err == sql.ErrNoRows {
        return BlogPost{}, ErrBlogNotFound
    }
    // The LEFT JOIN aggregate always yields a row; an absent blog comes
    // back with a zero id instead of sql.ErrNoRows.
    if err == nil && p.ID == 0 {
        return BlogPost{}, ErrBlogNotFound
    }
    return p, err
}

// getOrCreateTagTx resolves a tag name to its id, creating the tag (with a
// slug derived from the name) when it does not exist yet.
func (r *BlogRepo) getOrCreateTagTx(ctx context.Context, tx *sql.Tx, name string) (uint64, error) {
    name = strings.TrimSpace(name)
    var id uint64
    err := tx.QueryRowContext(ctx, `SELECT id FROM tags WHERE name = ?`, name).Scan(&id)
    if err == nil {
        return id, nil
    }
    if err != sql.ErrNoRows {
        return 0, err
    }
    res, err := tx.ExecContext(ctx,
        `INSERT INTO tags (name, slug) VALUES (?, ?)`, name, utils.Slugify(name))
    if err != nil {
        return 0, err
    }
    newID, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(newID), nil
}

func (r *BlogRepo) attachTagsTx(ctx context.Context, tx *sql.Tx, blogID uint64, tags []string) error {
    for _, name := range tags {
        if strings.TrimSpace(name) == "" {
            continue
        }
        tagID, err := r.getOrCreateTagTx(ctx, tx, name)
        if err != nil {
            return err
        }
        if _, err := tx.ExecContext(ctx,
            `INSERT IGNORE INTO blog_tags (blog_id, tag_id) VALUES (?, ?)`,
            blogID, tagID); err != nil {
            return err
        }
    }
    return nil
}

// Create inserts a post and attaches its tags in one transaction.
func (r *BlogRepo) Create(ctx context.Context, title, content string, authorID uint64, tags []string) (uint64, error) {
    tx, err := r.DB.BeginTx(ctx, nil)
    if err != nil {
        return 0, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    res, err := tx.ExecContext(ctx,
        `INSERT INTO blogs (title, content, author_id) VALUES (?, ?, ?)`,
        title, content, authorID)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    if err := r.attachTagsTx(ctx, tx, uint64(id), tags); err != nil {
        return 0, err
    }
    if err := tx.Commit(); err != nil {
        return 0, err
    }
    committed = true
    return uint64(id), nil
}

// Update patches title/content (nil leaves the column alone) and, when
// tags is non-nil, replaces the post's tag set.
func (r *BlogRepo) Update(ctx context.Context, id uint64, title, content *string, tags []string) error {
    tx, err := r.DB.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    res, err := tx.ExecContext(ctx,
        `UPDATE blogs SET title = COALESCE(?, title), content = COALESCE(?, content),
                updated_at = UTC_TIMESTAMP()
          WHERE id = ?`, title, content, id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        var exists uint64
        if err := tx.QueryRowContext(ctx, `SELECT id FROM blogs WHERE id = ?`, id).Scan(&exists); err == sql.ErrNoRows {
            return ErrBlogNotFound
        } else if err != nil {
            return err
        }
    }
    if tags != nil {
        if _, err := tx.ExecContext(ctx, `DELETE FROM blog_tags WHERE blog_id = ?`, id); err != nil {
            return err
        }
        if err := r.attachTagsTx(ctx, tx, id, tags); err != nil {
            return err
        }
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// Delete removes a post (junction rows cascade).  Returns ErrBlogNotFound
// when nothing was deleted.
func (r *BlogRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.DB.ExecContext(ctx, `DELETE FROM blogs WHERE id = ?`, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrBlogNotFound
    }
    return nil
}

// ListTags returns all tags ordered by name.
func (r *BlogRepo) ListTags(ctx context.Context) ([]model.Tag, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT id, name, slug, created_at FROM tags ORDER BY name`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    tags := []model.Tag{}
    for rows.Next() {
        var t model.Tag
        if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt); err != nil {
            return nil, err
        }
        tags = append(tags, t)
    }
    return tags, rows.Err()
}
