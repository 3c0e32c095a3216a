package model

import "time"

// Blog is a post on the peña news feed.  Posts are written by admins and
// may carry any number of tags through the blog_tags junction table.
//
// Fields:
//  ID         – primary key identifier.
//  Title      – post title.
//  Content    – full post body (markdown/html as the frontend renders it).
//  AuthorID   – user who wrote the post (nullable when the author is gone).
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Blog struct {
    ID        uint64    // blogs.id
    Title     string    // blogs.title
    Content   string    // blogs.content
    AuthorID  *uint64   // blogs.author_id (nullable)
    CreatedAt time.Time // blogs.created_at
    UpdatedAt time.Time // blogs.updated_at
}

// Tag labels blog posts.  Slug is the URL-safe form used for filtering
// (e.g. "la-liga" for "La Liga").
type Tag struct {
    ID        uint64    // tags.id
    Name      string    // tags.name
    Slug      string    // tags.slug
    CreatedAt time.Time // tags.created_at
}
