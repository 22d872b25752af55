package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/models"
)

// --- BlogPost Queries ---

const query_InsertPost = `INSERT INTO blog_posts (author_id, title, subtitle, date, body, img_url) VALUES (?, ?, ?, ?, ?, ?)`

// InsertPost creates a new blog post and fills in the assigned ID
func (db *Database) InsertPost(p *models.BlogPost) error {
	result, err := retryableExec(db.mainDB, query_InsertPost,
		p.AuthorID, p.Title, p.Subtitle, p.Date, p.Body, p.ImgURL,
	)
	if err != nil {
		if isUniqueViolation(err, "blog_posts.title") {
			return ErrDuplicateTitle
		}
		return fmt.Errorf("failed to insert post: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get post id: %w", err)
	}
	p.ID = id
	return nil
}

const query_GetPostByID = `SELECT p.id, p.author_id, p.title, p.subtitle, p.date, p.body, p.img_url, p.created_at, u.display_name
	FROM blog_posts p JOIN users u ON u.id = p.author_id WHERE p.id = ?`

func (db *Database) GetPostByID(id int64) (*models.BlogPost, error) {
	var p models.BlogPost
	err := retryableQueryRowScan(db.mainDB, query_GetPostByID, []interface{}{id},
		&p.ID, &p.AuthorID, &p.Title, &p.Subtitle, &p.Date, &p.Body, &p.ImgURL,
		&p.CreatedAt, &p.AuthorName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

const query_GetAllPosts = `SELECT p.id, p.author_id, p.title, p.subtitle, p.date, p.body, p.img_url, p.created_at, u.display_name
	FROM blog_posts p JOIN users u ON u.id = p.author_id ORDER BY p.id`

// GetAllPosts returns all posts with their author display names
func (db *Database) GetAllPosts() ([]*models.BlogPost, error) {
	rows, err := retryableQuery(db.mainDB, query_GetAllPosts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.BlogPost
	for rows.Next() {
		var p models.BlogPost
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Subtitle, &p.Date,
			&p.Body, &p.ImgURL, &p.CreatedAt, &p.AuthorName); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

const query_UpdatePost = `UPDATE blog_posts SET title = ?, subtitle = ?, body = ?, img_url = ?, author_id = ? WHERE id = ?`

// UpdatePost overwrites all mutable fields of a post. The author is
// reassigned to whoever edits; the display date is preserved.
func (db *Database) UpdatePost(p *models.BlogPost) error {
	result, err := retryableExec(db.mainDB, query_UpdatePost,
		p.Title, p.Subtitle, p.Body, p.ImgURL, p.AuthorID, p.ID,
	)
	if err != nil {
		if isUniqueViolation(err, "blog_posts.title") {
			return ErrDuplicateTitle
		}
		return fmt.Errorf("failed to update post: %w", err)
	}
	return requireRowsAffected(result)
}

const query_DeletePost = `DELETE FROM blog_posts WHERE id = ?`

// DeletePost removes a post; its comments cascade via the schema
func (db *Database) DeletePost(id int64) error {
	result, err := retryableExec(db.mainDB, query_DeletePost, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return requireRowsAffected(result)
}

const query_CountPosts = `SELECT COUNT(*) FROM blog_posts`

// CountPosts returns the total number of posts
func (db *Database) CountPosts() (int64, error) {
	var n int64
	err := retryableQueryRowScan(db.mainDB, query_CountPosts, nil, &n)
	return n, err
}
