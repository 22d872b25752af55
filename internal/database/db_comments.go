package database

import (
	"fmt"

	"github.com/BadBoy-Github/Bamboo-Blogs-Sample/internal/models"
)

// --- Comment Queries ---

const query_InsertComment = `INSERT INTO comments (text, author_id, post_id) VALUES (?, ?, ?)`

// InsertComment appends a comment to a post. The post is looked up first so
// a missing one surfaces as ErrNotFound instead of a constraint error.
func (db *Database) InsertComment(c *models.Comment) error {
	if _, err := db.GetPostByID(c.PostID); err != nil {
		return err
	}
	result, err := retryableExec(db.mainDB, query_InsertComment,
		c.Text, c.AuthorID, c.PostID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get comment id: %w", err)
	}
	c.ID = id
	return nil
}

const query_GetCommentsByPost = `SELECT c.id, c.text, c.author_id, c.post_id, c.created_at, u.display_name
	FROM comments c JOIN users u ON u.id = c.author_id WHERE c.post_id = ? ORDER BY c.id`

// GetCommentsByPost returns a post's comments with their author display names
func (db *Database) GetCommentsByPost(postID int64) ([]*models.Comment, error) {
	rows, err := retryableQuery(db.mainDB, query_GetCommentsByPost, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.Text, &c.AuthorID, &c.PostID, &c.CreatedAt, &c.AuthorName); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

const query_CountCommentsByPost = `SELECT COUNT(*) FROM comments WHERE post_id = ?`

// CountCommentsByPost returns the number of comments on a post
func (db *Database) CountCommentsByPost(postID int64) (int64, error) {
	var n int64
	err := retryableQueryRowScan(db.mainDB, query_CountCommentsByPost, []interface{}{postID}, &n)
	return n, err
}
