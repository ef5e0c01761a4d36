package model

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Comment is a single comment. ParentID is either another comment (a reply) or the uuid the
// thread is attached to (the thread root).
type Comment struct {
	Base
	Title       *string   `json:"title"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	AuthorID    int       `json:"authorId"`
	ParentID    int       `json:"parentId"`
	ChildrenIDs []int     `json:"childrenIds"`
	Archived    bool      `json:"archived"`
}

func (*Comment) Typename() Typename { return TypenameComment }

// Thread is a view over the comments of one discussion. It holds no state of its own: every
// field is derived from the comments. A Thread with no comments is the id-only tier handed out
// when a query selects nothing but the thread id.
type Thread struct {
	FirstCommentID int
	Comments       []*Comment
}

// NewThread builds the thread rooted at firstCommentID. The root is looked up by id, so the
// order in which the comments service lists the comments does not matter.
func NewThread(firstCommentID int, comments []*Comment) (*Thread, error) {
	for _, comment := range comments {
		if comment.ID == firstCommentID {
			return &Thread{FirstCommentID: firstCommentID, Comments: comments}, nil
		}
	}
	return nil, fmt.Errorf("thread %d does not contain its first comment", firstCommentID)
}

func (t *Thread) ID() string {
	return EncodeThreadID(t.FirstCommentID)
}

// Root is the first comment of the thread.
func (t *Thread) Root() *Comment {
	for _, comment := range t.Comments {
		if comment.ID == t.FirstCommentID {
			return comment
		}
	}
	return nil
}

func (t *Thread) Title() *string {
	if root := t.Root(); root != nil {
		return root.Title
	}
	return nil
}

func (t *Thread) Archived() bool {
	if root := t.Root(); root != nil {
		return root.Archived
	}
	return false
}

func (t *Thread) Trashed() bool {
	if root := t.Root(); root != nil {
		return root.Trashed
	}
	return false
}

// ObjectID is the uuid the thread is attached to.
func (t *Thread) ObjectID() int {
	if root := t.Root(); root != nil {
		return root.ParentID
	}
	return 0
}

// CreatedAt is the earliest creation date of all comments.
func (t *Thread) CreatedAt() time.Time {
	var res time.Time
	for i, comment := range t.Comments {
		if i == 0 || comment.CreatedAt.Before(res) {
			res = comment.CreatedAt
		}
	}
	return res
}

// UpdatedAt is the latest creation or update date of all comments.
func (t *Thread) UpdatedAt() time.Time {
	var res time.Time
	for _, comment := range t.Comments {
		if comment.CreatedAt.After(res) {
			res = comment.CreatedAt
		}
		if comment.UpdatedAt.After(res) {
			res = comment.UpdatedAt
		}
	}
	return res
}

const threadIDPrefix = "t"

// EncodeThreadID turns the id of a thread's first comment into the opaque thread id.
func EncodeThreadID(firstCommentID int) string {
	return base64.StdEncoding.EncodeToString([]byte(threadIDPrefix + strconv.Itoa(firstCommentID)))
}

// DecodeThreadID is the inverse of EncodeThreadID.
func DecodeThreadID(id string) (int, error) {
	raw, err := base64.StdEncoding.DecodeString(id)
	if err != nil {
		return 0, fmt.Errorf("invalid thread id %q: %w", id, err)
	}
	s := string(raw)
	if !strings.HasPrefix(s, threadIDPrefix) {
		return 0, fmt.Errorf("invalid thread id %q", id)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(s, threadIDPrefix))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid thread id %q", id)
	}
	return n, nil
}
