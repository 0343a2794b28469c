// Package domain defines the typed records flowing through the import
// pipeline and the field-normalization helpers shared by their decoders.
package domain

import "time"

// Entity identifies one of the five dump record kinds. The value doubles
// as the dump file's base name (Users -> Users.xml).
type Entity string

const (
	EntityUsers    Entity = "Users"
	EntityTags     Entity = "Tags"
	EntityPosts    Entity = "Posts"
	EntityComments Entity = "Comments"
	EntityVotes    Entity = "Votes"
)

// AllEntities lists the entities in foreign-key order: users and tags carry
// no references, posts reference tags, comments and votes reference posts
// and users. The writer's final drain flushes in this order.
var AllEntities = []Entity{EntityUsers, EntityTags, EntityPosts, EntityComments, EntityVotes}

// Record is the closed union carried on the pipeline channel. Exactly the
// five dump record types implement it; the batching writer switches on the
// concrete type to pick the target buffer.
type Record interface {
	Entity() Entity
}

// User is one row of Users.xml. Only the identity and display name survive
// the import.
type User struct {
	ID   int64
	Name *string
}

func (User) Entity() Entity { return EntityUsers }

// Tag is one row of Tags.xml.
type Tag struct {
	ID            int64
	Name          *string
	ExcerptPostID *int64
}

func (Tag) Entity() Entity { return EntityTags }

// Post is one row of Posts.xml. TagList keeps the raw pipe-delimited value;
// it is split and resolved against the tags table at write time.
type Post struct {
	ID         int64
	PostTypeID int
	OwnerID    *int64
	Title      *string
	Body       *string
	TagList    *string
	ParentID   *int64
	AnswerID   *int64
	Created    *time.Time
	Updated    *time.Time
}

func (Post) Entity() Entity { return EntityPosts }

// Comment is one row of Comments.xml. PostID is always set; a source row
// without one yields 0.
type Comment struct {
	ID      int64
	PostID  int64
	UserID  *int64
	Text    *string
	Created *time.Time
}

func (Comment) Entity() Entity { return EntityComments }

// Vote is one row of Votes.xml. The source Id attribute gates decoding but
// is not persisted.
type Vote struct {
	PostID     int64
	VoteTypeID int
	UserID     *int64
	Created    *time.Time
}

func (Vote) Entity() Entity { return EntityVotes }
