package model

import "time"

// LineageEdge links a parent (source) to a child (derived) content item.
// Only the source direction is written; the derived direction is the reverse
// lookup, which keeps both directions consistent by construction.
//
// Position preserves the order sources were declared in: sourceIdeas, then
// sourcePosts, then sourceDiscussions, duplicates kept.
type LineageEdge struct {
	ID         string      `gorm:"primaryKey;type:varchar(36)"`
	ParentKind ContentKind `gorm:"type:varchar(16);index:idx_lineage_parent;not null"`
	ParentID   string      `gorm:"type:varchar(36);index:idx_lineage_parent;not null"`
	ChildKind  ContentKind `gorm:"type:varchar(16);index:idx_lineage_child;not null"`
	ChildID    string      `gorm:"type:varchar(36);index:idx_lineage_child;not null"`
	Position   int
	CreatedAt  time.Time
}

func (LineageEdge) TableName() string { return "lineage_edges" }

// Lineage relationship labels and levels as exposed to clients.
const (
	RelParent  = "parent"
	RelCurrent = "current"
	RelChild   = "child"

	LevelParent  = -1
	LevelCurrent = 0
	LevelChild   = 1
)
