package model

import "time"

// TaskNode is one row of the task forest: either a live to-do item or a
// node inside a template definition, depending on Template.
//
// Children are discovered by querying "parent == X" (see store.DB.ChildrenOf);
// a node does not own a child collection.
type TaskNode struct {
	ID       string  `json:"id"`
	ParentID *string `json:"parentId,omitempty"`

	Name      string `json:"name"`
	Completed bool   `json:"completed"`

	// Template partitions the forest: live nodes and template-definition
	// nodes never mix as parent/child across this flag.
	Template bool `json:"template,omitempty"`

	// DisplayOrder is a 0-based index unique within the sibling group
	// (same parent, same Template flag) after the engine has resequenced.
	DisplayOrder int `json:"displayOrder"`

	CreatedAt time.Time `json:"createdAt"`
}

// TaskTemplate names a reusable task tree. RootNodeID points at an unnamed
// template-flagged container node whose descendants are the template's tasks.
// Deleting a template cascades through that subtree.
type TaskTemplate struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	RootNodeID string    `json:"rootNodeId"`
	CreatedAt  time.Time `json:"createdAt"`
}
