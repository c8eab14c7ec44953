package catalog

// Category represents a node in the catalog's category hierarchy.
// ParentID may reference a category that is absent from the current set;
// such categories are treated as roots, not as errors.
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	NameAr   string `json:"nameAr"`
	ParentID string `json:"parentId,omitempty"`
}

// IsRoot returns true if the category has no parent reference.
func (c Category) IsRoot() bool {
	return c.ParentID == ""
}
