package domain

// Category groups tickets. ItemCount is seeded and not maintained by the store.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
	ParentID    string `json:"parentId,omitempty"`
	ItemCount   int    `json:"itemCount"`
}
