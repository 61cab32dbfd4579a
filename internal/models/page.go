package models

// Page is a server-paginated slice. Content arrives newest-first for
// message endpoints; callers reverse for display.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	Last          bool  `json:"last"`
}
