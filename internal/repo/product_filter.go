package repo

// ProductFilter matches Search against name or code, case-insensitively.
type ProductFilter struct {
	Search string
	Offset *int
	Limit  *int
}

const defaultLimit = 100
