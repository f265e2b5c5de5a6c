package team

import "context"

// Repository defines the read-only warehouse query for the account-team
// directory table.
type Repository interface {
	// ListDirectory returns every (role code, person) directory row in
	// stable source order.
	ListDirectory(ctx context.Context) ([]Record, error)
}
