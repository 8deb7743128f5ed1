package user

import "context"

// UserRepository is the persistence port for the billing view of users.
// Only the reconciliation and downgrade paths mutate these fields.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*User, error)
	Update(ctx context.Context, u *User) error
}
