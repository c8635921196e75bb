package surface

import "context"

// Surface is a user-facing front end. Run blocks until the user leaves or ctx
// is done.
type Surface interface {
	Run(ctx context.Context) error
	Name() string
}
