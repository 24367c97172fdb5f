package checkout

import "context"

type waiterKey struct{}

// WithWaiter attaches the identity of the staff member placing the order.
func WithWaiter(ctx context.Context, waiterID string) context.Context {
	return context.WithValue(ctx, waiterKey{}, waiterID)
}

func WaiterFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(waiterKey{}).(string)
	return id, ok && id != ""
}
