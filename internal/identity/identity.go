// identity — request-scoped личность аутентифицированного запроса.
//
// Явная замена амбиентного SecurityContext: личность живёт только в контексте
// своего запроса и передаётся по цепочке вызовов, никакого глобального
// изменяемого состояния между запросами нет.
package identity

import "context"

// Identity — разрешённая личность запроса: subject и device из проверенного токена.
type Identity struct {
	UserID   string
	DeviceID string
}

type ctxKey struct{}

// Into кладёт личность в контекст запроса.
func Into(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// From достаёт личность из контекста. ok == false — запрос не аутентифицирован.
func From(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
