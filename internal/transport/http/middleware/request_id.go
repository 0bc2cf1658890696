package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
)

type ctxKeyRequestID struct{}

// CtxRequestID — ключ контекста с идентификатором запроса.
var CtxRequestID = ctxKeyRequestID{}

// RequestID обеспечивает наличие X-Request-Id:
//  1. читает заголовок X-Request-Id, если есть;
//  2. иначе генерирует криптографически стойкий hex id (32 символа);
//  3. кладёт id в Response Header, Request Header (его забирает
//     httperr.WriteError) и в контекст по ключу CtxRequestID.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-Id")
			if id == "" {
				id = genID()
				r.Header.Set("X-Request-Id", id)
			}
			w.Header().Set("X-Request-Id", id)

			ctx := context.WithValue(r.Context(), CtxRequestID, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
