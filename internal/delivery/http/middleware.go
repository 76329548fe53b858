package http

import (
	"context"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/metrics"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/service"
	"github.com/vogiaan1904/ticketbottle-ticketing/pkg/logger"
)

type adminCtxKey struct{}

func adminFromContext(ctx context.Context) (*service.AdminClaims, bool) {
	claims, ok := ctx.Value(adminCtxKey{}).(*service.AdminClaims)
	return claims, ok
}

// RequireAdmin rejects requests without a valid admin bearer token.
func (h *HTTPHandler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			h.respondError(w, r, errUnauthorized)
			return
		}

		claims, err := h.authSvc.ValidateToken(r.Context(), token)
		if err != nil {
			h.respondError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), adminCtxKey{}, claims)))
	})
}

// accessLog records one line and one latency sample per request.
func accessLog(l logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := l.WithFields(r.Context(), "request_id", middleware.GetReqID(r.Context()))
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			elapsed := time.Since(start)

			metrics.HTTPRequestDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
			l.Infof(ctx, "%s %s %d %s", r.Method, r.URL.Path, status, elapsed)
		})
	}
}

// corsHandler allows the configured origins. Credentials are only allowed
// when every origin is listed explicitly.
func corsHandler(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Razorpay-Signature"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: !slices.Contains(origins, "*"),
		MaxAge:           300,
	})
}
