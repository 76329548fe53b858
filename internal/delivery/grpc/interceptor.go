package grpc

import (
	"context"
	"strings"
	"time"

	"github.com/vogiaan1904/ticketbottle-ticketing/internal/service"
	"github.com/vogiaan1904/ticketbottle-ticketing/pkg/logger"
	resp "github.com/vogiaan1904/ticketbottle-ticketing/pkg/response"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// AdminAuthInterceptor requires an admin bearer token in the
// "authorization" metadata for every ticketing method. Other services,
// such as health, pass through.
func AdminAuthInterceptor(authSvc service.AuthService) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if !strings.HasPrefix(info.FullMethod, "/"+TicketingServiceName+"/") {
			return handler(ctx, req)
		}

		md, _ := metadata.FromIncomingContext(ctx)
		var token string
		for _, v := range md.Get("authorization") {
			if t, ok := strings.CutPrefix(v, "Bearer "); ok {
				token = t
				break
			}
		}
		if token == "" {
			return nil, resp.ParseGRPCError(errUnauthorized)
		}

		if _, err := authSvc.ValidateToken(ctx, token); err != nil {
			return nil, resp.ParseGRPCError(mapGRPCError(err))
		}
		return handler(ctx, req)
	}
}

func LoggingInterceptor(l logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		res, err := handler(ctx, req)
		l.Infof(ctx, "%s %s %s", info.FullMethod, status.Code(err), time.Since(start))
		return res, err
	}
}
