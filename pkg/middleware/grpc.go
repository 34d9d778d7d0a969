package middleware

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/shayaansultan/logkit/pkg/xlog"
)

// UnaryServerLogging 为 Unary RPC 提供日志中间件，
// handler 通过 xlog.FromContext 拿到带请求字段的 logger
func UnaryServerLogging() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		log := scopedLogger(ctx, info.FullMethod)
		log.Info("grpc request started")

		start := time.Now()
		resp, err := handler(xlog.WithContext(ctx, log), req)
		logOutcome(log, "grpc request", start, err)

		return resp, err
	}
}

// StreamServerLogging 为 Stream RPC 提供日志中间件
func StreamServerLogging() grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx := ss.Context()
		log := scopedLogger(ctx, info.FullMethod)
		log.Info("grpc stream started",
			"is_client_stream", info.IsClientStream,
			"is_server_stream", info.IsServerStream,
		)

		start := time.Now()
		err := handler(srv, &loggingServerStream{
			ServerStream: ss,
			ctx:          xlog.WithContext(ctx, log),
		})
		logOutcome(log, "grpc stream", start, err)

		return err
	}
}

// UnaryClientLogging 为客户端 Unary RPC 提供日志中间件，
// 正常调用记 Debug，失败记 Error，主动取消的调用不算失败
func UnaryClientLogging() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		log := xlog.FromContext(ctx).With("method", method, "target", cc.Target())
		log.Debug("grpc client request started")

		start := time.Now()
		err := invoker(ctx, method, req, reply, cc, opts...)
		elapsed := time.Since(start).String()

		switch st := status.Convert(err); {
		case err == nil:
			log.Debug("grpc client request completed", "duration", elapsed)
		case st.Code() != codes.Canceled:
			log.Error("grpc client request failed",
				"duration", elapsed,
				"code", st.Code().String(),
				"error", st.Message(),
			)
		}

		return err
	}
}

// scopedLogger 从 context 取出 logger 并附上本次请求的字段
func scopedLogger(ctx context.Context, fullMethod string) *xlog.Logger {
	log := xlog.FromContext(ctx).With("method", fullMethod)
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get("x-request-id"); len(values) > 0 {
			log = log.With("request_id", values[0])
		}
	}
	return log
}

func logOutcome(log *xlog.Logger, what string, start time.Time, err error) {
	elapsed := time.Since(start).String()
	if err == nil {
		log.Info(what+" completed", "duration", elapsed)
		return
	}
	st := status.Convert(err)
	log.Error(what+" failed",
		"duration", elapsed,
		"code", st.Code().String(),
		"error", st.Message(),
	)
}

type loggingServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *loggingServerStream) Context() context.Context {
	return s.ctx
}
