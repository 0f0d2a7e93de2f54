package rpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/victornm/trivia/internal/domain"
)

const (
	serviceName = "trivia.question.v1.QuestionService"

	methodRandomQuestionIDs = "/" + serviceName + "/RandomQuestionIDs"
	methodQuestionsByIDs    = "/" + serviceName + "/QuestionsByIDs"
	methodScore             = "/" + serviceName + "/Score"
)

type (
	RandomQuestionIDsRequest struct {
		Category string `json:"category"`
		Count    int    `json:"count"`
	}

	RandomQuestionIDsResponse struct {
		QuestionIDs []int64 `json:"question_ids"`
	}

	QuestionsByIDsRequest struct {
		QuestionIDs []int64 `json:"question_ids"`
	}

	QuestionsByIDsResponse struct {
		Questions []domain.QuestionWrapper `json:"questions"`
	}

	ScoreRequest struct {
		Responses []domain.Response `json:"responses"`
	}

	ScoreResponse struct {
		Score int `json:"score"`
	}
)

// QuestionServiceServer is the server side of the question service RPCs.
type QuestionServiceServer interface {
	RandomQuestionIDs(ctx context.Context, req *RandomQuestionIDsRequest) (*RandomQuestionIDsResponse, error)
	QuestionsByIDs(ctx context.Context, req *QuestionsByIDsRequest) (*QuestionsByIDsResponse, error)
	Score(ctx context.Context, req *ScoreRequest) (*ScoreResponse, error)
}

// RegisterQuestionServiceServer registers srv on s.
func RegisterQuestionServiceServer(s grpc.ServiceRegistrar, srv QuestionServiceServer) {
	s.RegisterService(&questionServiceDesc, srv)
}

var questionServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*QuestionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "RandomQuestionIDs",
			Handler: unaryHandler(methodRandomQuestionIDs, func(srv QuestionServiceServer, ctx context.Context, req *RandomQuestionIDsRequest) (any, error) {
				return srv.RandomQuestionIDs(ctx, req)
			}),
		},
		{
			MethodName: "QuestionsByIDs",
			Handler: unaryHandler(methodQuestionsByIDs, func(srv QuestionServiceServer, ctx context.Context, req *QuestionsByIDsRequest) (any, error) {
				return srv.QuestionsByIDs(ctx, req)
			}),
		},
		{
			MethodName: "Score",
			Handler: unaryHandler(methodScore, func(srv QuestionServiceServer, ctx context.Context, req *ScoreRequest) (any, error) {
				return srv.Score(ctx, req)
			}),
		},
	},
	Streams: []grpc.StreamDesc{},
}

// methodHandler has the signature grpc.MethodDesc expects of its Handler.
type methodHandler = func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error)

// unaryHandler adapts a typed method to a methodHandler, running it through the server interceptors.
func unaryHandler[Req any](fullMethod string, call func(QuestionServiceServer, context.Context, *Req) (any, error)) methodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}

		if interceptor == nil {
			return call(srv.(QuestionServiceServer), ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(QuestionServiceServer), ctx, req.(*Req))
		}

		return interceptor(ctx, in, info, handler)
	}
}
