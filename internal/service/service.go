// Package service serves the signature codec over gRPC. The service
// definition is parsed from the embedded proto at startup and handled
// through dynamic messages, so no generated stubs are checked in.
package service

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/funvibe/funsql/internal/descpool"
	"github.com/funvibe/funsql/internal/signature"
	"github.com/funvibe/funsql/internal/types"
	"github.com/funvibe/funsql/internal/wire"
)

//go:embed funsql.proto
var serviceProto string

const serviceName = "funsql.SignatureService"

// DeclarationContext values of the service proto.
const (
	contextBare          = 0
	contextFunction      = 1
	contextTableFunction = 2
	contextProcedure     = 3
)

// Server hosts SignatureService on a grpc.Server.
type Server struct {
	grpc  *grpc.Server
	sd    *desc.ServiceDescriptor
	types *descpool.Pool
	log   *zap.Logger
}

// NewServer parses the embedded service definition and registers its
// handlers. typePool resolves PROTO and ENUM references inside
// signatures and may be nil; log may be nil to discard logs.
func NewServer(typePool *descpool.Pool, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	servicePool := descpool.New()
	err := servicePool.LoadFileContents(
		map[string]string{"funsql.proto": serviceProto}, "funsql.proto")
	if err != nil {
		return nil, fmt.Errorf("parsing service definition: %w", err)
	}
	sd, err := servicePool.FindService(serviceName)
	if err != nil {
		return nil, fmt.Errorf("parsing service definition: %w", err)
	}

	s := &Server{
		grpc:  grpc.NewServer(),
		sd:    sd,
		types: typePool,
		log:   log,
	}
	gd := &grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*interface{})(nil),
		Metadata:    sd.GetFile().GetName(),
	}
	for _, method := range sd.GetMethods() {
		md := method
		gd.Methods = append(gd.Methods, grpc.MethodDesc{
			MethodName: md.GetName(),
			Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
				return srv.(*Server).handleUnary(ctx, md, dec)
			},
		})
	}
	s.grpc.RegisterService(gd, s)
	return s, nil
}

// ServiceDescriptor returns the parsed service definition. Clients use
// it to build request and response messages.
func (s *Server) ServiceDescriptor() *desc.ServiceDescriptor { return s.sd }

// Serve listens on addr and serves until GracefulStop.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.ServeListener(lis)
}

// ServeListener serves on an existing listener until GracefulStop.
func (s *Server) ServeListener(lis net.Listener) error {
	s.log.Info("serving signatures", zap.String("addr", lis.Addr().String()))
	return s.grpc.Serve(lis)
}

// GracefulStop drains in-flight RPCs and stops the server.
func (s *Server) GracefulStop() {
	s.grpc.GracefulStop()
}

func (s *Server) handleUnary(_ context.Context, md *desc.MethodDescriptor, dec func(interface{}) error) (interface{}, error) {
	in := dynamic.NewMessage(md.GetInputType())
	if err := dec(in); err != nil {
		return nil, err
	}
	out := dynamic.NewMessage(md.GetOutputType())
	switch md.GetName() {
	case "Validate":
		s.validate(in, out)
	case "Format":
		s.format(in, out)
	case "Expand":
		s.expand(in, out)
	default:
		return nil, fmt.Errorf("method %s not implemented", md.GetName())
	}
	s.log.Debug("handled rpc", zap.String("method", md.GetName()))
	return out, nil
}

func (s *Server) decodeSignature(in *dynamic.Message) (*signature.Signature, error) {
	raw, _ := in.GetFieldByName("signature").([]byte)
	return wire.UnmarshalSignature(raw, s.types)
}

func (s *Server) validate(in, out *dynamic.Message) {
	sig, err := s.decodeSignature(in)
	if err == nil {
		switch in.GetFieldByName("context") {
		case int32(contextFunction):
			err = sig.ValidateForFunction()
		case int32(contextTableFunction):
			err = sig.ValidateForTableValuedFunction()
		case int32(contextProcedure):
			err = sig.ValidateForProcedure()
		default:
			err = sig.Validate()
		}
	}
	if err != nil {
		out.SetFieldByName("error", err.Error())
		var internal *signature.InternalError
		if errors.As(err, &internal) {
			out.SetFieldByName("internal", true)
		}
		return
	}
	out.SetFieldByName("ok", true)
}

func (s *Server) format(in, out *dynamic.Message) {
	sig, err := s.decodeSignature(in)
	if err != nil {
		out.SetFieldByName("error", err.Error())
		return
	}
	mode, ok := types.ProductModeFromString(in.GetFieldByName("product_mode").(string))
	if !ok {
		out.SetFieldByName("error",
			fmt.Sprintf("unknown product_mode %q", in.GetFieldByName("product_mode")))
		return
	}
	var argNames []string
	if raw, ok := in.GetFieldByName("argument_names").([]interface{}); ok {
		for _, v := range raw {
			if name, ok := v.(string); ok {
				argNames = append(argNames, name)
			}
		}
	}
	fnName := in.GetFieldByName("function_name").(string)
	verbose := in.GetFieldByName("verbose").(bool)
	out.SetFieldByName("debug", sig.DebugString(fnName, verbose))
	out.SetFieldByName("sql", sig.SQLDeclaration(argNames, mode))
}

func (s *Server) expand(in, out *dynamic.Message) {
	sig, err := s.decodeSignature(in)
	if err != nil {
		out.SetFieldByName("error", err.Error())
		return
	}
	mode, ok := types.ProductModeFromString(in.GetFieldByName("product_mode").(string))
	if !ok {
		out.SetFieldByName("error",
			fmt.Sprintf("unknown product_mode %q", in.GetFieldByName("product_mode")))
		return
	}
	if !sig.IsConcrete() {
		return
	}
	out.SetFieldByName("concrete", true)
	args := make([]interface{}, 0, sig.NumConcreteArguments())
	for _, arg := range sig.ConcreteArguments() {
		args = append(args, arg.UserFacingName(mode))
	}
	out.SetFieldByName("arguments", args)
	out.SetFieldByName("result", sig.ResultType().UserFacingName(mode))
}
