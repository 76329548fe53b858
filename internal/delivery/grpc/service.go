package grpc

import (
	"context"
	"math"

	"github.com/vogiaan1904/ticketbottle-ticketing/internal/models"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/service"
	"github.com/vogiaan1904/ticketbottle-ticketing/pkg/logger"
	resp "github.com/vogiaan1904/ticketbottle-ticketing/pkg/response"
	"github.com/vogiaan1904/ticketbottle-ticketing/pkg/util"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	TicketingServiceName = "ticketing.v1.Ticketing"

	methodValidateTicket = "/" + TicketingServiceName + "/ValidateTicket"
	methodGetTicket      = "/" + TicketingServiceName + "/GetTicket"
)

// TicketingServer serves gate scanners. Messages are google.protobuf.Struct
// so clients need no generated stubs.
type TicketingServer interface {
	// ValidateTicket takes {ticket_id, day}.
	ValidateTicket(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	// GetTicket takes {ticket_id}.
	GetTicket(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type grpcService struct {
	ticketSvc  service.TicketService
	checkInSvc service.CheckInService
	l          logger.Logger
}

func NewGrpcService(ticketSvc service.TicketService, checkInSvc service.CheckInService, l logger.Logger) TicketingServer {
	return &grpcService{
		ticketSvc:  ticketSvc,
		checkInSvc: checkInSvc,
		l:          l,
	}
}

func RegisterTicketingServer(s grpc.ServiceRegistrar, srv TicketingServer) {
	s.RegisterService(&ticketingServiceDesc, srv)
}

func (s *grpcService) ValidateTicket(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ticketID := req.GetFields()["ticket_id"].GetStringValue()
	day, ok := dayFromValue(req.GetFields()["day"])
	if !ok {
		return nil, resp.ParseGRPCError(errInvalidDay)
	}

	out, err := s.checkInSvc.ValidateAndCheckIn(ctx, ticketID, day)
	if err != nil {
		s.l.Errorf(ctx, "delivery.grpc.ValidateTicket: %v", err)
		return nil, resp.ParseGRPCError(mapGRPCError(err))
	}

	var res map[string]any
	switch out.Outcome {
	case models.CheckInSuccess:
		res = map[string]any{"success": true, "message": "Check-in successful"}
	case models.CheckInAlreadyCheckedIn:
		res = map[string]any{"success": false, "message": "Already checked-in"}
	case models.CheckInNotFound:
		return nil, resp.ParseGRPCError(errTicketNotFound)
	default:
		return nil, resp.ParseGRPCError(errInvalidDay)
	}

	res["outcome"] = string(out.Outcome)
	res["day"] = out.Day
	if out.Ticket != nil {
		res["name"] = out.Ticket.Name
		res["event"] = out.Ticket.Event
	}
	return structpb.NewStruct(res)
}

func (s *grpcService) GetTicket(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	t, err := s.ticketSvc.Get(ctx, req.GetFields()["ticket_id"].GetStringValue())
	if err != nil {
		s.l.Errorf(ctx, "delivery.grpc.GetTicket: %v", err)
		return nil, resp.ParseGRPCError(mapGRPCError(err))
	}

	res := map[string]any{
		"ticket_id":    t.ID,
		"event":        t.EventTitle,
		"name":         t.Name,
		"email":        t.Email,
		"payment_id":   t.PaymentID,
		"status_day_1": string(t.Day1),
		"status_day_2": string(t.Day2),
		"created_at":   util.TimeToISO8601Str(t.CreatedAt.UTC()),
		"form_data":    map[string]any(t.FormData),
	}
	if t.Day1CheckedInAt != nil {
		res["day_1_checked_in_at"] = util.TimeToISO8601Str(t.Day1CheckedInAt.UTC())
	}
	if t.Day2CheckedInAt != nil {
		res["day_2_checked_in_at"] = util.TimeToISO8601Str(t.Day2CheckedInAt.UTC())
	}
	return structpb.NewStruct(res)
}

// dayFromValue accepts only whole numbers; a missing day reads as 0 and is
// rejected by the check-in service.
func dayFromValue(v *structpb.Value) (int, bool) {
	f := v.GetNumberValue()
	if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

var ticketingServiceDesc = grpc.ServiceDesc{
	ServiceName: TicketingServiceName,
	HandlerType: (*TicketingServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ValidateTicket", Handler: validateTicketHandler},
		{MethodName: "GetTicket", Handler: getTicketHandler},
	},
	Streams: []grpc.StreamDesc{},
}

func validateTicketHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TicketingServer).ValidateTicket(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodValidateTicket}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TicketingServer).ValidateTicket(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func getTicketHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TicketingServer).GetTicket(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetTicket}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(TicketingServer).GetTicket(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}
