package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/models"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/repository"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/service"
	pkgErrors "github.com/vogiaan1904/ticketbottle-ticketing/pkg/errors"
	"github.com/vogiaan1904/ticketbottle-ticketing/pkg/logger"
	"github.com/vogiaan1904/ticketbottle-ticketing/pkg/response"
)

const (
	maxBodyBytes = 1 << 20

	headerGatewaySignature = "X-Razorpay-Signature"
)

type HTTPHandler struct {
	ticketSvc   service.TicketService
	checkInSvc  service.CheckInService
	regSvc      service.RegistrationService
	orderSvc    service.OrderService
	authSvc     service.AuthService
	health      repository.HealthChecker
	l           logger.Logger
	validator   *validator.Validate
	serviceName string
}

type Services struct {
	Tickets       service.TicketService
	CheckIns      service.CheckInService
	Registrations service.RegistrationService
	Orders        service.OrderService
	Auth          service.AuthService
}

func NewHTTPHandler(svcs Services, health repository.HealthChecker, l logger.Logger) *HTTPHandler {
	return &HTTPHandler{
		ticketSvc:   svcs.Tickets,
		checkInSvc:  svcs.CheckIns,
		regSvc:      svcs.Registrations,
		orderSvc:    svcs.Orders,
		authSvc:     svcs.Auth,
		health:      health,
		l:           l,
		validator:   validator.New(),
		serviceName: "ticketing-service",
	}
}

// HealthCheck pings the store.
func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.health.Ping(r.Context()); err != nil {
		h.l.Errorf(r.Context(), "delivery.http.HealthCheck: %v", err)
		h.respondJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unhealthy", Service: h.serviceName})
		return
	}
	h.respondJSON(w, http.StatusOK, healthResponse{Status: "healthy", Service: h.serviceName})
}

func (h *HTTPHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	out, err := h.orderSvc.CreateOrder(r.Context(), service.CreateOrderInput{
		Amount:     req.Amount,
		Currency:   req.Currency,
		Name:       req.Name,
		Email:      req.Email,
		EventTitle: req.EventTitle,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, newOrderResponse(out))
}

// VerifyPayment is the client confirmation trigger.
func (h *HTTPHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req verifyPaymentRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.ticketSvc.IssueFromClientPath(r.Context(), service.ClientConfirmationInput{
		OrderID:    req.OrderID,
		PaymentID:  req.PaymentID,
		Signature:  req.Signature,
		EventTitle: req.EventTitle,
		Name:       req.Name,
		Email:      req.Email,
		FormData:   req.FormData,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, verifyPaymentResponse{Success: true, TicketID: res.Ticket.ID})
}

// GatewayWebhook is the server-to-server trigger. The signature covers the
// exact bytes received, so the body is read before anything parses it.
func (h *HTTPHandler) GatewayWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.respondError(w, r, errInvalidBody)
		return
	}

	res, err := h.ticketSvc.IssueFromGatewayPath(r.Context(), body, r.Header.Get(headerGatewaySignature))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	resp := webhookResponse{Received: true, Event: res.Event}
	if res.Ticket != nil {
		resp.TicketID = res.Ticket.ID
	}
	h.respondJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) PreRegister(w http.ResponseWriter, r *http.Request) {
	var req preRegisterRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	reg, err := h.regSvc.PreRegister(r.Context(), service.PreRegisterInput{
		EventTitle: req.EventTitle,
		Name:       req.Name,
		Email:      req.Email,
		FormData:   req.FormData,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, registrationResponse{
		Success:        true,
		RegistrationID: reg.ID,
		Status:         string(reg.Status),
	})
}

// ValidateTicket is the gate scan: POST /api/validate-ticket/{id}?day=1|2.
func (h *HTTPHandler) ValidateTicket(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "id")
	// Unparseable input becomes day 0, which the service rejects.
	day, _ := strconv.Atoi(r.URL.Query().Get("day"))

	res, err := h.checkInSvc.ValidateAndCheckIn(r.Context(), ticketID, day)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	switch res.Outcome {
	case models.CheckInSuccess:
		h.respondJSON(w, http.StatusOK, checkInResponse{Success: true, Message: "Check-in successful", Ticket: res.Ticket})
	case models.CheckInAlreadyCheckedIn:
		h.respondJSON(w, http.StatusOK, checkInResponse{Success: false, Message: "Already checked-in", Ticket: res.Ticket})
	case models.CheckInNotFound:
		h.respondError(w, r, errTicketNotFound)
	default:
		h.respondError(w, r, errInvalidDay)
	}
}

func (h *HTTPHandler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.ticketSvc.List(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if tickets == nil {
		tickets = []*models.Ticket{}
	}

	h.respondJSON(w, http.StatusOK, ticketsResponse{Success: true, Data: tickets})
}

func (h *HTTPHandler) GetTicket(w http.ResponseWriter, r *http.Request) {
	t, err := h.ticketSvc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, ticketResponse{Success: true, Data: t})
}

func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	out, err := h.authSvc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, loginResponse{Success: true, Token: out.Token, ExpiresAt: out.ExpiresAt})
}

// Logout only acknowledges. Tokens are stateless, so the client discards its
// copy and it expires on its own.
func (h *HTTPHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, logoutResponse{Success: true})
}

func (h *HTTPHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := adminFromContext(r.Context())
	if !ok {
		h.respondError(w, r, errUnauthorized)
		return
	}

	h.respondJSON(w, http.StatusOK, meResponse{Authenticated: true, Username: claims.Username})
}

// Helper functions

func (h *HTTPHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		h.l.Debugf(r.Context(), "delivery.http.decodeAndValidate: %v", err)
		h.respondError(w, r, errInvalidBody)
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			details := make([]fieldError, 0, len(vErrs))
			for _, fe := range vErrs {
				details = append(details, fieldError{Field: fe.Field(), Rule: fe.Tag()})
			}
			if err := response.ValidationError(w, codeMissingField, "Validation failed", details); err != nil {
				h.l.Errorf(r.Context(), "delivery.http.decodeAndValidate: %v", err)
			}
			return false
		}
		h.respondError(w, r, errInvalidBody)
		return false
	}

	return true
}

func (h *HTTPHandler) respondJSON(w http.ResponseWriter, statusCode int, data any) {
	if err := response.JSON(w, statusCode, data); err != nil {
		h.l.Errorf(context.Background(), "delivery.http.respondJSON: %v", err)
	}
}

func (h *HTTPHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	mapped := mapError(err)
	var httpErr *pkgErrors.HTTPError
	if errors.As(mapped, &httpErr) {
		h.l.Debugf(r.Context(), "delivery.http %s %s: %v", r.Method, r.URL.Path, err)
	} else {
		h.l.Errorf(r.Context(), "delivery.http %s %s: %v", r.Method, r.URL.Path, err)
	}

	if err := response.Error(w, mapped); err != nil {
		h.l.Errorf(r.Context(), "delivery.http.respondError: %v", err)
	}
}
