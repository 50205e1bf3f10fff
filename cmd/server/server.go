package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/yourorg/payment-router/internal/domain"
	"github.com/yourorg/payment-router/internal/errs"
	"github.com/yourorg/payment-router/internal/flows"
	"github.com/yourorg/payment-router/internal/monitor"
	"github.com/yourorg/payment-router/internal/secret"
)

// paymentSchema is the inbound contract for POST /payments. Bodies are
// rejected before any domain code runs.
const paymentSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"title": "PaymentRequest",
	"type": "object",
	"properties": {
		"merchant_id": { "type": "string", "minLength": 1 },
		"connector": { "type": "string", "minLength": 1 },
		"amount": { "type": "integer", "minimum": 0 },
		"currency": { "type": "string", "minLength": 3, "maxLength": 3 },
		"confirm": { "type": "boolean" },
		"description": { "type": "string" },
		"return_url": { "type": "string" },
		"card": {
			"type": "object",
			"properties": {
				"number": { "type": "string", "minLength": 12 },
				"exp_month": { "type": "string" },
				"exp_year": { "type": "string" },
				"holder_name": { "type": "string" },
				"cvc": { "type": "string" }
			},
			"required": ["number", "exp_month", "exp_year", "cvc"]
		}
	},
	"required": ["merchant_id", "connector", "amount", "currency", "card"]
}`

type server struct {
	engine  *gin.Engine
	flows   *flows.Service
	monitor *monitor.ContractMonitor
	logger  *zap.Logger
}

func newServer(flowService *flows.Service, logger *zap.Logger, registry *prometheus.Registry) (*server, error) {
	contract, err := monitor.NewContractMonitor([]byte(paymentSchema))
	if err != nil {
		return nil, err
	}

	s := &server{
		flows:   flowService,
		monitor: contract,
		logger:  logger,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(otelgin.Middleware("payment-router"))

	engine.POST("/payments", s.handleAuthorize)
	engine.POST("/payments/:id/capture", s.handleCapture)
	engine.GET("/payments/:id", s.handlePSync)
	engine.POST("/refunds", s.handleRefundExecute)
	engine.GET("/refunds/:id", s.handleRefundSync)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	s.engine = engine
	return s, nil
}

// Wire DTOs. Cardholder data goes straight into secret wrappers; the raw
// strings never touch a log statement.

type cardBody struct {
	Number     string `json:"number"`
	ExpMonth   string `json:"exp_month"`
	ExpYear    string `json:"exp_year"`
	HolderName string `json:"holder_name"`
	CVC        string `json:"cvc"`
}

type addressBody struct {
	Line1     *string `json:"line1"`
	Line2     *string `json:"line2"`
	City      *string `json:"city"`
	Country   *string `json:"country"`
	Zip       *string `json:"zip"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

type browserInfoBody struct {
	IPAddress         *string `json:"ip_address"`
	AcceptHeader      string  `json:"accept_header"`
	Language          string  `json:"language"`
	UserAgent         string  `json:"user_agent"`
	JavaScriptEnabled bool    `json:"java_script_enabled"`
	ScreenWidth       uint32  `json:"screen_width"`
	ScreenHeight      uint32  `json:"screen_height"`
	ColorDepth        uint8   `json:"color_depth"`
	TimeZoneOffset    int32   `json:"time_zone_offset"`
}

type paymentBody struct {
	MerchantID  string           `json:"merchant_id"`
	Connector   string           `json:"connector"`
	Amount      int64            `json:"amount"`
	Currency    string           `json:"currency"`
	Confirm     bool             `json:"confirm"`
	Description *string          `json:"description"`
	ReturnURL   *string          `json:"return_url"`
	Card        cardBody         `json:"card"`
	Billing     *addressBody     `json:"billing_address"`
	BrowserInfo *browserInfoBody `json:"browser_info"`
}

type captureBody struct {
	MerchantID             string `json:"merchant_id"`
	Connector              string `json:"connector"`
	ConnectorTransactionID string `json:"connector_transaction_id"`
	Amount                 int64  `json:"amount"`
	Currency               string `json:"currency"`
}

type refundBody struct {
	MerchantID             string  `json:"merchant_id"`
	Connector              string  `json:"connector"`
	PaymentID              string  `json:"payment_id"`
	ConnectorTransactionID string  `json:"connector_transaction_id"`
	Amount                 int64   `json:"amount"`
	Currency               string  `json:"currency"`
	Reason                 *string `json:"reason"`
}

func secretPtr(s *string) *secret.Secret[string] {
	if s == nil {
		return nil
	}
	wrapped := secret.New(*s)
	return &wrapped
}

func (a *addressBody) toDomain() *domain.Address {
	if a == nil {
		return nil
	}
	return &domain.Address{
		Line1:     secretPtr(a.Line1),
		Line2:     secretPtr(a.Line2),
		City:      a.City,
		Country:   a.Country,
		Zip:       secretPtr(a.Zip),
		FirstName: secretPtr(a.FirstName),
		LastName:  secretPtr(a.LastName),
	}
}

func (b *browserInfoBody) toDomain() *domain.BrowserInfo {
	if b == nil {
		return nil
	}
	return &domain.BrowserInfo{
		IPAddress:         b.IPAddress,
		AcceptHeader:      b.AcceptHeader,
		Language:          b.Language,
		UserAgent:         b.UserAgent,
		JavaScriptEnabled: b.JavaScriptEnabled,
		ScreenWidth:       b.ScreenWidth,
		ScreenHeight:      b.ScreenHeight,
		ColorDepth:        b.ColorDepth,
		TimeZoneOffset:    b.TimeZoneOffset,
	}
}

// Response shapes.

type errorEnvelope struct {
	ErrorType string `json:"error_type"`
	Message   string `json:"message"`
}

type paymentResponse struct {
	PaymentID              string                `json:"payment_id"`
	Status                 domain.AttemptStatus  `json:"status"`
	ConnectorTransactionID string                `json:"connector_transaction_id,omitempty"`
	Error                  *domain.ErrorResponse `json:"error,omitempty"`
}

type refundResponse struct {
	RefundID          string                `json:"refund_id"`
	RefundStatus      domain.RefundStatus   `json:"refund_status,omitempty"`
	ConnectorRefundID string                `json:"connector_refund_id,omitempty"`
	Error             *domain.ErrorResponse `json:"error,omitempty"`
}

func paymentResponseFrom(rd *domain.PaymentsRouterData) paymentResponse {
	resp := paymentResponse{PaymentID: rd.PaymentID, Status: rd.Status, Error: rd.Error}
	if rd.Response != nil {
		resp.ConnectorTransactionID = rd.Response.ResourceID.ConnectorTransactionID
	}
	return resp
}

func refundResponseFrom(rd *domain.RefundsRouterData) refundResponse {
	resp := refundResponse{RefundID: rd.Request.RefundID, Error: rd.Error}
	if rd.Response != nil {
		resp.RefundStatus = rd.Response.RefundStatus
		resp.ConnectorRefundID = rd.Response.ConnectorRefundID
	}
	return resp
}

// respondError maps the top-level error kind to the HTTP status. The
// error text sent outward is the classified message, never a raw
// connector body.
func (s *server) respondError(c *gin.Context, err error) {
	var routerErr *errs.RouterError
	if !errors.As(err, &routerErr) {
		routerErr = &errs.RouterError{Kind: errs.KindUnexpected, Message: "internal error"}
	}
	s.logger.Warn("request failed",
		zap.String("path", c.FullPath()),
		zap.String("error_type", string(routerErr.Kind)),
		zap.Error(err),
	)
	c.JSON(routerErr.StatusCode(), errorEnvelope{
		ErrorType: string(routerErr.Kind),
		Message:   routerErr.Message,
	})
}

func (s *server) handleAuthorize(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		s.respondError(c, errs.FromIO(err))
		return
	}

	valid, validationErrors, err := s.monitor.Validate(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorEnvelope{
			ErrorType: string(errs.KindParsing),
			Message:   "request body is not valid JSON",
		})
		return
	}
	if !valid {
		c.JSON(http.StatusBadRequest, errorEnvelope{
			ErrorType: string(errs.KindValidation),
			Message:   monitor.FormatErrors(validationErrors),
		})
		return
	}

	var body paymentBody
	if err := json.Unmarshal(raw, &body); err != nil {
		c.JSON(http.StatusBadRequest, errorEnvelope{
			ErrorType: string(errs.KindParsing),
			Message:   "request body is not valid JSON",
		})
		return
	}

	rd, err := s.flows.Authorize(c.Request.Context(), flows.AuthorizeRequest{
		MerchantID:    body.MerchantID,
		ConnectorName: domain.ConnectorName(body.Connector),
		Amount:        body.Amount,
		Currency:      domain.Currency(body.Currency),
		Description:   body.Description,
		ReturnURL:     body.ReturnURL,
		Confirm:       body.Confirm,
		PaymentMethod: domain.Card{
			Number:     secret.New(body.Card.Number),
			ExpMonth:   secret.New(body.Card.ExpMonth),
			ExpYear:    secret.New(body.Card.ExpYear),
			HolderName: secret.New(body.Card.HolderName),
			CVC:        secret.New(body.Card.CVC),
		},
		Address:     domain.PaymentAddress{Billing: body.Billing.toDomain()},
		BrowserInfo: body.BrowserInfo.toDomain(),
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymentResponseFrom(rd))
}

func (s *server) handleCapture(c *gin.Context) {
	var body captureBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorEnvelope{
			ErrorType: string(errs.KindParsing),
			Message:   "request body is not valid JSON",
		})
		return
	}

	rd, err := s.flows.Capture(c.Request.Context(), flows.CaptureRequest{
		MerchantID:             body.MerchantID,
		ConnectorName:          domain.ConnectorName(body.Connector),
		PaymentID:              c.Param("id"),
		ConnectorTransactionID: body.ConnectorTransactionID,
		Amount:                 body.Amount,
		Currency:               domain.Currency(body.Currency),
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymentResponseFrom(rd))
}

func (s *server) handlePSync(c *gin.Context) {
	rd, err := s.flows.PSync(c.Request.Context(), flows.PSyncRequest{
		MerchantID:             c.Query("merchant_id"),
		ConnectorName:          domain.ConnectorName(c.Query("connector")),
		PaymentID:              c.Param("id"),
		ConnectorTransactionID: c.Query("connector_transaction_id"),
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymentResponseFrom(rd))
}

func (s *server) handleRefundExecute(c *gin.Context) {
	var body refundBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorEnvelope{
			ErrorType: string(errs.KindParsing),
			Message:   "request body is not valid JSON",
		})
		return
	}

	rd, err := s.flows.RefundExecute(c.Request.Context(), flows.RefundExecuteRequest{
		MerchantID:             body.MerchantID,
		ConnectorName:          domain.ConnectorName(body.Connector),
		PaymentID:              body.PaymentID,
		ConnectorTransactionID: body.ConnectorTransactionID,
		RefundAmount:           body.Amount,
		Currency:               domain.Currency(body.Currency),
		Reason:                 body.Reason,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, refundResponseFrom(rd))
}

func (s *server) handleRefundSync(c *gin.Context) {
	rd, err := s.flows.RefundSync(c.Request.Context(), flows.RefundSyncRequest{
		MerchantID:        c.Query("merchant_id"),
		ConnectorName:     domain.ConnectorName(c.Query("connector")),
		PaymentID:         c.Query("payment_id"),
		RefundID:          c.Query("refund_id"),
		ConnectorRefundID: c.Param("id"),
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, refundResponseFrom(rd))
}
