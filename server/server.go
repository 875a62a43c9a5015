// Package server 通过 HTTP 提供发票渲染：POST 发票文件，返回 PDF 或 HTML。
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/ByLCY/faktura/dsl"
	"github.com/ByLCY/faktura/generator"
	"github.com/ByLCY/faktura/iban"
	"github.com/ByLCY/faktura/invoice"
	"github.com/ByLCY/faktura/logger"
	"github.com/ByLCY/faktura/registry"
	"github.com/ByLCY/faktura/renderer"
	htmlrenderer "github.com/ByLCY/faktura/renderer/html"
)

// StylesheetPath 是 HTML 输出引用的样式表地址。
const StylesheetPath = "/assets/" + htmlrenderer.StylesheetName

const localRequestID = "requestid"

// ErrorResponse 是错误响应体。
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// Options 配置 HTTP 服务。
type Options struct {
	Name          string
	DefaultFormat renderer.Format
}

// Server 封装 fiber 应用。
type Server struct {
	app  *fiber.App
	gen  *generator.Generator
	log  *logger.Logger
	opts Options
	css  []byte
}

// New 创建服务并注册路由。
func New(gen *generator.Generator, log *logger.Logger, opts Options) (*Server, error) {
	if gen == nil {
		return nil, fmt.Errorf("server: 缺少 generator")
	}
	if log == nil {
		log = logger.Nop()
	}
	if opts.Name == "" {
		opts.Name = "faktura"
	}
	if opts.DefaultFormat == "" {
		opts.DefaultFormat = renderer.FormatPDF
	}
	css, err := htmlrenderer.Stylesheet()
	if err != nil {
		return nil, err
	}

	s := &Server{gen: gen, log: log.Child("component", "http"), opts: opts, css: []byte(css)}
	s.app = fiber.New(fiber.Config{
		AppName:               opts.Name,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           60 * time.Second,
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(recover.New())
	s.app.Use(requestid.New(requestid.Config{
		Generator:  uuid.NewString,
		ContextKey: localRequestID,
	}))
	s.app.Use(s.accessLog)

	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": opts.Name})
	})
	s.app.Get(StylesheetPath, s.stylesheet)
	s.app.Post("/invoices", s.createInvoice)
	return s, nil
}

// App 返回底层 fiber 应用（测试使用 app.Test）。
func (s *Server) App() *fiber.App { return s.app }

// Listen 开始监听，直到 Shutdown 被调用。
func (s *Server) Listen(addr string) error {
	s.log.Info().Str("addr", addr).Msg("HTTP 服务启动")
	return s.app.Listen(addr)
}

// Shutdown 在 ctx 到期前优雅关闭。
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// createInvoice 读取请求体中的发票文件，按 ?format=pdf|html 渲染。
func (s *Server) createInvoice(c *fiber.Ctx) error {
	format := renderer.Format(c.Query("format", string(s.opts.DefaultFormat)))
	if _, err := s.gen.Renderer(format); err != nil {
		return err
	}
	if len(c.Body()) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "请求体为空")
	}

	draft, err := dsl.ParseDraft(string(c.Body()))
	if err != nil {
		return err
	}
	out, err := s.gen.Generate(c.UserContext(), *draft, format)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, out.ContentType())
	if format == renderer.FormatPDF {
		c.Set(fiber.HeaderContentDisposition,
			fmt.Sprintf("inline; filename=\"faktura-%s.pdf\"", out.Invoice.Number()))
	}
	return c.Status(fiber.StatusOK).Send(out.Data)
}

func (s *Server) stylesheet(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/css; charset=utf-8")
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.Send(s.css)
}

func (s *Server) accessLog(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	status := c.Response().StatusCode()
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else {
			status, _ = classify(err)
		}
	}
	s.log.Info().
		Str("request_id", requestID(c)).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", status).
		Dur("elapsed", time.Since(start)).
		Msg("请求完成")
	return err
}

// handleError 把错误映射为状态码与 JSON 错误体。
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status, code := classify(err)
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status, code = fe.Code, "HTTP"
	}
	if status >= fiber.StatusInternalServerError {
		s.log.Error().Err(err).Str("request_id", requestID(c)).Msg("请求失败")
	}
	return c.Status(status).JSON(ErrorResponse{
		Code:      code,
		Message:   err.Error(),
		RequestID: requestID(c),
	})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, generator.ErrUnsupportedFormat):
		return fiber.StatusBadRequest, "UNSUPPORTED_FORMAT"
	case errors.Is(err, dsl.ErrInvalidInvoice):
		return fiber.StatusBadRequest, "INVALID_INVOICE"
	case errors.Is(err, registry.ErrNotFound):
		return fiber.StatusUnprocessableEntity, "ENTITY_NOT_FOUND"
	case errors.Is(err, registry.ErrNetwork), errors.Is(err, registry.ErrBadResponse):
		return fiber.StatusBadGateway, "REGISTRY_UNAVAILABLE"
	case errors.Is(err, invoice.ErrDueBeforeIssue),
		errors.Is(err, invoice.ErrMissingIBAN),
		errors.Is(err, invoice.ErrMissingParty),
		errors.Is(err, invoice.ErrMissingPayment),
		errors.Is(err, invoice.ErrMissingItemKind),
		errors.Is(err, invoice.ErrInvalidVariableSymbol),
		errors.Is(err, invoice.ErrInvalidRegistrationNumber),
		errors.Is(err, invoice.ErrInvalidPostalCode),
		errors.Is(err, iban.ErrInvalid):
		return fiber.StatusUnprocessableEntity, "VALIDATION"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(localRequestID).(string)
	return id
}
