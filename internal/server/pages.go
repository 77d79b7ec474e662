package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ali-gai/MCQs-Generator/internal/export"
	"github.com/ali-gai/MCQs-Generator/internal/service"
	"github.com/ali-gai/MCQs-Generator/internal/store"
)

const pageTitle = "MCQ Generator from PDF"

// page is the data every HTML template receives.
type page struct {
	Title   string
	Info    string
	Error   string
	Success string

	MinCount int
	MaxCount int
	Count    int

	Document   *store.Document
	Generation *store.Generation
	Warnings   []string
	Formats    []export.Format
}

func (s *Server) newPage(count int) *page {
	if count == 0 {
		count = s.cfg.Limits.DefaultQuestions
	}
	return &page{
		Title:    pageTitle,
		MinCount: s.cfg.Limits.MinQuestions,
		MaxCount: s.cfg.Limits.MaxQuestions,
		Count:    count,
		Formats:  export.Formats,
	}
}

func (s *Server) handleIndex(c echo.Context) error {
	p := s.newPage(0)
	p.Info = service.MsgGetStarted
	return c.Render(http.StatusOK, "index.html", p)
}

func (s *Server) handleUploadPage(c echo.Context) error {
	count, err := s.formCount(c)
	if err != nil {
		p := s.newPage(0)
		p.Error = pageMessage(err)
		return c.Render(http.StatusBadRequest, "index.html", p)
	}
	p := s.newPage(count)

	name, data, err := readUpload(c)
	if err != nil {
		p.Error = pageMessage(err)
		return c.Render(pipelineError(err, "file", "").Status, "index.html", p)
	}

	doc, err := s.svc.Prepare(c.Request().Context(), name, data)
	if err != nil {
		p.Error = pageMessage(err)
		return c.Render(pipelineError(err, "document", name).Status, "index.html", p)
	}
	p.Document = doc
	return c.Render(http.StatusOK, "document.html", p)
}

func (s *Server) handleGeneratePage(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	doc, err := s.svc.Document(ctx, id)
	if err != nil {
		p := s.newPage(0)
		p.Error = pageMessage(err)
		return c.Render(pipelineError(err, "document", id).Status, "index.html", p)
	}

	count, err := s.formCount(c)
	p := s.newPage(count)
	p.Document = doc
	if err != nil {
		p.Error = pageMessage(err)
		return c.Render(http.StatusBadRequest, "document.html", p)
	}

	gen, res, err := s.svc.Generate(ctx, doc.ID, count)
	if err != nil {
		p.Error = pageMessage(err)
		return c.Render(pipelineError(err, "document", id).Status, "document.html", p)
	}
	p.Generation = gen
	p.Warnings = res.Warnings
	p.Success = service.MsgGenerated
	return c.Render(http.StatusOK, "result.html", p)
}

func (s *Server) handleDownload(c echo.Context) error {
	return s.sendExport(c, c.Param("format"))
}

// sendExport writes a stored generation as an attachment.
func (s *Server) sendExport(c echo.Context, format string) error {
	id := c.Param("id")
	f, err := export.ParseFormat(format)
	if err != nil {
		return NewBadRequestError("format must be pdf or txt", err)
	}
	data, err := s.svc.Export(c.Request().Context(), id, f)
	if err != nil {
		return pipelineError(err, "generation", id)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", f.FileName()))
	return c.Blob(http.StatusOK, f.ContentType(), data)
}

// formCount reads the count form field, defaulting when it is absent.
func (s *Server) formCount(c echo.Context) (int, error) {
	v := strings.TrimSpace(c.FormValue("count"))
	if v == "" {
		return s.cfg.Limits.DefaultQuestions, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, NewBadRequestError("The number of MCQs must be a whole number.", err)
	}
	return n, nil
}

// readUpload returns the name and content of the multipart "file" field.
func readUpload(c echo.Context) (string, []byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		apiErr := NewValidationError("file")
		apiErr.Message = "Please choose a PDF file to upload."
		return "", nil, apiErr
	}
	f, err := fh.Open()
	if err != nil {
		return "", nil, NewBadRequestError("failed to open uploaded file", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, NewBadRequestError("failed to read uploaded file", err)
	}
	return fh.Filename, data, nil
}

// pageMessage is the sentence shown on an HTML page for err.
func pageMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return service.UserMessage(err)
}
