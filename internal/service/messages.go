package service

import (
	"errors"
	"fmt"

	"github.com/ali-gai/MCQs-Generator/internal/mcq"
	"github.com/ali-gai/MCQs-Generator/internal/pdftext"
	"github.com/ali-gai/MCQs-Generator/internal/store"
)

// Messages shown to users.
const (
	MsgTooShort    = "The uploaded PDF is too short to generate meaningful MCQs. Try a longer document."
	MsgTooLong     = "The PDF content is too long. Please upload a shorter file or split the document."
	MsgNotPDF      = "The uploaded file is not a PDF."
	MsgUnreadable  = "The PDF could not be read. It may be damaged or encrypted."
	MsgNotFound    = "That document or result no longer exists. Please upload the PDF again."
	MsgGetStarted  = "Upload a PDF file to get started."
	MsgGenerated   = "MCQs generated successfully!"
	MsgThinking    = "Thinking really hard..."
	generateFailed = "An error occurred while generating MCQs: %s"
)

// UserMessage maps a pipeline error to the text shown to the user.
func UserMessage(err error) string {
	var countErr *mcq.CountError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, pdftext.ErrTooShort):
		return MsgTooShort
	case errors.Is(err, pdftext.ErrTooLong):
		return MsgTooLong
	case errors.Is(err, pdftext.ErrNotPDF):
		return MsgNotPDF
	case errors.Is(err, pdftext.ErrUnreadable):
		return MsgUnreadable
	case errors.As(err, &countErr):
		return fmt.Sprintf("Choose between %d and %d MCQs.", countErr.Min, countErr.Max)
	case errors.Is(err, store.ErrNotFound):
		return MsgNotFound
	}
	return fmt.Sprintf(generateFailed, err.Error())
}
