package bizdoc

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DocumentType identifies the kind of business document.
type DocumentType string

// Supported document types.
const (
	TypeQuotation            DocumentType = "quotation"
	TypeTransactionStatement DocumentType = "transaction-statement"
	TypeContract             DocumentType = "contract"
	TypePresentation         DocumentType = "presentation"
	TypeProposal             DocumentType = "proposal"
	TypeMinutes              DocumentType = "minutes"
	TypeEmail                DocumentType = "email"
)

// typeLabels holds the Korean display label of each document type.
var typeLabels = map[DocumentType]string{
	TypeQuotation:            "견적서",
	TypeTransactionStatement: "거래명세서",
	TypeContract:             "계약서",
	TypePresentation:         "프레젠테이션",
	TypeProposal:             "제안서",
	TypeMinutes:              "회의록",
	TypeEmail:                "이메일",
}

// DocumentTypes returns all supported types in a stable order.
func DocumentTypes() []DocumentType {
	return []DocumentType{
		TypeQuotation,
		TypeTransactionStatement,
		TypeContract,
		TypePresentation,
		TypeProposal,
		TypeMinutes,
		TypeEmail,
	}
}

// Valid reports whether t is a known document type.
func (t DocumentType) Valid() bool {
	_, ok := typeLabels[t]
	return ok
}

// Label returns the Korean display label, or the raw type for unknown values.
func (t DocumentType) Label() string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	return string(t)
}

// Status is the lifecycle state of a document.
type Status string

// Document lifecycle states.
const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Content types of the rendered outputs.
const (
	ContentTypePDF  = "application/pdf"
	ContentTypePPTX = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
)

// FileMeta describes an uploaded reference file. Raw bytes are not kept.
type FileMeta struct {
	Name     string `json:"name"`
	MIMEType string `json:"mimeType"`
}

// FormData is the user input a document was generated from.
type FormData struct {
	Fields map[string]any `json:"fields,omitempty"`
	Files  []FileMeta     `json:"files,omitempty"`
}

// Document is a generated business document.
// Content is the raw JSON produced by the generation step and is never
// modified by rendering.
type Document struct {
	ID        string          `json:"id"`
	Type      DocumentType    `json:"type"`
	Title     string          `json:"title"`
	Content   json.RawMessage `json:"content"`
	FormData  FormData        `json:"formData"`
	Status    Status          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Validate checks the fields every stored document must carry.
func (d *Document) Validate() error {
	if d == nil {
		return ErrNilDocument
	}
	if !d.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDocumentType, d.Type)
	}
	if strings.TrimSpace(d.Title) == "" {
		return ErrEmptyTitle
	}
	if !d.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, d.Status)
	}
	return nil
}

// CompanyInfo holds the issuer branding embedded in every rendered document.
type CompanyInfo struct {
	Name           string `json:"name"`
	BusinessNumber string `json:"businessNumber"`
	Address        string `json:"address"`
	BusinessType   string `json:"businessType"`
	Representative string `json:"representative"`
}
