package billpdf

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure classes of a render.
var (
	ErrNoItems         = errors.New("billpdf: document has no line items")
	ErrUnknownDocument = errors.New("billpdf: unknown document kind")
	ErrAsset           = errors.New("billpdf: undecodable asset")
	ErrOverflow        = errors.New("billpdf: invalid height estimate")
	ErrNegativeTotal   = errors.New("billpdf: grand total is negative")
)

// ValidationError reports a document that cannot be rendered. Nothing has
// been drawn when it is returned.
type ValidationError struct {
	Kind     string   // "estimate", "transaction" or "document"
	Problems []string // one entry per failing field
	Err      error    // ErrNoItems, ErrUnknownDocument or the validator's errors
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return fmt.Sprintf("billpdf: invalid %s", e.Kind)
	}
	return fmt.Sprintf("billpdf: invalid %s: %s", e.Kind, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// AssetError reports an image or letterhead that could not be used. It is
// never fatal: the render substitutes a fallback and lists the error in
// Result.Warnings.
type AssetError struct {
	Asset string // logo, signature, letterhead, qr or reference
	Err   error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("billpdf: asset %s: %v", e.Asset, e.Err)
}

func (e *AssetError) Unwrap() error { return e.Err }

func (e *AssetError) Is(target error) bool { return target == ErrAsset }

// OverflowError reports a height estimate that is negative or undefined,
// which happens only with a broken theme. It aborts the render.
type OverflowError struct {
	Section string
	Height  float64
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("billpdf: section %s: invalid height estimate %v", e.Section, e.Height)
}

func (e *OverflowError) Is(target error) bool { return target == ErrOverflow }

// RenderError wraps a failure of the drawing backend.
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("billpdf.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("billpdf.%s: unknown error", e.Op)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
