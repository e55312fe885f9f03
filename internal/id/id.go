package id

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
)

// Generator produces opaque line item identifiers.
type Generator func() string

// NewItemID returns a fresh opaque line item ID.
func NewItemID() string {
	return uuid.NewString()
}

// DefaultInvoicePrefix is prepended to generated invoice numbers.
const DefaultInvoicePrefix = "INV"

const (
	minInvoiceSeq = 10000
	maxInvoiceSeq = 99999
)

// FormatInvoiceNumber returns an invoice number like "INV-10042".
func FormatInvoiceNumber(prefix string, seq int) string {
	if prefix == "" {
		prefix = DefaultInvoicePrefix
	}
	return fmt.Sprintf("%s-%05d", prefix, seq)
}

// NewInvoiceNumber returns a random five-digit invoice number with prefix.
func NewInvoiceNumber(prefix string, r *rand.Rand) string {
	var n int
	if r != nil {
		n = r.IntN(maxInvoiceSeq - minInvoiceSeq + 1)
	} else {
		n = rand.IntN(maxInvoiceSeq - minInvoiceSeq + 1)
	}
	return FormatInvoiceNumber(prefix, minInvoiceSeq+n)
}
