package enums

// DocStatus mirrors the ledger document lifecycle: a draft document is
// mutable, a submitted one is accounting-effective and immutable.
type DocStatus int

const (
	DocStatusDraft     DocStatus = 0
	DocStatusSubmitted DocStatus = 1
	DocStatusCancelled DocStatus = 2
)

// IsSubmitted reports whether the document has been finalized.
func (d DocStatus) IsSubmitted() bool {
	return d == DocStatusSubmitted
}
