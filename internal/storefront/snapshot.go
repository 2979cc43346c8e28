package storefront

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CartLine is one product/quantity pairing in the cached cart view.
// LineTotal is server-computed when the line came from the server; locally
// derived values are placeholders until the next authoritative load.
type CartLine struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
}

// CartSnapshot is the client's current view of cart contents, mirrored from
// and reconciled against the server. Line order is preserved; ProductID is
// unique within Lines.
type CartSnapshot struct {
	Lines []CartLine
}

// Empty reports whether the snapshot has no lines.
func (s CartSnapshot) Empty() bool { return len(s.Lines) == 0 }

// Total sums the line totals.
func (s CartSnapshot) Total() float64 {
	var t float64
	for _, ln := range s.Lines {
		t += ln.LineTotal
	}
	return t
}

// Merge folds qty of productID into the snapshot. An existing line keeps its
// position and sums quantities, recomputing LineTotal from the known unit
// price; an unknown product appends a bare line whose name and price arrive
// with the next authoritative load.
func (s *CartSnapshot) Merge(productID string, qty int) {
	pid := strings.TrimSpace(productID)
	if pid == "" || qty <= 0 {
		return
	}
	for i := range s.Lines {
		if s.Lines[i].ProductID == pid {
			s.Lines[i].Quantity += qty
			s.Lines[i].LineTotal = s.Lines[i].UnitPrice * float64(s.Lines[i].Quantity)
			return
		}
	}
	s.Lines = append(s.Lines, CartLine{ProductID: pid, Quantity: qty})
}

// Drop removes the whole line for productID. Absent lines are a no-op.
func (s *CartSnapshot) Drop(productID string) {
	for i := range s.Lines {
		if s.Lines[i].ProductID == productID {
			s.Lines = append(s.Lines[:i], s.Lines[i+1:]...)
			return
		}
	}
}

// encode serializes the snapshot for the local store.
func (s CartSnapshot) encode() (string, error) {
	lines := s.Lines
	if lines == nil {
		lines = []CartLine{}
	}
	b, err := json.Marshal(lines)
	if err != nil {
		return "", fmt.Errorf("storefront: encode snapshot: %w", err)
	}
	return string(b), nil
}

// decodeSnapshot parses a persisted snapshot. A corrupt value decodes to an
// empty snapshot rather than poisoning every subsequent operation.
func decodeSnapshot(raw string) CartSnapshot {
	var lines []CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return CartSnapshot{Lines: []CartLine{}}
	}
	if lines == nil {
		lines = []CartLine{}
	}
	return CartSnapshot{Lines: lines}
}
