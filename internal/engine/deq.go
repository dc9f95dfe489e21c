// deq.go - Subtree-specialized alias over the generic deq package
//
// (c) 2024 Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2

package engine

import "github.com/opencoff/chuid/internal/deq"

// DEQ is a pool of *Subtree descriptors -- used for the dispatcher's
// two global pools and for each worker's private backlog.
type DEQ = deq.DEQ[Subtree]

// NewDEQ returns an empty Subtree pool.
func NewDEQ() *DEQ {
	return deq.New(subtreeLink)
}
