package ident

import (
	"encoding/binary"
	"sync"

	"github.com/google/uuid"
)

// DefaultNamespace seeds generators built from an empty namespace string.
var DefaultNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("danmaku"))

// Generator hands out name-based UUIDs derived from a namespace and a running
// counter. Two generators with the same namespace produce the same sequence.
type Generator struct {
	mu        sync.Mutex
	namespace uuid.UUID
	issued    uint64
}

func New(namespace uuid.UUID) *Generator {
	return &Generator{namespace: namespace}
}

// FromString builds a generator from a UUID string. Any other non-empty text
// is hashed into a namespace.
func FromString(namespace string) *Generator {
	if namespace == "" {
		return New(DefaultNamespace)
	}
	if ns, err := uuid.Parse(namespace); err == nil {
		return New(ns)
	}
	return New(uuid.NewSHA1(DefaultNamespace, []byte(namespace)))
}

// NextGUID returns the next identifier in the sequence.
func (g *Generator) NextGUID() string {
	g.mu.Lock()
	n := g.issued
	g.issued++
	g.mu.Unlock()

	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], n)
	return uuid.NewSHA1(g.namespace, buf[:]).String()
}

// Issued reports how many identifiers have been handed out.
func (g *Generator) Issued() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.issued
}
