// Package id supplies the UUID generator behind the application layer's
// IDGenerator ports.
package id

import "github.com/google/uuid"

type Generator struct{}

func NewGenerator() Generator { return Generator{} }

func (Generator) NewID() string { return uuid.NewString() }
