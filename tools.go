//go:build tools

// Package tools pins the code generators run by go generate (mockgen) in go.mod.
package decision_lab

import (
	_ "go.uber.org/mock/mockgen"
)
