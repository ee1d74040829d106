package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "✓" // Healthy or completed
	SymbolFail     = "✗" // Failed
	SymbolPending  = "○" // Not yet determined
	SymbolProgress = "◐" // In progress
)
