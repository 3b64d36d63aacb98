package compiler

import "fmt"

// CompileError reports a schema or structural problem found while
// lowering the AST. Offending carries the AST node (or node id) that
// triggered the failure, per §6/§7's diagnostics contract.
type CompileError struct {
	Kind      string
	Message   string
	Offending any
}

func (e CompileError) Error() string {
	return fmt.Sprintf("compile error (%v): %v", e.Kind, e.Message)
}

func schemaError(message string, offending any) error {
	return CompileError{Kind: "SchemaError", Message: message, Offending: offending}
}

func badSetInstruction(message string, offending any) error {
	return CompileError{Kind: "BadSetInstruction", Message: message, Offending: offending}
}

func structuralError(message string, offending any) error {
	return CompileError{Kind: "StructuralError", Message: message, Offending: offending}
}
