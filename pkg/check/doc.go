// Package check runs the global consistency pass over a compiled lock
// configuration and the system document that encloses it.
//
// Rules are registered in a [Registry] and evaluated independently. Each
// rule inspects a read-only [SystemView] and reports [Violation]s. A
// violation of severity Error aborts the system compilation; warnings are
// collected and surfaced to the operator.
//
//	reg := check.NewDefaultRegistry()
//	report := reg.Run(cfg, doc)
//	if err := report.Err(); err != nil {
//	    return err
//	}
package check
