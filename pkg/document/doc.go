// Package document holds the per-instance state of an editable document: the
// OverrideStore layering operator-supplied values over variant defaults, and
// the Instance lifecycle governing when a document may be printed, exported,
// or saved. Effective-value resolution applies the precedence contract
// compute > override > default > empty string.
package document
