// Package credit implements the deterministic credit pipeline: deriving the
// five normalized-input metrics from a raw client record, and turning those
// metrics into a credit score, default probability, risk category and
// recommendation.
//
// Everything here is a pure function of its arguments. The current time is
// passed in explicitly so derivations are reproducible.
package credit
