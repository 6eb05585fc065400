// Package harvest provides a domain-scoped crawler that discovers pages and
// linked documents under a fixed set of allowed hosts, extracts their text,
// and emits records for downstream indexing.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, colly/).
package harvest
