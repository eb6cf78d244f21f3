// Package refcrawl provides a crawler for web specification documents.
// It resolves a list of spec URLs or shortnames into descriptors, crawls
// each document to extract structured data (WebIDL, CSS grammar elements,
// cross-references), and consolidates the per-document CSS extracts into
// one deduplicated dataset covering the whole corpus.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, rod/).
package refcrawl
