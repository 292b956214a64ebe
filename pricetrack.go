// Package pricetrack tracks product prices across e-commerce sites.
// It extracts structured product data from arbitrary product pages,
// re-checks tracked items on a schedule, records an append-only price
// history and notifies on price drops and restocks.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, rod/).
package pricetrack
