// Package i18n translates storefront messages by domain ("client",
// "controller/frontend", "mshop", "mshop/code"). Catalogs are YAML documents
// named after their locale, each mapping domain → message id → translation.
// Locale negotiation uses golang.org/x/text/language matching.
package i18n
