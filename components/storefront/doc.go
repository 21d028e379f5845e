// Package storefront serves the HTML clients over net/http: the basket, the
// checkout address step and the catalog stock indicator. Each request gets
// its own storectx.Context, session and view; the rendered header and body
// are wrapped in the page layout.
package storefront
