// Package view holds the request-scoped view model the HTML clients populate
// and render. A View is an ordered key/value bag plus the helpers templates
// use: request parameters, configuration lookups, URL building and
// translation.
package view
