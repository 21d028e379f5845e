// Package config exposes the read-only configuration accessor used by the HTML
// clients. Keys are slash delimited, mirroring the client paths they configure
// (for example "client/html/basket/standard/check"), and every lookup takes a
// fallback that is returned verbatim when the key is not set.
package config
