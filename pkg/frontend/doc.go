// Package frontend declares the commerce collaborators the HTML clients talk
// to: the basket, product, customer and stock controllers plus the locale
// manager. Only the narrow method surface the clients call is modelled here;
// storage, pricing and plugin execution live behind these interfaces.
package frontend
