// Package client implements the composable HTML client core: the Client
// contract, the Base every section embeds, the Factory that resolves client
// paths to constructors, and the decorator registry that wraps created
// clients.
//
// A client is created per request through Factory.Create. Its view is
// populated at most once through the outermost decorated object; populating
// writes the client's own fields and then runs every configured sub-client in
// order.
package client
