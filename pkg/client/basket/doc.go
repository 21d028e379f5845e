// Package basket implements the basket/standard client. It applies basket
// mutations from request parameters (add, update and delete line items,
// add and remove coupons), runs the configured product checks and renders
// the basket with its tax and cost summaries.
package basket
