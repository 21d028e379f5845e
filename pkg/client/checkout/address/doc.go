// Package address implements the address step of the checkout:
// checkout/standard/address and its billing and delivery sub-clients.
//
// The step renders only while it is the active checkout step (or when both
// it and the active step are configured as one page). Processing failures
// mark the step active and are returned to the caller so the surrounding
// checkout flow stays on this step.
package address
