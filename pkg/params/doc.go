// Package params parses storefront request parameters. Form names use the
// bracket notation browsers submit for nested inputs:
//
//	b_prod[0][prodid]=12&b_prod[0][quantity]=2&s_prodcode[]=A&s_prodcode[]=B
//
// Parsed values form a tree of map[string]any, []any and string leaves. Maps
// whose keys are exactly 0..n-1 are converted into lists ordered by index, so
// batch rows are always visited in submission order. Sparse integer keys (such
// as attribute ids) stay maps.
package params
