// Package colorbar renders a vertical legend for a continuous colour scale.
//
// A [Chart] is built once from a scale and draws into any number of
// containers; every call builds fresh elements, so containers share no
// state. The bar is filled one pixel row at a time with the colour of the
// value that row maps back to.
package colorbar
