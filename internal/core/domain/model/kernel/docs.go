// Package kernel holds the value objects shared by every fulfillment aggregate:
// physical Dimensions of products and packages, and Weight with the carrier's
// minimum chargeable weight.
//
// Values are immutable and validated on construction. A zero value fails Validate,
// which lets aggregates detect values that bypassed their constructors.
package kernel
