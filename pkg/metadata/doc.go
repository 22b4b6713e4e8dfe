// Package metadata loads per-sample columns from a tab-separated sample
// sheet. The first column of the sheet is the sample id; further columns are
// addressed by their header name. Lines starting with '#' are ignored, which
// covers the type-annotation rows some hosts put below the header.
package metadata
